package admin

import "go.mongodb.org/mongo-driver/bson/primitive"

// Admin is a dashboard operator. Password always holds a bcrypt hash.
type Admin struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Email    string             `json:"email" bson:"email"`
	Password string             `json:"-" bson:"password"`
}

type Summary struct {
	ID    primitive.ObjectID `json:"_id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
}

type CreateRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type PasswordRequest struct {
	Password string `json:"password" form:"password"`
}

func (a *Admin) ToSummary() Summary {
	return Summary{ID: a.ID, Name: a.Name, Email: a.Email}
}
