package user

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a tracked end-user. Only Name is guaranteed: reconciled users are
// created from activity records and carry no email or password.
type User struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Email    string             `json:"email,omitempty" bson:"email,omitempty"`
	Password string             `json:"-" bson:"password,omitempty"`
}

type NameView struct {
	Name string `json:"name" bson:"name"`
}

type Summary struct {
	ID   primitive.ObjectID `json:"_id" bson:"_id"`
	Name string             `json:"name" bson:"name"`
}

// ToSummary converts User to Summary
func (u *User) ToSummary() Summary {
	return Summary{ID: u.ID, Name: u.Name}
}
