package models

import "time"

// Session is the server-held login state behind the session cookie.
type Session struct {
	SessionID    string     `bson:"session_id" json:"sessionId"`
	UserID       string     `bson:"user_id" json:"userId"`
	UserName     string     `bson:"user_name" json:"userName"`
	IsActive     bool       `bson:"is_active" json:"isActive"`
	ExpiresAt    time.Time  `bson:"expires_at" json:"expiresAt"`
	CreatedAt    time.Time  `bson:"created_at" json:"createdAt"`
	LogoutAt     *time.Time `bson:"logout_at,omitempty" json:"logoutAt,omitempty"`
	LastActiveAt time.Time  `bson:"last_active_at" json:"lastActiveAt"`
}

// Valid reports whether the session can still authenticate requests at now.
func (s *Session) Valid(now time.Time) bool {
	return s.IsActive && s.LogoutAt == nil && now.Before(s.ExpiresAt)
}
