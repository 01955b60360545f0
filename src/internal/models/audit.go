package models

import "time"

type AuditMessage struct {
	Action    string            `json:"action"`
	ActorID   string            `json:"actor_id,omitempty"`
	ActorName string            `json:"actor_name,omitempty"`
	TargetID  string            `json:"target_id,omitempty"`
	IPAddress string            `json:"ip_address,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Audit action constants
const (
	ActionLoginSucceeded   = "login_succeeded"
	ActionLoginFailed      = "login_failed"
	ActionLogout           = "logout"
	ActionAdminCreated     = "admin_created"
	ActionAdminDeleted     = "admin_deleted"
	ActionAdminPassword    = "admin_password_changed"
	ActionUserDeleted      = "user_deleted"
	ActionUsersReconciled  = "users_reconciled"
	ActionDefaultAdminSeed = "default_admin_seeded"
)
