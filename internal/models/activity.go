package models

import (
	"time"

	"gorm.io/datatypes"
)

// Actions recorded in the user activity log.
const (
	ActionProfileUpdate   = "PROFILE_UPDATE"
	ActionProfileDelete   = "PROFILE_DELETE"
	ActionAdminRoleUpdate = "ADMIN_ROLE_UPDATE"
)

// UserActivityLog is an append-only record of a sensitive action performed
// by (or on behalf of) a user. Rows are never mutated or deleted here.
type UserActivityLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    string            `gorm:"type:uuid;not null;index" json:"user_id"`
	Action    string            `gorm:"size:64;not null" json:"action"`
	IPAddress string            `gorm:"size:64" json:"ip_address"`
	UserAgent string            `gorm:"size:512" json:"user_agent"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

// TableName matches the activity table provisioned alongside profiles.
func (UserActivityLog) TableName() string {
	return "user_activity_logs"
}
