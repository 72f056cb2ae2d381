package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records admin-on-other actions (role changes, moderation),
// as opposed to UserActivityLog which tracks self-service activity.
// Append-only.
type AuditLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	AdminID    string            `gorm:"type:uuid;not null;index" json:"admin_id"`
	Action     string            `gorm:"size:64;not null" json:"action"`
	TargetType string            `gorm:"size:64;not null" json:"target_type"`
	TargetID   string            `gorm:"size:64;not null" json:"target_id"`
	Details    datatypes.JSONMap `gorm:"type:json" json:"details"`
	CreatedAt  time.Time         `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
