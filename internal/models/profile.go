package models

import "time"

// Profile roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile is the self-service record attached to an authenticated identity.
// The ID matches the identity provider's subject and never changes; deleting
// a profile only clears the personal fields so activity logs and images keep
// a valid owner reference.
type Profile struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username  *string   `gorm:"size:20;uniqueIndex" json:"username"`
	FullName  *string   `gorm:"size:50" json:"full_name"`
	AvatarURL *string   `gorm:"size:512" json:"avatar_url"`
	Bio       *string   `gorm:"size:500" json:"bio"`
	Role      string    `gorm:"size:16;not null;default:user" json:"role"`
	Banned    bool      `gorm:"not null;default:false" json:"banned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table aligned with the provisioning trigger.
func (Profile) TableName() string {
	return "profiles"
}

// IsValidRole reports whether role is one of the enumerated profile roles.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// Cleared reports whether the personal fields have been soft-deleted.
func (p Profile) Cleared() bool {
	return p.Username == nil && p.FullName == nil && p.Bio == nil && p.AvatarURL == nil
}
