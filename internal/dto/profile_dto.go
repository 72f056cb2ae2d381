package dto

import (
	"time"

	"github.com/skyframe/skyframe-api/internal/models"
)

// ProfileResponse serializes a profile for its owner and for admins.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Username  *string   `json:"username"`
	FullName  *string   `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	Bio       *string   `json:"bio"`
	Role      string    `json:"role"`
	Banned    bool      `json:"banned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProfileResponse converts a profile model into a DTO.
func NewProfileResponse(profile models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        profile.ID,
		Username:  profile.Username,
		FullName:  profile.FullName,
		AvatarURL: profile.AvatarURL,
		Bio:       profile.Bio,
		Role:      profile.Role,
		Banned:    profile.Banned,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

// ProfileUpdateRequest captures the self-service fields a user may change.
type ProfileUpdateRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=20"`
	FullName  *string `json:"full_name" validate:"omitempty,max=50"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

// Empty reports whether the request carries no fields at all.
func (r ProfileUpdateRequest) Empty() bool {
	return r.Username == nil && r.FullName == nil && r.Bio == nil && r.AvatarURL == nil
}

// PublicProfileResponse is the reduced shape exposed by the public
// user directory; private fields (bio, role, ban state) stay out.
type PublicProfileResponse struct {
	ID        string    `json:"id"`
	Username  *string   `json:"username"`
	FullName  *string   `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPublicProfileResponse converts a profile into its public shape.
func NewPublicProfileResponse(profile models.Profile) PublicProfileResponse {
	return PublicProfileResponse{
		ID:        profile.ID,
		Username:  profile.Username,
		FullName:  profile.FullName,
		AvatarURL: profile.AvatarURL,
		CreatedAt: profile.CreatedAt,
	}
}
