package models

import (
	"time"

	"gorm.io/datatypes"
)

// Image moderation states.
const (
	ImageStatusPending  = "pending"
	ImageStatusApproved = "approved"
	ImageStatusRejected = "rejected"
)

// Image is an uploaded aerial photograph. The upload and moderation
// pipelines live outside this service; the shape exists so that admin
// statistics and profile deletion can reference gallery ownership.
type Image struct {
	ID                   string            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               string            `gorm:"type:uuid;not null;index" json:"user_id"`
	Title                string            `gorm:"size:255;not null" json:"title"`
	AircraftRegistration string            `gorm:"size:16" json:"aircraft_registration"`
	Airline              string            `gorm:"size:128" json:"airline"`
	Airport              string            `gorm:"size:128" json:"airport"`
	CameraModel          string            `gorm:"size:128" json:"camera_model"`
	AircraftModel        string            `gorm:"size:128" json:"aircraft_model"`
	FilePath             string            `gorm:"size:512;not null" json:"file_path"`
	FileSize             *int64            `json:"file_size"`
	MimeType             *string           `gorm:"size:64" json:"mime_type"`
	Width                *int              `json:"width"`
	Height               *int              `json:"height"`
	ExifData             datatypes.JSONMap `gorm:"type:json" json:"exif_data"`
	IsHot                bool              `gorm:"not null;default:false" json:"is_hot"`
	Status               string            `gorm:"size:16;not null;default:pending" json:"status"`
	RejectionReason      *string           `gorm:"size:512" json:"rejection_reason"`
	ApprovedBy           *string           `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt           *time.Time        `json:"approved_at"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

func (Image) TableName() string { return "images" }

// ImageLike links a user to a liked image. One row per (user, image).
type ImageLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_like_user_image" json:"user_id"`
	ImageID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_like_user_image" json:"image_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ImageLike) TableName() string { return "image_likes" }

// ImageComment is a user comment on an image.
type ImageComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	ImageID   string    `gorm:"type:uuid;not null;index" json:"image_id"`
	Content   string    `gorm:"size:1000;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ImageComment) TableName() string { return "image_comments" }

// ImageFavorite bookmarks an image for a user.
type ImageFavorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_fav_user_image" json:"user_id"`
	ImageID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_fav_user_image" json:"image_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ImageFavorite) TableName() string { return "image_favorites" }

// ImageDownload records a full-size download for rate accounting.
type ImageDownload struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	ImageID   string    `gorm:"type:uuid;not null;index" json:"image_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ImageDownload) TableName() string { return "image_downloads" }
