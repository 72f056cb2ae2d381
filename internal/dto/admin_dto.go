package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/skyframe/skyframe-api/internal/models"
)

// Admin action variants accepted by the admin endpoint. The envelope is
// decoded first, then the variant payload is decoded and validated on its
// own type; there is no dynamic field access past this point.
const (
	AdminActionUpdateRole  = "update_role"
	AdminActionGetUsers    = "get_users"
	AdminActionGetStats    = "get_stats"
	AdminActionSearchUsers = "search_users"
	AdminActionGetActivity = "get_activity"
)

// AdminActionEnvelope carries only the discriminator of an admin request.
type AdminActionEnvelope struct {
	Action string `json:"action" validate:"required"`
}

// UpdateRoleRequest promotes or demotes the target user.
type UpdateRoleRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,oneof=user admin"`
}

// UpdateRoleResponse echoes the applied role change.
type UpdateRoleResponse struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// GetUsersRequest pages through all profiles, newest first.
type GetUsersRequest struct {
	Limit  *int `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset *int `json:"offset" validate:"omitempty,min=0"`
}

// SearchUsersRequest performs a case-insensitive substring search over
// usernames and display names.
type SearchUsersRequest struct {
	Query string `json:"query" validate:"required,min=1,max=100"`
	Limit *int   `json:"limit" validate:"omitempty,min=1,max=100"`
}

// GetActivityRequest pages through the activity trail.
type GetActivityRequest struct {
	UserID string `json:"userId" validate:"omitempty,uuid"`
	Action string `json:"action" validate:"omitempty,max=64"`
	Limit  *int   `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset *int   `json:"offset" validate:"omitempty,min=0"`
}

// PageMeta echoes the applied paging window back to the caller.
type PageMeta struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Count  int   `json:"count"`
	Total  int64 `json:"total"`
}

// UserListResponse wraps a page of profiles for admin listings.
type UserListResponse struct {
	Items      []ProfileResponse `json:"items"`
	Pagination PageMeta          `json:"pagination"`
}

// UserStatsResponse is the derived statistics view for admins.
type UserStatsResponse struct {
	TotalUsers  int64     `json:"total_users"`
	AdminCount  int64     `json:"admin_count"`
	NewUsers30d int64     `json:"new_users_30d"`
	GeneratedAt time.Time `json:"generated_at"`
	CacheHit    bool      `json:"cache_hit"`
}

// ActivityLogResponse serializes one activity trail entry.
type ActivityLogResponse struct {
	ID        uint                   `json:"id"`
	UserID    string                 `json:"user_id"`
	Action    string                 `json:"action"`
	IPAddress string                 `json:"ip_address"`
	UserAgent string                 `json:"user_agent"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

// ActivityListResponse wraps a page of activity entries.
type ActivityListResponse struct {
	Items      []ActivityLogResponse `json:"items"`
	Pagination PageMeta              `json:"pagination"`
}

// NewActivityLogResponse converts a model into an activity DTO.
func NewActivityLogResponse(entry models.UserActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Action:    entry.Action,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
		Metadata:  metadataFromJSON(entry.Metadata),
		CreatedAt: entry.CreatedAt,
	}
}

func metadataFromJSON(data datatypes.JSONMap) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}(data)
}
