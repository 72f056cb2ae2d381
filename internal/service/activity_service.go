package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/skyframe/skyframe-api/internal/dto"
	"github.com/skyframe/skyframe-api/internal/models"
	"github.com/skyframe/skyframe-api/internal/repository"
)

// ActivityEntry captures the details required to persist an activity record.
type ActivityEntry struct {
	UserID    string
	Action    string
	IPAddress string
	UserAgent string
	Metadata  map[string]interface{}
}

// ActivityRecorder defines behaviour for appending to the activity trail.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) (dto.ActivityLogResponse, error)
}

// ActivityService records and queries the append-only activity trail.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, filter repository.ActivityLogFilter) (dto.ActivityListResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityLogResponse, error) {
	if strings.TrimSpace(entry.UserID) == "" {
		return dto.ActivityLogResponse{}, fmt.Errorf("actor is required")
	}
	if strings.TrimSpace(entry.Action) == "" {
		return dto.ActivityLogResponse{}, fmt.Errorf("action is required")
	}

	model := models.UserActivityLog{
		UserID:    entry.UserID,
		Action:    strings.TrimSpace(entry.Action),
		IPAddress: fallback(entry.IPAddress, "unknown"),
		UserAgent: fallback(entry.UserAgent, "unknown"),
		Metadata:  sanitizeMetadata(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", model.Action).Msg("failed to persist activity log")
		return dto.ActivityLogResponse{}, err
	}

	return dto.NewActivityLogResponse(model), nil
}

func (s *activityService) List(ctx context.Context, filter repository.ActivityLogFilter) (dto.ActivityListResponse, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	responses := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityLogResponse(entry))
	}

	return dto.ActivityListResponse{
		Items: responses,
		Pagination: dto.PageMeta{
			Limit:  filter.Limit,
			Offset: filter.Offset,
			Count:  len(responses),
			Total:  total,
		},
	}, nil
}

// sanitizeMetadata masks values under keys that tend to hold credentials or
// direct contact data before they reach the immutable trail.
func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "email") || strings.Contains(lower, "token") || strings.Contains(lower, "password") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
