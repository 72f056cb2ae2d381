package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skyframe/skyframe-api/internal/dto"
	"github.com/skyframe/skyframe-api/internal/models"
	"github.com/skyframe/skyframe-api/internal/notify"
	"github.com/skyframe/skyframe-api/internal/repository"
)

// Sentinel errors for the admin surface.
var (
	ErrTargetNotFound  = errors.New("target user not found")
	ErrSelfRoleChange  = errors.New("own role cannot be changed")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidPaging   = errors.New("invalid paging parameters")
	ErrEmptySearchTerm = errors.New("search query must not be empty")
)

const statsCacheKey = "skyframe:admin:user_stats"

// Actor identifies the authenticated admin performing an operation.
type Actor struct {
	ID   string
	Role string
}

// AdminService orchestrates privileged user management use cases.
type AdminService interface {
	UpdateRole(ctx context.Context, actor Actor, payload dto.UpdateRoleRequest) (dto.UpdateRoleResponse, error)
	ListUsers(ctx context.Context, limit, offset int) (dto.UserListResponse, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]dto.ProfileResponse, error)
	Stats(ctx context.Context) (dto.UserStatsResponse, error)
	ListActivity(ctx context.Context, filter repository.ActivityLogFilter) (dto.ActivityListResponse, error)
}

type adminService struct {
	profiles  repository.ProfileRepository
	audits    repository.AuditLogRepository
	validator *validator.Validate
	activity  ActivityService
	events    *notify.Broker
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewAdminService constructs the admin service. The Redis client and event
// broker may be nil; both degrade to direct computation / silence.
func NewAdminService(
	profiles repository.ProfileRepository,
	audits repository.AuditLogRepository,
	validate *validator.Validate,
	activity ActivityService,
	events *notify.Broker,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		profiles:  profiles,
		audits:    audits,
		validator: validate,
		activity:  activity,
		events:    events,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger.With().Str("component", "admin_service").Logger(),
		tracer:    otel.Tracer("github.com/skyframe/skyframe-api/internal/service/admin"),
		now:       time.Now,
	}
}

func (s *adminService) UpdateRole(ctx context.Context, actor Actor, payload dto.UpdateRoleRequest) (dto.UpdateRoleResponse, error) {
	ctx, span := s.tracer.Start(ctx, "admin.update_role",
		trace.WithAttributes(attribute.String("target.role", payload.Role)))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.UpdateRoleResponse{}, err
	}
	if !models.IsValidRole(payload.Role) {
		return dto.UpdateRoleResponse{}, ErrInvalidRole
	}
	if payload.UserID == actor.ID {
		// Self promotion and self demotion are both rejected on this path,
		// whatever the caller's current role.
		return dto.UpdateRoleResponse{}, ErrSelfRoleChange
	}

	if err := s.profiles.UpdateRole(ctx, payload.UserID, payload.Role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UpdateRoleResponse{}, ErrTargetNotFound
		}
		s.logger.Error().Err(err).Str("target", payload.UserID).Msg("role update failed")
		return dto.UpdateRoleResponse{}, err
	}

	s.invalidateStats(ctx)

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			UserID: actor.ID,
			Action: models.ActionAdminRoleUpdate,
			Metadata: map[string]interface{}{
				"target_user_id": payload.UserID,
				"new_role":       payload.Role,
				"admin_id":       actor.ID,
			},
		})
	}

	s.recordAudit(ctx, models.AuditLog{
		AdminID:    actor.ID,
		Action:     models.ActionAdminRoleUpdate,
		TargetType: "profile",
		TargetID:   payload.UserID,
		Details:    datatypes.JSONMap{"new_role": payload.Role},
	})

	if s.events != nil {
		s.events.Publish(ctx, notify.UserEvent{
			Type:   notify.EventRoleChanged,
			UserID: payload.UserID,
			Role:   payload.Role,
		})
	}

	return dto.UpdateRoleResponse{UserID: payload.UserID, Role: payload.Role}, nil
}

func (s *adminService) ListUsers(ctx context.Context, limit, offset int) (dto.UserListResponse, error) {
	if limit < 1 || limit > 100 || offset < 0 {
		return dto.UserListResponse{}, ErrInvalidPaging
	}

	profiles, total, err := s.profiles.List(ctx, limit, offset)
	if err != nil {
		return dto.UserListResponse{}, err
	}

	items := make([]dto.ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		items = append(items, dto.NewProfileResponse(profile))
	}

	return dto.UserListResponse{
		Items: items,
		Pagination: dto.PageMeta{
			Limit:  limit,
			Offset: offset,
			Count:  len(items),
			Total:  total,
		},
	}, nil
}

func (s *adminService) SearchUsers(ctx context.Context, query string, limit int) ([]dto.ProfileResponse, error) {
	if query == "" {
		return nil, ErrEmptySearchTerm
	}
	if limit < 1 || limit > 100 {
		return nil, ErrInvalidPaging
	}

	profiles, err := s.profiles.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		items = append(items, dto.NewProfileResponse(profile))
	}

	return items, nil
}

// Stats computes the derived user statistics, served from Redis when a
// fresh copy exists. The cache is advisory: any cache failure falls back
// to the aggregate queries.
func (s *adminService) Stats(ctx context.Context) (dto.UserStatsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "admin.user_stats")
	defer span.End()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, statsCacheKey).Result(); err == nil {
			var response dto.UserStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read stats cache")
		}
	}

	total, err := s.profiles.Count(ctx)
	if err != nil {
		return dto.UserStatsResponse{}, err
	}
	admins, err := s.profiles.CountAdmins(ctx)
	if err != nil {
		return dto.UserStatsResponse{}, err
	}
	recent, err := s.profiles.CountCreatedSince(ctx, s.now().AddDate(0, 0, -30))
	if err != nil {
		return dto.UserStatsResponse{}, err
	}

	response := dto.UserStatsResponse{
		TotalUsers:  total,
		AdminCount:  admins,
		NewUsers30d: recent,
		GeneratedAt: s.now().UTC(),
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store stats cache")
			}
		}
	}

	return response, nil
}

func (s *adminService) ListActivity(ctx context.Context, filter repository.ActivityLogFilter) (dto.ActivityListResponse, error) {
	return s.activity.List(ctx, filter)
}

func (s *adminService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate stats cache")
	}
}

// Audit failures are logged but never fail the admin operation; the
// activity trail already carries the primary record.
func (s *adminService) recordAudit(ctx context.Context, entry models.AuditLog) {
	if s.audits == nil {
		return
	}
	if err := s.audits.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.Action).Msg("audit record dropped")
	}
}
