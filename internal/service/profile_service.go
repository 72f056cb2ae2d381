package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/skyframe/skyframe-api/internal/dto"
	"github.com/skyframe/skyframe-api/internal/models"
	"github.com/skyframe/skyframe-api/internal/notify"
	"github.com/skyframe/skyframe-api/internal/repository"
)

// Sentinel errors surfaced to the handler layer.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrProfileExists   = errors.New("profile already exists")
)

// RequestMeta carries caller context recorded alongside sensitive operations.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// ProfileService exposes self-service profile use cases.
type ProfileService interface {
	Get(ctx context.Context, userID string) (dto.ProfileResponse, error)
	Update(ctx context.Context, userID string, payload dto.ProfileUpdateRequest, meta RequestMeta) (dto.ProfileResponse, error)
	Delete(ctx context.Context, userID string, meta RequestMeta) error
	Provision(ctx context.Context, userID string) (dto.ProfileResponse, error)
	IsUsernameAvailable(ctx context.Context, username string) bool
}

type profileService struct {
	repo      repository.ProfileRepository
	validator *validator.Validate
	activity  ActivityRecorder
	events    *notify.Broker
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewProfileService constructs the profile service.
func NewProfileService(repo repository.ProfileRepository, validate *validator.Validate, activity ActivityRecorder, events *notify.Broker, logger zerolog.Logger) ProfileService {
	return &profileService{
		repo:      repo,
		validator: validate,
		activity:  activity,
		events:    events,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "profile_service").Logger(),
	}
}

func (s *profileService) Get(ctx context.Context, userID string) (dto.ProfileResponse, error) {
	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileResponse{}, ErrProfileNotFound
		}
		return dto.ProfileResponse{}, err
	}

	return dto.NewProfileResponse(profile), nil
}

func (s *profileService) Update(ctx context.Context, userID string, payload dto.ProfileUpdateRequest, meta RequestMeta) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProfileResponse{}, err
	}

	if payload.Empty() {
		return s.Get(ctx, userID)
	}

	updates := make(map[string]interface{})
	changedFields := make([]string, 0, 4)

	if payload.Username != nil {
		username := strings.TrimSpace(*payload.Username)
		if !s.IsUsernameAvailable(ctx, username) {
			if current, err := s.repo.GetByID(ctx, userID); err != nil || current.Username == nil || *current.Username != username {
				return dto.ProfileResponse{}, ErrUsernameTaken
			}
		}
		updates["username"] = username
		changedFields = append(changedFields, "username")
	}
	if payload.FullName != nil {
		updates["full_name"] = s.sanitizer.Sanitize(strings.TrimSpace(*payload.FullName))
		changedFields = append(changedFields, "full_name")
	}
	if payload.Bio != nil {
		updates["bio"] = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Bio))
		changedFields = append(changedFields, "bio")
	}
	if payload.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*payload.AvatarURL)
		changedFields = append(changedFields, "avatar_url")
	}

	profile, err := s.repo.Update(ctx, userID, updates)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return dto.ProfileResponse{}, ErrProfileNotFound
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// Lost the race against a concurrent username claim; the unique
			// constraint, not the pre-check, is the source of truth.
			return dto.ProfileResponse{}, ErrUsernameTaken
		default:
			return dto.ProfileResponse{}, err
		}
	}

	s.recordActivity(ctx, ActivityEntry{
		UserID:    userID,
		Action:    models.ActionProfileUpdate,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Metadata:  map[string]interface{}{"updated_fields": changedFields},
	})

	return dto.NewProfileResponse(profile), nil
}

// Delete clears the personal fields but keeps the row so activity logs and
// images retain a valid owner. Running it twice leaves the same state.
func (s *profileService) Delete(ctx context.Context, userID string, meta RequestMeta) error {
	if err := s.repo.ClearPersonalFields(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	s.recordActivity(ctx, ActivityEntry{
		UserID:    userID,
		Action:    models.ActionProfileDelete,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Metadata:  map[string]interface{}{"action": "profile_data_cleared"},
	})

	if s.events != nil {
		s.events.Publish(ctx, notify.UserEvent{
			Type:   notify.EventProfileDeleted,
			UserID: userID,
		})
	}

	return nil
}

// Provision creates the profile row for a freshly registered identity. The
// identity provider's subject is the primary key, so a repeated call for the
// same identity is rejected by the store.
func (s *profileService) Provision(ctx context.Context, userID string) (dto.ProfileResponse, error) {
	profile := models.Profile{
		ID:   userID,
		Role: models.RoleUser,
	}

	if err := s.repo.Create(ctx, &profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ProfileResponse{}, ErrProfileExists
		}
		return dto.ProfileResponse{}, err
	}

	return dto.NewProfileResponse(profile), nil
}

// IsUsernameAvailable reports whether no profile holds the exact username.
// Any lookup failure other than not-found counts as unavailable.
func (s *profileService) IsUsernameAvailable(ctx context.Context, username string) bool {
	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true
	}

	s.logger.Error().Err(err).Msg("username availability check failed")
	return false
}

// Activity logging is best effort: a trail failure never fails the
// operation it describes.
func (s *profileService) recordActivity(ctx context.Context, entry ActivityEntry) {
	if s.activity == nil {
		return
	}
	if _, err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.Action).Msg("activity record dropped")
	}
}
