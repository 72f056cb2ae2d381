package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/skyframe/skyframe-api/internal/dto"
	"github.com/skyframe/skyframe-api/internal/repository"
)

// DirectoryService backs the public, unauthenticated user directory.
type DirectoryService interface {
	List(ctx context.Context, limit, offset int) ([]dto.PublicProfileResponse, dto.PageMeta, error)
}

type directoryService struct {
	profiles repository.ProfileRepository
	logger   zerolog.Logger
}

// NewDirectoryService constructs the public directory service.
func NewDirectoryService(profiles repository.ProfileRepository, logger zerolog.Logger) DirectoryService {
	return &directoryService{
		profiles: profiles,
		logger:   logger.With().Str("component", "directory_service").Logger(),
	}
}

func (s *directoryService) List(ctx context.Context, limit, offset int) ([]dto.PublicProfileResponse, dto.PageMeta, error) {
	if limit < 1 || limit > 100 || offset < 0 {
		return nil, dto.PageMeta{}, ErrInvalidPaging
	}

	// Cleared rows stay in the table for referential integrity but have
	// nothing to show publicly; the store filters them out before paging
	// so they never consume page slots.
	profiles, total, err := s.profiles.ListVisible(ctx, limit, offset)
	if err != nil {
		return nil, dto.PageMeta{}, err
	}

	items := make([]dto.PublicProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		items = append(items, dto.NewPublicProfileResponse(profile))
	}

	meta := dto.PageMeta{
		Limit:  limit,
		Offset: offset,
		Count:  len(items),
		Total:  total,
	}

	return items, meta, nil
}
