package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/skyframe/skyframe-api/internal/models"
)

// ProfileRepository exposes persistence helpers for profile records.
// Errors are returned as-is (including gorm.ErrRecordNotFound and
// gorm.ErrDuplicatedKey) so the service layer can map them to the
// right failure mode.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (models.Profile, error)
	FindByUsername(ctx context.Context, username string) (models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, id string, updates map[string]interface{}) (models.Profile, error)
	UpdateRole(ctx context.Context, id string, role string) error
	ClearPersonalFields(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]models.Profile, int64, error)
	ListVisible(ctx context.Context, limit, offset int) ([]models.Profile, int64, error)
	Search(ctx context.Context, query string, limit int) ([]models.Profile, error)
	Count(ctx context.Context) (int64, error)
	CountAdmins(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository constructs the profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return models.Profile{}, err
	}

	return profile, nil
}

// FindByUsername matches the username exactly, case-sensitively. The
// availability check depends on this being stricter than Search.
func (r *profileRepository) FindByUsername(ctx context.Context, username string) (models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error; err != nil {
		return models.Profile{}, err
	}

	return profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update applies the partial field map in a single statement so the unique
// username constraint is enforced atomically by the store; a colliding
// username surfaces as gorm.ErrDuplicatedKey rather than racing a separate
// availability check.
func (r *profileRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (models.Profile, error) {
	tx := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(updates)
	if tx.Error != nil {
		return models.Profile{}, tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.Profile{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *profileRepository) UpdateRole(ctx context.Context, id string, role string) error {
	tx := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Update("role", role)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// ClearPersonalFields implements profile soft deletion: the row and its
// identifier survive, only the self-service fields are nulled. Running it
// against an already-cleared profile is a no-op that still succeeds.
func (r *profileRepository) ClearPersonalFields(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"username":   nil,
			"full_name":  nil,
			"bio":        nil,
			"avatar_url": nil,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]models.Profile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Profile{})

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// ListVisible pages over profiles that still carry personal data. The
// predicate is applied before the limit/offset window so cleared rows
// never consume page slots, and the total counts the same filtered set.
func (r *profileRepository) ListVisible(ctx context.Context, limit, offset int) ([]models.Profile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("username IS NOT NULL OR full_name IS NOT NULL OR bio IS NOT NULL OR avatar_url IS NOT NULL")

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *profileRepository) Search(ctx context.Context, query string, limit int) ([]models.Profile, error) {
	like := "%" + strings.ToLower(query) + "%"

	var profiles []models.Profile
	err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE ? OR LOWER(full_name) LIKE ?", like, like).
		Order("created_at DESC").
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *profileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).Count(&count).Error
	return count, err
}

func (r *profileRepository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error
	return count, err
}

func (r *profileRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}
