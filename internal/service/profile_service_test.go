package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skyframe/skyframe-api/internal/dto"
	"github.com/skyframe/skyframe-api/internal/models"
	"github.com/skyframe/skyframe-api/internal/repository"
)

func setupProfileService(t *testing.T) (ProfileService, repository.ProfileRepository, *memoryActivityRepo) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:profile_svc_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}))

	repo := repository.NewProfileRepository(db)
	activityRepo := &memoryActivityRepo{}
	activity := NewActivityService(activityRepo, testLogger())
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewProfileService(repo, validate, activity, nil, testLogger())
	return svc, repo, activityRepo
}

func strPtr(v string) *string { return &v }

func TestProfileUpdateRejectsShortUsername(t *testing.T) {
	svc, repo, _ := setupProfileService(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Profile{ID: "11111111-1111-1111-1111-111111111111", Role: models.RoleUser}))

	_, err := svc.Update(ctx, "11111111-1111-1111-1111-111111111111", dto.ProfileUpdateRequest{Username: strPtr("ab")}, RequestMeta{})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
	require.Equal(t, "min", validationErrors[0].Tag())
}

func TestProfileUpdateConflictsOnTakenUsername(t *testing.T) {
	svc, repo, _ := setupProfileService(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Profile{ID: "11111111-1111-1111-1111-111111111111", Username: strPtr("spotter"), Role: models.RoleUser}))
	require.NoError(t, repo.Create(ctx, &models.Profile{ID: "22222222-2222-2222-2222-222222222222", Role: models.RoleUser}))

	_, err := svc.Update(ctx, "22222222-2222-2222-2222-222222222222", dto.ProfileUpdateRequest{Username: strPtr("spotter")}, RequestMeta{})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestProfileUpdateKeepingOwnUsernameIsNotAConflict(t *testing.T) {
	svc, repo, _ := setupProfileService(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Profile{ID: "11111111-1111-1111-1111-111111111111", Username: strPtr("spotter"), Role: models.RoleUser}))

	updated, err := svc.Update(ctx, "11111111-1111-1111-1111-111111111111", dto.ProfileUpdateRequest{
		Username: strPtr("spotter"),
		Bio:      strPtr("contrail chaser"),
	}, RequestMeta{})
	require.NoError(t, err)
	require.Equal(t, "spotter", *updated.Username)
	require.Equal(t, "contrail chaser", *updated.Bio)
}

func TestProfileUpdateSanitizesMarkup(t *testing.T) {
	svc, repo, _ := setupProfileService(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Profile{ID: "11111111-1111-1111-1111-111111111111", Role: models.RoleUser}))

	updated, err := svc.Update(ctx, "11111111-1111-1111-1111-111111111111", dto.ProfileUpdateRequest{
		Bio: strPtr(`<script>alert("x")</script>airside`),
	}, RequestMeta{})
	require.NoError(t, err)
	require.Equal(t, "airside", *updated.Bio)
}

func TestProfileUpdateRecordsActivityWithChangedFields(t *testing.T) {
	svc, repo, activityRepo := setupProfileService(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Profile{ID: "11111111-1111-1111-1111-111111111111", Role: models.RoleUser}))

	_, err := svc.Update(ctx, "11111111-1111-1111-1111-111111111111", dto.ProfileUpdateRequest{
		FullName: strPtr("Jet Spotter"),
		Bio:      strPtr("runway 27L"),
	}, RequestMeta{IPAddress: "10.1.2.3", UserAgent: "go-test"})
	require.NoError(t, err)

	require.Len(t, activityRepo.entries, 1)
	entry := activityRepo.entries[0]
	require.Equal(t, models.ActionProfileUpdate, entry.Action)
	require.Equal(t, "10.1.2.3", entry.IPAddress)
	require.ElementsMatch(t, []interface{}{"full_name", "bio"}, entry.Metadata["updated_fields"])
}

func TestProfileDeleteIsIdempotentAndRecorded(t *testing.T) {
	svc, repo, activityRepo := setupProfileService(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Profile{
		ID:       "11111111-1111-1111-1111-111111111111",
		Username: strPtr("spotter"),
		Bio:      strPtr("bio"),
		Role:     models.RoleUser,
	}))

	require.NoError(t, svc.Delete(ctx, "11111111-1111-1111-1111-111111111111", RequestMeta{}))
	require.NoError(t, svc.Delete(ctx, "11111111-1111-1111-1111-111111111111", RequestMeta{}))

	profile, err := repo.GetByID(ctx, "11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)
	require.True(t, profile.Cleared())
	require.Equal(t, models.RoleUser, profile.Role)

	require.Len(t, activityRepo.entries, 2)
	require.Equal(t, models.ActionProfileDelete, activityRepo.entries[0].Action)
}

func TestProvisionRejectsDuplicateIdentity(t *testing.T) {
	svc, _, _ := setupProfileService(t)
	ctx := context.Background()

	created, err := svc.Provision(ctx, "11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, created.Role)

	_, err = svc.Provision(ctx, "11111111-1111-1111-1111-111111111111")
	require.ErrorIs(t, err, ErrProfileExists)
}

func TestIsUsernameAvailable(t *testing.T) {
	svc, repo, _ := setupProfileService(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Profile{ID: "11111111-1111-1111-1111-111111111111", Username: strPtr("spotter"), Role: models.RoleUser}))

	require.False(t, svc.IsUsernameAvailable(ctx, "spotter"))
	require.True(t, svc.IsUsernameAvailable(ctx, "Spotter"))
	require.True(t, svc.IsUsernameAvailable(ctx, "someoneelse"))
}
