package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skyframe/skyframe-api/internal/models"
)

func setupLogRepos(t *testing.T) (ActivityLogRepository, AuditLogRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:log_repo_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserActivityLog{}, &models.AuditLog{}))

	return NewActivityLogRepository(db), NewAuditLogRepository(db)
}

func TestActivityLogListFilters(t *testing.T) {
	activity, _ := setupLogRepos(t)
	ctx := context.Background()

	entries := []models.UserActivityLog{
		{UserID: "11111111-1111-1111-1111-111111111111", Action: models.ActionProfileUpdate, IPAddress: "10.0.0.1", UserAgent: "test", Metadata: datatypes.JSONMap{}},
		{UserID: "11111111-1111-1111-1111-111111111111", Action: models.ActionProfileDelete, IPAddress: "10.0.0.1", UserAgent: "test", Metadata: datatypes.JSONMap{}},
		{UserID: "22222222-2222-2222-2222-222222222222", Action: models.ActionProfileUpdate, IPAddress: "10.0.0.2", UserAgent: "test", Metadata: datatypes.JSONMap{}},
	}
	for i := range entries {
		require.NoError(t, activity.Create(ctx, &entries[i]))
	}

	byUser, total, err := activity.List(ctx, ActivityLogFilter{UserID: "11111111-1111-1111-1111-111111111111", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, byUser, 2)

	byAction, total, err := activity.List(ctx, ActivityLogFilter{Action: models.ActionProfileUpdate, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, byAction, 2)
}

func TestAuditLogListFiltersByAdmin(t *testing.T) {
	_, audit := setupLogRepos(t)
	ctx := context.Background()

	entry := models.AuditLog{
		AdminID:    "11111111-1111-1111-1111-111111111111",
		Action:     models.ActionAdminRoleUpdate,
		TargetType: "profile",
		TargetID:   "22222222-2222-2222-2222-222222222222",
		Details:    datatypes.JSONMap{"new_role": "admin"},
	}
	require.NoError(t, audit.Create(ctx, &entry))

	entries, total, err := audit.List(ctx, AuditLogFilter{AdminID: "11111111-1111-1111-1111-111111111111", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	require.Equal(t, "22222222-2222-2222-2222-222222222222", entries[0].TargetID)
}
