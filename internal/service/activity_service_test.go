package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/skyframe/skyframe-api/internal/models"
	"github.com/skyframe/skyframe-api/internal/repository"
)

type memoryActivityRepo struct {
	entries []models.UserActivityLog
}

func (m *memoryActivityRepo) Create(ctx context.Context, entry *models.UserActivityLog) error {
	entry.ID = uint(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.UserActivityLog, int64, error) {
	return append([]models.UserActivityLog(nil), m.entries...), int64(len(m.entries)), nil
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestActivityServiceRecordMasksSensitiveMetadata(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, testLogger())

	entry, err := svc.Record(context.Background(), ActivityEntry{
		UserID:    "11111111-1111-1111-1111-111111111111",
		Action:    models.ActionProfileUpdate,
		IPAddress: "10.0.0.1",
		UserAgent: "go-test",
		Metadata: map[string]interface{}{
			"email":          "pilot@example.com",
			"reset_token":    "abc123",
			"updated_fields": []string{"bio"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "***", entry.Metadata["email"])
	require.Equal(t, "***", entry.Metadata["reset_token"])
	require.NotEqual(t, "***", entry.Metadata["updated_fields"])
}

func TestActivityServiceRecordRequiresActorAndAction(t *testing.T) {
	svc := NewActivityService(&memoryActivityRepo{}, testLogger())

	_, err := svc.Record(context.Background(), ActivityEntry{Action: models.ActionProfileUpdate})
	require.Error(t, err)

	_, err = svc.Record(context.Background(), ActivityEntry{UserID: "11111111-1111-1111-1111-111111111111"})
	require.Error(t, err)
}

func TestActivityServiceRecordDefaultsCallerContext(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, testLogger())

	entry, err := svc.Record(context.Background(), ActivityEntry{
		UserID: "11111111-1111-1111-1111-111111111111",
		Action: models.ActionProfileDelete,
	})
	require.NoError(t, err)
	require.Equal(t, "unknown", entry.IPAddress)
	require.Equal(t, "unknown", entry.UserAgent)
}
