package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skyframe/skyframe-api/internal/models"
	"github.com/skyframe/skyframe-api/internal/notify"
)

type fakeLoader struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
	err      error
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{profiles: make(map[string]models.Profile)}
}

func (f *fakeLoader) set(profile models.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[profile.ID] = profile
}

func (f *fakeLoader) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.profiles, id)
}

func (f *fakeLoader) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeLoader) GetByID(ctx context.Context, id string) (models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Profile{}, f.err
	}
	profile, ok := f.profiles[id]
	if !ok {
		return models.Profile{}, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func TestContextStartLoadsProfile(t *testing.T) {
	loader := newFakeLoader()
	loader.set(models.Profile{ID: "u1", Role: models.RoleUser})

	identity := New(loader, nil, zerolog.Nop())
	require.True(t, identity.Snapshot().Loading)

	require.NoError(t, identity.Start(context.Background(), Session{UserID: "u1", Token: "tok"}))
	defer identity.Close()

	state := identity.Snapshot()
	require.False(t, state.Loading)
	require.NotNil(t, state.Session)
	require.NotNil(t, state.Profile)
	require.Equal(t, "u1", state.Profile.ID)
	require.True(t, identity.Authenticated())
	require.False(t, identity.IsAdmin())
}

func TestContextStartTwiceFails(t *testing.T) {
	loader := newFakeLoader()
	loader.set(models.Profile{ID: "u1"})

	identity := New(loader, nil, zerolog.Nop())
	require.NoError(t, identity.Start(context.Background(), Session{UserID: "u1"}))
	defer identity.Close()

	require.Error(t, identity.Start(context.Background(), Session{UserID: "u1"}))
}

func TestContextMissingProfileStaysAuthenticated(t *testing.T) {
	identity := New(newFakeLoader(), nil, zerolog.Nop())
	require.NoError(t, identity.Start(context.Background(), Session{UserID: "ghost"}))
	defer identity.Close()

	state := identity.Snapshot()
	require.NotNil(t, state.Session)
	require.Nil(t, state.Profile)
	require.True(t, identity.Authenticated())
	require.False(t, identity.IsAdmin())
}

func TestContextRefreshesOnRoleChange(t *testing.T) {
	loader := newFakeLoader()
	loader.set(models.Profile{ID: "u1", Role: models.RoleUser})
	broker := notify.NewBroker(nil, "", zerolog.Nop())

	identity := New(loader, broker, zerolog.Nop())
	require.NoError(t, identity.Start(context.Background(), Session{UserID: "u1"}))
	defer identity.Close()
	require.False(t, identity.IsAdmin())

	loader.set(models.Profile{ID: "u1", Role: models.RoleAdmin})
	broker.Publish(context.Background(), notify.UserEvent{
		Type:   notify.EventRoleChanged,
		UserID: "u1",
		Role:   models.RoleAdmin,
	})

	require.Eventually(t, identity.IsAdmin, 2*time.Second, 10*time.Millisecond)
}

func TestContextIgnoresOtherUsersEvents(t *testing.T) {
	loader := newFakeLoader()
	loader.set(models.Profile{ID: "u1", Role: models.RoleUser})
	broker := notify.NewBroker(nil, "", zerolog.Nop())

	identity := New(loader, broker, zerolog.Nop())
	require.NoError(t, identity.Start(context.Background(), Session{UserID: "u1"}))
	defer identity.Close()

	loader.set(models.Profile{ID: "u1", Role: models.RoleAdmin})
	broker.Publish(context.Background(), notify.UserEvent{
		Type:   notify.EventRoleChanged,
		UserID: "u2",
		Role:   models.RoleAdmin,
	})

	time.Sleep(50 * time.Millisecond)
	require.False(t, identity.IsAdmin())
}

func TestContextClearsProfileOnDeletion(t *testing.T) {
	loader := newFakeLoader()
	loader.set(models.Profile{ID: "u1", Role: models.RoleAdmin})
	broker := notify.NewBroker(nil, "", zerolog.Nop())

	identity := New(loader, broker, zerolog.Nop())
	require.NoError(t, identity.Start(context.Background(), Session{UserID: "u1"}))
	defer identity.Close()
	require.True(t, identity.IsAdmin())

	loader.remove("u1")
	broker.Publish(context.Background(), notify.UserEvent{
		Type:   notify.EventProfileDeleted,
		UserID: "u1",
	})

	require.Eventually(t, func() bool {
		return identity.Snapshot().Profile == nil
	}, 2*time.Second, 10*time.Millisecond)
	require.True(t, identity.Authenticated())
}

func TestContextKeepsSnapshotOnTransientFailure(t *testing.T) {
	loader := newFakeLoader()
	loader.set(models.Profile{ID: "u1", Role: models.RoleAdmin})
	broker := notify.NewBroker(nil, "", zerolog.Nop())

	identity := New(loader, broker, zerolog.Nop())
	require.NoError(t, identity.Start(context.Background(), Session{UserID: "u1"}))
	defer identity.Close()

	loader.fail(errors.New("connection reset"))
	broker.Publish(context.Background(), notify.UserEvent{
		Type:   notify.EventSessionChanged,
		UserID: "u1",
	})

	time.Sleep(50 * time.Millisecond)
	require.True(t, identity.IsAdmin())
}
