// Package identity holds the client-side session state for a single
// authenticated principal: the current session, its profile, and derived
// authorization flags. It replaces ambient global session state with an
// explicit object owning its own initialization, subscription, and
// teardown lifecycle.
package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/skyframe/skyframe-api/internal/models"
	"github.com/skyframe/skyframe-api/internal/notify"
)

// ProfileLoader fetches the profile backing a session.
type ProfileLoader interface {
	GetByID(ctx context.Context, id string) (models.Profile, error)
}

// Session identifies an authenticated principal.
type Session struct {
	UserID string
	Token  string
}

// State is a race-free snapshot of the context.
type State struct {
	Session *Session
	Profile *models.Profile
	Loading bool
}

// Context tracks one principal's session and profile. After Start returns,
// the internal event loop goroutine is the sole mutator; readers take
// consistent snapshots under a read lock.
type Context struct {
	loader      ProfileLoader
	broker      *notify.Broker
	logger      zerolog.Logger
	loadTimeout time.Duration

	mu      sync.RWMutex
	session *Session
	profile *models.Profile
	loading bool

	cancelSub func()
	done      chan struct{}
	started   bool
}

// New constructs an identity context. The broker may be nil, in which case
// the context never refreshes after Start.
func New(loader ProfileLoader, broker *notify.Broker, logger zerolog.Logger) *Context {
	return &Context{
		loader:      loader,
		broker:      broker,
		logger:      logger.With().Str("component", "identity_context").Logger(),
		loadTimeout: 5 * time.Second,
		loading:     true,
		done:        make(chan struct{}),
	}
}

// Start recovers the profile for the given session and subscribes to user
// events so later changes (role updates, profile deletion, refresh) are
// reflected without polling. Calling Start twice is an error.
func (c *Context) Start(ctx context.Context, session Session) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.New("identity context already started")
	}
	c.started = true
	c.session = &session
	c.mu.Unlock()

	c.refresh(ctx, session.UserID)

	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()

	if c.broker == nil {
		close(c.done)
		return nil
	}

	events, cancel := c.broker.Subscribe()
	c.cancelSub = cancel
	go c.run(events)

	return nil
}

// Close tears down the subscription and waits for the event loop to exit.
func (c *Context) Close() {
	if c.cancelSub != nil {
		c.cancelSub()
	}
	<-c.done
}

// Snapshot returns a consistent copy of the current state.
func (c *Context) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state := State{Loading: c.loading}
	if c.session != nil {
		session := *c.session
		state.Session = &session
	}
	if c.profile != nil {
		profile := *c.profile
		state.Profile = &profile
	}
	return state
}

// Authenticated reports whether a session is present.
func (c *Context) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session != nil
}

// IsAdmin reports whether the loaded profile carries the admin role.
func (c *Context) IsAdmin() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile != nil && c.profile.Role == models.RoleAdmin
}

// IsBanned reports whether the loaded profile is banned.
func (c *Context) IsBanned() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile != nil && c.profile.Banned
}

func (c *Context) run(events <-chan notify.UserEvent) {
	defer close(c.done)

	for event := range events {
		c.mu.RLock()
		session := c.session
		c.mu.RUnlock()

		if session == nil || event.UserID != session.UserID {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.loadTimeout)
		c.refresh(ctx, session.UserID)
		cancel()
	}
}

// refresh re-fetches the profile. A missing row clears the cached profile;
// transient load failures keep the previous snapshot rather than flapping
// authorization state.
func (c *Context) refresh(ctx context.Context, userID string) {
	profile, err := c.loader.GetByID(ctx, userID)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err == nil:
		c.profile = &profile
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.profile = nil
	default:
		c.logger.Warn().Err(err).Msg("profile refresh failed")
	}
}
