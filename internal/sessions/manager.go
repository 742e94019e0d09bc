package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/akmalqodirov005/e-commerse/internal/tokens"
	"github.com/akmalqodirov005/e-commerse/pkg/logger"
	"github.com/akmalqodirov005/e-commerse/pkg/metrics"
)

var (
	// ErrNoRefreshToken is returned by Refresh when the session holds no refresh token.
	ErrNoRefreshToken = errors.New("no refresh token")

	// ErrSessionChanged is returned by Refresh when a login or logout happened while
	// the refresh call was in flight. The refreshed token is discarded.
	ErrSessionChanged = errors.New("session changed during refresh")
)

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithSingleFlight controls whether concurrent refreshes for the same refresh
// token share one upstream call (default true).
func WithSingleFlight(enabled bool) Option {
	return func(m *Manager) { m.singleFlight = enabled }
}

// Manager is the single source of truth for the storefront session. It mirrors
// every change into a Store and hands out bearer credentials to outgoing requests.
type Manager struct {
	store        Store
	singleFlight bool
	group        singleflight.Group

	mu    sync.RWMutex
	state Session
	// generation is bumped by Login, Logout and Init; a refresh started under an
	// older generation must not write its token.
	generation uint64
}

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{store: store, singleFlight: true}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Init hydrates the session from durable storage. Missing, unreadable or
// malformed entries are treated as absent; Init never fails.
func (m *Manager) Init(ctx context.Context) {
	s := Session{
		User:         m.loadUser(ctx),
		AccessToken:  m.loadString(ctx, KeyAccessToken),
		RefreshToken: m.loadString(ctx, KeyRefreshToken),
	}
	m.mu.Lock()
	m.state = s
	m.generation++
	m.mu.Unlock()
	logger.Infof("session hydrated: authenticated=%v user=%v", s.Authenticated(), s.User != nil)
}

func (m *Manager) loadString(ctx context.Context, key string) string {
	v, ok, err := m.store.Get(ctx, key)
	if err != nil {
		logger.Warnf("session: read %s: %v", key, err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

func (m *Manager) loadUser(ctx context.Context) json.RawMessage {
	v := m.loadString(ctx, KeyUser)
	if v == "" || v == "undefined" {
		return nil
	}
	raw := json.RawMessage(v)
	if !hasProfile(raw) {
		if v != "null" {
			logger.Warnf("session: discarding malformed %s entry (%d bytes)", KeyUser, len(v))
		}
		return nil
	}
	return raw
}

// Teardown flushes the in-memory session to durable storage.
func (m *Manager) Teardown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persist(ctx, m.state)
}

// persist mirrors s into the store; absent fields are deleted. Callers hold mu.
func (m *Manager) persist(ctx context.Context, s Session) error {
	var errs []error
	put := func(key, value string, present bool) {
		var err error
		if present {
			err = m.store.Set(ctx, key, value)
		} else {
			err = m.store.Delete(ctx, key)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	put(KeyUser, string(s.User), s.User != nil)
	put(KeyAccessToken, s.AccessToken, s.AccessToken != "")
	put(KeyRefreshToken, s.RefreshToken, s.RefreshToken != "")
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Login replaces the session with the result of a successful login and writes
// it through to storage. Token shape is not validated.
func (m *Manager) Login(ctx context.Context, res LoginResult) error {
	s := res.session()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
	m.generation++
	return m.persist(ctx, s)
}

// Logout clears the session and its storage entries. Calling it on an empty
// session is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearLocked(ctx)
}

func (m *Manager) clearLocked(ctx context.Context) error {
	m.state = Session{}
	m.generation++
	if err := m.store.Delete(ctx, sessionKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Authorize attaches the current access token as a bearer credential. Without
// a token the request is left unauthenticated.
func (m *Manager) Authorize(req *http.Request) {
	m.mu.RLock()
	tok := m.state.AccessToken
	m.mu.RUnlock()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone()
}

func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Authenticated()
}

// Subject returns the sub claim of the access token, or "" when unknown.
func (m *Manager) Subject() string {
	m.mu.RLock()
	tok := m.state.AccessToken
	m.mu.RUnlock()
	if tok == "" {
		return ""
	}
	sub, err := tokens.Subject(tok)
	if err != nil {
		return ""
	}
	return sub
}

// AccessTokenExpiry reports the exp claim of the access token when it is a JWT.
func (m *Manager) AccessTokenExpiry() (time.Time, bool) {
	m.mu.RLock()
	tok := m.state.AccessToken
	m.mu.RUnlock()
	if tok == "" {
		return time.Time{}, false
	}
	exp, err := tokens.ExpiresAt(tok)
	if err != nil {
		return time.Time{}, false
	}
	return exp, true
}

// Refresh exchanges the current refresh token for a new access token and
// stores it; the refresh token and user are kept. When the upstream rejects the
// refresh, or no refresh token is held, the session is logged out. A refresh
// that finishes after a login or logout is discarded with ErrSessionChanged.
func (m *Manager) Refresh(ctx context.Context, r Refresher) (string, error) {
	m.mu.RLock()
	rt, gen := m.state.RefreshToken, m.generation
	m.mu.RUnlock()

	if rt == "" {
		metrics.SessionRefreshes.WithLabelValues("no_token").Inc()
		m.logoutIfCurrent(ctx, gen)
		return "", ErrNoRefreshToken
	}

	token, err := m.fetch(ctx, r, rt)
	if err != nil {
		if ctx.Err() != nil {
			// caller went away; the session itself is not known to be bad
			return "", err
		}
		metrics.SessionRefreshes.WithLabelValues("failure").Inc()
		m.logoutIfCurrent(ctx, gen)
		return "", fmt.Errorf("refresh access token: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != gen {
		metrics.SessionRefreshes.WithLabelValues("stale").Inc()
		return "", ErrSessionChanged
	}
	m.state.AccessToken = token
	if err := m.store.Set(ctx, KeyAccessToken, token); err != nil {
		logger.Warnf("session: persist refreshed token: %v", err)
	}
	metrics.SessionRefreshes.WithLabelValues("success").Inc()
	return token, nil
}

func (m *Manager) fetch(ctx context.Context, r Refresher, refreshToken string) (string, error) {
	if !m.singleFlight {
		return r.RefreshAccessToken(ctx, refreshToken)
	}
	ch := m.group.DoChan(refreshToken, func() (interface{}, error) {
		// shared by every waiter, so it must outlive any single caller
		return r.RefreshAccessToken(context.WithoutCancel(ctx), refreshToken)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			logger.Debugf("session: joined in-flight refresh")
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (m *Manager) logoutIfCurrent(ctx context.Context, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != gen {
		return
	}
	if err := m.clearLocked(context.WithoutCancel(ctx)); err != nil {
		logger.Errorf("session: forced logout: %v", err)
		return
	}
	logger.Infof("session: logged out after failed refresh")
}
