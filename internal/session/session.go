// Package session manages the signed-in identity and the remote-store access
// token. Both are persisted under fixed keys in the metadata store so a
// restart restores the previous session.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adubois/patrontheque/internal/common"
	"github.com/adubois/patrontheque/internal/events"
	"github.com/adubois/patrontheque/internal/logging"
	"github.com/adubois/patrontheque/internal/models"
	"github.com/adubois/patrontheque/internal/repositories/metadata"
)

// Manager owns the session state. Construct one per application and share it
// by reference; it is safe for concurrent use.
type Manager struct {
	meta metadata.Repository
	bus  *events.Bus
	log  logging.Logger

	mu    sync.RWMutex
	user  *models.User
	token string
}

func NewManager(meta metadata.Repository, bus *events.Bus, log logging.Logger) *Manager {
	return &Manager{meta: meta, bus: bus, log: log}
}

// Restore reloads identity and token persisted by a previous session and
// republishes the matching events so subscribers (sync bridge, UI) react the
// same way they would to a fresh sign-in.
func (m *Manager) Restore(ctx context.Context) error {
	raw, err := m.meta.Get(ctx, common.KeyUserSession)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if raw != nil {
		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			m.log.Warn(ctx, "stored session is malformed, ignoring", "error", err)
		} else {
			m.mu.Lock()
			m.user = &u
			m.mu.Unlock()
			m.bus.Publish(events.Event{Kind: events.UserChanged})
		}
	}

	tok, err := m.meta.Get(ctx, common.KeyDriveToken)
	if err != nil {
		return fmt.Errorf("failed to restore token: %w", err)
	}
	if len(tok) > 0 {
		m.mu.Lock()
		m.token = string(tok)
		m.mu.Unlock()
		m.bus.Publish(events.Event{Kind: events.DriveConnected})
	}

	return nil
}

// SignIn decodes the identity provider's ID token and persists the identity.
// The token signature is NOT verified: the claims only feed the display name
// and avatar, nothing is authorized against them.
func (m *Manager) SignIn(ctx context.Context, idToken string) (*models.User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("failed to decode id token: %w", err)
	}

	u := &models.User{
		ID:      claimString(claims, "sub"),
		Email:   claimString(claims, "email"),
		Name:    claimString(claims, "name"),
		Picture: claimString(claims, "picture"),
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.meta.Set(ctx, common.KeyUserSession, raw); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.user = u
	m.mu.Unlock()

	m.bus.Publish(events.Event{Kind: events.UserChanged})
	return u, nil
}

// ConnectDrive stores the granted access token and announces the grant. The
// sync bridge subscribes to the resulting event and resolves the remote
// folder.
func (m *Manager) ConnectDrive(ctx context.Context, accessToken string) error {
	if err := m.meta.Set(ctx, common.KeyDriveToken, []byte(accessToken)); err != nil {
		return err
	}

	m.mu.Lock()
	m.token = accessToken
	m.mu.Unlock()

	m.bus.Publish(events.Event{Kind: events.DriveConnected})
	return nil
}

// SignOut drops identity and token, both in memory and persisted.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.meta.Delete(ctx, common.KeyUserSession); err != nil {
		return err
	}
	if err := m.meta.Delete(ctx, common.KeyDriveToken); err != nil {
		return err
	}

	m.mu.Lock()
	m.user = nil
	m.token = ""
	m.mu.Unlock()

	m.bus.Publish(events.Event{Kind: events.UserChanged})
	return nil
}

// AccessToken returns the current remote-store token, or "" when the store
// is not connected. Implements remote.TokenProvider.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// CurrentUser returns the signed-in identity, or nil.
func (m *Manager) CurrentUser() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// IsConnected reports whether a user is signed in.
func (m *Manager) IsConnected() bool {
	return m.CurrentUser() != nil
}

// IsDriveConnected reports whether a remote-store token is present.
func (m *Manager) IsDriveConnected() bool {
	return m.AccessToken() != ""
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
