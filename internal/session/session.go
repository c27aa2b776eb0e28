// Package session persists the authenticated user's token and record.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qualitydesk/qualitybot/internal/model"
	"github.com/qualitydesk/qualitybot/internal/storage"
)

// Storage keys, kept compatible with the browser client.
const (
	tokenKey = "qualitybot-auth-token"
	userKey  = "qualitybot-user-data"
)

// Manager reads and writes the auth session. The token is an opaque
// bearer string with no client-checkable expiry; the server-side
// verify call is the only staleness check.
type Manager struct {
	store storage.Storage
}

// NewManager wraps a storage backend.
func NewManager(store storage.Storage) *Manager {
	return &Manager{store: store}
}

// Set stores the token and user record as the current session.
func (m *Manager) Set(token string, user model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := m.store.Set(tokenKey, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if err := m.store.Set(userKey, string(data)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when absent.
func (m *Manager) Token() string {
	token, err := m.store.Get(tokenKey)
	if err != nil {
		return ""
	}
	return token
}

// User returns the stored user record.
func (m *Manager) User() (model.User, error) {
	data, err := m.store.Get(userKey)
	if errors.Is(err, storage.ErrNotFound) {
		return model.User{}, err
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to read user: %w", err)
	}
	var user model.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return model.User{}, fmt.Errorf("failed to decode user: %w", err)
	}
	return user, nil
}

// SetUser refreshes the stored user record without touching the token.
func (m *Manager) SetUser(user model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return m.store.Set(userKey, string(data))
}

// Clear removes token and user. Idempotent.
func (m *Manager) Clear() error {
	if err := m.store.Delete(tokenKey); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	if err := m.store.Delete(userKey); err != nil {
		return fmt.Errorf("failed to clear user: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether both token and user are stored.
// This is a local check; the server may still reject the token.
func (m *Manager) IsAuthenticated() bool {
	if m.Token() == "" {
		return false
	}
	_, err := m.User()
	return err == nil
}

// AuthHeader returns the Authorization header map for API calls,
// empty when no token is stored.
func (m *Manager) AuthHeader() map[string]string {
	token := m.Token()
	if token == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + token}
}
