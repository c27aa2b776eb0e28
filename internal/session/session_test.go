package session

import (
	"testing"

	"github.com/qualitydesk/qualitybot/internal/model"
	"github.com/qualitydesk/qualitybot/internal/storage"
)

func testUser() model.User {
	return model.User{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: "engineer"}
}

func TestSessionRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemory())

	if m.IsAuthenticated() {
		t.Fatalf("fresh store must not be authenticated")
	}
	if err := m.Set("tok-123", testUser()); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Fatalf("expected authenticated after set")
	}
	if got := m.Token(); got != "tok-123" {
		t.Fatalf("expected token tok-123, got %q", got)
	}
	user, err := m.User()
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if user != testUser() {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	m := NewManager(storage.NewMemory())
	if err := m.Set("tok", testUser()); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if m.IsAuthenticated() {
		t.Fatalf("expected not authenticated after clear")
	}
	if headers := m.AuthHeader(); len(headers) != 0 {
		t.Fatalf("expected empty auth header, got %v", headers)
	}
	// Clear is idempotent.
	if err := m.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestAuthHeader(t *testing.T) {
	m := NewManager(storage.NewMemory())
	if err := m.Set("tok", testUser()); err != nil {
		t.Fatalf("set: %v", err)
	}
	headers := m.AuthHeader()
	if headers["Authorization"] != "Bearer tok" {
		t.Fatalf("unexpected header: %v", headers)
	}
}

func TestTokenWithoutUserIsNotAuthenticated(t *testing.T) {
	store := storage.NewMemory()
	if err := store.Set("qualitybot-auth-token", "tok"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	m := NewManager(store)
	if m.IsAuthenticated() {
		t.Fatalf("token without user must not count as authenticated")
	}
}
