package storage

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "qualitybot.db")
	st, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSQLiteRoundTrip(t *testing.T) {
	st := openTestStore(t)

	if _, err := st.Get("missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := st.Set("qualitybot-auth-token", "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Set("qualitybot-auth-token", "def"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := st.Get("qualitybot-auth-token")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "def" {
		t.Fatalf("expected def, got %q", got)
	}
}

func TestSQLiteDelete(t *testing.T) {
	st := openTestStore(t)

	if err := st.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Get("k"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// Deleting a missing key is not an error.
	if err := st.Delete("k"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestSQLiteKeysAndClear(t *testing.T) {
	st := openTestStore(t)

	for _, key := range []string{"quiz-attempts-u1", "quiz-attempts-u2", "student-progress-u1"} {
		if err := st.Set(key, "{}"); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	keys, err := st.Keys("quiz-attempts-")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "quiz-attempts-u1" || keys[1] != "quiz-attempts-u2" {
		t.Fatalf("unexpected keys: %v", keys)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	keys, err = st.Keys("")
	if err != nil {
		t.Fatalf("keys after clear: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys after clear, got %v", keys)
	}
}

func TestMemoryMatchesSQLiteBehavior(t *testing.T) {
	impls := map[string]Storage{
		"memory": NewMemory(),
		"sqlite": openTestStore(t),
	}
	for name, st := range impls {
		t.Run(name, func(t *testing.T) {
			if err := st.Set("a", "1"); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, err := st.Get("a")
			if err != nil || got != "1" {
				t.Fatalf("get: %q, %v", got, err)
			}
			if _, err := st.Get("b"); err != ErrNotFound {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}
