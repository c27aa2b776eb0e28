package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualitydesk/qualitybot/internal/model"
	"github.com/qualitydesk/qualitybot/internal/session"
	"github.com/qualitydesk/qualitybot/internal/storage"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Manager) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sessions := session.NewManager(storage.NewMemory())
	return NewClient(srv.URL, sessions, 5*time.Second, nil), sessions
}

func TestLoginStoresSession(t *testing.T) {
	client, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "asha@example.com", creds["email"])
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{
			"id": "u1", "name": "Asha", "email": "asha@example.com",
			"role": "engineer", "token": "tok-1",
		}))
	}))

	user, err := client.Login(context.Background(), "asha@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.True(t, sessions.IsAuthenticated())
	assert.Equal(t, "tok-1", sessions.Token())
}

func TestLoginFailureKeepsExistingSession(t *testing.T) {
	client, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid email or password"})
	}))
	require.NoError(t, sessions.Set("old-token", model.User{ID: "u0", Role: "student"}))

	_, err := client.Login(context.Background(), "asha@example.com", "wrong")
	require.Error(t, err)
	assert.EqualError(t, err, "Invalid email or password")
	assert.Equal(t, "old-token", sessions.Token())
	assert.True(t, sessions.IsAuthenticated())
}

func TestLoginFailureGenericMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	_, err := client.Login(context.Background(), "a@b.c", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Login failed")
}

func TestVerifyTokenRefreshesUser(t *testing.T) {
	client, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/verify-token", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewEncoder(w).Encode(model.User{
			ID: "u1", Name: "Asha Renamed", Email: "asha@example.com", Role: "engineer",
		}))
	}))
	require.NoError(t, sessions.Set("tok-1", model.User{ID: "u1", Name: "Asha", Role: "engineer"}))

	user, err := client.VerifyToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Asha Renamed", user.Name)

	stored, err := sessions.User()
	require.NoError(t, err)
	assert.Equal(t, "Asha Renamed", stored.Name)
}

func TestVerifyTokenFailureClearsSession(t *testing.T) {
	client, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Token expired"})
	}))
	require.NoError(t, sessions.Set("stale", model.User{ID: "u1", Role: "student"}))

	_, err := client.VerifyToken(context.Background())
	require.Error(t, err)
	assert.False(t, sessions.IsAuthenticated())
	assert.Empty(t, sessions.AuthHeader())
}

func TestChatSendsRoleLanguageAndHistory(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "What is Cpk?", payload["message"])
		assert.Equal(t, "engineer", payload["user_role"])
		assert.Equal(t, "en", payload["language"])
		hist, ok := payload["history"].([]any)
		require.True(t, ok)
		assert.Len(t, hist, 2)
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{"response": "Cpk measures..."}))
	}))

	history := []model.Message{
		{Type: model.MessageUser, Content: "hi"},
		{Type: model.MessageBot, Content: "hello"},
	}
	reply, err := client.Chat(context.Background(), "What is Cpk?", model.RoleEngineer, "en", history)
	require.NoError(t, err)
	assert.Equal(t, "Cpk measures...", reply)
}

func TestQualityMetrics(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/quality-metrics", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode(model.MetricsReport{
			Quality: []model.Metric{{Name: "Defect Rate", Value: 2.3, Target: 1.5, Unit: "%", Trend: "down", Status: "warning"}},
		}))
	}))

	report, err := client.QualityMetrics(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Quality, 1)
	assert.Equal(t, "Defect Rate", report.Quality[0].Name)
}

func TestImportExcel(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/import-excel", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "data.csv", header.Filename)
		require.NoError(t, json.NewEncoder(w).Encode(model.ImportResult{
			Success: true, Message: "Successfully imported 3 quality data records", ImportedRows: 3,
		}))
	}))

	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("metric_name,value\ndefects,3\n"), 0o644))

	result, err := client.ImportExcel(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.ImportedRows)
}

func TestExportQualityData(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/export-quality-data", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("metric_name,value\ndefects,3\n"))
	}))

	var buf bytes.Buffer
	n, err := client.ExportQualityData(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Contains(t, buf.String(), "metric_name")
}
