// Package api wraps the remote QualityBot HTTP endpoints.
//
// Every call goes through a single request helper so error decoding
// and auth headers are handled in one place rather than per call site.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/qualitydesk/qualitybot/internal/model"
	"github.com/qualitydesk/qualitybot/internal/session"
)

const defaultTimeout = 30 * time.Second

// Error is a failed API call. Detail carries the server-provided
// message when the error body had the {detail} shape.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Client calls the QualityBot backend.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Manager
	log      *zap.Logger
}

// NewClient builds a client for the given base URL. A zero timeout
// falls back to the default.
func NewClient(baseURL string, sessions *session.Manager, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		sessions: sessions,
		log:      log,
	}
}

type authResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

// Login authenticates with the backend and stores the session on
// success. A failed login leaves any stored session untouched.
func (c *Client) Login(ctx context.Context, email, password string) (model.User, error) {
	var resp authResponse
	err := c.doJSON(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp, false)
	if err != nil {
		return model.User{}, c.authError(err, "Login failed. Please check your credentials.")
	}
	user := model.User{ID: resp.ID, Name: resp.Name, Email: resp.Email, Role: resp.Role}
	if err := c.sessions.Set(resp.Token, user); err != nil {
		return model.User{}, err
	}
	c.log.Info("logged in", zap.String("user", user.ID), zap.String("role", user.Role))
	return user, nil
}

// SignupData carries the account creation fields.
type SignupData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Signup creates an account and stores the session on success.
func (c *Client) Signup(ctx context.Context, data SignupData) (model.User, error) {
	var resp authResponse
	err := c.doJSON(ctx, http.MethodPost, "/signup", data, &resp, false)
	if err != nil {
		return model.User{}, c.authError(err, "Signup failed. Please try again.")
	}
	user := model.User{ID: resp.ID, Name: resp.Name, Email: resp.Email, Role: resp.Role}
	if err := c.sessions.Set(resp.Token, user); err != nil {
		return model.User{}, err
	}
	c.log.Info("signed up", zap.String("user", user.ID), zap.String("role", user.Role))
	return user, nil
}

// VerifyToken validates the stored token against the backend. Success
// refreshes the stored user record. Any failure, network or HTTP,
// clears the session: server-side verification is the only expiry
// check the client has.
func (c *Client) VerifyToken(ctx context.Context) (model.User, error) {
	if c.sessions.Token() == "" {
		return model.User{}, fmt.Errorf("not authenticated")
	}
	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/verify-token", nil, &user, true); err != nil {
		if cerr := c.sessions.Clear(); cerr != nil {
			c.log.Warn("failed to clear session", zap.Error(cerr))
		}
		return model.User{}, fmt.Errorf("session expired or invalid: %w", err)
	}
	if err := c.sessions.SetUser(user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Chat sends a message to the assistant with the user's role, language,
// and optional history for context.
func (c *Client) Chat(ctx context.Context, message string, role model.Role, language string, history []model.Message) (string, error) {
	payload := map[string]any{
		"message":   message,
		"user_role": string(role),
		"language":  language,
	}
	if len(history) > 0 {
		hist := make([]map[string]string, 0, len(history))
		for _, m := range history {
			hist = append(hist, map[string]string{
				"type":    string(m.Type),
				"content": m.Content,
			})
		}
		payload["history"] = hist
	}
	var resp struct {
		Response string `json:"response"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/chat", payload, &resp, true); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// QualityMetrics fetches the nested metrics report.
func (c *Client) QualityMetrics(ctx context.Context) (model.MetricsReport, error) {
	var report model.MetricsReport
	if err := c.doJSON(ctx, http.MethodGet, "/quality-metrics", nil, &report, true); err != nil {
		return model.MetricsReport{}, err
	}
	return report, nil
}

// ImportExcel uploads a .csv or .xlsx file as multipart form data.
func (c *Client) ImportExcel(ctx context.Context, path string) (model.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort file close.
			_ = cerr
		}
	}()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return model.ImportResult{}, fmt.Errorf("failed to read file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return model.ImportResult{}, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/import-excel", &body)
	if err != nil {
		return model.ImportResult{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.applyAuth(req)

	var result model.ImportResult
	if err := c.send(req, &result); err != nil {
		return model.ImportResult{}, err
	}
	return result, nil
}

// ExportQualityData streams the CSV export into w.
func (c *Client) ExportQualityData(ctx context.Context, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/export-quality-data", nil)
	if err != nil {
		return 0, err
	}
	c.applyAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, decodeError(resp)
	}
	return io.Copy(w, resp.Body)
}

// doJSON is the single request path: marshal, send, decode the
// {detail} error shape on non-2xx, unmarshal into out on success.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any, authed bool) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		c.applyAuth(req)
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		c.log.Warn("api error",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode))
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) applyAuth(req *http.Request) {
	for key, value := range c.sessions.AuthHeader() {
		req.Header.Set(key, value)
	}
}

// authError keeps the server detail when present, otherwise the
// generic user-facing message.
func (c *Client) authError(err error, generic string) error {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr
	}
	return fmt.Errorf("%s: %w", generic, err)
}

func decodeError(resp *http.Response) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Detail = body.Detail
	}
	return apiErr
}
