package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/mock-interview/internal/config"
	"github.com/jonathan/mock-interview/internal/server/ratelimit"
)

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.Error(t, err)

	_, err = New(Config{}, Deps{Store: newMockStore()})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decodeBody[map[string]string](t, w)["status"])
}

func TestHealthEndpoint_DatabaseDown(t *testing.T) {
	env := newTestEnv(t)
	env.store.PingFunc = func(context.Context) error { return errors.New("connection refused") }

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestIDHeaderPropagates(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSMiddleware_AnyOrigin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestCORSMiddleware_AllowedOrigins(t *testing.T) {
	s, err := New(Config{AllowedOrigins: []string{"https://app.example.com"}}, Deps{
		Store:     newMockStore(),
		JWT:       &config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 1},
		Passwords: &config.PasswordConfig{BcryptCost: 10},
		RateLimit: &ratelimit.Config{Enabled: false},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodOptions, "/interviews", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	s, err := New(Config{}, Deps{
		Store:     newMockStore(),
		JWT:       &config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 1},
		Passwords: &config.PasswordConfig{BcryptCost: 10},
		RateLimit: &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  1000,
			DefaultWindow: time.Minute,
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: "/auth/login", Method: http.MethodPost, Limit: 2, Window: time.Minute, Burst: 2},
			},
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)

	login := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.co","password":"x"}`))
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, login().Code)
	assert.Equal(t, http.StatusUnauthorized, login().Code)

	w := login()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decodeBody[map[string]any](t, w)["error"])
}

func TestExtractClientID(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:1234"
	assert.Equal(t, "192.0.2.10", env.server.extractClientID(req))

	req.RemoteAddr = "not-a-hostport"
	assert.Equal(t, "not-a-hostport", env.server.extractClientID(req))
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/run", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSSEWriter(t *testing.T) {
	w := httptest.NewRecorder()
	sse, err := NewSSEWriter(w)
	require.NoError(t, err)

	require.NoError(t, sse.WriteEvent("progress", map[string]string{"stage": "call"}))
	sse.WriteError(http.StatusBadGateway, "bad output")
	sse.WriteComplete("abc", "completed")

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: progress\ndata: {\"stage\":\"call\"}\n\n")
	assert.Contains(t, body, "event: error\n")
	assert.Contains(t, body, `"status":502`)
	assert.Contains(t, body, `"interview_id":"abc"`)
}

func TestJSONResponse(t *testing.T) {
	env := newTestEnv(t)
	w := httptest.NewRecorder()

	env.server.jsonResponse(w, http.StatusAccepted, map[string]int{"n": 1})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"n":1}`, w.Body.String())
}

func TestErrorResponse(t *testing.T) {
	env := newTestEnv(t)
	w := httptest.NewRecorder()

	env.server.errorResponse(w, http.StatusBadRequest, "nope")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"nope"}`, w.Body.String())
}
