package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/mock-interview/internal/config"
	"github.com/jonathan/mock-interview/internal/db"
	"github.com/jonathan/mock-interview/internal/interview"
	"github.com/jonathan/mock-interview/internal/server/ratelimit"
	"github.com/jonathan/mock-interview/internal/types"
)

// mockStore keeps everything in memory. Set a Func field to override one method.
type mockStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*db.User
	interviews map[uuid.UUID]*types.Interview
	answers    []types.UserAnswer

	PingFunc            func(ctx context.Context) error
	CreateInterviewFunc func(ctx context.Context, iv *types.Interview) error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:      make(map[uuid.UUID]*db.User),
		interviews: make(map[uuid.UUID]*types.Interview),
	}
}

func (m *mockStore) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *mockStore) CreateUser(_ context.Context, name, email, imageURL string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range m.users {
		if u.Email == email {
			return uuid.Nil, db.ErrEmailTaken
		}
	}
	now := time.Now()
	u := &db.User{ID: uuid.New(), Name: name, Email: email, ImageURL: imageURL, CreatedAt: now, UpdatedAt: now}
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *mockStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (m *mockStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
		u.PasswordSet = true
	}
	return nil
}

func (m *mockStore) TouchUser(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (m *mockStore) UpdateProfile(_ context.Context, id uuid.UUID, name, imageURL string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u.Name, u.ImageURL, u.UpdatedAt = name, imageURL, time.Now()
	cp := *u
	return &cp, nil
}

func (m *mockStore) CreateInterview(ctx context.Context, iv *types.Interview) error {
	if m.CreateInterviewFunc != nil {
		return m.CreateInterviewFunc(ctx, iv)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	iv.ID = uuid.New()
	iv.CreatedAt = time.Now()
	iv.UpdatedAt = iv.CreatedAt
	cp := *iv
	m.interviews[iv.ID] = &cp
	return nil
}

func (m *mockStore) GetInterview(_ context.Context, id uuid.UUID) (*types.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.interviews[id]
	if !ok {
		return nil, nil
	}
	cp := *iv
	return &cp, nil
}

func (m *mockStore) ListInterviewsByUser(_ context.Context, userID uuid.UUID) ([]types.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.Interview{}
	for _, iv := range m.interviews {
		if iv.UserID == userID {
			out = append(out, *iv)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateInterview(_ context.Context, iv *types.Interview) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.interviews[iv.ID]; !ok {
		return false, nil
	}
	iv.UpdatedAt = time.Now()
	cp := *iv
	m.interviews[iv.ID] = &cp
	return true, nil
}

func (m *mockStore) DeleteInterview(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.interviews, id)
	kept := m.answers[:0]
	for _, a := range m.answers {
		if a.InterviewID != id {
			kept = append(kept, a)
		}
	}
	m.answers = kept
	return nil
}

func (m *mockStore) CreateUserAnswer(_ context.Context, a *types.UserAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.answers {
		if existing.InterviewID == a.InterviewID && existing.UserID == a.UserID && existing.Question == a.Question {
			return db.ErrDuplicateAnswer
		}
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.answers = append(m.answers, *a)
	return nil
}

func (m *mockStore) GetUserAnswer(_ context.Context, interviewID, userID uuid.UUID, question string) (*types.UserAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.answers {
		if a.InterviewID == interviewID && a.UserID == userID && a.Question == question {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStore) ListUserAnswers(_ context.Context, interviewID, userID uuid.UUID) ([]types.UserAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.UserAnswer{}
	for _, a := range m.answers {
		if a.InterviewID == interviewID && a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type mockGenerator struct {
	GenerateFunc func(ctx context.Context, form types.InterviewForm, progress interview.ProgressFunc) ([]types.InterviewQuestion, error)
	calls        int
}

func (m *mockGenerator) GenerateWithProgress(ctx context.Context, form types.InterviewForm, progress interview.ProgressFunc) ([]types.InterviewQuestion, error) {
	m.calls++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, form, progress)
	}
	return []types.InterviewQuestion{
		{Question: "What is a goroutine?", Answer: "A lightweight thread managed by the Go runtime."},
		{Question: "What is a channel?", Answer: "A typed conduit for communication between goroutines."},
	}, nil
}

type mockEvaluator struct {
	EvaluateFunc func(ctx context.Context, in interview.AnswerInput) (*types.AnswerFeedback, error)
	calls        int
}

func (m *mockEvaluator) Evaluate(ctx context.Context, in interview.AnswerInput) (*types.AnswerFeedback, error) {
	m.calls++
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, in)
	}
	return &types.AnswerFeedback{Rating: 7, Feedback: "Solid answer."}, nil
}

type mockImporter struct {
	ImportFunc func(ctx context.Context, url string, useBrowser bool) (*types.ImportJobResponse, error)
}

func (m *mockImporter) Import(ctx context.Context, url string, useBrowser bool) (*types.ImportJobResponse, error) {
	return m.ImportFunc(ctx, url, useBrowser)
}

type testEnv struct {
	server    *Server
	store     *mockStore
	generator *mockGenerator
	evaluator *mockEvaluator
	importer  *mockImporter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:     newMockStore(),
		generator: &mockGenerator{},
		evaluator: &mockEvaluator{},
		importer:  &mockImporter{},
	}
	s, err := New(Config{Port: 0}, Deps{
		Store:     env.store,
		Generator: env.generator,
		Evaluator: env.evaluator,
		Importer:  env.importer,
		JWT:       &config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 1},
		Passwords: &config.PasswordConfig{BcryptCost: 10},
		RateLimit: &ratelimit.Config{Enabled: false},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	env.server = s
	return env
}

// registerUser creates a user through the API and returns its ID and token.
func (e *testEnv) registerUser(t *testing.T, email string) (uuid.UUID, string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Test User", "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func validForm() map[string]any {
	return map[string]any{
		"position":    "Backend Engineer",
		"description": "Build and operate Go services",
		"experience":  3,
		"tech_stack":  "Go, PostgreSQL",
	}
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
