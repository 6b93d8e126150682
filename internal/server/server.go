// Package server provides the HTTP REST API for mock interviews.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/jonathan/mock-interview/internal/config"
	"github.com/jonathan/mock-interview/internal/db"
	"github.com/jonathan/mock-interview/internal/interview"
	"github.com/jonathan/mock-interview/internal/server/middleware"
	"github.com/jonathan/mock-interview/internal/server/ratelimit"
	"github.com/jonathan/mock-interview/internal/types"
)

// DBClient is the user storage used by UserService.
type DBClient interface {
	CreateUser(ctx context.Context, name, email, imageURL string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	TouchUser(ctx context.Context, id uuid.UUID) error
	UpdateProfile(ctx context.Context, id uuid.UUID, name, imageURL string) (*db.User, error)
}

// Store is everything the handlers persist. *db.DB satisfies it.
type Store interface {
	DBClient
	Ping(ctx context.Context) error

	CreateInterview(ctx context.Context, iv *types.Interview) error
	GetInterview(ctx context.Context, id uuid.UUID) (*types.Interview, error)
	ListInterviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Interview, error)
	UpdateInterview(ctx context.Context, iv *types.Interview) (bool, error)
	DeleteInterview(ctx context.Context, id uuid.UUID) error

	CreateUserAnswer(ctx context.Context, a *types.UserAnswer) error
	GetUserAnswer(ctx context.Context, interviewID, userID uuid.UUID, question string) (*types.UserAnswer, error)
	ListUserAnswers(ctx context.Context, interviewID, userID uuid.UUID) ([]types.UserAnswer, error)
}

// QuestionGenerator produces interview questions for a form.
type QuestionGenerator interface {
	GenerateWithProgress(ctx context.Context, form types.InterviewForm, progress interview.ProgressFunc) ([]types.InterviewQuestion, error)
}

// AnswerEvaluator rates a single answer.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, in interview.AnswerInput) (*types.AnswerFeedback, error)
}

// JobImporter pulls the text of a job posting.
type JobImporter interface {
	Import(ctx context.Context, url string, useBrowser bool) (*types.ImportJobResponse, error)
}

// Deps holds the collaborators of a Server.
type Deps struct {
	Store     Store
	Generator QuestionGenerator
	Evaluator AnswerEvaluator
	Importer  JobImporter
	JWT       *config.JWTConfig
	Passwords *config.PasswordConfig
	RateLimit *ratelimit.Config
	Logger    *slog.Logger
}

// Config holds server configuration
type Config struct {
	Port           int
	AllowedOrigins []string
	UseBrowser     bool
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	router      chi.Router
	store       Store
	generator   QuestionGenerator
	evaluator   AnswerEvaluator
	importer    JobImporter
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	logger      *slog.Logger
	origins     map[string]bool
	useBrowser  bool
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("server requires a store")
	}
	if deps.JWT == nil || deps.Passwords == nil {
		return nil, errors.New("server requires JWT and password configuration")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:       deps.Store,
		generator:   deps.Generator,
		evaluator:   deps.Evaluator,
		importer:    deps.Importer,
		rateLimiter: ratelimit.NewLimiter(deps.RateLimit),
		jwtService:  NewJWTService(deps.JWT),
		userService: NewUserService(deps.Store, deps.Passwords),
		logger:      logger.With(slog.String("component", "server")),
		origins:     make(map[string]bool),
		useBrowser:  cfg.UseBrowser,
	}
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			s.origins[o] = true
		}
	}

	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // generation may sit in rate-limit backoff
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.withLogging)
	r.Use(s.withCORS)
	r.Use(s.withRateLimit)

	r.Get("/health", s.handleHealth)

	r.Post("/auth/register", s.authHandler.Register)
	r.Post("/auth/login", s.authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(s.jwtService.AsTokenValidator()))

		r.Put("/auth/password", s.handleUpdatePassword)

		r.Get("/users/me", s.handleGetMe)
		r.Put("/users/me", s.handleUpdateMe)

		r.Route("/interviews", func(r chi.Router) {
			r.Get("/", s.handleListInterviews)
			r.Post("/", s.handleCreateInterview)
			r.Post("/stream", s.handleCreateInterviewStream)
			r.Post("/import", s.handleImportJob)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetInterview)
				r.Put("/", s.handleUpdateInterview)
				r.Delete("/", s.handleDeleteInterview)
				r.Post("/answers", s.handleSubmitAnswer)
				r.Get("/feedback", s.handleGetFeedback)
			})
		})
	})

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening for requests and shuts down gracefully on SIGINT or SIGTERM.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.rateLimiter.Stop()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers for the configured origins. An empty list or "*" allows any origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(s.origins) == 0 || s.origins["*"]:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case s.origins[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging logs one line per request with its status and duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.LogAttrs(r.Context(), slog.LevelInfo, "request",
			slog.String("request_id", chimw.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", slog.String("error", err.Error()))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data, s.logger)
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status, logs server-side failures and writes the error body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", chimw.GetReqID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}
	if d, ok := retryAfter(err); ok {
		w.Header().Set("Retry-After", strconv.Itoa(int(d.Seconds())))
	}
	s.errorResponse(w, status, publicMessage(err, status))
}

func writeJSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		slog.String("client", s.extractClientID(r)),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// decodeJSON reads the request body into v and runs its Validate method.
func decodeJSON(r *http.Request, v interface{ Validate() error }) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := v.Validate(); err != nil {
		return validationError(err)
	}
	return nil
}

// currentUser returns the authenticated user ID placed in the context by the auth middleware.
func currentUser(r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.GetUserID(r)
	return id, err == nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "invalid interview ID"}
	}
	return id, nil
}
