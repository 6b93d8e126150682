package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/mock-interview/internal/interview"
	"github.com/jonathan/mock-interview/internal/types"
)

// errNoGenerator is returned when the server runs without model credentials.
var errNoGenerator = errors.New("question generation is not configured")

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	interviews, err := s.store.ListInterviewsByUser(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, interviews)
}

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var form types.InterviewForm
	if err := decodeJSON(r, &form); err != nil {
		s.fail(w, r, err)
		return
	}

	iv, err := s.createInterview(r.Context(), userID, form, nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, iv)
}

// handleCreateInterviewStream creates an interview and reports generation
// progress as Server-Sent Events. Request errors found before generation
// starts are plain JSON responses.
func (s *Server) handleCreateInterviewStream(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var form types.InterviewForm
	if err := decodeJSON(r, &form); err != nil {
		s.fail(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	progress := func(ev interview.ProgressEvent) {
		if err := sse.WriteEvent("progress", ev); err != nil {
			s.logger.Debug("failed to write progress event", slog.String("error", err.Error()))
		}
	}

	iv, err := s.createInterview(r.Context(), userID, form, progress)
	if err != nil {
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.ErrorContext(r.Context(), "streamed generation failed", slog.String("error", err.Error()))
		}
		sse.WriteError(status, publicMessage(err, status))
		return
	}

	sse.WriteEvent("interview", iv) //nolint:errcheck
	sse.WriteComplete(iv.ID.String(), "completed")
}

func (s *Server) createInterview(ctx context.Context, userID uuid.UUID, form types.InterviewForm, progress interview.ProgressFunc) (*types.Interview, error) {
	if s.generator == nil {
		return nil, errNoGenerator
	}

	questions, err := s.generator.GenerateWithProgress(ctx, form, progress)
	if err != nil {
		return nil, err
	}

	iv := &types.Interview{
		UserID:      userID,
		Position:    form.Position,
		Description: form.Description,
		Experience:  form.Experience,
		TechStack:   form.TechStack,
		Questions:   questions,
	}
	if err := s.store.CreateInterview(ctx, iv); err != nil {
		return nil, err
	}

	s.logger.Info("interview created",
		slog.String("interview_id", iv.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("questions", len(questions)),
	)
	return iv, nil
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	iv, ok := s.ownedInterview(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, iv)
}

// handleUpdateInterview replaces the form of an interview and regenerates its questions.
func (s *Server) handleUpdateInterview(w http.ResponseWriter, r *http.Request) {
	iv, ok := s.ownedInterview(w, r)
	if !ok {
		return
	}

	var form types.InterviewForm
	if err := decodeJSON(r, &form); err != nil {
		s.fail(w, r, err)
		return
	}
	if s.generator == nil {
		s.fail(w, r, errNoGenerator)
		return
	}

	questions, err := s.generator.GenerateWithProgress(r.Context(), form, nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	iv.Position = form.Position
	iv.Description = form.Description
	iv.Experience = form.Experience
	iv.TechStack = form.TechStack
	iv.Questions = questions

	found, err := s.store.UpdateInterview(r.Context(), iv)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !found {
		s.fail(w, r, &ErrInterviewNotFound{InterviewID: iv.ID})
		return
	}

	s.jsonResponse(w, http.StatusOK, iv)
}

func (s *Server) handleDeleteInterview(w http.ResponseWriter, r *http.Request) {
	iv, ok := s.ownedInterview(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteInterview(r.Context(), iv.ID); err != nil {
		s.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImportJob(w http.ResponseWriter, r *http.Request) {
	var req types.ImportJobRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if s.importer == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Job import is not configured")
		return
	}

	job, err := s.importer.Import(r.Context(), req.URL, req.UseBrowser || s.useBrowser)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// ownedInterview loads the {id} interview of the current user. Interviews
// of other users are reported as not found. It writes the error response
// itself and returns false on failure.
func (s *Server) ownedInterview(w http.ResponseWriter, r *http.Request) (*types.Interview, bool) {
	userID, ok := currentUser(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}

	iv, err := s.store.GetInterview(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	if iv == nil || iv.UserID != userID {
		s.fail(w, r, &ErrInterviewNotFound{InterviewID: id})
		return nil, false
	}
	return iv, true
}
