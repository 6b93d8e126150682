package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jonathan/mock-interview/internal/db"
	"github.com/jonathan/mock-interview/internal/interview"
	"github.com/jonathan/mock-interview/internal/types"
)

// errNoEvaluator is returned when the server runs without model credentials.
var errNoEvaluator = errors.New("answer evaluation is not configured")

// handleSubmitAnswer records an answer to one question, has the model rate
// it and stores the result. Each question can be answered once per user.
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	iv, ok := s.ownedInterview(w, r)
	if !ok {
		return
	}

	var req types.SubmitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.QuestionIndex >= len(iv.Questions) {
		s.fail(w, r, &ErrQuestionNotFound{Index: req.QuestionIndex, Count: len(iv.Questions)})
		return
	}
	question := iv.Questions[req.QuestionIndex]

	// refuse duplicates before spending a model call
	existing, err := s.store.GetUserAnswer(r.Context(), iv.ID, iv.UserID, question.Question)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if existing != nil {
		s.fail(w, r, db.ErrDuplicateAnswer)
		return
	}

	if s.evaluator == nil {
		s.fail(w, r, errNoEvaluator)
		return
	}
	feedback, err := s.evaluator.Evaluate(r.Context(), interview.AnswerInput{
		Question:      question.Question,
		CorrectAnswer: question.Answer,
		UserAnswer:    req.UserAnswer,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	answer := &types.UserAnswer{
		InterviewID:   iv.ID,
		UserID:        iv.UserID,
		Question:      question.Question,
		CorrectAnswer: question.Answer,
		UserAnswer:    req.UserAnswer,
		Feedback:      feedback.Feedback,
		Rating:        feedback.Rating,
	}
	if err := s.store.CreateUserAnswer(r.Context(), answer); err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info("answer recorded",
		slog.String("interview_id", iv.ID.String()),
		slog.Int("question_index", req.QuestionIndex),
		slog.Int("rating", answer.Rating),
	)
	s.jsonResponse(w, http.StatusCreated, answer)
}

// handleGetFeedback returns the interview with every answer the user gave to
// its current questions and their mean rating.
func (s *Server) handleGetFeedback(w http.ResponseWriter, r *http.Request) {
	iv, ok := s.ownedInterview(w, r)
	if !ok {
		return
	}

	answers, err := s.store.ListUserAnswers(r.Context(), iv.ID, iv.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, buildFeedbackReport(iv, answers))
}

// buildFeedbackReport keeps answers whose question is still part of the
// interview. Questions replaced by a regeneration drop out of the report.
func buildFeedbackReport(iv *types.Interview, answers []types.UserAnswer) *types.FeedbackReport {
	current := make(map[string]bool, len(iv.Questions))
	for _, q := range iv.Questions {
		current[q.Question] = true
	}

	report := &types.FeedbackReport{Interview: iv, Answers: []types.UserAnswer{}}
	for _, a := range answers {
		if current[a.Question] {
			report.Answers = append(report.Answers, a)
		}
	}
	report.OverallRating = types.MeanRating(report.Answers)
	return report
}
