package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/mock-interview/internal/db"
	"github.com/jonathan/mock-interview/internal/fetch"
	"github.com/jonathan/mock-interview/internal/interview"
	"github.com/jonathan/mock-interview/internal/normalize"
	"github.com/jonathan/mock-interview/internal/retry"
	"github.com/jonathan/mock-interview/internal/schemas"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrInterviewNotFound is returned for missing interviews and for interviews
// owned by someone else, so ownership is not revealed.
type ErrInterviewNotFound struct {
	InterviewID uuid.UUID
}

func (e *ErrInterviewNotFound) Error() string {
	return fmt.Sprintf("interview not found: %s", e.InterviewID)
}

// ErrQuestionNotFound indicates an answer referenced a question index the interview does not have.
type ErrQuestionNotFound struct {
	Index int
	Count int
}

func (e *ErrQuestionNotFound) Error() string {
	return fmt.Sprintf("question %d does not exist (interview has %d questions)", e.Index, e.Count)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists     *ErrEmailAlreadyExists
		invalidCreds    *ErrInvalidCredentials
		pwMismatch      *ErrPasswordMismatch
		userNotFound    *ErrUserNotFound
		validation      *ErrValidation
		ivNotFound      *ErrInterviewNotFound
		questionMissing *ErrQuestionNotFound
		parseErr        *normalize.ParseError
		schemaErr       *schemas.ValidationError
		exhausted       *retry.RetryExhaustedError
		nonRetryable    *retry.NonRetryableError
		fetchErr        *fetch.Error
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &emailExists), errors.Is(err, db.ErrEmailTaken), errors.Is(err, db.ErrDuplicateAnswer):
		return http.StatusConflict
	case errors.As(err, &invalidCreds), errors.As(err, &pwMismatch):
		return http.StatusUnauthorized
	case errors.As(err, &userNotFound), errors.As(err, &ivNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &questionMissing):
		return http.StatusBadRequest
	case errors.As(err, &exhausted), errors.Is(err, errNoGenerator), errors.Is(err, errNoEvaluator):
		return http.StatusServiceUnavailable
	case errors.As(err, &nonRetryable), errors.As(err, &parseErr), errors.As(err, &schemaErr), errors.As(err, &fetchErr),
		errors.Is(err, interview.ErrNoQuestions):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// retryAfter suggests when a client should retry a request that ran out of model retries.
func retryAfter(err error) (time.Duration, bool) {
	var exhausted *retry.RetryExhaustedError
	if !errors.As(err, &exhausted) {
		return 0, false
	}
	if hint, ok := retry.Hint(exhausted.Last); ok {
		return hint, true
	}
	return retry.DefaultMaxBackoff, true
}

// publicMessage is the error text sent to clients. Upstream failures are
// summarized so model output and API internals do not leak.
func publicMessage(err error, status int) string {
	switch status {
	case http.StatusServiceUnavailable:
		if errors.Is(err, errNoGenerator) || errors.Is(err, errNoEvaluator) {
			return err.Error()
		}
		return "The interview service is busy. Please try again shortly."
	case http.StatusBadGateway:
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) {
			return fetchErr.Error()
		}
		return "The model returned a response that could not be used. Please try again."
	case http.StatusInternalServerError:
		return "Internal server error"
	default:
		return err.Error()
	}
}
