package llm

import (
	"errors"
	"fmt"
	"time"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/grpc/codes"
)

// CallError represents a failed call to the model provider. Its message keeps
// the status code and any server retry hint in text form so callers that
// only see the error string can still react to them.
type CallError struct {
	Message    string
	StatusCode int
	RetryDelay time.Duration
	Cause      error
}

func (e *CallError) Error() string {
	msg := "API call failed: " + e.Message
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	if e.RetryDelay > 0 {
		msg += fmt.Sprintf(` {"retryDelay":"%ds"}`, int(e.RetryDelay.Seconds()))
	}
	return msg
}

func (e *CallError) Unwrap() error {
	return e.Cause
}

// newCallError lifts status and RetryInfo details out of a provider error.
func newCallError(model string, err error) *CallError {
	ce := &CallError{
		Message: fmt.Sprintf("model %s", model),
		Cause:   err,
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if code := apiErr.HTTPCode(); code > 0 {
			ce.StatusCode = code
		} else if st := apiErr.GRPCStatus(); st != nil {
			ce.StatusCode = grpcToHTTP(st.Code())
		}
		if ri := apiErr.Details().RetryInfo; ri != nil && ri.GetRetryDelay() != nil {
			ce.RetryDelay = ri.GetRetryDelay().AsDuration()
		}
	}
	return ce
}

// grpcToHTTP maps the gRPC codes the API actually returns onto HTTP statuses.
func grpcToHTTP(code codes.Code) int {
	switch code {
	case codes.InvalidArgument:
		return 400
	case codes.PermissionDenied:
		return 403
	case codes.NotFound:
		return 404
	case codes.ResourceExhausted:
		return 429
	case codes.Internal:
		return 500
	case codes.Unavailable:
		return 503
	case codes.DeadlineExceeded:
		return 504
	default:
		return 0
	}
}
