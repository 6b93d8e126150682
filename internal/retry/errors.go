package retry

import "fmt"

// RetryExhaustedError is returned when every allowed attempt failed with a retryable error.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Last
}

// NonRetryableError is returned when the call failed with an error that does not look transient.
type NonRetryableError struct {
	Attempts int
	Last     error
}

func (e *NonRetryableError) Error() string {
	return fmt.Sprintf("non-retryable failure on attempt %d: %v", e.Attempts, e.Last)
}

func (e *NonRetryableError) Unwrap() error {
	return e.Last
}
