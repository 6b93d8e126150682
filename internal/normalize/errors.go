package normalize

import "fmt"

// Stage identifies where normalization gave up.
type Stage string

// Stage constants name the step of the pipeline that produced a ParseError.
const (
	StageEmpty      Stage = "empty"
	StageLocate     Stage = "locate"
	StageStrategies Stage = "strategies"
	StageValidate   Stage = "validate"
)

// ParseError is returned when a model response cannot be turned into structured data.
type ParseError struct {
	Stage   Stage
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error (%s): %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error (%s): %s", e.Stage, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
