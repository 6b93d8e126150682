package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/jonathan/mock-interview/internal/types"
)

// Strategy is one way of turning a bracketed span into questions.
type Strategy interface {
	Name() string
	Parse(span string) ([]types.InterviewQuestion, error)
}

// StrategyFunc adapts a plain function into a Strategy.
type StrategyFunc struct {
	Label string
	Fn    func(span string) ([]types.InterviewQuestion, error)
}

// Name returns the strategy label.
func (f StrategyFunc) Name() string { return f.Label }

// Parse calls the wrapped function.
func (f StrategyFunc) Parse(span string) ([]types.InterviewQuestion, error) { return f.Fn(span) }

// DefaultStrategies returns the chain used by Normalize: strict JSON, repaired JSON, positional extraction.
func DefaultStrategies() []Strategy {
	return []Strategy{
		StrategyFunc{Label: "strict", Fn: parseStrict},
		StrategyFunc{Label: "repair", Fn: parseRepaired},
		StrategyFunc{Label: "positional", Fn: parsePositional},
	}
}

func parseStrict(span string) ([]types.InterviewQuestion, error) {
	var questions []types.InterviewQuestion
	if err := json.Unmarshal([]byte(span), &questions); err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []types.InterviewQuestion{}
	}
	return questions, nil
}

func parseRepaired(span string) ([]types.InterviewQuestion, error) {
	return parseStrict(RepairJSON(span))
}

var (
	// the key must start after an object or member boundary so that
	// "sampleAnswer" or "followUpQuestion" are not counted
	questionRe = regexp.MustCompile(`(?i)(?:^|[{,\s])"?question"?\s*:\s*"((?:[^"\\]|\\.)*)"`)
	answerRe   = regexp.MustCompile(`(?i)(?:^|[{,\s])"?answer"?\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// parsePositional pulls question and answer string values out in order and
// pairs them by index. It only needs the values to be well-quoted.
func parsePositional(span string) ([]types.InterviewQuestion, error) {
	qs := questionRe.FindAllStringSubmatch(span, -1)
	as := answerRe.FindAllStringSubmatch(span, -1)
	if len(qs) != len(as) {
		return nil, fmt.Errorf("found %d questions but %d answers", len(qs), len(as))
	}

	questions := make([]types.InterviewQuestion, 0, len(qs))
	for i := range qs {
		questions = append(questions, types.InterviewQuestion{
			Question: unquote(qs[i][1]),
			Answer:   unquote(as[i][1]),
		})
	}
	return questions, nil
}

// unquote decodes JSON escapes in a captured string body, keeping it verbatim if they are malformed.
func unquote(body string) string {
	var s string
	if err := json.Unmarshal([]byte(`"`+body+`"`), &s); err != nil {
		return body
	}
	return s
}
