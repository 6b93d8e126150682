// Package normalize turns semi-structured language model output into strict
// interview data. Responses are cleaned of markdown noise, cut down to the
// bracketed payload and then handed to an ordered chain of parsing strategies.
package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/mock-interview/internal/types"
)

var (
	// fenceRe matches a markdown fence together with an optional language tag.
	fenceRe = regexp.MustCompile("```[A-Za-z0-9_+-]*")
	// langTagRe matches a language tag left alone on the first line.
	langTagRe = regexp.MustCompile(`(?i)^(json|javascript|js)\s*\n`)
)

// Result is the outcome of a successful normalization.
type Result struct {
	Questions []types.InterviewQuestion
	// Strategy is the name of the strategy that produced Questions.
	Strategy string
}

// Questions normalizes raw model output into interview questions using the default strategy chain.
func Questions(raw string) ([]types.InterviewQuestion, error) {
	res, err := Normalize(raw, DefaultStrategies()...)
	if err != nil {
		return nil, err
	}
	return res.Questions, nil
}

// Normalize runs the cleaning steps and then tries each strategy in order
// until one succeeds. With no strategies the default chain is used.
func Normalize(raw string, strategies ...Strategy) (*Result, error) {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}

	span, err := ArraySpan(raw)
	if err != nil {
		return nil, err
	}

	var failures []error
	for _, s := range strategies {
		questions, err := s.Parse(span)
		if err == nil {
			err = checkQuestions(questions)
		}
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		return &Result{Questions: questions, Strategy: s.Name()}, nil
	}

	return nil, &ParseError{
		Stage:   StageStrategies,
		Message: "no strategy could parse the response",
		Cause:   errors.Join(failures...),
	}
}

// Clean trims the input and removes markdown fences and stray language tags.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = fenceRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = langTagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ArraySpan cleans raw and returns the text from the first '[' to the last ']'.
func ArraySpan(raw string) (string, error) {
	return span(raw, '[', ']')
}

// ObjectSpan cleans raw and returns the text from the first '{' to the last '}'.
func ObjectSpan(raw string) (string, error) {
	return span(raw, '{', '}')
}

func span(raw string, open, closing byte) (string, error) {
	s := Clean(raw)
	if s == "" {
		return "", &ParseError{Stage: StageEmpty, Message: "response is empty"}
	}
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, closing)
	if start < 0 || end <= start {
		return "", &ParseError{
			Stage:   StageLocate,
			Message: fmt.Sprintf("no %c...%c block found in response", open, closing),
		}
	}
	return s[start : end+1], nil
}

func checkQuestions(questions []types.InterviewQuestion) error {
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("item %d has an empty question", i)
		}
		if strings.TrimSpace(q.Answer) == "" {
			return fmt.Errorf("item %d has an empty answer", i)
		}
	}
	return nil
}
