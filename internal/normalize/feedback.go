package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/mock-interview/internal/types"
)

// Rating bounds accepted from the evaluator.
const (
	MinRating = 1
	MaxRating = 10
)

type rawFeedback struct {
	Ratings  json.RawMessage `json:"ratings"`
	Rating   json.RawMessage `json:"rating"`
	Feedback string          `json:"feedback"`
}

// Feedback parses an answer evaluation object of the form {"ratings": N, "feedback": "..."}.
// The same cleaning and repair steps as Normalize apply. A rating given as a
// string or a float is accepted when it holds a whole number in range.
func Feedback(raw string) (*types.AnswerFeedback, error) {
	span, err := ObjectSpan(raw)
	if err != nil {
		return nil, err
	}

	var rf rawFeedback
	if err := json.Unmarshal([]byte(span), &rf); err != nil {
		if rerr := json.Unmarshal([]byte(RepairJSON(span)), &rf); rerr != nil {
			return nil, &ParseError{Stage: StageStrategies, Message: "feedback is not a JSON object", Cause: rerr}
		}
	}

	ratingRaw := rf.Ratings
	if len(ratingRaw) == 0 {
		ratingRaw = rf.Rating
	}
	rating, err := parseRating(ratingRaw)
	if err != nil {
		return nil, &ParseError{Stage: StageValidate, Message: "invalid rating", Cause: err}
	}
	feedback := strings.TrimSpace(rf.Feedback)
	if feedback == "" {
		return nil, &ParseError{Stage: StageValidate, Message: "feedback text is empty"}
	}

	return &types.AnswerFeedback{Rating: rating, Feedback: feedback}, nil
}

func parseRating(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("rating is missing")
	}

	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		var s string
		if serr := json.Unmarshal(raw, &s); serr != nil {
			return 0, fmt.Errorf("rating %s is not a number", string(raw))
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "/10"))
		value, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("rating %q is not a number", s)
		}
	}

	if value != math.Trunc(value) {
		return 0, fmt.Errorf("rating %v is not a whole number", value)
	}
	rating := int(value)
	if rating < MinRating || rating > MaxRating {
		return 0, fmt.Errorf("rating %d outside %d..%d", rating, MinRating, MaxRating)
	}
	return rating, nil
}
