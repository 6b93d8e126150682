//nolint:revive // types is a standard Go package name pattern
package types

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// DefaultQuestionCount is how many questions a generated interview is expected to hold.
const DefaultQuestionCount = 5

// InterviewQuestion is a single generated question with its ideal answer.
type InterviewQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// InterviewForm is the role description a user submits to create or update an interview.
type InterviewForm struct {
	Position    string `json:"position" validate:"required,max=100"`
	Description string `json:"description" validate:"required,min=10"`
	Experience  int    `json:"experience" validate:"gte=0"`
	TechStack   string `json:"tech_stack" validate:"required,min=1"`
}

// Validate checks the InterviewForm field rules.
func (f *InterviewForm) Validate() error {
	return validate.Struct(f)
}

// Interview is a stored mock interview with its generated questions.
type Interview struct {
	ID          uuid.UUID           `json:"id"`
	UserID      uuid.UUID           `json:"user_id"`
	Position    string              `json:"position"`
	Description string              `json:"description"`
	Experience  int                 `json:"experience"`
	TechStack   string              `json:"tech_stack"`
	Questions   []InterviewQuestion `json:"questions"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// SubmitAnswerRequest is a user's recorded answer to one interview question.
type SubmitAnswerRequest struct {
	QuestionIndex int    `json:"question_index" validate:"gte=0"`
	UserAnswer    string `json:"user_answer" validate:"required,min=30"`
}

// Validate checks the SubmitAnswerRequest field rules.
func (r *SubmitAnswerRequest) Validate() error {
	return validate.Struct(r)
}

// AnswerFeedback is the evaluation the model returns for a single answer.
type AnswerFeedback struct {
	Rating   int    `json:"ratings"`
	Feedback string `json:"feedback"`
}

// UserAnswer is a stored answer together with its feedback.
type UserAnswer struct {
	ID            uuid.UUID `json:"id"`
	InterviewID   uuid.UUID `json:"interview_id"`
	UserID        uuid.UUID `json:"user_id"`
	Question      string    `json:"question"`
	CorrectAnswer string    `json:"correct_answer"`
	UserAnswer    string    `json:"user_answer"`
	Feedback      string    `json:"feedback"`
	Rating        int       `json:"rating"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FeedbackReport aggregates all answers of one user for one interview.
type FeedbackReport struct {
	Interview     *Interview   `json:"interview"`
	Answers       []UserAnswer `json:"answers"`
	OverallRating float64      `json:"overall_rating"`
}

// MeanRating is the average rating of answers rounded to one decimal, or 0 without answers.
func MeanRating(answers []UserAnswer) float64 {
	if len(answers) == 0 {
		return 0
	}
	total := 0
	for _, a := range answers {
		total += a.Rating
	}
	return math.Round(float64(total)/float64(len(answers))*10) / 10
}

// ImportJobRequest asks the server to pull a job posting from a URL.
type ImportJobRequest struct {
	URL        string `json:"url" validate:"required,url"`
	UseBrowser bool   `json:"use_browser,omitempty"`
}

// Validate checks the ImportJobRequest field rules.
func (r *ImportJobRequest) Validate() error {
	return validate.Struct(r)
}

// ImportJobResponse carries the extracted posting text back to the client.
type ImportJobResponse struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
	Platform    string `json:"platform,omitempty"`
}
