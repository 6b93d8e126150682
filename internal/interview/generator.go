// Package interview generates interview questions and evaluates answers with
// a language model. Each call opens its own chat session, survives rate limits
// through the retry package and repairs the model output with normalize.
package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jonathan/mock-interview/internal/llm"
	"github.com/jonathan/mock-interview/internal/normalize"
	"github.com/jonathan/mock-interview/internal/prompts"
	"github.com/jonathan/mock-interview/internal/retry"
	"github.com/jonathan/mock-interview/internal/schemas"
	"github.com/jonathan/mock-interview/internal/types"
)

// Stage names used in progress events and GenerationError.
const (
	StagePrompt   = "prompt"
	StageCall     = "call"
	StageWaiting  = "waiting"
	StageParse    = "parse"
	StageValidate = "validate"
	StageDone     = "done"
)

// ErrNoQuestions is the validate-stage cause when the model response parsed to an empty list.
var ErrNoQuestions = errors.New("model returned no questions")

// GenerationError reports which step of a generation failed.
type GenerationError struct {
	Stage string
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("interview generation failed at %s: %v", e.Stage, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// ProgressEvent describes a step of an in-flight generation.
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Attempt int    `json:"attempt,omitempty"`
	WaitMS  int64  `json:"wait_ms,omitempty"`
}

// ProgressFunc receives progress events. It is called on the generating goroutine.
type ProgressFunc func(ProgressEvent)

// Options configures a Generator or an Evaluator.
type Options struct {
	Tier          llm.ModelTier
	QuestionCount int
	Retry         retry.Policy
	// Concurrency bounds parallel evaluations in EvaluateAll.
	Concurrency int
	Logger      *slog.Logger
}

// DefaultOptions returns five questions on the standard tier with the default retry policy.
func DefaultOptions() Options {
	return Options{
		Tier:          llm.TierStandard,
		QuestionCount: types.DefaultQuestionCount,
		Retry:         retry.DefaultPolicy(),
		Concurrency:   4,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Tier == "" {
		o.Tier = d.Tier
	}
	if o.QuestionCount <= 0 {
		o.QuestionCount = d.QuestionCount
	}
	if o.Concurrency <= 0 {
		o.Concurrency = d.Concurrency
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	// a zero policy means "not set", not "never retry"
	if o.Retry.MaxRetries == 0 && o.Retry.MaxBackoff == 0 {
		o.Retry.MaxRetries = d.Retry.MaxRetries
		o.Retry.MaxBackoff = d.Retry.MaxBackoff
	}
	if o.Retry.Logger == nil {
		o.Retry.Logger = o.Logger
	}
	return o
}

// Generator produces interview questions for a role.
type Generator struct {
	client llm.Client
	opts   Options
}

// NewGenerator creates a Generator backed by client.
func NewGenerator(client llm.Client, opts Options) *Generator {
	return &Generator{client: client, opts: opts.withDefaults()}
}

// Generate returns questions with ideal answers for form.
func (g *Generator) Generate(ctx context.Context, form types.InterviewForm) ([]types.InterviewQuestion, error) {
	return g.GenerateWithProgress(ctx, form, nil)
}

// GenerateWithProgress is Generate with a callback for each step, including rate limit waits.
func (g *Generator) GenerateWithProgress(ctx context.Context, form types.InterviewForm, progress ProgressFunc) ([]types.InterviewQuestion, error) {
	emit := func(e ProgressEvent) {
		if progress != nil {
			progress(e)
		}
	}
	logger := g.opts.Logger

	emit(ProgressEvent{Stage: StagePrompt, Message: "Building prompt"})
	prompt, err := prompts.Render(prompts.InterviewFile, prompts.GenerateQuestions, map[string]string{
		"Count":       strconv.Itoa(g.opts.QuestionCount),
		"Position":    form.Position,
		"Description": form.Description,
		"Experience":  strconv.Itoa(form.Experience),
		"TechStack":   form.TechStack,
	})
	if err != nil {
		return nil, &GenerationError{Stage: StagePrompt, Cause: err}
	}

	emit(ProgressEvent{Stage: StageCall, Message: "Asking " + g.client.GetModel(g.opts.Tier)})
	session := g.client.StartSession(g.opts.Tier)

	policy := g.opts.Retry
	policy.Observer = func(s retry.State) {
		if s.Phase == retry.PhaseWaiting {
			emit(ProgressEvent{
				Stage:   StageWaiting,
				Message: "Rate limited, retrying",
				Attempt: s.Attempt,
				WaitMS:  s.Wait.Milliseconds(),
			})
		}
	}

	start := time.Now()
	raw, err := retry.Do(ctx, policy, func(ctx context.Context) (string, error) {
		return session.SendMessage(ctx, prompt)
	})
	if err != nil {
		return nil, &GenerationError{Stage: StageCall, Cause: err}
	}

	emit(ProgressEvent{Stage: StageParse, Message: "Parsing response"})
	res, err := normalize.Normalize(raw)
	if err != nil {
		logger.WarnContext(ctx, "could not parse generated questions",
			slog.String("position", form.Position),
			slog.Int("response_bytes", len(raw)),
			slog.String("error", err.Error()),
		)
		return nil, &GenerationError{Stage: StageParse, Cause: err}
	}

	if len(res.Questions) == 0 {
		logger.WarnContext(ctx, "model returned no questions",
			slog.String("position", form.Position),
			slog.Int("response_bytes", len(raw)),
		)
		return nil, &GenerationError{Stage: StageValidate, Cause: ErrNoQuestions}
	}
	if err := schemas.Validate(schemas.InterviewQuestions, res.Questions); err != nil {
		return nil, &GenerationError{Stage: StageValidate, Cause: err}
	}

	if len(res.Questions) != g.opts.QuestionCount {
		logger.WarnContext(ctx, "unexpected question count",
			slog.Int("want", g.opts.QuestionCount),
			slog.Int("got", len(res.Questions)),
		)
	}

	logger.InfoContext(ctx, "generated interview questions",
		slog.String("model", g.client.GetModel(g.opts.Tier)),
		slog.String("strategy", res.Strategy),
		slog.Int("count", len(res.Questions)),
		slog.Duration("elapsed", time.Since(start)),
	)
	emit(ProgressEvent{Stage: StageDone, Message: fmt.Sprintf("Generated %d questions", len(res.Questions))})

	return res.Questions, nil
}
