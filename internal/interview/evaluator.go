package interview

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/mock-interview/internal/llm"
	"github.com/jonathan/mock-interview/internal/normalize"
	"github.com/jonathan/mock-interview/internal/prompts"
	"github.com/jonathan/mock-interview/internal/retry"
	"github.com/jonathan/mock-interview/internal/types"
)

// AnswerInput is one answer to evaluate.
type AnswerInput struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
	UserAnswer    string `json:"user_answer"`
}

// Evaluator rates user answers against the ideal answers.
type Evaluator struct {
	client llm.Client
	opts   Options
}

// NewEvaluator creates an Evaluator backed by client.
func NewEvaluator(client llm.Client, opts Options) *Evaluator {
	if opts.Tier == "" {
		opts.Tier = llm.TierLite
	}
	return &Evaluator{client: client, opts: opts.withDefaults()}
}

// Evaluate rates a single answer.
func (e *Evaluator) Evaluate(ctx context.Context, in AnswerInput) (*types.AnswerFeedback, error) {
	prompt, err := prompts.Render(prompts.InterviewFile, prompts.EvaluateAnswer, map[string]string{
		"Question":      in.Question,
		"UserAnswer":    in.UserAnswer,
		"CorrectAnswer": in.CorrectAnswer,
	})
	if err != nil {
		return nil, &GenerationError{Stage: StagePrompt, Cause: err}
	}

	session := e.client.StartSession(e.opts.Tier)
	raw, err := retry.Do(ctx, e.opts.Retry, func(ctx context.Context) (string, error) {
		return session.SendMessage(ctx, prompt)
	})
	if err != nil {
		return nil, &GenerationError{Stage: StageCall, Cause: err}
	}

	fb, err := normalize.Feedback(raw)
	if err != nil {
		e.opts.Logger.WarnContext(ctx, "could not parse answer feedback",
			slog.Int("response_bytes", len(raw)),
			slog.String("error", err.Error()),
		)
		return nil, &GenerationError{Stage: StageParse, Cause: err}
	}
	return fb, nil
}

// EvaluateAll rates answers in parallel, bounded by Options.Concurrency.
// Results keep the order of inputs. The first failure cancels the rest.
func (e *Evaluator) EvaluateAll(ctx context.Context, inputs []AnswerInput) ([]*types.AnswerFeedback, error) {
	results := make([]*types.AnswerFeedback, len(inputs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			fb, err := e.Evaluate(gCtx, in)
			if err != nil {
				return fmt.Errorf("answer %d: %w", i+1, err)
			}
			results[i] = fb
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
