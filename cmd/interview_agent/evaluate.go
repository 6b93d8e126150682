package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/mock-interview/internal/interview"
	"github.com/jonathan/mock-interview/internal/observability"
	"github.com/jonathan/mock-interview/internal/types"
)

var (
	evalInputFile string
	evalQuestion  string
	evalCorrect   string
	evalAnswer    string
	evalVerbose   bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Rate answers to interview questions",
	Long: "Rate a single answer given with --question, --correct and --answer, or a JSON array of " +
		`{"question","correct_answer","user_answer"} objects read with --in. Batches are rated concurrently.`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evalInputFile, "in", "i", "", "JSON file with answers to rate (- for stdin)")
	evaluateCmd.Flags().StringVar(&evalQuestion, "question", "", "Question text")
	evaluateCmd.Flags().StringVar(&evalCorrect, "correct", "", "Ideal answer")
	evaluateCmd.Flags().StringVar(&evalAnswer, "answer", "", "Answer to rate")
	evaluateCmd.Flags().BoolVarP(&evalVerbose, "verbose", "v", false, "Print a feedback report")
	rootCmd.AddCommand(evaluateCmd)
}

// evalItem is one entry of the --in file.
type evalItem struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
	UserAnswer    string `json:"user_answer"`
}

func evaluationInputs(cmd *cobra.Command) ([]interview.AnswerInput, error) {
	if evalInputFile == "" {
		if evalQuestion == "" || evalAnswer == "" {
			return nil, errors.New("provide --in or both --question and --answer")
		}
		return []interview.AnswerInput{{Question: evalQuestion, CorrectAnswer: evalCorrect, UserAnswer: evalAnswer}}, nil
	}

	raw, err := readInput(cmd, evalInputFile)
	if err != nil {
		return nil, err
	}
	var items []evalItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to parse answers file: %w", err)
	}
	if len(items) == 0 {
		return nil, errors.New("answers file is empty")
	}

	inputs := make([]interview.AnswerInput, len(items))
	for i, it := range items {
		inputs[i] = interview.AnswerInput(it)
	}
	return inputs, nil
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	inputs, err := evaluationInputs(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := newLLMClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	feedback, err := interview.NewEvaluator(client, evaluatorOptions()).EvaluateAll(ctx, inputs)
	if err != nil {
		return err
	}

	answers := make([]types.UserAnswer, len(inputs))
	for i, in := range inputs {
		answers[i] = types.UserAnswer{
			Question:      in.Question,
			CorrectAnswer: in.CorrectAnswer,
			UserAnswer:    in.UserAnswer,
			Feedback:      feedback[i].Feedback,
			Rating:        feedback[i].Rating,
		}
	}
	report := &types.FeedbackReport{
		Answers:       answers,
		OverallRating: types.MeanRating(answers),
	}

	if evalVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintFeedback(report)
	}
	return writeJSON(cmd, "", report)
}
