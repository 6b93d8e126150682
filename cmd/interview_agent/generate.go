package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/mock-interview/internal/interview"
	"github.com/jonathan/mock-interview/internal/observability"
	"github.com/jonathan/mock-interview/internal/types"
)

var (
	genPosition    string
	genDescription string
	genExperience  int
	genTechStack   string
	genCount       int
	genOutputFile  string
	genVerbose     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate interview questions for a role",
	Long:  "Generate interview questions and ideal answers for a role and print them as JSON.",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genPosition, "position", "", "Job position (required)")
	generateCmd.Flags().StringVar(&genDescription, "description", "", "Job description (required)")
	generateCmd.Flags().IntVar(&genExperience, "experience", 0, "Years of experience")
	generateCmd.Flags().StringVar(&genTechStack, "tech-stack", "", "Comma separated tech stack (required)")
	generateCmd.Flags().IntVar(&genCount, "count", 0, "Number of questions (overrides the configured count)")
	generateCmd.Flags().StringVarP(&genOutputFile, "out", "o", "", "Write JSON to this file instead of stdout")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print the form, progress and questions")

	_ = generateCmd.MarkFlagRequired("position")
	_ = generateCmd.MarkFlagRequired("description")
	_ = generateCmd.MarkFlagRequired("tech-stack")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	form := types.InterviewForm{
		Position:    genPosition,
		Description: genDescription,
		Experience:  genExperience,
		TechStack:   genTechStack,
	}
	if err := form.Validate(); err != nil {
		return fmt.Errorf("invalid interview form: %w", err)
	}

	ctx := cmd.Context()
	client, err := newLLMClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	opts := interviewOptions()
	if genCount > 0 {
		opts.QuestionCount = genCount
	}

	printer := observability.NewPrinter(cmd.ErrOrStderr())
	var progress interview.ProgressFunc
	if genVerbose {
		printer.PrintInterviewForm(&form)
		progress = func(ev interview.ProgressEvent) {
			if ev.WaitMS > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s (waiting %s)\n", ev.Stage, ev.Message, time.Duration(ev.WaitMS)*time.Millisecond)
				return
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", ev.Stage, ev.Message)
		}
	}

	questions, err := interview.NewGenerator(client, opts).GenerateWithProgress(ctx, form, progress)
	if err != nil {
		return err
	}
	if genVerbose {
		printer.PrintQuestions(questions)
	}

	return writeJSON(cmd, genOutputFile, questions)
}

// writeJSON prints v indented to path, or to stdout when path is empty.
func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
