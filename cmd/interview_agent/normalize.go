package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/mock-interview/internal/normalize"
)

var (
	normInputFile string
	normFeedback  bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize a raw model response",
	Long: "Read a raw model response from a file or stdin and print the question list it contains. " +
		"With --feedback the input is treated as an answer evaluation instead.",
	Args: cobra.NoArgs,
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVarP(&normInputFile, "in", "i", "", "Path to the raw response (default stdin)")
	normalizeCmd.Flags().BoolVar(&normFeedback, "feedback", false, "Parse an answer evaluation object")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	raw, err := readInput(cmd, normInputFile)
	if err != nil {
		return err
	}

	if normFeedback {
		feedback, err := normalize.Feedback(raw)
		if err != nil {
			return err
		}
		return writeJSON(cmd, "", feedback)
	}

	result, err := normalize.Normalize(raw)
	if err != nil {
		return err
	}
	logger.Debug("normalized response", "strategy", result.Strategy, "questions", len(result.Questions))
	return writeJSON(cmd, "", result.Questions)
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}
