// Package main provides the entry point for the mock interview API server and CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/mock-interview/internal/config"
	"github.com/jonathan/mock-interview/internal/observability"
)

var (
	configFile string
	logLevel   string

	// set by the root PersistentPreRunE
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "interview_agent",
	Short: "Mock Interview API server and tools",
	Long: "Generates technical interview questions for a role with Gemini, evaluates answers " +
		"and serves both over a REST API.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Server.LogLevel = logLevel
	}
	cfg = loaded
	logger = observability.SetupLogger(cfg.Server.LogLevel)
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
