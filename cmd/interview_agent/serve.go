package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan/mock-interview/internal/db"
	"github.com/jonathan/mock-interview/internal/fetch"
	"github.com/jonathan/mock-interview/internal/interview"
	"github.com/jonathan/mock-interview/internal/server"
	"github.com/jonathan/mock-interview/internal/server/ratelimit"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for creating interviews and evaluating answers.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply pending database migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	jwtCfg, err := cfg.Auth.JWT()
	if err != nil {
		return err
	}
	passwords, err := cfg.Auth.Passwords()
	if err != nil {
		return err
	}

	database, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		if err := database.Migrate(ctx, db.MigrateUp, logger); err != nil {
			return err
		}
	}

	deps := server.Deps{
		Store:     database,
		Importer:  fetch.NewImporter(cfg.Fetch.Timeout, logger),
		JWT:       jwtCfg,
		Passwords: passwords,
		RateLimit: ratelimit.NewConfig(ratelimit.Settings{
			Enabled:         cfg.RateLimit.Enabled,
			DefaultLimit:    cfg.RateLimit.DefaultLimit,
			DefaultWindow:   cfg.RateLimit.DefaultWindow,
			CleanupInterval: cfg.RateLimit.CleanupInterval,
			Whitelist:       cfg.RateLimit.Whitelist,
			Blacklist:       cfg.RateLimit.Blacklist,
		}),
		Logger: logger,
	}

	// without a key the API still serves accounts and stored interviews
	client, err := newLLMClient(ctx)
	if err != nil {
		logger.Warn("model calls disabled", slog.String("reason", err.Error()))
	} else {
		defer func() { _ = client.Close() }()
		deps.Generator = interview.NewGenerator(client, interviewOptions())
		deps.Evaluator = interview.NewEvaluator(client, evaluatorOptions())
	}

	srv, err := server.New(server.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		UseBrowser:     cfg.Fetch.UseBrowser,
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
