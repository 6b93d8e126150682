package main

import (
	"context"
	"fmt"

	"github.com/jonathan/mock-interview/internal/db"
	"github.com/jonathan/mock-interview/internal/interview"
	"github.com/jonathan/mock-interview/internal/llm"
	"github.com/jonathan/mock-interview/internal/retry"
)

// newLLMClient connects to Gemini with the configured key and model override.
func newLLMClient(ctx context.Context) (llm.Client, error) {
	if err := cfg.RequireLLM(); err != nil {
		return nil, err
	}
	llmCfg := llm.DefaultConfig()
	if cfg.LLM.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.LLM.Model)
	}
	client, err := llm.NewClient(ctx, llmCfg, cfg.LLM.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// interviewOptions maps the llm config section onto generator options.
func interviewOptions() interview.Options {
	policy := retry.DefaultPolicy()
	policy.MaxRetries = cfg.LLM.MaxRetries
	policy.MaxBackoff = cfg.LLM.MaxBackoff
	policy.Logger = logger

	opts := interview.DefaultOptions()
	opts.QuestionCount = cfg.LLM.QuestionCount
	opts.Concurrency = cfg.LLM.EvalConcurrency
	opts.Retry = policy
	opts.Logger = logger
	return opts
}

// evaluatorOptions is interviewOptions on the lite tier.
func evaluatorOptions() interview.Options {
	opts := interviewOptions()
	opts.Tier = llm.TierLite
	return opts
}

func openDatabase(ctx context.Context) (*db.DB, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}
