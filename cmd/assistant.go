package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/ai/gemini"
	"github.com/spigell/resume-matcher/internal/secrets"
)

// newAssistant builds the configured AI assistant. When AI is disabled, or it
// cannot be set up, scoring goes on without explanations.
func newAssistant(ctx context.Context, cfg AIConfig, logger *zap.Logger) ai.Assistant {
	if !cfg.Enabled {
		logger.Info("ai assistant disabled")
		return ai.Disabled{}
	}

	assistant, err := buildAssistant(ctx, cfg, logger)
	if err != nil {
		logger.Warn("ai assistant is unavailable. Continuing without explanations.", zap.Error(err))
		return ai.Disabled{}
	}

	return assistant
}

func buildAssistant(ctx context.Context, cfg AIConfig, logger *zap.Logger) (ai.Assistant, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gemini.GeneratorOptions{
		Model:       cfg.Gemini.Model,
		MaxTokens:   cfg.Gemini.MaxTokens,
		Temperature: cfg.Gemini.Temperature,
	})
	if err != nil {
		return nil, err
	}

	return gemini.NewAssistant(generator, logger, gemini.Options{
		MaxRetries:   cfg.Gemini.MaxRetries,
		RetryDelay:   cfg.Gemini.RetryDelay,
		Timeout:      cfg.Gemini.Timeout,
		MaxLogLength: cfg.Gemini.MaxLogLength,
	}), nil
}
