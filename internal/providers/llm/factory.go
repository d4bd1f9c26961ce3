package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/reliefbot/internal/config"
	"github.com/sandevgo/reliefbot/internal/core"
	"github.com/sandevgo/reliefbot/pkg/log"
)

// NewProvider creates the completion provider selected by configuration.
func NewProvider(ctx context.Context, cfg *config.LLMConfig) (core.CompletionProvider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.Model), nil
	case "openrouter":
		return NewOpenRouter(cfg.OpenRouterAPIKey, cfg.Model), nil
	case "custom":
		return NewCustomOpenAI(cfg.CustomBaseURL, cfg.CustomAPIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
