package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/callorder-agent/internal/config"
	"github.com/PabloGalante/callorder-agent/internal/domain"
)

// New builds the responder selected by cfg.Responder.
func New(ctx context.Context, cfg *config.Config) (domain.Responder, error) {
	switch cfg.Responder {
	case "mock":
		return NewMockResponder(cfg.EndMarker), nil
	case "vertex":
		return NewVertexResponder(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
	case "openai":
		return NewOpenAIResponder(cfg.OpenAIAPIKey, cfg.ModelName, cfg.OpenAIBaseURL)
	case "anthropic":
		return NewAnthropicResponder(cfg.AnthropicAPIKey, cfg.ModelName)
	default:
		return nil, fmt.Errorf("unknown responder %q", cfg.Responder)
	}
}
