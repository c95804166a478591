package oracle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/config"
	"github.com/talenthub/portal-backend/internal/metrics"
)

// New builds the configured provider wrapped in rate limiting and
// instrumentation.
func New(ctx context.Context, cfg *config.OracleConfig, m *metrics.Metrics, logger *zap.Logger) (Client, error) {
	var provider Client
	switch cfg.Provider {
	case "gemini":
		g, err := NewGemini(ctx, cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		provider = g
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		provider = NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Provider)
	}

	limited := NewLimited(provider, cfg.RatePerSecond, cfg.Burst)
	return NewInstrumented(limited, cfg.Timeout, m, logger), nil
}
