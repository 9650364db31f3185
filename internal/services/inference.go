package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vark-assistant/internal/config"
)

// NewQAClient builds the backend named by cfg.InferenceProvider. The returned
// close func releases SDK clients and is never nil.
func NewQAClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (QAClient, func() error, error) {
	noop := func() error { return nil }

	switch cfg.InferenceProvider {
	case config.ProviderExtractive:
		return NewExtractiveQA(), noop, nil
	case config.ProviderHuggingFace:
		return NewHuggingFaceQA(cfg.HFEndpoint, cfg.HFModel, cfg.HFAPIToken), noop, nil
	case config.ProviderGemini:
		qa, err := NewGeminiQA(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, 5, logger)
		if err != nil {
			return nil, noop, err
		}
		return qa, qa.Close, nil
	case config.ProviderOpenAI:
		return NewOpenAIQA(cfg.OpenAIAPIKey, cfg.OpenAIModel), noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported inference provider %q", cfg.InferenceProvider)
	}
}
