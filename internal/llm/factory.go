package llm

import (
	"fmt"

	"github.com/truthguard/truthguard/internal/model"
)

// NewRewriter creates a rewriter from configuration. An empty provider
// returns nil with no error: generative correction is optional and the
// deterministic path stands alone.
func NewRewriter(cfg model.LLMConfig) (Rewriter, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIRewriter(cfg)
	case "ollama":
		return NewOllamaRewriter(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", cfg.Provider)
	}
}
