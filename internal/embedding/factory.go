package embedding

import (
	"fmt"

	"github.com/hyperlocal/bhraman/internal/config"
)

// New creates the embedder selected by cfg. Provider "none" returns nil with
// no error; the caller treats a nil embedder as "semantic capability absent".
func New(cfg *config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "none":
		return nil, nil
	case "mock":
		return NewMockEmbedder(cfg.Dimensions), nil
	case "ollama":
		return NewOllamaEmbedder(cfg.Endpoint, cfg.Model, cfg.Dimensions, cfg.CacheSize), nil
	case "onnx", "":
		return NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: onnx, ollama, mock, none)", cfg.Provider)
	}
}
