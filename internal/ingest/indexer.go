package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperlocal/bhraman/internal/catalog"
	"github.com/hyperlocal/bhraman/internal/embedding"
	"github.com/hyperlocal/bhraman/internal/vector"
	"github.com/hyperlocal/bhraman/pkg/utils"
)

// BuildIndex embeds every catalog place and writes the vector index and its
// sidecar metadata. The whole index is rebuilt from scratch each run.
func BuildIndex(
	ctx context.Context,
	store *catalog.Store,
	embedder embedding.Embedder,
	indexPath, metaPath string,
	logger *zap.Logger,
) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if embedder == nil {
		return 0, fmt.Errorf("embedder required to build index")
	}

	places := store.Places()
	texts := make([]string, len(places))
	ids := make([]string, len(places))
	metas := make([]vector.Meta, len(places))
	for i, p := range places {
		texts[i] = p.SearchText()
		ids[i] = p.ID
		metas[i] = vector.Meta{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Snippet:  utils.Truncate(p.Description, 140),
		}
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed catalog: %w", err)
	}

	idx, err := vector.NewMemoryIndex(embedder.Dimensions())
	if err != nil {
		return 0, err
	}
	if err := idx.Add(ctx, ids, vectors); err != nil {
		return 0, fmt.Errorf("add vectors: %w", err)
	}
	if err := idx.Save(indexPath); err != nil {
		return 0, fmt.Errorf("save index: %w", err)
	}
	if err := vector.SaveMeta(metaPath, metas); err != nil {
		return 0, fmt.Errorf("save meta: %w", err)
	}

	logger.Info("vector index built",
		zap.Int("places", len(places)),
		zap.Int("dimensions", embedder.Dimensions()),
		zap.String("index_path", indexPath),
	)
	return len(places), nil
}
