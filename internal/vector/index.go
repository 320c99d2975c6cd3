// Package vector provides the similarity index over catalog embeddings.
package vector

import "context"

// Index defines vector storage and similarity search. IDs are place ids.
type Index interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*Hit, error)
	Save(path string) error
	Load(path string) error
	Size() int
	Close() error
}

// Hit is a single vector search result.
type Hit struct {
	ID    string
	Score float64 // inner product; cosine similarity for unit vectors
}
