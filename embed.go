package apiguard

import "context"

// EmbeddingDim is the dimensionality of every vector in the system.
const EmbeddingDim = 384

// Embedder maps text to fixed-dimension vectors for similarity search.
//
// The corpus and queries must be embedded with the same model: vectors from
// different models live in incomparable spaces, so mixing them is a
// correctness bug rather than a quality regression. The model name is part
// of ChunkingParams for exactly this reason.
type Embedder interface {
	// Embed returns the embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns embeddings for a batch of texts.
	// The result is parallel to the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
