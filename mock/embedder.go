// Package mock provides mock implementations of apiguard interfaces for testing.
package mock

import (
	"context"

	"github.com/apiguard/apiguard"
)

var _ apiguard.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of apiguard.Embedder.
type Embedder struct {
	EmbedFn      func(ctx context.Context, text string) ([]float32, error)
	EmbedBatchFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedBatchFn(ctx, texts)
}
