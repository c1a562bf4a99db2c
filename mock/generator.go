package mock

import (
	"context"

	"github.com/apiguard/apiguard"
)

var _ apiguard.Generator = (*Generator)(nil)

// Generator is a mock implementation of apiguard.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, question string, chunks []*apiguard.Chunk, cfg apiguard.GenerationConfig) (string, error)
}

func (g *Generator) Generate(ctx context.Context, question string, chunks []*apiguard.Chunk, cfg apiguard.GenerationConfig) (string, error) {
	return g.GenerateFn(ctx, question, chunks, cfg)
}
