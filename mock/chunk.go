package mock

import (
	"context"

	"github.com/apiguard/apiguard"
)

var _ apiguard.ChunkService = (*ChunkService)(nil)

// ChunkService is a mock implementation of apiguard.ChunkService.
type ChunkService struct {
	ReplaceChunksFn func(ctx context.Context, chunks []*apiguard.Chunk) error
	ChunksFn        func(ctx context.Context) ([]*apiguard.Chunk, error)
	CountChunksFn   func(ctx context.Context) (int, error)
}

func (s *ChunkService) ReplaceChunks(ctx context.Context, chunks []*apiguard.Chunk) error {
	return s.ReplaceChunksFn(ctx, chunks)
}

func (s *ChunkService) Chunks(ctx context.Context) ([]*apiguard.Chunk, error) {
	return s.ChunksFn(ctx)
}

func (s *ChunkService) CountChunks(ctx context.Context) (int, error) {
	return s.CountChunksFn(ctx)
}
