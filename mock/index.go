package mock

import (
	"context"

	"github.com/apiguard/apiguard"
)

var _ apiguard.IndexStore = (*IndexStore)(nil)

// IndexStore is a mock implementation of apiguard.IndexStore.
type IndexStore struct {
	SaveFn func(ctx context.Context, fingerprint uint64, vectors [][]float32) error
	LoadFn func(ctx context.Context, fingerprint uint64) ([][]float32, error)
}

func (s *IndexStore) Save(ctx context.Context, fingerprint uint64, vectors [][]float32) error {
	return s.SaveFn(ctx, fingerprint, vectors)
}

func (s *IndexStore) Load(ctx context.Context, fingerprint uint64) ([][]float32, error) {
	return s.LoadFn(ctx, fingerprint)
}
