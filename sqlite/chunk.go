package sqlite

import (
	"context"

	"github.com/apiguard/apiguard"
)

// Compile-time interface verification.
var _ apiguard.ChunkService = (*ChunkService)(nil)

// ChunkService implements apiguard.ChunkService using SQLite.
//
// Chunk position is the join key between vector index results and chunk
// metadata, so the corpus is stored with an explicit position column and
// always read back in position order.
type ChunkService struct {
	db *DB
}

// NewChunkService creates a new ChunkService.
func NewChunkService(db *DB) *ChunkService {
	return &ChunkService{db: db}
}

// ReplaceChunks atomically replaces the whole corpus.
// Positions are assigned from slice order.
func (s *ChunkService) ReplaceChunks(ctx context.Context, chunks []*apiguard.Chunk) error {
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (position, id, text, source, title)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, i, c.ID, c.Text, c.Source, c.Title); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Chunks returns the full corpus ordered by position.
func (s *ChunkService) Chunks(ctx context.Context) ([]*apiguard.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, source, title
		FROM chunks
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*apiguard.Chunk
	for rows.Next() {
		var c apiguard.Chunk
		if err := rows.Scan(&c.ID, &c.Text, &c.Source, &c.Title); err != nil {
			return nil, err
		}
		chunks = append(chunks, &c)
	}

	return chunks, rows.Err()
}

// CountChunks returns the corpus size.
func (s *ChunkService) CountChunks(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count)
	return count, err
}
