package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/apiguard/apiguard"
	"github.com/apiguard/apiguard/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_CreateDocument(t *testing.T) {
	t.Parallel()

	t.Run("creates document with generated ID, hash, and timestamp", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := &apiguard.Document{
			SourceURL:    "https://example.com/docs/page1",
			Title:        "Page 1",
			Content:      "# Page 1\n\nThis is the content.",
			CodeExamples: []string{"curl https://example.com/api/users"},
		}

		err := svc.CreateDocument(ctx, doc)
		require.NoError(t, err)

		assert.NotEmpty(t, doc.ID, "ID should be generated")
		assert.NotEmpty(t, doc.ContentHash, "ContentHash should be generated")
		assert.False(t, doc.ScrapedAt.IsZero(), "ScrapedAt should be set")
	})

	t.Run("returns error for invalid document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		err := svc.CreateDocument(context.Background(), &apiguard.Document{})
		require.Error(t, err)
		assert.Equal(t, apiguard.EINVALID, apiguard.ErrorCode(err))
	})
}

func TestDocumentService_FindDocumentByID(t *testing.T) {
	t.Parallel()

	t.Run("round-trips all fields", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := &apiguard.Document{
			SourceURL:    "https://example.com/docs/auth",
			Title:        "Authentication",
			Content:      "Use the Authorization header.",
			CodeExamples: []string{"Authorization: Bearer <token>", "curl -H 'Authorization: Bearer x'"},
			Position:     3,
		}
		require.NoError(t, svc.CreateDocument(ctx, doc))

		got, err := svc.FindDocumentByID(ctx, doc.ID)
		require.NoError(t, err)

		assert.Equal(t, doc.SourceURL, got.SourceURL)
		assert.Equal(t, doc.Title, got.Title)
		assert.Equal(t, doc.Content, got.Content)
		assert.Equal(t, doc.CodeExamples, got.CodeExamples)
		assert.Equal(t, doc.ContentHash, got.ContentHash)
		assert.Equal(t, 3, got.Position)
	})

	t.Run("returns ENOTFOUND for unknown ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		_, err := svc.FindDocumentByID(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, apiguard.ENOTFOUND, apiguard.ErrorCode(err))
	})
}

func TestDocumentService_FindDocuments(t *testing.T) {
	t.Parallel()

	t.Run("orders by position", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		for _, pos := range []int{2, 0, 1} {
			doc := &apiguard.Document{
				SourceURL: fmt.Sprintf("https://example.com/docs/%d", pos),
				Content:   "content",
				Position:  pos,
			}
			require.NoError(t, svc.CreateDocument(ctx, doc))
		}

		docs, err := svc.FindDocuments(ctx, apiguard.DocumentFilter{})
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, 0, docs[0].Position)
		assert.Equal(t, 1, docs[1].Position)
		assert.Equal(t, 2, docs[2].Position)
	})

	t.Run("filters by source URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		require.NoError(t, svc.CreateDocument(ctx, &apiguard.Document{
			SourceURL: "https://example.com/docs/a", Content: "a",
		}))
		require.NoError(t, svc.CreateDocument(ctx, &apiguard.Document{
			SourceURL: "https://example.com/docs/b", Content: "b",
		}))

		url := "https://example.com/docs/b"
		docs, err := svc.FindDocuments(ctx, apiguard.DocumentFilter{SourceURL: &url})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, url, docs[0].SourceURL)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			require.NoError(t, svc.CreateDocument(ctx, &apiguard.Document{
				SourceURL: fmt.Sprintf("https://example.com/docs/%d", i),
				Content:   "content",
				Position:  i,
			}))
		}

		docs, err := svc.FindDocuments(ctx, apiguard.DocumentFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, 1, docs[0].Position)
		assert.Equal(t, 2, docs[1].Position)
	})
}

func TestDocumentService_DeleteDocument(t *testing.T) {
	t.Parallel()

	t.Run("deletes existing document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := &apiguard.Document{SourceURL: "https://example.com/docs", Content: "x"}
		require.NoError(t, svc.CreateDocument(ctx, doc))

		require.NoError(t, svc.DeleteDocument(ctx, doc.ID))

		_, err := svc.FindDocumentByID(ctx, doc.ID)
		assert.Equal(t, apiguard.ENOTFOUND, apiguard.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for unknown ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		err := svc.DeleteDocument(context.Background(), "missing")
		assert.Equal(t, apiguard.ENOTFOUND, apiguard.ErrorCode(err))
	})
}
