package apiguard_test

import (
	"strings"
	"testing"

	"github.com/apiguard/apiguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		chunk   apiguard.Chunk
		wantErr string
	}{
		{
			name:  "valid",
			chunk: apiguard.Chunk{ID: "doc-0", Text: "hello", Source: "https://example.com/docs"},
		},
		{
			name:    "missing ID",
			chunk:   apiguard.Chunk{Text: "hello", Source: "https://example.com/docs"},
			wantErr: "chunk ID required",
		},
		{
			name:    "missing text",
			chunk:   apiguard.Chunk{ID: "doc-0", Source: "https://example.com/docs"},
			wantErr: "chunk text required",
		},
		{
			name:    "missing source",
			chunk:   apiguard.Chunk{ID: "doc-0", Text: "hello"},
			wantErr: "chunk source required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.chunk.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apiguard.EINVALID, apiguard.ErrorCode(err))
			assert.Contains(t, apiguard.ErrorMessage(err), tt.wantErr)
		})
	}
}

func TestChunkingParams_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, apiguard.DefaultChunkingParams().Validate())

	err := apiguard.ChunkingParams{ChunkSize: 0, Model: "m"}.Validate()
	assert.Equal(t, apiguard.EINVALID, apiguard.ErrorCode(err))

	err = apiguard.ChunkingParams{ChunkSize: 10, Overlap: 10, Model: "m"}.Validate()
	assert.Equal(t, apiguard.EINVALID, apiguard.ErrorCode(err))

	err = apiguard.ChunkingParams{ChunkSize: 10, Overlap: 2}.Validate()
	assert.Equal(t, apiguard.EINVALID, apiguard.ErrorCode(err))
}

func TestSplitDocument_OverlappingWindows(t *testing.T) {
	t.Parallel()

	doc := &apiguard.Document{
		ID:        "doc1",
		Title:     "Users API",
		SourceURL: "https://example.com/docs/users",
		Content:   "abcdefghij", // 10 chars
	}
	params := apiguard.ChunkingParams{ChunkSize: 4, Overlap: 1, Model: "m"}

	chunks := apiguard.SplitDocument(doc, params)

	// step = 3: [0:4) [3:7) [6:10)
	require.Len(t, chunks, 3)
	assert.Equal(t, "abcd", chunks[0].Text)
	assert.Equal(t, "defg", chunks[1].Text)
	assert.Equal(t, "ghij", chunks[2].Text)

	assert.Equal(t, "doc1-0", chunks[0].ID)
	assert.Equal(t, "doc1-2", chunks[2].ID)
	assert.Equal(t, "https://example.com/docs/users", chunks[0].Source)
	assert.Equal(t, "Users API", chunks[0].Title)
}

func TestSplitDocument_ContentShorterThanChunkSize(t *testing.T) {
	t.Parallel()

	doc := &apiguard.Document{ID: "d", SourceURL: "https://example.com", Content: "short"}
	params := apiguard.ChunkingParams{ChunkSize: 500, Overlap: 50, Model: "m"}

	chunks := apiguard.SplitDocument(doc, params)

	require.Len(t, chunks, 1)
	assert.Equal(t, "short", chunks[0].Text)
}

func TestSplitDocument_EmptyContent(t *testing.T) {
	t.Parallel()

	doc := &apiguard.Document{ID: "d", SourceURL: "https://example.com"}

	assert.Empty(t, apiguard.SplitDocument(doc, apiguard.DefaultChunkingParams()))
}

func TestSplitDocument_ChunkSizeBound(t *testing.T) {
	t.Parallel()

	doc := &apiguard.Document{
		ID:        "d",
		SourceURL: "https://example.com",
		Content:   strings.Repeat("x", 1234),
	}
	params := apiguard.ChunkingParams{ChunkSize: 100, Overlap: 20, Model: "m"}

	for _, c := range apiguard.SplitDocument(doc, params) {
		assert.LessOrEqual(t, len(c.Text), params.ChunkSize)
	}
}

func TestSplitDocuments_PreservesDocumentOrder(t *testing.T) {
	t.Parallel()

	docs := []*apiguard.Document{
		{ID: "a", SourceURL: "https://example.com/a", Content: "first document"},
		{ID: "b", SourceURL: "https://example.com/b", Content: "second document"},
	}

	chunks := apiguard.SplitDocuments(docs, apiguard.DefaultChunkingParams())

	require.Len(t, chunks, 2)
	assert.Equal(t, "a-0", chunks[0].ID)
	assert.Equal(t, "b-0", chunks[1].ID)
}

func TestIndexFingerprint_Stable(t *testing.T) {
	t.Parallel()

	params := apiguard.DefaultChunkingParams()
	chunks := []*apiguard.Chunk{
		{ID: "a-0", Text: "A", Source: "https://example.com/a"},
		{ID: "a-1", Text: "B", Source: "https://example.com/a"},
	}

	assert.Equal(t,
		apiguard.IndexFingerprint(params, chunks),
		apiguard.IndexFingerprint(params, chunks),
	)
}

func TestIndexFingerprint_SensitiveToParamsAndCorpus(t *testing.T) {
	t.Parallel()

	params := apiguard.DefaultChunkingParams()
	chunks := []*apiguard.Chunk{
		{ID: "a-0", Text: "A", Source: "https://example.com/a"},
		{ID: "a-1", Text: "B", Source: "https://example.com/a"},
	}
	base := apiguard.IndexFingerprint(params, chunks)

	changed := params
	changed.ChunkSize++
	assert.NotEqual(t, base, apiguard.IndexFingerprint(changed, chunks))

	changedModel := params
	changedModel.Model = "other-model"
	assert.NotEqual(t, base, apiguard.IndexFingerprint(changedModel, chunks))

	reordered := []*apiguard.Chunk{chunks[1], chunks[0]}
	assert.NotEqual(t, base, apiguard.IndexFingerprint(params, reordered))

	assert.NotEqual(t, base, apiguard.IndexFingerprint(params, chunks[:1]))
}
