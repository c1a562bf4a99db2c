package apiguard

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Chunk is the unit of retrieval: a fixed-size overlapping slice of a
// document's content with provenance metadata. Chunks are immutable once
// created; the corpus is only ever replaced wholesale.
type Chunk struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source"`
	Title  string `json:"title"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return Errorf(EINVALID, "chunk ID required")
	}
	if c.Text == "" {
		return Errorf(EINVALID, "chunk text required")
	}
	if c.Source == "" {
		return Errorf(EINVALID, "chunk source required")
	}
	return nil
}

// ChunkingParams controls how document content is split into chunks.
// The parameters participate in the index fingerprint: changing any of them
// invalidates a persisted vector index built from the old corpus.
type ChunkingParams struct {
	ChunkSize int    `json:"chunkSize"` // maximum chunk length in characters
	Overlap   int    `json:"overlap"`   // characters shared between neighbors
	Model     string `json:"model"`     // embedding model identifier
}

// DefaultChunkingParams returns the chunking configuration the corpus is
// built with unless overridden.
func DefaultChunkingParams() ChunkingParams {
	return ChunkingParams{
		ChunkSize: 500,
		Overlap:   50,
		Model:     "gemini-embedding-001",
	}
}

// Validate returns an error if the parameters are unusable.
func (p ChunkingParams) Validate() error {
	if p.ChunkSize <= 0 {
		return Errorf(EINVALID, "chunk size must be positive")
	}
	if p.Overlap < 0 || p.Overlap >= p.ChunkSize {
		return Errorf(EINVALID, "overlap must be in [0, chunk size)")
	}
	if p.Model == "" {
		return Errorf(EINVALID, "embedding model required")
	}
	return nil
}

// SplitDocument splits a document's content into overlapping chunks.
// Chunk IDs are derived from the document ID and the chunk's sequence index,
// so re-chunking an unchanged document yields identical IDs.
func SplitDocument(doc *Document, params ChunkingParams) []*Chunk {
	runes := []rune(doc.Content)
	if len(runes) == 0 {
		return nil
	}

	step := params.ChunkSize - params.Overlap
	var chunks []*Chunk
	for start, seq := 0, 0; start < len(runes); start, seq = start+step, seq+1 {
		end := start + params.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, &Chunk{
			ID:     fmt.Sprintf("%s-%d", doc.ID, seq),
			Text:   string(runes[start:end]),
			Source: doc.SourceURL,
			Title:  doc.Title,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// SplitDocuments chunks all documents in order. The resulting slice order is
// the corpus order: chunk positions are its indices.
func SplitDocuments(docs []*Document, params ChunkingParams) []*Chunk {
	var chunks []*Chunk
	for _, doc := range docs {
		chunks = append(chunks, SplitDocument(doc, params)...)
	}
	return chunks
}

// IndexFingerprint hashes the chunking parameters together with the identity
// and order of the corpus. A persisted vector index is only valid for an
// exactly matching fingerprint; anything else risks silently joining search
// positions against the wrong chunks.
func IndexFingerprint(params ChunkingParams, chunks []*Chunk) uint64 {
	d := xxhash.New()
	fmt.Fprintf(d, "%d|%d|%s|%d", params.ChunkSize, params.Overlap, params.Model, len(chunks))
	for _, c := range chunks {
		_, _ = d.WriteString("|")
		_, _ = d.WriteString(c.ID)
	}
	return d.Sum64()
}

// ChunkService persists the chunk corpus in positional order. Position is
// the join key between vector index results and chunk metadata, so the
// ordering returned by Chunks must match the order given to ReplaceChunks.
type ChunkService interface {
	// ReplaceChunks atomically replaces the whole corpus.
	// Positions are assigned from slice order.
	ReplaceChunks(ctx context.Context, chunks []*Chunk) error

	// Chunks returns the full corpus ordered by position.
	Chunks(ctx context.Context) ([]*Chunk, error)

	// CountChunks returns the corpus size.
	CountChunks(ctx context.Context) (int, error)
}
