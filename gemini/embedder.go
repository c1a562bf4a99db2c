// Package gemini provides Google Gemini implementations of the apiguard
// embedding and generation interfaces.
package gemini

import (
	"context"

	"github.com/apiguard/apiguard"
	"google.golang.org/genai"
)

// DefaultEmbeddingModel is the embedding model used unless overridden.
const DefaultEmbeddingModel = "gemini-embedding-001"

// Ensure Embedder implements apiguard.Embedder at compile time.
var _ apiguard.Embedder = (*Embedder)(nil)

// Embedder implements apiguard.Embedder using the Gemini embeddings API.
// Vectors are requested at apiguard.EmbeddingDim dimensions so the corpus
// and queries always live in the same space.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates a new Embedder for the given model.
func NewEmbedder(client *genai.Client, model string) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Embedder{client: client, model: model}
}

// Model returns the embedding model identifier.
func (e *Embedder) Model() string { return e.model }

// Embed returns the embedding for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns embeddings for a batch of texts, parallel to the input.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, apiguard.Errorf(apiguard.EINVALID, "no texts to embed")
	}
	for i, text := range texts {
		if text == "" {
			return nil, apiguard.Errorf(apiguard.EINVALID, "text %d is empty", i)
		}
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	dim := int32(apiguard.EmbeddingDim)
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, apiguard.Errorf(apiguard.EEMBEDDING, "embedding call failed: %v", err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, apiguard.Errorf(apiguard.EEMBEDDING,
			"embedding call returned %d vectors for %d texts", embeddingCount(result), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) != apiguard.EmbeddingDim {
			return nil, apiguard.Errorf(apiguard.EEMBEDDING,
				"embedding %d has dimension %d, want %d", i, embeddingDim(emb), apiguard.EmbeddingDim)
		}
		vectors[i] = emb.Values
	}

	return vectors, nil
}

func embeddingCount(r *genai.EmbedContentResponse) int {
	if r == nil {
		return 0
	}
	return len(r.Embeddings)
}

func embeddingDim(e *genai.ContentEmbedding) int {
	if e == nil {
		return 0
	}
	return len(e.Values)
}
