package apiguard

import "context"

// DefaultTopK is the number of chunks retrieved when the caller does not
// specify one.
const DefaultTopK = 5

// QueryResult holds the chunks retrieved for a query, nearest-first, with
// parallel distance and source-URL slices.
type QueryResult struct {
	Chunks    []*Chunk
	Distances []float64
	Sources   []string
}

// Retriever performs top-K nearest-neighbor retrieval for a query.
type Retriever interface {
	// Retrieve embeds the query and returns the topK nearest chunks.
	// Returns EEMBEDDING if the query cannot be embedded; embedding
	// failures are deterministic for a fixed model, so there is no retry.
	Retrieve(ctx context.Context, query string, topK int) (*QueryResult, error)
}

// Answer packages a generated answer with its grounding provenance.
// Sources may repeat when several retrieved chunks share a URL; duplicates
// are deliberately preserved.
type Answer struct {
	Text       string   `json:"answer"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// Answerer is the caller-facing entry point for question answering.
type Answerer interface {
	// AnswerQuestion retrieves grounding chunks for the question and
	// generates an answer from them. A generation failure degrades to a
	// well-formed Answer whose text describes the error; only a retrieval
	// failure is returned as an error.
	AnswerQuestion(ctx context.Context, question string, topK int) (*Answer, error)
}

// Exchange is one (question, answer) pair in a caller-held conversation
// history.
type Exchange struct {
	Question string  `json:"question"`
	Answer   *Answer `json:"answer"`
}
