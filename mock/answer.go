package mock

import (
	"context"

	"github.com/apiguard/apiguard"
)

var _ apiguard.Retriever = (*Retriever)(nil)

// Retriever is a mock implementation of apiguard.Retriever.
type Retriever struct {
	RetrieveFn func(ctx context.Context, query string, topK int) (*apiguard.QueryResult, error)
}

func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) (*apiguard.QueryResult, error) {
	return r.RetrieveFn(ctx, query, topK)
}

var _ apiguard.Answerer = (*Answerer)(nil)

// Answerer is a mock implementation of apiguard.Answerer.
type Answerer struct {
	AnswerQuestionFn func(ctx context.Context, question string, topK int) (*apiguard.Answer, error)
}

func (a *Answerer) AnswerQuestion(ctx context.Context, question string, topK int) (*apiguard.Answer, error) {
	return a.AnswerQuestionFn(ctx, question, topK)
}
