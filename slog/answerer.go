package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/apiguard/apiguard"
)

// Ensure LoggingAnswerer implements apiguard.Answerer.
var _ apiguard.Answerer = (*LoggingAnswerer)(nil)

// LoggingAnswerer wraps an Answerer with operation logging.
type LoggingAnswerer struct {
	next   apiguard.Answerer
	logger *slog.Logger
}

// NewLoggingAnswerer creates a new LoggingAnswerer.
func NewLoggingAnswerer(next apiguard.Answerer, logger *slog.Logger) *LoggingAnswerer {
	return &LoggingAnswerer{next: next, logger: logger}
}

// AnswerQuestion delegates to the wrapped answerer and logs the operation.
// The question text itself is not logged.
func (a *LoggingAnswerer) AnswerQuestion(ctx context.Context, question string, topK int) (answer *apiguard.Answer, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"chars", len(question),
			"topK", topK,
			"duration", time.Since(begin),
			"err", err,
		}
		if answer != nil {
			attrs = append(attrs,
				"sources", len(answer.Sources),
				"confidence", answer.Confidence,
			)
		}
		a.logger.Info("answer question", attrs...)
	}(time.Now())
	return a.next.AnswerQuestion(ctx, question, topK)
}
