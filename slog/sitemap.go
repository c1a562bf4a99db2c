package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/apiguard/apiguard"
)

// Ensure LoggingSitemapService implements apiguard.SitemapService.
var _ apiguard.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with operation logging.
type LoggingSitemapService struct {
	next   apiguard.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next apiguard.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap discovery",
			"url", baseURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL)
}
