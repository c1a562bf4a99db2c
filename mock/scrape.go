package mock

import (
	"context"

	"github.com/apiguard/apiguard"
)

var _ apiguard.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of apiguard.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ apiguard.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of apiguard.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*apiguard.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*apiguard.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ apiguard.PageScanner = (*PageScanner)(nil)

// PageScanner is a mock implementation of apiguard.PageScanner.
type PageScanner struct {
	LinksFn        func(html string, baseURL string) ([]string, error)
	CodeExamplesFn func(html string) ([]string, error)
}

func (s *PageScanner) Links(html string, baseURL string) ([]string, error) {
	return s.LinksFn(html, baseURL)
}

func (s *PageScanner) CodeExamples(html string) ([]string, error) {
	return s.CodeExamplesFn(html)
}

var _ apiguard.Converter = (*Converter)(nil)

// Converter is a mock implementation of apiguard.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ apiguard.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of apiguard.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL)
}

var _ apiguard.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of apiguard.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.WaitFn == nil {
		return nil
	}
	return d.WaitFn(ctx, domain)
}
