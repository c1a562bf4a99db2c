// Package crawl orchestrates documentation scraping. It coordinates sitemap
// discovery, polite fetching, content extraction, markdown conversion, and
// document storage.
package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/apiguard/apiguard"
	"golang.org/x/sync/errgroup"
)

// Frontier configuration for fallback crawling.
const (
	// frontierExpectedURLs sizes the Bloom filter for deduplication.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable dedup false positive rate.
	frontierFalsePositiveRate = 0.01
	// DefaultMaxPages bounds a link-following crawl so a badly linked site
	// cannot run away.
	DefaultMaxPages = 1000
	// DefaultConcurrency is the worker count for sitemap-driven crawls.
	DefaultConcurrency = 10
)

// Crawler scrapes a documentation site into stored documents.
//
// Discovery is sitemap-first: when the site publishes a sitemap, its URLs are
// fetched concurrently. When no sitemap exists, the crawler falls back to
// following same-domain links from the starting page, sequentially, bounded
// by MaxPages.
type Crawler struct {
	Sitemaps  apiguard.SitemapService
	Fetcher   apiguard.Fetcher
	Extractor apiguard.Extractor
	Scanner   apiguard.PageScanner
	Converter apiguard.Converter
	Documents apiguard.DocumentService
	Limiter   apiguard.DomainLimiter

	Concurrency int             // workers for sitemap crawls; 0 means default
	MaxPages    int             // page cap for fallback crawls; 0 means default
	RetryDelays []time.Duration // nil means DefaultRetryDelays
}

// Result holds the outcome of a crawl.
type Result struct {
	Saved   int // documents stored
	Skipped int // pages unchanged since the previous crawl
	Failed  int // pages that could not be processed
	Bytes   int // total markdown bytes stored
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int // 0 when the total is not known up front
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single URL. rawHTML is kept
// only for link expansion during fallback crawls.
type pageResult struct {
	position     int
	url          string
	title        string
	markdown     string
	rawHTML      string
	codeExamples []string
	err          error
}

// Crawl scrapes the documentation site rooted at baseURL and stores each page
// as a document. The progress callback, if provided, receives events as the
// crawl proceeds.
func (c *Crawler) Crawl(ctx context.Context, baseURL string, progress ProgressFunc) (*Result, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, apiguard.Errorf(apiguard.EINVALID, "invalid base URL %q", baseURL)
	}

	urls, err := c.Sitemaps.DiscoverURLs(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return c.linkCrawl(ctx, base, progress)
	}

	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if len(urls) > maxPages {
		urls = urls[:maxPages]
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(urls)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan pageResult, total)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- c.processURL(gctx, i, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]pageResult, total)
	var failed int
	for pr := range resultCh {
		completed.Add(1)
		pr.rawHTML = "" // only needed for link expansion in fallback crawls
		results[pr.position] = pr

		if progress == nil {
			if pr.err != nil {
				failed++
			}
			continue
		}
		event := ProgressEvent{
			Completed: int(completed.Load()),
			Total:     total,
			URL:       pr.url,
		}
		if pr.err != nil {
			failed++
			event.Type = ProgressFailed
			event.Error = pr.err
		} else {
			event.Type = ProgressCompleted
		}
		progress(event)
	}

	result := &Result{Failed: failed}
	for _, pr := range results {
		if pr.err != nil {
			continue
		}
		if err := c.storePage(ctx, pr, result); err != nil {
			result.Failed++
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return result, nil
}

// processURL fetches and processes a single URL.
func (c *Crawler) processURL(ctx context.Context, position int, pageURL string) pageResult {
	pr := pageResult{position: position, url: pageURL}

	u, err := url.Parse(pageURL)
	if err != nil {
		pr.err = apiguard.Errorf(apiguard.EINVALID, "invalid URL %q", pageURL)
		return pr
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx, u.Host); err != nil {
			pr.err = err
			return pr
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := fetchWithRetry(ctx, pageURL, c.Fetcher.Fetch, delays)
	if err != nil {
		pr.err = err
		return pr
	}

	extracted, err := c.Extractor.Extract(html)
	if err != nil {
		pr.err = err
		return pr
	}

	markdown, err := c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		pr.err = err
		return pr
	}

	// Code examples come from the raw page, not the extracted content, so
	// samples living outside the main content area are kept too.
	if c.Scanner != nil {
		if examples, err := c.Scanner.CodeExamples(html); err == nil {
			pr.codeExamples = examples
		}
	}

	pr.title = extracted.Title
	pr.markdown = markdown
	pr.rawHTML = html
	return pr
}

// storePage saves one processed page, replacing a previously stored version
// of the same URL when the content changed and skipping it when it did not.
func (c *Crawler) storePage(ctx context.Context, pr pageResult, result *Result) error {
	existing, err := c.Documents.FindDocuments(ctx, apiguard.DocumentFilter{SourceURL: &pr.url, Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		if existing[0].Content == pr.markdown {
			result.Skipped++
			return nil
		}
		if err := c.Documents.DeleteDocument(ctx, existing[0].ID); err != nil {
			return err
		}
	}

	doc := &apiguard.Document{
		SourceURL:    pr.url,
		Title:        pr.title,
		Content:      pr.markdown,
		CodeExamples: pr.codeExamples,
		Position:     pr.position,
	}
	if err := c.Documents.CreateDocument(ctx, doc); err != nil {
		return err
	}

	result.Saved++
	result.Bytes += len(pr.markdown)
	return nil
}

// linkCrawl follows same-domain links from the starting page when sitemap
// discovery finds nothing. Pages are processed sequentially to keep rate
// limiting and frontier management simple.
func (c *Crawler) linkCrawl(ctx context.Context, base *url.URL, progress ProgressFunc) (*Result, error) {
	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	pathPrefix := base.Path

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(base.String())

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted})
	}

	var result Result
	position := 0
	processed := 0

	for {
		pageURL, ok := frontier.Pop()
		if !ok {
			break
		}
		if processed >= maxPages {
			break
		}
		processed++

		if ctx.Err() != nil {
			break
		}

		pr := c.processURL(ctx, position, pageURL)
		if pr.err != nil {
			result.Failed++
			if progress != nil {
				progress(ProgressEvent{Type: ProgressFailed, URL: pageURL, Error: pr.err})
			}
			continue
		}
		position++

		// Expand the frontier from the raw page before storing it.
		if c.Scanner != nil {
			c.expandFrontier(frontier, pr, base, pathPrefix)
		}

		if err := c.storePage(ctx, pr, &result); err != nil {
			result.Failed++
			if progress != nil {
				progress(ProgressEvent{Type: ProgressFailed, URL: pageURL, Error: err})
			}
			continue
		}
		if progress != nil {
			progress(ProgressEvent{Type: ProgressCompleted, URL: pageURL})
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished})
	}
	return &result, nil
}

// expandFrontier pushes in-scope links from a processed page: same host as
// the starting URL and within its path prefix.
func (c *Crawler) expandFrontier(frontier *Frontier, pr pageResult, base *url.URL, pathPrefix string) {
	links, err := c.Scanner.Links(pr.rawHTML, pr.url)
	if err != nil {
		return
	}
	for _, link := range links {
		u, err := url.Parse(link)
		if err != nil {
			continue
		}
		if u.Host != base.Host {
			continue
		}
		if !strings.HasPrefix(u.Path, pathPrefix) {
			continue
		}
		frontier.Push(link)
	}
}
