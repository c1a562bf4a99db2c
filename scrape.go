package apiguard

import "context"

// Fetcher retrieves raw HTML from URLs. Documentation sites are fetched
// statically; JavaScript rendering is out of scope.
type Fetcher interface {
	// Fetch retrieves the HTML content at the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// ExtractResult holds the main content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title from document metadata.
	Title string

	// ContentHTML is the main content with boilerplate
	// (nav, footer, sidebar) removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// PageScanner pulls structural details out of a raw HTML page that the
// content extractor discards: outbound links for crawling and code examples
// for provenance.
type PageScanner interface {
	// Links returns same-domain links found in the page, resolved against
	// baseURL.
	Links(html string, baseURL string) ([]string, error)

	// CodeExamples returns the code blocks found in the page.
	CodeExamples(html string) ([]string, error)
}

// Converter converts HTML to Markdown. Markdown keeps code fences intact, so
// code examples survive chunking and can be quoted verbatim in answers.
type Converter interface {
	Convert(html string) (string, error)
}

// SitemapService discovers documentation URLs from a site's sitemap.
// Implementations check robots.txt for sitemap directives and fall back to
// /sitemap.xml, resolving sitemap indexes recursively.
type SitemapService interface {
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}

// URLFrontier manages a crawl queue with deduplication.
type URLFrontier interface {
	// Push adds a URL to the frontier.
	// Returns false if the URL has already been seen.
	Push(url string) bool

	// Pop returns the next URL in FIFO order.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of queued URLs.
	Len() int

	// Seen returns true if the URL has been queued or processed.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting for polite crawling.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled first.
	Wait(ctx context.Context, domain string) error
}
