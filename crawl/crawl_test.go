package crawl_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/apiguard/apiguard"
	"github.com/apiguard/apiguard/crawl"
	"github.com/apiguard/apiguard/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docRecorder is a DocumentService that records created documents and serves
// lookups from them.
type docRecorder struct {
	mu      sync.Mutex
	docs    []*apiguard.Document
	deleted []string
}

func (r *docRecorder) service() *mock.DocumentService {
	return &mock.DocumentService{
		CreateDocumentFn: func(_ context.Context, doc *apiguard.Document) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.docs = append(r.docs, doc)
			return nil
		},
		FindDocumentsFn: func(_ context.Context, filter apiguard.DocumentFilter) ([]*apiguard.Document, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			var out []*apiguard.Document
			for _, d := range r.docs {
				if filter.SourceURL != nil && d.SourceURL != *filter.SourceURL {
					continue
				}
				out = append(out, d)
			}
			return out, nil
		},
		DeleteDocumentFn: func(_ context.Context, id string) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.deleted = append(r.deleted, id)
			for i, d := range r.docs {
				if d.ID == id {
					r.docs = append(r.docs[:i], r.docs[i+1:]...)
					return nil
				}
			}
			return apiguard.Errorf(apiguard.ENOTFOUND, "document not found")
		},
	}
}

func staticExtractor(title string) *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(_ string) (*apiguard.ExtractResult, error) {
			return &apiguard.ExtractResult{Title: title, ContentHTML: "<p>content</p>"}, nil
		},
	}
}

func passthroughConverter() *mock.Converter {
	return &mock.Converter{
		ConvertFn: func(html string) (string, error) { return html, nil },
	}
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid base URL", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{}
		_, err := c.Crawl(context.Background(), "not a url", nil)

		require.Error(t, err)
		assert.Equal(t, apiguard.EINVALID, apiguard.ErrorCode(err))
	})

	t.Run("crawls sitemap URLs and saves documents", func(t *testing.T) {
		t.Parallel()

		recorder := &docRecorder{}
		c := &crawl.Crawler{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
					return []string{"https://example.com/docs/a", "https://example.com/docs/b"}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					return "<html><body>" + url + "</body></html>", nil
				},
			},
			Extractor: staticExtractor("Test Page"),
			Converter: &mock.Converter{
				ConvertFn: func(_ string) (string, error) { return "markdown content", nil },
			},
			Scanner: &mock.PageScanner{
				LinksFn: func(_, _ string) ([]string, error) { return nil, nil },
				CodeExamplesFn: func(_ string) ([]string, error) {
					return []string{"client.users.create(name='Alice')"}, nil
				},
			},
			Documents:   recorder.service(),
			Concurrency: 2,
			RetryDelays: []time.Duration{0},
		}

		result, err := c.Crawl(context.Background(), "https://example.com/docs/", nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, 2*len("markdown content"), result.Bytes)

		require.Len(t, recorder.docs, 2)
		// Documents are saved in sitemap order regardless of fetch completion order.
		assert.Equal(t, "https://example.com/docs/a", recorder.docs[0].SourceURL)
		assert.Equal(t, 0, recorder.docs[0].Position)
		assert.Equal(t, "https://example.com/docs/b", recorder.docs[1].SourceURL)
		assert.Equal(t, 1, recorder.docs[1].Position)
		assert.Equal(t, "Test Page", recorder.docs[0].Title)
		assert.Equal(t, "markdown content", recorder.docs[0].Content)
		assert.Equal(t, []string{"client.users.create(name='Alice')"}, recorder.docs[0].CodeExamples)
	})

	t.Run("counts failed URLs when fetch fails", func(t *testing.T) {
		t.Parallel()

		recorder := &docRecorder{}
		c := &crawl.Crawler{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
					return []string{"https://example.com/good", "https://example.com/bad"}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if url == "https://example.com/bad" {
						return "", errors.New("connection refused")
					}
					return "<html></html>", nil
				},
			},
			Extractor:   staticExtractor("Page"),
			Converter:   passthroughConverter(),
			Documents:   recorder.service(),
			Concurrency: 1,
			RetryDelays: []time.Duration{0},
		}

		result, err := c.Crawl(context.Background(), "https://example.com/", nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 1, result.Failed)
	})

	t.Run("skips pages whose content is unchanged", func(t *testing.T) {
		t.Parallel()

		url := "https://example.com/docs/a"
		recorder := &docRecorder{}
		recorder.docs = []*apiguard.Document{{
			ID:        "existing",
			SourceURL: url,
			Content:   "<p>content</p>",
		}}

		c := &crawl.Crawler{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
					return []string{url}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) { return "<html></html>", nil },
			},
			Extractor:   staticExtractor("Page"),
			Converter:   passthroughConverter(),
			Documents:   recorder.service(),
			RetryDelays: []time.Duration{0},
		}

		result, err := c.Crawl(context.Background(), "https://example.com/docs/", nil)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Saved)
		assert.Equal(t, 1, result.Skipped)
		assert.Empty(t, recorder.deleted)
	})

	t.Run("replaces pages whose content changed", func(t *testing.T) {
		t.Parallel()

		url := "https://example.com/docs/a"
		recorder := &docRecorder{}
		recorder.docs = []*apiguard.Document{{
			ID:        "existing",
			SourceURL: url,
			Content:   "old markdown",
		}}

		c := &crawl.Crawler{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
					return []string{url}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) { return "<html></html>", nil },
			},
			Extractor:   staticExtractor("Page"),
			Converter:   passthroughConverter(),
			Documents:   recorder.service(),
			RetryDelays: []time.Duration{0},
		}

		result, err := c.Crawl(context.Background(), "https://example.com/docs/", nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, []string{"existing"}, recorder.deleted)
		require.Len(t, recorder.docs, 1)
		assert.Equal(t, "<p>content</p>", recorder.docs[0].Content)
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		recorder := &docRecorder{}
		c := &crawl.Crawler{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
					return []string{"https://example.com/a"}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) { return "<html></html>", nil },
			},
			Extractor:   staticExtractor("Page"),
			Converter:   passthroughConverter(),
			Documents:   recorder.service(),
			RetryDelays: []time.Duration{0},
		}

		var events []crawl.ProgressType
		_, err := c.Crawl(context.Background(), "https://example.com/", func(e crawl.ProgressEvent) {
			events = append(events, e.Type)
		})

		require.NoError(t, err)
		assert.Equal(t, []crawl.ProgressType{crawl.ProgressStarted, crawl.ProgressCompleted, crawl.ProgressFinished}, events)
	})
}

func TestCrawler_Crawl_LinkFallback(t *testing.T) {
	t.Parallel()

	t.Run("follows same-domain links within the path prefix", func(t *testing.T) {
		t.Parallel()

		recorder := &docRecorder{}
		c := &crawl.Crawler{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
					return nil, nil // no sitemap
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					return "<html><body>" + url + "</body></html>", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(html string) (*apiguard.ExtractResult, error) {
					return &apiguard.ExtractResult{Title: "Page", ContentHTML: html}, nil
				},
			},
			Converter: passthroughConverter(),
			Scanner: &mock.PageScanner{
				LinksFn: func(html, _ string) ([]string, error) {
					if html == "<html><body>https://example.com/docs/</body></html>" {
						return []string{
							"https://example.com/docs/a",    // in scope
							"https://other.com/docs/x",      // wrong host
							"https://example.com/blog/post", // outside path prefix
						}, nil
					}
					return nil, nil
				},
				CodeExamplesFn: func(_ string) ([]string, error) { return nil, nil },
			},
			Documents:   recorder.service(),
			RetryDelays: []time.Duration{0},
		}

		result, err := c.Crawl(context.Background(), "https://example.com/docs/", nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Saved, "start page plus the one in-scope link")
		require.Len(t, recorder.docs, 2)
		assert.Equal(t, "https://example.com/docs/", recorder.docs[0].SourceURL)
		assert.Equal(t, "https://example.com/docs/a", recorder.docs[1].SourceURL)
	})

	t.Run("respects the page cap", func(t *testing.T) {
		t.Parallel()

		recorder := &docRecorder{}
		c := &crawl.Crawler{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
					return nil, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) { return url, nil },
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(html string) (*apiguard.ExtractResult, error) {
					return &apiguard.ExtractResult{Title: "Page", ContentHTML: html}, nil
				},
			},
			Converter: passthroughConverter(),
			Scanner: &mock.PageScanner{
				// Every page links to two fresh pages, so the crawl would
				// never terminate without the cap.
				LinksFn: func(_, pageURL string) ([]string, error) {
					return []string{pageURL + "x", pageURL + "y"}, nil
				},
				CodeExamplesFn: func(_ string) ([]string, error) { return nil, nil },
			},
			Documents:   recorder.service(),
			MaxPages:    5,
			RetryDelays: []time.Duration{0},
		}

		result, err := c.Crawl(context.Background(), "https://example.com/", nil)

		require.NoError(t, err)
		assert.Equal(t, 5, result.Saved)
	})
}

func TestCrawler_Crawl_RetriesFetches(t *testing.T) {
	t.Parallel()

	attempts := 0
	recorder := &docRecorder{}
	c := &crawl.Crawler{
		Sitemaps: &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
				return []string{"https://example.com/flaky"}, nil
			},
		},
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				attempts++
				if attempts < 3 {
					return "", errors.New("timeout")
				}
				return "<html></html>", nil
			},
		},
		Extractor:   staticExtractor("Page"),
		Converter:   passthroughConverter(),
		Documents:   recorder.service(),
		RetryDelays: []time.Duration{0, 0, 0},
	}

	result, err := c.Crawl(context.Background(), "https://example.com/", nil)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 3, attempts)
}
