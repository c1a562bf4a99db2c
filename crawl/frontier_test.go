package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/apiguard/apiguard/crawl"
	"github.com/stretchr/testify/assert"
)

func TestFrontier_Push_rejects_duplicate_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	ok := f.Push("https://example.com/docs/page1")
	assert.True(t, ok, "first push should succeed")

	ok = f.Push("https://example.com/docs/page1")
	assert.False(t, ok, "duplicate URL should be rejected")
}

func TestFrontier_Push_strips_fragments_for_dedup(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.True(t, f.Push("https://example.com/docs/page#intro"))
	assert.False(t, f.Push("https://example.com/docs/page#usage"),
		"URLs differing only by fragment are duplicates")

	url, ok := f.Pop()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/docs/page", url, "fragment should be stripped from queued URL")
}

func TestFrontier_Pop_returns_URLs_in_insertion_order(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	f.Push("https://example.com/a")
	f.Push("https://example.com/b")
	f.Push("https://example.com/c")

	for _, want := range []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"} {
		url, ok := f.Pop()
		assert.True(t, ok)
		assert.Equal(t, want, url)
	}

	_, ok := f.Pop()
	assert.False(t, ok, "pop on empty frontier should return false")
}

func TestFrontier_Len_tracks_queue_size(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.Equal(t, 0, f.Len(), "new frontier should be empty")

	f.Push("https://example.com/a")
	assert.Equal(t, 1, f.Len())

	f.Push("https://example.com/b")
	assert.Equal(t, 2, f.Len())

	f.Pop()
	assert.Equal(t, 1, f.Len())

	f.Pop()
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_Seen_tracks_all_pushed_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.False(t, f.Seen("https://example.com/page"), "unseen URL should return false")

	f.Push("https://example.com/page")

	assert.True(t, f.Seen("https://example.com/page"), "pushed URL should be seen")

	// Popping does not forget the URL.
	f.Pop()
	assert.True(t, f.Seen("https://example.com/page"), "popped URL should still be seen")
}

func TestFrontier_concurrent_access(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(10000, 0.01)

	const numGoroutines = 10
	const numOpsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2) // pushers + poppers

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				f.Push(fmt.Sprintf("https://example.com/%d/%d", id, j))
			}
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				f.Pop()
				f.Len()
			}
		}()
	}

	wg.Wait()

	for i := 0; i < numGoroutines; i++ {
		for j := 0; j < numOpsPerGoroutine; j++ {
			url := fmt.Sprintf("https://example.com/%d/%d", i, j)
			assert.True(t, f.Seen(url), "pushed URL %s should be seen", url)
		}
	}
}
