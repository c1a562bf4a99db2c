// Package bloom provides probabilistic URL set membership for crawl
// deduplication.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter records URLs the crawler has already seen. Membership tests can
// report false positives but never false negatives, so a positive answer may
// skip a fresh page, while a negative answer never re-fetches a known one.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs at the given false
// positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add marks a URL as seen.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Seen reports whether the URL may have been added before.
func (f *Filter) Seen(url string) bool {
	return f.f.TestString(url)
}

// Count returns the approximate number of URLs added.
func (f *Filter) Count() uint {
	return uint(f.f.ApproximatedSize())
}
