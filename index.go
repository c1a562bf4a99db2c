package apiguard

import (
	"context"
	"math"
	"sort"
)

// SearchHit is a single nearest-neighbor result: the position of the
// matching corpus entry and its Euclidean distance from the query.
type SearchHit struct {
	Position int
	Distance float64
}

// Index supports nearest-neighbor search over corpus embeddings.
// Positions returned by Search correspond 1:1 to the chunk corpus ordering
// at build time.
type Index interface {
	// Search returns the k nearest entries, ascending by distance.
	// k must be >= 1; a k larger than Len() returns all entries.
	Search(query []float32, k int) ([]SearchHit, error)

	// Len returns the number of indexed entries.
	Len() int
}

// IndexStore persists corpus embeddings together with the fingerprint of
// the corpus they were computed from.
type IndexStore interface {
	// Save persists the vectors under the given fingerprint.
	Save(ctx context.Context, fingerprint uint64, vectors [][]float32) error

	// Load returns the persisted vectors.
	// Returns ESTALEINDEX if the stored fingerprint differs from the given
	// one, and ENOTFOUND if no index has been persisted.
	Load(ctx context.Context, fingerprint uint64) ([][]float32, error)
}

// Ensure FlatIndex implements Index at compile time.
var _ Index = (*FlatIndex)(nil)

// FlatIndex is an exact nearest-neighbor index: a brute-force scan over all
// vectors by Euclidean (L2) distance. It is read-only after construction and
// safe for concurrent searches.
type FlatIndex struct {
	vectors [][]float32
	dim     int
}

// NewFlatIndex builds an index from corpus embeddings.
// Returns EEMPTYCORPUS for an empty vector set and EINVALID if the vectors
// do not all share the same non-zero dimension.
func NewFlatIndex(vectors [][]float32) (*FlatIndex, error) {
	if len(vectors) == 0 {
		return nil, Errorf(EEMPTYCORPUS, "cannot build index from empty corpus")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, Errorf(EINVALID, "vectors must have non-zero dimension")
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, Errorf(EINVALID, "vector %d has dimension %d, want %d", i, len(v), dim)
		}
	}
	return &FlatIndex{vectors: vectors, dim: dim}, nil
}

// Len returns the number of indexed entries.
func (idx *FlatIndex) Len() int { return len(idx.vectors) }

// Dim returns the vector dimensionality.
func (idx *FlatIndex) Dim() int { return idx.dim }

// Vectors returns the indexed vectors in position order, for persistence.
// The returned slice must not be modified.
func (idx *FlatIndex) Vectors() [][]float32 { return idx.vectors }

// Search returns the k nearest entries, ascending by Euclidean distance.
// Equal distances are broken by lower position, so results are deterministic
// for a fixed corpus.
func (idx *FlatIndex) Search(query []float32, k int) ([]SearchHit, error) {
	if k < 1 {
		return nil, Errorf(EINVALID, "k must be >= 1")
	}
	if len(query) != idx.dim {
		return nil, Errorf(EINVALID, "query has dimension %d, want %d", len(query), idx.dim)
	}
	if k > len(idx.vectors) {
		k = len(idx.vectors)
	}

	hits := make([]SearchHit, len(idx.vectors))
	for i, v := range idx.vectors {
		var sum float64
		for j := range v {
			d := float64(query[j]) - float64(v[j])
			sum += d * d
		}
		hits[i] = SearchHit{Position: i, Distance: math.Sqrt(sum)}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].Distance != hits[b].Distance {
			return hits[a].Distance < hits[b].Distance
		}
		return hits[a].Position < hits[b].Position
	})

	return hits[:k], nil
}
