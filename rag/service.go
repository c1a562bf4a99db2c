// Package rag composes chunk indexing, nearest-neighbor retrieval, grounded
// generation, and confidence scoring into the question-answering pipeline.
package rag

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/apiguard/apiguard"
	"golang.org/x/sync/errgroup"
)

const (
	// defaultEmbedBatchSize is the number of chunk texts sent per
	// embedding call during an index build.
	defaultEmbedBatchSize = 32

	// defaultEmbedConcurrency bounds concurrent embedding calls during an
	// index build.
	defaultEmbedConcurrency = 4
)

// Compile-time interface verification.
var (
	_ apiguard.Retriever = (*Service)(nil)
	_ apiguard.Answerer  = (*Service)(nil)
)

// Service owns the corpus snapshot and the vector index, and answers
// questions against them. It is constructed once at startup and passed by
// reference; there is no package-level state.
//
// The index is loaded lazily on first use. Queries read an immutable
// snapshot through an atomic pointer, so a concurrent Rebuild never exposes
// a partially built index: the new snapshot is built off to the side and
// swapped in only once complete.
type Service struct {
	embedder   apiguard.Embedder
	generator  apiguard.Generator
	chunks     apiguard.ChunkService
	store      apiguard.IndexStore
	params     apiguard.ChunkingParams
	generation apiguard.GenerationConfig
	batchSize  int

	mu   sync.Mutex // serializes index builds
	snap atomic.Pointer[snapshot]
}

// snapshot pairs an index with the corpus ordering it was built from.
// Index positions join positionally against the chunk slice, so the two
// must never be mixed across snapshots.
type snapshot struct {
	chunks []*apiguard.Chunk
	index  *apiguard.FlatIndex
}

// ServiceConfig holds the dependencies and settings for a Service.
type ServiceConfig struct {
	Embedder   apiguard.Embedder
	Generator  apiguard.Generator
	Chunks     apiguard.ChunkService
	Store      apiguard.IndexStore
	Params     apiguard.ChunkingParams
	Generation apiguard.GenerationConfig // zero value means defaults
	EmbedBatch int                       // zero means default
}

// NewService creates a Service from the given configuration.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Embedder == nil {
		return nil, apiguard.Errorf(apiguard.EINVALID, "embedder required")
	}
	if cfg.Generator == nil {
		return nil, apiguard.Errorf(apiguard.EINVALID, "generator required")
	}
	if cfg.Chunks == nil {
		return nil, apiguard.Errorf(apiguard.EINVALID, "chunk service required")
	}
	if cfg.Store == nil {
		return nil, apiguard.Errorf(apiguard.EINVALID, "index store required")
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}

	generation := cfg.Generation
	if generation == (apiguard.GenerationConfig{}) {
		generation = apiguard.DefaultGenerationConfig()
	}
	if err := generation.Validate(); err != nil {
		return nil, err
	}

	batchSize := cfg.EmbedBatch
	if batchSize <= 0 {
		batchSize = defaultEmbedBatchSize
	}

	return &Service{
		embedder:   cfg.Embedder,
		generator:  cfg.Generator,
		chunks:     cfg.Chunks,
		store:      cfg.Store,
		params:     cfg.Params,
		generation: generation,
		batchSize:  batchSize,
	}, nil
}

// Ready ensures the corpus and index are loaded, building and persisting the
// index if no valid persisted one exists. It is safe to call concurrently.
func (s *Service) Ready(ctx context.Context) error {
	if s.snap.Load() != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have loaded while we waited for the lock.
	if s.snap.Load() != nil {
		return nil
	}
	return s.reload(ctx, false)
}

// Rebuild re-embeds the full corpus, persists the new index, and swaps it in.
// In-flight queries keep reading the previous snapshot until the swap.
func (s *Service) Rebuild(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload(ctx, true)
}

// reload loads or builds a fresh snapshot and swaps it in.
// Callers must hold s.mu.
func (s *Service) reload(ctx context.Context, force bool) error {
	chunks, err := s.chunks.Chunks(ctx)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return apiguard.Errorf(apiguard.EEMPTYCORPUS, "chunk corpus is empty; scrape and index documentation first")
	}

	fingerprint := apiguard.IndexFingerprint(s.params, chunks)

	if !force {
		// A persisted index is only reused when its fingerprint matches the
		// current corpus exactly; a stale or missing one is rebuilt.
		vectors, err := s.store.Load(ctx, fingerprint)
		if err == nil {
			index, err := apiguard.NewFlatIndex(vectors)
			if err != nil {
				return err
			}
			if index.Len() != len(chunks) {
				return apiguard.Errorf(apiguard.ESTALEINDEX,
					"persisted index has %d entries for %d chunks", index.Len(), len(chunks))
			}
			s.snap.Store(&snapshot{chunks: chunks, index: index})
			return nil
		}
		switch apiguard.ErrorCode(err) {
		case apiguard.ENOTFOUND, apiguard.ESTALEINDEX:
			// fall through to a fresh build
		default:
			return err
		}
	}

	vectors, err := s.embedAll(ctx, chunks)
	if err != nil {
		return err
	}
	index, err := apiguard.NewFlatIndex(vectors)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, fingerprint, vectors); err != nil {
		return err
	}

	s.snap.Store(&snapshot{chunks: chunks, index: index})
	return nil
}

// embedAll embeds every chunk text, batched with bounded concurrency.
// The result is positionally parallel to the input.
func (s *Service) embedAll(ctx context.Context, chunks []*apiguard.Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultEmbedConcurrency)

	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		g.Go(func() error {
			texts := make([]string, end-start)
			for i, c := range chunks[start:end] {
				texts[i] = c.Text
			}
			batch, err := s.embedder.EmbedBatch(ctx, texts)
			if err != nil {
				return err
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Retrieve embeds the query and returns the topK nearest chunks with their
// distances and source URLs, nearest-first.
func (s *Service) Retrieve(ctx context.Context, query string, topK int) (*apiguard.QueryResult, error) {
	if query == "" {
		return nil, apiguard.Errorf(apiguard.EINVALID, "query required")
	}
	if topK < 1 {
		return nil, apiguard.Errorf(apiguard.EINVALID, "topK must be >= 1")
	}
	if err := s.Ready(ctx); err != nil {
		return nil, err
	}
	snap := s.snap.Load()

	// Embedding failures are deterministic for a fixed model, so there is
	// no retry here.
	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, apiguard.Errorf(apiguard.EEMBEDDING, "failed to embed query: %s", errText(err))
	}

	hits, err := snap.index.Search(queryVector, topK)
	if err != nil {
		return nil, err
	}

	result := &apiguard.QueryResult{
		Chunks:    make([]*apiguard.Chunk, len(hits)),
		Distances: make([]float64, len(hits)),
		Sources:   make([]string, len(hits)),
	}
	for i, hit := range hits {
		chunk := snap.chunks[hit.Position]
		result.Chunks[i] = chunk
		result.Distances[i] = hit.Distance
		result.Sources[i] = chunk.Source
	}
	return result, nil
}

// AnswerQuestion retrieves grounding chunks for the question, generates an
// answer from them, and scores confidence from the retrieval distances.
//
// A generation failure degrades to a well-formed Answer whose text embeds
// the error, with sources and confidence still populated from retrieval.
// Only a retrieval failure propagates as an error, since without retrieved
// context no meaningful answer can be produced.
func (s *Service) AnswerQuestion(ctx context.Context, question string, topK int) (*apiguard.Answer, error) {
	if topK <= 0 {
		topK = apiguard.DefaultTopK
	}

	result, err := s.Retrieve(ctx, question, topK)
	if err != nil {
		return nil, err
	}

	text, err := s.generator.Generate(ctx, question, result.Chunks, s.generation)
	if err != nil {
		text = "Error generating response: " + errText(err)
	}

	return &apiguard.Answer{
		Text:       text,
		Sources:    result.Sources,
		Confidence: apiguard.Confidence(result.Distances),
	}, nil
}

// errText prefers the application error message when available.
func errText(err error) string {
	if msg := apiguard.ErrorMessage(err); msg != "" && msg != "Internal error." {
		return msg
	}
	return err.Error()
}
