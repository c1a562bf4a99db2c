package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/apiguard/apiguard"
)

// Run executes the index command: replace the chunk corpus, either by
// chunking all stored documents or from an external corpus file, and build
// the vector index.
func (c *IndexCmd) Run(deps *Dependencies) error {
	var chunks []*apiguard.Chunk
	var source string

	if c.Chunks != "" {
		imported, err := loadChunkCorpus(c.Chunks)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", apiguard.ErrorMessage(err))
			return err
		}
		chunks = imported
		source = c.Chunks
	} else {
		docs, err := deps.Documents.FindDocuments(deps.Ctx, apiguard.DocumentFilter{})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", apiguard.ErrorMessage(err))
			return err
		}
		if len(docs) == 0 {
			fmt.Fprintln(deps.Stderr, "error: no documents stored. Run 'apiguard scrape <url>' first.")
			return apiguard.Errorf(apiguard.EEMPTYCORPUS, "no documents to index")
		}
		chunks = apiguard.SplitDocuments(docs, deps.Params)
		source = fmt.Sprintf("%d documents", len(docs))
	}

	if len(chunks) == 0 {
		fmt.Fprintln(deps.Stderr, "error: chunk corpus is empty")
		return apiguard.Errorf(apiguard.EEMPTYCORPUS, "chunk corpus is empty")
	}

	if err := deps.Chunks.ReplaceChunks(deps.Ctx, chunks); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apiguard.ErrorMessage(err))
		return err
	}

	build := deps.Index.Ready
	if c.Rebuild {
		build = deps.Index.Rebuild
	}
	if err := build(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apiguard.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Indexed %d chunks from %s\n", len(chunks), source)
	return nil
}

// loadChunkCorpus reads a chunk corpus JSON file of {id, text, source, title}
// records.
func loadChunkCorpus(path string) ([]*apiguard.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var chunks []*apiguard.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, apiguard.Errorf(apiguard.EINVALID, "invalid chunk corpus: %v", err)
	}
	for i, chunk := range chunks {
		if chunk.ID == "" || chunk.Text == "" {
			return nil, apiguard.Errorf(apiguard.EINVALID, "chunk %d is missing an id or text", i)
		}
	}
	return chunks, nil
}
