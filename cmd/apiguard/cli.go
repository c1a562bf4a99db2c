package main

import (
	"context"
	"io"

	"github.com/apiguard/apiguard"
	"github.com/apiguard/apiguard/crawl"
	"github.com/apiguard/apiguard/sqlite"
)

// IndexBuilder builds the vector index over the chunk corpus.
type IndexBuilder interface {
	// Ready loads the persisted index, building it if missing or stale.
	Ready(ctx context.Context) error

	// Rebuild re-embeds the corpus unconditionally.
	Rebuild(ctx context.Context) error
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	DB        *sqlite.DB
	Documents apiguard.DocumentService
	Chunks    apiguard.ChunkService
	Sitemaps  apiguard.SitemapService
	Crawler   *crawl.Crawler
	Params    apiguard.ChunkingParams

	Index    IndexBuilder
	Answerer apiguard.Answerer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log service operations to stderr"`

	Scrape ScrapeCmd `cmd:"" help:"Scrape a documentation site into the local store"`
	Index  IndexCmd  `cmd:"" help:"Chunk stored documents and build the vector index"`
	Ask    AskCmd    `cmd:"" help:"Ask a question about the indexed documentation"`
	Chat   ChatCmd   `cmd:"" help:"Start an interactive question answering session"`
	Docs   DocsCmd   `cmd:"" help:"List stored documents"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL         string  `arg:"" help:"Documentation base URL"`
	Concurrency int     `short:"c" default:"10" help:"Concurrent fetch limit for sitemap crawls"`
	MaxPages    int     `default:"1000" help:"Page cap for link-following crawls"`
	RPS         float64 `default:"1" help:"Max requests per second per domain"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Rebuild bool   `help:"Re-embed the corpus even if a valid index exists"`
	Chunks  string `type:"existingfile" help:"Index an external chunk corpus JSON file instead of stored documents"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the documentation"`
	TopK     int    `short:"k" default:"5" help:"Number of chunks to retrieve"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct {
	TopK int `short:"k" default:"5" help:"Number of chunks to retrieve per question"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Full bool `help:"Show full document content"`
}
