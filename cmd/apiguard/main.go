package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/apiguard/apiguard"
	"github.com/apiguard/apiguard/crawl"
	"github.com/apiguard/apiguard/fs"
	"github.com/apiguard/apiguard/gemini"
	"github.com/apiguard/apiguard/goquery"
	"github.com/apiguard/apiguard/htmltomarkdown"
	apiguardhttp "github.com/apiguard/apiguard/http"
	"github.com/apiguard/apiguard/rag"
	apiguardslog "github.com/apiguard/apiguard/slog"
	"github.com/apiguard/apiguard/sqlite"
	"github.com/apiguard/apiguard/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database and index paths. Set before calling Run().
	DBPath    string
	IndexPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	DocumentService apiguard.DocumentService
	ChunkService    apiguard.ChunkService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:    defaultDBPath(),
		IndexPath: defaultIndexPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Params: apiguard.DefaultChunkingParams(),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("apiguard"),
		kong.Description("Question answering over scraped API documentation."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'apiguard --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := commandName(kongCtx.Command())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set APIGUARD_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.DocumentService = sqlite.NewDocumentService(m.DB)
	m.ChunkService = sqlite.NewChunkService(m.DB)
	deps.DB = m.DB
	deps.Documents = m.DocumentService
	deps.Chunks = m.ChunkService
	deps.Sitemaps = apiguardslog.NewLoggingSitemapService(apiguardhttp.NewSitemapService(nil), logger)

	if cmd == "scrape" {
		fetcher := apiguardslog.NewLoggingFetcher(apiguardhttp.NewFetcher(), logger)
		defer fetcher.Close()

		deps.Crawler = &crawl.Crawler{
			Sitemaps:    deps.Sitemaps,
			Fetcher:     fetcher,
			Extractor:   trafilatura.NewExtractor(),
			Scanner:     goquery.NewScanner(),
			Converter:   htmltomarkdown.NewConverter(),
			Documents:   m.DocumentService,
			Limiter:     crawl.NewDomainLimiter(cli.Scrape.RPS),
			Concurrency: cli.Scrape.Concurrency,
			MaxPages:    cli.Scrape.MaxPages,
		}
	}

	if cmd == "index" || cmd == "ask" || cmd == "chat" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		svc, err := rag.NewService(rag.ServiceConfig{
			Embedder:  apiguardslog.NewLoggingEmbedder(gemini.NewEmbedder(client, deps.Params.Model), logger),
			Generator: gemini.NewGenerator(client, ""),
			Chunks:    m.ChunkService,
			Store:     fs.NewIndexStore(m.IndexPath),
			Params:    deps.Params,
		})
		if err != nil {
			return err
		}
		deps.Index = svc
		deps.Answerer = apiguardslog.NewLoggingAnswerer(svc, logger)
	}

	return kongCtx.Run(deps)
}

// commandName extracts the leading command word from a Kong command string
// such as "scrape <url>".
func commandName(command string) string {
	if fields := strings.Fields(command); len(fields) > 0 {
		return fields[0]
	}
	return command
}

func defaultDBPath() string {
	if path := os.Getenv("APIGUARD_DB"); path != "" {
		return path
	}
	return filepath.Join(defaultDataDir(), "apiguard.db")
}

func defaultIndexPath() string {
	if path := os.Getenv("APIGUARD_INDEX"); path != "" {
		return path
	}
	return filepath.Join(defaultDataDir(), "index.bin")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	dir := filepath.Join(home, ".apiguard")
	_ = os.MkdirAll(dir, 0755)
	return dir
}
