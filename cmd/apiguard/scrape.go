package main

import (
	"fmt"

	"github.com/apiguard/apiguard"
	"github.com/apiguard/apiguard/crawl"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			if event.Total > 0 {
				fmt.Fprintf(deps.Stdout, "  Found %d URLs in sitemap\n", event.Total)
			} else {
				fmt.Fprintf(deps.Stdout, "  No sitemap found, following links from %s\n", c.URL)
			}
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, 60), event.Error)
		}
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, c.URL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apiguard.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Saved %d pages (%s)", result.Saved, crawl.FormatBytes(result.Bytes))
	if result.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, ", %d unchanged", result.Skipped)
	}
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, ", %d failed", result.Failed)
	}
	fmt.Fprintln(deps.Stdout)

	if result.Saved > 0 {
		fmt.Fprintln(deps.Stdout, "Run 'apiguard index' to make the new pages searchable.")
	}
	return nil
}
