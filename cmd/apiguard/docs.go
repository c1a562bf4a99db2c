package main

import (
	"fmt"

	"github.com/apiguard/apiguard"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	docs, err := deps.Documents.FindDocuments(deps.Ctx, apiguard.DocumentFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apiguard.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stderr, "error: no documents stored. Run 'apiguard scrape <url>' first.")
		return apiguard.Errorf(apiguard.ENOTFOUND, "no documents stored")
	}

	if c.Full {
		for _, doc := range docs {
			fmt.Fprintf(deps.Stdout, "## %s\n%s\n\n%s\n\n", doc.Title, doc.SourceURL, doc.Content)
		}
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Documents (%d total):\n\n", len(docs))
	for i, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.SourceURL
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s\n     %s", i+1, title, doc.SourceURL)
		if n := len(doc.CodeExamples); n > 0 {
			fmt.Fprintf(deps.Stdout, " (%d code examples)", n)
		}
		fmt.Fprintln(deps.Stdout)
	}

	return nil
}
