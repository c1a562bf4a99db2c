// Package trafilatura extracts the main content of documentation pages,
// stripping navigation, sidebars, and footers.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/apiguard/apiguard"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements apiguard.Extractor at compile time.
var _ apiguard.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the page title and main content.
// The fallback heuristics handle documentation sites whose markup defeats
// the primary content detection.
func (e *Extractor) Extract(rawHTML string) (*apiguard.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, apiguard.Errorf(apiguard.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &apiguard.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node back to markup.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
