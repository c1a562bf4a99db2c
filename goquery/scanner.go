// Package goquery provides CSS-selector based page scanning: link discovery
// for crawling and code example extraction for provenance.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/apiguard/apiguard"
)

// minCodeExampleLength filters out inline fragments like single identifiers;
// shorter snippets carry no standalone value as examples.
const minCodeExampleLength = 20

// Ensure Scanner implements apiguard.PageScanner at compile time.
var _ apiguard.PageScanner = (*Scanner)(nil)

// Scanner pulls links and code examples out of raw HTML pages.
type Scanner struct{}

// NewScanner creates a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Links returns same-host links found in the page, resolved against baseURL,
// deduplicated, in document order. Non-navigational schemes (mailto:,
// javascript:) and pure fragment links are skipped.
func (s *Scanner) Links(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, apiguard.Errorf(apiguard.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, apiguard.Errorf(apiguard.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" || strings.HasPrefix(href, "#") {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if !isSameHost(base, resolved) {
			return
		}
		if seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links, nil
}

// CodeExamples returns the code blocks found in the page: <pre> elements and
// <code> elements outside of <pre>, longer than minCodeExampleLength after
// trimming. Duplicates are removed.
func (s *Scanner) CodeExamples(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, apiguard.Errorf(apiguard.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var examples []string

	add := func(text string) {
		text = strings.TrimSpace(text)
		if len(text) <= minCodeExampleLength || seen[text] {
			return
		}
		seen[text] = true
		examples = append(examples, text)
	}

	doc.Find("pre").Each(func(_ int, sel *goquery.Selection) {
		add(sel.Text())
	})
	doc.Find("code").Each(func(_ int, sel *goquery.Selection) {
		if sel.ParentsFiltered("pre").Length() > 0 {
			return
		}
		add(sel.Text())
	})

	return examples, nil
}

// resolveURL resolves href against base, dropping fragments.
// Returns "" for unparseable or non-HTTP hrefs.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

// isSameHost reports whether the resolved URL is on the same host as base.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}
