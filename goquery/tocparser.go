// Package goquery provides HTML parsing implementations for fluentdoc
// using the goquery library.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/subspace-lab/fluentdoc"
)

// Ensure TocParser implements fluentdoc.TocParser at compile time.
var _ fluentdoc.TocParser = (*TocParser)(nil)

// TocParser harvests section links from the rendered DOM of a guide TOC
// page. The portal lists every section of a guide as an anchor whose href
// points into the guide's directory (e.g., /flu_th/); anything else on the
// page is chrome.
type TocParser struct{}

// NewTocParser creates a new TocParser.
func NewTocParser() *TocParser {
	return &TocParser{}
}

// ParseLinks parses TOC page HTML and returns section entries in document
// order plus candidate sub-TOC pages for the walker. Entries are
// deduplicated by content path, first occurrence wins.
func (p *TocParser) ParseLinks(html, baseURL string, guide fluentdoc.Guide, version string) ([]fluentdoc.TocEntry, []fluentdoc.TocLink, error) {
	if !guide.Valid() {
		return nil, nil, fluentdoc.Errorf(fluentdoc.EINVALID, "unknown guide %q", string(guide))
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, nil, fluentdoc.Errorf(fluentdoc.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, fluentdoc.Errorf(fluentdoc.EINVALID, "failed to parse HTML: %v", err)
	}

	var entries []fluentdoc.TocEntry
	var links []fluentdoc.TocLink
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		text := strings.TrimSpace(sel.Text())
		if href == "" || text == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}

		relPath, ok := contentPath(resolved, guide)
		if !ok || seen[relPath] {
			return
		}
		seen[relPath] = true

		number, title := fluentdoc.SplitSectionTitle(text)
		entries = append(entries, fluentdoc.TocEntry{
			Guide:   guide,
			Version: version,
			Number:  number,
			Title:   title,
			Path:    relPath,
			Depth:   fluentdoc.SectionDepth(number),
		})
		links = append(links, fluentdoc.TocLink{URL: resolved, Text: text})
	})

	return entries, links, nil
}

// contentPath extracts the guide-relative content path from an absolute
// URL, e.g. ".../en/flu_th/flu_th_turb.html" -> "flu_th/flu_th_turb.html".
// URLs outside the guide's directory, or non-HTML targets, are rejected.
func contentPath(rawURL string, guide fluentdoc.Guide) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	marker := "/" + guide.Dir() + "/"
	idx := strings.LastIndex(u.Path, marker)
	if idx == -1 {
		return "", false
	}

	relPath := u.Path[idx+1:]
	if !strings.HasSuffix(relPath, ".html") {
		return "", false
	}
	return relPath, true
}

// resolveURL resolves a relative URL against a base URL and strips any
// fragment, so sections differing only by anchor collapse to one page.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// isNonHTTPLink checks if the href is a non-HTTP link like javascript: or mailto:.
func isNonHTTPLink(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:", "#"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
