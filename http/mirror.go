// Package http provides the plain-HTTP client for the unauthenticated
// documentation mirror. The mirror carries static HTML and needs no
// browsing session, but its pages arrive with full site chrome, so
// content is run through an Extractor and Converter before use.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/subspace-lab/fluentdoc"
)

// DefaultFetchTimeout is the default timeout for mirror HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// maxBodyBytes caps mirror response bodies. Mirror pages are static HTML;
// anything larger is not a documentation page.
const maxBodyBytes = 10 << 20

// userAgent matches the identification the browsing session presents, so
// the mirror sees an ordinary client.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Ensure MirrorClient implements fluentdoc.MirrorFetcher at compile time.
var _ fluentdoc.MirrorFetcher = (*MirrorClient)(nil)

// MirrorClient retrieves documentation pages from the mirror over HTTP.
type MirrorClient struct {
	client    *http.Client
	timeout   time.Duration
	extractor fluentdoc.Extractor
	converter fluentdoc.Converter
}

// Option configures a MirrorClient.
type Option func(*MirrorClient)

// WithTimeout sets the timeout for mirror requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *MirrorClient) {
		c.timeout = d
	}
}

// NewMirrorClient creates a new MirrorClient. Fetched HTML is cleaned by
// the extractor and converted to markdown text by the converter.
func NewMirrorClient(extractor fluentdoc.Extractor, converter fluentdoc.Converter, opts ...Option) *MirrorClient {
	c := &MirrorClient{
		timeout:   DefaultFetchTimeout,
		extractor: extractor,
		converter: converter,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{
		Timeout: c.timeout,
	}

	return c
}

// FetchMirror downloads and extracts the page at a mirror URL.
func (c *MirrorClient) FetchMirror(ctx context.Context, url string) (*fluentdoc.Fragment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fluentdoc.Errorf(fluentdoc.EUNAVAILABLE, "mirror request failed: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// proceed
	case resp.StatusCode == http.StatusNotFound:
		return nil, fluentdoc.Errorf(fluentdoc.ENOTFOUND, "mirror has no page at %s", url)
	default:
		return nil, fluentdoc.Errorf(fluentdoc.EUNAVAILABLE, "mirror returned HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading mirror response: %w", err)
	}

	result, err := c.extractor.Extract(string(body))
	if err != nil {
		return nil, fluentdoc.Errorf(fluentdoc.EUNAVAILABLE, "mirror extraction failed for %s: %v", url, err)
	}

	text, err := c.converter.Convert(result.ContentHTML)
	if err != nil {
		return nil, fluentdoc.Errorf(fluentdoc.EUNAVAILABLE, "mirror conversion failed for %s: %v", url, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fluentdoc.Errorf(fluentdoc.EUNAVAILABLE, "mirror page at %s has no extractable content", url)
	}

	return &fluentdoc.Fragment{
		URL:       url,
		Title:     result.Title,
		Text:      text,
		Checksum:  fluentdoc.Checksum(text),
		FetchedAt: time.Now().UTC(),
	}, nil
}
