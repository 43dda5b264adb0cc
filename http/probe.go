package http

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"golang.org/x/sync/errgroup"

	"github.com/subspace-lab/fluentdoc"
)

// DefaultProbeConcurrency bounds concurrent HEAD requests during a probe.
const DefaultProbeConcurrency = 4

// CoverageReport describes which curated mirror paths are actually served
// by the live mirror.
type CoverageReport struct {
	Covered []string // content paths the mirror serves, sorted
	Missing []string // content paths the mirror no longer serves, sorted
}

// Probe verifies the curated mirror map against the live mirror. It is a
// maintenance operation; the retrieval engine never probes.
type Probe struct {
	client      *http.Client
	concurrency int
}

// NewProbe creates a Probe. If client is nil, a client with the default
// fetch timeout is used. concurrency <= 0 selects the default.
func NewProbe(client *http.Client, concurrency int) *Probe {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if concurrency <= 0 {
		concurrency = DefaultProbeConcurrency
	}
	return &Probe{client: client, concurrency: concurrency}
}

// Verify checks every path in the mirror map. When the mirror publishes a
// sitemap the check is a single fetch; otherwise each mirror URL is
// probed with a bounded number of concurrent HEAD requests.
func (p *Probe) Verify(ctx context.Context, m *fluentdoc.MirrorMap) (*CoverageReport, error) {
	paths := m.Paths()
	if len(paths) == 0 {
		return &CoverageReport{}, nil
	}

	if known, ok := p.sitemapURLs(ctx, m); ok {
		report := &CoverageReport{}
		for _, path := range paths {
			mirrorURL, _ := m.URL(path)
			if known[mirrorURL] {
				report.Covered = append(report.Covered, path)
			} else {
				report.Missing = append(report.Missing, path)
			}
		}
		sortReport(report)
		return report, nil
	}

	return p.verifyByHead(ctx, m, paths)
}

// sitemapURLs fetches and parses the mirror's sitemap.xml if it has one.
func (p *Probe) sitemapURLs(ctx context.Context, m *fluentdoc.MirrorMap) (map[string]bool, bool) {
	root, ok := mirrorRoot(m)
	if !ok {
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root+"/sitemap.xml", nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, false
	}
	urlset := doc.Root()
	if urlset == nil || urlset.Tag != "urlset" {
		return nil, false
	}

	known := make(map[string]bool)
	for _, el := range urlset.SelectElements("url") {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			known[u] = true
		}
	}
	return known, true
}

// verifyByHead probes each mirror URL with a HEAD request.
func (p *Probe) verifyByHead(ctx context.Context, m *fluentdoc.MirrorMap, paths []string) (*CoverageReport, error) {
	report := &CoverageReport{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, path := range paths {
		g.Go(func() error {
			mirrorURL, _ := m.URL(path)

			req, err := http.NewRequestWithContext(gctx, http.MethodHead, mirrorURL, nil)
			if err != nil {
				return err
			}
			req.Header.Set("User-Agent", userAgent)

			resp, err := p.client.Do(req)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				mu.Lock()
				report.Missing = append(report.Missing, path)
				mu.Unlock()
				return nil
			}
			resp.Body.Close()

			mu.Lock()
			if resp.StatusCode == http.StatusOK {
				report.Covered = append(report.Covered, path)
			} else {
				report.Missing = append(report.Missing, path)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortReport(report)
	return report, nil
}

// mirrorRoot derives scheme://host from the first mirror URL.
func mirrorRoot(m *fluentdoc.MirrorMap) (string, bool) {
	for _, path := range m.Paths() {
		raw, _ := m.URL(path)
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		return u.Scheme + "://" + u.Host, true
	}
	return "", false
}

func sortReport(r *CoverageReport) {
	sort.Strings(r.Covered)
	sort.Strings(r.Missing)
}
