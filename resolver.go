package fluentdoc

import (
	"path"
	"strings"
)

// Portal URL constants. The doubled slash in SecuredPrefix is what the
// portal itself emits in content links; keep it.
const (
	DefaultBaseURL = "https://ansyshelp.ansys.com"
	SecuredPrefix  = "/public//Views/Secured/"
	LandingPath    = "/public/Views/Secured/prod_page.html?pn=Fluent&pid=Fluent&lang=en"
)

// Resolver builds absolute portal URLs from (guide, version, path) tuples.
// Resolution is pure: the same inputs always produce the same URL.
type Resolver struct {
	// BaseURL is the portal root. Defaults to DefaultBaseURL when empty.
	BaseURL string
}

// NewResolver creates a Resolver for the production portal.
func NewResolver() *Resolver {
	return &Resolver{BaseURL: DefaultBaseURL}
}

func (r *Resolver) base() string {
	if r.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(r.BaseURL, "/")
}

// LandingURL returns the landing page used for session bootstrap.
func (r *Resolver) LandingURL() string {
	return r.base() + LandingPath
}

// Resolve builds the absolute secured content URL for a guide section.
// The path must be a relative .html path rooted in the guide's directory,
// e.g. "flu_th/flu_th_sec_turb_kw_sst.html". Violations return EINVALID.
func (r *Resolver) Resolve(guide Guide, version, relPath string) (string, error) {
	if !guide.Valid() {
		return "", Errorf(EINVALID, "unknown guide %q", string(guide))
	}

	code, err := VersionCode(version)
	if err != nil {
		return "", err
	}

	cleaned, err := cleanContentPath(guide, relPath)
	if err != nil {
		return "", err
	}

	return r.base() + SecuredPrefix + "corp/" + code + "/en/" + cleaned, nil
}

// TocURL returns the root TOC page of a guide, e.g. flu_th/flu_th.html.
func (r *Resolver) TocURL(guide Guide, version string) (string, error) {
	if !guide.Valid() {
		return "", Errorf(EINVALID, "unknown guide %q", string(guide))
	}
	return r.Resolve(guide, version, guide.Dir()+"/"+guide.Dir()+".html")
}

// cleanContentPath validates and normalizes a relative content path.
func cleanContentPath(guide Guide, relPath string) (string, error) {
	p := strings.TrimSpace(relPath)
	if p == "" {
		return "", Errorf(EINVALID, "content path required")
	}
	if strings.Contains(p, "://") || strings.HasPrefix(p, "//") {
		return "", Errorf(EINVALID, "content path must be relative, got %q", relPath)
	}
	p = path.Clean(strings.TrimPrefix(p, "/"))
	if p == "." || strings.HasPrefix(p, "..") {
		return "", Errorf(EINVALID, "content path escapes the guide root: %q", relPath)
	}
	if !strings.HasSuffix(p, ".html") {
		return "", Errorf(EINVALID, "content path must end in .html, got %q", relPath)
	}
	if !strings.HasPrefix(p, guide.Dir()+"/") {
		return "", Errorf(EINVALID, "content path %q does not belong to the %s guide (%s/)", relPath, guide, guide.Dir())
	}
	return p, nil
}

// MirrorMap is an explicit, hand-curated table mapping secured content
// paths to equivalent pages on an unauthenticated mirror. Coverage is
// partial; paths outside the table have no mirror equivalent and no
// heuristic guessing is attempted.
type MirrorMap struct {
	urls map[string]string
}

// NewMirrorMap creates a MirrorMap from an explicit path -> URL table.
func NewMirrorMap(urls map[string]string) *MirrorMap {
	m := make(map[string]string, len(urls))
	for p, u := range urls {
		m[p] = u
	}
	return &MirrorMap{urls: m}
}

// DefaultMirrorBase is the root of the public mirror carrying older
// Fluent guide pages.
const DefaultMirrorBase = "https://www.afs.enea.it/project/neptunius/docs/fluent/html"

// DefaultMirrorMap returns the curated mirror coverage table.
func DefaultMirrorMap() *MirrorMap {
	return DefaultMirrorMapAt(DefaultMirrorBase)
}

// DefaultMirrorMapAt returns the curated coverage table rebased onto a
// different mirror root, e.g. a local copy of the mirror.
func DefaultMirrorMapAt(base string) *MirrorMap {
	base = strings.TrimSuffix(base, "/")
	return NewMirrorMap(map[string]string{
		"flu_th/flu_th_turb.html":             base + "/th/node40.htm",
		"flu_th/flu_th_sec_turb_keps.html":    base + "/th/node58.htm",
		"flu_th/flu_th_sec_turb_komega.html":  base + "/th/node66.htm",
		"flu_th/flu_th_sec_turb_kw_sst.html":  base + "/th/node67.htm",
		"flu_th/flu_th_sec_hxfer_theory.html": base + "/th/node107.htm",
		"flu_th/flu_th_multiphase.html":       base + "/th/node292.htm",
		"flu_ug/flu_ug_bcs.html":              base + "/ug/node233.htm",
		"flu_ug/flu_ug_turb.html":             base + "/ug/node402.htm",
	})
}

// URL returns the mirror URL for a content path and whether the path is
// covered by the mirror.
func (m *MirrorMap) URL(relPath string) (string, bool) {
	u, ok := m.urls[strings.TrimPrefix(path.Clean(relPath), "/")]
	return u, ok
}

// Covers reports whether the mirror carries an equivalent of the path.
func (m *MirrorMap) Covers(relPath string) bool {
	_, ok := m.URL(relPath)
	return ok
}

// Paths returns all covered paths in unspecified order.
func (m *MirrorMap) Paths() []string {
	out := make([]string, 0, len(m.urls))
	for p := range m.urls {
		out = append(out, p)
	}
	return out
}
