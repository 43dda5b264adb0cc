package fluentdoc

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Guide identifies one of the Fluent documentation guides.
type Guide string

// Supported guides.
const (
	GuideTheory Guide = "theory"
	GuideUser   Guide = "user"
	GuideTUI    Guide = "tui"
)

// guideDirs maps a guide to its directory segment in portal content paths.
var guideDirs = map[Guide]string{
	GuideTheory: "flu_th",
	GuideUser:   "flu_ug",
	GuideTUI:    "flu_tcl",
}

// ParseGuide parses a guide name. Returns EINVALID for unknown names.
func ParseGuide(s string) (Guide, error) {
	g := Guide(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := guideDirs[g]; !ok {
		return "", Errorf(EINVALID, "unknown guide %q (expected theory, user, or tui)", s)
	}
	return g, nil
}

// Dir returns the guide's directory segment in content paths (e.g., "flu_th").
func (g Guide) Dir() string {
	return guideDirs[g]
}

// Valid reports whether the guide is one of the supported guides.
func (g Guide) Valid() bool {
	_, ok := guideDirs[g]
	return ok
}

// TocEntry represents one titled section in a guide's table of contents.
// Entries are immutable after the index is built.
type TocEntry struct {
	Guide      Guide  `json:"guide"`
	Version    string `json:"version"`
	Number     string `json:"number,omitempty"`
	Title      string `json:"title"`
	Path       string `json:"path"`
	Depth      int    `json:"depth"`
	ParentPath string `json:"parentPath,omitempty"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *TocEntry) Validate() error {
	if !e.Guide.Valid() {
		return Errorf(EINVALID, "toc entry guide required")
	}
	if e.Version == "" {
		return Errorf(EINVALID, "toc entry version required")
	}
	if e.Title == "" {
		return Errorf(EINVALID, "toc entry title required")
	}
	if e.Path == "" {
		return Errorf(EINVALID, "toc entry path required")
	}
	if e.Depth < 1 {
		return Errorf(EINVALID, "toc entry depth must be positive")
	}
	return nil
}

// sectionNumberRe matches numbered TOC titles like "4.4.3. SST k-ω Model".
var sectionNumberRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?\s+(.+)$`)

// SplitSectionTitle splits a raw TOC link text into its section number and
// bare title. Titles without a leading section number return an empty number.
func SplitSectionTitle(raw string) (number, title string) {
	raw = strings.TrimSpace(raw)
	m := sectionNumberRe.FindStringSubmatch(raw)
	if m == nil {
		return "", raw
	}
	return m[1], strings.TrimSpace(m[2])
}

// SectionDepth derives a TOC depth from a section number:
// "4" is depth 1, "4.4" is depth 2, "4.4.3" is depth 3.
// An empty number (unnumbered front matter, appendix links) is depth 1.
func SectionDepth(number string) int {
	if number == "" {
		return 1
	}
	return strings.Count(number, ".") + 1
}

// TocIndex is an immutable, ordered catalogue of the sections of one
// (guide, version) pair, with a derived normalized-title cache for queries.
// Reload means building a replacement index, never mutating an existing one.
type TocIndex struct {
	guide   Guide
	version string
	entries []TocEntry
	norms   []string // normalized titles, parallel to entries
}

// NewTocIndex builds an index from snapshot entries, preserving their order.
// Paths must be unique within the index; duplicates return EINVALID.
func NewTocIndex(guide Guide, version string, entries []TocEntry) (*TocIndex, error) {
	if !guide.Valid() {
		return nil, Errorf(EINVALID, "unknown guide %q", string(guide))
	}
	if version == "" {
		return nil, Errorf(EINVALID, "version required")
	}

	idx := &TocIndex{
		guide:   guide,
		version: version,
		entries: make([]TocEntry, len(entries)),
		norms:   make([]string, len(entries)),
	}

	seen := make(map[string]bool, len(entries))
	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			return nil, err
		}
		if seen[entry.Path] {
			return nil, Errorf(EINVALID, "duplicate toc path %q in %s %s", entry.Path, guide, version)
		}
		seen[entry.Path] = true

		idx.entries[i] = entry
		idx.norms[i] = normalizeTitle(entry.Title)
	}

	return idx, nil
}

// Guide returns the guide this index covers.
func (idx *TocIndex) Guide() Guide { return idx.guide }

// Version returns the version this index covers.
func (idx *TocIndex) Version() string { return idx.version }

// Len returns the number of entries in the index.
func (idx *TocIndex) Len() int { return len(idx.entries) }

// Entries returns all entries in original TOC order.
// The returned slice is a copy and may be modified by the caller.
func (idx *TocIndex) Entries() []TocEntry {
	out := make([]TocEntry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Query returns up to max entries ranked against the filter text.
//
// Matching is case-insensitive and token-substring based: the filter is
// split into tokens and each entry scores the number of distinct tokens
// contained in its normalized title. Zero-score entries are excluded. Ties
// are broken by shallower depth, then original TOC order. An empty filter
// returns the full set in TOC order. max <= 0 means unlimited.
func (idx *TocIndex) Query(filter string, max int) []TocEntry {
	tokens := tokenize(filter)
	if len(tokens) == 0 {
		return limitEntries(idx.Entries(), max)
	}

	type match struct {
		pos   int
		score int
	}

	var matches []match
	for i, norm := range idx.norms {
		score := 0
		for _, token := range tokens {
			if strings.Contains(norm, token) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, match{pos: i, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.score != b.score {
			return a.score > b.score
		}
		da, db := idx.entries[a.pos].Depth, idx.entries[b.pos].Depth
		if da != db {
			return da < db
		}
		return a.pos < b.pos
	})

	out := make([]TocEntry, 0, len(matches))
	for _, m := range matches {
		out = append(out, idx.entries[m.pos])
	}
	return limitEntries(out, max)
}

func limitEntries(entries []TocEntry, max int) []TocEntry {
	if max > 0 && len(entries) > max {
		return entries[:max]
	}
	return entries
}

// greekFold spells out the Greek letters that appear in Fluent section
// titles (e.g., "SST k-ω Model"), so that queries written with words
// ("k-omega") still match.
var greekFold = strings.NewReplacer(
	"ω", "omega",
	"Ω", "omega",
	"ε", "epsilon",
	"α", "alpha",
	"β", "beta",
	"γ", "gamma",
	"θ", "theta",
	"ν", "nu",
	"ρ", "rho",
	"τ", "tau",
	"φ", "phi",
)

// normalizeTitle case-folds a title, spells out Greek letters, and
// collapses all non-alphanumeric runs to single spaces.
func normalizeTitle(s string) string {
	return strings.Join(tokenize(s), " ")
}

// tokenize splits text into normalized tokens on non-alphanumeric
// boundaries.
func tokenize(s string) []string {
	folded := greekFold.Replace(strings.ToLower(s))
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// SnapshotStore loads and saves TOC snapshots, one per (guide, version).
// Snapshots are build-time artifacts regenerated by the tocsync maintenance
// tool; the retrieval engine only ever loads them.
type SnapshotStore interface {
	// Load reads the snapshot entries for a guide and version in TOC order.
	// Returns EUNAVAILABLE if no snapshot exists.
	Load(ctx context.Context, guide Guide, version string) ([]TocEntry, error)

	// Save replaces the snapshot for a guide and version wholesale.
	Save(ctx context.Context, guide Guide, version string, entries []TocEntry) error

	// Path returns the storage location of a snapshot, whether or not it exists.
	Path(guide Guide, version string) string
}
