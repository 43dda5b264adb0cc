// Package tocsync walks a guide's TOC pages on the live portal and
// regenerates the local snapshot. It is an operator-invoked maintenance
// process, deliberately separate from the retrieval engine: the engine
// only ever reads snapshots, never discovers.
package tocsync

import (
	"context"
	"log/slog"
	"strings"

	"github.com/subspace-lab/fluentdoc"
)

// Walk bounds. The portal's TOC pages fan out quickly; two levels below
// the guide root cover the numbered sections worth indexing.
const (
	DefaultMaxPages = 50
	DefaultMaxDepth = 2

	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// Syncer harvests TOC entries for one guide and saves them as a snapshot.
type Syncer struct {
	Sessions  fluentdoc.SessionManager
	Frames    fluentdoc.FrameNavigator
	Parser    fluentdoc.TocParser
	Snapshots fluentdoc.SnapshotStore
	Resolver  *fluentdoc.Resolver
	Logger    *slog.Logger

	// MaxPages and MaxDepth override the defaults when > 0.
	MaxPages int
	MaxDepth int
}

// Result summarizes a completed sync.
type Result struct {
	Entries      int
	PagesVisited int
	SnapshotPath string
}

// Sync walks the guide's TOC starting at its root page and replaces the
// snapshot wholesale. Individual page failures are skipped; denial,
// ordering violations, and cancellation abort the walk.
func (s *Syncer) Sync(ctx context.Context, guide fluentdoc.Guide, release string) (*Result, error) {
	version, err := fluentdoc.VersionCode(release)
	if err != nil {
		return nil, err
	}

	rootURL, err := s.Resolver.TocURL(guide, version)
	if err != nil {
		return nil, err
	}

	session, err := s.Sessions.Establish(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Sessions.Teardown(session) }()

	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	maxDepth := s.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(fluentdoc.TocLink{URL: rootURL, Depth: 0})

	// The Bloom filter only gates page revisits; entry uniqueness needs
	// exactness, so entries dedup through a real map keyed by path.
	var entries []fluentdoc.TocEntry
	seenPaths := make(map[string]bool)
	pages := 0

	for pages < maxPages {
		link, ok := frontier.Pop()
		if !ok {
			break
		}

		if err := s.Sessions.EnsureEstablished(ctx, session); err != nil {
			return nil, err
		}

		html, err := s.Frames.FetchHTML(ctx, session, link.URL)
		pages++
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			switch fluentdoc.ErrorCode(err) {
			case fluentdoc.EBLOCKED, fluentdoc.ENOTESTABLISHED:
				return nil, err
			}
			s.log("toc page skipped", "url", link.URL, "err", err)
			continue
		}

		pageEntries, sublinks, err := s.Parser.ParseLinks(html, link.URL, guide, version)
		if err != nil {
			s.log("toc page unparseable", "url", link.URL, "err", err)
			continue
		}

		for _, entry := range pageEntries {
			if seenPaths[entry.Path] {
				continue
			}
			seenPaths[entry.Path] = true
			entries = append(entries, entry)
		}

		if link.Depth+1 > maxDepth {
			continue
		}
		for _, sub := range sublinks {
			sub.Depth = link.Depth + 1
			frontier.Push(sub)
		}
	}

	linkParents(entries)

	if err := s.Snapshots.Save(ctx, guide, version, entries); err != nil {
		return nil, err
	}

	return &Result{
		Entries:      len(entries),
		PagesVisited: pages,
		SnapshotPath: s.Snapshots.Path(guide, version),
	}, nil
}

// linkParents fills each entry's ParentPath from the section numbering:
// the parent of "4.4.3" is the entry numbered "4.4", when present.
func linkParents(entries []fluentdoc.TocEntry) {
	byNumber := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.Number != "" {
			byNumber[entry.Number] = entry.Path
		}
	}

	for i := range entries {
		number := entries[i].Number
		idx := strings.LastIndex(number, ".")
		if idx == -1 {
			continue
		}
		entries[i].ParentPath = byNumber[number[:idx]]
	}
}

func (s *Syncer) log(msg string, args ...any) {
	if s.Logger == nil {
		return
	}
	s.Logger.Info(msg, args...)
}
