// Package retrieve orchestrates documentation retrieval: it resolves a
// request to a portal URL, drives the session and frame navigation,
// falls back to the mirror when the primary source blocks, and records
// outcomes.
package retrieve

import (
	"context"
	"sync"
	"time"

	"github.com/subspace-lab/fluentdoc"
)

// State is the engine's position in the retrieval lifecycle.
type State string

// Engine states. Succeeded, FailedBlocked and FailedNotFound are terminal
// for a request; the engine returns to Idle between requests.
const (
	StateIdle           State = "idle"
	StateResolving      State = "resolving"
	StateFetching       State = "fetching"
	StateSucceeded      State = "succeeded"
	StateFailedBlocked  State = "failed_blocked"
	StateFailedNotFound State = "failed_not_found"
)

// DefaultBlockRetries is how many re-establish+refetch cycles the engine
// runs after the first access denial before falling back to the mirror.
const DefaultBlockRetries = 1

// Attempt records one fetch attempt against one source.
type Attempt struct {
	URL      string
	Source   string // fluentdoc.SourcePrimary or fluentdoc.SourceMirror
	Err      error
	Duration time.Duration
}

// Result is the outcome of one retrieval request.
type Result struct {
	State    State
	Fragment *fluentdoc.Fragment
	Entry    *fluentdoc.TocEntry // set for filter-resolved requests
	Source   string
	Attempts []Attempt
}

// Engine coordinates session management, frame navigation, TOC resolution
// and mirror fallback. All fields except History must be set; History is
// optional and recording to it is best-effort.
//
// The engine serializes navigation: the browsing session and its content
// frame are one shared mutable resource, so only one fetch is in flight
// at a time. Construct independent engines for parallel sessions.
type Engine struct {
	Sessions  fluentdoc.SessionManager
	Frames    fluentdoc.FrameNavigator
	Mirror    fluentdoc.MirrorFetcher
	Snapshots fluentdoc.SnapshotStore
	Resolver  *fluentdoc.Resolver
	Mirrors   *fluentdoc.MirrorMap
	History   fluentdoc.HistoryService

	// BlockRetries overrides DefaultBlockRetries when > 0.
	BlockRetries int

	mu      sync.Mutex
	session *fluentdoc.Session
	indexes map[string]*fluentdoc.TocIndex

	stateMu sync.RWMutex
	state   State

	now func() time.Time
}

// State returns the engine's current lifecycle state. An engine that has
// never run a request reports StateIdle.
func (e *Engine) State() State {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	if e.state == "" {
		return StateIdle
	}
	return e.state
}

func (e *Engine) setState(s State) {
	e.stateMu.Lock()
	e.state = s
	e.stateMu.Unlock()
}

func (e *Engine) clock() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

// FetchPath retrieves the section at an explicit content path.
func (e *Engine) FetchPath(ctx context.Context, guide fluentdoc.Guide, release, path string) (*Result, error) {
	e.setState(StateResolving)

	version, err := fluentdoc.VersionCode(release)
	if err != nil {
		e.setState(StateIdle)
		return nil, err
	}

	return e.fetch(ctx, guide, version, path, nil)
}

// FetchFilter resolves a filter against the TOC index and retrieves the
// best match. Zero matches is a normal negative result: the request
// terminates in StateFailedNotFound with ENOTFOUND.
func (e *Engine) FetchFilter(ctx context.Context, guide fluentdoc.Guide, release, filter string) (*Result, error) {
	e.setState(StateResolving)

	version, err := fluentdoc.VersionCode(release)
	if err != nil {
		e.setState(StateIdle)
		return nil, err
	}

	idx, err := e.index(ctx, guide, version)
	if err != nil {
		e.setState(StateIdle)
		return nil, err
	}

	matches := idx.Query(filter, 1)
	if len(matches) == 0 {
		e.setState(StateFailedNotFound)
		return &Result{State: StateFailedNotFound},
			fluentdoc.Errorf(fluentdoc.ENOTFOUND, "no toc entry matches %q in %s %s", filter, guide, version)
	}

	entry := matches[0]
	return e.fetch(ctx, guide, version, entry.Path, &entry)
}

// ListToc returns TOC entries matching the filter without any navigation.
// An empty filter returns the full set in stable TOC order.
func (e *Engine) ListToc(ctx context.Context, guide fluentdoc.Guide, release, filter string) ([]fluentdoc.TocEntry, error) {
	version, err := fluentdoc.VersionCode(release)
	if err != nil {
		return nil, err
	}

	idx, err := e.index(ctx, guide, version)
	if err != nil {
		return nil, err
	}

	if filter == "" {
		return idx.Entries(), nil
	}
	return idx.Query(filter, 0), nil
}

// index returns the TOC index for (guide, version), loading and caching
// it on first use. A reload replaces the cached index wholesale.
func (e *Engine) index(ctx context.Context, guide fluentdoc.Guide, version string) (*fluentdoc.TocIndex, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := string(guide) + "|" + version
	if idx, ok := e.indexes[key]; ok {
		return idx, nil
	}

	entries, err := e.Snapshots.Load(ctx, guide, version)
	if err != nil {
		return nil, err
	}
	idx, err := fluentdoc.NewTocIndex(guide, version, entries)
	if err != nil {
		return nil, err
	}

	if e.indexes == nil {
		e.indexes = make(map[string]*fluentdoc.TocIndex)
	}
	e.indexes[key] = idx
	return idx, nil
}

// fetch runs the Fetching phase: primary attempts with a bounded
// re-establish budget on denial, then mirror fallback for covered paths.
func (e *Engine) fetch(ctx context.Context, guide fluentdoc.Guide, version, path string, entry *fluentdoc.TocEntry) (*Result, error) {
	url, err := e.Resolver.Resolve(guide, version, path)
	if err != nil {
		e.setState(StateIdle)
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.setState(StateFetching)
	res := &Result{State: StateFetching, Entry: entry}

	retries := e.BlockRetries
	if retries <= 0 {
		retries = DefaultBlockRetries
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		begin := e.clock()

		// The session must be established before any navigation; a
		// blocked or expired session is re-bootstrapped here, which is
		// what makes the retry loop a re-establish+refetch cycle.
		if err := e.ensureSession(ctx); err != nil {
			res.Attempts = append(res.Attempts, Attempt{
				URL: url, Source: fluentdoc.SourcePrimary, Err: err, Duration: e.clock().Sub(begin),
			})
			lastErr = err
			if fluentdoc.ErrorCode(err) == fluentdoc.EBLOCKED && ctx.Err() == nil {
				// Bootstrap exhausted its own budget; no point refetching.
				break
			}
			e.setState(StateIdle)
			return res, err
		}

		frag, err := e.Frames.Fetch(ctx, e.session, url)
		res.Attempts = append(res.Attempts, Attempt{
			URL: url, Source: fluentdoc.SourcePrimary, Err: err, Duration: e.clock().Sub(begin),
		})
		if err == nil {
			e.succeed(ctx, res, frag, fluentdoc.SourcePrimary, guide, version, path, url, e.clock().Sub(begin))
			return res, nil
		}
		lastErr = err

		switch fluentdoc.ErrorCode(err) {
		case fluentdoc.EBLOCKED:
			// Loop re-establishes and refetches until the budget runs out.
		case fluentdoc.ENOTFOUND:
			e.setState(StateFailedNotFound)
			res.State = StateFailedNotFound
			e.record(ctx, guide, version, path, url, fluentdoc.SourcePrimary, fluentdoc.ENOTFOUND, nil, e.clock().Sub(begin))
			return res, err
		default:
			// Timeouts and cancellations surface as-is; the navigator
			// already retried transient timeouts internally.
			e.setState(StateIdle)
			return res, err
		}

		if ctx.Err() != nil {
			e.setState(StateIdle)
			return res, ctx.Err()
		}
	}

	return e.fallback(ctx, res, lastErr, guide, version, path)
}

// fallback tries the mirror after the primary retry budget is exhausted
// by access denials. Only curated mirror paths are eligible.
func (e *Engine) fallback(ctx context.Context, res *Result, primaryErr error, guide fluentdoc.Guide, version, path string) (*Result, error) {
	mirrorURL, covered := "", false
	if e.Mirrors != nil {
		mirrorURL, covered = e.Mirrors.URL(path)
	}

	if !covered || e.Mirror == nil {
		e.setState(StateFailedBlocked)
		res.State = StateFailedBlocked
		e.record(ctx, guide, version, path, "", fluentdoc.SourcePrimary, fluentdoc.EBLOCKED, nil, 0)
		return res, primaryErr
	}

	begin := e.clock()
	frag, err := e.Mirror.FetchMirror(ctx, mirrorURL)
	duration := e.clock().Sub(begin)
	res.Attempts = append(res.Attempts, Attempt{
		URL: mirrorURL, Source: fluentdoc.SourceMirror, Err: err, Duration: duration,
	})
	if err != nil {
		e.setState(StateFailedBlocked)
		res.State = StateFailedBlocked
		e.record(ctx, guide, version, path, mirrorURL, fluentdoc.SourceMirror, fluentdoc.ErrorCode(err), nil, duration)
		return res, primaryErr
	}

	e.succeed(ctx, res, frag, fluentdoc.SourceMirror, guide, version, path, mirrorURL, duration)
	return res, nil
}

// succeed finalizes a successful retrieval from either source.
func (e *Engine) succeed(ctx context.Context, res *Result, frag *fluentdoc.Fragment, source string, guide fluentdoc.Guide, version, path, url string, duration time.Duration) {
	if frag.Title == "" {
		if res.Entry != nil {
			frag.Title = res.Entry.Title
		} else {
			frag.Title = fluentdoc.TitleFromPath(path)
		}
	}

	res.State = StateSucceeded
	res.Fragment = frag
	res.Source = source
	e.setState(StateSucceeded)

	e.record(ctx, guide, version, path, url, source, "succeeded", frag, duration)
}

// ensureSession establishes the shared session lazily and verifies it
// before every navigation. Must be called with mu held.
func (e *Engine) ensureSession(ctx context.Context) error {
	if e.session == nil {
		session, err := e.Sessions.Establish(ctx)
		if err != nil {
			return err
		}
		e.session = session
		return nil
	}
	return e.Sessions.EnsureEstablished(ctx, e.session)
}

// Close tears down the shared session if one was established.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil
	}
	err := e.Sessions.Teardown(e.session)
	e.session = nil
	return err
}

// record writes a history row. Recording is best-effort: a history
// failure never fails the retrieval.
func (e *Engine) record(ctx context.Context, guide fluentdoc.Guide, version, path, url, source, outcome string, frag *fluentdoc.Fragment, duration time.Duration) {
	if e.History == nil {
		return
	}

	retrieval := &fluentdoc.Retrieval{
		Guide:    guide,
		Version:  version,
		Path:     path,
		URL:      url,
		Source:   source,
		Outcome:  outcome,
		Duration: duration,
	}
	if frag != nil {
		retrieval.Checksum = frag.Checksum
		retrieval.Bytes = len(frag.Text)
	}
	_ = e.History.RecordRetrieval(ctx, retrieval)
}
