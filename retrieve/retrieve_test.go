package retrieve_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subspace-lab/fluentdoc"
	"github.com/subspace-lab/fluentdoc/mock"
	"github.com/subspace-lab/fluentdoc/retrieve"
)

var theoryEntries = []fluentdoc.TocEntry{
	{Guide: fluentdoc.GuideTheory, Version: "v252", Number: "4", Title: "Turbulence", Path: "flu_th/flu_th_turb.html", Depth: 1},
	{Guide: fluentdoc.GuideTheory, Version: "v252", Number: "4.4", Title: "k-ω Models", Path: "flu_th/flu_th_sec_turb_kw.html", Depth: 2},
	{Guide: fluentdoc.GuideTheory, Version: "v252", Number: "4.4.3", Title: "Shear-Stress Transport (SST) k-ω Model", Path: "flu_th/flu_th_sec_turb_kw_sst.html", Depth: 3},
	{Guide: fluentdoc.GuideTheory, Version: "v252", Number: "5", Title: "Heat Transfer", Path: "flu_th/flu_th_heat.html", Depth: 1},
}

// engineFixture wires an Engine to happy-path mocks. Tests override the
// pieces they exercise.
type engineFixture struct {
	engine    *retrieve.Engine
	sessions  *mock.SessionManager
	frames    *mock.FrameNavigator
	mirror    *mock.MirrorFetcher
	snapshots *mock.SnapshotStore
	history   *mock.HistoryService

	mu       sync.Mutex
	recorded []*fluentdoc.Retrieval
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{}

	f.sessions = &mock.SessionManager{
		EstablishFn: func(ctx context.Context) (*fluentdoc.Session, error) {
			return &fluentdoc.Session{State: fluentdoc.StateEstablished}, nil
		},
		EnsureEstablishedFn: func(ctx context.Context, session *fluentdoc.Session) error {
			session.State = fluentdoc.StateEstablished
			return nil
		},
		TeardownFn: func(session *fluentdoc.Session) error {
			session.State = fluentdoc.StateUninitialized
			return nil
		},
	}

	f.frames = &mock.FrameNavigator{
		FetchFn: func(ctx context.Context, session *fluentdoc.Session, url string) (*fluentdoc.Fragment, error) {
			body := "section content from " + url
			return &fluentdoc.Fragment{URL: url, Text: body, Checksum: fluentdoc.Checksum(body)}, nil
		},
	}

	f.mirror = &mock.MirrorFetcher{
		FetchMirrorFn: func(ctx context.Context, url string) (*fluentdoc.Fragment, error) {
			body := "mirror content from " + url
			return &fluentdoc.Fragment{URL: url, Text: body, Checksum: fluentdoc.Checksum(body)}, nil
		},
	}

	f.snapshots = &mock.SnapshotStore{
		LoadFn: func(ctx context.Context, guide fluentdoc.Guide, version string) ([]fluentdoc.TocEntry, error) {
			if guide != fluentdoc.GuideTheory || version != "v252" {
				return nil, fluentdoc.Errorf(fluentdoc.EUNAVAILABLE, "no snapshot for %s %s", guide, version)
			}
			return theoryEntries, nil
		},
	}

	f.history = &mock.HistoryService{
		RecordRetrievalFn: func(ctx context.Context, retrieval *fluentdoc.Retrieval) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.recorded = append(f.recorded, retrieval)
			return nil
		},
	}

	f.engine = &retrieve.Engine{
		Sessions:  f.sessions,
		Frames:    f.frames,
		Mirror:    f.mirror,
		Snapshots: f.snapshots,
		Resolver:  fluentdoc.NewResolver(),
		Mirrors:   fluentdoc.DefaultMirrorMap(),
		History:   f.history,
	}
	return f
}

func (f *engineFixture) retrievals() []*fluentdoc.Retrieval {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*fluentdoc.Retrieval, len(f.recorded))
	copy(out, f.recorded)
	return out
}

func TestEngine_FetchPath(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	res, err := f.engine.FetchPath(context.Background(), fluentdoc.GuideTheory, "2025 R2", "flu_th/flu_th_turb.html")

	require.NoError(t, err)
	assert.Equal(t, retrieve.StateSucceeded, res.State)
	assert.Equal(t, fluentdoc.SourcePrimary, res.Source)
	assert.Contains(t, res.Fragment.URL, "/public//Views/Secured/corp/v252/en/flu_th/flu_th_turb.html")
	assert.NotEmpty(t, res.Fragment.Text)
	require.Len(t, res.Attempts, 1)
	assert.NoError(t, res.Attempts[0].Err)
}

func TestEngine_FetchPath_UnknownRelease(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	_, err := f.engine.FetchPath(context.Background(), fluentdoc.GuideTheory, "1999 R9", "flu_th/flu_th_turb.html")

	require.Error(t, err)
	assert.Equal(t, fluentdoc.EINVALID, fluentdoc.ErrorCode(err))
}

func TestEngine_FetchPath_SessionPrecedesNavigation(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	var order []string
	f.sessions.EstablishFn = func(ctx context.Context) (*fluentdoc.Session, error) {
		order = append(order, "establish")
		return &fluentdoc.Session{State: fluentdoc.StateEstablished}, nil
	}
	f.frames.FetchFn = func(ctx context.Context, session *fluentdoc.Session, url string) (*fluentdoc.Fragment, error) {
		order = append(order, "fetch")
		require.True(t, session.Established(), "navigation before session establishment")
		return &fluentdoc.Fragment{URL: url, Text: "ok"}, nil
	}

	_, err := f.engine.FetchPath(context.Background(), fluentdoc.GuideTheory, "v252", "flu_th/flu_th_turb.html")

	require.NoError(t, err)
	assert.Equal(t, []string{"establish", "fetch"}, order)
}

func TestEngine_FetchPath_SessionReused(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	establishCalls, ensureCalls := 0, 0
	f.sessions.EstablishFn = func(ctx context.Context) (*fluentdoc.Session, error) {
		establishCalls++
		return &fluentdoc.Session{State: fluentdoc.StateEstablished}, nil
	}
	f.sessions.EnsureEstablishedFn = func(ctx context.Context, session *fluentdoc.Session) error {
		ensureCalls++
		return nil
	}

	ctx := context.Background()
	_, err := f.engine.FetchPath(ctx, fluentdoc.GuideTheory, "v252", "flu_th/flu_th_turb.html")
	require.NoError(t, err)
	_, err = f.engine.FetchPath(ctx, fluentdoc.GuideTheory, "v252", "flu_th/flu_th_heat.html")
	require.NoError(t, err)

	assert.Equal(t, 1, establishCalls)
	assert.Equal(t, 1, ensureCalls)
}

func TestEngine_FetchFilter_ResolvesBestMatch(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	res, err := f.engine.FetchFilter(context.Background(), fluentdoc.GuideTheory, "v252", "sst k-omega")

	require.NoError(t, err)
	assert.Equal(t, retrieve.StateSucceeded, res.State)
	require.NotNil(t, res.Entry)
	assert.Equal(t, "flu_th/flu_th_sec_turb_kw_sst.html", res.Entry.Path)
	assert.Equal(t, "Shear-Stress Transport (SST) k-ω Model", res.Fragment.Title)
	assert.NotEmpty(t, res.Fragment.Text)
}

func TestEngine_FetchFilter_NoMatch(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	fetched := false
	f.frames.FetchFn = func(ctx context.Context, session *fluentdoc.Session, url string) (*fluentdoc.Fragment, error) {
		fetched = true
		return nil, nil
	}

	res, err := f.engine.FetchFilter(context.Background(), fluentdoc.GuideTheory, "v252", "nonexistent-topic-xyz")

	require.Error(t, err)
	assert.Equal(t, fluentdoc.ENOTFOUND, fluentdoc.ErrorCode(err))
	assert.Equal(t, retrieve.StateFailedNotFound, res.State)
	assert.Equal(t, retrieve.StateFailedNotFound, f.engine.State())
	assert.False(t, fetched, "no-match filter must not navigate")
}

func TestEngine_FetchFilter_MissingSnapshot(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	_, err := f.engine.FetchFilter(context.Background(), fluentdoc.GuideUser, "v252", "boundary conditions")

	require.Error(t, err)
	assert.Equal(t, fluentdoc.EUNAVAILABLE, fluentdoc.ErrorCode(err))
}

func TestEngine_FetchPath_BlockedThenRecovered(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	calls := 0
	f.frames.FetchFn = func(ctx context.Context, session *fluentdoc.Session, url string) (*fluentdoc.Fragment, error) {
		calls++
		if calls == 1 {
			session.MarkBlocked(session.EstablishedAt)
			return nil, fluentdoc.Errorf(fluentdoc.EBLOCKED, "access denied at %s", url)
		}
		return &fluentdoc.Fragment{URL: url, Text: "recovered content"}, nil
	}

	res, err := f.engine.FetchPath(context.Background(), fluentdoc.GuideTheory, "v252", "flu_th/flu_th_turb.html")

	require.NoError(t, err)
	assert.Equal(t, retrieve.StateSucceeded, res.State)
	assert.Equal(t, fluentdoc.SourcePrimary, res.Source)
	assert.Equal(t, 2, calls)
	require.Len(t, res.Attempts, 2)
	assert.Error(t, res.Attempts[0].Err)
	assert.NoError(t, res.Attempts[1].Err)
}

func TestEngine_FetchPath_PersistentBlockFallsBackToMirror(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	primaryCalls := 0
	f.frames.FetchFn = func(ctx context.Context, session *fluentdoc.Session, url string) (*fluentdoc.Fragment, error) {
		primaryCalls++
		return nil, fluentdoc.Errorf(fluentdoc.EBLOCKED, "access denied at %s", url)
	}

	res, err := f.engine.FetchPath(context.Background(), fluentdoc.GuideTheory, "v252", "flu_th/flu_th_sec_turb_kw_sst.html")

	require.NoError(t, err)
	assert.Equal(t, retrieve.StateSucceeded, res.State)
	assert.Equal(t, fluentdoc.SourceMirror, res.Source)
	assert.Contains(t, res.Fragment.Text, "mirror content")

	// The primary budget must be exhausted before the mirror is touched.
	assert.Equal(t, 2, primaryCalls)
	require.Len(t, res.Attempts, 3)
	assert.Equal(t, fluentdoc.SourcePrimary, res.Attempts[0].Source)
	assert.Equal(t, fluentdoc.SourcePrimary, res.Attempts[1].Source)
	assert.Equal(t, fluentdoc.SourceMirror, res.Attempts[2].Source)

	retrievals := f.retrievals()
	require.Len(t, retrievals, 1)
	assert.Equal(t, fluentdoc.SourceMirror, retrievals[0].Source)
	assert.Equal(t, "succeeded", retrievals[0].Outcome)
}

func TestEngine_FetchPath_PersistentBlockWithoutCoverage(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	f.frames.FetchFn = func(ctx context.Context, session *fluentdoc.Session, url string) (*fluentdoc.Fragment, error) {
		return nil, fluentdoc.Errorf(fluentdoc.EBLOCKED, "access denied at %s", url)
	}
	mirrorCalled := false
	f.mirror.FetchMirrorFn = func(ctx context.Context, url string) (*fluentdoc.Fragment, error) {
		mirrorCalled = true
		return nil, nil
	}

	// flu_th_uncovered.html is not in the curated mirror map.
	res, err := f.engine.FetchPath(context.Background(), fluentdoc.GuideTheory, "v252", "flu_th/flu_th_uncovered.html")

	require.Error(t, err)
	assert.Equal(t, fluentdoc.EBLOCKED, fluentdoc.ErrorCode(err))
	assert.Equal(t, retrieve.StateFailedBlocked, res.State)
	assert.Equal(t, retrieve.StateFailedBlocked, f.engine.State())
	assert.False(t, mirrorCalled, "uncovered path must not hit the mirror")
}

func TestEngine_FetchPath_MirrorFailureStaysBlocked(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	f.frames.FetchFn = func(ctx context.Context, session *fluentdoc.Session, url string) (*fluentdoc.Fragment, error) {
		return nil, fluentdoc.Errorf(fluentdoc.EBLOCKED, "access denied at %s", url)
	}
	f.mirror.FetchMirrorFn = func(ctx context.Context, url string) (*fluentdoc.Fragment, error) {
		return nil, fluentdoc.Errorf(fluentdoc.EUNAVAILABLE, "mirror request failed")
	}

	res, err := f.engine.FetchPath(context.Background(), fluentdoc.GuideTheory, "v252", "flu_th/flu_th_sec_turb_kw_sst.html")

	require.Error(t, err)
	assert.Equal(t, fluentdoc.EBLOCKED, fluentdoc.ErrorCode(err))
	assert.Equal(t, retrieve.StateFailedBlocked, res.State)
}

func TestEngine_FetchPath_BootstrapExhaustionFallsBackToMirror(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	f.sessions.EstablishFn = func(ctx context.Context) (*fluentdoc.Session, error) {
		return nil, fluentdoc.Errorf(fluentdoc.EBLOCKED, "session bootstrap failed after 3 attempts")
	}

	res, err := f.engine.FetchPath(context.Background(), fluentdoc.GuideTheory, "v252", "flu_th/flu_th_sec_turb_kw_sst.html")

	require.NoError(t, err)
	assert.Equal(t, retrieve.StateSucceeded, res.State)
	assert.Equal(t, fluentdoc.SourceMirror, res.Source)
}

func TestEngine_FetchPath_NotFound(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	f.frames.FetchFn = func(ctx context.Context, session *fluentdoc.Session, url string) (*fluentdoc.Fragment, error) {
		return nil, fluentdoc.Errorf(fluentdoc.ENOTFOUND, "page not found at %s", url)
	}

	res, err := f.engine.FetchPath(context.Background(), fluentdoc.GuideTheory, "v252", "flu_th/flu_th_gone.html")

	require.Error(t, err)
	assert.Equal(t, fluentdoc.ENOTFOUND, fluentdoc.ErrorCode(err))
	assert.Equal(t, retrieve.StateFailedNotFound, res.State)

	retrievals := f.retrievals()
	require.Len(t, retrievals, 1)
	assert.Equal(t, fluentdoc.ENOTFOUND, retrievals[0].Outcome)
}

func TestEngine_FetchPath_TimeoutSurfaced(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	calls := 0
	f.frames.FetchFn = func(ctx context.Context, session *fluentdoc.Session, url string) (*fluentdoc.Fragment, error) {
		calls++
		return nil, fluentdoc.Errorf(fluentdoc.ETIMEOUT, "navigation to %s did not settle", url)
	}

	_, err := f.engine.FetchPath(context.Background(), fluentdoc.GuideTheory, "v252", "flu_th/flu_th_turb.html")

	require.Error(t, err)
	assert.Equal(t, fluentdoc.ETIMEOUT, fluentdoc.ErrorCode(err))
	assert.Equal(t, 1, calls, "engine must not re-drive the navigator's internal timeout retry")
}

func TestEngine_FetchPath_RecordsHistory(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	_, err := f.engine.FetchPath(context.Background(), fluentdoc.GuideTheory, "v252", "flu_th/flu_th_turb.html")
	require.NoError(t, err)

	retrievals := f.retrievals()
	require.Len(t, retrievals, 1)
	r := retrievals[0]
	assert.Equal(t, fluentdoc.GuideTheory, r.Guide)
	assert.Equal(t, "v252", r.Version)
	assert.Equal(t, "flu_th/flu_th_turb.html", r.Path)
	assert.Equal(t, fluentdoc.SourcePrimary, r.Source)
	assert.Equal(t, "succeeded", r.Outcome)
	assert.NotEmpty(t, r.Checksum)
	assert.Greater(t, r.Bytes, 0)
}

func TestEngine_FetchPath_HistoryFailureIgnored(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	f.history.RecordRetrievalFn = func(ctx context.Context, retrieval *fluentdoc.Retrieval) error {
		return fluentdoc.Errorf(fluentdoc.EINTERNAL, "database is locked")
	}

	res, err := f.engine.FetchPath(context.Background(), fluentdoc.GuideTheory, "v252", "flu_th/flu_th_turb.html")

	require.NoError(t, err)
	assert.Equal(t, retrieve.StateSucceeded, res.State)
}

func TestEngine_ListToc_EmptyFilterReturnsAll(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	entries, err := f.engine.ListToc(context.Background(), fluentdoc.GuideTheory, "v252", "")

	require.NoError(t, err)
	require.Len(t, entries, len(theoryEntries))
	for i, entry := range entries {
		assert.Equal(t, theoryEntries[i].Path, entry.Path)
	}
}

func TestEngine_ListToc_Filtered(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	entries, err := f.engine.ListToc(context.Background(), fluentdoc.GuideTheory, "v252", "TURB")

	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "Turbulence", entries[0].Title)
}

func TestEngine_ListToc_SnapshotLoadedOnce(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	loads := 0
	f.snapshots.LoadFn = func(ctx context.Context, guide fluentdoc.Guide, version string) ([]fluentdoc.TocEntry, error) {
		loads++
		return theoryEntries, nil
	}

	ctx := context.Background()
	_, err := f.engine.ListToc(ctx, fluentdoc.GuideTheory, "v252", "")
	require.NoError(t, err)
	_, err = f.engine.ListToc(ctx, fluentdoc.GuideTheory, "v252", "heat")
	require.NoError(t, err)

	assert.Equal(t, 1, loads)
}

func TestEngine_Close_TearsDownSession(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	tornDown := false
	f.sessions.TeardownFn = func(session *fluentdoc.Session) error {
		tornDown = true
		return nil
	}

	_, err := f.engine.FetchPath(context.Background(), fluentdoc.GuideTheory, "v252", "flu_th/flu_th_turb.html")
	require.NoError(t, err)

	require.NoError(t, f.engine.Close())
	assert.True(t, tornDown)

	// Closing again is a no-op.
	require.NoError(t, f.engine.Close())
}

func TestEngine_State_InitiallyIdle(t *testing.T) {
	t.Parallel()

	engine := &retrieve.Engine{}
	assert.Equal(t, retrieve.StateIdle, engine.State())
}
