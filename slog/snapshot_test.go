package slog_test

import (
	"bytes"
	"context"
	stdslog "log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subspace-lab/fluentdoc"
	"github.com/subspace-lab/fluentdoc/mock"
	"github.com/subspace-lab/fluentdoc/slog"
)

func TestLoggingSnapshotStore_Load(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := stdslog.New(stdslog.NewTextHandler(&buf, nil))

	inner := &mock.SnapshotStore{
		LoadFn: func(ctx context.Context, guide fluentdoc.Guide, version string) ([]fluentdoc.TocEntry, error) {
			return []fluentdoc.TocEntry{
				{Guide: guide, Version: version, Number: "4", Title: "Turbulence", Path: "flu_th/flu_th_turb.html", Depth: 1},
			}, nil
		},
	}

	store := slog.NewLoggingSnapshotStore(inner, logger)
	entries, err := store.Load(context.Background(), fluentdoc.GuideTheory, "v252")

	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Contains(t, buf.String(), "msg=snapshot_load")
	assert.Contains(t, buf.String(), "guide=theory")
	assert.Contains(t, buf.String(), "entries=1")
}

func TestLoggingSnapshotStore_Load_Error(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := stdslog.New(stdslog.NewTextHandler(&buf, nil))

	inner := &mock.SnapshotStore{
		LoadFn: func(ctx context.Context, guide fluentdoc.Guide, version string) ([]fluentdoc.TocEntry, error) {
			return nil, fluentdoc.Errorf(fluentdoc.EUNAVAILABLE, "no snapshot for %s %s", guide, version)
		},
	}

	store := slog.NewLoggingSnapshotStore(inner, logger)
	_, err := store.Load(context.Background(), fluentdoc.GuideTheory, "v252")

	require.Error(t, err)
	assert.Equal(t, fluentdoc.EUNAVAILABLE, fluentdoc.ErrorCode(err))
	assert.Contains(t, buf.String(), "no snapshot")
}

func TestLoggingSnapshotStore_Path(t *testing.T) {
	t.Parallel()

	inner := &mock.SnapshotStore{
		PathFn: func(guide fluentdoc.Guide, version string) string {
			return "/data/theory_toc_v252.json"
		},
	}

	store := slog.NewLoggingSnapshotStore(inner, stdslog.New(stdslog.DiscardHandler))
	assert.Equal(t, "/data/theory_toc_v252.json", store.Path(fluentdoc.GuideTheory, "v252"))
}

func TestLoggingMirrorFetcher_FetchMirror(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := stdslog.New(stdslog.NewTextHandler(&buf, nil))

	inner := &mock.MirrorFetcher{
		FetchMirrorFn: func(ctx context.Context, url string) (*fluentdoc.Fragment, error) {
			return &fluentdoc.Fragment{URL: url, Text: "mirror content"}, nil
		},
	}

	fetcher := slog.NewLoggingMirrorFetcher(inner, logger)
	frag, err := fetcher.FetchMirror(context.Background(), "https://mirror.example/th/node67.htm")

	require.NoError(t, err)
	assert.Equal(t, "mirror content", frag.Text)
	assert.Contains(t, buf.String(), "msg=mirror_fetch")
	assert.Contains(t, buf.String(), "node67.htm")
}
