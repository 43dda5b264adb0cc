package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subspace-lab/fluentdoc"
	"github.com/subspace-lab/fluentdoc/fs"
)

func snapshotEntries() []fluentdoc.TocEntry {
	return []fluentdoc.TocEntry{
		{Guide: fluentdoc.GuideTheory, Version: "v252", Number: "4", Title: "Turbulence", Path: "flu_th/flu_th_turb.html", Depth: 1},
		{Guide: fluentdoc.GuideTheory, Version: "v252", Number: "4.4.3", Title: "Shear-Stress Transport (SST) k-ω Model", Path: "flu_th/flu_th_sec_turb_kw_sst.html", Depth: 3, ParentPath: "flu_th/flu_th_sec_turb_komega.html"},
	}
}

func TestSnapshotStore_SaveAndLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	store := fs.NewSnapshotStore(t.TempDir())
	ctx := context.Background()

	err := store.Save(ctx, fluentdoc.GuideTheory, "v252", snapshotEntries())
	require.NoError(t, err)

	got, err := store.Load(ctx, fluentdoc.GuideTheory, "v252")
	require.NoError(t, err)

	// Order and all fields survive the round trip.
	assert.Equal(t, snapshotEntries(), got)
}

func TestSnapshotStore_Load_MissingSnapshot(t *testing.T) {
	t.Parallel()

	store := fs.NewSnapshotStore(t.TempDir())

	_, err := store.Load(context.Background(), fluentdoc.GuideUser, "v252")

	require.Error(t, err)
	assert.Equal(t, fluentdoc.EUNAVAILABLE, fluentdoc.ErrorCode(err))
}

func TestSnapshotStore_Path_NamesFileByGuideAndVersion(t *testing.T) {
	t.Parallel()

	store := fs.NewSnapshotStore("/var/lib/fluentdoc")

	assert.Equal(t,
		filepath.Join("/var/lib/fluentdoc", "theory_toc_v252.json"),
		store.Path(fluentdoc.GuideTheory, "v252"))
}

func TestSnapshotStore_Save_ReplacesWholesale(t *testing.T) {
	t.Parallel()

	store := fs.NewSnapshotStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, fluentdoc.GuideTheory, "v252", snapshotEntries()))

	replacement := snapshotEntries()[:1]
	require.NoError(t, store.Save(ctx, fluentdoc.GuideTheory, "v252", replacement))

	got, err := store.Load(ctx, fluentdoc.GuideTheory, "v252")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSnapshotStore_Save_RejectsInvalidEntries(t *testing.T) {
	t.Parallel()

	store := fs.NewSnapshotStore(t.TempDir())

	entries := []fluentdoc.TocEntry{{Guide: fluentdoc.GuideTheory, Version: "v252", Title: "No path", Depth: 1}}
	err := store.Save(context.Background(), fluentdoc.GuideTheory, "v252", entries)

	require.Error(t, err)
	assert.Equal(t, fluentdoc.EINVALID, fluentdoc.ErrorCode(err))
}

func TestSnapshotStore_Save_LeavesNoTempFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := fs.NewSnapshotStore(dir)

	require.NoError(t, store.Save(context.Background(), fluentdoc.GuideTheory, "v252", snapshotEntries()))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "theory_toc_v252.json", files[0].Name())
}
