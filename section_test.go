package fluentdoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subspace-lab/fluentdoc"
)

func TestKnownSections_StableOrderAndUniqueKeys(t *testing.T) {
	t.Parallel()

	sections := fluentdoc.KnownSections()
	require.NotEmpty(t, sections)

	seen := make(map[string]bool)
	for _, s := range sections {
		assert.False(t, seen[s.Key], "duplicate key %q", s.Key)
		seen[s.Key] = true

		assert.True(t, s.Guide.Valid(), "section %q has invalid guide", s.Key)
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.Path)
	}

	// First section is the turbulence chapter overview.
	assert.Equal(t, "turbulence_overview", sections[0].Key)
}

func TestKnownSections_PathsBelongToTheirGuide(t *testing.T) {
	t.Parallel()

	r := fluentdoc.NewResolver()
	for _, s := range fluentdoc.KnownSections() {
		_, err := r.Resolve(s.Guide, "v252", s.Path)
		assert.NoError(t, err, "section %q path %q", s.Key, s.Path)
	}
}

func TestLookupSection(t *testing.T) {
	t.Parallel()

	s, err := fluentdoc.LookupSection("k_omega_sst")
	require.NoError(t, err)
	assert.Equal(t, fluentdoc.GuideTheory, s.Guide)
	assert.Equal(t, "flu_th/flu_th_sec_turb_kw_sst.html", s.Path)

	_, err = fluentdoc.LookupSection("warp_drive")
	require.Error(t, err)
	assert.Equal(t, fluentdoc.ENOTFOUND, fluentdoc.ErrorCode(err))
}
