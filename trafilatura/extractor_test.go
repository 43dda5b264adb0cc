package trafilatura_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subspace-lab/fluentdoc"
	"github.com/subspace-lab/fluentdoc/trafilatura"
)

// Ensure Extractor implements fluentdoc.Extractor at compile time.
var _ fluentdoc.Extractor = (*trafilatura.Extractor)(nil)

// mirrorPage mimics the old university mirror's layout: a framed page with
// navigation arrows, a breadcrumb strip, and the section body.
const mirrorPage = `<!DOCTYPE html>
<html>
<head>
<title>10.4.3 Shear-Stress Transport (SST) k-omega Model</title>
</head>
<body>
<div class="navigation">
<a href="node66.htm">Previous</a> | <a href="node68.htm">Up</a> | <a href="node69.htm">Next</a>
</div>
<h2>10.4.3 Shear-Stress Transport (SST) <i>k</i>-&omega; Model</h2>
<article>
<p>The shear-stress transport (SST) k-omega model was developed by Menter
to effectively blend the robust and accurate formulation of the k-omega
model in the near-wall region with the free-stream independence of the
k-epsilon model in the far field.</p>
<p>The SST model is similar to the standard k-omega model, but includes
a damped cross-diffusion derivative term in the omega equation.</p>
</article>
<address>Copyright FLUENT Inc. 2003</address>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts section title", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(mirrorPage)

		require.NoError(t, err)
		assert.Contains(t, result.Title, "Shear-Stress Transport")
	})

	t.Run("extracts section body", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(mirrorPage)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "developed by Menter")
		assert.Contains(t, result.ContentHTML, "cross-diffusion derivative term")
	})

	t.Run("drops navigation chrome", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(mirrorPage)

		require.NoError(t, err)
		assert.NotContains(t, result.ContentHTML, "node66.htm")
		assert.NotContains(t, result.ContentHTML, "Previous")
	})

	t.Run("keeps definition tables", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>7.3.14 Pressure Outlet Boundary Conditions</title></head>
<body>
<article>
<h2>7.3.14 Pressure Outlet Boundary Conditions</h2>
<p>The following inputs are required at a pressure outlet boundary:</p>
<table>
<tr><td>Gauge Pressure</td><td>static pressure of the environment</td></tr>
<tr><td>Backflow Direction</td><td>used when flow reverses</td></tr>
</table>
</article>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "Gauge Pressure")
		assert.Contains(t, result.ContentHTML, "flow reverses")
	})

	t.Run("empty input is an error", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("")

		assert.Error(t, err)
	})

	t.Run("non-HTML input yields empty content rather than panic", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract("just some plain text, no markup at all")

		if err == nil {
			assert.NotNil(t, result)
		}
	})
}
