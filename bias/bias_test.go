package bias_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Smendero/secom/bias"
	"github.com/Smendero/secom/dataset"
	"github.com/Smendero/secom/matrix"
)

// table builds a dataset handle around the given counts.
func table(t *testing.T, taxa, samples []string, rows [][]float64) *dataset.Table {
	t.Helper()
	m, err := matrix.NewDense(taxa, samples)
	require.NoError(t, err)
	for i, r := range rows {
		require.NoError(t, m.SetRow(i, r))
	}

	return &dataset.Table{Name: "test", Counts: m}
}

// TestLogScale_RecoversSharedOffset: two samples holding the same composition
// scaled by a constant factor differ only by sampling fraction; the corrected
// matrix must be identical across the two columns.
func TestLogScale_RecoversSharedOffset(t *testing.T) {
	tbl := table(t,
		[]string{"t1", "t2", "t3"},
		[]string{"deep", "shallow"},
		[][]float64{
			{4000, 400},
			{8000, 800},
			{2000, 200},
		})
	opts := bias.DefaultOptions()
	opts.LibSizeCut = 0
	opts.PseudoCount = 0 // exact log-scale arithmetic for this test

	est, err := bias.LogScale{}.Estimate(tbl, opts)
	require.NoError(t, err)
	require.Equal(t, []string{"deep", "shallow"}, est.Samples)

	// Bias difference must match the known 10x depth ratio on the log scale.
	assert.InDelta(t, math.Log(10), est.Bias[0]-est.Bias[1], 1e-9,
		"bias gap must equal the log depth ratio")

	// After correction, both columns carry the same abundances.
	for i := 0; i < est.Corrected.Rows(); i++ {
		a, err := est.Corrected.At(i, 0)
		require.NoError(t, err)
		b, err := est.Corrected.At(i, 1)
		require.NoError(t, err)
		assert.InDelta(t, a, b, 1e-9, "corrected columns must agree after bias removal")
	}
}

// TestLogScale_LibSizeFilter verifies that shallow samples are dropped and
// that an impossible cutoff is fatal.
func TestLogScale_LibSizeFilter(t *testing.T) {
	tbl := table(t,
		[]string{"t1", "t2"},
		[]string{"ok", "thin"},
		[][]float64{
			{900, 3},
			{600, 2},
		})
	opts := bias.DefaultOptions() // LibSizeCut = 1000

	est, err := bias.LogScale{}.Estimate(tbl, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, est.Samples, "sample below the cutoff must be dropped")

	opts.LibSizeCut = 1e9
	_, err = bias.LogScale{}.Estimate(tbl, opts)
	assert.ErrorIs(t, err, bias.ErrNoSamples)
}

// TestLogScale_PrevalenceFilter verifies rare taxa are dropped and zeros
// become missing values rather than log-transformed.
func TestLogScale_PrevalenceFilter(t *testing.T) {
	tbl := table(t,
		[]string{"common", "rare"},
		[]string{"s1", "s2", "s3", "s4"},
		[][]float64{
			{10, 20, 30, 40},
			{0, 0, 0, 5},
		})
	opts := bias.DefaultOptions()
	opts.LibSizeCut = 0
	opts.PrevalenceCut = 0.5 // "rare" is observed in 1/4 samples only

	est, err := bias.LogScale{}.Estimate(tbl, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"common"}, est.Corrected.RowLabels())

	opts.PrevalenceCut = 0
	est, err = bias.LogScale{}.Estimate(tbl, opts)
	require.NoError(t, err)
	v, err := est.Corrected.At(1, 0) // "rare" at a zero-count sample
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v), "zero count must become a missing value")

	opts.PrevalenceCut = 2.0
	_, err = bias.LogScale{}.Estimate(tbl, opts)
	assert.ErrorIs(t, err, bias.ErrNoTaxa)
}

// TestLogScale_Deterministic verifies bit-identical output on repeated runs.
func TestLogScale_Deterministic(t *testing.T) {
	tbl := table(t,
		[]string{"t1", "t2", "t3"},
		[]string{"s1", "s2", "s3"},
		[][]float64{
			{5, 0, 12},
			{7, 9, 0},
			{3, 4, 5},
		})
	opts := bias.DefaultOptions()
	opts.LibSizeCut = 0

	a, err := bias.LogScale{}.Estimate(tbl, opts)
	require.NoError(t, err)
	b, err := bias.LogScale{}.Estimate(tbl, opts)
	require.NoError(t, err)

	assert.Equal(t, a.Samples, b.Samples)
	assert.Equal(t, a.Bias, b.Bias, "repeated runs must be bit-identical")
}

// TestLogScale_NilDataset covers the nil guard.
func TestLogScale_NilDataset(t *testing.T) {
	_, err := bias.LogScale{}.Estimate(nil, bias.DefaultOptions())
	assert.ErrorIs(t, err, bias.ErrNilDataset)
}
