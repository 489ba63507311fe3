package secom_test

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Smendero/secom"
	"github.com/Smendero/secom/dataset"
	"github.com/Smendero/secom/depend"
	"github.com/Smendero/secom/matrix"
	"github.com/Smendero/secom/pool"
)

// synthSource builds a deterministic synthetic count dataset.
func synthSource(t *testing.T, nTaxa int, samples []string, seed int64) *dataset.Mem {
	t.Helper()
	taxa := make([]string, nTaxa)
	for i := range taxa {
		taxa[i] = fmt.Sprintf("OTU%d", i+1)
	}
	counts, err := matrix.NewDense(taxa, samples)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < nTaxa; i++ {
		for j := range samples {
			require.NoError(t, counts.Set(i, j, float64(1+rng.Intn(500))))
		}
	}

	return &dataset.Mem{
		Assays:  map[string]*matrix.Dense{"counts": counts},
		Primary: "counts",
	}
}

func names(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}

	return out
}

// fastOptions keeps permutation loops short and filters permissive so the
// synthetic data passes through unchanged.
func fastOptions() secom.Options {
	opts := secom.DefaultOptions()
	opts.Bias.LibSizeCut = 0
	opts.Bias.PrevalenceCut = 0
	opts.Replicates = 19
	opts.Seed = 7

	return opts
}

// spyDepend records the runner handed to the dependence estimator, then
// either fails or delegates to the reference implementation.
type spyDepend struct {
	runner *pool.Runner
	fail   error
}

func (s *spyDepend) Estimate(z *matrix.Dense, opts depend.Options) (*depend.Result, error) {
	s.runner = opts.Runner
	if s.fail != nil {
		return nil, s.fail
	}

	return depend.Distance{}.Estimate(z, opts)
}

// sameMatrix compares two labeled matrices cell by cell, treating NaN as
// equal to NaN (assert.Equal cannot: reflect.DeepEqual rejects NaN==NaN).
func sameMatrix(t *testing.T, a, b *matrix.Dense, what string) {
	t.Helper()
	require.Equal(t, a.RowLabels(), b.RowLabels(), "%s: row labels", what)
	require.Equal(t, a.ColLabels(), b.ColLabels(), "%s: col labels", what)
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			va, _ := a.At(i, j)
			vb, _ := b.At(i, j)
			if matrix.IsNaN(va) && matrix.IsNaN(vb) {
				continue
			}
			require.Equal(t, va, vb, "%s: cell (%d,%d)", what, i, j)
		}
	}
}

// TestRun_NoDatasets covers the empty-input guard at the top entry point.
func TestRun_NoDatasets(t *testing.T) {
	_, err := secom.Run(nil, secom.DefaultOptions())
	assert.ErrorIs(t, err, secom.ErrNoDatasets)
}

// TestRun_EndToEndTwoDatasets: two 50-taxa × 40-sample datasets sharing 30
// samples must yield 100×100 matrices over prefixed taxa, with the combined
// matrix restricted to the shared samples.
func TestRun_EndToEndTwoDatasets(t *testing.T) {
	shared := names("shared", 30)
	a := synthSource(t, 50, append(names("a", 10), shared...), 1)
	b := synthSource(t, 50, append(shared, names("b", 10)...), 2)

	opts := fastOptions()
	opts.Workers = 4

	res, err := secom.Run([]secom.Input{{Source: a}, {Source: b}}, opts)
	require.NoError(t, err)

	for _, m := range []*matrix.Dense{res.Cooccur, res.Dependence, res.PValues, res.Sparse} {
		assert.Equal(t, 100, m.Rows())
		assert.Equal(t, 100, m.Cols())
		assert.True(t, m.IsSquare())
	}
	assert.Equal(t, 100, res.Corrected.Rows())
	assert.Equal(t, 30, res.Corrected.Cols(), "combined matrix carries only the shared samples")

	rows := res.Dependence.RowLabels()
	for _, l := range rows[:50] {
		assert.True(t, strings.HasPrefix(l, "data1 - "), "first block prefixed: %s", l)
	}
	for _, l := range rows[50:] {
		assert.True(t, strings.HasPrefix(l, "data2 - "), "second block prefixed: %s", l)
	}

	require.Len(t, res.Bias, 2)
	assert.Equal(t, "data1", res.Bias[0].Dataset)
	assert.Len(t, res.Bias[0].Values, 40, "bias covers all of dataset 1's samples")
	assert.Len(t, res.Bias[1].Values, 40, "bias covers all of dataset 2's samples")

	// Symmetry survives the whole pipeline, suppression included.
	for i := 0; i < 100; i += 13 {
		for j := 0; j < 100; j += 7 {
			d1, _ := res.Dependence.At(i, j)
			d2, _ := res.Dependence.At(j, i)
			assert.Equal(t, d1, d2, "dependence (%d,%d) symmetric", i, j)
			p1, _ := res.PValues.At(i, j)
			p2, _ := res.PValues.At(j, i)
			assert.Equal(t, p1, p2, "p-values (%d,%d) symmetric", i, j)
		}
	}
}

// TestRun_SingletonNaming: a single dataset produces the same matrices
// whatever it is called; naming only matters once prefixing kicks in.
func TestRun_SingletonNaming(t *testing.T) {
	src := synthSource(t, 6, names("s", 12), 3)
	opts := fastOptions()

	unnamed, err := secom.Run([]secom.Input{{Source: src}}, opts)
	require.NoError(t, err)
	named, err := secom.Run([]secom.Input{{Source: src, Name: "gut"}}, opts)
	require.NoError(t, err)

	sameMatrix(t, unnamed.Corrected, named.Corrected, "corrected")
	sameMatrix(t, unnamed.Dependence, named.Dependence, "dependence")
	sameMatrix(t, unnamed.PValues, named.PValues, "p-values")
	sameMatrix(t, unnamed.Sparse, named.Sparse, "sparse")
	assert.Equal(t, unnamed.Bias[0].Values, named.Bias[0].Values)
	assert.Equal(t, "data1", unnamed.Bias[0].Dataset)
	assert.Equal(t, "gut", named.Bias[0].Dataset)
}

// TestRun_Idempotence: identical inputs, seed and worker count give
// bit-identical bundles run-to-run; a different worker count changes nothing
// either, since permutation streams are derived per pair.
func TestRun_Idempotence(t *testing.T) {
	shared := names("sh", 15)
	a := synthSource(t, 8, shared, 4)
	b := synthSource(t, 8, shared, 5)
	inputs := []secom.Input{{Source: a}, {Source: b}}

	opts := fastOptions()
	first, err := secom.Run(inputs, opts)
	require.NoError(t, err)
	second, err := secom.Run(inputs, opts)
	require.NoError(t, err)

	opts.Workers = 4
	parallel, err := secom.Run(inputs, opts)
	require.NoError(t, err)

	for _, pair := range []struct {
		name string
		a, b *matrix.Dense
	}{
		{"dependence rerun", first.Dependence, second.Dependence},
		{"p-values rerun", first.PValues, second.PValues},
		{"sparse rerun", first.Sparse, second.Sparse},
		{"cooccur rerun", first.Cooccur, second.Cooccur},
		{"dependence parallel", first.Dependence, parallel.Dependence},
		{"p-values parallel", first.PValues, parallel.PValues},
	} {
		sameMatrix(t, pair.a, pair.b, pair.name)
	}
	assert.Equal(t, first.Bias[0].Values, second.Bias[0].Values)
}

// TestRun_SequentialNeverProvisionsPool: workers=1 must hand the estimator a
// non-parallel runner, released by the time Run returns.
func TestRun_SequentialNeverProvisionsPool(t *testing.T) {
	src := synthSource(t, 4, names("s", 12), 6)
	spy := &spyDepend{}
	opts := fastOptions()
	opts.Workers = 1
	opts.DependEstimator = spy

	_, err := secom.Run([]secom.Input{{Source: src}}, opts)
	require.NoError(t, err)
	require.NotNil(t, spy.runner)
	assert.False(t, spy.runner.Parallel(), "workers=1 must never provision a pool")
	assert.True(t, spy.runner.Closed(), "runner must be released when Run returns")
}

// TestRun_PoolProvisionedAndReleased: workers>1 provisions a real pool and
// tears it down on the success path.
func TestRun_PoolProvisionedAndReleased(t *testing.T) {
	src := synthSource(t, 4, names("s", 12), 6)
	spy := &spyDepend{}
	opts := fastOptions()
	opts.Workers = 3
	opts.DependEstimator = spy

	_, err := secom.Run([]secom.Input{{Source: src}}, opts)
	require.NoError(t, err)
	require.NotNil(t, spy.runner)
	assert.True(t, spy.runner.Parallel(), "workers=3 must provision a pool")
	assert.True(t, spy.runner.Closed(), "pool must be released after estimation")
}

// TestRun_EstimatorFailureReleasesPool: a dependence-estimator failure
// propagates fatally, and the pool is still torn down first.
func TestRun_EstimatorFailureReleasesPool(t *testing.T) {
	src := synthSource(t, 4, names("s", 12), 6)
	boom := errors.New("boom")
	spy := &spyDepend{fail: boom}
	opts := fastOptions()
	opts.Workers = 3
	opts.DependEstimator = spy

	_, err := secom.Run([]secom.Input{{Source: src}}, opts)
	assert.ErrorIs(t, err, boom, "collaborator failure must propagate")
	require.NotNil(t, spy.runner)
	assert.True(t, spy.runner.Closed(), "pool must be released on the failure path too")
}
