// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide the statistical micro-kernels shared by the bias and dependence
//     layers: pairwise-complete Pearson correlation, quantile estimation and
//     winsorization, all NaN-aware (NaN = missing observation).
//
// Exposed API:
//   - PairwiseCorrelation(x, y) -> r        // Pearson over jointly observed entries
//   - Quantile(v, q)            -> (val)    // linear-interpolation quantile, NaN-skipping
//   - Winsorize(v, lo, hi)      -> (w, err) // clip to [Q(lo), Q(hi)], NaN preserved
//
// Determinism & Policy:
//   - Fixed left-to-right traversal for all loops; no randomness.
//   - Degenerate inputs (fewer than 2 jointly observed entries, zero variance)
//     yield NaN from PairwiseCorrelation, never an error: the caller decides
//     how NaN propagates (the suppressor treats NaN as "not suspect").

package matrix

import (
	"math"
	"sort"
)

const (
	opWinsorize = "Winsorize"

	// minPairwiseObs is the minimum number of jointly observed entries for a
	// pairwise correlation to be defined.
	minPairwiseObs = 2
)

// PairwiseCorrelation returns the Pearson correlation of x and y computed over
// the entries where BOTH values are observed (non-NaN). Pairwise-complete
// semantics: each pair of vectors uses whichever positions are jointly
// observed, independent of any other pair.
//
// Returns NaN when the vectors differ in length, fewer than 2 entries are
// jointly observed, or either vector has zero variance on the joint support.
// Complexity: O(n) time, O(1) space.
func PairwiseCorrelation(x, y []float64) float64 {
	if len(x) != len(y) {
		return math.NaN()
	}

	// Single pass: accumulate joint moments over observed positions only.
	var n int
	var sx, sy, sxx, syy, sxy float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		n++
		sx += x[i]
		sy += y[i]
		sxx += x[i] * x[i]
		syy += y[i] * y[i]
		sxy += x[i] * y[i]
	}
	if n < minPairwiseObs {
		return math.NaN()
	}

	fn := float64(n)
	covXY := sxy - sx*sy/fn
	varX := sxx - sx*sx/fn
	varY := syy - sy*sy/fn
	if varX <= 0 || varY <= 0 {
		return math.NaN() // zero variance: correlation undefined
	}

	return covXY / math.Sqrt(varX*varY)
}

// Quantile returns the q-th quantile (0 <= q <= 1) of the observed (non-NaN)
// entries of v using linear interpolation between order statistics (type-7,
// the common default). Returns NaN when no entry is observed or q is outside
// [0,1]. Complexity: O(n log n) time, O(n) space.
func Quantile(v []float64, q float64) float64 {
	if q < 0 || q > 1 {
		return math.NaN()
	}
	obs := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) {
			obs = append(obs, x)
		}
	}
	if len(obs) == 0 {
		return math.NaN()
	}
	sort.Float64s(obs)

	h := q * float64(len(obs)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return obs[lo]
	}

	return obs[lo] + (h-float64(lo))*(obs[hi]-obs[lo])
}

// Winsorize clips the observed entries of v to the [Quantile(v,lo),
// Quantile(v,hi)] range and returns a new slice; NaN entries are preserved
// unchanged. Requires 0 <= lo < hi <= 1 (ErrBadQuantiles otherwise).
// Complexity: O(n log n) time, O(n) space.
func Winsorize(v []float64, lo, hi float64) ([]float64, error) {
	if lo < 0 || hi > 1 || lo >= hi {
		return nil, matrixErrorf(opWinsorize, ErrBadQuantiles)
	}
	lower := Quantile(v, lo)
	upper := Quantile(v, hi)

	out := make([]float64, len(v))
	copy(out, v)
	if math.IsNaN(lower) { // no observed entries: nothing to clip
		return out, nil
	}
	for i, x := range out {
		switch {
		case math.IsNaN(x):
			// missing stays missing
		case x < lower:
			out[i] = lower
		case x > upper:
			out[i] = upper
		}
	}

	return out, nil
}
