package depend

import "math"

// centeredDist builds the double-centered pairwise-distance matrix of v:
//
//	A[k][l] = a[k][l] − rowMean[k] − colMean[l] + grandMean,
//
// with a[k][l] = |v[k] − v[l]|. Returned flat (row-major, n×n) together with
// the distance variance mean(A∘A). n must be ≥ 1.
// Complexity: O(n²) time and memory.
func centeredDist(v []float64) (flat []float64, dVar float64) {
	n := len(v)
	flat = make([]float64, n*n)
	rowMean := make([]float64, n)

	// Pairwise distances and row means (symmetric, so row mean == col mean).
	for k := 0; k < n; k++ {
		base := k * n
		var sum float64
		for l := 0; l < n; l++ {
			d := math.Abs(v[k] - v[l])
			flat[base+l] = d
			sum += d
		}
		rowMean[k] = sum / float64(n)
	}
	var grand float64
	for k := 0; k < n; k++ {
		grand += rowMean[k]
	}
	grand /= float64(n)

	// Double centering and variance accumulation in one pass.
	for k := 0; k < n; k++ {
		base := k * n
		for l := 0; l < n; l++ {
			c := flat[base+l] - rowMean[k] - rowMean[l] + grand
			flat[base+l] = c
			dVar += c * c
		}
	}
	dVar /= float64(n * n)

	return flat, dVar
}

// dcovStat returns mean(A ∘ B) for two centered n×n matrices, with B's index
// space remapped through perm (perm == nil means identity). This is the
// distance-covariance statistic; permuting B's indices is equivalent to
// permuting the underlying sample order of the second variable, which is how
// replicates are drawn without rebuilding B.
func dcovStat(a, b []float64, n int, perm []int) float64 {
	var sum float64
	if perm == nil {
		for i := range a {
			sum += a[i] * b[i]
		}

		return sum / float64(n*n)
	}
	for k := 0; k < n; k++ {
		base := k * n
		pk := perm[k] * n
		for l := 0; l < n; l++ {
			sum += a[base+l] * b[pk+perm[l]]
		}
	}

	return sum / float64(n*n)
}

// dcorFrom converts a distance covariance and the two distance variances into
// the bounded correlation score: sqrt(dCov² / sqrt(dVarX·dVarY)), clamped to
// [0,1]. Zero-variance inputs yield 0 (independent by convention).
func dcorFrom(dcov2, dvarX, dvarY float64) float64 {
	denom := math.Sqrt(dvarX * dvarY)
	if denom <= 0 {
		return 0
	}
	r2 := dcov2 / denom
	if r2 <= 0 {
		return 0
	}
	r := math.Sqrt(r2)
	if r > 1 {
		return 1
	}

	return r
}
