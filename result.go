package secom

import "github.com/Smendero/secom/matrix"

// BiasVector is the estimated per-sample measurement bias of one dataset.
// Values[k] belongs to Samples[k]; both are fixed once produced.
type BiasVector struct {
	Dataset string
	Samples []string
	Values  []float64
}

// Result is the immutable bundle a run returns. Matrices are square over the
// combined taxon labels (dataset-prefixed in multi-dataset runs), symmetric,
// and, after suppression, share a consistent zero pattern: a suppressed
// pair is zero in Dependence and Sparse and 1 in PValues.
//
// Fields:
//   - Bias       — one vector per input dataset, in input order.
//   - Corrected  — the combined bias-corrected abundance matrix
//     (taxa × common samples; NaN marks unobserved cells).
//   - Cooccur    — joint-observation counts per taxon pair (diagnostic,
//     untouched by suppression).
//   - Dependence — raw dependence scores.
//   - PValues    — permutation p-values.
//   - Sparse     — Dependence after hard-threshold, max-p and suppression
//     filtering; the matrix to build networks from.
type Result struct {
	Bias       []BiasVector
	Corrected  *matrix.Dense
	Cooccur    *matrix.Dense
	Dependence *matrix.Dense
	PValues    *matrix.Dense
	Sparse     *matrix.Dense
}
