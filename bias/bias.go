// Package bias estimates the per-sample measurement bias (sampling fraction)
// of one dataset and returns the bias-corrected abundance matrix.
//
// 🚀 What is sampling-fraction bias?
//
//	Sequencing recovers only an unknown, sample-specific fraction of the
//	organisms actually present: every count in a sample is distorted by one
//	shared scalar. On the log scale that scalar becomes an additive offset,
//	which is what this package estimates and removes.
//
// The Estimator interface is the contract the pipeline consumes; LogScale is
// the reference implementation. Swap in a different estimator by implementing
// the interface; the pipeline treats it as an opaque collaborator.
package bias

import (
	"errors"
	"fmt"
	"math"

	"github.com/Smendero/secom/dataset"
	"github.com/Smendero/secom/matrix"
)

var (
	// ErrNilDataset indicates a nil dataset handle.
	ErrNilDataset = errors.New("bias: nil dataset")

	// ErrNoSamples indicates that no sample survived the library-size cutoff.
	ErrNoSamples = errors.New("bias: no samples left after library-size filter")

	// ErrNoTaxa indicates that no taxon survived the prevalence cutoff.
	ErrNoTaxa = errors.New("bias: no taxa left after prevalence filter")
)

// Defaults for Options. Values follow the conventions of microbiome
// differential-abundance tooling: a pseudo-count of 1, taxa observed in at
// least 10% of samples, samples with at least 1000 reads.
const (
	DefaultPseudoCount   = 1.0
	DefaultPrevalenceCut = 0.10
	DefaultLibSizeCut    = 1000.0
)

// Options tunes the pre-filtering and the log transform.
//
// Fields:
//   - PseudoCount   — added to positive counts before the log transform.
//   - PrevalenceCut — minimum fraction of (surviving) samples in which a
//     taxon must be observed; rarer taxa are dropped.
//   - LibSizeCut    — minimum library size (column sum of counts) a sample
//     must reach; shallower samples are dropped.
type Options struct {
	PseudoCount   float64
	PrevalenceCut float64
	LibSizeCut    float64
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		PseudoCount:   DefaultPseudoCount,
		PrevalenceCut: DefaultPrevalenceCut,
		LibSizeCut:    DefaultLibSizeCut,
	}
}

// Estimate is the outcome of one bias-estimation pass over one dataset:
// the per-sample bias vector (aligned with Samples) and the bias-corrected
// log-scale abundance matrix (taxa × samples, NaN where the count was zero).
// Both are produced once and never mutated afterwards.
type Estimate struct {
	Samples   []string
	Bias      []float64
	Corrected *matrix.Dense
}

// Estimator is the collaborator contract the pipeline invokes once per
// dataset. Implementations must be deterministic for fixed inputs.
type Estimator interface {
	Estimate(t *dataset.Table, opts Options) (*Estimate, error)
}

// LogScale is the reference Estimator.
//
// Algorithm Outline:
//  1. Drop samples whose library size (column sum) is below LibSizeCut.
//  2. Drop taxa observed (count > 0) in fewer than PrevalenceCut of the
//     surviving samples.
//  3. y[i][j] = log(count[i][j] + PseudoCount) for positive counts; zero
//     counts become NaN (a zero carries no information about the sampling
//     fraction, so it is treated as unobserved rather than log-transformed).
//  4. Center each taxon row on its observed mean; the bias of sample j is
//     the mean of the centered residuals down column j, the additive offset
//     shared by every taxon in that sample.
//  5. Corrected[i][j] = y[i][j] − bias[j] (NaN stays NaN).
//
// Complexity: O(taxa · samples) time and memory. Deterministic.
type LogScale struct{}

// Estimate implements Estimator.
func (LogScale) Estimate(t *dataset.Table, opts Options) (*Estimate, error) {
	if t == nil || t.Counts == nil {
		return nil, ErrNilDataset
	}
	counts := t.Counts
	nTaxa, nSamples := counts.Rows(), counts.Cols()

	// Step 1: library-size filter.
	keepSamples := make([]int, 0, nSamples)
	sampleLabels := counts.ColLabels()
	for j := 0; j < nSamples; j++ {
		var lib float64
		for i := 0; i < nTaxa; i++ {
			v, err := counts.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("bias.Estimate: %w", err)
			}
			lib += v
		}
		if lib >= opts.LibSizeCut {
			keepSamples = append(keepSamples, j)
		}
	}
	if len(keepSamples) == 0 {
		return nil, ErrNoSamples
	}

	// Step 2: prevalence filter over surviving samples.
	keepTaxa := make([]int, 0, nTaxa)
	taxaLabels := counts.RowLabels()
	minObs := opts.PrevalenceCut * float64(len(keepSamples))
	for i := 0; i < nTaxa; i++ {
		obs := 0
		for _, j := range keepSamples {
			v, err := counts.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("bias.Estimate: %w", err)
			}
			if v > 0 {
				obs++
			}
		}
		if float64(obs) >= minObs && obs > 0 {
			keepTaxa = append(keepTaxa, i)
		}
	}
	if len(keepTaxa) == 0 {
		return nil, ErrNoTaxa
	}

	// Step 3: log transform with zero→NaN.
	rows := make([]string, len(keepTaxa))
	for k, i := range keepTaxa {
		rows[k] = taxaLabels[i]
	}
	cols := make([]string, len(keepSamples))
	for k, j := range keepSamples {
		cols[k] = sampleLabels[j]
	}
	y, err := matrix.NewDense(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("bias.Estimate: %w", err)
	}
	for ri, i := range keepTaxa {
		for cj, j := range keepSamples {
			v, err := counts.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("bias.Estimate: %w", err)
			}
			logged := math.NaN()
			if v > 0 {
				logged = math.Log(v + opts.PseudoCount)
			}
			if err := y.Set(ri, cj, logged); err != nil {
				return nil, fmt.Errorf("bias.Estimate: %w", err)
			}
		}
	}

	// Step 4: per-taxon centering, then column means of the residuals.
	r, c := y.Rows(), y.Cols()
	rowMean := make([]float64, r)
	for i := 0; i < r; i++ {
		var sum float64
		var n int
		for j := 0; j < c; j++ {
			v, _ := y.At(i, j)
			if !math.IsNaN(v) {
				sum += v
				n++
			}
		}
		rowMean[i] = sum / float64(n) // n > 0 guaranteed by the prevalence filter
	}
	biasVec := make([]float64, c)
	for j := 0; j < c; j++ {
		var sum float64
		var n int
		for i := 0; i < r; i++ {
			v, _ := y.At(i, j)
			if !math.IsNaN(v) {
				sum += v - rowMean[i]
				n++
			}
		}
		if n > 0 {
			biasVec[j] = sum / float64(n)
		} // all-missing column: bias stays 0
	}

	// Step 5: subtract the bias from every observed cell.
	corrected := y // y is private to this call; correct in place
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			v, _ := corrected.At(i, j)
			if !math.IsNaN(v) {
				_ = corrected.Set(i, j, v-biasVec[j])
			}
		}
	}

	return &Estimate{Samples: cols, Bias: biasVec, Corrected: corrected}, nil
}
