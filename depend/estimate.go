package depend

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/Smendero/secom/matrix"
	"github.com/Smendero/secom/pool"
)

var (
	// ErrNilInput indicates a nil abundance matrix.
	ErrNilInput = errors.New("depend: nil input matrix")

	// ErrTooFewFeatures indicates fewer than two taxa, hence no pair to score.
	ErrTooFewFeatures = errors.New("depend: need at least two features")

	// ErrBadReplicates indicates a non-positive permutation replicate count.
	ErrBadReplicates = errors.New("depend: replicate count must be positive")

	// ErrBadMaxP indicates a p-value cutoff outside [0,1].
	ErrBadMaxP = errors.New("depend: max-p cutoff outside [0,1]")
)

// Defaults for Options.
const (
	DefaultWinsorLo      = 0.05
	DefaultWinsorHi      = 0.95
	DefaultReplicates    = 1000
	DefaultHardThreshold = 0.3
	DefaultMaxP          = 0.005

	// minJointSamples is the smallest joint support on which a pair is
	// scored; below it the pair gets dependence 0 and p-value 1.
	minJointSamples = 3
)

// Options tunes one estimation pass.
//
// Fields:
//   - WinsorLo, WinsorHi — winsorization quantile pair applied per taxon.
//   - Replicates         — permutation replicates behind each p-value.
//   - HardThreshold      — scores at or below this are zeroed in Sparse
//     before p-value filtering.
//   - MaxP               — scores whose p-value exceeds this are zeroed
//     in Sparse.
//   - Seed               — base RNG seed; each pair derives its own stream
//     from it, so output is independent of scheduling.
//   - Runner             — worker-pool handle for the pair loop; nil runs
//     sequentially on the calling goroutine.
type Options struct {
	WinsorLo      float64
	WinsorHi      float64
	Replicates    int
	HardThreshold float64
	MaxP          float64
	Seed          int64
	Runner        *pool.Runner
}

// DefaultOptions returns the documented defaults (sequential Runner).
func DefaultOptions() Options {
	return Options{
		WinsorLo:      DefaultWinsorLo,
		WinsorHi:      DefaultWinsorHi,
		Replicates:    DefaultReplicates,
		HardThreshold: DefaultHardThreshold,
		MaxP:          DefaultMaxP,
	}
}

// Result bundles the four matrices of one pass. All are square, symmetric and
// share the feature labels of the input on both axes.
//
//   - Cooccur: integer-valued counts of jointly observed samples per pair.
//   - Dependence: raw distance-correlation scores (diagonal 1).
//   - PValues: permutation p-values (diagonal 0).
//   - Sparse: Dependence after hard-threshold and max-p filtering
//     (diagonal 0; self-dependence carries no network information).
type Result struct {
	Cooccur    *matrix.Dense
	Dependence *matrix.Dense
	PValues    *matrix.Dense
	Sparse     *matrix.Dense
}

// Estimator is the collaborator contract for the sparse dependence pass.
// Input is samples × features; implementations must be deterministic for a
// fixed Options.Seed.
type Estimator interface {
	Estimate(z *matrix.Dense, opts Options) (*Result, error)
}

// Distance is the reference Estimator: winsorized distance correlation with
// permutation p-values. See the package documentation for the algorithm.
type Distance struct{}

// Estimate implements Estimator.
func (Distance) Estimate(z *matrix.Dense, opts Options) (*Result, error) {
	if z == nil {
		return nil, ErrNilInput
	}
	if z.Cols() < 2 {
		return nil, ErrTooFewFeatures
	}
	if opts.Replicates < 1 {
		return nil, ErrBadReplicates
	}
	if opts.MaxP < 0 || opts.MaxP > 1 {
		return nil, ErrBadMaxP
	}

	nSamples, nFeatures := z.Rows(), z.Cols()
	features := z.ColLabels()

	// Winsorize each taxon profile once, up front.
	profiles := make([][]float64, nFeatures)
	for f := 0; f < nFeatures; f++ {
		col := make([]float64, nSamples)
		for s := 0; s < nSamples; s++ {
			v, err := z.At(s, f)
			if err != nil {
				return nil, fmt.Errorf("depend.Estimate: %w", err)
			}
			col[s] = v
		}
		w, err := matrix.Winsorize(col, opts.WinsorLo, opts.WinsorHi)
		if err != nil {
			return nil, fmt.Errorf("depend.Estimate: %w", err)
		}
		profiles[f] = w
	}

	res, err := newResult(features)
	if err != nil {
		return nil, fmt.Errorf("depend.Estimate: %w", err)
	}

	// Diagonal: self-observation count, score 1, p-value 0, no self-edge.
	for f := 0; f < nFeatures; f++ {
		obs := 0
		for s := 0; s < nSamples; s++ {
			if !matrix.IsNaN(profiles[f][s]) {
				obs++
			}
		}
		_ = res.Cooccur.Set(f, f, float64(obs))
		_ = res.Dependence.Set(f, f, 1)
	}

	// Enumerate the upper triangle once; each job owns exactly the (i,j) and
	// (j,i) cells it writes, so jobs never contend.
	pairs := make([][2]int, 0, nFeatures*(nFeatures-1)/2)
	for i := 0; i < nFeatures; i++ {
		for j := i + 1; j < nFeatures; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}

	runner := opts.Runner
	if runner == nil {
		runner = pool.New(1)
		defer runner.Close()
	}
	err = runner.Map(len(pairs), func(k int) error {
		i, j := pairs[k][0], pairs[k][1]
		score, p, co := scorePair(profiles[i], profiles[j], opts, pairSeed(opts.Seed, i, j))
		for _, cell := range [][2]int{{i, j}, {j, i}} {
			if err := res.Cooccur.Set(cell[0], cell[1], float64(co)); err != nil {
				return err
			}
			if err := res.Dependence.Set(cell[0], cell[1], score); err != nil {
				return err
			}
			if err := res.PValues.Set(cell[0], cell[1], p); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("depend.Estimate: %w", err)
	}

	sparsify(res, opts.HardThreshold, opts.MaxP)

	return res, nil
}

// newResult allocates the four square matrices over the feature labels.
func newResult(features []string) (*Result, error) {
	co, err := matrix.NewSquare(features)
	if err != nil {
		return nil, err
	}
	dep, err := matrix.NewSquare(features)
	if err != nil {
		return nil, err
	}
	pv, err := matrix.NewSquare(features)
	if err != nil {
		return nil, err
	}
	sp, err := matrix.NewSquare(features)
	if err != nil {
		return nil, err
	}

	return &Result{Cooccur: co, Dependence: dep, PValues: pv, Sparse: sp}, nil
}

// pairSeed derives a per-pair RNG seed from the base seed. The derivation is
// a fixed function of (i, j) only, so replicate draws do not depend on which
// worker picks the pair up or in what order.
func pairSeed(base int64, i, j int) int64 {
	return base + int64(i)*1_000_003 + int64(j)
}

// scorePair computes (dCor, p-value, co-occurrence) for two winsorized taxon
// profiles. Pairwise-complete: only positions where both values are observed
// participate. Pairs with fewer than minJointSamples joint observations are
// reported as (0, 1, n): no evidence, not an error.
func scorePair(x, y []float64, opts Options, seed int64) (score, p float64, co int) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for s := range x {
		if matrix.IsNaN(x[s]) || matrix.IsNaN(y[s]) {
			continue
		}
		xs = append(xs, x[s])
		ys = append(ys, y[s])
	}
	co = len(xs)
	if co < minJointSamples {
		return 0, 1, co
	}

	a, dvarX := centeredDist(xs)
	b, dvarY := centeredDist(ys)
	n := len(xs)
	observed := dcorFrom(dcovStat(a, b, n, nil), dvarX, dvarY)

	// Permutation null: shuffle the sample order of the second profile.
	rng := rand.New(rand.NewSource(seed))
	perm := make([]int, n)
	exceed := 0
	for rep := 0; rep < opts.Replicates; rep++ {
		for s := range perm {
			perm[s] = s
		}
		rng.Shuffle(n, func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })
		if dcorFrom(dcovStat(a, b, n, perm), dvarX, dvarY) >= observed {
			exceed++
		}
	}
	p = (1 + float64(exceed)) / (1 + float64(opts.Replicates))

	return observed, p, co
}

// sparsify builds Result.Sparse: scores at or below the hard threshold are
// zeroed first, then scores whose p-value exceeds maxP. The diagonal stays 0.
func sparsify(res *Result, hard, maxP float64) {
	n := res.Dependence.Rows()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			score, _ := res.Dependence.At(i, j)
			if math.IsNaN(score) || score <= hard {
				continue
			}
			pv, _ := res.PValues.At(i, j)
			if pv > maxP {
				continue
			}
			_ = res.Sparse.Set(i, j, score)
		}
	}
}
