package secom

import (
	"fmt"

	"github.com/Smendero/secom/depend"
	"github.com/Smendero/secom/matrix"
	"github.com/Smendero/secom/pool"
)

// Run executes the whole pipeline: harmonization, bias estimation, the
// dependence pass, false-positive suppression, and result assembly.
//
// One controlling goroutine orchestrates; all parallelism lives in the
// dependence estimator's internal loops, fanned out over a pool provisioned
// here for opts.Workers > 1 and released on every exit path; an estimator
// failure surfaces only after the pool is torn down. Run exposes no
// cancellation: the estimation call is synchronous end-to-end, and every
// stage is deterministic and idempotent for fixed inputs and seed, so there
// is nothing a retry could change.
func Run(inputs []Input, opts Options) (*Result, error) {
	h, err := harmonize(inputs, opts)
	if err != nil {
		return nil, err
	}

	runner := pool.New(opts.Workers)
	defer runner.Close() // released on success and failure alike

	// The estimator consumes samples × features.
	z, err := matrix.Transpose(h.combined)
	if err != nil {
		return nil, fmt.Errorf("secom: %w", err)
	}

	estimator := opts.DependEstimator
	if estimator == nil {
		estimator = depend.Distance{}
	}
	dres, err := estimator.Estimate(z, depend.Options{
		WinsorLo:      opts.WinsorLo,
		WinsorHi:      opts.WinsorHi,
		Replicates:    opts.Replicates,
		HardThreshold: opts.HardThreshold,
		MaxP:          opts.MaxP,
		Seed:          opts.Seed,
		Runner:        runner,
	})
	if err != nil {
		return nil, fmt.Errorf("secom: dependence estimation: %w", err)
	}

	if err := suppress(dres, h.blocks, opts.CorrCut); err != nil {
		return nil, err
	}

	return assemble(h, dres), nil
}

// assemble packs the harmonization and estimation outputs into the Result
// bundle. Pure aggregation; no additional computation.
func assemble(h *harmonized, dres *depend.Result) *Result {
	vectors := make([]BiasVector, len(h.blocks))
	for d, b := range h.blocks {
		vectors[d] = BiasVector{
			Dataset: b.name,
			Samples: b.est.Samples,
			Values:  b.est.Bias,
		}
	}

	return &Result{
		Bias:       vectors,
		Corrected:  h.combined,
		Cooccur:    dres.Cooccur,
		Dependence: dres.Dependence,
		PValues:    dres.PValues,
		Sparse:     dres.Sparse,
	}
}
