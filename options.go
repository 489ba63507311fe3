package secom

import (
	"github.com/Smendero/secom/bias"
	"github.com/Smendero/secom/dataset"
	"github.com/Smendero/secom/depend"
)

// DefaultCorrCut is the default bias-correlation cutoff of the
// false-positive suppressor.
const DefaultCorrCut = 0.5

// Input describes one dataset entering a run.
//
// Fields:
//   - Source   — the container adapter holding the counts (required).
//   - Name     — dataset name; auto-generated positionally (data1, data2, …)
//     when empty. Names become taxon prefixes in multi-dataset runs and must
//     therefore be unique.
//   - Assay    — which assay of the source to use; "" means the source's
//     default assay.
//   - TaxLevel — taxonomic level of the counts; "" falls back to the finest
//     level the source provides.
type Input struct {
	Source   dataset.Source
	Name     string
	Assay    string
	TaxLevel string
}

// Options configures one pipeline run. The zero value is NOT usable; start
// from DefaultOptions and override.
//
// Fields:
//   - Bias          — pre-filtering and pseudo-count of the bias estimator.
//   - CorrCut       — |correlation with bias| above which a taxon is flagged
//     suspect by the suppressor.
//   - WinsorLo/Hi   — winsorization quantile pair, passed through to the
//     dependence estimator unchanged.
//   - Replicates    — permutation replicates per p-value.
//   - HardThreshold — dependence scores at or below this are dropped from
//     the sparse matrix before p-value filtering.
//   - MaxP          — maximum p-value an edge may carry and survive.
//   - Workers       — worker count for the dependence pass; ≤ 1 runs
//     sequentially with no pool provisioned.
//   - Seed          — base seed for the estimator's permutation draws.
//   - BiasEstimator, DependEstimator — collaborator overrides; nil selects
//     the reference implementations (bias.LogScale, depend.Distance).
type Options struct {
	Bias          bias.Options
	CorrCut       float64
	WinsorLo      float64
	WinsorHi      float64
	Replicates    int
	HardThreshold float64
	MaxP          float64
	Workers       int
	Seed          int64

	BiasEstimator   bias.Estimator
	DependEstimator depend.Estimator
}

// DefaultOptions returns the documented defaults: reference collaborators,
// sequential execution, and the tuning values of the subpackages.
func DefaultOptions() Options {
	return Options{
		Bias:          bias.DefaultOptions(),
		CorrCut:       DefaultCorrCut,
		WinsorLo:      depend.DefaultWinsorLo,
		WinsorHi:      depend.DefaultWinsorHi,
		Replicates:    depend.DefaultReplicates,
		HardThreshold: depend.DefaultHardThreshold,
		MaxP:          depend.DefaultMaxP,
		Workers:       1,
	}
}
