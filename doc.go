// Package secom estimates sparse, bias-corrected dependence networks between
// microbial taxa across one or more count datasets.
//
// 🚀 What does it do?
//
//	Microbiome counts are noisy, zero-inflated, and distorted by a per-sample
//	sampling fraction nobody measured. secom harmonizes one or many datasets
//	into a single bias-corrected abundance matrix, runs a (possibly parallel)
//	sparse dependence pass over it, and suppresses the false positives that
//	shared estimation bias induces. What remains is a thresholded matrix of
//	statistically significant non-linear taxa associations, ready for
//	network analysis.
//
// ✨ The pipeline, step by step:
//   - Harmonizer — align sample identifiers across datasets (≥ 10 common
//     samples or the run is refused), disambiguate taxon names with a
//     dataset prefix, and row-bind the per-dataset corrected matrices
//   - Bias estimation — one pass per dataset through a bias.Estimator
//   - Dependence estimation — one synchronous call into a depend.Estimator,
//     fanned out over a pool.Runner released on every exit path
//   - False-positive suppression — taxon pairs that are both strongly
//     correlated with their dataset's bias vector are zeroed out
//   - Result assembly — one immutable bundle of bias vectors and matrices
//
// Everything is organized under six subpackages:
//
//	matrix/  — labeled dense matrices, NaN-aware statistical kernels
//	dataset/ — normalized dataset handle + container adapters (CSV)
//	bias/    — sampling-fraction estimation contract + reference estimator
//	depend/  — distance-correlation estimation contract + reference estimator
//	pool/    — the worker-pool handle behind all parallelism
//	network/ — the sparse result matrix viewed as an association graph
//
// Quick start:
//
//	src, _ := dataset.ReadCSV(f)
//	res, err := secom.Run([]secom.Input{{Source: src}}, secom.DefaultOptions())
//	if err != nil { ... }
//	// res.Sparse is the thresholded taxon × taxon dependence matrix.
//
// Results are deterministic for a fixed Options.Seed, worker count included.
package secom
