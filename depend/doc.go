// Package depend estimates a sparse matrix of pairwise dependence scores
// between taxa, with permutation-based significance.
//
// 🚀 What is distance correlation?
//
//	Pearson correlation only sees linear relationships. Distance correlation
//	(dCor) is a bounded, non-negative statistic that is zero exactly when two
//	variables are independent, so it also catches monotone and non-linear
//	coupling, the kind microbial interactions tend to produce.
//
// ✨ What the estimator does, per taxon pair:
//   - restrict to jointly observed samples (NaN = missing)
//   - winsorize each taxon profile to a quantile pair (outlier protection)
//   - compute dCor from double-centered pairwise-distance matrices
//   - attach a permutation p-value (Replicates shuffles, seeded per pair,
//     so results are bit-identical regardless of worker scheduling)
//   - sparsify: zero scores at or below the hard threshold, then zero
//     scores whose p-value exceeds the max-p cutoff
//
// The pair loop fans out across the pool.Runner passed in Options; a nil or
// sequential runner keeps everything on the calling goroutine.
//
// Performance: O(n²) per pair per replicate on n joint samples. The
// permutation loop dominates, which is exactly what the worker pool is for.
package depend
