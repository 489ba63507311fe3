// Package matrix implements the labeled dense float64 matrix shared by every
// layer of the module, plus the small statistical kernels built on it.
//
// 🚀 What lives here?
//
//	• Dense — row-major feature-by-sample matrix with unique string labels
//	  on both axes and NaN as the missing-value marker
//	• Shape surgery — Transpose, SelectCols, RowBind (label-safe stacking)
//	• Kernels — pairwise-complete Pearson correlation, quantiles, winsorization
//
// ✨ Design rules:
//   - Labels are first-class: every row is a taxon, every column a sample,
//     and duplicate labels on an axis are a construction-time error
//   - NaN means "never observed"; kernels skip it, they never crash on it
//   - Sentinel errors only (errors.Is-matchable); no panics on user input
//   - Deterministic traversal order everywhere; no hidden randomness
//
// See stats.go for the exact degenerate-input policy of each kernel.
package matrix
