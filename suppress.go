package secom

import (
	"fmt"
	"math"

	"github.com/Smendero/secom/depend"
	"github.com/Smendero/secom/matrix"
)

// suppress removes dependence entries that are likely artifacts of shared
// estimation bias: within each dataset's block, every pair of taxa that are
// BOTH strongly correlated with that dataset's bias vector is zeroed out.
//
// For each flagged pair (i, j), i ≠ j: Dependence and Sparse drop to 0 and
// the p-value is forced to 1 ("not significant"), symmetrically. The diagonal
// is exempt, and the co-occurrence matrix is never touched. Blocks are
// processed independently: a dataset's suspect set is computed from its own
// bias vector and abundance rows only, and taxon labels are globally unique,
// so there is no cross-dataset bleed.
//
// This is a conservative symmetric mask, not a statistical test: a taxon with
// near-zero biological variance can show spurious dependence with another
// such taxon purely because both track the same imperfectly-estimated bias
// term, which distance-style measures do not control for. No multiple-testing
// correction is applied to corrCut.
func suppress(res *depend.Result, blocks []block, corrCut float64) error {
	for _, b := range blocks {
		sus, err := suspects(b, corrCut)
		if err != nil {
			return err
		}
		for p := 0; p < len(sus); p++ {
			for q := p + 1; q < len(sus); q++ {
				i, ok := res.Dependence.RowIndex(sus[p])
				if !ok {
					return fmt.Errorf("secom: suppressor: taxon %q: %w", sus[p], matrix.ErrUnknownLabel)
				}
				j, ok := res.Dependence.RowIndex(sus[q])
				if !ok {
					return fmt.Errorf("secom: suppressor: taxon %q: %w", sus[q], matrix.ErrUnknownLabel)
				}
				for _, cell := range [][2]int{{i, j}, {j, i}} {
					if err := res.Dependence.Set(cell[0], cell[1], 0); err != nil {
						return fmt.Errorf("secom: suppressor: %w", err)
					}
					if err := res.Sparse.Set(cell[0], cell[1], 0); err != nil {
						return fmt.Errorf("secom: suppressor: %w", err)
					}
					if err := res.PValues.Set(cell[0], cell[1], 1); err != nil {
						return fmt.Errorf("secom: suppressor: %w", err)
					}
				}
			}
		}
	}

	return nil
}

// suspects flags the taxa of one block whose corrected abundance profile has
// |Pearson correlation| with the block's bias vector above corrCut. The
// correlation is pairwise-complete over the block's own samples; an undefined
// correlation (zero variance or too few joint observations) yields NaN and is
// treated as NOT exceeding the cutoff rather than crashing.
func suspects(b block, corrCut float64) ([]string, error) {
	taxa := b.est.Corrected.RowLabels()
	out := make([]string, 0, len(taxa))
	for ti, label := range taxa {
		row, err := b.est.Corrected.Row(ti)
		if err != nil {
			return nil, fmt.Errorf("secom: suppressor: %w", err)
		}
		r := matrix.PairwiseCorrelation(row, b.est.Bias)
		if !math.IsNaN(r) && math.Abs(r) > corrCut {
			out = append(out, label)
		}
	}

	return out, nil
}
