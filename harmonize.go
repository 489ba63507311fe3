package secom

import (
	"fmt"

	"github.com/Smendero/secom/bias"
	"github.com/Smendero/secom/dataset"
	"github.com/Smendero/secom/matrix"
)

// MinCommonSamples is the smallest number of sample identifiers that must be
// shared by every dataset in a multi-dataset run. Below it the combination
// is refused outright (ErrTooFewCommonSamples).
const MinCommonSamples = 10

// taxonPrefixSep joins the dataset name and the taxon identifier when taxa
// are disambiguated across datasets.
const taxonPrefixSep = " - "

// block is the per-dataset share of the combined matrix: the (prefixed)
// taxon labels it contributed, and its own bias estimate over its own
// surviving samples. The suppressor works block by block, so suppression
// from one dataset never bleeds into another's taxa.
type block struct {
	name string
	est  *bias.Estimate
}

// harmonized is the output of the harmonization stage.
type harmonized struct {
	combined *matrix.Dense
	blocks   []block
}

// harmonize aligns the input datasets and produces the combined
// bias-corrected matrix plus one bias vector per dataset.
//
// Single dataset: delegate straight to the bias estimator, with no renaming
// and no sample restriction.
//
// Multiple datasets, in order:
//  1. auto-name unnamed inputs positionally (data1, data2, …);
//  2. intersect raw sample identifiers; refuse the run if fewer than
//     MinCommonSamples remain;
//  3. prefix every taxon with "<name> - " for global uniqueness;
//  4. run the bias estimator once per dataset, sequentially, in input order;
//  5. re-check the common set against the samples that survived each
//     estimator's filtering, then row-bind the per-dataset corrected
//     matrices restricted to that set.
func harmonize(inputs []Input, opts Options) (*harmonized, error) {
	if len(inputs) == 0 {
		return nil, ErrNoDatasets
	}
	estimator := opts.BiasEstimator
	if estimator == nil {
		estimator = bias.LogScale{}
	}

	// Normalize every input into a dataset handle, auto-naming as we go.
	tables := make([]*dataset.Table, len(inputs))
	for d, in := range inputs {
		name := in.Name
		if name == "" {
			name = fmt.Sprintf("data%d", d+1)
		}
		tbl, _, err := dataset.New(in.Source, name, in.Assay, in.TaxLevel)
		if err != nil {
			return nil, fmt.Errorf("secom: dataset %d: %w", d+1, err)
		}
		tables[d] = tbl
	}

	if len(tables) == 1 {
		est, err := estimator.Estimate(tables[0], opts.Bias)
		if err != nil {
			return nil, fmt.Errorf("secom: bias estimation (%s): %w", tables[0].Name, err)
		}

		return &harmonized{
			combined: est.Corrected,
			blocks:   []block{{name: tables[0].Name, est: est}},
		}, nil
	}

	// Common samples, order anchored on the first dataset.
	common := commonSamples(tables)
	if len(common) < MinCommonSamples {
		return nil, fmt.Errorf("secom: %d common samples, need %d: %w",
			len(common), MinCommonSamples, ErrTooFewCommonSamples)
	}

	// Prefix taxa, then estimate bias per dataset sequentially.
	blocks := make([]block, len(tables))
	for d, tbl := range tables {
		prefixed, err := matrix.PrefixRows(tbl.Counts, tbl.Name+taxonPrefixSep)
		if err != nil {
			return nil, fmt.Errorf("secom: dataset %s: %w", tbl.Name, err)
		}
		tbl.Counts = prefixed

		est, err := estimator.Estimate(tbl, opts.Bias)
		if err != nil {
			return nil, fmt.Errorf("secom: bias estimation (%s): %w", tbl.Name, err)
		}
		blocks[d] = block{name: tbl.Name, est: est}
	}

	// The estimator may have dropped shallow samples; the combined matrix can
	// only carry common samples every corrected block still has.
	kept := make([]string, 0, len(common))
	for _, s := range common {
		inAll := true
		for _, b := range blocks {
			if _, ok := b.est.Corrected.ColIndex(s); !ok {
				inAll = false
				break
			}
		}
		if inAll {
			kept = append(kept, s)
		}
	}
	if len(kept) < MinCommonSamples {
		return nil, fmt.Errorf("secom: %d common samples left after filtering, need %d: %w",
			len(kept), MinCommonSamples, ErrTooFewCommonSamples)
	}

	parts := make([]*matrix.Dense, len(blocks))
	for d, b := range blocks {
		part, err := matrix.SelectCols(b.est.Corrected, kept)
		if err != nil {
			return nil, fmt.Errorf("secom: dataset %s: %w", b.name, err)
		}
		parts[d] = part
	}
	combined, err := matrix.RowBind(parts...)
	if err != nil {
		return nil, fmt.Errorf("secom: combining datasets: %w", err)
	}

	return &harmonized{combined: combined, blocks: blocks}, nil
}

// commonSamples intersects the sample identifiers of all tables, preserving
// the first table's column order.
func commonSamples(tables []*dataset.Table) []string {
	first := tables[0].Counts.ColLabels()
	out := make([]string, 0, len(first))
	for _, s := range first {
		inAll := true
		for _, tbl := range tables[1:] {
			if _, ok := tbl.Counts.ColIndex(s); !ok {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, s)
		}
	}

	return out
}
