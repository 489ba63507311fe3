package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Smendero/secom/matrix"
)

var (
	// ErrEmptyCSV indicates that the reader held no header row.
	ErrEmptyCSV = errors.New("dataset: empty csv")

	// ErrBadCSV indicates a structurally invalid table: a header without
	// sample columns, a row without a taxon identifier, or a non-numeric cell.
	ErrBadCSV = errors.New("dataset: malformed csv")
)

// DefaultAssayName is the assay under which CSV counts are registered.
const DefaultAssayName = "counts"

// ReadCSV parses a feature-by-sample count table and wraps it in a Mem source
// under the "counts" assay. Expected layout:
//
//	taxon,sampleA,sampleB,...
//	OTU1,13,0,...
//	OTU2,4,7,...
//
// The first header cell is ignored (conventionally "taxon" or empty); the
// remaining header cells are sample identifiers. Every data row starts with a
// taxon identifier followed by one numeric count per sample. Duplicate taxon
// or sample identifiers surface as matrix.ErrDuplicateLabel.
func ReadCSV(r io.Reader) (*Mem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows reported below with row context

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("dataset.ReadCSV: header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("dataset.ReadCSV: header needs at least one sample column: %w", ErrBadCSV)
	}
	samples := header[1:]

	var taxa []string
	var rows [][]float64
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset.ReadCSV: row %d: %w", len(taxa)+2, err)
		}
		if len(rec) != len(samples)+1 {
			return nil, fmt.Errorf("dataset.ReadCSV: row %d has %d fields, want %d: %w",
				len(taxa)+2, len(rec), len(samples)+1, ErrBadCSV)
		}
		if rec[0] == "" {
			return nil, fmt.Errorf("dataset.ReadCSV: row %d missing taxon id: %w", len(taxa)+2, ErrBadCSV)
		}
		vals := make([]float64, len(samples))
		for j, cell := range rec[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("dataset.ReadCSV: row %d col %d %q: %w",
					len(taxa)+2, j+2, cell, ErrBadCSV)
			}
			vals[j] = v
		}
		taxa = append(taxa, rec[0])
		rows = append(rows, vals)
	}
	if len(taxa) == 0 {
		return nil, fmt.Errorf("dataset.ReadCSV: no data rows: %w", ErrBadCSV)
	}

	counts, err := matrix.NewDense(taxa, samples)
	if err != nil {
		return nil, fmt.Errorf("dataset.ReadCSV: %w", err)
	}
	for i, vals := range rows {
		if err := counts.SetRow(i, vals); err != nil {
			return nil, fmt.Errorf("dataset.ReadCSV: %w", err)
		}
	}

	return &Mem{
		Assays:  map[string]*matrix.Dense{DefaultAssayName: counts},
		Primary: DefaultAssayName,
	}, nil
}
