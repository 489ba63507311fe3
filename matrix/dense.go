// SPDX-License-Identifier: MIT
// Package matrix provides the labeled dense primitive used across the module.
// Dense is a row-major feature-by-sample matrix of float64 values with unique
// string labels on both axes, storing elements in a flat slice for performance
// and cache friendliness. NaN is the missing-value marker: a cell that was
// never observed (e.g. a taxon absent from one dataset after row-binding)
// holds NaN and is skipped by the statistical kernels in stats.go.
package matrix

import "math"

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opNewDense   = "NewDense"
	opAt         = "At"
	opSet        = "Set"
	opRow        = "Row"
	opRowOf      = "RowOf"
	opSetRow     = "SetRow"
	opSelectCols = "SelectCols"
	opRowBind    = "RowBind"
	opTranspose  = "Transpose"
)

// Dense is a row-major labeled matrix of float64 values.
// rows/cols hold the axis labels in storage order; rowIdx/colIdx are the
// reverse lookups. data holds len(rows)*len(cols) elements row-major.
type Dense struct {
	rows   []string
	cols   []string
	rowIdx map[string]int
	colIdx map[string]int
	data   []float64
}

// indexLabels builds the label→position lookup for one axis.
// Returns ErrDuplicateLabel on any repeated label.
func indexLabels(labels []string) (map[string]int, error) {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, dup := idx[l]; dup {
			return nil, ErrDuplicateLabel
		}
		idx[l] = i
	}

	return idx, nil
}

// NewDense creates a zero-initialized Dense with the given row and column
// labels. Labels are copied; both axes must be non-empty and duplicate-free.
// Complexity: O(r*c) time and memory.
func NewDense(rowLabels, colLabels []string) (*Dense, error) {
	// Stage 1 (Validate): both axes must carry at least one label.
	if len(rowLabels) == 0 || len(colLabels) == 0 {
		return nil, matrixErrorf(opNewDense, ErrBadShape)
	}

	// Stage 2 (Index): build reverse lookups, rejecting duplicates per axis.
	ri, err := indexLabels(rowLabels)
	if err != nil {
		return nil, matrixErrorf(opNewDense, err)
	}
	ci, err := indexLabels(colLabels)
	if err != nil {
		return nil, matrixErrorf(opNewDense, err)
	}

	// Stage 3 (Allocate): copy labels, allocate the flat backing slice.
	rows := make([]string, len(rowLabels))
	copy(rows, rowLabels)
	cols := make([]string, len(colLabels))
	copy(cols, colLabels)

	return &Dense{
		rows:   rows,
		cols:   cols,
		rowIdx: ri,
		colIdx: ci,
		data:   make([]float64, len(rows)*len(cols)),
	}, nil
}

// NewSquare creates a zero-initialized square Dense with the same labels on
// both axes. Convenience constructor for feature-by-feature score matrices.
func NewSquare(labels []string) (*Dense, error) {
	return NewDense(labels, labels)
}

// Rows returns the number of rows. Complexity: O(1).
func (m *Dense) Rows() int { return len(m.rows) }

// Cols returns the number of columns. Complexity: O(1).
func (m *Dense) Cols() int { return len(m.cols) }

// RowLabels returns a copy of the row labels in storage order.
func (m *Dense) RowLabels() []string {
	out := make([]string, len(m.rows))
	copy(out, m.rows)

	return out
}

// ColLabels returns a copy of the column labels in storage order.
func (m *Dense) ColLabels() []string {
	out := make([]string, len(m.cols))
	copy(out, m.cols)

	return out
}

// RowIndex returns the storage position of the given row label, or
// (-1, false) when the label is unknown.
func (m *Dense) RowIndex(label string) (int, bool) {
	i, ok := m.rowIdx[label]
	if !ok {
		return -1, false
	}

	return i, true
}

// ColIndex returns the storage position of the given column label, or
// (-1, false) when the label is unknown.
func (m *Dense) ColIndex(label string) (int, bool) {
	j, ok := m.colIdx[label]
	if !ok {
		return -1, false
	}

	return j, true
}

// offset computes the flat index for (row, col) or returns ErrOutOfRange.
// Complexity: O(1).
func (m *Dense) offset(row, col int) (int, error) {
	if row < 0 || row >= len(m.rows) {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= len(m.cols) {
		return 0, ErrOutOfRange
	}

	return row*len(m.cols) + col, nil
}

// At retrieves the element at (row, col). Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.offset(row, col)
	if err != nil {
		return 0, matrixErrorf(opAt, err)
	}

	return m.data[idx], nil
}

// Set assigns value v at (row, col). NaN is legal (missing marker).
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.offset(row, col)
	if err != nil {
		return matrixErrorf(opSet, err)
	}
	m.data[idx] = v

	return nil
}

// Row returns a copy of row i. Complexity: O(c).
func (m *Dense) Row(i int) ([]float64, error) {
	if i < 0 || i >= len(m.rows) {
		return nil, matrixErrorf(opRow, ErrOutOfRange)
	}
	out := make([]float64, len(m.cols))
	copy(out, m.data[i*len(m.cols):(i+1)*len(m.cols)])

	return out, nil
}

// RowOf returns a copy of the row with the given label.
func (m *Dense) RowOf(label string) ([]float64, error) {
	i, ok := m.rowIdx[label]
	if !ok {
		return nil, matrixErrorf(opRowOf, ErrUnknownLabel)
	}

	return m.Row(i)
}

// SetRow overwrites row i with vals (len(vals) must equal Cols()).
// Complexity: O(c).
func (m *Dense) SetRow(i int, vals []float64) error {
	if i < 0 || i >= len(m.rows) {
		return matrixErrorf(opSetRow, ErrOutOfRange)
	}
	if len(vals) != len(m.cols) {
		return matrixErrorf(opSetRow, ErrDimensionMismatch)
	}
	copy(m.data[i*len(m.cols):(i+1)*len(m.cols)], vals)

	return nil
}

// Fill sets every element to v. Handy to initialize a matrix to NaN before
// partial population. Complexity: O(r*c).
func (m *Dense) Fill(v float64) {
	for i := range m.data {
		m.data[i] = v
	}
}

// Clone returns a deep structural copy of m (labels and data).
// Complexity: O(r*c).
func (m *Dense) Clone() *Dense {
	out := &Dense{
		rows:   make([]string, len(m.rows)),
		cols:   make([]string, len(m.cols)),
		rowIdx: make(map[string]int, len(m.rowIdx)),
		colIdx: make(map[string]int, len(m.colIdx)),
		data:   make([]float64, len(m.data)),
	}
	copy(out.rows, m.rows)
	copy(out.cols, m.cols)
	copy(out.data, m.data)
	for k, v := range m.rowIdx {
		out.rowIdx[k] = v
	}
	for k, v := range m.colIdx {
		out.colIdx[k] = v
	}

	return out
}

// IsSquare reports whether the matrix is square with identical labels on both
// axes in identical order.
func (m *Dense) IsSquare() bool {
	if len(m.rows) != len(m.cols) {
		return false
	}
	for i := range m.rows {
		if m.rows[i] != m.cols[i] {
			return false
		}
	}

	return true
}

// Transpose returns a new Dense with axes swapped (labels travel with their
// axis). Deterministic i→j traversal. Complexity: O(r*c).
func Transpose(m *Dense) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opTranspose, ErrNilMatrix)
	}
	out, err := NewDense(m.cols, m.rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	r, c := len(m.rows), len(m.cols)
	for i := 0; i < r; i++ {
		base := i * c
		for j := 0; j < c; j++ {
			out.data[j*r+i] = m.data[base+j]
		}
	}

	return out, nil
}

// SelectCols returns a new Dense restricted to the given column labels, in the
// given order. Every requested label must exist. Complexity: O(r*k).
func SelectCols(m *Dense, labels []string) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opSelectCols, ErrNilMatrix)
	}
	src := make([]int, len(labels))
	for j, l := range labels {
		p, ok := m.colIdx[l]
		if !ok {
			return nil, matrixErrorf(opSelectCols, ErrUnknownLabel)
		}
		src[j] = p
	}
	out, err := NewDense(m.rows, labels)
	if err != nil {
		return nil, matrixErrorf(opSelectCols, err)
	}
	c := len(m.cols)
	for i := range m.rows {
		base := i * c
		outBase := i * len(labels)
		for j, p := range src {
			out.data[outBase+j] = m.data[base+p]
		}
	}

	return out, nil
}

// RowBind stacks the blocks vertically into one matrix. All blocks must share
// the identical column-label sequence; row labels must stay unique across
// blocks (ErrDuplicateLabel otherwise). Rows keep block order, so the combined
// matrix decomposes back into contiguous per-block slices.
// Complexity: O(total_rows * c).
func RowBind(blocks ...*Dense) (*Dense, error) {
	if len(blocks) == 0 {
		return nil, matrixErrorf(opRowBind, ErrBadShape)
	}
	for _, b := range blocks {
		if b == nil {
			return nil, matrixErrorf(opRowBind, ErrNilMatrix)
		}
	}

	// Column axes must agree exactly (same labels, same order).
	ref := blocks[0].cols
	total := 0
	for _, b := range blocks {
		if len(b.cols) != len(ref) {
			return nil, matrixErrorf(opRowBind, ErrDimensionMismatch)
		}
		for j := range ref {
			if b.cols[j] != ref[j] {
				return nil, matrixErrorf(opRowBind, ErrDimensionMismatch)
			}
		}
		total += len(b.rows)
	}

	rows := make([]string, 0, total)
	for _, b := range blocks {
		rows = append(rows, b.rows...)
	}
	out, err := NewDense(rows, ref) // duplicate row labels rejected here
	if err != nil {
		return nil, matrixErrorf(opRowBind, err)
	}
	off := 0
	for _, b := range blocks {
		copy(out.data[off:off+len(b.data)], b.data)
		off += len(b.data)
	}

	return out, nil
}

// IsNaN reports whether v is the missing-value marker. Thin readability alias
// around math.IsNaN for call sites that talk about "missing", not "NaN".
func IsNaN(v float64) bool { return math.IsNaN(v) }
