// SPDX-License-Identifier: MIT

package matrix

const opPrefixRows = "PrefixRows"

// PrefixRows returns a copy of m with every row label prefixed by the given
// string. Used to disambiguate taxon identities when several datasets are
// stacked into one matrix. Data is copied unchanged. Complexity: O(r*c).
func PrefixRows(m *Dense, prefix string) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opPrefixRows, ErrNilMatrix)
	}
	rows := make([]string, len(m.rows))
	for i, l := range m.rows {
		rows[i] = prefix + l
	}
	out, err := NewDense(rows, m.cols)
	if err != nil {
		return nil, matrixErrorf(opPrefixRows, err)
	}
	copy(out.data, m.data)

	return out, nil
}
