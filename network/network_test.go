package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Smendero/secom/matrix"
	"github.com/Smendero/secom/network"
)

// sparse3 builds a 3-taxa sparse matrix with one association (t1, t2).
func sparse3(t *testing.T) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewSquare([]string{"t1", "t2", "t3"})
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 1, 0.8))
	require.NoError(t, m.Set(1, 0, 0.8))

	return m
}

// TestFromSparse_Guards covers nil, non-square and asymmetric inputs.
func TestFromSparse_Guards(t *testing.T) {
	_, err := network.FromSparse(nil)
	assert.ErrorIs(t, err, network.ErrNilMatrix)

	rect, err := matrix.NewDense([]string{"t1"}, []string{"s1", "s2"})
	require.NoError(t, err)
	_, err = network.FromSparse(rect)
	assert.ErrorIs(t, err, network.ErrNotSquare)

	asym := sparse3(t)
	require.NoError(t, asym.Set(1, 0, 0.3))
	_, err = network.FromSparse(asym)
	assert.ErrorIs(t, err, network.ErrAsymmetric)
}

// TestGraph_Structure verifies vertices, edges, degrees and weights.
func TestGraph_Structure(t *testing.T) {
	g, err := network.FromSparse(sparse3(t))
	require.NoError(t, err)

	assert.Equal(t, 3, g.Order())
	assert.Equal(t, 1, g.Size())
	assert.Equal(t, []string{"t1", "t2", "t3"}, g.Taxa())

	d, err := g.Degree("t1")
	require.NoError(t, err)
	assert.Equal(t, 1, d)
	d, err = g.Degree("t3")
	require.NoError(t, err)
	assert.Equal(t, 0, d, "taxon without surviving scores is isolated")

	nbrs, err := g.Neighbors("t2")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, nbrs)

	w, err := g.Weight("t1", "t2")
	require.NoError(t, err)
	assert.Equal(t, 0.8, w)
	w, err = g.Weight("t1", "t3")
	require.NoError(t, err)
	assert.Equal(t, 0.0, w, "absent association weighs 0")

	_, err = g.Degree("nope")
	assert.ErrorIs(t, err, network.ErrUnknownTaxon)
}

// TestGraph_EdgesDeterministic verifies the stable (row, col) edge order.
func TestGraph_EdgesDeterministic(t *testing.T) {
	m, err := matrix.NewSquare([]string{"a", "b", "c"})
	require.NoError(t, err)
	for _, cell := range [][2]int{{0, 1}, {1, 0}, {0, 2}, {2, 0}, {1, 2}, {2, 1}} {
		require.NoError(t, m.Set(cell[0], cell[1], 0.5))
	}

	g, err := network.FromSparse(m)
	require.NoError(t, err)
	edges := g.Edges()
	require.Len(t, edges, 3)
	assert.Equal(t, network.Edge{A: "a", B: "b", Weight: 0.5}, edges[0])
	assert.Equal(t, network.Edge{A: "a", B: "c", Weight: 0.5}, edges[1])
	assert.Equal(t, network.Edge{A: "b", B: "c", Weight: 0.5}, edges[2])
}

// TestFromSparse_IgnoresDiagonal: diagonal entries never become self-loops.
func TestFromSparse_IgnoresDiagonal(t *testing.T) {
	m := sparse3(t)
	require.NoError(t, m.Set(0, 0, 1))
	require.NoError(t, m.Set(1, 1, 1))

	g, err := network.FromSparse(m)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Size(), "diagonal must not create edges")
}
