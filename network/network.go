// Package network turns a sparsified dependence matrix into a taxa
// association graph for downstream analysis.
//
// The graph is undirected and weighted: taxa are vertices, and every
// strictly positive off-diagonal entry of the sparse matrix becomes one edge
// carrying the dependence score. The structure is immutable once built and
// safe for concurrent reads.
package network

import (
	"errors"
	"fmt"

	"github.com/Smendero/secom/matrix"
)

var (
	// ErrNilMatrix indicates a nil sparse matrix.
	ErrNilMatrix = errors.New("network: nil matrix")

	// ErrNotSquare indicates that the input is not a square taxon × taxon
	// matrix with matching labels on both axes.
	ErrNotSquare = errors.New("network: matrix is not square over taxa")

	// ErrAsymmetric indicates an entry whose mirror disagrees; a sparse
	// dependence matrix must be symmetric.
	ErrAsymmetric = errors.New("network: matrix is not symmetric")

	// ErrUnknownTaxon indicates a taxon label not present in the graph.
	ErrUnknownTaxon = errors.New("network: unknown taxon")
)

// Edge is one undirected association. A and B follow the matrix row order
// (A before B), so edge enumeration is deterministic.
type Edge struct {
	A, B   string
	Weight float64
}

// Graph is the immutable association graph.
type Graph struct {
	taxa  []string
	index map[string]int
	adj   [][]int   // neighbor row indices, ascending
	w     []float64 // flat n×n weights (0 = no edge)
}

// FromSparse builds the graph from a sparsified dependence matrix. The
// matrix must be square with identical labels on both axes and symmetric;
// the diagonal is ignored. NaN entries count as "no edge".
// Complexity: O(n²) time and memory.
func FromSparse(m *matrix.Dense) (*Graph, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	if !m.IsSquare() {
		return nil, ErrNotSquare
	}
	n := m.Rows()
	g := &Graph{
		taxa:  m.RowLabels(),
		index: make(map[string]int, n),
		adj:   make([][]int, n),
		w:     make([]float64, n*n),
	}
	for i, l := range g.taxa {
		g.index[l] = i
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("network.FromSparse: %w", err)
			}
			mirror, err := m.At(j, i)
			if err != nil {
				return nil, fmt.Errorf("network.FromSparse: %w", err)
			}
			if v != mirror && !(matrix.IsNaN(v) && matrix.IsNaN(mirror)) {
				return nil, fmt.Errorf("network.FromSparse: taxa %q/%q: %w",
					g.taxa[i], g.taxa[j], ErrAsymmetric)
			}
			if matrix.IsNaN(v) || v <= 0 {
				continue
			}
			g.w[i*n+j] = v
			g.w[j*n+i] = v
			g.adj[i] = append(g.adj[i], j)
			g.adj[j] = append(g.adj[j], i)
		}
	}

	return g, nil
}

// Order returns the number of taxa (vertices).
func (g *Graph) Order() int { return len(g.taxa) }

// Size returns the number of associations (edges).
func (g *Graph) Size() int {
	total := 0
	for _, nbrs := range g.adj {
		total += len(nbrs)
	}

	return total / 2
}

// Taxa returns the vertex labels in matrix row order.
func (g *Graph) Taxa() []string {
	out := make([]string, len(g.taxa))
	copy(out, g.taxa)

	return out
}

// Degree returns the number of associations of the given taxon.
func (g *Graph) Degree(taxon string) (int, error) {
	i, ok := g.index[taxon]
	if !ok {
		return 0, fmt.Errorf("network.Degree: %q: %w", taxon, ErrUnknownTaxon)
	}

	return len(g.adj[i]), nil
}

// Neighbors returns the taxa associated with the given taxon, in matrix row
// order.
func (g *Graph) Neighbors(taxon string) ([]string, error) {
	i, ok := g.index[taxon]
	if !ok {
		return nil, fmt.Errorf("network.Neighbors: %q: %w", taxon, ErrUnknownTaxon)
	}
	out := make([]string, len(g.adj[i]))
	for k, j := range g.adj[i] {
		out[k] = g.taxa[j]
	}

	return out, nil
}

// Weight returns the dependence score of the association between two taxa,
// or 0 when they are not associated.
func (g *Graph) Weight(a, b string) (float64, error) {
	i, ok := g.index[a]
	if !ok {
		return 0, fmt.Errorf("network.Weight: %q: %w", a, ErrUnknownTaxon)
	}
	j, ok := g.index[b]
	if !ok {
		return 0, fmt.Errorf("network.Weight: %q: %w", b, ErrUnknownTaxon)
	}

	return g.w[i*len(g.taxa)+j], nil
}

// Edges enumerates every association exactly once, ordered by (row, col) of
// the source matrix. The order is stable and suitable for serialization.
func (g *Graph) Edges() []Edge {
	var out []Edge
	n := len(g.taxa)
	for i := 0; i < n; i++ {
		for _, j := range g.adj[i] {
			if j <= i {
				continue
			}
			out = append(out, Edge{A: g.taxa[i], B: g.taxa[j], Weight: g.w[i*n+j]})
		}
	}

	return out
}
