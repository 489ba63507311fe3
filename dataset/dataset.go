// Package dataset defines the normalized dataset handle consumed by the
// pipeline and the adapters that produce it from concrete container formats.
package dataset

import (
	"errors"
	"fmt"

	"github.com/Smendero/secom/matrix"
)

var (
	// ErrNilSource indicates that a nil Source was passed to New.
	ErrNilSource = errors.New("dataset: nil source")

	// ErrUnknownAssay indicates that the requested assay name does not exist
	// in the source and no default assay is available.
	ErrUnknownAssay = errors.New("dataset: unknown assay")

	// ErrUnknownTaxLevel indicates that the requested taxonomic level is not
	// provided by the source.
	ErrUnknownTaxLevel = errors.New("dataset: unknown taxonomic level")
)

// Source is the capability set a concrete container format must expose to
// participate in a run: a feature-by-sample count matrix per assay, plus
// optional taxonomy, sample metadata and phylogeny. Adapters (CSV here,
// others elsewhere) implement Source; the pipeline never sees the container
// format itself.
type Source interface {
	// Assay returns the named feature-by-sample count matrix, or false when
	// the name is unknown.
	Assay(name string) (*matrix.Dense, bool)

	// DefaultAssay names the assay used when the caller does not request one.
	DefaultAssay() string

	// TaxLevels lists the available taxonomic levels ordered coarse→fine.
	// Empty when the source carries no taxonomy.
	TaxLevels() []string

	// Metadata returns per-sample metadata (sample → key → value), or nil.
	Metadata() map[string]map[string]string

	// Phylogeny returns the phylogenetic tree in Newick form, or "".
	Phylogeny() string
}

// Table is the normalized in-memory dataset handle: read-only input for one
// run. Counts is a private copy of the source assay, so later relabeling or
// filtering never mutates the caller's container.
type Table struct {
	Name     string
	Level    string // taxonomic level the counts are expressed at
	Counts   *matrix.Dense
	Metadata map[string]map[string]string
	Tree     string // Newick, optional
}

// New builds a Table from a Source, resolving the assay and taxonomic level.
//
// Resolution rules:
//   - assay "" → Source.DefaultAssay(); an unknown name is ErrUnknownAssay.
//   - taxLevel "" → the finest available level (last of TaxLevels), or ""
//     when the source carries no taxonomy; a requested level that the source
//     does not provide is ErrUnknownTaxLevel.
//
// The resolved level is returned alongside the handle so callers can report
// what was actually used. Counts are deep-copied.
func New(src Source, name, assay, taxLevel string) (*Table, string, error) {
	if src == nil {
		return nil, "", ErrNilSource
	}

	if assay == "" {
		assay = src.DefaultAssay()
	}
	counts, ok := src.Assay(assay)
	if !ok || counts == nil {
		return nil, "", fmt.Errorf("dataset.New: assay %q: %w", assay, ErrUnknownAssay)
	}

	levels := src.TaxLevels()
	resolved := taxLevel
	if resolved == "" {
		if len(levels) > 0 {
			resolved = levels[len(levels)-1] // finest available
		}
	} else {
		found := false
		for _, l := range levels {
			if l == resolved {
				found = true
				break
			}
		}
		if !found {
			return nil, "", fmt.Errorf("dataset.New: level %q: %w", resolved, ErrUnknownTaxLevel)
		}
	}

	return &Table{
		Name:     name,
		Level:    resolved,
		Counts:   counts.Clone(),
		Metadata: src.Metadata(),
		Tree:     src.Phylogeny(),
	}, resolved, nil
}

// Mem is a plain in-memory Source. It is the adapter of last resort: tests
// and programmatic callers fill it directly, file adapters build one after
// parsing.
type Mem struct {
	Assays   map[string]*matrix.Dense
	Primary  string // DefaultAssay; falls back to the sole assay when unset
	Levels   []string
	Meta     map[string]map[string]string
	Newick   string
}

// Assay implements Source.
func (m *Mem) Assay(name string) (*matrix.Dense, bool) {
	a, ok := m.Assays[name]

	return a, ok
}

// DefaultAssay implements Source. When Primary is unset and exactly one assay
// exists, that assay is the default.
func (m *Mem) DefaultAssay() string {
	if m.Primary != "" {
		return m.Primary
	}
	if len(m.Assays) == 1 {
		for name := range m.Assays {
			return name
		}
	}

	return ""
}

// TaxLevels implements Source.
func (m *Mem) TaxLevels() []string { return m.Levels }

// Metadata implements Source.
func (m *Mem) Metadata() map[string]map[string]string { return m.Meta }

// Phylogeny implements Source.
func (m *Mem) Phylogeny() string { return m.Newick }
