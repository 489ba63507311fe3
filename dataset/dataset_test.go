package dataset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Smendero/secom/dataset"
	"github.com/Smendero/secom/matrix"
)

func memSource(t *testing.T) *dataset.Mem {
	t.Helper()
	counts, err := matrix.NewDense([]string{"OTU1", "OTU2"}, []string{"s1", "s2"})
	require.NoError(t, err)
	require.NoError(t, counts.SetRow(0, []float64{1, 2}))
	require.NoError(t, counts.SetRow(1, []float64{3, 4}))

	return &dataset.Mem{
		Assays:  map[string]*matrix.Dense{"counts": counts},
		Primary: "counts",
		Levels:  []string{"Phylum", "Genus", "Species"},
	}
}

// TestNew_ResolvesDefaults verifies assay fallback and finest-level fallback.
func TestNew_ResolvesDefaults(t *testing.T) {
	tbl, level, err := dataset.New(memSource(t), "gut", "", "")
	require.NoError(t, err)
	assert.Equal(t, "gut", tbl.Name)
	assert.Equal(t, "Species", level, "unset level must fall back to the finest available")
	assert.Equal(t, "Species", tbl.Level)
	assert.Equal(t, 2, tbl.Counts.Rows())
}

// TestNew_ExplicitLevel verifies that a provided level is honored and an
// unavailable one is rejected.
func TestNew_ExplicitLevel(t *testing.T) {
	_, level, err := dataset.New(memSource(t), "gut", "counts", "Genus")
	require.NoError(t, err)
	assert.Equal(t, "Genus", level)

	_, _, err = dataset.New(memSource(t), "gut", "counts", "Kingdom")
	assert.ErrorIs(t, err, dataset.ErrUnknownTaxLevel)
}

// TestNew_UnknownAssay verifies the unknown-assay failure mode and the
// nil-source guard.
func TestNew_UnknownAssay(t *testing.T) {
	_, _, err := dataset.New(memSource(t), "gut", "relabund", "")
	assert.ErrorIs(t, err, dataset.ErrUnknownAssay)

	_, _, err = dataset.New(nil, "gut", "", "")
	assert.ErrorIs(t, err, dataset.ErrNilSource)
}

// TestNew_CountsAreCopied verifies the read-only input contract: mutating the
// handle must not touch the source container.
func TestNew_CountsAreCopied(t *testing.T) {
	src := memSource(t)
	tbl, _, err := dataset.New(src, "gut", "", "")
	require.NoError(t, err)

	require.NoError(t, tbl.Counts.Set(0, 0, 999))
	orig, _ := src.Assay("counts")
	v, err := orig.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v, "source counts must be unaffected by handle mutation")
}

// TestReadCSV_RoundTrip parses a small table and checks labels and values.
func TestReadCSV_RoundTrip(t *testing.T) {
	in := "taxon,s1,s2,s3\nOTU1,1,0,2\nOTU2,5,6,7\n"
	src, err := dataset.ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	counts, ok := src.Assay(dataset.DefaultAssayName)
	require.True(t, ok)
	assert.Equal(t, []string{"OTU1", "OTU2"}, counts.RowLabels())
	assert.Equal(t, []string{"s1", "s2", "s3"}, counts.ColLabels())

	v, err := counts.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
}

// TestReadCSV_Malformed covers the structural failure modes.
func TestReadCSV_Malformed(t *testing.T) {
	_, err := dataset.ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, dataset.ErrEmptyCSV, "no header must error")

	_, err = dataset.ReadCSV(strings.NewReader("taxon\nOTU1\n"))
	assert.ErrorIs(t, err, dataset.ErrBadCSV, "header without samples must error")

	_, err = dataset.ReadCSV(strings.NewReader("taxon,s1\nOTU1,1,2\n"))
	assert.ErrorIs(t, err, dataset.ErrBadCSV, "ragged row must error")

	_, err = dataset.ReadCSV(strings.NewReader("taxon,s1\nOTU1,abc\n"))
	assert.ErrorIs(t, err, dataset.ErrBadCSV, "non-numeric cell must error")

	_, err = dataset.ReadCSV(strings.NewReader("taxon,s1\nOTU1,1\nOTU1,2\n"))
	assert.ErrorIs(t, err, matrix.ErrDuplicateLabel, "duplicate taxon id must error")
}
