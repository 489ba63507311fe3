// Command secom runs the sparse bias-corrected dependence pipeline over one
// or more CSV count tables and writes the result matrices back out as CSV.
//
// Inputs come from a YAML run file (--config), from repeated --input
// name=path flags, or both; flags win on overlap.
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Smendero/secom"
	"github.com/Smendero/secom/dataset"
	"github.com/Smendero/secom/matrix"
	"github.com/Smendero/secom/network"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "secom:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		inputFlags []string
		workers    int
		outDir     string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "secom",
		Short: "Sparse bias-corrected dependence networks between microbial taxa",
		Long: "secom harmonizes one or more feature-by-sample count tables, corrects\n" +
			"per-sample measurement bias, estimates pairwise non-linear dependence with\n" +
			"permutation significance, suppresses bias-driven false positives, and\n" +
			"writes the resulting matrices as CSV.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			var cfg *config
			if configPath != "" {
				if cfg, err = loadConfig(configPath); err != nil {
					return err
				}
			}
			opts := cfg.options()
			if cmd.Flags().Changed("workers") {
				opts.Workers = workers
			}
			if outDir == "" {
				outDir = "."
				if cfg != nil && cfg.OutputDir != "" {
					outDir = cfg.OutputDir
				}
			}

			specs, err := inputSpecs(cfg, inputFlags)
			if err != nil {
				return err
			}
			if len(specs) == 0 {
				return fmt.Errorf("no datasets: provide --config or --input name=path")
			}

			inputs, err := loadDatasets(specs, logger)
			if err != nil {
				return err
			}

			logger.Info("running pipeline",
				zap.Int("datasets", len(inputs)),
				zap.Int("workers", opts.Workers),
				zap.Int("replicates", opts.Replicates))
			res, err := secom.Run(inputs, opts)
			if err != nil {
				return err
			}
			logger.Info("pipeline finished",
				zap.Int("taxa", res.Sparse.Rows()),
				zap.Int("samples", res.Corrected.Cols()))

			return writeResult(res, outDir, logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML run file")
	cmd.Flags().StringArrayVarP(&inputFlags, "input", "i", nil, "dataset as name=path/to/counts.csv (repeatable)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "worker count for the dependence pass")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default \".\")")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"

	return cfg.Build()
}

// inputSpecs merges config-file datasets with --input flags; a flag with the
// same name replaces the config entry.
func inputSpecs(cfg *config, flags []string) ([]datasetConfig, error) {
	var specs []datasetConfig
	if cfg != nil {
		specs = append(specs, cfg.Datasets...)
	}
	for _, f := range flags {
		name, path, ok := strings.Cut(f, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("bad --input %q, want name=path", f)
		}
		replaced := false
		for i := range specs {
			if specs[i].Name == name {
				specs[i].Path = path
				replaced = true
				break
			}
		}
		if !replaced {
			specs = append(specs, datasetConfig{Name: name, Path: path})
		}
	}

	return specs, nil
}

// loadDatasets parses every input CSV, fanning file reads out concurrently.
// Order is preserved: inputs[i] always corresponds to specs[i], whatever the
// completion order.
func loadDatasets(specs []datasetConfig, logger *zap.Logger) ([]secom.Input, error) {
	inputs := make([]secom.Input, len(specs))
	var g errgroup.Group
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			f, err := os.Open(spec.Path)
			if err != nil {
				return fmt.Errorf("dataset %s: %w", spec.Name, err)
			}
			defer func() { _ = f.Close() }()

			src, err := dataset.ReadCSV(f)
			if err != nil {
				return fmt.Errorf("dataset %s (%s): %w", spec.Name, spec.Path, err)
			}
			counts, _ := src.Assay(dataset.DefaultAssayName)
			logger.Info("loaded dataset",
				zap.String("name", spec.Name),
				zap.Int("taxa", counts.Rows()),
				zap.Int("samples", counts.Cols()))
			inputs[i] = secom.Input{
				Source:   src,
				Name:     spec.Name,
				Assay:    spec.Assay,
				TaxLevel: spec.TaxLevel,
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return inputs, nil
}

// writeResult emits one CSV per result matrix plus the bias vectors.
func writeResult(res *secom.Result, outDir string, logger *zap.Logger) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	files := []struct {
		name string
		m    *matrix.Dense
	}{
		{"corrected.csv", res.Corrected},
		{"cooccurrence.csv", res.Cooccur},
		{"dependence.csv", res.Dependence},
		{"pvalues.csv", res.PValues},
		{"sparse.csv", res.Sparse},
	}
	for _, f := range files {
		path := filepath.Join(outDir, f.name)
		if err := writeMatrixCSV(path, f.m); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
		logger.Info("wrote matrix", zap.String("path", path))
	}

	path := filepath.Join(outDir, "bias.csv")
	if err := writeBiasCSV(path, res.Bias); err != nil {
		return fmt.Errorf("write bias.csv: %w", err)
	}
	logger.Info("wrote bias vectors", zap.String("path", path))

	g, err := network.FromSparse(res.Sparse)
	if err != nil {
		return fmt.Errorf("build association graph: %w", err)
	}
	path = filepath.Join(outDir, "edges.csv")
	if err := writeEdgesCSV(path, g); err != nil {
		return fmt.Errorf("write edges.csv: %w", err)
	}
	logger.Info("wrote association edges",
		zap.String("path", path), zap.Int("edges", g.Size()))

	return nil
}

// writeEdgesCSV emits the association graph as one edge per row.
func writeEdgesCSV(path string, g *network.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"taxon_a", "taxon_b", "dependence"}); err != nil {
		return err
	}
	for _, e := range g.Edges() {
		rec := []string{e.A, e.B, strconv.FormatFloat(e.Weight, 'g', -1, 64)}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()

	return w.Error()
}

func writeMatrixCSV(path string, m *matrix.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	cols := m.ColLabels()
	writeErr := w.Write(append([]string{"taxon"}, cols...))
	rec := make([]string, len(cols)+1)
	for i, label := range m.RowLabels() {
		if writeErr != nil {
			break
		}
		rec[0] = label
		for j := range cols {
			v, err := m.At(i, j)
			if err != nil {
				writeErr = err
				break
			}
			if matrix.IsNaN(v) {
				rec[j+1] = "NA"
			} else {
				rec[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if writeErr == nil {
			writeErr = w.Write(rec)
		}
	}
	w.Flush()
	if writeErr == nil {
		writeErr = w.Error()
	}
	if writeErr != nil {
		_ = f.Close()
		return writeErr
	}

	return f.Close()
}

func writeBiasCSV(path string, vectors []secom.BiasVector) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"dataset", "sample", "bias"}); err != nil {
		return err
	}
	for _, vec := range vectors {
		for k, sample := range vec.Samples {
			rec := []string{vec.Dataset, sample, strconv.FormatFloat(vec.Values[k], 'g', -1, 64)}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	w.Flush()

	return w.Error()
}
