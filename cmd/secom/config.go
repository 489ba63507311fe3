package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Smendero/secom"
)

// datasetConfig names one input CSV table.
type datasetConfig struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	Assay    string `yaml:"assay"`
	TaxLevel string `yaml:"tax_level"`
}

// config mirrors the YAML run file. Pointer fields distinguish "absent" from
// "explicit zero" so unset values fall back to the library defaults.
type config struct {
	Datasets []datasetConfig `yaml:"datasets"`

	PseudoCount   *float64 `yaml:"pseudo_count"`
	PrevalenceCut *float64 `yaml:"prevalence_cut"`
	LibSizeCut    *float64 `yaml:"lib_size_cut"`

	CorrCut       *float64 `yaml:"corr_cut"`
	WinsorLo      *float64 `yaml:"winsor_lo"`
	WinsorHi      *float64 `yaml:"winsor_hi"`
	Replicates    *int     `yaml:"replicates"`
	HardThreshold *float64 `yaml:"hard_threshold"`
	MaxP          *float64 `yaml:"max_p"`
	Workers       *int     `yaml:"workers"`
	Seed          *int64   `yaml:"seed"`

	OutputDir string `yaml:"output_dir"`
}

// loadConfig reads and parses a YAML run file.
func loadConfig(path string) (*config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &c, nil
}

// options translates the config into library options, starting from the
// documented defaults and overriding only what the file sets.
func (c *config) options() secom.Options {
	opts := secom.DefaultOptions()
	if c == nil {
		return opts
	}
	if c.PseudoCount != nil {
		opts.Bias.PseudoCount = *c.PseudoCount
	}
	if c.PrevalenceCut != nil {
		opts.Bias.PrevalenceCut = *c.PrevalenceCut
	}
	if c.LibSizeCut != nil {
		opts.Bias.LibSizeCut = *c.LibSizeCut
	}
	if c.CorrCut != nil {
		opts.CorrCut = *c.CorrCut
	}
	if c.WinsorLo != nil {
		opts.WinsorLo = *c.WinsorLo
	}
	if c.WinsorHi != nil {
		opts.WinsorHi = *c.WinsorHi
	}
	if c.Replicates != nil {
		opts.Replicates = *c.Replicates
	}
	if c.HardThreshold != nil {
		opts.HardThreshold = *c.HardThreshold
	}
	if c.MaxP != nil {
		opts.MaxP = *c.MaxP
	}
	if c.Workers != nil {
		opts.Workers = *c.Workers
	}
	if c.Seed != nil {
		opts.Seed = *c.Seed
	}

	return opts
}
