// Package secom: sentinel error set.
// Only configuration/input errors originate here; collaborator failures are
// wrapped and propagated unchanged, so callers can errors.Is-match both the
// sentinels below and the collaborator packages' own sentinels.

package secom

import "errors"

var (
	// ErrNoDatasets indicates an empty input list.
	ErrNoDatasets = errors.New("secom: no input datasets")

	// ErrTooFewCommonSamples indicates that fewer than MinCommonSamples
	// sample identifiers are shared by all datasets being combined. A
	// dependence estimate over so few shared observations would be
	// statistically meaningless, so the run is refused before any
	// estimation work starts.
	ErrTooFewCommonSamples = errors.New("secom: too few common samples across datasets")
)
