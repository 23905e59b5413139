package sdc

import (
	"errors"
	"fmt"
)

// Option errors.
var (
	ErrUnknownScheme = errors.New("unknown subdivision scheme")
	ErrUnknownOption = errors.New("unknown option value")
)

// VtxBoundaryInterpolation controls how boundary edges and corners are sharpened.
type VtxBoundaryInterpolation int

const (
	// VtxBoundaryNone leaves boundary edges smooth.
	VtxBoundaryNone VtxBoundaryInterpolation = iota
	// VtxBoundaryEdgeOnly makes boundary edges infinitely sharp.
	VtxBoundaryEdgeOnly
	// VtxBoundaryEdgeAndCorner also makes boundary vertices with a single face infinitely sharp.
	VtxBoundaryEdgeAndCorner
)

// FVarLinearInterpolation controls which face-varying values are treated as linear.
type FVarLinearInterpolation int

const (
	FVarLinearNone FVarLinearInterpolation = iota
	FVarLinearCornersOnly
	FVarLinearCornersPlus1
	FVarLinearCornersPlus2
	FVarLinearBoundaries
	FVarLinearAll
)

// CreasingMethod selects the rule used to subdivide semi-sharp edges.
type CreasingMethod int

const (
	// CreaseUniform decrements sharpness by one per level.
	CreaseUniform CreasingMethod = iota
	// CreaseChaikin blends sharpness with neighboring semi-sharp edges.
	CreaseChaikin
)

// Options is the scheme configuration bound to a refinement.
type Options struct {
	Scheme                   SchemeType
	VtxBoundaryInterpolation VtxBoundaryInterpolation
	FVarLinearInterpolation  FVarLinearInterpolation
	CreasingMethod           CreasingMethod
}

// DefaultOptions returns Catmark options with sharp boundary edges and corners.
func DefaultOptions() Options {
	return Options{
		Scheme:                   SchemeCatmark,
		VtxBoundaryInterpolation: VtxBoundaryEdgeAndCorner,
		FVarLinearInterpolation:  FVarLinearAll,
		CreasingMethod:           CreaseUniform,
	}
}

var vtxBoundaryNames = []string{"none", "edge_only", "edge_and_corner"}

var fvarLinearNames = []string{"none", "corners_only", "corners_plus1", "corners_plus2", "boundaries", "all"}

var creasingNames = []string{"uniform", "chaikin"}

func optionName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

func parseOption(names []string, name string, fallback int) (int, bool) {
	if name == "" {
		return fallback, true
	}
	for i, n := range names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// String returns the config name of the option.
func (v VtxBoundaryInterpolation) String() string { return optionName(vtxBoundaryNames, int(v)) }

// String returns the config name of the option.
func (v FVarLinearInterpolation) String() string { return optionName(fvarLinearNames, int(v)) }

// String returns the config name of the option.
func (c CreasingMethod) String() string { return optionName(creasingNames, int(c)) }

// ParseVtxBoundaryInterpolation converts a config string. An empty string
// selects the default.
func ParseVtxBoundaryInterpolation(name string) (VtxBoundaryInterpolation, error) {
	i, ok := parseOption(vtxBoundaryNames, name, int(VtxBoundaryEdgeAndCorner))
	if !ok {
		return 0, fmt.Errorf("%w: vtx boundary interpolation %q", ErrUnknownOption, name)
	}
	return VtxBoundaryInterpolation(i), nil
}

// ParseFVarLinearInterpolation converts a config string. An empty string
// selects the default.
func ParseFVarLinearInterpolation(name string) (FVarLinearInterpolation, error) {
	i, ok := parseOption(fvarLinearNames, name, int(FVarLinearAll))
	if !ok {
		return 0, fmt.Errorf("%w: fvar linear interpolation %q", ErrUnknownOption, name)
	}
	return FVarLinearInterpolation(i), nil
}

// ParseCreasingMethod converts a config string. An empty string selects the
// default.
func ParseCreasingMethod(name string) (CreasingMethod, error) {
	i, ok := parseOption(creasingNames, name, int(CreaseUniform))
	if !ok {
		return 0, fmt.Errorf("%w: creasing method %q", ErrUnknownOption, name)
	}
	return CreasingMethod(i), nil
}
