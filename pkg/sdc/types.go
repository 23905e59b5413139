// Package sdc holds the subdivision scheme configuration consumed by the
// refinement engine: scheme type, split topology and creasing rules.
package sdc

import "fmt"

// SchemeType identifies a subdivision scheme.
type SchemeType int

const (
	SchemeBilinear SchemeType = iota
	SchemeCatmark
	SchemeLoop
)

// String returns the scheme name.
func (s SchemeType) String() string {
	switch s {
	case SchemeBilinear:
		return "bilinear"
	case SchemeCatmark:
		return "catmark"
	case SchemeLoop:
		return "loop"
	default:
		return fmt.Sprintf("scheme(%d)", int(s))
	}
}

// ParseSchemeType converts a scheme name to a SchemeType.
func ParseSchemeType(name string) (SchemeType, error) {
	switch name {
	case "bilinear":
		return SchemeBilinear, nil
	case "catmark", "catmull-clark":
		return SchemeCatmark, nil
	case "loop":
		return SchemeLoop, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
}

// Split is the topological split a scheme applies to each face.
type Split int

const (
	// SplitToQuads splits an N-sided face into N quads around a new face vertex.
	SplitToQuads Split = iota
	// SplitToTris splits a triangle into 4 triangles without a face vertex.
	SplitToTris
)

// String returns the split name.
func (s Split) String() string {
	if s == SplitToTris {
		return "tri"
	}
	return "quad"
}

// TopologicalSplitType returns the split used by the scheme.
func (s SchemeType) TopologicalSplitType() Split {
	if s == SchemeLoop {
		return SplitToTris
	}
	return SplitToQuads
}

// RegularFaceSize returns the number of sides of a regular face.
func (s SchemeType) RegularFaceSize() int {
	if s == SchemeLoop {
		return 3
	}
	return 4
}

// RegularVertexValence returns the valence of a regular interior vertex.
func (s SchemeType) RegularVertexValence() int {
	if s == SchemeLoop {
		return 6
	}
	return 4
}
