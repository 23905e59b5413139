// Package vtr implements one level of topological refinement of a
// subdivision mesh: the parent/child index mappings, sparse selection,
// tag propagation, the six child relations, sharpness subdivision and
// face-varying channel refinement.
package vtr

// Index identifies a face, edge, vertex or face-varying value within a Level.
type Index = int

// InvalidIndex marks a missing component, e.g. the child of a parent
// component that did not take part in a sparse refinement.
const InvalidIndex Index = -1

// IndexIsValid reports whether i refers to a component.
func IndexIsValid(i Index) bool { return i >= 0 }

// IndexArray is a view over a run of indices owned by a Level or a
// Refinement. Views are capped to their run so an append can never write
// into a neighboring run.
type IndexArray []Index

// ConstIndexArray is an IndexArray the caller must not modify.
type ConstIndexArray = IndexArray

// FindIndex returns the position of v in the array, or -1.
func (a IndexArray) FindIndex(v Index) int {
	for i, x := range a {
		if x == v {
			return i
		}
	}
	return -1
}

// ComponentType is the kind of a mesh component.
type ComponentType uint8

const (
	ComponentVertex ComponentType = iota
	ComponentEdge
	ComponentFace
)

// String returns the component kind name.
func (c ComponentType) String() string {
	switch c {
	case ComponentVertex:
		return "vertex"
	case ComponentEdge:
		return "edge"
	case ComponentFace:
		return "face"
	default:
		return "unknown"
	}
}

// countsAndOffsetsView returns the run of indices for component i described
// by a [count, offset] pair table, or nil when i or the run is out of range.
func countsAndOffsetsView(countsAndOffsets []Index, indices []Index, i Index) IndexArray {
	if i < 0 || 2*i+1 >= len(countsAndOffsets) {
		return nil
	}
	count, offset := countsAndOffsets[2*i], countsAndOffsets[2*i+1]
	if offset < 0 || offset+count > len(indices) {
		return nil
	}
	return IndexArray(indices[offset : offset+count : offset+count])
}

func fixedView(indices []Index, i Index, size int) IndexArray {
	if i < 0 || size*(i+1) > len(indices) {
		return nil
	}
	return IndexArray(indices[size*i : size*(i+1) : size*(i+1)])
}

func indexAt(indices []Index, i Index) Index {
	if i < 0 || i >= len(indices) {
		return InvalidIndex
	}
	return indices[i]
}

func filledIndices(n int, value Index) []Index {
	v := make([]Index, n)
	if value != 0 {
		for i := range v {
			v[i] = value
		}
	}
	return v
}
