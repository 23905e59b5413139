package vtr

import (
	"fmt"
	"runtime"

	"github.com/Faultbox/subdiv/pkg/sdc"
)

// SparseTag records the selection state of a parent component.
type SparseTag struct {
	// Selected is set by a SparseSelector for components chosen for refinement.
	Selected bool
	// Transitional has one bit per face edge (bits 0-3) marking the sides of a
	// face that border refined and unrefined regions. For an edge, a non-zero
	// value means exactly one end of the edge spawned a child edge.
	Transitional uint8
}

// ChildTag records how a child component relates to its parent.
type ChildTag struct {
	// Incomplete marks a child whose neighborhood was truncated because its
	// parent was not itself selected.
	Incomplete bool
	// ParentType is the kind of the parent component.
	ParentType ComponentType
	// IndexInParent is the position of the child in its parent's child list.
	IndexInParent int
}

// Relations selects which of the six child relations are populated.
type Relations uint8

const (
	RelationFaceVertices Relations = 1 << iota
	RelationFaceEdges
	RelationEdgeVertices
	RelationEdgeFaces
	RelationVertexFaces
	RelationVertexEdges

	RelationsAll = RelationFaceVertices | RelationFaceEdges | RelationEdgeVertices |
		RelationEdgeFaces | RelationVertexFaces | RelationVertexEdges
)

// Has reports whether every relation in r2 is selected.
func (r Relations) Has(r2 Relations) bool { return r&r2 == r2 }

// Options control a single Refine pass.
type Options struct {
	// Sparse refines only selected components and their neighborhood.
	Sparse bool
	// FaceTopologyOnly populates only the face-vertex relation of the child.
	FaceTopologyOnly bool
	// Relations restricts the child relations populated. Zero means all.
	// Ignored when FaceTopologyOnly is set.
	Relations Relations
}

func (o Options) relations() Relations {
	switch {
	case o.FaceTopologyOnly:
		return RelationFaceVertices
	case o.Relations == 0:
		return RelationsAll
	default:
		return o.Relations
	}
}

// Refinement maps a parent level to the child level refined from it. It
// owns the parent-to-child and child-to-parent tables and the sparse
// selection tags; it writes only into the child level.
type Refinement struct {
	parent  *Level
	child   *Level
	options sdc.Options

	split       splitStrategy
	regFaceSize int

	uniform bool
	refined bool

	childFaceFromFaceCount int
	childEdgeFromFaceCount int
	childEdgeFromEdgeCount int
	childVertFromFaceCount int
	childVertFromEdgeCount int
	childVertFromVertCount int

	firstChildFaceFromFace Index
	firstChildEdgeFromFace Index
	firstChildEdgeFromEdge Index
	firstChildVertFromFace Index
	firstChildVertFromEdge Index
	firstChildVertFromVert Index

	// Parent-to-child mapping. The counts/offsets may alias the parent's own
	// face-vertex table and are never written through.
	faceChildFaceCountsAndOffsets []Index
	faceChildEdgeCountsAndOffsets []Index
	faceChildFaceIndices          []Index
	faceChildEdgeIndices          []Index
	faceChildVertIndex            []Index
	edgeChildEdgeIndices          []Index
	edgeChildVertIndex            []Index
	vertChildVertIndex            []Index

	// Child-to-parent mapping
	childFaceParentIndex   []Index
	childEdgeParentIndex   []Index
	childVertexParentIndex []Index
	childFaceTag           []ChildTag
	childEdgeTag           []ChildTag
	childVertexTag         []ChildTag

	// Sparse selection, allocated by a SparseSelector
	parentFaceTag   []SparseTag
	parentEdgeTag   []SparseTag
	parentVertexTag []SparseTag

	fvarChannels []*FVarRefinement
}

// NewRefinement binds a parent level, an empty child level and the scheme
// options. The split applied is determined by the scheme.
func NewRefinement(parent, child *Level, opts sdc.Options) (*Refinement, error) {
	if parent == nil || child == nil {
		return nil, ErrNilLevel
	}
	if parent == child {
		return nil, fmt.Errorf("%w: parent and child are the same level", ErrInvalidTopology)
	}

	r := &Refinement{
		parent:      parent,
		child:       child,
		options:     opts,
		regFaceSize: opts.Scheme.RegularFaceSize(),
		uniform:     true,
	}
	switch opts.Scheme.TopologicalSplitType() {
	case sdc.SplitToTris:
		r.split = triSplit{}
	default:
		r.split = quadSplit{}
	}
	return r, nil
}

// Parent returns the level being refined.
func (r *Refinement) Parent() *Level { return r.parent }

// Child returns the level being populated.
func (r *Refinement) Child() *Level { return r.child }

// SchemeOptions returns the scheme options bound at construction.
func (r *Refinement) SchemeOptions() sdc.Options { return r.options }

// SplitType returns the topological split applied.
func (r *Refinement) SplitType() sdc.Split { return r.split.splitType() }

// IsUniform reports whether the last Refine was uniform.
func (r *Refinement) IsUniform() bool { return r.uniform }

// Refine runs the refinement pipeline, populating the child level.
//
// Preconditions are checked eagerly: the parent must be a valid level with
// all six relations, the child must be empty and, for a tri split, every
// parent face must be a triangle. A sparse refinement requires a prior
// selection through a SparseSelector.
func (r *Refinement) Refine(opts Options) (err error) {
	if r.refined {
		return ErrAlreadyRefined
	}
	if err := r.checkPreconditions(opts); err != nil {
		return err
	}
	r.refined = true
	r.uniform = !opts.Sparse

	defer func() {
		if p := recover(); p != nil {
			rerr, ok := p.(runtime.Error)
			if !ok {
				panic(p)
			}
			err = fmt.Errorf("%w: %v", ErrInconsistentMapping, rerr)
		}
	}()

	relations := opts.relations()
	if r.parent.NumFVarChannels() > 0 {
		relations |= RelationFaceVertices | RelationVertexFaces
	}

	r.populateParentToChildMapping()
	r.initializeChildComponentCounts()
	r.populateChildToParentMapping()
	r.propagateComponentTags()
	r.subdivideTopology(relations)
	r.subdivideSharpnessValues()
	if r.parent.NumFVarChannels() > 0 {
		if err := r.subdivideFVarChannels(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Refinement) checkPreconditions(opts Options) error {
	p := r.parent
	if !r.child.IsEmpty() {
		return ErrChildNotEmpty
	}
	if !p.HasFaceVertices() || !p.HasFaceEdges() || !p.HasEdgeVertices() ||
		!p.HasEdgeFaces() || !p.HasVertexFaces() || !p.HasVertexEdges() {
		return fmt.Errorf("%w: parent level lacks full topology", ErrInvalidTopology)
	}
	if len(p.edgeTags) != p.edgeCount || len(p.vertTags) != p.vertCount || len(p.faceTags) != p.faceCount {
		return fmt.Errorf("%w: parent level tags are not sized", ErrInvalidTopology)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if r.split.splitType() == sdc.SplitToTris {
		for f := 0; f < p.faceCount; f++ {
			if n := p.NumFaceVertices(f); n != 3 {
				return fmt.Errorf("%w: face %d has %d vertices", ErrNonTriangularFace, f, n)
			}
		}
	}
	if opts.Sparse && !r.hasSparseTags() {
		return ErrEmptySelection
	}
	return nil
}

// hasSparseTags reports whether a selection was made. Every selection marks
// at least one vertex.
func (r *Refinement) hasSparseTags() bool {
	if len(r.parentFaceTag) != r.parent.faceCount ||
		len(r.parentEdgeTag) != r.parent.edgeCount ||
		len(r.parentVertexTag) != r.parent.vertCount {
		return false
	}
	for _, tag := range r.parentVertexTag {
		if tag.Selected {
			return true
		}
	}
	return false
}

//
// Inventory of child components by origin
//

// NumChildFacesFromFaces returns the number of child faces.
func (r *Refinement) NumChildFacesFromFaces() int { return r.childFaceFromFaceCount }

// NumChildEdgesFromFaces returns the number of child edges interior to parent faces.
func (r *Refinement) NumChildEdgesFromFaces() int { return r.childEdgeFromFaceCount }

// NumChildEdgesFromEdges returns the number of child edges that halve parent edges.
func (r *Refinement) NumChildEdgesFromEdges() int { return r.childEdgeFromEdgeCount }

// NumChildVerticesFromFaces returns the number of child vertices at parent face centers.
func (r *Refinement) NumChildVerticesFromFaces() int { return r.childVertFromFaceCount }

// NumChildVerticesFromEdges returns the number of child vertices at parent edge midpoints.
func (r *Refinement) NumChildVerticesFromEdges() int { return r.childVertFromEdgeCount }

// NumChildVerticesFromVertices returns the number of child vertices at parent vertices.
func (r *Refinement) NumChildVerticesFromVertices() int { return r.childVertFromVertCount }

// FirstChildFaceFromFaces returns the first child face index born from a face.
func (r *Refinement) FirstChildFaceFromFaces() Index { return r.firstChildFaceFromFace }

// FirstChildEdgeFromFaces returns the first child edge index born from a face.
func (r *Refinement) FirstChildEdgeFromFaces() Index { return r.firstChildEdgeFromFace }

// FirstChildEdgeFromEdges returns the first child edge index born from an edge.
func (r *Refinement) FirstChildEdgeFromEdges() Index { return r.firstChildEdgeFromEdge }

// FirstChildVertexFromFaces returns the first child vertex index born from a face.
func (r *Refinement) FirstChildVertexFromFaces() Index { return r.firstChildVertFromFace }

// FirstChildVertexFromEdges returns the first child vertex index born from an edge.
func (r *Refinement) FirstChildVertexFromEdges() Index { return r.firstChildVertFromEdge }

// FirstChildVertexFromVertices returns the first child vertex index born from a vertex.
func (r *Refinement) FirstChildVertexFromVertices() Index { return r.firstChildVertFromVert }

//
// Parent-to-child accessors
//

// FaceChildVertex returns the child vertex of parent face f, or InvalidIndex.
func (r *Refinement) FaceChildVertex(f Index) Index { return indexAt(r.faceChildVertIndex, f) }

// EdgeChildVertex returns the child vertex of parent edge e, or InvalidIndex.
func (r *Refinement) EdgeChildVertex(e Index) Index { return indexAt(r.edgeChildVertIndex, e) }

// VertexChildVertex returns the child vertex of parent vertex v, or InvalidIndex.
func (r *Refinement) VertexChildVertex(v Index) Index { return indexAt(r.vertChildVertIndex, v) }

// FaceChildFaces returns the child faces of parent face f. Entries are
// InvalidIndex for children not produced by a sparse refinement.
func (r *Refinement) FaceChildFaces(f Index) ConstIndexArray {
	return countsAndOffsetsView(r.faceChildFaceCountsAndOffsets, r.faceChildFaceIndices, f)
}

// FaceChildEdges returns the child edges interior to parent face f.
func (r *Refinement) FaceChildEdges(f Index) ConstIndexArray {
	return countsAndOffsetsView(r.faceChildEdgeCountsAndOffsets, r.faceChildEdgeIndices, f)
}

// EdgeChildEdges returns the two child edges of parent edge e; child i is
// adjacent to the edge's vertex i.
func (r *Refinement) EdgeChildEdges(e Index) ConstIndexArray {
	return fixedView(r.edgeChildEdgeIndices, e, 2)
}

//
// Child-to-parent accessors
//

// ChildFaceParentFace returns the parent face of child face f.
func (r *Refinement) ChildFaceParentFace(f Index) Index { return indexAt(r.childFaceParentIndex, f) }

// ChildFaceInParentFace returns the position of child face f in its parent's child list.
func (r *Refinement) ChildFaceInParentFace(f Index) int {
	if f < 0 || f >= len(r.childFaceTag) {
		return -1
	}
	return r.childFaceTag[f].IndexInParent
}

// ChildEdgeParentIndex returns the parent face or edge of child edge e.
func (r *Refinement) ChildEdgeParentIndex(e Index) Index { return indexAt(r.childEdgeParentIndex, e) }

// ChildVertexParentIndex returns the parent face, edge or vertex of child vertex v.
func (r *Refinement) ChildVertexParentIndex(v Index) Index {
	return indexAt(r.childVertexParentIndex, v)
}

// ChildFaceTag returns the child tag of child face f.
func (r *Refinement) ChildFaceTag(f Index) ChildTag { return childTagAt(r.childFaceTag, f) }

// ChildEdgeTag returns the child tag of child edge e.
func (r *Refinement) ChildEdgeTag(e Index) ChildTag { return childTagAt(r.childEdgeTag, e) }

// ChildVertexTag returns the child tag of child vertex v.
func (r *Refinement) ChildVertexTag(v Index) ChildTag { return childTagAt(r.childVertexTag, v) }

func childTagAt(tags []ChildTag, i Index) ChildTag {
	if i < 0 || i >= len(tags) {
		return ChildTag{}
	}
	return tags[i]
}

// ParentFaceSparseTag returns the selection tag of parent face f.
func (r *Refinement) ParentFaceSparseTag(f Index) SparseTag { return sparseTagAt(r.parentFaceTag, f) }

// ParentEdgeSparseTag returns the selection tag of parent edge e.
func (r *Refinement) ParentEdgeSparseTag(e Index) SparseTag { return sparseTagAt(r.parentEdgeTag, e) }

// ParentVertexSparseTag returns the selection tag of parent vertex v.
func (r *Refinement) ParentVertexSparseTag(v Index) SparseTag {
	return sparseTagAt(r.parentVertexTag, v)
}

func sparseTagAt(tags []SparseTag, i Index) SparseTag {
	if i < 0 || i >= len(tags) {
		return SparseTag{}
	}
	return tags[i]
}

// FVarChannel returns the refinement of face-varying channel c, or nil.
func (r *Refinement) FVarChannel(c int) *FVarRefinement {
	if c < 0 || c >= len(r.fvarChannels) {
		return nil
	}
	return r.fvarChannels[c]
}
