package vtr

import "fmt"

// FVarRefinement refines one face-varying channel alongside the topology.
// Child values are numbered contiguously per child vertex: a face vertex
// has one value, an edge vertex one per incident face when the edge is a
// seam, and a vertex vertex as many as its parent.
type FVarRefinement struct {
	refinement *Refinement
	parent     *FVarLevel
	child      *FVarLevel

	// Parent sibling (or, for edge vertices, parent edge-face position)
	// each child value was derived from.
	childValueParentSource []Index
}

// Parent returns the channel being refined.
func (fr *FVarRefinement) Parent() *FVarLevel { return fr.parent }

// Child returns the refined channel.
func (fr *FVarRefinement) Child() *FVarLevel { return fr.child }

// ChildValueParentSource returns the parent sibling a child value derives
// from. For values at edge midpoints it is the position of the parent face
// among the edge's faces.
func (fr *FVarRefinement) ChildValueParentSource(value Index) Index {
	return indexAt(fr.childValueParentSource, value)
}

func (r *Refinement) subdivideFVarChannels() error {
	r.fvarChannels = make([]*FVarRefinement, 0, r.parent.NumFVarChannels())
	for c, parentFVar := range r.parent.fvarChannels {
		if parentFVar == nil || len(parentFVar.faceVertValues) != len(r.parent.faceVertIndices) {
			return fmt.Errorf("%w: channel %d does not match its level", ErrInvalidFVarChannel, c)
		}
		childFVar := newFVarLevel(r.child, r.options)
		fr := &FVarRefinement{refinement: r, parent: parentFVar, child: childFVar}
		fr.applyRefinement()

		r.child.fvarChannels = append(r.child.fvarChannels, childFVar)
		r.fvarChannels = append(r.fvarChannels, fr)
	}
	return nil
}

func (fr *FVarRefinement) applyRefinement() {
	fr.allocateChildValues()
	fr.populateChildFaceValues()
	fr.propagateEdgeTags()

	fr.child.populateVertexFaceSiblings()
	fr.child.tagValues()
}

// childSiblingCount returns the number of values needed at child vertex cVert.
func (fr *FVarRefinement) childSiblingCount(cVert Index) int {
	r := fr.refinement
	pIndex := r.childVertexParentIndex[cVert]
	switch r.childVertexTag[cVert].ParentType {
	case ComponentEdge:
		if fr.parent.edgeTags[pIndex].Mismatch {
			return len(r.parent.EdgeFaces(pIndex))
		}
		return 1
	case ComponentVertex:
		return fr.parent.NumVertexValues(pIndex)
	default:
		return 1
	}
}

func (fr *FVarRefinement) allocateChildValues() {
	r := fr.refinement
	counts := make([]int, r.child.vertCount)
	for cVert := range counts {
		counts[cVert] = fr.childSiblingCount(cVert)
	}
	total := fr.child.assignContiguousValues(counts)

	fr.childValueParentSource = make([]Index, total)
	for cVert, count := range counts {
		offset := fr.child.vertSiblingCountsAndOffsets[2*cVert+1]
		for s := 0; s < count; s++ {
			fr.childValueParentSource[offset+s] = s
		}
	}
}

// childSibling returns which value of child vertex cVert is used by the
// child faces of parent face pFace.
func (fr *FVarRefinement) childSibling(cVert, pFace Index) int {
	r := fr.refinement
	pIndex := r.childVertexParentIndex[cVert]
	switch r.childVertexTag[cVert].ParentType {
	case ComponentEdge:
		if fr.parent.edgeTags[pIndex].Mismatch {
			if s := r.parent.EdgeFaces(pIndex).FindIndex(pFace); s > 0 {
				return s
			}
		}
	case ComponentVertex:
		value := fr.parent.valueAtFaceCorner(pFace, pIndex)
		if s := fr.parent.VertexValues(pIndex).FindIndex(value); s > 0 {
			return s
		}
	}
	return 0
}

func (fr *FVarRefinement) populateChildFaceValues() {
	r := fr.refinement
	c := r.child
	fr.child.faceVertValues = filledIndices(len(c.faceVertIndices), InvalidIndex)

	for cFace := 0; cFace < c.faceCount; cFace++ {
		pFace := r.childFaceParentIndex[cFace]
		cFaceValues := fr.child.FaceValues(cFace)
		for i, cVert := range c.FaceVertices(cFace) {
			cFaceValues[i] = fr.child.VertexValues(cVert)[fr.childSibling(cVert, pFace)]
		}
	}
}

// propagateEdgeTags carries seams across: halves of a mismatched edge stay
// mismatched, edges interior to parent faces never are.
func (fr *FVarRefinement) propagateEdgeTags() {
	r := fr.refinement
	fr.child.edgeTags = make([]FVarETag, r.child.edgeCount)

	cEdge := r.firstChildEdgeFromEdge
	for end := cEdge + r.childEdgeFromEdgeCount; cEdge < end; cEdge++ {
		fr.child.edgeTags[cEdge] = fr.parent.edgeTags[r.childEdgeParentIndex[cEdge]]
	}
}
