package vtr

// Marks placed in the parent-to-child index vectors before they are
// sequenced into child indices. Any non-zero mark spawns a child.
const (
	sparseMarkNone     Index = 0
	sparseMarkNeighbor Index = 1
	sparseMarkSelected Index = 2
)

func (r *Refinement) initialChildMark() Index {
	if r.uniform {
		return sparseMarkSelected
	}
	return sparseMarkNone
}

func (r *Refinement) populateParentToChildMapping() {
	r.split.allocateParentChildIndices(r)

	if !r.uniform {
		r.markSparseChildComponentIndices()
	}
	r.populateParentChildIndices()
}

// markSparseChildComponentIndices marks the children needed by selected
// components. Vertices need a subset of what edges need, which in turn need
// a subset of what faces need, so they are marked in that order.
func (r *Refinement) markSparseChildComponentIndices() {
	r.markSparseVertexChildren()
	r.markSparseEdgeChildren()
	r.split.markSparseFaceChildren(r)
}

func (r *Refinement) markSparseVertexChildren() {
	for pVert := 0; pVert < r.parent.vertCount; pVert++ {
		if r.parentVertexTag[pVert].Selected {
			r.vertChildVertIndex[pVert] = sparseMarkSelected
		}
	}
}

func (r *Refinement) markSparseEdgeChildren() {
	for pEdge := 0; pEdge < r.parent.edgeCount; pEdge++ {
		eChildEdges := IndexArray(r.edgeChildEdgeIndices[2*pEdge : 2*pEdge+2])
		eVerts := r.parent.EdgeVertices(pEdge)
		tag := &r.parentEdgeTag[pEdge]

		if tag.Selected {
			eChildEdges[0] = sparseMarkSelected
			eChildEdges[1] = sparseMarkSelected
			r.edgeChildVertIndex[pEdge] = sparseMarkSelected
		} else {
			if r.parentVertexTag[eVerts[0]].Selected {
				eChildEdges[0] = sparseMarkNeighbor
				r.edgeChildVertIndex[pEdge] = sparseMarkNeighbor
			}
			if r.parentVertexTag[eVerts[1]].Selected {
				eChildEdges[1] = sparseMarkNeighbor
				r.edgeChildVertIndex[pEdge] = sparseMarkNeighbor
			}
		}

		tag.Transitional = 0
		if (eChildEdges[0] == sparseMarkNone) != (eChildEdges[1] == sparseMarkNone) {
			tag.Transitional = 1
		}
	}
}

// faceTransitionalMask packs the transitional bits of up to four face edges.
func (r *Refinement) faceTransitionalMask(pFace Index) uint8 {
	var mask uint8
	for i, e := range r.parent.FaceEdges(pFace) {
		if i >= 4 {
			break
		}
		if r.parentEdgeTag[e].Transitional != 0 {
			mask |= 1 << i
		}
	}
	return mask
}

// sequenceIndexVector replaces marked slots with consecutive child indices
// starting at base and unmarked slots with InvalidIndex. It returns the
// number of children sequenced.
func sequenceIndexVector(indices []Index, base Index) int {
	next := base
	for i, mark := range indices {
		if mark == sparseMarkNone {
			indices[i] = InvalidIndex
		} else {
			indices[i] = next
			next++
		}
	}
	return next - base
}

// populateParentChildIndices assigns child indices in the fixed layout:
// faces from faces; edges from faces then from edges; vertices from faces,
// then from edges, then from vertices.
func (r *Refinement) populateParentChildIndices() {
	r.firstChildFaceFromFace = 0
	r.childFaceFromFaceCount = sequenceIndexVector(r.faceChildFaceIndices, r.firstChildFaceFromFace)

	r.firstChildEdgeFromFace = 0
	r.childEdgeFromFaceCount = sequenceIndexVector(r.faceChildEdgeIndices, r.firstChildEdgeFromFace)

	r.firstChildEdgeFromEdge = r.firstChildEdgeFromFace + r.childEdgeFromFaceCount
	r.childEdgeFromEdgeCount = sequenceIndexVector(r.edgeChildEdgeIndices, r.firstChildEdgeFromEdge)

	r.firstChildVertFromFace = 0
	r.childVertFromFaceCount = sequenceIndexVector(r.faceChildVertIndex, r.firstChildVertFromFace)

	r.firstChildVertFromEdge = r.firstChildVertFromFace + r.childVertFromFaceCount
	r.childVertFromEdgeCount = sequenceIndexVector(r.edgeChildVertIndex, r.firstChildVertFromEdge)

	r.firstChildVertFromVert = r.firstChildVertFromEdge + r.childVertFromEdgeCount
	r.childVertFromVertCount = sequenceIndexVector(r.vertChildVertIndex, r.firstChildVertFromVert)
}

func (r *Refinement) initializeChildComponentCounts() {
	r.child.depth = r.parent.depth + 1
	r.child.resizeComponents(
		r.childFaceFromFaceCount,
		r.childEdgeFromFaceCount+r.childEdgeFromEdgeCount,
		r.childVertFromFaceCount+r.childVertFromEdgeCount+r.childVertFromVertCount,
	)
}

//
// Child-to-parent mapping
//

func (r *Refinement) populateChildToParentMapping() {
	r.populateFaceParentVectors()
	r.populateEdgeParentVectors()
	r.populateVertexParentVectors()
}

// parentIncomplete reports whether children of a parent component lack a
// full neighborhood: only possible in a sparse refinement when the parent
// was not itself selected.
func (r *Refinement) parentIncomplete(tags []SparseTag, i Index) bool {
	return !r.uniform && !tags[i].Selected
}

func (r *Refinement) populateFaceParentVectors() {
	n := r.child.faceCount
	r.childFaceTag = make([]ChildTag, n)
	r.childFaceParentIndex = filledIndices(n, InvalidIndex)

	for pFace := 0; pFace < r.parent.faceCount; pFace++ {
		incomplete := r.parentIncomplete(r.parentFaceTag, pFace)
		for i, cFace := range r.FaceChildFaces(pFace) {
			if !IndexIsValid(cFace) {
				continue
			}
			r.childFaceTag[cFace] = ChildTag{Incomplete: incomplete, ParentType: ComponentFace, IndexInParent: i}
			r.childFaceParentIndex[cFace] = pFace
		}
	}
}

func (r *Refinement) populateEdgeParentVectors() {
	n := r.child.edgeCount
	r.childEdgeTag = make([]ChildTag, n)
	r.childEdgeParentIndex = filledIndices(n, InvalidIndex)

	for pFace := 0; pFace < r.parent.faceCount; pFace++ {
		incomplete := r.parentIncomplete(r.parentFaceTag, pFace)
		for i, cEdge := range r.FaceChildEdges(pFace) {
			if !IndexIsValid(cEdge) {
				continue
			}
			r.childEdgeTag[cEdge] = ChildTag{Incomplete: incomplete, ParentType: ComponentFace, IndexInParent: i}
			r.childEdgeParentIndex[cEdge] = pFace
		}
	}
	for pEdge := 0; pEdge < r.parent.edgeCount; pEdge++ {
		incomplete := r.parentIncomplete(r.parentEdgeTag, pEdge)
		for i, cEdge := range r.EdgeChildEdges(pEdge) {
			if !IndexIsValid(cEdge) {
				continue
			}
			r.childEdgeTag[cEdge] = ChildTag{Incomplete: incomplete, ParentType: ComponentEdge, IndexInParent: i}
			r.childEdgeParentIndex[cEdge] = pEdge
		}
	}
}

func (r *Refinement) populateVertexParentVectors() {
	n := r.child.vertCount
	r.childVertexTag = make([]ChildTag, n)
	r.childVertexParentIndex = filledIndices(n, InvalidIndex)

	for pFace := 0; pFace < r.parent.faceCount; pFace++ {
		if cVert := r.faceChildVertIndex[pFace]; IndexIsValid(cVert) {
			r.childVertexTag[cVert] = ChildTag{
				Incomplete: r.parentIncomplete(r.parentFaceTag, pFace),
				ParentType: ComponentFace,
			}
			r.childVertexParentIndex[cVert] = pFace
		}
	}
	for pEdge := 0; pEdge < r.parent.edgeCount; pEdge++ {
		if cVert := r.edgeChildVertIndex[pEdge]; IndexIsValid(cVert) {
			r.childVertexTag[cVert] = ChildTag{
				Incomplete: r.parentIncomplete(r.parentEdgeTag, pEdge),
				ParentType: ComponentEdge,
			}
			r.childVertexParentIndex[cVert] = pEdge
		}
	}
	for pVert := 0; pVert < r.parent.vertCount; pVert++ {
		if cVert := r.vertChildVertIndex[pVert]; IndexIsValid(cVert) {
			r.childVertexTag[cVert] = ChildTag{
				Incomplete: r.parentIncomplete(r.parentVertexTag, pVert),
				ParentType: ComponentVertex,
			}
			r.childVertexParentIndex[cVert] = pVert
		}
	}
}
