package vtr

import "github.com/Faultbox/subdiv/pkg/sdc"

// quadSplit divides an N-sided face into N quads around a new face vertex.
// Child face j spans parent corner j, the midpoint of edge j, the face
// vertex and the midpoint of edge j-1. For quads, corner j keeps position j
// in its child face so that child faces stay aligned with the parent.
type quadSplit struct{}

func (quadSplit) splitType() sdc.Split { return sdc.SplitToQuads }

// allocateParentChildIndices shares the parent's face-vertex counts and
// offsets: an N-gon has N child faces and N child edges.
func (quadSplit) allocateParentChildIndices(r *Refinement) {
	p := r.parent
	mark := r.initialChildMark()

	r.faceChildFaceCountsAndOffsets = p.faceVertCountsAndOffsets
	r.faceChildEdgeCountsAndOffsets = p.faceVertCountsAndOffsets

	r.faceChildFaceIndices = filledIndices(len(p.faceVertIndices), mark)
	r.faceChildEdgeIndices = filledIndices(len(p.faceVertIndices), mark)
	r.faceChildVertIndex = filledIndices(p.faceCount, mark)

	r.allocateEdgeAndVertexChildIndices(mark)
}

// markSparseFaceChildren marks all children of selected faces. An unselected
// face contributes the child face at each selected corner, the two interior
// edges bounding it and the face vertex they share.
func (quadSplit) markSparseFaceChildren(r *Refinement) {
	p := r.parent
	for pFace := 0; pFace < p.faceCount; pFace++ {
		fChildFaces := r.FaceChildFaces(pFace)
		fChildEdges := r.FaceChildEdges(pFace)
		tag := &r.parentFaceTag[pFace]

		if tag.Selected {
			for i := range fChildFaces {
				fChildFaces[i] = sparseMarkSelected
				fChildEdges[i] = sparseMarkSelected
			}
			r.faceChildVertIndex[pFace] = sparseMarkSelected
			tag.Transitional = 0
			continue
		}

		pFaceVerts := p.FaceVertices(pFace)
		n := len(pFaceVerts)
		marked := false
		for i, pVert := range pFaceVerts {
			if !r.parentVertexTag[pVert].Selected {
				continue
			}
			iPrev := (i + n - 1) % n
			fChildFaces[i] = sparseMarkNeighbor
			fChildEdges[i] = sparseMarkNeighbor
			fChildEdges[iPrev] = sparseMarkNeighbor
			marked = true
		}

		tag.Transitional = 0
		if marked {
			r.faceChildVertIndex[pFace] = sparseMarkNeighbor
			tag.Transitional = r.faceTransitionalMask(pFace)
		}
	}
}

func (quadSplit) populateFaceVertexRelation(r *Refinement) {
	p, c := r.parent, r.child
	for pFace := 0; pFace < p.faceCount; pFace++ {
		pFaceVerts := p.FaceVertices(pFace)
		pFaceEdges := p.FaceEdges(pFace)
		n := len(pFaceVerts)
		fVert := r.faceChildVertIndex[pFace]

		for j, cFace := range r.FaceChildFaces(pFace) {
			if !IndexIsValid(cFace) {
				continue
			}
			jPrev := (j + n - 1) % n
			rot := 0
			if n == 4 {
				rot = j
			}
			cFaceVerts := c.FaceVertices(cFace)
			cFaceVerts[rot] = r.vertChildVertIndex[pFaceVerts[j]]
			cFaceVerts[(rot+1)%4] = r.edgeChildVertIndex[pFaceEdges[j]]
			cFaceVerts[(rot+2)%4] = fVert
			cFaceVerts[(rot+3)%4] = r.edgeChildVertIndex[pFaceEdges[jPrev]]
		}
	}
}

func (quadSplit) populateFaceEdgeRelation(r *Refinement) {
	p, c := r.parent, r.child
	for pFace := 0; pFace < p.faceCount; pFace++ {
		pFaceVerts := p.FaceVertices(pFace)
		pFaceEdges := p.FaceEdges(pFace)
		fChildEdges := r.FaceChildEdges(pFace)
		n := len(pFaceVerts)

		for j, cFace := range r.FaceChildFaces(pFace) {
			if !IndexIsValid(cFace) {
				continue
			}
			jPrev := (j + n - 1) % n
			rot := 0
			if n == 4 {
				rot = j
			}
			cFaceEdges := c.FaceEdges(cFace)
			cFaceEdges[rot] = r.childEdgeAtVertex(pFaceEdges[j], pFaceVerts[j])
			cFaceEdges[(rot+1)%4] = fChildEdges[j]
			cFaceEdges[(rot+2)%4] = fChildEdges[jPrev]
			cFaceEdges[(rot+3)%4] = r.childEdgeAtVertex(pFaceEdges[jPrev], pFaceVerts[j])
		}
	}
}

// populateEdgeVertexRelation orients interior edge j from the face vertex
// to the midpoint of parent edge j.
func (quadSplit) populateEdgeVertexRelation(r *Refinement) {
	p, c := r.parent, r.child
	for pFace := 0; pFace < p.faceCount; pFace++ {
		fVert := r.faceChildVertIndex[pFace]
		pFaceEdges := p.FaceEdges(pFace)

		for j, cEdge := range r.FaceChildEdges(pFace) {
			if !IndexIsValid(cEdge) {
				continue
			}
			cEdgeVerts := c.EdgeVertices(cEdge)
			cEdgeVerts[0] = fVert
			cEdgeVerts[1] = r.edgeChildVertIndex[pFaceEdges[j]]
		}
	}
	r.populateEdgeVerticesFromParentEdges()
}

func (quadSplit) populateEdgeFaceRelation(r *Refinement) {
	p, c := r.parent, r.child
	b := c.edgeFaceBuilder(2*len(r.faceChildEdgeIndices) + 2*len(p.edgeFaceIndices))

	for pFace := 0; pFace < p.faceCount; pFace++ {
		fChildFaces := r.FaceChildFaces(pFace)
		n := len(fChildFaces)

		for j, cEdge := range r.FaceChildEdges(pFace) {
			if !IndexIsValid(cEdge) {
				continue
			}
			cEdgeFaces := b.reserve(cEdge, 2)
			k := 0
			for _, cFace := range [2]Index{fChildFaces[j], fChildFaces[(j+1)%n]} {
				if IndexIsValid(cFace) {
					cEdgeFaces[k] = cFace
					k++
				}
			}
			b.trim(cEdge, k)
		}
	}
	r.populateEdgeFacesFromParentEdges(&b)
	c.maxEdgeFaces = b.finish()
}

func (quadSplit) populateVertexFaceRelation(r *Refinement) {
	p, c := r.parent, r.child
	b := c.vertexFaceBuilder(len(p.faceVertIndices) + 2*len(p.edgeFaceIndices) + len(p.vertFaceIndices))

	for pFace := 0; pFace < p.faceCount; pFace++ {
		cVert := r.faceChildVertIndex[pFace]
		if !IndexIsValid(cVert) {
			continue
		}
		fChildFaces := r.FaceChildFaces(pFace)
		cVertFaces := b.reserve(cVert, len(fChildFaces))
		n := 0
		for _, cFace := range fChildFaces {
			if IndexIsValid(cFace) {
				cVertFaces[n] = cFace
				n++
			}
		}
		b.trim(cVert, n)
	}

	for pEdge := 0; pEdge < p.edgeCount; pEdge++ {
		cVert := r.edgeChildVertIndex[pEdge]
		if !IndexIsValid(cVert) {
			continue
		}
		pEdgeFaces := p.EdgeFaces(pEdge)
		cVertFaces := b.reserve(cVert, 2*len(pEdgeFaces))
		n := 0
		for _, pFace := range pEdgeFaces {
			edgeInFace := p.FaceEdges(pFace).FindIndex(pEdge)
			if edgeInFace < 0 {
				continue
			}
			fChildFaces := r.FaceChildFaces(pFace)
			for _, cFace := range [2]Index{fChildFaces[edgeInFace], fChildFaces[(edgeInFace+1)%len(fChildFaces)]} {
				if IndexIsValid(cFace) {
					cVertFaces[n] = cFace
					n++
				}
			}
		}
		b.trim(cVert, n)
	}

	r.populateVertexFacesFromParentVertices(&b)
	r.finishVertexRelation(&b)
}

func (quadSplit) populateVertexEdgeRelation(r *Refinement) {
	p, c := r.parent, r.child
	b := c.vertexEdgeBuilder(len(p.faceVertIndices) + 2*p.edgeCount + len(p.edgeFaceIndices) + len(p.vertEdgeIndices))

	for pFace := 0; pFace < p.faceCount; pFace++ {
		cVert := r.faceChildVertIndex[pFace]
		if !IndexIsValid(cVert) {
			continue
		}
		fChildEdges := r.FaceChildEdges(pFace)
		cVertEdges := b.reserve(cVert, len(fChildEdges))
		n := 0
		for _, cEdge := range fChildEdges {
			if IndexIsValid(cEdge) {
				cVertEdges[n] = cEdge
				n++
			}
		}
		b.trim(cVert, n)
	}

	for pEdge := 0; pEdge < p.edgeCount; pEdge++ {
		cVert := r.edgeChildVertIndex[pEdge]
		if !IndexIsValid(cVert) {
			continue
		}
		pEdgeFaces := p.EdgeFaces(pEdge)
		cVertEdges := b.reserve(cVert, 2+len(pEdgeFaces))
		n := 0
		for _, cEdge := range r.EdgeChildEdges(pEdge) {
			if IndexIsValid(cEdge) {
				cVertEdges[n] = cEdge
				n++
			}
		}
		for _, pFace := range pEdgeFaces {
			edgeInFace := p.FaceEdges(pFace).FindIndex(pEdge)
			if edgeInFace < 0 {
				continue
			}
			if cEdge := r.FaceChildEdges(pFace)[edgeInFace]; IndexIsValid(cEdge) {
				cVertEdges[n] = cEdge
				n++
			}
		}
		b.trim(cVert, n)
	}

	r.populateVertexEdgesFromParentVertices(&b)
	r.finishVertexRelation(&b)
}
