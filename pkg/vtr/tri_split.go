package vtr

import "github.com/Faultbox/subdiv/pkg/sdc"

// triSplit divides a triangle into four: corner face i at parent vertex i
// and a center face. Interior edge i joins the midpoints of edges i and i-1.
// No vertex is created at the face center.
//
//	face 0: [V0, E0, E2]    face 2: [E2, E1, V2]
//	face 1: [E0, V1, E1]    face 3: [E1, E2, E0]
type triSplit struct{}

const triCenterFace = 3

func (triSplit) splitType() sdc.Split { return sdc.SplitToTris }

func (triSplit) allocateParentChildIndices(r *Refinement) {
	p := r.parent
	mark := r.initialChildMark()

	r.faceChildFaceCountsAndOffsets = make([]Index, 2*p.faceCount)
	r.faceChildEdgeCountsAndOffsets = make([]Index, 2*p.faceCount)
	for f := 0; f < p.faceCount; f++ {
		r.faceChildFaceCountsAndOffsets[2*f] = 4
		r.faceChildFaceCountsAndOffsets[2*f+1] = 4 * f
		r.faceChildEdgeCountsAndOffsets[2*f] = 3
		r.faceChildEdgeCountsAndOffsets[2*f+1] = 3 * f
	}

	r.faceChildFaceIndices = filledIndices(4*p.faceCount, mark)
	r.faceChildEdgeIndices = filledIndices(3*p.faceCount, mark)
	r.faceChildVertIndex = filledIndices(p.faceCount, sparseMarkNone)

	r.allocateEdgeAndVertexChildIndices(mark)
}

// markSparseFaceChildren marks all children of selected faces. An unselected
// triangle contributes the corner face and interior edge at each selected
// vertex, and the center face with all interior edges when any of its edges
// is selected.
func (triSplit) markSparseFaceChildren(r *Refinement) {
	p := r.parent
	for pFace := 0; pFace < p.faceCount; pFace++ {
		fChildFaces := r.FaceChildFaces(pFace)
		fChildEdges := r.FaceChildEdges(pFace)
		tag := &r.parentFaceTag[pFace]

		if tag.Selected {
			for i := range fChildFaces {
				fChildFaces[i] = sparseMarkSelected
			}
			for i := range fChildEdges {
				fChildEdges[i] = sparseMarkSelected
			}
			tag.Transitional = 0
			continue
		}

		marked := false
		for i, pVert := range p.FaceVertices(pFace) {
			if r.parentVertexTag[pVert].Selected {
				fChildFaces[i] = sparseMarkNeighbor
				fChildEdges[i] = sparseMarkNeighbor
				marked = true
			}
		}
		for _, pEdge := range p.FaceEdges(pFace) {
			if r.parentEdgeTag[pEdge].Selected {
				fChildFaces[triCenterFace] = sparseMarkNeighbor
				for i := range fChildEdges {
					fChildEdges[i] = sparseMarkNeighbor
				}
				marked = true
				break
			}
		}

		tag.Transitional = 0
		if marked {
			tag.Transitional = r.faceTransitionalMask(pFace)
		}
	}
}

func (triSplit) populateFaceVertexRelation(r *Refinement) {
	p, c := r.parent, r.child
	for pFace := 0; pFace < p.faceCount; pFace++ {
		pFaceVerts := p.FaceVertices(pFace)
		pFaceEdges := p.FaceEdges(pFace)

		v0 := r.vertChildVertIndex[pFaceVerts[0]]
		v1 := r.vertChildVertIndex[pFaceVerts[1]]
		v2 := r.vertChildVertIndex[pFaceVerts[2]]
		e0 := r.edgeChildVertIndex[pFaceEdges[0]]
		e1 := r.edgeChildVertIndex[pFaceEdges[1]]
		e2 := r.edgeChildVertIndex[pFaceEdges[2]]

		layout := [4][3]Index{
			{v0, e0, e2},
			{e0, v1, e1},
			{e2, e1, v2},
			{e1, e2, e0},
		}
		for j, cFace := range r.FaceChildFaces(pFace) {
			if IndexIsValid(cFace) {
				copy(c.FaceVertices(cFace), layout[j][:])
			}
		}
	}
}

func (triSplit) populateFaceEdgeRelation(r *Refinement) {
	p, c := r.parent, r.child
	for pFace := 0; pFace < p.faceCount; pFace++ {
		pFaceVerts := p.FaceVertices(pFace)
		pFaceEdges := p.FaceEdges(pFace)
		fChildEdges := r.FaceChildEdges(pFace)

		halfEdge := func(edge, vert int) Index {
			return r.childEdgeAtVertex(pFaceEdges[edge], pFaceVerts[vert])
		}
		layout := [4][3]Index{
			{halfEdge(0, 0), fChildEdges[0], halfEdge(2, 0)},
			{halfEdge(0, 1), halfEdge(1, 1), fChildEdges[1]},
			{fChildEdges[2], halfEdge(1, 2), halfEdge(2, 2)},
			{fChildEdges[2], fChildEdges[0], fChildEdges[1]},
		}
		for j, cFace := range r.FaceChildFaces(pFace) {
			if IndexIsValid(cFace) {
				copy(c.FaceEdges(cFace), layout[j][:])
			}
		}
	}
}

func (triSplit) populateEdgeVertexRelation(r *Refinement) {
	p, c := r.parent, r.child
	for pFace := 0; pFace < p.faceCount; pFace++ {
		pFaceEdges := p.FaceEdges(pFace)

		for j, cEdge := range r.FaceChildEdges(pFace) {
			if !IndexIsValid(cEdge) {
				continue
			}
			cEdgeVerts := c.EdgeVertices(cEdge)
			cEdgeVerts[0] = r.edgeChildVertIndex[pFaceEdges[j]]
			cEdgeVerts[1] = r.edgeChildVertIndex[pFaceEdges[(j+2)%3]]
		}
	}
	r.populateEdgeVerticesFromParentEdges()
}

func (triSplit) populateEdgeFaceRelation(r *Refinement) {
	p, c := r.parent, r.child
	b := c.edgeFaceBuilder(2*len(r.faceChildEdgeIndices) + 2*len(p.edgeFaceIndices))

	for pFace := 0; pFace < p.faceCount; pFace++ {
		fChildFaces := r.FaceChildFaces(pFace)

		for j, cEdge := range r.FaceChildEdges(pFace) {
			if !IndexIsValid(cEdge) {
				continue
			}
			cEdgeFaces := b.reserve(cEdge, 2)
			k := 0
			for _, cFace := range [2]Index{fChildFaces[j], fChildFaces[triCenterFace]} {
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

func (triSplit) populateVertexFaceRelation(r *Refinement) {
	p, c := r.parent, r.child
	b := c.vertexFaceBuilder(3*len(p.edgeFaceIndices) + len(p.vertFaceIndices))

	for pEdge := 0; pEdge < p.edgeCount; pEdge++ {
		cVert := r.edgeChildVertIndex[pEdge]
		if !IndexIsValid(cVert) {
			continue
		}
		pEdgeFaces := p.EdgeFaces(pEdge)
		cVertFaces := b.reserve(cVert, 3*len(pEdgeFaces))
		n := 0
		for _, pFace := range pEdgeFaces {
			edgeInFace := p.FaceEdges(pFace).FindIndex(pEdge)
			if edgeInFace < 0 {
				continue
			}
			fChildFaces := r.FaceChildFaces(pFace)
			for _, cFace := range [3]Index{
				fChildFaces[edgeInFace],
				fChildFaces[triCenterFace],
				fChildFaces[(edgeInFace+1)%3],
			} {
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

func (triSplit) populateVertexEdgeRelation(r *Refinement) {
	p, c := r.parent, r.child
	b := c.vertexEdgeBuilder(2*p.edgeCount + 2*len(p.edgeFaceIndices) + len(p.vertEdgeIndices))

	for pEdge := 0; pEdge < p.edgeCount; pEdge++ {
		cVert := r.edgeChildVertIndex[pEdge]
		if !IndexIsValid(cVert) {
			continue
		}
		pEdgeFaces := p.EdgeFaces(pEdge)
		cVertEdges := b.reserve(cVert, 2+2*len(pEdgeFaces))
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
			fChildEdges := r.FaceChildEdges(pFace)
			for _, cEdge := range [2]Index{fChildEdges[edgeInFace], fChildEdges[(edgeInFace+1)%3]} {
				if IndexIsValid(cEdge) {
					cVertEdges[n] = cEdge
					n++
				}
			}
		}
		b.trim(cVert, n)
	}

	r.populateVertexEdgesFromParentVertices(&b)
	r.finishVertexRelation(&b)
}
