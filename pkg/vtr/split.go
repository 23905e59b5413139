package vtr

import "github.com/Faultbox/subdiv/pkg/sdc"

// splitStrategy is the scheme-specific half of a refinement: how a parent
// face is divided and how the child relations follow from that division.
// The set of implementations is closed: quadSplit and triSplit.
type splitStrategy interface {
	splitType() sdc.Split

	allocateParentChildIndices(r *Refinement)
	markSparseFaceChildren(r *Refinement)

	populateFaceVertexRelation(r *Refinement)
	populateFaceEdgeRelation(r *Refinement)
	populateEdgeVertexRelation(r *Refinement)
	populateEdgeFaceRelation(r *Refinement)
	populateVertexFaceRelation(r *Refinement)
	populateVertexEdgeRelation(r *Refinement)
}

// subdivideTopology populates the selected child relations. Child tables are
// sized here, before any view into them is taken.
func (r *Refinement) subdivideTopology(rel Relations) {
	c := r.child

	if rel.Has(RelationFaceVertices) {
		c.resizeFaceVertices(r.regFaceSize)
		r.split.populateFaceVertexRelation(r)
	}
	if rel.Has(RelationFaceEdges) {
		c.resizeFaceEdges(r.regFaceSize)
		r.split.populateFaceEdgeRelation(r)
	}
	if rel.Has(RelationEdgeVertices) {
		c.resizeEdgeVertices()
		r.split.populateEdgeVertexRelation(r)
	}
	if rel.Has(RelationEdgeFaces) {
		r.split.populateEdgeFaceRelation(r)
	}
	if rel.Has(RelationVertexFaces) {
		r.split.populateVertexFaceRelation(r)
	}
	if rel.Has(RelationVertexEdges) {
		r.split.populateVertexEdgeRelation(r)
	}
}

// allocateEdgeAndVertexChildIndices sizes the mapping vectors that do not
// depend on the split: two child edges and one child vertex per edge, one
// child vertex per vertex.
func (r *Refinement) allocateEdgeAndVertexChildIndices(mark Index) {
	p := r.parent
	r.edgeChildEdgeIndices = filledIndices(2*p.edgeCount, mark)
	r.edgeChildVertIndex = filledIndices(p.edgeCount, mark)
	r.vertChildVertIndex = filledIndices(p.vertCount, mark)
}

// childEdgeAtVertex returns the child of parent edge pEdge adjacent to the
// parent vertex pVert.
func (r *Refinement) childEdgeAtVertex(pEdge, pVert Index) Index {
	eChildEdges := r.EdgeChildEdges(pEdge)
	if r.parent.EdgeVertices(pEdge)[0] == pVert {
		return eChildEdges[0]
	}
	return eChildEdges[1]
}

//
// Relations shared by both splits: edges halving parent edges and vertices
// at parent vertices are connected the same way regardless of the split.
//

func (r *Refinement) populateEdgeVerticesFromParentEdges() {
	p, c := r.parent, r.child
	for pEdge := 0; pEdge < p.edgeCount; pEdge++ {
		eVert := r.edgeChildVertIndex[pEdge]
		if !IndexIsValid(eVert) {
			continue
		}
		pEdgeVerts := p.EdgeVertices(pEdge)
		for j, cEdge := range r.EdgeChildEdges(pEdge) {
			if !IndexIsValid(cEdge) {
				continue
			}
			cEdgeVerts := c.EdgeVertices(cEdge)
			cEdgeVerts[0] = eVert
			cEdgeVerts[1] = r.vertChildVertIndex[pEdgeVerts[j]]
		}
	}
}

// populateEdgeFacesFromParentEdges connects each half of a parent edge to
// the child face at the matching corner of every incident parent face.
func (r *Refinement) populateEdgeFacesFromParentEdges(b *packedRelation) {
	p := r.parent
	for pEdge := 0; pEdge < p.edgeCount; pEdge++ {
		pEdgeVerts := p.EdgeVertices(pEdge)
		pEdgeFaces := p.EdgeFaces(pEdge)

		for j, cEdge := range r.EdgeChildEdges(pEdge) {
			if !IndexIsValid(cEdge) {
				continue
			}
			cEdgeFaces := b.reserve(cEdge, len(pEdgeFaces))
			n := 0
			for _, pFace := range pEdgeFaces {
				edgeInFace := p.FaceEdges(pFace).FindIndex(pEdge)
				if edgeInFace < 0 {
					continue
				}
				pFaceVerts := p.FaceVertices(pFace)
				childInFace := edgeInFace
				if pFaceVerts[edgeInFace] != pEdgeVerts[j] {
					childInFace = (edgeInFace + 1) % len(pFaceVerts)
				}
				if cFace := r.FaceChildFaces(pFace)[childInFace]; IndexIsValid(cFace) {
					cEdgeFaces[n] = cFace
					n++
				}
			}
			b.trim(cEdge, n)
		}
	}
}

func (r *Refinement) populateVertexFacesFromParentVertices(b *packedRelation) {
	p := r.parent
	for pVert := 0; pVert < p.vertCount; pVert++ {
		cVert := r.vertChildVertIndex[pVert]
		if !IndexIsValid(cVert) {
			continue
		}
		pVertFaces := p.VertexFaces(pVert)
		cVertFaces := b.reserve(cVert, len(pVertFaces))
		n := 0
		for _, pFace := range pVertFaces {
			vertInFace := p.FaceVertices(pFace).FindIndex(pVert)
			if vertInFace < 0 {
				continue
			}
			if cFace := r.FaceChildFaces(pFace)[vertInFace]; IndexIsValid(cFace) {
				cVertFaces[n] = cFace
				n++
			}
		}
		b.trim(cVert, n)
	}
}

func (r *Refinement) populateVertexEdgesFromParentVertices(b *packedRelation) {
	p := r.parent
	for pVert := 0; pVert < p.vertCount; pVert++ {
		cVert := r.vertChildVertIndex[pVert]
		if !IndexIsValid(cVert) {
			continue
		}
		pVertEdges := p.VertexEdges(pVert)
		cVertEdges := b.reserve(cVert, len(pVertEdges))
		n := 0
		for _, pEdge := range pVertEdges {
			if cEdge := r.childEdgeAtVertex(pEdge, pVert); IndexIsValid(cEdge) {
				cVertEdges[n] = cEdge
				n++
			}
		}
		b.trim(cVert, n)
	}
}

func (r *Refinement) finishVertexRelation(b *packedRelation) {
	if maxCount := b.finish(); maxCount > r.child.maxValence {
		r.child.maxValence = maxCount
	}
}
