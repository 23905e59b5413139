package vtr

import "github.com/Faultbox/subdiv/pkg/sdc"

func (r *Refinement) propagateComponentTags() {
	r.populateFaceTagsFromParentFaces()

	r.populateEdgeTagsFromParentFaces()
	r.populateEdgeTagsFromParentEdges()

	r.populateVertexTagsFromParentFaces()
	r.populateVertexTagsFromParentEdges()
	r.populateVertexTagsFromParentVertices()

	// Incomplete describes truncation by this refinement only. Vertex-born
	// children copied the parent's flag above and are reset here.
	for cVert, tag := range r.childVertexTag {
		r.child.vertTags[cVert].Incomplete = tag.Incomplete
	}
}

func (r *Refinement) populateFaceTagsFromParentFaces() {
	cFace := r.firstChildFaceFromFace
	for end := cFace + r.childFaceFromFaceCount; cFace < end; cFace++ {
		r.child.faceTags[cFace] = r.parent.faceTags[r.childFaceParentIndex[cFace]]
	}
}

// Edges interior to a parent face are smooth, manifold and never boundary.
func (r *Refinement) populateEdgeTagsFromParentFaces() {
	cEdge := r.firstChildEdgeFromFace
	for end := cEdge + r.childEdgeFromFaceCount; cEdge < end; cEdge++ {
		r.child.edgeTags[cEdge] = ETag{}
	}
}

func (r *Refinement) populateEdgeTagsFromParentEdges() {
	cEdge := r.firstChildEdgeFromEdge
	for end := cEdge + r.childEdgeFromEdgeCount; cEdge < end; cEdge++ {
		r.child.edgeTags[cEdge] = r.parent.edgeTags[r.childEdgeParentIndex[cEdge]]
	}
}

// Vertices at face centers are smooth and interior. At depth 0 the parent
// face may be irregular, in which case its center vertex is extraordinary.
func (r *Refinement) populateVertexTagsFromParentFaces() {
	cVert := r.firstChildVertFromFace
	for end := cVert + r.childVertFromFaceCount; cVert < end; cVert++ {
		tag := VTag{Rule: sdc.RuleSmooth}
		if r.parent.depth == 0 {
			pFace := r.childVertexParentIndex[cVert]
			tag.Xordinary = r.parent.NumFaceVertices(pFace) != r.regFaceSize
		}
		r.child.vertTags[cVert] = tag
	}
}

func (r *Refinement) populateVertexTagsFromParentEdges() {
	cVert := r.firstChildVertFromEdge
	for end := cVert + r.childVertFromEdgeCount; cVert < end; cVert++ {
		pEdgeTag := r.parent.edgeTags[r.childVertexParentIndex[cVert]]

		tag := VTag{
			NonManifold:    pEdgeTag.NonManifold,
			Boundary:       pEdgeTag.Boundary,
			Xordinary:      pEdgeTag.NonManifold,
			SemiSharpEdges: pEdgeTag.SemiSharp,
			InfSharpEdges:  pEdgeTag.InfSharp,
			Rule:           sdc.RuleSmooth,
		}
		if pEdgeTag.SemiSharp || pEdgeTag.InfSharp {
			tag.Rule = sdc.RuleCrease
		}
		r.child.vertTags[cVert] = tag
	}
}

func (r *Refinement) populateVertexTagsFromParentVertices() {
	cVert := r.firstChildVertFromVert
	for end := cVert + r.childVertFromVertCount; cVert < end; cVert++ {
		r.child.vertTags[cVert] = r.parent.vertTags[r.childVertexParentIndex[cVert]]
	}
}

//
// Sharpness
//

func (r *Refinement) subdivideSharpnessValues() {
	r.subdivideEdgeSharpness()
	r.subdivideVertexSharpness()
	r.reclassifySemisharpVertices()
}

// subdivideEdgeSharpness assigns sharpness to child edges. Edges interior to
// parent faces stay smooth; edges halving a parent edge decay from it.
func (r *Refinement) subdivideEdgeSharpness() {
	creasing := sdc.NewCrease(r.options)
	var incident []float32

	cEdge := r.firstChildEdgeFromEdge
	for end := cEdge + r.childEdgeFromEdgeCount; cEdge < end; cEdge++ {
		tag := &r.child.edgeTags[cEdge]

		sharpness := sdc.SharpnessSmooth
		switch {
		case tag.InfSharp:
			sharpness = sdc.SharpnessInfinite
		case tag.SemiSharp:
			pEdge := r.childEdgeParentIndex[cEdge]
			pSharpness := r.parent.edgeSharpness[pEdge]

			if creasing.IsUniform() {
				sharpness = creasing.SubdivideUniformSharpness(pSharpness)
			} else {
				pVert := r.parent.EdgeVertices(pEdge)[r.childEdgeTag[cEdge].IndexInParent]
				incident = incident[:0]
				for _, e := range r.parent.VertexEdges(pVert) {
					incident = append(incident, r.parent.edgeSharpness[e])
				}
				sharpness = creasing.SubdivideEdgeSharpnessAtVertex(pSharpness, incident)
			}
			tag.SemiSharp = sdc.IsSharp(sharpness)
		}
		r.child.edgeSharpness[cEdge] = sharpness
	}
}

// subdivideVertexSharpness assigns sharpness to child vertices. Only
// vertices born from parent vertices inherit sharpness.
func (r *Refinement) subdivideVertexSharpness() {
	creasing := sdc.NewCrease(r.options)

	cVert := r.firstChildVertFromVert
	for end := cVert + r.childVertFromVertCount; cVert < end; cVert++ {
		tag := &r.child.vertTags[cVert]

		sharpness := sdc.SharpnessSmooth
		switch {
		case tag.InfSharp:
			sharpness = sdc.SharpnessInfinite
		case tag.SemiSharp:
			pVert := r.childVertexParentIndex[cVert]
			sharpness = creasing.SubdivideVertexSharpness(r.parent.vertSharpness[pVert])
			tag.SemiSharp = sdc.IsSemiSharp(sharpness)
		}
		r.child.vertSharpness[cVert] = sharpness
	}
}

// reclassifySemisharpVertices updates the semi-sharp flags and rules of
// child vertices whose parents involved semi-sharp features, since decay may
// have turned a crease or corner smooth.
func (r *Refinement) reclassifySemisharpVertices() {
	creasing := sdc.NewCrease(r.options)

	cVert := r.firstChildVertFromEdge
	for end := cVert + r.childVertFromEdgeCount; cVert < end; cVert++ {
		pEdge := r.childVertexParentIndex[cVert]
		if !r.parent.edgeTags[pEdge].SemiSharp {
			continue
		}
		tag := &r.child.vertTags[cVert]
		cEdges := r.EdgeChildEdges(pEdge)

		if r.childVertexTag[cVert].Incomplete {
			// One child edge may be missing: a crease if any remaining edge is sharp.
			tag.SemiSharpEdges = false
			for _, cEdge := range cEdges {
				if IndexIsValid(cEdge) && r.child.edgeTags[cEdge].SemiSharp {
					tag.SemiSharpEdges = true
				}
			}
			tag.Rule = sdc.RuleSmooth
			if tag.SemiSharpEdges {
				tag.Rule = sdc.RuleCrease
			}
			continue
		}

		sharpEdgeCount := 0
		for _, cEdge := range cEdges {
			if r.child.edgeTags[cEdge].SemiSharp {
				sharpEdgeCount++
			}
		}
		tag.SemiSharpEdges = sharpEdgeCount > 0
		tag.Rule = creasing.DetermineVertexVertexRule(sdc.SharpnessSmooth, sharpEdgeCount)
	}

	cVert = r.firstChildVertFromVert
	for end := cVert + r.childVertFromVertCount; cVert < end; cVert++ {
		pVert := r.childVertexParentIndex[cVert]
		pTag := r.parent.vertTags[pVert]
		if !pTag.SemiSharp && !pTag.SemiSharpEdges {
			continue
		}
		tag := &r.child.vertTags[cVert]

		infSharpEdges, semiSharpEdges := 0, 0
		for _, pEdge := range r.parent.VertexEdges(pVert) {
			vertInEdge := 0
			if r.parent.EdgeVertices(pEdge)[0] != pVert {
				vertInEdge = 1
			}
			cEdge := r.EdgeChildEdges(pEdge)[vertInEdge]
			if !IndexIsValid(cEdge) {
				continue
			}
			switch cTag := r.child.edgeTags[cEdge]; {
			case cTag.InfSharp:
				infSharpEdges++
			case cTag.SemiSharp:
				semiSharpEdges++
			}
		}

		cSharpness := r.child.vertSharpness[cVert]
		tag.SemiSharp = sdc.IsSemiSharp(cSharpness)
		tag.InfSharpEdges = infSharpEdges > 0
		tag.SemiSharpEdges = semiSharpEdges > 0
		tag.Rule = creasing.DetermineVertexVertexRule(cSharpness, infSharpEdges+semiSharpEdges)
	}
}
