package mask

import (
	"fmt"

	"github.com/Faultbox/subdiv/pkg/math"
	"github.com/Faultbox/subdiv/pkg/vtr"
)

// Interpolate applies the masks to one value per parent vertex and returns
// one value per child vertex. Face-born child vertices are computed first
// since the edge and vertex masks of a quad split refer to face centers.
func (w *Weights) Interpolate(parent []math.Vec3) ([]math.Vec3, error) {
	r := w.refinement
	p, c := r.Parent(), r.Child()
	if len(parent) != p.NumVertices() {
		return nil, fmt.Errorf("%w: %d values for %d vertices", ErrSizeMismatch, len(parent), p.NumVertices())
	}

	child := make([]math.Vec3, c.NumVertices())

	// Face masks are uniform, so each face point is a centroid.
	var corners []math.Vec3
	for f := 0; f < p.NumFaces(); f++ {
		cVert := r.FaceChildVertex(f)
		if !vtr.IndexIsValid(cVert) {
			continue
		}
		corners = corners[:0]
		for _, v := range p.FaceVertices(f) {
			corners = append(corners, parent[v])
		}
		child[cVert] = math.Centroid(corners...)
	}

	for e := 0; e < p.NumEdges(); e++ {
		cVert := r.EdgeChildVertex(e)
		if !vtr.IndexIsValid(cVert) {
			continue
		}
		ev := p.EdgeVertices(e)
		vWeights := w.EdgeVertWeights(e)
		fWeights := w.EdgeFaceWeights(e)
		if !hasWeight(fWeights) {
			// Crease and boundary points lie on the edge.
			child[cVert] = parent[ev[0]].Lerp(parent[ev[1]], float32(vWeights[1]))
			continue
		}

		dst := parent[ev[0]].Scale(float32(vWeights[0])).AddWeighted(parent[ev[1]], float32(vWeights[1]))
		for i, f := range p.EdgeFaces(e) {
			if fWeights[i] == 0 {
				continue
			}
			dst = dst.AddWeighted(w.faceSource(parent, child, f, e), float32(fWeights[i]))
		}
		child[cVert] = dst
	}

	for v := 0; v < p.NumVertices(); v++ {
		cVert := r.VertexChildVertex(v)
		if !vtr.IndexIsValid(cVert) {
			continue
		}
		dst := parent[v].Scale(float32(w.vertVertWeights[v]))

		eWeights := w.VertEdgeWeights(v)
		for i, e := range p.VertexEdges(v) {
			if eWeights[i] == 0 {
				continue
			}
			ev := p.EdgeVertices(e)
			other := ev[0]
			if other == v {
				other = ev[1]
			}
			dst = dst.AddWeighted(parent[other], float32(eWeights[i]))
		}

		fWeights := w.VertFaceWeights(v)
		for i, f := range p.VertexFaces(v) {
			if fWeights[i] == 0 {
				continue
			}
			dst = dst.AddWeighted(child[r.FaceChildVertex(f)], float32(fWeights[i]))
		}
		child[cVert] = dst
	}
	return child, nil
}

// faceSource returns the value an edge mask weights for face f: the face
// center for quad splits, the vertex opposite edge e for tri splits.
func (w *Weights) faceSource(parent, child []math.Vec3, f, e vtr.Index) math.Vec3 {
	p := w.refinement.Parent()
	if w.AreFaceWeightsForFaceCenters() {
		return child[w.refinement.FaceChildVertex(f)]
	}
	k := p.FaceEdges(f).FindIndex(e)
	fVerts := p.FaceVertices(f)
	return parent[fVerts[(k+2)%len(fVerts)]]
}

func hasWeight(weights []float64) bool {
	for _, wt := range weights {
		if wt != 0 {
			return true
		}
	}
	return false
}
