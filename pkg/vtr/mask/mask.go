// Package mask computes experimental subdivision weights for the child
// vertices of a refinement. Weights are stored relative to the parent
// topology: the weights of a child vertex at a face follow that face's
// vertices, those of a child vertex at an edge follow the edge's vertices
// and faces, and those of a child vertex at a vertex follow the vertex
// itself, its edges and its faces.
//
// The package is experimental. Weights are allocated for every parent
// component, so a sparse refinement pays for masks it never fills.
package mask

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Faultbox/subdiv/pkg/sdc"
	"github.com/Faultbox/subdiv/pkg/vtr"
)

// Mask errors.
var (
	ErrNotRefined    = errors.New("refinement has not been applied")
	ErrSizeMismatch  = errors.New("value count does not match level")
	ErrNotNormalized = errors.New("mask weights do not sum to one")
)

// Weights holds the masks of every child vertex of one refinement.
type Weights struct {
	refinement *vtr.Refinement
	scheme     sdc.SchemeType

	faceVertWeights []float64
	faceVertOffsets []int

	edgeVertWeights []float64
	edgeFaceWeights []float64
	edgeFaceOffsets []int

	vertVertWeights []float64
	vertEdgeWeights []float64
	vertEdgeOffsets []int
	vertFaceWeights []float64
	vertFaceOffsets []int
}

// Compute derives the masks of a refinement that has been applied.
func Compute(r *vtr.Refinement) (*Weights, error) {
	parent, child := r.Parent(), r.Child()
	if parent.NumVertices() > 0 && child.NumVertices() == 0 {
		return nil, ErrNotRefined
	}

	w := &Weights{refinement: r, scheme: r.SchemeOptions().Scheme}
	w.allocate()

	for f := 0; f < parent.NumFaces(); f++ {
		if vtr.IndexIsValid(r.FaceChildVertex(f)) {
			w.computeFaceVertexMask(f)
		}
	}
	for e := 0; e < parent.NumEdges(); e++ {
		if vtr.IndexIsValid(r.EdgeChildVertex(e)) {
			w.computeEdgeVertexMask(e)
		}
	}
	for v := 0; v < parent.NumVertices(); v++ {
		if vtr.IndexIsValid(r.VertexChildVertex(v)) {
			w.computeVertexVertexMask(v)
		}
	}
	return w, nil
}

func prefixOffsets(n int, count func(int) int) ([]int, int) {
	offsets := make([]int, n+1)
	for i := 0; i < n; i++ {
		offsets[i+1] = offsets[i] + count(i)
	}
	return offsets, offsets[n]
}

// TODO: size the tables from the refinement's child counts so sparse
// refinements only store masks for parents with a child vertex.
func (w *Weights) allocate() {
	p := w.refinement.Parent()

	var total int
	w.faceVertOffsets, total = prefixOffsets(p.NumFaces(), p.NumFaceVertices)
	w.faceVertWeights = make([]float64, total)

	w.edgeVertWeights = make([]float64, 2*p.NumEdges())
	w.edgeFaceOffsets, total = prefixOffsets(p.NumEdges(), func(e int) int { return len(p.EdgeFaces(e)) })
	w.edgeFaceWeights = make([]float64, total)

	w.vertVertWeights = make([]float64, p.NumVertices())
	w.vertEdgeOffsets, total = prefixOffsets(p.NumVertices(), func(v int) int { return len(p.VertexEdges(v)) })
	w.vertEdgeWeights = make([]float64, total)
	w.vertFaceOffsets, total = prefixOffsets(p.NumVertices(), func(v int) int { return len(p.VertexFaces(v)) })
	w.vertFaceWeights = make([]float64, total)
}

// Scheme returns the scheme the weights were computed for.
func (w *Weights) Scheme() sdc.SchemeType { return w.scheme }

// AreFaceWeightsForFaceCenters reports whether face weights apply to the
// child vertices at face centers (quad split) rather than to the parent
// vertex opposite the edge or vertex (tri split).
func (w *Weights) AreFaceWeightsForFaceCenters() bool {
	return w.scheme.TopologicalSplitType() == sdc.SplitToQuads
}

// FaceVertWeights returns the weights of the child vertex of face f, one per
// face vertex.
func (w *Weights) FaceVertWeights(f vtr.Index) []float64 {
	return w.faceVertWeights[w.faceVertOffsets[f]:w.faceVertOffsets[f+1]]
}

// EdgeVertWeights returns the weights of the child vertex of edge e applied
// to the edge's two vertices.
func (w *Weights) EdgeVertWeights(e vtr.Index) []float64 {
	return w.edgeVertWeights[2*e : 2*e+2]
}

// EdgeFaceWeights returns the weights of the child vertex of edge e applied
// per incident face.
func (w *Weights) EdgeFaceWeights(e vtr.Index) []float64 {
	return w.edgeFaceWeights[w.edgeFaceOffsets[e]:w.edgeFaceOffsets[e+1]]
}

// VertVertWeight returns the weight of parent vertex v in its child vertex.
func (w *Weights) VertVertWeight(v vtr.Index) float64 { return w.vertVertWeights[v] }

// VertEdgeWeights returns the weights of the child vertex of v applied to the
// opposite vertex of each incident edge.
func (w *Weights) VertEdgeWeights(v vtr.Index) []float64 {
	return w.vertEdgeWeights[w.vertEdgeOffsets[v]:w.vertEdgeOffsets[v+1]]
}

// VertFaceWeights returns the weights of the child vertex of v applied per
// incident face.
func (w *Weights) VertFaceWeights(v vtr.Index) []float64 {
	return w.vertFaceWeights[w.vertFaceOffsets[v]:w.vertFaceOffsets[v+1]]
}

// Check verifies that the mask of every child vertex sums to one.
func (w *Weights) Check(tolerance float64) error {
	r := w.refinement
	p := r.Parent()

	check := func(kind string, i int, parts ...[]float64) error {
		sum := 0.0
		for _, part := range parts {
			sum += floats.Sum(part)
		}
		if math.Abs(sum-1) > tolerance {
			return fmt.Errorf("%w: %s %d sums to %g", ErrNotNormalized, kind, i, sum)
		}
		return nil
	}

	for f := 0; f < p.NumFaces(); f++ {
		if !vtr.IndexIsValid(r.FaceChildVertex(f)) {
			continue
		}
		if err := check("face", f, w.FaceVertWeights(f)); err != nil {
			return err
		}
	}
	for e := 0; e < p.NumEdges(); e++ {
		if !vtr.IndexIsValid(r.EdgeChildVertex(e)) {
			continue
		}
		if err := check("edge", e, w.EdgeVertWeights(e), w.EdgeFaceWeights(e)); err != nil {
			return err
		}
	}
	for v := 0; v < p.NumVertices(); v++ {
		if !vtr.IndexIsValid(r.VertexChildVertex(v)) {
			continue
		}
		if err := check("vertex", v, w.vertVertWeights[v:v+1], w.VertEdgeWeights(v), w.VertFaceWeights(v)); err != nil {
			return err
		}
	}
	return nil
}

//
// Face vertices
//

func (w *Weights) computeFaceVertexMask(f vtr.Index) {
	fWeights := w.FaceVertWeights(f)
	for i := range fWeights {
		fWeights[i] = 1 / float64(len(fWeights))
	}
}

//
// Edge vertices
//

func (w *Weights) computeEdgeVertexMask(e vtr.Index) {
	p := w.refinement.Parent()
	eWeights := w.EdgeVertWeights(e)
	fWeights := w.EdgeFaceWeights(e)

	if w.scheme == sdc.SchemeBilinear {
		eWeights[0], eWeights[1] = 0.5, 0.5
		return
	}

	tag := p.EdgeTag(e)
	sharpness := float64(p.EdgeSharpness(e))
	if tag.Boundary || tag.NonManifold || sharpness >= 1 || len(fWeights) == 0 {
		eWeights[0], eWeights[1] = 0.5, 0.5
		return
	}

	w.smoothEdgeMask(eWeights, fWeights)
	if sharpness > 0 {
		// Fractionally sharp: blend toward the crease mask.
		floats.Scale(1-sharpness, eWeights)
		floats.Scale(1-sharpness, fWeights)
		floats.AddConst(0.5*sharpness, eWeights)
	}
}

func (w *Weights) smoothEdgeMask(eWeights, fWeights []float64) {
	nFaces := float64(len(fWeights))
	vertWeight, faceWeight := 0.25, 0.5/nFaces
	if w.scheme == sdc.SchemeLoop {
		vertWeight, faceWeight = 0.375, 0.25/nFaces
	}
	eWeights[0], eWeights[1] = vertWeight, vertWeight
	for i := range fWeights {
		fWeights[i] = faceWeight
	}
}

//
// Vertex vertices
//

func (w *Weights) computeVertexVertexMask(v vtr.Index) {
	r := w.refinement
	if w.scheme == sdc.SchemeBilinear {
		w.vertVertWeights[v] = 1
		return
	}

	pRule := w.parentVertexRule(v)
	w.assignVertexMask(v, pRule)

	cRule := r.Child().VertexTag(r.VertexChildVertex(v)).Rule
	if cRule == pRule || cRule == sdc.RuleUnknown || pRule == sdc.RuleSmooth || pRule == sdc.RuleDart {
		return
	}

	// The vertex loses sharpness in this level: blend the parent and child
	// masks by the fraction of sharpness that remains.
	frac := w.sharpnessFraction(v)
	if frac >= 1 {
		return
	}
	vertVert := w.vertVertWeights[v : v+1]
	vertEdges := w.VertEdgeWeights(v)
	vertFaces := w.VertFaceWeights(v)
	pVertVert := vertVert[0]
	pVertEdges := append([]float64(nil), vertEdges...)
	pVertFaces := append([]float64(nil), vertFaces...)

	w.assignVertexMask(v, cRule)
	floats.Scale(1-frac, vertVert)
	floats.Scale(1-frac, vertEdges)
	floats.Scale(1-frac, vertFaces)
	vertVert[0] += frac * pVertVert
	floats.AddScaled(vertEdges, frac, pVertEdges)
	floats.AddScaled(vertFaces, frac, pVertFaces)
}

// parentVertexRule classifies a parent vertex for masking. Boundary and
// non-manifold edges count as sharp.
func (w *Weights) parentVertexRule(v vtr.Index) sdc.Rule {
	p := w.refinement.Parent()
	creasing := sdc.NewCrease(w.refinement.SchemeOptions())
	sharpEdges := 0
	for _, e := range p.VertexEdges(v) {
		if w.isSharpEdge(e) {
			sharpEdges++
		}
	}
	return creasing.DetermineVertexVertexRule(p.VertexSharpness(v), sharpEdges)
}

func (w *Weights) isSharpEdge(e vtr.Index) bool {
	p := w.refinement.Parent()
	tag := p.EdgeTag(e)
	return tag.Boundary || tag.NonManifold || sdc.IsSharp(p.EdgeSharpness(e))
}

// sharpnessFraction returns the sharpness the vertex retains in [0, 1]: its
// own sharpness if semi-sharp, else the average of its semi-sharp edges.
func (w *Weights) sharpnessFraction(v vtr.Index) float64 {
	p := w.refinement.Parent()
	if s := p.VertexSharpness(v); sdc.IsSemiSharp(s) {
		return math.Min(float64(s), 1)
	}
	sum, n := 0.0, 0
	for _, e := range p.VertexEdges(v) {
		if s := p.EdgeSharpness(e); sdc.IsSemiSharp(s) {
			sum += float64(s)
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return math.Min(sum/float64(n), 1)
}

func (w *Weights) assignVertexMask(v vtr.Index, rule sdc.Rule) {
	vertEdges := w.VertEdgeWeights(v)
	vertFaces := w.VertFaceWeights(v)
	for i := range vertEdges {
		vertEdges[i] = 0
	}
	for i := range vertFaces {
		vertFaces[i] = 0
	}

	switch rule {
	case sdc.RuleCorner:
		w.vertVertWeights[v] = 1
	case sdc.RuleCrease:
		w.vertVertWeights[v] = 0.75
		for i, e := range w.refinement.Parent().VertexEdges(v) {
			if w.isSharpEdge(e) {
				vertEdges[i] = 0.125
			}
		}
	default:
		w.smoothVertexMask(v, vertEdges, vertFaces)
	}
}

func (w *Weights) smoothVertexMask(v vtr.Index, vertEdges, vertFaces []float64) {
	n := float64(len(vertEdges))
	if n == 0 {
		w.vertVertWeights[v] = 1
		return
	}

	if w.scheme == sdc.SchemeLoop {
		c := 0.375 + 0.25*math.Cos(2*math.Pi/n)
		beta := (0.625 - c*c) / n
		w.vertVertWeights[v] = 1 - n*beta
		for i := range vertEdges {
			vertEdges[i] = beta
		}
		return
	}

	// Catmark: (n-2)/n for the vertex, 1/n^2 per edge end and face center.
	w.vertVertWeights[v] = (n - 2) / n
	for i := range vertEdges {
		vertEdges[i] = 1 / (n * n)
	}
	for i := range vertFaces {
		vertFaces[i] = 1 / (n * n)
	}
}
