package vtr

import (
	"fmt"

	"github.com/Faultbox/subdiv/pkg/sdc"
)

type edgeKey struct {
	v0, v1 Index
}

func newEdgeKey(a, b Index) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// NewLevelFromFaceVertices builds a base level from per-face vertex counts
// and a flat list of face vertices. Edges are created in order of first
// appearance; edge i of a face joins its vertices i and i+1. All six
// relations are populated.
func NewLevelFromFaceVertices(numVertices int, faceVertCounts []int, faceVertIndices []Index) (*Level, error) {
	if numVertices < 0 {
		return nil, fmt.Errorf("%w: negative vertex count %d", ErrInvalidTopology, numVertices)
	}

	total := 0
	for f, n := range faceVertCounts {
		if n < 3 {
			return nil, fmt.Errorf("%w: face %d has %d vertices", ErrInvalidTopology, f, n)
		}
		total += n
	}
	if total != len(faceVertIndices) {
		return nil, fmt.Errorf("%w: face vertex counts sum to %d, got %d indices",
			ErrInvalidTopology, total, len(faceVertIndices))
	}
	for i, v := range faceVertIndices {
		if v < 0 || v >= numVertices {
			return nil, fmt.Errorf("%w: face vertex %d references vertex %d of %d",
				ErrInvalidTopology, i, v, numVertices)
		}
	}

	l := &Level{
		faceCount: len(faceVertCounts),
		vertCount: numVertices,
	}

	l.faceVertCountsAndOffsets = make([]Index, 2*l.faceCount)
	l.faceVertIndices = append([]Index(nil), faceVertIndices...)
	offset := 0
	for f, n := range faceVertCounts {
		l.faceVertCountsAndOffsets[2*f] = n
		l.faceVertCountsAndOffsets[2*f+1] = offset
		offset += n
	}

	// Edges and face-edges
	edgeOf := make(map[edgeKey]Index, total)
	l.faceEdgeIndices = make([]Index, total)
	for f := 0; f < l.faceCount; f++ {
		fVerts := l.FaceVertices(f)
		fEdges := l.FaceEdges(f)
		for i := range fVerts {
			v0 := fVerts[i]
			v1 := fVerts[(i+1)%len(fVerts)]
			if v0 == v1 {
				return nil, fmt.Errorf("%w: face %d has a degenerate edge at vertex %d", ErrInvalidTopology, f, v0)
			}
			key := newEdgeKey(v0, v1)
			e, ok := edgeOf[key]
			if !ok {
				e = l.edgeCount
				edgeOf[key] = e
				l.edgeVertIndices = append(l.edgeVertIndices, v0, v1)
				l.edgeCount++
			}
			fEdges[i] = e
		}
	}

	// Edge-faces
	edgeFaceCounts := make([]int, l.edgeCount)
	for _, e := range l.faceEdgeIndices {
		edgeFaceCounts[e]++
	}
	l.edgeFaceCountsAndOffsets, l.edgeFaceIndices = packCounts(edgeFaceCounts)
	l.maxEdgeFaces = maxInt(edgeFaceCounts)
	fill := make([]int, l.edgeCount)
	for f := 0; f < l.faceCount; f++ {
		for _, e := range l.FaceEdges(f) {
			l.EdgeFaces(e)[fill[e]] = f
			fill[e]++
		}
	}

	// Vertex-faces
	vertFaceCounts := make([]int, l.vertCount)
	for _, v := range l.faceVertIndices {
		vertFaceCounts[v]++
	}
	l.vertFaceCountsAndOffsets, l.vertFaceIndices = packCounts(vertFaceCounts)
	fill = make([]int, l.vertCount)
	for f := 0; f < l.faceCount; f++ {
		for _, v := range l.FaceVertices(f) {
			l.VertexFaces(v)[fill[v]] = f
			fill[v]++
		}
	}

	// Vertex-edges
	vertEdgeCounts := make([]int, l.vertCount)
	for _, v := range l.edgeVertIndices {
		vertEdgeCounts[v]++
	}
	l.vertEdgeCountsAndOffsets, l.vertEdgeIndices = packCounts(vertEdgeCounts)
	l.maxValence = maxInt(vertEdgeCounts)
	fill = make([]int, l.vertCount)
	for e := 0; e < l.edgeCount; e++ {
		for _, v := range l.EdgeVertices(e) {
			l.VertexEdges(v)[fill[v]] = e
			fill[v]++
		}
	}

	l.faceTags = make([]FTag, l.faceCount)
	l.edgeTags = make([]ETag, l.edgeCount)
	l.edgeSharpness = make([]float32, l.edgeCount)
	l.vertTags = make([]VTag, l.vertCount)
	l.vertSharpness = make([]float32, l.vertCount)

	return l, nil
}

func packCounts(counts []int) (countsAndOffsets []Index, indices []Index) {
	countsAndOffsets = make([]Index, 2*len(counts))
	offset := 0
	for i, n := range counts {
		countsAndOffsets[2*i] = n
		countsAndOffsets[2*i+1] = offset
		offset += n
	}
	return countsAndOffsets, make([]Index, offset)
}

func maxInt(values []int) int {
	m := 0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// SetEdgeSharpness assigns a sharpness value to edge e.
func (l *Level) SetEdgeSharpness(e Index, sharpness float32) error {
	if e < 0 || e >= l.edgeCount {
		return fmt.Errorf("%w: edge %d of %d", ErrInvalidTopology, e, l.edgeCount)
	}
	l.edgeSharpness[e] = sharpness
	return nil
}

// SetVertexSharpness assigns a sharpness value to vertex v.
func (l *Level) SetVertexSharpness(v Index, sharpness float32) error {
	if v < 0 || v >= l.vertCount {
		return fmt.Errorf("%w: vertex %d of %d", ErrInvalidTopology, v, l.vertCount)
	}
	l.vertSharpness[v] = sharpness
	return nil
}

// SetFaceHole marks face f as a hole.
func (l *Level) SetFaceHole(f Index, hole bool) error {
	if f < 0 || f >= l.faceCount {
		return fmt.Errorf("%w: face %d of %d", ErrInvalidTopology, f, l.faceCount)
	}
	l.faceTags[f].Hole = hole
	return nil
}

// InitializeTags classifies every edge and vertex of a base level: boundary
// and non-manifold status, sharpness implied by the boundary rules, and the
// resulting vertex rule. Call it after all sharpness values are assigned.
func (l *Level) InitializeTags(opts sdc.Options) {
	creasing := sdc.NewCrease(opts)

	for e := 0; e < l.edgeCount; e++ {
		tag := &l.edgeTags[e]
		nFaces := len(l.EdgeFaces(e))
		tag.Boundary = nFaces == 1
		tag.NonManifold = nFaces == 0 || nFaces > 2

		if tag.NonManifold || (tag.Boundary && opts.VtxBoundaryInterpolation != sdc.VtxBoundaryNone) {
			l.edgeSharpness[e] = sdc.SharpnessInfinite
		}
		tag.InfSharp = sdc.IsInfinite(l.edgeSharpness[e])
		tag.SemiSharp = sdc.IsSemiSharp(l.edgeSharpness[e])
	}

	regularValence := opts.Scheme.RegularVertexValence()
	for v := 0; v < l.vertCount; v++ {
		tag := &l.vertTags[v]
		vEdges := l.VertexEdges(v)
		vFaces := l.VertexFaces(v)

		*tag = VTag{}
		infEdges, semiEdges := 0, 0
		for _, e := range vEdges {
			eTag := l.edgeTags[e]
			tag.Boundary = tag.Boundary || eTag.Boundary
			tag.NonManifold = tag.NonManifold || eTag.NonManifold
			if eTag.InfSharp {
				infEdges++
			} else if eTag.SemiSharp {
				semiEdges++
			}
		}
		if len(vFaces) == 0 {
			tag.NonManifold = true
		}
		tag.Corner = tag.Boundary && len(vFaces) == 1
		if tag.Corner && opts.VtxBoundaryInterpolation == sdc.VtxBoundaryEdgeAndCorner {
			l.vertSharpness[v] = sdc.SharpnessInfinite
		}

		tag.InfSharp = sdc.IsInfinite(l.vertSharpness[v])
		tag.SemiSharp = sdc.IsSemiSharp(l.vertSharpness[v])
		tag.InfSharpEdges = infEdges > 0
		tag.SemiSharpEdges = semiEdges > 0
		tag.Rule = creasing.DetermineVertexVertexRule(l.vertSharpness[v], infEdges+semiEdges)

		switch {
		case tag.NonManifold:
			tag.Xordinary = true
		case tag.Corner:
			tag.Xordinary = opts.Scheme.TopologicalSplitType() == sdc.SplitToTris
		case tag.Boundary:
			tag.Xordinary = len(vFaces) != regularValence/2
		default:
			tag.Xordinary = len(vFaces) != regularValence
		}
	}
}

// Validate checks that every relation present in the level references
// components within range and that paired relations agree in size.
func (l *Level) Validate() error {
	if len(l.faceVertCountsAndOffsets) != 2*l.faceCount {
		return fmt.Errorf("%w: face counts/offsets sized %d for %d faces",
			ErrInvalidTopology, len(l.faceVertCountsAndOffsets), l.faceCount)
	}
	for f := 0; f < l.faceCount; f++ {
		fVerts := l.FaceVertices(f)
		if fVerts == nil || len(fVerts) < 3 {
			return fmt.Errorf("%w: face %d has no valid vertex run", ErrInvalidTopology, f)
		}
		if err := checkRange(fVerts, l.vertCount, "face", f, "vertex"); err != nil {
			return err
		}
		if len(l.faceEdgeIndices) > 0 {
			if err := checkRange(l.FaceEdges(f), l.edgeCount, "face", f, "edge"); err != nil {
				return err
			}
		}
	}
	if len(l.edgeVertIndices) > 0 {
		if len(l.edgeVertIndices) != 2*l.edgeCount {
			return fmt.Errorf("%w: edge vertices sized %d for %d edges",
				ErrInvalidTopology, len(l.edgeVertIndices), l.edgeCount)
		}
		if err := checkRange(l.edgeVertIndices, l.vertCount, "edge", -1, "vertex"); err != nil {
			return err
		}
	}
	for e := 0; e < l.edgeCount && len(l.edgeFaceCountsAndOffsets) > 0; e++ {
		if err := checkRange(l.EdgeFaces(e), l.faceCount, "edge", e, "face"); err != nil {
			return err
		}
	}
	for v := 0; v < l.vertCount && len(l.vertFaceCountsAndOffsets) > 0; v++ {
		if err := checkRange(l.VertexFaces(v), l.faceCount, "vertex", v, "face"); err != nil {
			return err
		}
	}
	for v := 0; v < l.vertCount && len(l.vertEdgeCountsAndOffsets) > 0; v++ {
		if err := checkRange(l.VertexEdges(v), l.edgeCount, "vertex", v, "edge"); err != nil {
			return err
		}
	}
	return nil
}

func checkRange(indices []Index, limit int, owner string, ownerIndex Index, kind string) error {
	for _, i := range indices {
		if i < 0 || i >= limit {
			return fmt.Errorf("%w: %s %d references %s %d of %d",
				ErrInvalidTopology, owner, ownerIndex, kind, i, limit)
		}
	}
	return nil
}
