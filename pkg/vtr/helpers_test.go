package vtr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/subdiv/pkg/sdc"
)

func catmarkOptions() sdc.Options {
	return sdc.DefaultOptions()
}

func loopOptions() sdc.Options {
	opts := sdc.DefaultOptions()
	opts.Scheme = sdc.SchemeLoop
	return opts
}

func newTestLevel(t *testing.T, numVerts int, counts []int, indices []Index, opts sdc.Options) *Level {
	t.Helper()
	l, err := NewLevelFromFaceVertices(numVerts, counts, indices)
	require.NoError(t, err)
	l.InitializeTags(opts)
	return l
}

// singleQuad is one quad with vertices 0-3.
func singleQuad(t *testing.T) *Level {
	return newTestLevel(t, 4, []int{4}, []Index{0, 1, 2, 3}, catmarkOptions())
}

// cube is a closed quad mesh with 8 vertices, 12 edges and 6 faces.
func cube(t *testing.T) *Level {
	return newTestLevel(t, 8, []int{4, 4, 4, 4, 4, 4}, []Index{
		0, 1, 3, 2,
		2, 3, 5, 4,
		4, 5, 7, 6,
		6, 7, 1, 0,
		1, 7, 5, 3,
		6, 0, 2, 4,
	}, catmarkOptions())
}

// grid2x2 is a 2x2 grid of quads:
//
//	6 7 8
//	3 4 5
//	0 1 2
func grid2x2(t *testing.T) *Level {
	return newTestLevel(t, 9, []int{4, 4, 4, 4}, []Index{
		0, 1, 4, 3,
		1, 2, 5, 4,
		3, 4, 7, 6,
		4, 5, 8, 7,
	}, catmarkOptions())
}

// tetrahedron is a closed triangle mesh with 4 vertices, 6 edges and 4 faces.
func tetrahedron(t *testing.T) *Level {
	return newTestLevel(t, 4, []int{3, 3, 3, 3}, []Index{
		0, 1, 2,
		0, 3, 1,
		1, 3, 2,
		2, 3, 0,
	}, loopOptions())
}

func refineUniform(t *testing.T, parent *Level, opts sdc.Options) *Refinement {
	t.Helper()
	r, err := NewRefinement(parent, NewLevel(), opts)
	require.NoError(t, err)
	require.NoError(t, r.Refine(Options{}))
	return r
}

// requireConsistentLevel checks that all six relations of l agree with each
// other.
func requireConsistentLevel(t *testing.T, l *Level) {
	t.Helper()
	require.NoError(t, l.Validate())

	for f := 0; f < l.NumFaces(); f++ {
		fVerts := l.FaceVertices(f)
		fEdges := l.FaceEdges(f)
		require.Len(t, fEdges, len(fVerts), "face %d", f)
		for i, e := range fEdges {
			v0, v1 := fVerts[i], fVerts[(i+1)%len(fVerts)]
			eVerts := l.EdgeVertices(e)
			require.ElementsMatch(t, []Index{v0, v1}, []Index(eVerts), "face %d edge %d", f, i)
			require.GreaterOrEqual(t, l.EdgeFaces(e).FindIndex(f), 0, "edge %d lacks face %d", e, f)
		}
		for _, v := range fVerts {
			require.GreaterOrEqual(t, l.VertexFaces(v).FindIndex(f), 0, "vertex %d lacks face %d", v, f)
		}
	}

	edgeFaceTotal := 0
	for e := 0; e < l.NumEdges(); e++ {
		for _, f := range l.EdgeFaces(e) {
			require.GreaterOrEqual(t, l.FaceEdges(f).FindIndex(e), 0, "face %d lacks edge %d", f, e)
		}
		for _, v := range l.EdgeVertices(e) {
			require.GreaterOrEqual(t, l.VertexEdges(v).FindIndex(e), 0, "vertex %d lacks edge %d", v, e)
		}
		edgeFaceTotal += len(l.EdgeFaces(e))
	}
	require.Equal(t, l.NumFaceVerticesTotal(), edgeFaceTotal)

	vertFaceTotal, vertEdgeTotal := 0, 0
	for v := 0; v < l.NumVertices(); v++ {
		for _, f := range l.VertexFaces(v) {
			require.GreaterOrEqual(t, l.FaceVertices(f).FindIndex(v), 0, "face %d lacks vertex %d", f, v)
		}
		for _, e := range l.VertexEdges(v) {
			require.GreaterOrEqual(t, l.EdgeVertices(e).FindIndex(v), 0, "edge %d lacks vertex %d", e, v)
		}
		vertFaceTotal += len(l.VertexFaces(v))
		vertEdgeTotal += len(l.VertexEdges(v))
	}
	require.Equal(t, l.NumFaceVerticesTotal(), vertFaceTotal)
	require.Equal(t, 2*l.NumEdges(), vertEdgeTotal)
}
