package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/subdiv/pkg/math"
	"github.com/Faultbox/subdiv/pkg/sdc"
	"github.com/Faultbox/subdiv/pkg/vtr"
)

const tolerance = 1e-9

func schemeOptions(scheme sdc.SchemeType) sdc.Options {
	opts := sdc.DefaultOptions()
	opts.Scheme = scheme
	return opts
}

type sharpEdge struct {
	v0, v1    vtr.Index
	sharpness float32
}

func buildLevel(t *testing.T, numVerts int, counts []int, indices []vtr.Index, opts sdc.Options, creases ...sharpEdge) *vtr.Level {
	t.Helper()
	l, err := vtr.NewLevelFromFaceVertices(numVerts, counts, indices)
	require.NoError(t, err)
	for _, c := range creases {
		e := l.FindEdge(c.v0, c.v1)
		require.True(t, vtr.IndexIsValid(e))
		require.NoError(t, l.SetEdgeSharpness(e, c.sharpness))
	}
	l.InitializeTags(opts)
	return l
}

func refine(t *testing.T, parent *vtr.Level, opts sdc.Options) *vtr.Refinement {
	t.Helper()
	r, err := vtr.NewRefinement(parent, vtr.NewLevel(), opts)
	require.NoError(t, err)
	require.NoError(t, r.Refine(vtr.Options{}))
	return r
}

// approxEqual reports whether every component differs by at most eps.
func approxEqual(a, b math.Vec3, eps float32) bool {
	d := a.Sub(b)
	for _, c := range []float32{d.X, d.Y, d.Z} {
		if c > eps || c < -eps {
			return false
		}
	}
	return true
}

func quadLevel(t *testing.T, opts sdc.Options) *vtr.Level {
	return buildLevel(t, 4, []int{4}, []vtr.Index{0, 1, 2, 3}, opts)
}

var quadPositions = []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 2, Y: 2, Z: 0}, {X: 0, Y: 2, Z: 0}}

func cubeLevel(t *testing.T, creases ...sharpEdge) *vtr.Level {
	return buildLevel(t, 8, []int{4, 4, 4, 4, 4, 4}, []vtr.Index{
		0, 1, 3, 2,
		2, 3, 5, 4,
		4, 5, 7, 6,
		6, 7, 1, 0,
		1, 7, 5, 3,
		6, 0, 2, 4,
	}, schemeOptions(sdc.SchemeCatmark), creases...)
}

var cubePositions = []math.Vec3{
	{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1},
}

func tetrahedronLevel(t *testing.T) *vtr.Level {
	return buildLevel(t, 4, []int{3, 3, 3, 3}, []vtr.Index{
		0, 1, 2,
		0, 3, 1,
		1, 3, 2,
		2, 3, 0,
	}, schemeOptions(sdc.SchemeLoop))
}

func TestComputeRequiresRefinement(t *testing.T) {
	r, err := vtr.NewRefinement(quadLevel(t, sdc.DefaultOptions()), vtr.NewLevel(), sdc.DefaultOptions())
	require.NoError(t, err)

	_, err = Compute(r)
	assert.ErrorIs(t, err, ErrNotRefined)
}

func TestQuadBoundaryMasks(t *testing.T) {
	r := refine(t, quadLevel(t, sdc.DefaultOptions()), sdc.DefaultOptions())
	w, err := Compute(r)
	require.NoError(t, err)
	require.NoError(t, w.Check(tolerance))
	assert.True(t, w.AreFaceWeightsForFaceCenters())

	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, w.FaceVertWeights(0))
	for e := 0; e < 4; e++ {
		assert.Equal(t, []float64{0.5, 0.5}, w.EdgeVertWeights(e), "edge %d", e)
		assert.Equal(t, []float64{0}, w.EdgeFaceWeights(e), "edge %d", e)
	}
	for v := 0; v < 4; v++ {
		assert.Equal(t, 1.0, w.VertVertWeight(v), "corner %d", v)
	}
}

func TestInterpolateQuad(t *testing.T) {
	for _, scheme := range []sdc.SchemeType{sdc.SchemeBilinear, sdc.SchemeCatmark} {
		t.Run(scheme.String(), func(t *testing.T) {
			opts := schemeOptions(scheme)
			r := refine(t, quadLevel(t, opts), opts)
			w, err := Compute(r)
			require.NoError(t, err)

			child, err := w.Interpolate(quadPositions)
			require.NoError(t, err)
			require.Len(t, child, 9)

			assert.True(t, approxEqual(child[r.FaceChildVertex(0)], math.Vec3{X: 1, Y: 1}, 1e-6))
			for e := 0; e < 4; e++ {
				ev := r.Parent().EdgeVertices(e)
				mid := math.Centroid(quadPositions[ev[0]], quadPositions[ev[1]])
				assert.True(t, approxEqual(child[r.EdgeChildVertex(e)], mid, 1e-6), "edge %d", e)
			}
			for v := 0; v < 4; v++ {
				assert.True(t, approxEqual(child[r.VertexChildVertex(v)], quadPositions[v], 1e-6), "vertex %d", v)
			}
		})
	}
}

func TestInterpolateSmoothCube(t *testing.T) {
	r := refine(t, cubeLevel(t), schemeOptions(sdc.SchemeCatmark))
	w, err := Compute(r)
	require.NoError(t, err)
	require.NoError(t, w.Check(tolerance))

	for v := 0; v < 8; v++ {
		assert.InDelta(t, 1.0/3, w.VertVertWeight(v), tolerance)
		for _, ew := range w.VertEdgeWeights(v) {
			assert.InDelta(t, 1.0/9, ew, tolerance)
		}
	}

	child, err := w.Interpolate(cubePositions)
	require.NoError(t, err)

	for v, pos := range cubePositions {
		want := pos.Scale(5.0 / 9)
		got := child[r.VertexChildVertex(v)]
		assert.True(t, approxEqual(got, want, 1e-5), "vertex %d: got %+v", v, got)
	}

	e := r.Parent().FindEdge(0, 1)
	got := child[r.EdgeChildVertex(e)]
	assert.True(t, approxEqual(got, math.Vec3{X: 0, Y: -0.75, Z: 0.75}, 1e-5), "edge 0-1: got %+v", got)

	for f := 0; f < 6; f++ {
		center := child[r.FaceChildVertex(f)]
		assert.InDelta(t, 1.0, center.Length(), 1e-5, "face %d", f)
	}
}

func TestSemiSharpEdgeBlendsTowardCrease(t *testing.T) {
	r := refine(t, cubeLevel(t, sharpEdge{0, 1, 0.5}), schemeOptions(sdc.SchemeCatmark))
	w, err := Compute(r)
	require.NoError(t, err)
	require.NoError(t, w.Check(tolerance))

	e := r.Parent().FindEdge(0, 1)
	assert.InDeltaSlice(t, []float64{0.375, 0.375}, w.EdgeVertWeights(e), tolerance)
	assert.InDeltaSlice(t, []float64{0.125, 0.125}, w.EdgeFaceWeights(e), tolerance)
}

func TestInfinitelySharpCreaseVertex(t *testing.T) {
	inf := sdc.SharpnessInfinite
	r := refine(t, cubeLevel(t, sharpEdge{0, 1, inf}, sharpEdge{0, 2, inf}), schemeOptions(sdc.SchemeCatmark))
	w, err := Compute(r)
	require.NoError(t, err)
	require.NoError(t, w.Check(tolerance))

	assert.Equal(t, 0.75, w.VertVertWeight(0))
	p := r.Parent()
	for i, e := range p.VertexEdges(0) {
		want := 0.0
		if e == p.FindEdge(0, 1) || e == p.FindEdge(0, 2) {
			want = 0.125
		}
		assert.Equal(t, want, w.VertEdgeWeights(0)[i], "edge %d", e)
	}
	for _, fw := range w.VertFaceWeights(0) {
		assert.Zero(t, fw)
	}
}

func TestDecayingCreaseVertexBlendsMasks(t *testing.T) {
	r := refine(t, cubeLevel(t, sharpEdge{0, 1, 0.5}, sharpEdge{0, 2, 0.5}), schemeOptions(sdc.SchemeCatmark))
	w, err := Compute(r)
	require.NoError(t, err)
	require.NoError(t, w.Check(tolerance))

	// Half the crease mask (0.75) plus half the smooth valence-3 mask (1/3).
	assert.InDelta(t, 0.375+1.0/6, w.VertVertWeight(0), tolerance)
	for _, fw := range w.VertFaceWeights(0) {
		assert.InDelta(t, 1.0/18, fw, tolerance)
	}
}

func TestLoopTetrahedron(t *testing.T) {
	opts := schemeOptions(sdc.SchemeLoop)
	r := refine(t, tetrahedronLevel(t), opts)
	w, err := Compute(r)
	require.NoError(t, err)
	require.NoError(t, w.Check(tolerance))
	assert.False(t, w.AreFaceWeightsForFaceCenters())

	for v := 0; v < 4; v++ {
		assert.InDelta(t, 7.0/16, w.VertVertWeight(v), tolerance)
		for _, ew := range w.VertEdgeWeights(v) {
			assert.InDelta(t, 3.0/16, ew, tolerance)
		}
	}
	for e := 0; e < 6; e++ {
		assert.InDeltaSlice(t, []float64{0.375, 0.375}, w.EdgeVertWeights(e), tolerance)
		assert.InDeltaSlice(t, []float64{0.125, 0.125}, w.EdgeFaceWeights(e), tolerance)
	}

	positions := []math.Vec3{{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1}}
	child, err := w.Interpolate(positions)
	require.NoError(t, err)
	require.Len(t, child, 10)

	// Every parent edge is opposite exactly one other edge, so each edge
	// point is 3/8 of its ends plus 1/8 of the opposite pair.
	for e := 0; e < 6; e++ {
		ev := r.Parent().EdgeVertices(e)
		sum := positions[ev[0]].Add(positions[ev[1]])
		want := sum.Scale(0.375).Add(sum.Scale(-0.125))
		got := child[r.EdgeChildVertex(e)]
		assert.True(t, approxEqual(got, want, 1e-5), "edge %d: got %+v want %+v", e, got, want)
	}
}

func TestSparseMasks(t *testing.T) {
	opts := sdc.DefaultOptions()
	parent := buildLevel(t, 9, []int{4, 4, 4, 4}, []vtr.Index{
		0, 1, 4, 3,
		1, 2, 5, 4,
		3, 4, 7, 6,
		4, 5, 8, 7,
	}, opts)

	r, err := vtr.NewRefinement(parent, vtr.NewLevel(), opts)
	require.NoError(t, err)
	selector := vtr.NewSparseSelector(r)
	require.NoError(t, selector.SelectFace(0))
	require.NoError(t, r.Refine(vtr.Options{Sparse: true}))

	w, err := Compute(r)
	require.NoError(t, err)
	require.NoError(t, w.Check(tolerance))

	positions := make([]math.Vec3, 9)
	for v := range positions {
		positions[v] = math.Vec3{X: float32(v % 3), Y: float32(v / 3)}
	}
	child, err := w.Interpolate(positions)
	require.NoError(t, err)
	require.Len(t, child, r.Child().NumVertices())
	for i, c := range child {
		assert.Zero(t, c.Z, "child vertex %d", i)
	}
	assert.True(t, approxEqual(child[r.VertexChildVertex(4)], positions[4], 1e-6))
}

func TestInterpolateSizeMismatch(t *testing.T) {
	r := refine(t, quadLevel(t, sdc.DefaultOptions()), sdc.DefaultOptions())
	w, err := Compute(r)
	require.NoError(t, err)

	_, err = w.Interpolate(quadPositions[:3])
	assert.ErrorIs(t, err, ErrSizeMismatch)
}
