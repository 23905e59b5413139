package vtr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/subdiv/pkg/sdc"
)

func refineSparse(t *testing.T, parent *Level, selectFn func(*SparseSelector) error) *Refinement {
	t.Helper()
	r, err := NewRefinement(parent, NewLevel(), parentOptions(parent))
	require.NoError(t, err)
	sel := NewSparseSelector(r)
	require.NoError(t, selectFn(sel))
	require.False(t, sel.IsSelectionEmpty())
	require.NoError(t, r.Refine(Options{Sparse: true}))
	return r
}

func parentOptions(l *Level) sdc.Options {
	if l.NumFaces() > 0 && l.NumFaceVertices(0) == 3 {
		return loopOptions()
	}
	return catmarkOptions()
}

func TestSparseOneFaceWithNeighbors(t *testing.T) {
	parent := grid2x2(t)
	r := refineSparse(t, parent, func(s *SparseSelector) error { return s.SelectFace(0) })
	child := r.Child()

	assert.False(t, r.IsUniform())
	assert.Equal(t, 9, child.NumFaces())
	assert.Equal(t, 24, child.NumEdges())
	assert.Equal(t, 16, child.NumVertices())

	// All children of the selected face, complete.
	for _, cFace := range r.FaceChildFaces(0) {
		require.True(t, IndexIsValid(cFace))
		assert.False(t, r.ChildFaceTag(cFace).Incomplete)
	}

	// Neighbors contribute the child faces at selected corners only.
	validChildren := func(f Index) int {
		n := 0
		for _, cFace := range r.FaceChildFaces(f) {
			if IndexIsValid(cFace) {
				n++
				assert.True(t, r.ChildFaceTag(cFace).Incomplete)
			}
		}
		return n
	}
	assert.Equal(t, 2, validChildren(1))
	assert.Equal(t, 2, validChildren(2))
	assert.Equal(t, 1, validChildren(3))

	// Vertices 6, 7, 8, 2 and 5 are not refined.
	for _, v := range []Index{2, 5, 6, 7, 8} {
		assert.Equal(t, InvalidIndex, r.VertexChildVertex(v))
	}
	assert.Equal(t, InvalidIndex, r.EdgeChildVertex(parent.FindEdge(7, 8)))

	// Edge 1-2 has only its half at vertex 1.
	e12 := parent.FindEdge(1, 2)
	assert.Equal(t, SparseTag{Transitional: 1}, r.ParentEdgeSparseTag(e12))
	cMid := r.EdgeChildVertex(e12)
	require.True(t, IndexIsValid(cMid))
	assert.True(t, r.ChildVertexTag(cMid).Incomplete)
	assert.True(t, child.VertexTag(cMid).Incomplete)

	assert.Equal(t, SparseTag{Selected: true}, r.ParentFaceSparseTag(0))
	// Face 1 is bordered by transitional edges 1-2 and 5-4.
	assert.Equal(t, uint8(0b0101), r.ParentFaceSparseTag(1).Transitional)

	cCenter := r.VertexChildVertex(4)
	assert.False(t, child.VertexTag(cCenter).Incomplete)

	requireConsistentLevel(t, child)
}

func TestSparseAllEqualsUniform(t *testing.T) {
	for _, level := range []func(*testing.T) *Level{cube, grid2x2, tetrahedron} {
		uniform := refineUniform(t, level(t), parentOptions(level(t)))

		parent := level(t)
		sparse := refineSparse(t, parent, func(s *SparseSelector) error {
			for f := 0; f < parent.NumFaces(); f++ {
				if err := s.SelectFace(f); err != nil {
					return err
				}
			}
			return nil
		})

		u, s := uniform.Child(), sparse.Child()
		require.Equal(t, u.NumFaces(), s.NumFaces())
		require.Equal(t, u.NumEdges(), s.NumEdges())
		require.Equal(t, u.NumVertices(), s.NumVertices())
		for f := 0; f < u.NumFaces(); f++ {
			assert.Equal(t, u.FaceVertices(f), s.FaceVertices(f))
			assert.Equal(t, u.FaceEdges(f), s.FaceEdges(f))
			assert.False(t, sparse.ChildFaceTag(f).Incomplete)
		}
		for e := 0; e < u.NumEdges(); e++ {
			assert.Equal(t, u.EdgeVertices(e), s.EdgeVertices(e))
			assert.Equal(t, u.EdgeSharpness(e), s.EdgeSharpness(e))
		}
		for v := 0; v < u.NumVertices(); v++ {
			assert.Equal(t, u.VertexTag(v), s.VertexTag(v))
			assert.ElementsMatch(t, []Index(u.VertexEdges(v)), []Index(s.VertexEdges(v)))
		}
	}
}

func TestSparseTriSelectedVertex(t *testing.T) {
	parent := tetrahedron(t)
	r := refineSparse(t, parent, func(s *SparseSelector) error { return s.SelectVertex(0) })
	child := r.Child()

	// A fan of three corner triangles around the vertex.
	assert.Equal(t, 3, child.NumFaces())
	assert.Equal(t, 6, child.NumEdges())
	assert.Equal(t, 4, child.NumVertices())
	for f := 0; f < parent.NumFaces(); f++ {
		assert.Equal(t, InvalidIndex, r.FaceChildFaces(f)[triCenterFace])
	}
	assert.Len(t, child.VertexFaces(r.VertexChildVertex(0)), 3)
	requireConsistentLevel(t, child)
}

func TestSparseTriSelectedEdge(t *testing.T) {
	parent := tetrahedron(t)
	e01 := parent.FindEdge(0, 1)
	r := refineSparse(t, parent, func(s *SparseSelector) error { return s.SelectEdge(e01) })

	for _, f := range parent.EdgeFaces(e01) {
		assert.True(t, IndexIsValid(r.FaceChildFaces(f)[triCenterFace]))
		for _, cEdge := range r.FaceChildEdges(f) {
			assert.True(t, IndexIsValid(cEdge))
		}
	}
	requireConsistentLevel(t, r.Child())
}

func TestSparseSecondLevel(t *testing.T) {
	first := refineSparse(t, grid2x2(t), func(s *SparseSelector) error { return s.SelectFace(3) })
	level1 := first.Child()
	requireConsistentLevel(t, level1)

	corner := first.FaceChildFaces(3)[0]
	second := refineSparse(t, level1, func(s *SparseSelector) error { return s.SelectFace(corner) })
	assert.Equal(t, 2, second.Child().Depth())
	requireConsistentLevel(t, second.Child())
}

func TestUniformAfterSparseClearsIncomplete(t *testing.T) {
	parent := grid2x2(t)
	first := refineSparse(t, parent, func(s *SparseSelector) error { return s.SelectFace(0) })
	level1 := first.Child()
	cMid := first.EdgeChildVertex(parent.FindEdge(1, 2))
	require.True(t, level1.VertexTag(cMid).Incomplete)

	second := refineUniform(t, level1, catmarkOptions())
	level2 := second.Child()
	require.True(t, IndexIsValid(second.VertexChildVertex(cMid)))
	for v := 0; v < level2.NumVertices(); v++ {
		assert.False(t, level2.VertexTag(v).Incomplete, "vertex %d", v)
	}
	requireConsistentLevel(t, level2)
}

func TestSparseSelectorErrors(t *testing.T) {
	r, err := NewRefinement(grid2x2(t), NewLevel(), catmarkOptions())
	require.NoError(t, err)
	sel := NewSparseSelector(r)
	assert.Same(t, r, sel.Refinement())
	assert.True(t, sel.IsSelectionEmpty())

	assert.ErrorIs(t, sel.SelectFace(4), ErrInvalidTopology)
	assert.ErrorIs(t, sel.SelectEdge(-1), ErrInvalidTopology)
	assert.ErrorIs(t, sel.SelectVertex(9), ErrInvalidTopology)
	assert.True(t, sel.IsSelectionEmpty())

	require.NoError(t, sel.SelectEdge(0))
	assert.False(t, sel.IsSelectionEmpty())
	require.NoError(t, r.Refine(Options{Sparse: true}))
	assert.ErrorIs(t, sel.SelectVertex(0), ErrAlreadyRefined)
}
