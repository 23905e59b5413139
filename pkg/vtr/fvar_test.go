package vtr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/subdiv/pkg/sdc"
)

// seamedPair is two quads sharing edge 1-4 whose face-varying values are
// disjoint, so the shared edge is a seam:
//
//	3 4 5
//	0 1 2
func seamedPair(t *testing.T, opts sdc.Options) *Level {
	t.Helper()
	l := newTestLevel(t, 6, []int{4, 4}, []Index{
		0, 1, 4, 3,
		1, 2, 5, 4,
	}, opts)
	c, err := l.AddFVarChannel(opts, 8, []Index{
		0, 1, 2, 3,
		4, 5, 6, 7,
	})
	require.NoError(t, err)
	require.Equal(t, 0, c)
	return l
}

func TestAddFVarChannel(t *testing.T) {
	opts := catmarkOptions()
	opts.FVarLinearInterpolation = sdc.FVarLinearNone
	l := seamedPair(t, opts)
	fv := l.FVarChannel(0)
	require.NotNil(t, fv)

	assert.Equal(t, 8, fv.NumValues())
	assert.Equal(t, IndexArray{4, 5, 6, 7}, fv.FaceValues(1))

	assert.Equal(t, 1, fv.NumVertexValues(0))
	assert.Equal(t, IndexArray{1, 4}, fv.VertexValues(1))
	assert.Equal(t, IndexArray{0, 1}, fv.VertexFaceSiblings(1))

	seam := l.FindEdge(1, 4)
	assert.True(t, fv.EdgeTag(seam).Mismatch)
	assert.False(t, fv.EdgeTag(l.FindEdge(0, 1)).Mismatch)

	for _, tag := range fv.VertexValueTags(1) {
		assert.Equal(t, FVarValueTag{Mismatch: true, Crease: true}, tag)
	}
	assert.Equal(t, []FVarValueTag{{}}, fv.VertexValueTags(0))
}

func TestAddFVarChannelLinearTags(t *testing.T) {
	tests := []struct {
		linear sdc.FVarLinearInterpolation
		seam   FVarValueTag
		plain  FVarValueTag
	}{
		{sdc.FVarLinearNone, FVarValueTag{Mismatch: true, Crease: true}, FVarValueTag{}},
		{sdc.FVarLinearCornersOnly, FVarValueTag{Mismatch: true, Corner: true}, FVarValueTag{}},
		{sdc.FVarLinearBoundaries, FVarValueTag{Mismatch: true, Corner: true}, FVarValueTag{}},
		{sdc.FVarLinearAll, FVarValueTag{Mismatch: true, Corner: true}, FVarValueTag{Mismatch: true, Corner: true}},
	}

	for _, tt := range tests {
		t.Run(tt.linear.String(), func(t *testing.T) {
			opts := catmarkOptions()
			opts.FVarLinearInterpolation = tt.linear
			fv := seamedPair(t, opts).FVarChannel(0)

			// Each seam value at vertex 1 is used by a single face.
			assert.Equal(t, tt.seam, fv.VertexValueTags(1)[0])
			assert.Equal(t, tt.plain, fv.VertexValueTags(0)[0])
		})
	}
}

func TestAddFVarChannelErrors(t *testing.T) {
	l := singleQuad(t)
	_, err := l.AddFVarChannel(catmarkOptions(), 4, []Index{0, 1, 2})
	assert.ErrorIs(t, err, ErrInvalidFVarChannel)
	_, err = l.AddFVarChannel(catmarkOptions(), 3, []Index{0, 1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidFVarChannel)
	assert.Equal(t, 0, l.NumFVarChannels())
}

func TestRefineFVarSeam(t *testing.T) {
	opts := catmarkOptions()
	opts.FVarLinearInterpolation = sdc.FVarLinearNone
	parent := seamedPair(t, opts)
	r := refineUniform(t, parent, opts)
	child := r.Child()

	require.Equal(t, 1, child.NumFVarChannels())
	fr := r.FVarChannel(0)
	require.NotNil(t, fr)
	assert.Same(t, parent.FVarChannel(0), fr.Parent())
	cfv := fr.Child()
	assert.Same(t, child.FVarChannel(0), cfv)

	// 2 face values, 6 edge values plus 2 at the seam, 8 vertex values.
	assert.Equal(t, 18, cfv.NumValues())

	seam := parent.FindEdge(1, 4)
	mid := r.EdgeChildVertex(seam)
	assert.Equal(t, 2, cfv.NumVertexValues(mid))
	assert.Equal(t, 2, cfv.NumVertexValues(r.VertexChildVertex(1)))
	assert.Equal(t, 1, cfv.NumVertexValues(r.VertexChildVertex(0)))
	assert.Equal(t, 1, cfv.NumVertexValues(r.FaceChildVertex(0)))

	// Child faces on either side of the seam use different values.
	values := cfv.VertexValues(mid)
	for k, cFace := range child.VertexFaces(mid) {
		want := values[0]
		if r.ChildFaceParentFace(cFace) == 1 {
			want = values[1]
		}
		corner := child.FaceVertices(cFace).FindIndex(mid)
		assert.Equal(t, want, cfv.FaceValues(cFace)[corner])
		assert.Equal(t, values.FindIndex(want), cfv.VertexFaceSiblings(mid)[k])
	}
	assert.Equal(t, Index(1), fr.ChildValueParentSource(values[1]))

	mismatched := 0
	for e := 0; e < child.NumEdges(); e++ {
		if cfv.EdgeTag(e).Mismatch {
			mismatched++
			assert.Equal(t, seam, r.ChildEdgeParentIndex(e))
			assert.Equal(t, ComponentEdge, r.ChildEdgeTag(e).ParentType)
		}
	}
	assert.Equal(t, 2, mismatched)

	for _, tag := range cfv.VertexValueTags(mid) {
		assert.True(t, tag.Crease)
	}

	for cFace := 0; cFace < child.NumFaces(); cFace++ {
		for _, value := range cfv.FaceValues(cFace) {
			assert.True(t, value >= 0 && value < cfv.NumValues())
		}
	}

	// The refined channel can itself be refined.
	r2 := refineUniform(t, child, opts)
	assert.Equal(t, 2, r2.Child().FVarChannel(0).NumVertexValues(r2.VertexChildVertex(mid)))
}

func TestRefineFVarForcesVertexFaces(t *testing.T) {
	parent := seamedPair(t, catmarkOptions())
	r, err := NewRefinement(parent, NewLevel(), catmarkOptions())
	require.NoError(t, err)
	require.NoError(t, r.Refine(Options{FaceTopologyOnly: true}))

	child := r.Child()
	assert.True(t, child.HasVertexFaces())
	assert.False(t, child.HasEdgeFaces())
	assert.Equal(t, 1, child.NumFVarChannels())
}
