package vtr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/subdiv/pkg/sdc"
)

func TestNewLevelFromFaceVertices(t *testing.T) {
	l := cube(t)

	assert.Equal(t, 6, l.NumFaces())
	assert.Equal(t, 12, l.NumEdges())
	assert.Equal(t, 8, l.NumVertices())
	assert.Equal(t, 24, l.NumFaceVerticesTotal())
	assert.Equal(t, 3, l.MaxValence())
	assert.Equal(t, 2, l.MaxEdgeFaces())
	assert.Equal(t, 0, l.Depth())
	requireConsistentLevel(t, l)

	// Edges follow first appearance and keep the orientation of that face.
	assert.Equal(t, IndexArray{0, 1}, l.EdgeVertices(0))
	assert.Equal(t, IndexArray{1, 3}, l.EdgeVertices(1))
	assert.Equal(t, Index(0), l.FindEdge(1, 0))
	assert.Equal(t, InvalidIndex, l.FindEdge(0, 7))
}

func TestNewLevelFromFaceVerticesErrors(t *testing.T) {
	tests := []struct {
		name    string
		verts   int
		counts  []int
		indices []Index
	}{
		{"too few face vertices", 3, []int{2}, []Index{0, 1}},
		{"count mismatch", 4, []int{4}, []Index{0, 1, 2}},
		{"vertex out of range", 3, []int{3}, []Index{0, 1, 3}},
		{"degenerate edge", 3, []int{3}, []Index{0, 0, 1}},
		{"negative vertex count", -1, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLevelFromFaceVertices(tt.verts, tt.counts, tt.indices)
			assert.ErrorIs(t, err, ErrInvalidTopology)
		})
	}
}

func TestInitializeTags(t *testing.T) {
	tests := []struct {
		name       string
		boundary   sdc.VtxBoundaryInterpolation
		edgeSharp  float32
		cornerRule sdc.Rule
	}{
		{"edge and corner", sdc.VtxBoundaryEdgeAndCorner, sdc.SharpnessInfinite, sdc.RuleCorner},
		{"edge only", sdc.VtxBoundaryEdgeOnly, sdc.SharpnessInfinite, sdc.RuleCrease},
		{"none", sdc.VtxBoundaryNone, sdc.SharpnessSmooth, sdc.RuleSmooth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := catmarkOptions()
			opts.VtxBoundaryInterpolation = tt.boundary
			l := newTestLevel(t, 9, []int{4, 4, 4, 4}, []Index{
				0, 1, 4, 3,
				1, 2, 5, 4,
				3, 4, 7, 6,
				4, 5, 8, 7,
			}, opts)

			e01 := l.FindEdge(0, 1)
			assert.True(t, l.EdgeTag(e01).Boundary)
			assert.Equal(t, tt.edgeSharp, l.EdgeSharpness(e01))
			assert.False(t, l.EdgeTag(l.FindEdge(1, 4)).Boundary)

			corner := l.VertexTag(0)
			assert.True(t, corner.Corner)
			assert.Equal(t, tt.cornerRule, corner.Rule)
			assert.False(t, corner.Xordinary)

			// The boundary vertex between two faces is regular.
			assert.False(t, l.VertexTag(1).Xordinary)
			assert.True(t, l.VertexTag(1).Boundary)

			center := l.VertexTag(4)
			assert.False(t, center.Boundary)
			assert.False(t, center.Xordinary)
			assert.Equal(t, sdc.RuleSmooth, center.Rule)
		})
	}
}

func TestInitializeTagsNonManifold(t *testing.T) {
	// Three triangles share edge 0-1.
	l := newTestLevel(t, 5, []int{3, 3, 3}, []Index{
		0, 1, 2,
		1, 0, 3,
		0, 1, 4,
	}, loopOptions())

	e01 := l.FindEdge(0, 1)
	assert.Len(t, l.EdgeFaces(e01), 3)
	assert.True(t, l.EdgeTag(e01).NonManifold)
	assert.True(t, l.EdgeTag(e01).InfSharp)
	assert.True(t, l.VertexTag(0).NonManifold)
	assert.True(t, l.VertexTag(0).Xordinary)
	assert.Equal(t, 3, l.MaxEdgeFaces())
}

func TestLevelSetters(t *testing.T) {
	l := singleQuad(t)
	assert.ErrorIs(t, l.SetEdgeSharpness(4, 1), ErrInvalidTopology)
	assert.ErrorIs(t, l.SetVertexSharpness(-1, 1), ErrInvalidTopology)
	assert.ErrorIs(t, l.SetFaceHole(1, true), ErrInvalidTopology)

	require.NoError(t, l.SetVertexSharpness(2, 1.5))
	assert.Equal(t, float32(1.5), l.VertexSharpness(2))
	assert.Equal(t, sdc.SharpnessSmooth, l.VertexSharpness(99))
	assert.Equal(t, ETag{}, l.EdgeTag(99))
}

func TestValidateDetectsBadRelation(t *testing.T) {
	l := singleQuad(t)
	l.edgeFaceIndices[0] = 7
	assert.ErrorIs(t, l.Validate(), ErrInvalidTopology)
}
