package vtr

import "github.com/Faultbox/subdiv/pkg/sdc"

// VTag holds the per-vertex classification used by refinement.
type VTag struct {
	NonManifold    bool
	Xordinary      bool
	Boundary       bool
	Corner         bool // boundary vertex with a single incident face
	InfSharp       bool
	SemiSharp      bool
	InfSharpEdges  bool
	SemiSharpEdges bool
	Rule           sdc.Rule
	Incomplete     bool // neighborhood truncated by sparse refinement
}

// ETag holds the per-edge classification used by refinement.
type ETag struct {
	NonManifold bool
	Boundary    bool
	InfSharp    bool
	SemiSharp   bool
}

// FTag holds the per-face classification used by refinement.
type FTag struct {
	Hole bool
}

// Level is an indexed mesh topology at one refinement depth. It stores the
// six incidence relations, sharpness values and component tags.
//
// Variable-length relations use a [count, offset] pair per component into a
// shared index vector. Face-edges share the face-vertex counts and offsets.
type Level struct {
	depth int

	faceCount int
	edgeCount int
	vertCount int

	maxEdgeFaces int
	maxValence   int

	faceVertCountsAndOffsets []Index
	faceVertIndices          []Index
	faceEdgeIndices          []Index
	faceTags                 []FTag

	edgeVertIndices          []Index
	edgeFaceCountsAndOffsets []Index
	edgeFaceIndices          []Index
	edgeSharpness            []float32
	edgeTags                 []ETag

	vertFaceCountsAndOffsets []Index
	vertFaceIndices          []Index
	vertEdgeCountsAndOffsets []Index
	vertEdgeIndices          []Index
	vertSharpness            []float32
	vertTags                 []VTag

	fvarChannels []*FVarLevel
}

// NewLevel returns an empty level, ready to be populated as a refinement child.
func NewLevel() *Level {
	return &Level{}
}

// Depth returns the refinement depth, 0 for a base mesh.
func (l *Level) Depth() int { return l.depth }

// NumFaces returns the number of faces.
func (l *Level) NumFaces() int { return l.faceCount }

// NumEdges returns the number of edges.
func (l *Level) NumEdges() int { return l.edgeCount }

// NumVertices returns the number of vertices.
func (l *Level) NumVertices() int { return l.vertCount }

// NumFaceVerticesTotal returns the total number of face-vertex incidences.
func (l *Level) NumFaceVerticesTotal() int { return len(l.faceVertIndices) }

// MaxValence returns the largest number of edges incident to a vertex.
func (l *Level) MaxValence() int { return l.maxValence }

// MaxEdgeFaces returns the largest number of faces incident to an edge.
func (l *Level) MaxEdgeFaces() int { return l.maxEdgeFaces }

// IsEmpty reports whether the level holds no components.
func (l *Level) IsEmpty() bool {
	return l.faceCount == 0 && l.edgeCount == 0 && l.vertCount == 0
}

// NumFaceVertices returns the number of vertices of face f.
func (l *Level) NumFaceVertices(f Index) int {
	if f < 0 || 2*f >= len(l.faceVertCountsAndOffsets) {
		return 0
	}
	return l.faceVertCountsAndOffsets[2*f]
}

// FaceVertices returns the vertices of face f in winding order.
func (l *Level) FaceVertices(f Index) IndexArray {
	return countsAndOffsetsView(l.faceVertCountsAndOffsets, l.faceVertIndices, f)
}

// FaceEdges returns the edges of face f; edge i joins vertex i and i+1.
func (l *Level) FaceEdges(f Index) IndexArray {
	return countsAndOffsetsView(l.faceVertCountsAndOffsets, l.faceEdgeIndices, f)
}

// EdgeVertices returns the two end vertices of edge e.
func (l *Level) EdgeVertices(e Index) IndexArray {
	return fixedView(l.edgeVertIndices, e, 2)
}

// EdgeFaces returns the faces incident to edge e.
func (l *Level) EdgeFaces(e Index) IndexArray {
	return countsAndOffsetsView(l.edgeFaceCountsAndOffsets, l.edgeFaceIndices, e)
}

// VertexFaces returns the faces incident to vertex v.
func (l *Level) VertexFaces(v Index) IndexArray {
	return countsAndOffsetsView(l.vertFaceCountsAndOffsets, l.vertFaceIndices, v)
}

// VertexEdges returns the edges incident to vertex v.
func (l *Level) VertexEdges(v Index) IndexArray {
	return countsAndOffsetsView(l.vertEdgeCountsAndOffsets, l.vertEdgeIndices, v)
}

// FindEdge returns the edge joining v0 and v1, or InvalidIndex.
func (l *Level) FindEdge(v0, v1 Index) Index {
	for _, e := range l.VertexEdges(v0) {
		ev := l.EdgeVertices(e)
		if (ev[0] == v0 && ev[1] == v1) || (ev[0] == v1 && ev[1] == v0) {
			return e
		}
	}
	return InvalidIndex
}

// EdgeSharpness returns the sharpness of edge e.
func (l *Level) EdgeSharpness(e Index) float32 {
	if e < 0 || e >= len(l.edgeSharpness) {
		return sdc.SharpnessSmooth
	}
	return l.edgeSharpness[e]
}

// VertexSharpness returns the sharpness of vertex v.
func (l *Level) VertexSharpness(v Index) float32 {
	if v < 0 || v >= len(l.vertSharpness) {
		return sdc.SharpnessSmooth
	}
	return l.vertSharpness[v]
}

// FaceTag returns the tag of face f.
func (l *Level) FaceTag(f Index) FTag {
	if f < 0 || f >= len(l.faceTags) {
		return FTag{}
	}
	return l.faceTags[f]
}

// EdgeTag returns the tag of edge e.
func (l *Level) EdgeTag(e Index) ETag {
	if e < 0 || e >= len(l.edgeTags) {
		return ETag{}
	}
	return l.edgeTags[e]
}

// VertexTag returns the tag of vertex v.
func (l *Level) VertexTag(v Index) VTag {
	if v < 0 || v >= len(l.vertTags) {
		return VTag{}
	}
	return l.vertTags[v]
}

// HasFaceVertices reports whether the face-vertex relation is populated.
func (l *Level) HasFaceVertices() bool { return l.faceCount == 0 || len(l.faceVertIndices) > 0 }

// HasFaceEdges reports whether the face-edge relation is populated.
func (l *Level) HasFaceEdges() bool { return l.faceCount == 0 || len(l.faceEdgeIndices) > 0 }

// HasEdgeVertices reports whether the edge-vertex relation is populated.
func (l *Level) HasEdgeVertices() bool { return l.edgeCount == 0 || len(l.edgeVertIndices) > 0 }

// HasEdgeFaces reports whether the edge-face relation is populated.
func (l *Level) HasEdgeFaces() bool { return l.edgeCount == 0 || len(l.edgeFaceCountsAndOffsets) > 0 }

// HasVertexFaces reports whether the vertex-face relation is populated.
func (l *Level) HasVertexFaces() bool { return l.vertCount == 0 || len(l.vertFaceCountsAndOffsets) > 0 }

// HasVertexEdges reports whether the vertex-edge relation is populated.
func (l *Level) HasVertexEdges() bool { return l.vertCount == 0 || len(l.vertEdgeCountsAndOffsets) > 0 }

// NumFVarChannels returns the number of face-varying channels.
func (l *Level) NumFVarChannels() int { return len(l.fvarChannels) }

// FVarChannel returns face-varying channel c, or nil.
func (l *Level) FVarChannel(c int) *FVarLevel {
	if c < 0 || c >= len(l.fvarChannels) {
		return nil
	}
	return l.fvarChannels[c]
}

//
// Child allocation. A refinement sizes the child's tables once, before any
// view into them is handed out, and then only writes through views.
//

func (l *Level) resizeComponents(faces, edges, verts int) {
	l.faceCount = faces
	l.edgeCount = edges
	l.vertCount = verts

	l.faceTags = make([]FTag, faces)
	l.edgeTags = make([]ETag, edges)
	l.edgeSharpness = make([]float32, edges)
	l.vertTags = make([]VTag, verts)
	l.vertSharpness = make([]float32, verts)
}

func (l *Level) resizeFaceCountsAndOffsets(faceSize int) {
	if len(l.faceVertCountsAndOffsets) == 2*l.faceCount {
		return
	}
	l.faceVertCountsAndOffsets = make([]Index, 2*l.faceCount)
	for f := 0; f < l.faceCount; f++ {
		l.faceVertCountsAndOffsets[2*f] = faceSize
		l.faceVertCountsAndOffsets[2*f+1] = f * faceSize
	}
}

func (l *Level) resizeFaceVertices(faceSize int) {
	l.resizeFaceCountsAndOffsets(faceSize)
	l.faceVertIndices = filledIndices(l.faceCount*faceSize, InvalidIndex)
}

func (l *Level) resizeFaceEdges(faceSize int) {
	l.resizeFaceCountsAndOffsets(faceSize)
	l.faceEdgeIndices = filledIndices(l.faceCount*faceSize, InvalidIndex)
}

func (l *Level) resizeEdgeVertices() {
	l.edgeVertIndices = filledIndices(2*l.edgeCount, InvalidIndex)
}

// packedRelation incrementally builds a [count, offset] table whose runs are
// reserved in increasing component order and then trimmed to their use.
type packedRelation struct {
	countsAndOffsets *[]Index
	indices          *[]Index
	last             Index
}

func newPackedRelation(countsAndOffsets, indices *[]Index, numComponents, estimate int) packedRelation {
	*countsAndOffsets = make([]Index, 2*numComponents)
	*indices = filledIndices(estimate, InvalidIndex)
	return packedRelation{countsAndOffsets: countsAndOffsets, indices: indices, last: InvalidIndex}
}

// reserve allocates count slots for component i, which must follow the
// previously reserved component.
func (p *packedRelation) reserve(i Index, count int) IndexArray {
	co := *p.countsAndOffsets
	offset := 0
	if IndexIsValid(p.last) {
		offset = co[2*p.last] + co[2*p.last+1]
	}
	co[2*i] = count
	co[2*i+1] = offset
	p.last = i
	if need := offset + count; need > len(*p.indices) {
		*p.indices = append(*p.indices, filledIndices(need-len(*p.indices), InvalidIndex)...)
	}
	return IndexArray((*p.indices)[offset : offset+count : offset+count])
}

// trim reduces the run of component i to its first count entries.
func (p *packedRelation) trim(i Index, count int) {
	(*p.countsAndOffsets)[2*i] = count
}

// finish drops unused trailing storage and returns the largest run.
func (p *packedRelation) finish() int {
	co := *p.countsAndOffsets
	if IndexIsValid(p.last) {
		*p.indices = (*p.indices)[:co[2*p.last]+co[2*p.last+1]]
	} else {
		*p.indices = (*p.indices)[:0]
	}
	maxCount := 0
	for i := 0; i < len(co); i += 2 {
		if co[i] > maxCount {
			maxCount = co[i]
		}
	}
	return maxCount
}

func (l *Level) edgeFaceBuilder(estimate int) packedRelation {
	return newPackedRelation(&l.edgeFaceCountsAndOffsets, &l.edgeFaceIndices, l.edgeCount, estimate)
}

func (l *Level) vertexFaceBuilder(estimate int) packedRelation {
	return newPackedRelation(&l.vertFaceCountsAndOffsets, &l.vertFaceIndices, l.vertCount, estimate)
}

func (l *Level) vertexEdgeBuilder(estimate int) packedRelation {
	return newPackedRelation(&l.vertEdgeCountsAndOffsets, &l.vertEdgeIndices, l.vertCount, estimate)
}
