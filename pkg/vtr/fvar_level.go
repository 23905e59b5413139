package vtr

import (
	"fmt"

	"github.com/Faultbox/subdiv/pkg/sdc"
)

// FVarETag marks an edge across which face-varying values differ.
type FVarETag struct {
	Mismatch bool
}

// FVarValueTag classifies one value (sibling) at a vertex.
type FVarValueTag struct {
	// Mismatch is set when the value differs from the vertex topology, i.e.
	// the vertex lies on a seam.
	Mismatch bool
	// Crease marks a seam value interpolated as a boundary crease.
	Crease bool
	// Corner marks a value interpolated linearly.
	Corner bool
}

// FVarLevel is one face-varying channel of a Level. Each face corner refers
// to a value; the distinct values around a vertex are its siblings.
type FVarLevel struct {
	level   *Level
	options sdc.Options

	valueCount     int
	faceVertValues []Index

	edgeTags []FVarETag

	vertSiblingCountsAndOffsets []Index
	vertValueIndices            []Index
	vertValueTags               []FVarValueTag
	vertFaceSiblings            []Index
}

// AddFVarChannel attaches a face-varying channel with numValues values.
// faceValues holds one value per face corner, in face-vertex order. It
// returns the index of the new channel.
func (l *Level) AddFVarChannel(opts sdc.Options, numValues int, faceValues []Index) (int, error) {
	if !l.HasFaceVertices() || !l.HasFaceEdges() || !l.HasEdgeFaces() || !l.HasVertexFaces() {
		return -1, fmt.Errorf("%w: level lacks full topology", ErrInvalidFVarChannel)
	}
	if len(faceValues) != len(l.faceVertIndices) {
		return -1, fmt.Errorf("%w: %d face values for %d face corners",
			ErrInvalidFVarChannel, len(faceValues), len(l.faceVertIndices))
	}
	for i, v := range faceValues {
		if v < 0 || v >= numValues {
			return -1, fmt.Errorf("%w: face corner %d refers to value %d of %d",
				ErrInvalidFVarChannel, i, v, numValues)
		}
	}

	fv := newFVarLevel(l, opts)
	fv.valueCount = numValues
	fv.faceVertValues = append([]Index(nil), faceValues...)

	fv.gatherVertexValues()
	fv.populateVertexFaceSiblings()
	fv.edgeTags = make([]FVarETag, l.edgeCount)
	fv.tagMismatchedEdges()
	fv.tagValues()

	l.fvarChannels = append(l.fvarChannels, fv)
	return len(l.fvarChannels) - 1, nil
}

func newFVarLevel(l *Level, opts sdc.Options) *FVarLevel {
	return &FVarLevel{level: l, options: opts}
}

// NumValues returns the number of values in the channel.
func (fv *FVarLevel) NumValues() int { return fv.valueCount }

// FaceValues returns the values at the corners of face f.
func (fv *FVarLevel) FaceValues(f Index) IndexArray {
	return countsAndOffsetsView(fv.level.faceVertCountsAndOffsets, fv.faceVertValues, f)
}

// NumVertexValues returns the number of distinct values (siblings) at vertex v.
func (fv *FVarLevel) NumVertexValues(v Index) int {
	if v < 0 || 2*v >= len(fv.vertSiblingCountsAndOffsets) {
		return 0
	}
	return fv.vertSiblingCountsAndOffsets[2*v]
}

// VertexValues returns the siblings of vertex v.
func (fv *FVarLevel) VertexValues(v Index) IndexArray {
	return countsAndOffsetsView(fv.vertSiblingCountsAndOffsets, fv.vertValueIndices, v)
}

// VertexValueTags returns the tags of the siblings of vertex v.
func (fv *FVarLevel) VertexValueTags(v Index) []FVarValueTag {
	if v < 0 || 2*v+1 >= len(fv.vertSiblingCountsAndOffsets) {
		return nil
	}
	count, offset := fv.vertSiblingCountsAndOffsets[2*v], fv.vertSiblingCountsAndOffsets[2*v+1]
	return fv.vertValueTags[offset : offset+count : offset+count]
}

// VertexFaceSiblings returns, for each face of VertexFaces(v), the sibling
// of v used by that face.
func (fv *FVarLevel) VertexFaceSiblings(v Index) IndexArray {
	return countsAndOffsetsView(fv.level.vertFaceCountsAndOffsets, fv.vertFaceSiblings, v)
}

// EdgeTag returns the face-varying tag of edge e.
func (fv *FVarLevel) EdgeTag(e Index) FVarETag {
	if e < 0 || e >= len(fv.edgeTags) {
		return FVarETag{}
	}
	return fv.edgeTags[e]
}

// valueAtFaceCorner returns the value of vertex v in face f.
func (fv *FVarLevel) valueAtFaceCorner(f, v Index) Index {
	i := fv.level.FaceVertices(f).FindIndex(v)
	if i < 0 {
		return InvalidIndex
	}
	return fv.FaceValues(f)[i]
}

// gatherVertexValues collects the distinct values around each vertex in the
// order its faces are visited.
func (fv *FVarLevel) gatherVertexValues() {
	l := fv.level
	fv.vertSiblingCountsAndOffsets = make([]Index, 2*l.vertCount)
	fv.vertValueIndices = fv.vertValueIndices[:0]

	var siblings IndexArray
	for v := 0; v < l.vertCount; v++ {
		siblings = siblings[:0]
		for _, f := range l.VertexFaces(v) {
			value := fv.valueAtFaceCorner(f, v)
			if IndexIsValid(value) && siblings.FindIndex(value) < 0 {
				siblings = append(siblings, value)
			}
		}
		fv.vertSiblingCountsAndOffsets[2*v] = len(siblings)
		fv.vertSiblingCountsAndOffsets[2*v+1] = len(fv.vertValueIndices)
		fv.vertValueIndices = append(fv.vertValueIndices, siblings...)
	}
	fv.vertValueTags = make([]FVarValueTag, len(fv.vertValueIndices))
}

// assignContiguousValues gives vertex v the values [offset, offset+count)
// for the given per-vertex sibling counts, and returns the total.
func (fv *FVarLevel) assignContiguousValues(siblingCounts []int) int {
	n := len(siblingCounts)
	fv.vertSiblingCountsAndOffsets = make([]Index, 2*n)
	total := 0
	for v, count := range siblingCounts {
		fv.vertSiblingCountsAndOffsets[2*v] = count
		fv.vertSiblingCountsAndOffsets[2*v+1] = total
		total += count
	}
	fv.vertValueIndices = make([]Index, total)
	for i := range fv.vertValueIndices {
		fv.vertValueIndices[i] = i
	}
	fv.vertValueTags = make([]FVarValueTag, total)
	fv.valueCount = total
	return total
}

func (fv *FVarLevel) populateVertexFaceSiblings() {
	l := fv.level
	fv.vertFaceSiblings = make([]Index, len(l.vertFaceIndices))
	for v := 0; v < l.vertCount; v++ {
		values := fv.VertexValues(v)
		siblings := fv.VertexFaceSiblings(v)
		for k, f := range l.VertexFaces(v) {
			if s := values.FindIndex(fv.valueAtFaceCorner(f, v)); s > 0 {
				siblings[k] = s
			}
		}
	}
}

// tagMismatchedEdges marks edges whose end values differ between the faces
// sharing them.
func (fv *FVarLevel) tagMismatchedEdges() {
	l := fv.level
	for e := 0; e < l.edgeCount; e++ {
		eVerts := l.EdgeVertices(e)
		eFaces := l.EdgeFaces(e)
		if len(eFaces) < 2 {
			continue
		}
		v0 := fv.valueAtFaceCorner(eFaces[0], eVerts[0])
		v1 := fv.valueAtFaceCorner(eFaces[0], eVerts[1])
		for _, f := range eFaces[1:] {
			if fv.valueAtFaceCorner(f, eVerts[0]) != v0 || fv.valueAtFaceCorner(f, eVerts[1]) != v1 {
				fv.edgeTags[e].Mismatch = true
				break
			}
		}
	}
}

// tagValues classifies each sibling according to the linear interpolation
// option of the channel.
func (fv *FVarLevel) tagValues() {
	l := fv.level
	linear := fv.options.FVarLinearInterpolation

	for v := 0; v < l.vertCount; v++ {
		numSiblings := fv.NumVertexValues(v)
		vertFaceSiblings := fv.VertexFaceSiblings(v)
		tags := fv.VertexValueTags(v)

		for s := range tags {
			faces := 0
			for _, sibling := range vertFaceSiblings {
				if sibling == s {
					faces++
				}
			}

			tag := FVarValueTag{Mismatch: numSiblings > 1}
			switch linear {
			case sdc.FVarLinearAll:
				tag.Mismatch = true
				tag.Corner = true
			case sdc.FVarLinearBoundaries:
				tag.Corner = tag.Mismatch
			case sdc.FVarLinearCornersPlus1, sdc.FVarLinearCornersPlus2:
				tag.Corner = tag.Mismatch && (faces == 1 || numSiblings > 2)
			case sdc.FVarLinearCornersOnly:
				tag.Corner = tag.Mismatch && faces == 1
			}
			tag.Crease = tag.Mismatch && !tag.Corner
			tags[s] = tag
		}
	}
}
