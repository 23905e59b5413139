package vtr

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// mappingDump is the subset of a Refinement written by DumpMapping.
type mappingDump struct {
	Split   string
	Uniform bool

	ChildFacesFromFaces  int
	ChildEdgesFromFaces  int
	ChildEdgesFromEdges  int
	ChildVertsFromFaces  int
	ChildVertsFromEdges  int
	ChildVertsFromVerts  int
	FaceChildFaceIndices []Index
	FaceChildEdgeIndices []Index
	FaceChildVertIndex   []Index
	EdgeChildEdgeIndices []Index
	EdgeChildVertIndex   []Index
	VertChildVertIndex   []Index
	ChildFaceParentIndex []Index
	ChildEdgeParentIndex []Index
	ChildVertParentIndex []Index
	ParentFaceSparseTags []SparseTag
	ParentEdgeSparseTags []SparseTag
	ParentVertSparseTags []SparseTag
}

// DumpMapping writes the parent-to-child and child-to-parent tables of r in
// a readable form, for debugging.
func (r *Refinement) DumpMapping(w io.Writer) error {
	d := mappingDump{
		Split:                r.SplitType().String(),
		Uniform:              r.uniform,
		ChildFacesFromFaces:  r.childFaceFromFaceCount,
		ChildEdgesFromFaces:  r.childEdgeFromFaceCount,
		ChildEdgesFromEdges:  r.childEdgeFromEdgeCount,
		ChildVertsFromFaces:  r.childVertFromFaceCount,
		ChildVertsFromEdges:  r.childVertFromEdgeCount,
		ChildVertsFromVerts:  r.childVertFromVertCount,
		FaceChildFaceIndices: r.faceChildFaceIndices,
		FaceChildEdgeIndices: r.faceChildEdgeIndices,
		FaceChildVertIndex:   r.faceChildVertIndex,
		EdgeChildEdgeIndices: r.edgeChildEdgeIndices,
		EdgeChildVertIndex:   r.edgeChildVertIndex,
		VertChildVertIndex:   r.vertChildVertIndex,
		ChildFaceParentIndex: r.childFaceParentIndex,
		ChildEdgeParentIndex: r.childEdgeParentIndex,
		ChildVertParentIndex: r.childVertexParentIndex,
		ParentFaceSparseTags: r.parentFaceTag,
		ParentEdgeSparseTags: r.parentEdgeTag,
		ParentVertSparseTags: r.parentVertexTag,
	}
	if _, err := fmt.Fprintf(w, "refinement depth %d -> %d\n", r.parent.depth, r.parent.depth+1); err != nil {
		return err
	}
	dumpConfig.Fdump(w, d)
	return nil
}
