package far

import (
	"fmt"

	"github.com/Faultbox/subdiv/pkg/sdc"
	"github.com/Faultbox/subdiv/pkg/vtr"
)

// FVarChannel describes one face-varying channel of a descriptor.
type FVarChannel struct {
	NumValues    int
	ValueIndices []vtr.Index // one per face corner, in face-vertex order
}

// TopologyDescriptor is a mesh in the flat form most callers hold it.
// Creases are given as vertex pairs and must name existing edges.
type TopologyDescriptor struct {
	NumVertices       int
	FaceVertexCounts  []int
	FaceVertexIndices []vtr.Index

	CreaseVertexPairs []vtr.Index
	CreaseWeights     []float32

	CornerVertices []vtr.Index
	CornerWeights  []float32

	HoleFaces []vtr.Index

	FVarChannels []FVarChannel
}

// NewLevelFromDescriptor builds a base level with sharpness, holes, tags and
// face-varying channels applied.
func NewLevelFromDescriptor(desc TopologyDescriptor, opts sdc.Options) (*vtr.Level, error) {
	if len(desc.CreaseVertexPairs) != 2*len(desc.CreaseWeights) {
		return nil, fmt.Errorf("%w: %d crease vertices for %d weights",
			ErrInvalidDescriptor, len(desc.CreaseVertexPairs), len(desc.CreaseWeights))
	}
	if len(desc.CornerVertices) != len(desc.CornerWeights) {
		return nil, fmt.Errorf("%w: %d corners for %d weights",
			ErrInvalidDescriptor, len(desc.CornerVertices), len(desc.CornerWeights))
	}

	l, err := vtr.NewLevelFromFaceVertices(desc.NumVertices, desc.FaceVertexCounts, desc.FaceVertexIndices)
	if err != nil {
		return nil, err
	}

	for i, w := range desc.CreaseWeights {
		v0, v1 := desc.CreaseVertexPairs[2*i], desc.CreaseVertexPairs[2*i+1]
		e := l.FindEdge(v0, v1)
		if !vtr.IndexIsValid(e) {
			return nil, fmt.Errorf("%w: crease %d joins %d and %d which share no edge",
				ErrInvalidDescriptor, i, v0, v1)
		}
		if err := l.SetEdgeSharpness(e, w); err != nil {
			return nil, err
		}
	}
	for i, v := range desc.CornerVertices {
		if err := l.SetVertexSharpness(v, desc.CornerWeights[i]); err != nil {
			return nil, err
		}
	}
	for _, f := range desc.HoleFaces {
		if err := l.SetFaceHole(f, true); err != nil {
			return nil, err
		}
	}

	l.InitializeTags(opts)

	for i, ch := range desc.FVarChannels {
		if _, err := l.AddFVarChannel(opts, ch.NumValues, ch.ValueIndices); err != nil {
			return nil, fmt.Errorf("fvar channel %d: %w", i, err)
		}
	}
	return l, nil
}

// NewTopologyRefinerFromDescriptor builds the base level from desc and wraps
// it in a refiner.
func NewTopologyRefinerFromDescriptor(desc TopologyDescriptor, opts sdc.Options, options ...Option) (*TopologyRefiner, error) {
	base, err := NewLevelFromDescriptor(desc, opts)
	if err != nil {
		return nil, err
	}
	return NewTopologyRefiner(base, opts, options...)
}
