package vtr

import "fmt"

// SparseSelector marks the parent components of a Refinement that a sparse
// refinement subdivides. Selecting a face also selects its edges and
// vertices; selecting an edge also selects its vertices.
type SparseSelector struct {
	refine *Refinement
}

// NewSparseSelector returns a selector bound to r.
func NewSparseSelector(r *Refinement) *SparseSelector {
	return &SparseSelector{refine: r}
}

// Refinement returns the refinement whose parent components are selected.
func (s *SparseSelector) Refinement() *Refinement { return s.refine }

// initializeSelection allocates the parent sparse tags on first use.
func (s *SparseSelector) initializeSelection() error {
	r := s.refine
	if r.refined {
		return ErrAlreadyRefined
	}
	p := r.parent
	if len(r.parentFaceTag) != p.faceCount {
		r.parentFaceTag = make([]SparseTag, p.faceCount)
	}
	if len(r.parentEdgeTag) != p.edgeCount {
		r.parentEdgeTag = make([]SparseTag, p.edgeCount)
	}
	if len(r.parentVertexTag) != p.vertCount {
		r.parentVertexTag = make([]SparseTag, p.vertCount)
	}
	return nil
}

// IsSelectionEmpty reports whether nothing has been selected yet.
func (s *SparseSelector) IsSelectionEmpty() bool {
	for _, tag := range s.refine.parentVertexTag {
		if tag.Selected {
			return false
		}
	}
	return true
}

// SelectVertex selects parent vertex v.
func (s *SparseSelector) SelectVertex(v Index) error {
	if err := s.initializeSelection(); err != nil {
		return err
	}
	if v < 0 || v >= s.refine.parent.vertCount {
		return fmt.Errorf("%w: vertex %d out of range", ErrInvalidTopology, v)
	}
	s.refine.parentVertexTag[v].Selected = true
	return nil
}

// SelectEdge selects parent edge e and its end vertices.
func (s *SparseSelector) SelectEdge(e Index) error {
	if err := s.initializeSelection(); err != nil {
		return err
	}
	r := s.refine
	if e < 0 || e >= r.parent.edgeCount {
		return fmt.Errorf("%w: edge %d out of range", ErrInvalidTopology, e)
	}
	r.parentEdgeTag[e].Selected = true
	for _, v := range r.parent.EdgeVertices(e) {
		r.parentVertexTag[v].Selected = true
	}
	return nil
}

// SelectFace selects parent face f with its edges and vertices.
func (s *SparseSelector) SelectFace(f Index) error {
	if err := s.initializeSelection(); err != nil {
		return err
	}
	r := s.refine
	if f < 0 || f >= r.parent.faceCount {
		return fmt.Errorf("%w: face %d out of range", ErrInvalidTopology, f)
	}
	r.parentFaceTag[f].Selected = true
	for _, e := range r.parent.FaceEdges(f) {
		r.parentEdgeTag[e].Selected = true
	}
	for _, v := range r.parent.FaceVertices(f) {
		r.parentVertexTag[v].Selected = true
	}
	return nil
}
