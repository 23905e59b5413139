// Package far drives the refinement engine across multiple levels. A
// TopologyRefiner owns a base level and the levels and refinements derived
// from it, either uniformly or adaptively around irregular features.
package far

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/subdiv/internal/logger"
	"github.com/Faultbox/subdiv/pkg/metrics"
	"github.com/Faultbox/subdiv/pkg/sdc"
	"github.com/Faultbox/subdiv/pkg/vtr"
)

// Refiner errors.
var (
	ErrInvalidRefinementLevel = errors.New("invalid refinement level")
	ErrAlreadyRefined         = errors.New("refiner already holds refined levels")
	ErrInvalidDescriptor      = errors.New("invalid topology descriptor")
)

// SelectFunc selects the components of level to refine in the next sparse
// pass. Leaving the selection empty ends adaptive refinement.
type SelectFunc func(level *vtr.Level, selector *vtr.SparseSelector) error

// TopologyRefiner holds a base level and the levels refined from it.
type TopologyRefiner struct {
	id            uuid.UUID
	options       sdc.Options
	fixedLog      *zap.Logger
	recordMetrics bool

	isUniform bool
	levels    []*vtr.Level
	refines   []*vtr.Refinement

	totalVertices     int
	totalEdges        int
	totalFaces        int
	totalFaceVertices int
}

// NewTopologyRefiner wraps a base level with fully initialized topology and
// tags.
func NewTopologyRefiner(base *vtr.Level, opts sdc.Options, options ...Option) (*TopologyRefiner, error) {
	if base == nil {
		return nil, vtr.ErrNilLevel
	}
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("base level: %w", err)
	}

	cfg := defaultRefinerConfig()
	for _, o := range options {
		o(&cfg)
	}

	tr := &TopologyRefiner{
		id:            cfg.id,
		options:       opts,
		recordMetrics: cfg.recordMetrics,
		isUniform:     true,
	}
	if cfg.log != nil {
		tr.fixedLog = cfg.log.With(zap.Stringer("refiner", cfg.id))
	}
	tr.appendLevel(base)

	tr.log().Debug("Topology refiner created",
		zap.Stringer("scheme", opts.Scheme),
		zap.Int("vertices", base.NumVertices()),
		zap.Int("faces", base.NumFaces()))
	return tr, nil
}

func (tr *TopologyRefiner) log() *zap.Logger {
	if tr.fixedLog != nil {
		return tr.fixedLog
	}
	return logger.Named("far").With(zap.Stringer("refiner", tr.id))
}

// ID returns the refiner id used to correlate log entries.
func (tr *TopologyRefiner) ID() uuid.UUID { return tr.id }

// SchemeOptions returns the scheme options applied at every level.
func (tr *TopologyRefiner) SchemeOptions() sdc.Options { return tr.options }

// IsUniform reports whether every refinement held is uniform.
func (tr *TopologyRefiner) IsUniform() bool { return tr.isUniform }

// NumLevels returns the number of levels including the base level.
func (tr *TopologyRefiner) NumLevels() int { return len(tr.levels) }

// MaxLevel returns the depth of the deepest level.
func (tr *TopologyRefiner) MaxLevel() int { return len(tr.levels) - 1 }

// Level returns level i, or nil when out of range.
func (tr *TopologyRefiner) Level(i int) *vtr.Level {
	if i < 0 || i >= len(tr.levels) {
		return nil
	}
	return tr.levels[i]
}

// Refinement returns the refinement from level i to level i+1, or nil when
// out of range.
func (tr *TopologyRefiner) Refinement(i int) *vtr.Refinement {
	if i < 0 || i >= len(tr.refines) {
		return nil
	}
	return tr.refines[i]
}

// NumVerticesTotal returns the vertex count summed over all levels.
func (tr *TopologyRefiner) NumVerticesTotal() int { return tr.totalVertices }

// NumEdgesTotal returns the edge count summed over all levels.
func (tr *TopologyRefiner) NumEdgesTotal() int { return tr.totalEdges }

// NumFacesTotal returns the face count summed over all levels.
func (tr *TopologyRefiner) NumFacesTotal() int { return tr.totalFaces }

// NumFaceVerticesTotal returns the face-vertex count summed over all levels.
func (tr *TopologyRefiner) NumFaceVerticesTotal() int { return tr.totalFaceVertices }

// RefineUniform refines every face of every level.
func (tr *TopologyRefiner) RefineUniform(opts UniformOptions) error {
	if err := tr.checkRefinable(opts.RefinementLevel); err != nil {
		return err
	}
	tr.isUniform = true

	for i := 0; i < opts.RefinementLevel; i++ {
		last := i == opts.RefinementLevel-1
		r, err := vtr.NewRefinement(tr.levels[i], vtr.NewLevel(), tr.options)
		if err != nil {
			return err
		}
		refineOpts := vtr.Options{FaceTopologyOnly: last && !opts.FullTopologyInLastLevel}
		if err := tr.refine(r, refineOpts); err != nil {
			return err
		}
	}
	return nil
}

// RefineAdaptive refines the components chosen by selectFn at each level.
// A nil selectFn isolates irregular features with SelectIrregularFaces.
func (tr *TopologyRefiner) RefineAdaptive(opts AdaptiveOptions, selectFn SelectFunc) error {
	if err := tr.checkRefinable(opts.IsolationLevel); err != nil {
		return err
	}
	if selectFn == nil {
		selectFn = SelectIrregularFaces
	}
	tr.isUniform = false

	for i := 0; i < opts.IsolationLevel; i++ {
		r, err := vtr.NewRefinement(tr.levels[i], vtr.NewLevel(), tr.options)
		if err != nil {
			return err
		}
		selector := vtr.NewSparseSelector(r)
		if err := selectFn(tr.levels[i], selector); err != nil {
			return fmt.Errorf("select level %d: %w", i, err)
		}
		if selector.IsSelectionEmpty() {
			tr.log().Debug("Adaptive refinement isolated all features", zap.Int("level", i))
			break
		}

		last := i == opts.IsolationLevel-1
		refineOpts := vtr.Options{
			Sparse:           true,
			FaceTopologyOnly: last && !opts.FullTopologyInLastLevel,
		}
		if err := tr.refine(r, refineOpts); err != nil {
			return err
		}
	}
	return nil
}

// Unrefine discards every level above the base level.
func (tr *TopologyRefiner) Unrefine() {
	if len(tr.levels) <= 1 {
		return
	}
	if tr.recordMetrics {
		metrics.LevelsTotal.Sub(float64(len(tr.levels)))
	}
	base := tr.levels[0]
	tr.levels = tr.levels[:0]
	tr.refines = tr.refines[:0]
	tr.totalVertices, tr.totalEdges, tr.totalFaces, tr.totalFaceVertices = 0, 0, 0, 0
	tr.isUniform = true
	tr.appendLevel(base)
}

// Close releases the levels held so they no longer count as live.
func (tr *TopologyRefiner) Close() {
	if tr.recordMetrics {
		metrics.LevelsTotal.Sub(float64(len(tr.levels)))
	}
	tr.levels = nil
	tr.refines = nil
}

func (tr *TopologyRefiner) checkRefinable(numLevels int) error {
	if numLevels < 1 || numLevels > MaxRefinementLevel {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidRefinementLevel, numLevels, MaxRefinementLevel)
	}
	if len(tr.levels) == 0 {
		return fmt.Errorf("%w: refiner is closed", vtr.ErrNilLevel)
	}
	if len(tr.levels) > 1 {
		return ErrAlreadyRefined
	}
	return nil
}

func (tr *TopologyRefiner) refine(r *vtr.Refinement, opts vtr.Options) error {
	depth := len(tr.levels)
	split := r.SplitType().String()
	mode := metrics.ModeUniform
	if opts.Sparse {
		mode = metrics.ModeSparse
	}

	start := time.Now()
	if err := r.Refine(opts); err != nil {
		if tr.recordMetrics {
			metrics.ObserveFailure(split)
		}
		tr.log().Error("Refinement failed",
			zap.Int("level", depth),
			zap.String("split", split),
			zap.Error(err))
		return fmt.Errorf("refine level %d: %w", depth, err)
	}
	elapsed := time.Since(start)

	child := r.Child()
	if tr.recordMetrics {
		metrics.ObserveRefinement(split, mode, child.NumFaces(), child.NumEdges(), child.NumVertices(), elapsed)
	}
	tr.log().Info("Refined level",
		zap.Int("level", depth),
		zap.String("split", split),
		zap.String("mode", mode),
		zap.Int("faces", child.NumFaces()),
		zap.Int("edges", child.NumEdges()),
		zap.Int("vertices", child.NumVertices()),
		zap.Duration("duration", elapsed))

	tr.refines = append(tr.refines, r)
	tr.appendLevel(child)
	return nil
}

func (tr *TopologyRefiner) appendLevel(l *vtr.Level) {
	tr.levels = append(tr.levels, l)
	tr.totalVertices += l.NumVertices()
	tr.totalEdges += l.NumEdges()
	tr.totalFaces += l.NumFaces()
	tr.totalFaceVertices += l.NumFaceVerticesTotal()
	if tr.recordMetrics {
		metrics.LevelsTotal.Inc()
	}
}

// SelectIrregularFaces selects every face with an extraordinary vertex or a
// vertex that is not smooth. Holes and faces with a vertex whose
// neighborhood was truncated by a previous sparse pass are skipped.
func SelectIrregularFaces(level *vtr.Level, selector *vtr.SparseSelector) error {
	for f := 0; f < level.NumFaces(); f++ {
		if level.FaceTag(f).Hole {
			continue
		}
		selected, incomplete := false, false
		for _, v := range level.FaceVertices(f) {
			tag := level.VertexTag(v)
			if tag.Incomplete {
				incomplete = true
				break
			}
			if tag.Xordinary || tag.Rule != sdc.RuleSmooth {
				selected = true
			}
		}
		if selected && !incomplete {
			if err := selector.SelectFace(f); err != nil {
				return err
			}
		}
	}
	return nil
}
