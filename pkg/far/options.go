package far

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxRefinementLevel bounds the depth of uniform and adaptive refinement.
const MaxRefinementLevel = 10

// UniformOptions control RefineUniform.
type UniformOptions struct {
	// RefinementLevel is the number of levels to add, in [1, MaxRefinementLevel].
	RefinementLevel int
	// FullTopologyInLastLevel populates all relations of the last level.
	// Otherwise only its face-vertices are built.
	FullTopologyInLastLevel bool
}

// AdaptiveOptions control RefineAdaptive.
type AdaptiveOptions struct {
	// IsolationLevel is the maximum number of levels to add, in
	// [1, MaxRefinementLevel]. Refinement stops early once nothing is selected.
	IsolationLevel int
	// FullTopologyInLastLevel populates all relations of the last level.
	FullTopologyInLastLevel bool
}

// Option configures a TopologyRefiner.
type Option func(*refinerConfig)

type refinerConfig struct {
	log           *zap.Logger
	id            uuid.UUID
	recordMetrics bool
}

func defaultRefinerConfig() refinerConfig {
	return refinerConfig{
		id:            uuid.New(),
		recordMetrics: true,
	}
}

// WithLogger sets the logger used for refinement steps. Without it the
// refiner logs through the global logger as it is at each call, so
// logging may be initialized after the refiner is built.
func WithLogger(log *zap.Logger) Option {
	return func(c *refinerConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithID overrides the generated refiner id attached to every log entry.
func WithID(id uuid.UUID) Option {
	return func(c *refinerConfig) {
		c.id = id
	}
}

// WithoutMetrics disables Prometheus recording.
func WithoutMetrics() Option {
	return func(c *refinerConfig) {
		c.recordMetrics = false
	}
}
