package config

import (
	"github.com/Faultbox/subdiv/internal/logger"
	"github.com/Faultbox/subdiv/pkg/far"
)

// InitLogging configures the global logger from the logging section.
func (c *Config) InitLogging() error {
	return logger.Init(c.Logging.Level, c.Logging.LogFile)
}

// NewRefiner builds a refiner for desc with the configured scheme. Face-varying
// channels are dropped when refine.fvar is off.
func (c *Config) NewRefiner(desc far.TopologyDescriptor, options ...far.Option) (*far.TopologyRefiner, error) {
	opts, err := c.SchemeOptions()
	if err != nil {
		return nil, err
	}
	if !c.Refine.FVar {
		desc.FVarChannels = nil
	}
	return far.NewTopologyRefinerFromDescriptor(desc, opts, options...)
}

// RefineWith runs uniform or adaptive refinement as configured.
func (c *Config) RefineWith(tr *far.TopologyRefiner) error {
	if c.Refine.Sparse {
		return tr.RefineAdaptive(c.AdaptiveOptions(), nil)
	}
	return tr.RefineUniform(c.UniformOptions())
}
