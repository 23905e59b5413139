// Package config handles refiner configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/subdiv/pkg/far"
	"github.com/Faultbox/subdiv/pkg/sdc"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all refiner settings.
type Config struct {
	Scheme  SchemeConfig  `yaml:"scheme"`
	Refine  RefineConfig  `yaml:"refine"`
	Logging LoggingConfig `yaml:"logging"`
}

// SchemeConfig selects the subdivision scheme and its boundary and
// creasing rules. Values are the names accepted by package sdc.
type SchemeConfig struct {
	Type                     string `yaml:"type"`
	VtxBoundaryInterpolation string `yaml:"vtx_boundary_interpolation"`
	FVarLinearInterpolation  string `yaml:"fvar_linear_interpolation"`
	CreasingMethod           string `yaml:"creasing_method"`
}

// RefineConfig controls how many levels are built and how.
type RefineConfig struct {
	MaxLevel         int  `yaml:"max_level"`
	Sparse           bool `yaml:"sparse"`             // adaptive isolation of irregular features
	FaceTopologyOnly bool `yaml:"face_topology_only"` // last level gets face-vertices only
	FVar             bool `yaml:"fvar"`               // refine face-varying channels
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	opts := sdc.DefaultOptions()
	return &Config{
		Scheme: SchemeConfig{
			Type:                     opts.Scheme.String(),
			VtxBoundaryInterpolation: opts.VtxBoundaryInterpolation.String(),
			FVarLinearInterpolation:  opts.FVarLinearInterpolation.String(),
			CreasingMethod:           opts.CreasingMethod.String(),
		},
		Refine: RefineConfig{
			MaxLevel:         2,
			FaceTopologyOnly: true,
			FVar:             true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SchemeOptions converts the scheme section into sdc.Options.
func (c *Config) SchemeOptions() (sdc.Options, error) {
	var opts sdc.Options
	var err error

	if opts.Scheme, err = sdc.ParseSchemeType(c.Scheme.Type); err != nil {
		return opts, err
	}
	if opts.VtxBoundaryInterpolation, err = sdc.ParseVtxBoundaryInterpolation(c.Scheme.VtxBoundaryInterpolation); err != nil {
		return opts, err
	}
	if opts.FVarLinearInterpolation, err = sdc.ParseFVarLinearInterpolation(c.Scheme.FVarLinearInterpolation); err != nil {
		return opts, err
	}
	if opts.CreasingMethod, err = sdc.ParseCreasingMethod(c.Scheme.CreasingMethod); err != nil {
		return opts, err
	}
	return opts, nil
}

// UniformOptions converts the refine section for uniform refinement.
func (c *Config) UniformOptions() far.UniformOptions {
	return far.UniformOptions{
		RefinementLevel:         c.Refine.MaxLevel,
		FullTopologyInLastLevel: !c.Refine.FaceTopologyOnly,
	}
}

// AdaptiveOptions converts the refine section for adaptive refinement.
func (c *Config) AdaptiveOptions() far.AdaptiveOptions {
	return far.AdaptiveOptions{
		IsolationLevel:          c.Refine.MaxLevel,
		FullTopologyInLastLevel: !c.Refine.FaceTopologyOnly,
	}
}

// Validate checks that every value is in range and every name is known.
func (c *Config) Validate() error {
	if _, err := c.SchemeOptions(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Refine.MaxLevel < 1 || c.Refine.MaxLevel > far.MaxRefinementLevel {
		return fmt.Errorf("%w: refine.max_level %d not in [1, %d]",
			ErrInvalidConfig, c.Refine.MaxLevel, far.MaxRefinementLevel)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}
