package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment overrides, applied after the config file.
const (
	envConfig   = "SUBDIV_CONFIG"
	envScheme   = "SUBDIV_SCHEME"
	envMaxLevel = "SUBDIV_MAX_LEVEL"
	envSparse   = "SUBDIV_SPARSE"
	envLogLevel = "SUBDIV_LOG_LEVEL"
	envLogFile  = "SUBDIV_LOG_FILE"
)

// applyEnv applies environment overrides to the config.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(envScheme); v != "" {
		cfg.Scheme.Type = v
	}
	if v := os.Getenv(envMaxLevel); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, envMaxLevel, v, err)
		}
		cfg.Refine.MaxLevel = n
	}
	if v := os.Getenv(envSparse); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, envSparse, v, err)
		}
		cfg.Refine.Sparse = b
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(envLogFile); v != "" {
		cfg.Logging.LogFile = v
	}
	return nil
}
