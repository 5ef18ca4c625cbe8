package config

import (
	"fmt"
	"os"

	"github.com/wt-hali/experiment-core/pkg/models"
)

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if cfg.SimulatorPath == "" {
		return fmt.Errorf("simulator_path cannot be empty")
	}
	if cfg.ResultsDir == "" {
		return fmt.Errorf("results_dir cannot be empty")
	}

	if _, err := cfg.GetRunTimeout(); err != nil {
		return fmt.Errorf("invalid run_timeout %s: %w", cfg.RunTimeout, err)
	}

	if cfg.CheckpointEvery <= 0 {
		return fmt.Errorf("checkpoint_every must be positive, got %d", cfg.CheckpointEvery)
	}
	if cfg.NumOperations <= 0 {
		return fmt.Errorf("num_operations must be positive, got %d", cfg.NumOperations)
	}

	if err := validateSweeps(&cfg.Sweeps); err != nil {
		return fmt.Errorf("sweeps validation failed: %w", err)
	}

	return nil
}

// validateSweeps validates the sweep parameter grids
func validateSweeps(s *Sweeps) error {
	if len(s.CompressionLevels) == 0 {
		return fmt.Errorf("at least one compression level must be defined")
	}
	for _, c := range s.CompressionLevels {
		if c < 0 || c > 1 {
			return fmt.Errorf("compression level must be between 0 and 1, got %f", c)
		}
	}

	if len(s.BufferSizes) == 0 {
		return fmt.Errorf("at least one buffer size must be defined")
	}
	for _, b := range s.BufferSizes {
		if b <= 0 || b > 1 {
			return fmt.Errorf("buffer size must be in (0, 1], got %f", b)
		}
	}

	if len(s.DatasetSizes) == 0 {
		return fmt.Errorf("at least one dataset size must be defined")
	}
	for _, size := range s.DatasetSizes {
		if size <= 0 {
			return fmt.Errorf("dataset size must be positive, got %d", size)
		}
	}
	for _, size := range s.ScalingSizes {
		if size <= 0 {
			return fmt.Errorf("scaling size must be positive, got %d", size)
		}
	}

	if len(s.Workloads) == 0 {
		return fmt.Errorf("at least one workload must be defined")
	}
	validWorkloads := make(map[models.WorkloadType]bool, len(models.WorkloadTypes))
	for _, w := range models.WorkloadTypes {
		validWorkloads[w] = true
	}
	for _, w := range s.Workloads {
		if !validWorkloads[w] {
			return fmt.Errorf("invalid workload type: %s", w)
		}
	}

	return nil
}
