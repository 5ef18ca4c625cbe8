package config

import (
	"time"

	"github.com/wt-hali/experiment-core/pkg/models"
)

// Config represents the experiment runner configuration
type Config struct {
	LogLevel        string `yaml:"log_level"`
	SimulatorPath   string `yaml:"simulator_path"`
	ResultsDir      string `yaml:"results_dir"`
	RunTimeout      string `yaml:"run_timeout"`      // e.g. "10m"
	CheckpointEvery int    `yaml:"checkpoint_every"` // runs between checkpoints
	NumOperations   int    `yaml:"num_operations"`
	ArchivePath     string `yaml:"archive_path,omitempty"` // optional SQLite archive
	Sweeps          Sweeps `yaml:"sweeps"`
}

// Sweeps holds the parameter grids the phase generators sweep over
type Sweeps struct {
	CompressionLevels []float64             `yaml:"compression_levels"`
	BufferSizes       []float64             `yaml:"buffer_sizes"`
	DatasetSizes      []int                 `yaml:"dataset_sizes"`
	ScalingSizes      []int                 `yaml:"scaling_sizes"`
	Workloads         []models.WorkloadType `yaml:"workloads"`
}

// Default returns the configuration with the baseline grids used when no
// config file is supplied.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		SimulatorPath:   "./build/simulator",
		ResultsDir:      "results/experiments",
		RunTimeout:      "10m",
		CheckpointEvery: 5,
		NumOperations:   models.DefaultNumOperations,
		Sweeps: Sweeps{
			CompressionLevels: []float64{0.0, 0.25, 0.5, 0.75, 1.0},
			BufferSizes:       []float64{0.005, 0.01, 0.02, 0.05, 0.10},
			DatasetSizes:      []int{100_000, 500_000, 1_000_000},
			ScalingSizes:      []int{100_000, 250_000, 500_000, 750_000, 1_000_000},
			Workloads: []models.WorkloadType{
				models.WorkloadReadHeavy,
				models.WorkloadMixed,
				models.WorkloadWriteHeavy,
			},
		},
	}
}

// GetRunTimeout parses the run timeout string to time.Duration
func (c *Config) GetRunTimeout() (time.Duration, error) {
	return time.ParseDuration(c.RunTimeout)
}
