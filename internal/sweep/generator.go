// Package sweep enumerates the named experiment phases. Each phase is a
// fixed Cartesian sweep over a subset of configuration dimensions, holding
// the remaining dimensions at a documented baseline. Run names are derived
// from the varying parameters, so they are deterministic and unique within
// a phase and survive round-tripping through storage.
package sweep

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/wt-hali/experiment-core/pkg/config"
	"github.com/wt-hali/experiment-core/pkg/models"
)

// ErrUnknownPhase indicates a phase identifier with no registered generator.
var ErrUnknownPhase = errors.New("unknown experiment phase")

// PhaseAll is the aggregate phase: all named phases concatenated in order.
const PhaseAll = "all"

type generatorFunc func(cfg *config.Config) []models.RunConfig

// phaseOrder fixes the concatenation order of the aggregate phase.
var phaseOrder = []string{"2.1", "2.2", "2.3", "3.1", "3.2"}

var generators = map[string]generatorFunc{
	"2.1": compressionSweep,
	"2.2": bufferSweep,
	"2.3": scalingSweep,
	"3.1": expertCountSweep,
	"3.2": workloadSpectrumSweep,
}

// Phases returns the named phase identifiers in aggregate order.
func Phases() []string {
	out := make([]string, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

// Generate produces the ordered configuration list for a phase.
// Phase "all" is the concatenation of every named phase in fixed order.
func Generate(phase string, cfg *config.Config) ([]models.RunConfig, error) {
	if phase == PhaseAll {
		var all []models.RunConfig
		for _, p := range phaseOrder {
			all = append(all, generators[p](cfg)...)
		}
		return all, nil
	}

	gen, ok := generators[phase]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPhase, phase)
	}
	return gen(cfg), nil
}

// compressionSweep (phase 2.1) varies compression level and dataset size over
// the two best-performing dataset types; buffer fixed at 1%, workload mixed.
// Goal: find the optimal compression level for each dataset size.
func compressionSweep(cfg *config.Config) []models.RunConfig {
	datasets := []models.DatasetType{models.DatasetClustered, models.DatasetSequential}

	var configs []models.RunConfig
	for _, compression := range cfg.Sweeps.CompressionLevels {
		for _, size := range cfg.Sweeps.DatasetSizes {
			for _, dataset := range datasets {
				configs = append(configs, models.RunConfig{
					Name: fmt.Sprintf("exp2.1_comp%s_size%dk_%s",
						formatLevel(compression), size/1000, dataset),
					CompressionLevel: compression,
					BufferSize:       0.01,
					DatasetType:      dataset,
					DatasetSize:      size,
					WorkloadType:     models.WorkloadMixed,
					NumOperations:    cfg.NumOperations,
				})
			}
		}
	}
	return configs
}

// bufferSweep (phase 2.2) varies buffer size and workload; compression fixed
// at the balanced 0.5, clustered 500k keys.
// Goal: find the optimal buffer size for each workload.
func bufferSweep(cfg *config.Config) []models.RunConfig {
	var configs []models.RunConfig
	for _, buffer := range cfg.Sweeps.BufferSizes {
		for _, workload := range cfg.Sweeps.Workloads {
			configs = append(configs, models.RunConfig{
				Name: fmt.Sprintf("exp2.2_buffer%d_wl%s",
					int(math.Round(buffer*1000)), workload),
				CompressionLevel: 0.5,
				BufferSize:       buffer,
				DatasetType:      models.DatasetClustered,
				DatasetSize:      500_000,
				WorkloadType:     workload,
				NumOperations:    cfg.NumOperations,
			})
		}
	}
	return configs
}

// scalingSweep (phase 2.3) varies dataset size only, in speed mode
// (compression 0). Goal: validate scaling behavior.
func scalingSweep(cfg *config.Config) []models.RunConfig {
	var configs []models.RunConfig
	for _, size := range cfg.Sweeps.ScalingSizes {
		configs = append(configs, models.RunConfig{
			Name:             fmt.Sprintf("exp2.3_scaling_%dk", size/1000),
			CompressionLevel: 0.0,
			BufferSize:       0.01,
			DatasetType:      models.DatasetClustered,
			DatasetSize:      size,
			WorkloadType:     models.WorkloadMixed,
			NumOperations:    cfg.NumOperations,
		})
	}
	return configs
}

// expertCountSweep (phase 3.1) exercises expert count indirectly through the
// compression level, which drives the expert-count formula in the measured
// system. Goal: validate the current formula.
func expertCountSweep(cfg *config.Config) []models.RunConfig {
	var configs []models.RunConfig
	for _, compression := range cfg.Sweeps.CompressionLevels {
		configs = append(configs, models.RunConfig{
			Name:             fmt.Sprintf("exp3.1_experts_comp%s", formatLevel(compression)),
			CompressionLevel: compression,
			BufferSize:       0.01,
			DatasetType:      models.DatasetClustered,
			DatasetSize:      500_000,
			WorkloadType:     models.WorkloadMixed,
			NumOperations:    cfg.NumOperations,
		})
	}
	return configs
}

// workloadSpectrumSweep (phase 3.2) varies the workload type in speed mode.
// Goal: find the sweet spot of the read/write spectrum.
func workloadSpectrumSweep(cfg *config.Config) []models.RunConfig {
	var configs []models.RunConfig
	for _, workload := range cfg.Sweeps.Workloads {
		configs = append(configs, models.RunConfig{
			Name:             fmt.Sprintf("exp3.2_spectrum_%s", workload),
			CompressionLevel: 0.0,
			BufferSize:       0.01,
			DatasetType:      models.DatasetClustered,
			DatasetSize:      500_000,
			WorkloadType:     workload,
			NumOperations:    cfg.NumOperations,
		})
	}
	return configs
}

func formatLevel(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
