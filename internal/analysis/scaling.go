package analysis

import (
	"fmt"
	"math"

	"github.com/wt-hali/experiment-core/pkg/models"
	"github.com/wt-hali/experiment-core/pkg/utils"
)

// Scaling regimes.
const (
	RegimeSubLinear = "sub-linear"
	RegimeLinear    = "linear"
)

// ScalingInsight characterizes how lookup latency grows with dataset size.
type ScalingInsight struct {
	Slope   float64 `json:"slope"`
	Regime  string  `json:"scaling_behavior"`
	Samples int     `json:"samples"`
}

// Scaling fits log(lookup latency) against log(dataset size) across the
// successful outcomes and classifies the slope. A slope below 1.0 means
// latency grows slower than the dataset does.
func Scaling(rs models.ResultSet) (ScalingInsight, error) {
	var xs, ys []float64
	for _, o := range rs.Successes() {
		if o.Metrics == nil || o.Metrics.LookupNS == nil {
			continue
		}
		if o.Config.DatasetSize <= 0 || *o.Metrics.LookupNS <= 0 {
			continue
		}
		xs = append(xs, math.Log(float64(o.Config.DatasetSize)))
		ys = append(ys, math.Log(*o.Metrics.LookupNS))
	}
	if len(xs) == 0 {
		return ScalingInsight{}, ErrEmptyResultSet
	}
	if len(xs) < 2 {
		return ScalingInsight{}, fmt.Errorf("analysis: scaling fit needs at least 2 points, have %d", len(xs))
	}

	slope, _ := utils.LinearFit(xs, ys)
	regime := RegimeLinear
	if slope < 1.0 {
		regime = RegimeSubLinear
	}
	return ScalingInsight{Slope: slope, Regime: regime, Samples: len(xs)}, nil
}
