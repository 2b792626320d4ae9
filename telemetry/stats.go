package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FlockStats summarizes the flock's motion and neighbor density at the end
// of a stats window. Observability only; nothing in the core reads it.
type FlockStats struct {
	WindowEnd int32 `csv:"window_end"`
	Particles int   `csv:"particles"`

	// Speed distribution (world units per frame)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Cached-neighbor distribution; the mean sitting at the cache capacity
	// means queries are truncating everywhere.
	NeighborsMean float64 `csv:"neighbors_mean"`
	NeighborsP90  float64 `csv:"neighbors_p90"`
}

// ComputeFlockStats aggregates sampled speeds and neighbor counts. Both
// input slices are sorted in place.
func ComputeFlockStats(windowEnd int32, speeds, neighborCounts []float64) FlockStats {
	fs := FlockStats{
		WindowEnd: windowEnd,
		Particles: len(speeds),
	}
	if len(speeds) == 0 {
		return fs
	}

	sort.Float64s(speeds)
	fs.SpeedMean = stat.Mean(speeds, nil)
	fs.SpeedStd = stat.StdDev(speeds, nil)
	fs.SpeedP10 = stat.Quantile(0.10, stat.Empirical, speeds, nil)
	fs.SpeedP50 = stat.Quantile(0.50, stat.Empirical, speeds, nil)
	fs.SpeedP90 = stat.Quantile(0.90, stat.Empirical, speeds, nil)

	if len(neighborCounts) > 0 {
		sort.Float64s(neighborCounts)
		fs.NeighborsMean = stat.Mean(neighborCounts, nil)
		fs.NeighborsP90 = stat.Quantile(0.90, stat.Empirical, neighborCounts, nil)
	}

	return fs
}

// LogStats emits the window aggregates through slog.
func (fs FlockStats) LogStats() {
	slog.Info("flock",
		"window_end", fs.WindowEnd,
		"particles", fs.Particles,
		"speed_mean", fs.SpeedMean,
		"speed_p50", fs.SpeedP50,
		"speed_p90", fs.SpeedP90,
		"neighbors_mean", fs.NeighborsMean,
		"neighbors_p90", fs.NeighborsP90,
	)
}
