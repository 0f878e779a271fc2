package runner

import (
	"slices"
	"time"
)

type LatencyStats struct {
	Min         time.Duration `json:"min"`
	Max         time.Duration `json:"max"`
	Mean        time.Duration `json:"mean"`
	Median      time.Duration `json:"median"`
	SampleCount int           `json:"sample_count"`
}

func ComputeLatencyStats(durations []time.Duration) LatencyStats {
	if len(durations) == 0 {
		return LatencyStats{}
	}

	sorted := slices.Clone(durations)
	slices.Sort(sorted)

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}

	return LatencyStats{
		Min:         sorted[0],
		Max:         sorted[len(sorted)-1],
		Mean:        sum / time.Duration(len(sorted)),
		Median:      median(sorted),
		SampleCount: len(sorted),
	}
}

func median(sorted []time.Duration) time.Duration {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func (s LatencyStats) IsZero() bool {
	return s.SampleCount == 0
}
