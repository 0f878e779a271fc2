package report

import (
	"runtime"
	"time"

	"github.com/DjordjeVuckovic/query-verify/internal/verify/compare"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/runner"
)

// Summary is the persisted record of one verification run.
type Summary struct {
	RunID       string                            `json:"run_id"`
	Timestamp   time.Time                         `json:"timestamp"`
	Environment EnvironmentInfo                   `json:"environment"`
	Variants    []string                          `json:"variants"`
	Scenarios   []ScenarioInfo                    `json:"scenarios"`
	Results     map[string]map[string]ResultEntry `json:"results"` // [variant][scenario]
	Comparisons map[string]ComparisonEntry        `json:"comparisons"`
	AllMatched  bool                              `json:"all_matched"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

type ScenarioInfo struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Kind         string `json:"kind"`
	GovernmentID any    `json:"government_id,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

type ResultEntry struct {
	Kind          string              `json:"kind"`
	ExecutionTime float64             `json:"execution_time"`
	Latency       runner.LatencyStats `json:"latency"`
	Counts        map[string]int64    `json:"counts,omitempty"`
	SampleRecords []map[string]any    `json:"sample_records,omitempty"`
	Records       []map[string]any    `json:"records,omitempty"`
	Error         string              `json:"error,omitempty"`
}

type ComparisonEntry struct {
	Baseline    string               `json:"baseline"`
	Candidate   string               `json:"candidate"`
	Status      compare.Status       `json:"status"`
	Match       bool                 `json:"match"`
	Fields      []compare.FieldCheck `json:"fields,omitempty"`
	Reason      string               `json:"reason,omitempty"`
	Speedup     float64              `json:"speedup"`
	Improvement float64              `json:"improvement_pct"`
}
