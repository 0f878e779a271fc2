package report

import (
	"time"

	"github.com/DjordjeVuckovic/query-verify/internal/verify/compare"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/runner"
	"github.com/DjordjeVuckovic/query-verify/pkg/utils"
)

func Generate(runID string, ts time.Time, rr *runner.RunResult, comparisons []compare.Comparison) *Summary {
	s := &Summary{
		RunID:       runID,
		Timestamp:   ts,
		Environment: NewEnvironmentInfo(),
		Variants:    []string{rr.Baseline.Label, rr.Candidate.Label},
		Results:     make(map[string]map[string]ResultEntry, 2),
		Comparisons: make(map[string]ComparisonEntry, len(comparisons)),
		AllMatched:  compare.AllMatched(comparisons),
	}

	for _, sc := range rr.Scenarios {
		s.Scenarios = append(s.Scenarios, ScenarioInfo{
			Name:         sc.Name,
			Description:  sc.Description,
			Kind:         string(sc.Kind),
			GovernmentID: normalizeValue(sc.GovernmentID),
			Limit:        sc.Limit,
		})
	}

	for _, vr := range []runner.VariantResult{rr.Baseline, rr.Candidate} {
		entries := make(map[string]ResultEntry, len(vr.Results))
		for _, r := range vr.Results {
			entries[r.Scenario.Name] = resultEntry(r)
		}
		s.Results[vr.Label] = entries
	}

	for _, c := range comparisons {
		s.Comparisons[c.Scenario.Name] = ComparisonEntry{
			Baseline:    c.Baseline.Variant,
			Candidate:   c.Candidate.Variant,
			Status:      c.Status,
			Match:       c.Matched(),
			Fields:      c.Fields,
			Reason:      c.Reason,
			Speedup:     utils.RoundDecimal(c.Speedup, 4),
			Improvement: utils.RoundDecimal(c.Improvement, 2),
		}
	}

	return s
}

func resultEntry(r runner.Result) ResultEntry {
	e := ResultEntry{
		Kind:          string(r.Scenario.Kind),
		ExecutionTime: utils.RoundDecimal(r.Duration.Seconds(), 6),
		Latency:       r.Latency,
	}
	if r.Err != nil {
		e.Error = r.Err.Error()
		return e
	}

	switch out := r.Outcome.(type) {
	case runner.CountOutcome:
		e.Counts = map[string]int64{"total_rows": out.Total}
	case runner.FilteredOutcome:
		e.Counts = map[string]int64{"row_count": out.RowCount}
		e.SampleRecords = normalizeRows(out.Sample)
	case runner.AggregateOutcome:
		e.Counts = make(map[string]int64, 5)
		for _, nc := range out.Sums() {
			e.Counts["total_"+nc.Name] = nc.Value
		}
	case runner.SampleOutcome:
		e.Counts = map[string]int64{"row_count": out.RowCount}
		e.Records = normalizeRows(out.Rows)
	}
	return e
}
