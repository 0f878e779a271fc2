// Package compare decides whether two variants agree on a scenario.
package compare

import (
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/query-verify/internal/verify/runner"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/scenario"
)

type Status string

const (
	StatusMatch    Status = "match"
	StatusMismatch Status = "mismatch"
	// StatusSkipped means at least one side failed; it is neither a match nor a mismatch.
	StatusSkipped Status = "cannot_compare"
)

// FieldCheck is one compared integer field.
type FieldCheck struct {
	Name      string `json:"name"`
	Baseline  int64  `json:"baseline"`
	Candidate int64  `json:"candidate"`
}

func (f FieldCheck) Equal() bool {
	return f.Baseline == f.Candidate
}

type Comparison struct {
	Scenario  scenario.Scenario
	Baseline  runner.Result
	Candidate runner.Result
	Status    Status
	Fields    []FieldCheck
	// Reason explains a skipped comparison.
	Reason      string
	Speedup     float64
	Improvement float64
}

func (c Comparison) Matched() bool {
	return c.Status == StatusMatch
}

// Compare checks the integer fields of the two results for exact equality.
// Row payloads and timings never affect the status.
func Compare(baseline, candidate runner.Result) Comparison {
	c := Comparison{
		Scenario:    baseline.Scenario,
		Baseline:    baseline,
		Candidate:   candidate,
		Speedup:     Speedup(baseline.Duration, candidate.Duration),
		Improvement: Improvement(baseline.Duration, candidate.Duration),
	}

	if baseline.Failed() || candidate.Failed() {
		c.Status = StatusSkipped
		c.Reason = "one or both queries had errors"
		return c
	}

	fields, err := fieldsOf(baseline.Outcome, candidate.Outcome)
	if err != nil {
		c.Status = StatusSkipped
		c.Reason = err.Error()
		return c
	}

	c.Fields = fields
	c.Status = StatusMatch
	for _, f := range fields {
		if !f.Equal() {
			c.Status = StatusMismatch
			break
		}
	}
	return c
}

// CompareAll pairs results by position; both slices must follow the same scenario order.
func CompareAll(rr *runner.RunResult) []Comparison {
	out := make([]Comparison, 0, len(rr.Scenarios))
	for i := range rr.Scenarios {
		if i >= len(rr.Baseline.Results) || i >= len(rr.Candidate.Results) {
			break
		}
		out = append(out, Compare(rr.Baseline.Results[i], rr.Candidate.Results[i]))
	}
	return out
}

// AllMatched is true only when there is at least one comparison and every one matched.
func AllMatched(comparisons []Comparison) bool {
	if len(comparisons) == 0 {
		return false
	}
	for _, c := range comparisons {
		if !c.Matched() {
			return false
		}
	}
	return true
}

// Speedup is baseline/candidate, or 0 when the candidate took no measurable time.
func Speedup(baseline, candidate time.Duration) float64 {
	if candidate <= 0 {
		return 0
	}
	return baseline.Seconds() / candidate.Seconds()
}

// Improvement is the relative time saved by the candidate in percent, or 0 without a baseline.
func Improvement(baseline, candidate time.Duration) float64 {
	if baseline <= 0 {
		return 0
	}
	return (baseline - candidate).Seconds() / baseline.Seconds() * 100
}

func fieldsOf(a, b runner.Outcome) ([]FieldCheck, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("missing outcome")
	}
	if a.Kind() != b.Kind() {
		return nil, fmt.Errorf("incompatible outcomes %s and %s", a.Kind(), b.Kind())
	}

	incompatible := fmt.Errorf("incompatible outcomes %T and %T", a, b)

	switch x := a.(type) {
	case runner.CountOutcome:
		y, ok := b.(runner.CountOutcome)
		if !ok {
			return nil, incompatible
		}
		return []FieldCheck{{Name: "total_rows", Baseline: x.Total, Candidate: y.Total}}, nil

	case runner.FilteredOutcome:
		y, ok := b.(runner.FilteredOutcome)
		if !ok {
			return nil, incompatible
		}
		return []FieldCheck{{Name: "row_count", Baseline: x.RowCount, Candidate: y.RowCount}}, nil

	case runner.SampleOutcome:
		y, ok := b.(runner.SampleOutcome)
		if !ok {
			return nil, incompatible
		}
		return []FieldCheck{{Name: "row_count", Baseline: x.RowCount, Candidate: y.RowCount}}, nil

	case runner.AggregateOutcome:
		y, ok := b.(runner.AggregateOutcome)
		if !ok {
			return nil, incompatible
		}
		xs, ys := x.Sums(), y.Sums()
		fields := make([]FieldCheck, len(xs))
		for i := range xs {
			fields[i] = FieldCheck{Name: "total_" + xs[i].Name, Baseline: xs[i].Value, Candidate: ys[i].Value}
		}
		return fields, nil

	default:
		return nil, fmt.Errorf("unsupported outcome %T", a)
	}
}
