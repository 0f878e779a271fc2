package runner

import (
	"time"

	"github.com/DjordjeVuckovic/query-verify/internal/storage"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/scenario"
)

// Outcome is the kind-specific payload of a successful scenario execution.
type Outcome interface {
	Kind() scenario.Kind
}

type CountOutcome struct {
	Total int64
}

type FilteredOutcome struct {
	RowCount int64
	// Sample holds the first rows for inspection; it is never compared.
	Sample RowSet
}

type AggregateOutcome struct {
	Followed   int64
	Downloaded int64
	Applied    int64
	NoBid      int64
	Submitted  int64
}

type SampleOutcome struct {
	RowCount int64
	Rows     RowSet
}

func (CountOutcome) Kind() scenario.Kind     { return scenario.KindTotalCount }
func (FilteredOutcome) Kind() scenario.Kind  { return scenario.KindFilteredByKey }
func (AggregateOutcome) Kind() scenario.Kind { return scenario.KindAggregateSum }
func (SampleOutcome) Kind() scenario.Kind    { return scenario.KindBoundedSample }

// NamedCount is one integer field of an outcome.
type NamedCount struct {
	Name  string
	Value int64
}

// Sums lists the flag totals in scenario.FlagColumns order.
func (a AggregateOutcome) Sums() []NamedCount {
	return []NamedCount{
		{Name: "followed", Value: a.Followed},
		{Name: "downloaded", Value: a.Downloaded},
		{Name: "applied", Value: a.Applied},
		{Name: "no_bid", Value: a.NoBid},
		{Name: "submitted", Value: a.Submitted},
	}
}

type RowSet struct {
	Columns []string
	Rows    []storage.Row
}

// Result is what one variant produced for one scenario. Exactly one of Outcome and Err is set.
type Result struct {
	Variant  string
	Scenario scenario.Scenario
	Outcome  Outcome
	Duration time.Duration
	Latency  LatencyStats
	Err      error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// RunResult holds every scenario result of both variants, in scenario order.
type RunResult struct {
	Scenarios []scenario.Scenario
	Baseline  VariantResult
	Candidate VariantResult
}

type VariantResult struct {
	Label   string
	Results []Result
}
