package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/query-verify/internal/apperr"
	"github.com/DjordjeVuckovic/query-verify/internal/storage"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/scenario"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/variant"
)

// Executor runs scenarios for a variant, one statement at a time.
type Executor struct {
	executor storage.RawExecutor
	config   Config
}

func NewExecutor(executor storage.RawExecutor, cfg Config) *Executor {
	return &Executor{executor: executor, config: cfg}
}

// RunAll executes every scenario in order. A failing scenario is recorded
// and the remaining scenarios still run.
func (e *Executor) RunAll(ctx context.Context, v variant.Variant, scenarios []scenario.Scenario) VariantResult {
	vr := VariantResult{Label: v.Label(), Results: make([]Result, 0, len(scenarios))}
	for _, sc := range scenarios {
		vr.Results = append(vr.Results, e.Run(ctx, v, sc))
	}
	return vr
}

// Run produces exactly one Result for the variant and scenario.
func (e *Executor) Run(ctx context.Context, v variant.Variant, sc scenario.Scenario) Result {
	res := Result{Variant: v.Label(), Scenario: sc}

	stmt, err := sc.Statement(v)
	if err != nil {
		res.Err = apperr.NewExecution(sc.Name, v.Label(), fmt.Errorf("build statement: %w", err))
		return res
	}

	out, latencies, err := e.measure(ctx, stmt, slog.With("scenario", sc.Name, "variant", v.Label()))
	res.Latency = ComputeLatencyStats(latencies)
	res.Duration = res.Latency.Median
	if err != nil {
		res.Err = apperr.NewExecution(sc.Name, v.Label(), err)
		slog.Warn("scenario failed", "scenario", sc.Name, "variant", v.Label(), "error", err)
		return res
	}

	outcome, err := decode(sc, out)
	if err != nil {
		res.Err = apperr.NewExecution(sc.Name, v.Label(), fmt.Errorf("decode result: %w", err))
		return res
	}
	res.Outcome = outcome

	slog.Debug("scenario executed", "scenario", sc.Name, "variant", v.Label(), "duration", res.Duration)
	return res
}

// measure runs warmups, then the measured iterations. The first failing
// iteration ends the measurement; there are no retries.
func (e *Executor) measure(ctx context.Context, stmt scenario.Statement, log *slog.Logger) (*storage.ExecuteResult, []time.Duration, error) {
	opts := &storage.ExecOptions{TimeoutSeconds: e.config.TimeoutSeconds}

	for i := 0; i < e.config.WarmupRuns; i++ {
		if _, err := e.executor.Exec(ctx, stmt.SQL, stmt.Args, opts); err != nil {
			log.Debug("warmup run failed", "run", i+1, "error", err)
		}
	}

	runs := max(e.config.Runs, 1)
	latencies := make([]time.Duration, 0, runs)
	var last *storage.ExecuteResult

	for i := 0; i < runs; i++ {
		start := time.Now()
		result, err := e.executor.Exec(ctx, stmt.SQL, stmt.Args, opts)
		elapsed := time.Since(start)
		if err != nil {
			return nil, latencies, err
		}
		latencies = append(latencies, elapsed)
		last = result
	}

	return last, latencies, nil
}

func decode(sc scenario.Scenario, out *storage.ExecuteResult) (Outcome, error) {
	if out == nil {
		out = &storage.ExecuteResult{}
	}

	switch sc.Kind {
	case scenario.KindTotalCount:
		row, err := singleRow(out)
		if err != nil {
			return nil, err
		}
		total, err := toInt64(row["total"])
		if err != nil {
			return nil, fmt.Errorf("total: %w", err)
		}
		return CountOutcome{Total: total}, nil

	case scenario.KindFilteredByKey:
		n := min(len(out.Rows), scenario.FilteredSampleSize)
		return FilteredOutcome{
			RowCount: int64(len(out.Rows)),
			Sample:   RowSet{Columns: out.Columns, Rows: out.Rows[:n:n]},
		}, nil

	case scenario.KindAggregateSum:
		row, err := singleRow(out)
		if err != nil {
			return nil, err
		}
		sums := make(map[string]int64, len(scenario.FlagColumns))
		for _, col := range scenario.FlagColumns {
			v, err := toInt64(row["total_"+col])
			if err != nil {
				return nil, fmt.Errorf("total_%s: %w", col, err)
			}
			sums[col] = v
		}
		return AggregateOutcome{
			Followed:   sums["followed"],
			Downloaded: sums["downloaded"],
			Applied:    sums["applied"],
			NoBid:      sums["no_bid"],
			Submitted:  sums["submitted"],
		}, nil

	case scenario.KindBoundedSample:
		return SampleOutcome{
			RowCount: int64(len(out.Rows)),
			Rows:     RowSet{Columns: out.Columns, Rows: out.Rows},
		}, nil

	default:
		return nil, fmt.Errorf("unknown scenario kind %q", sc.Kind)
	}
}

func singleRow(out *storage.ExecuteResult) (storage.Row, error) {
	if len(out.Rows) != 1 {
		return nil, fmt.Errorf("expected 1 row, got %d", len(out.Rows))
	}
	return out.Rows[0], nil
}
