package compare

import (
	"errors"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/query-verify/internal/verify/runner"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(variant string, sc scenario.Scenario, out runner.Outcome, d time.Duration) runner.Result {
	return runner.Result{Variant: variant, Scenario: sc, Outcome: out, Duration: d}
}

func failed(variant string, sc scenario.Scenario) runner.Result {
	return runner.Result{Variant: variant, Scenario: sc, Err: errors.New("relation does not exist")}
}

func TestCompare(t *testing.T) {
	count := scenario.TotalCount()
	agg := scenario.AggregateSum()

	t.Run("equal counts match", func(t *testing.T) {
		c := Compare(
			result("original", count, runner.CountOutcome{Total: 3}, 2*time.Second),
			result("optimized", count, runner.CountOutcome{Total: 3}, time.Second),
		)
		assert.Equal(t, StatusMatch, c.Status)
		assert.True(t, c.Matched())
		require.Len(t, c.Fields, 1)
		assert.Equal(t, "total_rows", c.Fields[0].Name)
		assert.InDelta(t, 2.0, c.Speedup, 1e-9)
		assert.InDelta(t, 50.0, c.Improvement, 1e-9)
	})

	t.Run("different counts mismatch", func(t *testing.T) {
		c := Compare(
			result("original", count, runner.CountOutcome{Total: 3}, time.Second),
			result("optimized", count, runner.CountOutcome{Total: 4}, time.Second),
		)
		assert.Equal(t, StatusMismatch, c.Status)
		assert.False(t, c.Fields[0].Equal())
	})

	t.Run("a single differing sum is a mismatch", func(t *testing.T) {
		base := runner.AggregateOutcome{Followed: 1, Downloaded: 1, Applied: 1, Submitted: 1}
		cand := base
		cand.NoBid = 1

		c := Compare(result("original", agg, base, 0), result("optimized", agg, cand, 0))
		assert.Equal(t, StatusMismatch, c.Status)
		require.Len(t, c.Fields, 5)
		for _, f := range c.Fields {
			assert.Equal(t, f.Name != "total_no_bid", f.Equal(), f.Name)
		}
	})

	t.Run("sample rows are never compared", func(t *testing.T) {
		sc, err := scenario.BoundedSample(100)
		require.NoError(t, err)
		a := runner.SampleOutcome{RowCount: 1, Rows: runner.RowSet{Rows: []map[string]any{{"vendor_name": "A"}}}}
		b := runner.SampleOutcome{RowCount: 1, Rows: runner.RowSet{Rows: []map[string]any{{"vendor_name": "B"}}}}

		c := Compare(result("original", sc, a, 0), result("optimized", sc, b, 0))
		assert.Equal(t, StatusMatch, c.Status)
	})

	t.Run("filtered row counts", func(t *testing.T) {
		sc := scenario.FilteredByKey(int64(108))
		c := Compare(
			result("original", sc, runner.FilteredOutcome{RowCount: 12}, 0),
			result("optimized", sc, runner.FilteredOutcome{RowCount: 12}, 0),
		)
		assert.Equal(t, StatusMatch, c.Status)
		assert.Equal(t, "row_count", c.Fields[0].Name)
	})

	t.Run("errors are never a match or a mismatch", func(t *testing.T) {
		ok := result("optimized", count, runner.CountOutcome{Total: 3}, 0)
		for _, c := range []Comparison{
			Compare(failed("original", count), ok),
			Compare(ok, failed("optimized", count)),
			Compare(failed("original", count), failed("optimized", count)),
		} {
			assert.Equal(t, StatusSkipped, c.Status)
			assert.False(t, c.Matched())
			assert.Empty(t, c.Fields)
			assert.NotEmpty(t, c.Reason)
		}
	})

	t.Run("incompatible outcomes cannot be compared", func(t *testing.T) {
		c := Compare(
			result("original", count, runner.CountOutcome{Total: 3}, 0),
			result("optimized", count, runner.AggregateOutcome{}, 0),
		)
		assert.Equal(t, StatusSkipped, c.Status)
		assert.Contains(t, c.Reason, "incompatible")
	})
}

func TestSpeedup(t *testing.T) {
	assert.Zero(t, Speedup(time.Second, 0))
	assert.Zero(t, Speedup(0, 0))
	assert.InDelta(t, 0.5, Speedup(time.Second, 2*time.Second), 1e-9)

	assert.Zero(t, Improvement(0, time.Second))
	assert.InDelta(t, -100.0, Improvement(time.Second, 2*time.Second), 1e-9)
}

func TestCompareAll(t *testing.T) {
	count := scenario.TotalCount()
	agg := scenario.AggregateSum()
	sums := runner.AggregateOutcome{Followed: 1}

	rr := &runner.RunResult{
		Scenarios: []scenario.Scenario{count, agg},
		Baseline: runner.VariantResult{Label: "original", Results: []runner.Result{
			result("original", count, runner.CountOutcome{Total: 1}, 0),
			result("original", agg, sums, 0),
		}},
		Candidate: runner.VariantResult{Label: "optimized", Results: []runner.Result{
			result("optimized", count, runner.CountOutcome{Total: 1}, 0),
			result("optimized", agg, sums, 0),
		}},
	}

	comparisons := CompareAll(rr)
	require.Len(t, comparisons, 2)
	assert.True(t, AllMatched(comparisons))

	rr.Candidate.Results[1] = failed("optimized", agg)
	assert.False(t, AllMatched(CompareAll(rr)))

	assert.False(t, AllMatched(nil))
}
