package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/DjordjeVuckovic/query-verify/internal/verify/compare"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/runner"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/scenario"
	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ruleWidth = 80

// Console renders the human-readable trace of a run.
type Console struct {
	w    io.Writer
	p    *message.Printer
	ok   *color.Color
	bad  *color.Color
	warn *color.Color
	bold *color.Color
}

func NewConsole(w io.Writer, noColor bool) *Console {
	c := &Console{
		w:    w,
		p:    message.NewPrinter(language.English),
		ok:   color.New(color.FgGreen),
		bad:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow),
		bold: color.New(color.Bold),
	}
	if noColor {
		for _, col := range []*color.Color{c.ok, c.bad, c.warn, c.bold} {
			col.DisableColor()
		}
	}
	return c
}

func (c *Console) Header(title string) {
	fmt.Fprintln(c.w, strings.Repeat("=", ruleWidth))
	c.bold.Fprintln(c.w, title)
	fmt.Fprintln(c.w, strings.Repeat("=", ruleWidth))
}

func (c *Console) Phase(n int, title string) {
	fmt.Fprintf(c.w, "\n%s\n", strings.Repeat("=", ruleWidth))
	c.bold.Fprintf(c.w, "PHASE %d: %s\n", n, title)
	fmt.Fprintln(c.w, strings.Repeat("=", ruleWidth))
}

func (c *Console) Preflight(missing []string, err error) {
	switch {
	case err != nil:
		c.warn.Fprintf(c.w, "WARN  schema check failed: %v\n", err)
	case len(missing) > 0:
		c.warn.Fprintf(c.w, "WARN  missing tables: %s\n", strings.Join(missing, ", "))
	default:
		c.ok.Fprintln(c.w, "OK    all required tables present")
	}
}

func (c *Console) Scenarios(scenarios []scenario.Scenario) {
	for i, sc := range scenarios {
		fmt.Fprintf(c.w, "%d. %s [%s]\n   %s\n", i+1, sc.Name, sc.Kind, sc.Description)
	}
}

func (c *Console) Result(r runner.Result) {
	fmt.Fprintf(c.w, "\n%s\n", strings.Repeat("-", ruleWidth))
	fmt.Fprintf(c.w, "Test: %s (%s)\n   %s\n", r.Scenario.Name, r.Variant, r.Scenario.Description)
	fmt.Fprintln(c.w, strings.Repeat("-", ruleWidth))

	if r.Err != nil {
		c.bad.Fprintf(c.w, "   ERROR %v\n", r.Err)
		return
	}

	switch out := r.Outcome.(type) {
	case runner.CountOutcome:
		c.p.Fprintf(c.w, "   Total rows: %d\n", out.Total)
	case runner.FilteredOutcome:
		c.p.Fprintf(c.w, "   Rows for government %v: %d\n", r.Scenario.GovernmentID, out.RowCount)
		c.rows(out.Sample)
	case runner.AggregateOutcome:
		for _, nc := range out.Sums() {
			c.p.Fprintf(c.w, "   Total %s: %d\n", nc.Name, nc.Value)
		}
	case runner.SampleOutcome:
		c.p.Fprintf(c.w, "   Sample size: %d\n", out.RowCount)
	}
	fmt.Fprintf(c.w, "   Time: %s\n", fmtDuration(r.Duration))
}

func (c *Console) rows(rs runner.RowSet) {
	if len(rs.Rows) == 0 {
		return
	}
	cols := rs.Columns
	if len(cols) == 0 {
		for k := range rs.Rows[0] {
			cols = append(cols, k)
		}
		sort.Strings(cols)
	}

	tw := tabwriter.NewWriter(c.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "   "+strings.Join(cols, "\t"))
	for _, row := range rs.Rows {
		vals := make([]string, len(cols))
		for i, col := range cols {
			vals[i] = fmt.Sprint(normalizeValue(row[col]))
		}
		fmt.Fprintln(tw, "   "+strings.Join(vals, "\t"))
	}
	tw.Flush()
}

func (c *Console) Comparison(cmp compare.Comparison) {
	fmt.Fprintf(c.w, "\n%s\n", strings.Repeat("=", ruleWidth))
	c.bold.Fprintf(c.w, "COMPARISON: %s\n", cmp.Scenario.Name)
	fmt.Fprintln(c.w, strings.Repeat("=", ruleWidth))

	if cmp.Status == compare.StatusSkipped {
		c.warn.Fprintf(c.w, "SKIP  cannot compare: %s\n", cmp.Reason)
		return
	}

	base, cand := cmp.Baseline.Variant, cmp.Candidate.Variant
	w := max(len(base), len(cand)) + 1

	for _, f := range cmp.Fields {
		if f.Equal() {
			c.ok.Fprint(c.w, "OK    ")
			c.p.Fprintf(c.w, "%s: %d\n", f.Name, f.Baseline)
			continue
		}
		c.bad.Fprintf(c.w, "FAIL  %s MISMATCH\n", f.Name)
		c.p.Fprintf(c.w, "      %s %d\n", padLabel(base, w), f.Baseline)
		c.p.Fprintf(c.w, "      %s %d\n", padLabel(cand, w), f.Candidate)
	}

	pw := max(w, len("improvement:"))
	fmt.Fprintf(c.w, "\nPerformance:\n")
	fmt.Fprintf(c.w, "   %s %s\n", padLabel(base, pw), fmtDuration(cmp.Baseline.Duration))
	fmt.Fprintf(c.w, "   %s %s\n", padLabel(cand, pw), fmtDuration(cmp.Candidate.Duration))
	fmt.Fprintf(c.w, "   %-*s %.2fx\n", pw, "speedup:", cmp.Speedup)
	fmt.Fprintf(c.w, "   %-*s %.1f%%\n", pw, "improvement:", cmp.Improvement)
}

// padLabel renders "label:" left-aligned in width columns.
func padLabel(label string, width int) string {
	return fmt.Sprintf("%-*s", width, label+":")
}

// Summary prints the per-scenario table and the overall verdict.
func (c *Console) Summary(comparisons []compare.Comparison) {
	fmt.Fprintf(c.w, "\n%s\n", strings.Repeat("=", ruleWidth))
	c.bold.Fprintln(c.w, "FINAL SUMMARY")
	fmt.Fprintf(c.w, "%s\n\n", strings.Repeat("=", ruleWidth))

	base, cand := "Baseline", "Candidate"
	if len(comparisons) > 0 {
		base, cand = comparisons[0].Baseline.Variant, comparisons[0].Candidate.Variant
	}

	tw := tabwriter.NewWriter(c.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Scenario\tStatus\t%s\t%s\tSpeedup\n", base, cand)
	fmt.Fprintln(tw, "---\t---\t---\t---\t---")
	for _, cmp := range comparisons {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2fx\n",
			cmp.Scenario.Name,
			statusLabel(cmp.Status),
			fmtDuration(cmp.Baseline.Duration),
			fmtDuration(cmp.Candidate.Duration),
			cmp.Speedup,
		)
	}
	tw.Flush()
	fmt.Fprintln(c.w)

	if compare.AllMatched(comparisons) {
		c.ok.Fprintln(c.w, "ALL TEST SCENARIOS PASSED - results match")
		return
	}
	c.bad.Fprintln(c.w, "SOME TEST SCENARIOS FAILED - results differ or could not be compared")
}

func (c *Console) Artifact(kind, path string, err error) {
	if err != nil {
		c.bad.Fprintf(c.w, "ERROR saving %s: %v\n", kind, err)
		return
	}
	c.ok.Fprintf(c.w, "OK    %s saved to %s\n", kind, path)
}

func statusLabel(s compare.Status) string {
	switch s {
	case compare.StatusMatch:
		return "PASS"
	case compare.StatusMismatch:
		return "FAIL"
	default:
		return "SKIP"
	}
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
