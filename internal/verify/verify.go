package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/DjordjeVuckovic/query-verify/internal/apperr"
	"github.com/DjordjeVuckovic/query-verify/internal/storage"
	"github.com/DjordjeVuckovic/query-verify/internal/storage/pg"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/compare"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/report"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/runner"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/scenario"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/variant"
	"github.com/google/uuid"
)

type Config struct {
	Baseline  variant.Variant
	Candidate variant.Variant

	Scenarios scenario.Config
	Runs      runner.Config

	// Schema and RequiredTables drive the preflight check; no tables disables it.
	Schema         string
	RequiredTables []string

	OutputDir string
	Prefix    string

	// RunID and Now are generated when unset.
	RunID string
	Now   func() time.Time
}

// Outcome is the terminal state of a run.
type Outcome struct {
	RunID       string
	Summary     *report.Summary
	Comparisons []compare.Comparison
	Artifacts   report.ArtifactPaths
	AllMatched  bool
	// PersistErr joins every artifact write failure. It never changes the verdict.
	PersistErr error
}

// Harness runs both variants through every scenario on one executor.
type Harness struct {
	executor storage.RawExecutor
	config   Config
	console  *report.Console
}

func New(executor storage.RawExecutor, cfg Config, console *report.Console) (*Harness, error) {
	if cfg.Baseline.IsZero() || cfg.Candidate.IsZero() {
		return nil, apperr.NewValidation("both variants need query text")
	}
	if cfg.Baseline.Label() == cfg.Candidate.Label() {
		return nil, apperr.NewValidation(fmt.Sprintf("variants share the label %q", cfg.Baseline.Label()))
	}
	if cfg.Schema == "" {
		cfg.Schema = "public"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Prefix == "" {
		cfg.Prefix = report.DefaultPrefix
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if console == nil {
		console = report.NewConsole(io.Discard, true)
	}
	return &Harness{executor: executor, config: cfg, console: console}, nil
}

// RunWithPool holds a single pooled connection for the whole run.
func RunWithPool(ctx context.Context, pool *pg.ConnectionPool, cfg Config, console *report.Console) (*Outcome, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, apperr.NewConnection("postgres", err)
	}
	defer conn.Release()

	h, err := New(pg.NewRawExecutor(conn), cfg, console)
	if err != nil {
		return nil, err
	}
	return h.Run(ctx)
}

// Run executes preflight, scenario building, both variants, comparison and persistence, in that order.
// Scenario failures are recorded in the outcome; only an invalid configuration or a
// cancelled context returns an error.
func (h *Harness) Run(ctx context.Context) (*Outcome, error) {
	ts := h.config.Now()
	base, cand := h.config.Baseline, h.config.Candidate

	h.console.Header("QUERY EQUIVALENCE VERIFICATION")
	slog.Info("Starting verification", "run_id", h.config.RunID, "baseline", base.Label(), "candidate", cand.Label())

	if len(h.config.RequiredTables) > 0 {
		h.console.Phase(0, "Checking schema")
		h.preflight(ctx)
	}

	h.console.Phase(1, "Preparing test scenarios")
	scenarios, err := scenario.NewBuilder(h.executor, h.config.Scenarios).Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build scenarios: %w", err)
	}
	h.console.Scenarios(scenarios)

	exec := runner.NewExecutor(h.executor, h.config.Runs)
	rr := &runner.RunResult{Scenarios: scenarios}

	h.console.Phase(2, "Testing "+base.Label()+" query")
	rr.Baseline = h.runVariant(ctx, exec, base, scenarios)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.console.Phase(3, "Testing "+cand.Label()+" query")
	rr.Candidate = h.runVariant(ctx, exec, cand, scenarios)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.console.Phase(4, "Comparing results")
	comparisons := compare.CompareAll(rr)
	for _, c := range comparisons {
		h.console.Comparison(c)
	}
	h.console.Summary(comparisons)

	out := &Outcome{
		RunID:       h.config.RunID,
		Summary:     report.Generate(h.config.RunID, ts, rr, comparisons),
		Comparisons: comparisons,
		Artifacts:   report.NewArtifactPaths(h.config.OutputDir, h.config.Prefix, ts, base.Label(), cand.Label()),
		AllMatched:  compare.AllMatched(comparisons),
	}
	out.PersistErr = h.persist(out)

	slog.Info("Verification finished", "run_id", out.RunID, "all_matched", out.AllMatched)
	return out, nil
}

func (h *Harness) preflight(ctx context.Context) {
	missing, err := pg.NewSchemaInspector(h.executor).MissingTables(ctx, h.config.Schema, h.config.RequiredTables)
	switch {
	case err != nil:
		slog.Warn("Schema check failed", "error", err)
	case len(missing) > 0:
		slog.Warn("Required tables missing", "schema", h.config.Schema, "tables", missing)
	}
	h.console.Preflight(missing, err)
}

func (h *Harness) runVariant(ctx context.Context, exec *runner.Executor, v variant.Variant, scenarios []scenario.Scenario) runner.VariantResult {
	vr := exec.RunAll(ctx, v, scenarios)
	for _, r := range vr.Results {
		h.console.Result(r)
	}
	return vr
}

func (h *Harness) persist(out *Outcome) error {
	if err := os.MkdirAll(h.config.OutputDir, 0755); err != nil {
		err = apperr.NewPersistence(h.config.OutputDir, err)
		h.console.Artifact("results", out.Artifacts.Summary, err)
		slog.Error("Failed to create output directory", "error", err)
		return err
	}

	var errs []error
	err := report.WriteJSON(out.Summary, out.Artifacts.Summary)
	h.console.Artifact("results", out.Artifacts.Summary, err)
	if err != nil {
		errs = append(errs, err)
	}

	for _, v := range []variant.Variant{h.config.Baseline, h.config.Candidate} {
		path := out.Artifacts.Queries[v.Label()]
		err := report.WriteQuery(v, path)
		h.console.Artifact(v.Label()+" query", path, err)
		if err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		slog.Error("Failed to save artifacts", "error", err)
		return err
	}
	return nil
}
