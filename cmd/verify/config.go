package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/DjordjeVuckovic/query-verify/internal/verify"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/report"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/runner"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/scenario"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/spec"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/variant"
	"github.com/DjordjeVuckovic/query-verify/pkg/utils"
)

type cliConfig struct {
	SpecPath      string
	OriginalPath  string
	OptimizedPath string
	SampleLimit   int
	GovernmentID  int64
	Warmup        int
	Runs          int
	Timeout       int
	OutputDir     string
	Prefix        string
	Tables        string
	Schema        string
	NoColor       bool
	Verbose       bool

	// set records the flags given explicitly on the command line.
	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (cliConfig, error) {
	cfg := cliConfig{set: make(map[string]bool)}

	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.SpecPath, "spec", "", "Path to run spec YAML")
	fs.StringVar(&cfg.OriginalPath, "original", "", "SQL file for the original variant (default: built-in)")
	fs.StringVar(&cfg.OptimizedPath, "optimized", "", "SQL file for the optimized variant (default: built-in)")
	fs.IntVar(&cfg.SampleLimit, "sample-limit", scenario.DefaultSampleLimit, "Row limit of the bounded sample scenario")
	fs.Int64Var(&cfg.GovernmentID, "government-id", 0, "Government id for the filtered scenario (default: discovered)")
	fs.IntVar(&cfg.Warmup, "warmup", runner.DefaultWarmupRuns, "Number of warmup runs per scenario")
	fs.IntVar(&cfg.Runs, "runs", runner.DefaultRuns, "Number of measured iterations per scenario (median used)")
	fs.IntVar(&cfg.Timeout, "timeout", 0, "Per-statement timeout in seconds, 0 disables")
	fs.StringVar(&cfg.OutputDir, "output-dir", ".", "Directory for the results JSON and SQL files")
	fs.StringVar(&cfg.Prefix, "prefix", report.DefaultPrefix, "File name prefix of written artifacts")
	fs.StringVar(&cfg.Tables, "tables", "", "Required tables for the schema check, comma-separated")
	fs.StringVar(&cfg.Schema, "schema", spec.DefaultSchema, "Schema searched by the schema check")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })
	return cfg, nil
}

// runConfig merges the optional run spec with the command line; explicit flags win.
func (c cliConfig) runConfig() (verify.Config, error) {
	rs := &spec.RunSpec{
		Scenarios: spec.ScenariosConfig{
			SampleLimit:    scenario.DefaultSampleLimit,
			DiscoveryLimit: scenario.DefaultDiscoveryLimit,
		},
		Runs:           spec.RunsConfig{Iterations: runner.DefaultRuns},
		Output:         spec.OutputConfig{Dir: ".", Prefix: report.DefaultPrefix},
		Schema:         spec.DefaultSchema,
		RequiredTables: spec.DefaultRequiredTables,
	}

	var base, cand variant.Variant
	var err error
	if c.SpecPath != "" {
		ls, err := spec.LoadFromFile(c.SpecPath)
		if err != nil {
			return verify.Config{}, fmt.Errorf("load spec %s: %w", c.SpecPath, err)
		}
		rs = ls.Spec
		if base, cand, err = ls.ResolveVariants(); err != nil {
			return verify.Config{}, err
		}
	} else if base, cand, err = variant.Builtin(); err != nil {
		return verify.Config{}, err
	}

	if c.OriginalPath != "" {
		if base, err = variant.FromFile(base.Label(), c.OriginalPath); err != nil {
			return verify.Config{}, err
		}
	}
	if c.OptimizedPath != "" {
		if cand, err = variant.FromFile(cand.Label(), c.OptimizedPath); err != nil {
			return verify.Config{}, err
		}
	}

	cfg := verify.Config{
		Baseline:  base,
		Candidate: cand,
		Scenarios: scenario.Config{
			SampleLimit:    rs.Scenarios.SampleLimit,
			DiscoveryLimit: rs.Scenarios.DiscoveryLimit,
			GovernmentID:   rs.Scenarios.GovernmentID,
		},
		Runs: runner.Config{
			WarmupRuns:     rs.Runs.Warmup,
			Runs:           rs.Runs.Iterations,
			TimeoutSeconds: rs.Runs.TimeoutSeconds,
		},
		Schema:         rs.Schema,
		RequiredTables: rs.RequiredTables,
		OutputDir:      rs.Output.Dir,
		Prefix:         rs.Output.Prefix,
	}

	if c.set["sample-limit"] {
		cfg.Scenarios.SampleLimit = c.SampleLimit
	}
	if c.set["government-id"] {
		id := c.GovernmentID
		cfg.Scenarios.GovernmentID = &id
	}
	if c.set["warmup"] {
		cfg.Runs.WarmupRuns = c.Warmup
	}
	if c.set["runs"] {
		cfg.Runs.Runs = max(c.Runs, 1)
	}
	if c.set["timeout"] {
		cfg.Runs.TimeoutSeconds = c.Timeout
	}
	if c.set["output-dir"] {
		cfg.OutputDir = c.OutputDir
	}
	if c.set["prefix"] {
		cfg.Prefix = c.Prefix
	}
	if c.set["schema"] {
		cfg.Schema = c.Schema
	}
	if c.set["tables"] {
		cfg.RequiredTables = utils.SplitList(c.Tables)
	}

	if _, err := scenario.BoundedSample(cfg.Scenarios.SampleLimit); err != nil {
		return verify.Config{}, err
	}
	if cfg.Runs.WarmupRuns < 0 || cfg.Runs.TimeoutSeconds < 0 {
		return verify.Config{}, fmt.Errorf("warmup and timeout must not be negative")
	}
	return cfg, nil
}

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{ENV: os.Getenv("ENV")}
}
