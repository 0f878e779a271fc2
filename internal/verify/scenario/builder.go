package scenario

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/query-verify/internal/storage"
)

const discoverGovernmentsQuery = `
	SELECT DISTINCT government_id
	FROM project
	WHERE government_id IS NOT NULL
	ORDER BY government_id
	LIMIT $1`

type Config struct {
	SampleLimit    int
	DiscoveryLimit int
	// GovernmentID pins the filtered scenario and skips discovery when set.
	GovernmentID *int64
}

func DefaultConfig() Config {
	return Config{
		SampleLimit:    DefaultSampleLimit,
		DiscoveryLimit: DefaultDiscoveryLimit,
	}
}

type Builder struct {
	executor storage.RawExecutor
	config   Config
}

func NewBuilder(executor storage.RawExecutor, cfg Config) *Builder {
	if cfg.SampleLimit == 0 {
		cfg.SampleLimit = DefaultSampleLimit
	}
	if cfg.DiscoveryLimit <= 0 {
		cfg.DiscoveryLimit = DefaultDiscoveryLimit
	}
	return &Builder{executor: executor, config: cfg}
}

// Build returns the scenarios in run order: total count, government filter,
// aggregate sums, bounded sample. The government filter is left out when no
// government id can be found; that is not an error.
func (b *Builder) Build(ctx context.Context) ([]Scenario, error) {
	sample, err := BoundedSample(b.config.SampleLimit)
	if err != nil {
		return nil, err
	}

	scenarios := []Scenario{TotalCount()}

	if govID, ok := b.governmentID(ctx); ok {
		scenarios = append(scenarios, FilteredByKey(govID))
	}

	scenarios = append(scenarios, AggregateSum(), sample)

	slog.Info("Scenarios prepared", "count", len(scenarios))
	return scenarios, nil
}

func (b *Builder) governmentID(ctx context.Context) (any, bool) {
	if b.config.GovernmentID != nil {
		slog.Info("Using pinned government", "government_id", *b.config.GovernmentID)
		return *b.config.GovernmentID, true
	}

	ids, err := b.DiscoverGovernments(ctx)
	if err != nil {
		slog.Warn("Government discovery failed, skipping filtered scenario", "error", err)
		return nil, false
	}
	if len(ids) == 0 {
		slog.Warn("No government found in project table, skipping filtered scenario")
		return nil, false
	}

	slog.Info("Found governments", "government_ids", ids)
	return ids[0], true
}

// DiscoverGovernments lists up to DiscoveryLimit distinct government ids present in project.
func (b *Builder) DiscoverGovernments(ctx context.Context) ([]any, error) {
	result, err := b.executor.Exec(ctx, discoverGovernmentsQuery, []any{b.config.DiscoveryLimit}, nil)
	if err != nil {
		return nil, fmt.Errorf("discover governments: %w", err)
	}

	ids := make([]any, 0, result.RowCount())
	for _, row := range result.Rows {
		if id := row["government_id"]; id != nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
