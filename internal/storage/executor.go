package storage

import (
	"context"
)

type ExecOptions struct {
	TimeoutSeconds int
}

// Row is a single result row keyed by column name.
type Row = map[string]any

type ExecuteResult struct {
	// Columns preserves the projection order, which Row maps lose.
	Columns []string
	Rows    []Row
}

func (r *ExecuteResult) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// RawExecutor defines the interface for executing db queries.
type RawExecutor interface {
	// Exec executes a query with the given parameters and options
	// Order of params must match the order of placeholders in the query.
	Exec(ctx context.Context, query string, params []any, opts *ExecOptions) (*ExecuteResult, error)
}
