package pg

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/query-verify/internal/storage"
)

const listTablesQuery = `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = $1 AND table_name = ANY($2)
	ORDER BY table_name`

type SchemaInspector struct {
	executor storage.RawExecutor
}

func NewSchemaInspector(executor storage.RawExecutor) *SchemaInspector {
	return &SchemaInspector{executor: executor}
}

// MissingTables returns the subset of tables absent from schema, in input order.
func (si *SchemaInspector) MissingTables(ctx context.Context, schema string, tables []string) ([]string, error) {
	if len(tables) == 0 {
		return nil, nil
	}

	result, err := si.executor.Exec(ctx, listTablesQuery, []any{schema, tables}, nil)
	if err != nil {
		return nil, fmt.Errorf("list tables in schema %q: %w", schema, err)
	}

	present := make(map[string]bool, result.RowCount())
	for _, row := range result.Rows {
		if name, ok := row["table_name"].(string); ok {
			present[name] = true
		}
	}

	var missing []string
	for _, t := range tables {
		if !present[t] {
			missing = append(missing, t)
		}
	}
	return missing, nil
}
