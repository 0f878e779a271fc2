package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/query-verify/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryCanceled is the SQLSTATE raised when statement_timeout fires.
const queryCanceled = "57014"

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Querier is satisfied by *pgxpool.Pool, *pgxpool.Conn, *pgx.Conn and pgx.Tx.
type Querier interface {
	rowQuerier
	Begin(ctx context.Context) (pgx.Tx, error)
}

type RawExecutor struct {
	db Querier
}

func NewRawExecutor(db Querier) *RawExecutor {
	return &RawExecutor{db: db}
}

// Exec runs query and collects every row. A timeout is enforced by the server through
// statement_timeout in a statement-scoped transaction, so the connection stays usable
// after a timed-out statement.
func (e *RawExecutor) Exec(
	ctx context.Context,
	query string,
	params []any,
	opts *storage.ExecOptions) (*storage.ExecuteResult, error) {
	if opts == nil || opts.TimeoutSeconds <= 0 {
		return collect(ctx, e.db, query, params)
	}

	tx, err := e.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin statement transaction: %w", err)
	}
	// statements only read; rollback ends the transaction
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", opts.TimeoutSeconds*1000)); err != nil {
		return nil, fmt.Errorf("set statement timeout: %w", err)
	}

	result, err := collect(ctx, tx, query, params)
	if err != nil {
		if IsStatementTimeout(err) {
			return nil, fmt.Errorf("statement timed out after %ds: %w", opts.TimeoutSeconds, err)
		}
		return nil, err
	}
	return result, nil
}

// IsStatementTimeout reports whether err is the server cancelling a statement on statement_timeout.
func IsStatementTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == queryCanceled
}

func collect(ctx context.Context, db rowQuerier, query string, params []any) (*storage.ExecuteResult, error) {
	rows, err := db.Query(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fieldDescriptions := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescriptions))
	for i, fd := range fieldDescriptions {
		columns[i] = fd.Name
	}

	var results []storage.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		row := make(storage.Row, len(columns))
		for i, name := range columns {
			row[name] = values[i]
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &storage.ExecuteResult{
		Columns: columns,
		Rows:    results,
	}, nil
}

var _ storage.RawExecutor = (*RawExecutor)(nil)
