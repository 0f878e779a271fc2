package in_mem

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/DjordjeVuckovic/query-verify/internal/storage"
)

// Handler answers one statement.
type Handler func(query string, params []any) (*storage.ExecuteResult, error)

// Call is one recorded Exec invocation.
type Call struct {
	Query  string
	Params []any
}

type route struct {
	fragments []string
	handler   Handler
}

// Executor is a scripted storage.RawExecutor. Statements are routed to the first
// handler whose fragments all occur in the query text.
type Executor struct {
	mu     sync.RWMutex
	routes []route
	calls  []Call
}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) On(handler Handler, fragments ...string) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.routes = append(e.routes, route{fragments: fragments, handler: handler})
	return e
}

// Returns registers a fixed result.
func (e *Executor) Returns(result *storage.ExecuteResult, fragments ...string) *Executor {
	return e.On(func(string, []any) (*storage.ExecuteResult, error) { return result, nil }, fragments...)
}

// Fails registers a fixed error.
func (e *Executor) Fails(err error, fragments ...string) *Executor {
	return e.On(func(string, []any) (*storage.ExecuteResult, error) { return nil, err }, fragments...)
}

func (e *Executor) Exec(ctx context.Context, query string, params []any, _ *storage.ExecOptions) (*storage.ExecuteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.calls = append(e.calls, Call{Query: query, Params: append([]any(nil), params...)})
	e.mu.Unlock()

	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, r := range e.routes {
		if matches(query, r.fragments) {
			return r.handler(query, params)
		}
	}
	return nil, fmt.Errorf("in_mem: no handler for query %q", firstLine(query))
}

func (e *Executor) Calls() []Call {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

// Rows builds an ExecuteResult from positional values in column order.
func Rows(columns []string, values ...[]any) *storage.ExecuteResult {
	res := &storage.ExecuteResult{Columns: columns}
	for _, v := range values {
		row := make(storage.Row, len(columns))
		for i, c := range columns {
			if i < len(v) {
				row[c] = v[i]
			}
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func matches(query string, fragments []string) bool {
	for _, f := range fragments {
		if !strings.Contains(query, f) {
			return false
		}
	}
	return true
}

func firstLine(q string) string {
	q = strings.TrimSpace(q)
	if i := strings.IndexByte(q, '\n'); i >= 0 {
		return q[:i]
	}
	return q
}

var _ storage.RawExecutor = (*Executor)(nil)
