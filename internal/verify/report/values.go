package report

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/DjordjeVuckovic/query-verify/internal/verify/runner"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

func normalizeRows(rs runner.RowSet) []map[string]any {
	if len(rs.Rows) == 0 {
		return nil
	}
	out := make([]map[string]any, len(rs.Rows))
	for i, row := range rs.Rows {
		m := make(map[string]any, len(row))
		for k, v := range row {
			m[k] = normalizeValue(v)
		}
		out[i] = m
	}
	return out
}

// normalizeValue coerces a driver value into something encoding/json renders faithfully.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return x
	case float32:
		return normalizeFloat(float64(x))
	case float64:
		return normalizeFloat(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case [16]byte:
		return uuid.UUID(x).String()
	case uuid.UUID:
		return x.String()
	case []byte:
		return string(x)
	case pgtype.Numeric:
		if !x.Valid {
			return nil
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return normalizeFloat(f.Float64)
	case json.Marshaler:
		if b, err := x.MarshalJSON(); err == nil {
			return json.RawMessage(b)
		}
		return fmt.Sprint(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func normalizeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprint(f)
	}
	return f
}
