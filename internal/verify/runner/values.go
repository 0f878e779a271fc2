package runner

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// toInt64 reads an integer-valued column. NULL reads as zero, which is what
// SUM over an empty set produces.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", n)
		}
		return int64(n), nil
	case float64:
		return floatToInt64(n)
	case float32:
		return floatToInt64(float64(n))
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse %q as integer: %w", n, err)
		}
		return i, nil
	case pgtype.Int64Valuer:
		i, err := n.Int64Value()
		if err != nil {
			return 0, err
		}
		if !i.Valid {
			return 0, nil
		}
		return i.Int64, nil
	default:
		return 0, fmt.Errorf("unsupported integer type %T", v)
	}
}

func floatToInt64(f float64) (int64, error) {
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("value %v is not an integer", f)
	}
	return int64(f), nil
}
