package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/query-verify/internal/apperr"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/variant"
)

// Statement is a ready-to-run query with its positional parameters.
type Statement struct {
	SQL  string
	Args []any
}

// Statement wraps the variant as a subquery for this scenario's kind.
// Only the validated variant body and validated integers are spliced into the text;
// the government identifier always travels as $1.
func (s Scenario) Statement(v variant.Variant) (Statement, error) {
	if v.IsZero() {
		return Statement{}, apperr.NewValidation("variant has no query text")
	}
	from := "FROM (\n" + v.SQL() + "\n) AS subquery"

	switch s.Kind {
	case KindTotalCount:
		return Statement{SQL: "SELECT COUNT(*) AS total " + from}, nil

	case KindFilteredByKey:
		if s.GovernmentID == nil {
			return Statement{}, apperr.NewValidation("filtered scenario has no government id")
		}
		return Statement{
			SQL:  "SELECT * " + from + "\nWHERE government_id = $1",
			Args: []any{s.GovernmentID},
		}, nil

	case KindAggregateSum:
		sums := make([]string, len(FlagColumns))
		for i, col := range FlagColumns {
			sums[i] = fmt.Sprintf("SUM(%s) AS total_%s", col, col)
		}
		return Statement{SQL: "SELECT " + strings.Join(sums, ", ") + " " + from}, nil

	case KindBoundedSample:
		if err := validateLimit(s.Limit); err != nil {
			return Statement{}, err
		}
		return Statement{
			SQL: "SELECT * " + from + "\nORDER BY project_id, vendor_name\nLIMIT " + strconv.Itoa(s.Limit),
		}, nil

	default:
		return Statement{}, apperr.NewValidation(fmt.Sprintf("unknown scenario kind %q", s.Kind))
	}
}
