// Package scenario defines the parameterized test cases applied to every query variant
// and turns each of them into a concrete SQL statement.
package scenario

import (
	"fmt"

	"github.com/DjordjeVuckovic/query-verify/internal/apperr"
)

type Kind string

const (
	KindTotalCount    Kind = "total-count"
	KindFilteredByKey Kind = "filtered-by-key"
	KindAggregateSum  Kind = "aggregate-sum"
	KindBoundedSample Kind = "bounded-sample"
)

const (
	DefaultSampleLimit    = 100
	DefaultDiscoveryLimit = 5
	MaxSampleLimit        = 10000
	// FilteredSampleSize is how many filtered rows are kept for inspection.
	FilteredSampleSize = 5
)

// Flag columns summed by the aggregate scenario, in report order.
var FlagColumns = []string{"followed", "downloaded", "applied", "no_bid", "submitted"}

type Scenario struct {
	Name        string
	Description string
	Kind        Kind
	// GovernmentID is set for KindFilteredByKey only.
	GovernmentID any
	// Limit is set for KindBoundedSample only.
	Limit int
}

func TotalCount() Scenario {
	return Scenario{
		Name:        "Full Result Set",
		Description: "Total number of project-organization engagement pairs",
		Kind:        KindTotalCount,
	}
}

func FilteredByKey(governmentID any) Scenario {
	return Scenario{
		Name:         fmt.Sprintf("Government %v", governmentID),
		Description:  fmt.Sprintf("Engagements for government ID %v", governmentID),
		Kind:         KindFilteredByKey,
		GovernmentID: governmentID,
	}
}

func AggregateSum() Scenario {
	return Scenario{
		Name:        "Total Engagement Metrics",
		Description: "Sum of all followed, downloaded, applied, no_bid, submitted",
		Kind:        KindAggregateSum,
	}
}

func BoundedSample(limit int) (Scenario, error) {
	if err := validateLimit(limit); err != nil {
		return Scenario{}, err
	}
	return Scenario{
		Name:        fmt.Sprintf("First %d Records", limit),
		Description: fmt.Sprintf("Sample of first %d records ordered by project_id, vendor_name", limit),
		Kind:        KindBoundedSample,
		Limit:       limit,
	}, nil
}

func validateLimit(limit int) error {
	if limit < 1 || limit > MaxSampleLimit {
		return apperr.NewValidation(fmt.Sprintf("sample limit must be between 1 and %d, got %d", MaxSampleLimit, limit))
	}
	return nil
}
