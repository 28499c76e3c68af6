// Package rfm derives per-customer Recency/Frequency/Monetary metrics from a
// cleaned transaction table and buckets them into ordinal scores.
package rfm

import (
	"fmt"
	"strings"
)

// Record holds the three behavioral metrics for one customer.
type Record struct {
	CustomerID string
	// Recency is whole days between the customer's last purchase and the
	// snapshot date, never negative.
	Recency int
	// Frequency is the number of transaction rows attributed to the
	// customer, at least 1 for any customer present.
	Frequency int
	// Monetary is the customer's summed spend, clamped to zero.
	Monetary float64
}

// Scored is a Record plus its ordinal scores. Scores run 1..bins with higher
// always better; recency is inverted during scoring so a recently active
// customer scores high.
type Scored struct {
	Record
	RScore int
	FScore int
	MScore int
	// Code concatenates the three scores, a fine-grained segmentation key.
	Code string
	// Total is the plain sum of the three scores.
	Total int
}

// ValidationError reports the bound columns absent from the table handed to
// Aggregate. All missing columns are listed.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rfm aggregation: missing required columns: %s", strings.Join(e.Missing, ", "))
}
