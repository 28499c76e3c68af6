// Package report aggregates per-segment and whole-dataset statistics for
// external reporting collaborators.
package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/cohortlab/rfmctl/internal/dataset"
	"github.com/cohortlab/rfmctl/internal/segment"
)

// SegmentSummary describes one cohort.
type SegmentSummary struct {
	Segment       string  `yaml:"segment"`
	Customers     int     `yaml:"customers"`
	AvgRecency    float64 `yaml:"avg_recency"`
	AvgFrequency  float64 `yaml:"avg_frequency"`
	AvgMonetary   float64 `yaml:"avg_monetary"`
	TotalMonetary float64 `yaml:"total_monetary"`
	// Percentage is the cohort's share of all customers, rounded to two
	// decimal places.
	Percentage float64 `yaml:"percentage"`
}

// Summarize groups segmented customers by cohort. Output is sorted by total
// monetary value descending, so the most valuable cohorts lead the report.
func Summarize(customers []segment.Customer) []SegmentSummary {
	type acc struct {
		n         int
		recency   int
		frequency int
		monetary  float64
	}
	byName := make(map[string]*acc)
	for _, c := range customers {
		a := byName[c.Segment]
		if a == nil {
			a = &acc{}
			byName[c.Segment] = a
		}
		a.n++
		a.recency += c.Recency
		a.frequency += c.Frequency
		a.monetary += c.Monetary
	}

	total := len(customers)
	out := make([]SegmentSummary, 0, len(byName))
	for name, a := range byName {
		s := SegmentSummary{
			Segment:       name,
			Customers:     a.n,
			AvgRecency:    round2(float64(a.recency) / float64(a.n)),
			AvgFrequency:  round2(float64(a.frequency) / float64(a.n)),
			AvgMonetary:   round2(a.monetary / float64(a.n)),
			TotalMonetary: a.monetary,
		}
		if total > 0 {
			s.Percentage = round2(float64(a.n) / float64(total) * 100)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalMonetary == out[j].TotalMonetary {
			return out[i].Segment < out[j].Segment
		}
		return out[i].TotalMonetary > out[j].TotalMonetary
	})
	return out
}

// DatasetSummary holds whole-dataset statistics for a cleaned table. The
// residual negative counts are a defensive check: non-zero after cleaning
// points at a cleaning defect.
type DatasetSummary struct {
	Rows               int            `yaml:"rows"`
	UniqueCustomers    int            `yaml:"unique_customers"`
	UniqueProducts     int            `yaml:"unique_products"`
	DateStart          time.Time      `yaml:"date_start"`
	DateEnd            time.Time      `yaml:"date_end"`
	TotalRevenue       float64        `yaml:"total_revenue"`
	NullCounts         map[string]int `yaml:"null_counts"`
	NegativeQuantities int            `yaml:"negative_quantities"`
	NegativePrices     int            `yaml:"negative_prices"`
}

// Describe computes the whole-dataset summary over a (typically cleaned)
// transaction table.
func Describe(t *dataset.Table, b dataset.Bindings) DatasetSummary {
	b = b.Normalize()
	sum := DatasetSummary{
		Rows:       t.Len(),
		NullCounts: make(map[string]int, len(t.Header)),
	}
	for _, name := range t.Header {
		sum.NullCounts[name] = 0
	}

	customers := make(map[string]struct{})
	products := make(map[string]struct{})
	ci, hasCustomer := t.Index(b.CustomerID)
	si, hasStock := t.Index(b.StockCode)
	di, hasDate := t.Index(b.InvoiceDate)
	qi, hasQty := t.Index(b.Quantity)
	pi, hasPrice := t.Index(b.UnitPrice)
	ai, hasAmount := t.Index(b.TotalAmount)

	for _, row := range t.Rows {
		for col, name := range t.Header {
			if col < len(row) && strings.TrimSpace(row[col]) == "" {
				sum.NullCounts[name]++
			}
		}
		if hasCustomer {
			if id := strings.TrimSpace(row[ci]); id != "" {
				customers[id] = struct{}{}
			}
		}
		if hasStock {
			if code := strings.TrimSpace(row[si]); code != "" {
				products[code] = struct{}{}
			}
		}
		if hasDate {
			if ts, ok := dataset.ParseTime(row[di]); ok {
				if sum.DateStart.IsZero() || ts.Before(sum.DateStart) {
					sum.DateStart = ts
				}
				if ts.After(sum.DateEnd) {
					sum.DateEnd = ts
				}
			}
		}
		if hasQty {
			if q, ok := dataset.ParseInt(row[qi]); ok && q < 0 {
				sum.NegativeQuantities++
			}
		}
		if hasPrice {
			if p, ok := dataset.ParseFloat(row[pi]); ok && p < 0 {
				sum.NegativePrices++
			}
		}
		if hasAmount {
			if v, ok := dataset.ParseFloat(row[ai]); ok {
				sum.TotalRevenue += v
			}
		}
	}
	sum.UniqueCustomers = len(customers)
	sum.UniqueProducts = len(products)
	return sum
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
