package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohortlab/rfmctl/internal/dataset"
	"github.com/cohortlab/rfmctl/internal/rfm"
	"github.com/cohortlab/rfmctl/internal/segment"
)

func customer(id, seg string, recency, frequency int, monetary float64) segment.Customer {
	return segment.Customer{
		Scored: rfm.Scored{
			Record: rfm.Record{CustomerID: id, Recency: recency, Frequency: frequency, Monetary: monetary},
		},
		Segment: seg,
	}
}

func TestSummarize_GroupsAndSorts(t *testing.T) {
	customers := []segment.Customer{
		customer("a", segment.Champions, 2, 10, 100),
		customer("b", segment.Champions, 4, 20, 200),
		customer("c", segment.Lost, 300, 1, 50),
	}
	sums := Summarize(customers)
	require.Len(t, sums, 2)

	// Sorted by total monetary descending.
	assert.Equal(t, segment.Champions, sums[0].Segment)
	assert.Equal(t, segment.Lost, sums[1].Segment)

	champ := sums[0]
	assert.Equal(t, 2, champ.Customers)
	assert.Equal(t, 3.0, champ.AvgRecency)
	assert.Equal(t, 15.0, champ.AvgFrequency)
	assert.Equal(t, 150.0, champ.AvgMonetary)
	assert.Equal(t, 300.0, champ.TotalMonetary)
	assert.Equal(t, 66.67, champ.Percentage)
	assert.Equal(t, 33.33, sums[1].Percentage)
}

func TestSummarize_TotalsMatchRevenue(t *testing.T) {
	customers := []segment.Customer{
		customer("a", segment.Champions, 1, 2, 120.5),
		customer("b", segment.LoyalCustomers, 5, 3, 80.25),
		customer("c", segment.Lost, 200, 1, 10),
		customer("d", segment.Lost, 250, 1, 0),
	}
	var revenue float64
	for _, c := range customers {
		revenue += c.Monetary
	}
	var total float64
	for _, s := range Summarize(customers) {
		total += s.TotalMonetary
	}
	assert.InDelta(t, revenue, total, 1e-9,
		"per-segment totals must sum to dataset revenue")
}

func TestSummarize_Empty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}

func TestDescribe(t *testing.T) {
	header := []string{"InvoiceNo", "StockCode", "Description", "Quantity", "InvoiceDate", "UnitPrice", "CustomerID", "Country", "TotalAmount"}
	rows := [][]string{
		{"1", "S1", "A", "2", "2011-01-01 00:00:00", "5", "c1", "UK", "10"},
		{"2", "S2", "", "1", "2011-03-01 00:00:00", "7.5", "c2", "UK", "7.5"},
		{"3", "S1", "B", "4", "2011-02-01 00:00:00", "2", "c1", "FR", "8"},
	}
	sum := Describe(dataset.New(header, rows), dataset.Bindings{})

	assert.Equal(t, 3, sum.Rows)
	assert.Equal(t, 2, sum.UniqueCustomers)
	assert.Equal(t, 2, sum.UniqueProducts)
	assert.Equal(t, 25.5, sum.TotalRevenue)
	assert.Equal(t, "2011-01-01", sum.DateStart.Format("2006-01-02"))
	assert.Equal(t, "2011-03-01", sum.DateEnd.Format("2006-01-02"))
	assert.Equal(t, 1, sum.NullCounts["Description"])
	assert.Equal(t, 0, sum.NullCounts["CustomerID"])
	assert.Zero(t, sum.NegativeQuantities)
	assert.Zero(t, sum.NegativePrices)
}

func TestDescribe_CountsResidualNegatives(t *testing.T) {
	header := []string{"Quantity", "UnitPrice", "CustomerID", "InvoiceDate", "TotalAmount"}
	rows := [][]string{
		{"-1", "5", "c1", "2011-01-01", "-5"},
		{"2", "-3", "c2", "2011-01-02", "-6"},
	}
	sum := Describe(dataset.New(header, rows), dataset.Bindings{})
	assert.Equal(t, 1, sum.NegativeQuantities)
	assert.Equal(t, 1, sum.NegativePrices)
}

func TestReportRendering(t *testing.T) {
	r := &Report{
		RunID:  "run-1",
		Method: "quantile",
		Bins:   5,
		Dataset: DatasetSummary{
			Rows:            10,
			UniqueCustomers: 4,
			TotalRevenue:    123.45,
			NullCounts:      map[string]int{"Description": 2},
		},
		Segments: []SegmentSummary{
			{Segment: segment.Champions, Customers: 3, Percentage: 75, TotalMonetary: 100},
			{Segment: segment.Lost, Customers: 1, Percentage: 25, TotalMonetary: 23.45},
		},
	}
	md := r.Markdown()
	assert.Contains(t, md, "[SEGMENTS]")
	assert.Contains(t, md, segment.Champions)
	assert.Contains(t, md, "Description(2)")

	y, err := r.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(y), "run_id: run-1")
	assert.Contains(t, string(y), "segment: Champions")
}
