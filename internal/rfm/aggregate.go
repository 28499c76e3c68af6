package rfm

import (
	"sort"
	"strings"
	"time"

	"github.com/cohortlab/rfmctl/internal/dataset"
	"github.com/cohortlab/rfmctl/internal/events"
)

type customerAcc struct {
	last  time.Time
	count int
	spend float64
}

// Aggregate groups the cleaned table by customer and computes the three RFM
// metrics. Frequency counts transaction rows, not distinct invoices. When
// snapshot is the zero time it defaults to the day after the newest
// transaction. The chosen snapshot is returned alongside the records.
func Aggregate(t *dataset.Table, b dataset.Bindings, snapshot time.Time, obs events.Observer) ([]Record, time.Time, error) {
	if obs == nil {
		obs = events.Nop
	}
	b = b.Normalize()

	var missing []string
	for _, name := range []string{b.CustomerID, b.InvoiceDate, b.TotalAmount} {
		if _, ok := t.Index(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, time.Time{}, &ValidationError{Missing: missing}
	}
	ci, _ := t.Index(b.CustomerID)
	di, _ := t.Index(b.InvoiceDate)
	ai, _ := t.Index(b.TotalAmount)

	accs := make(map[string]*customerAcc)
	var order []string
	var maxDate time.Time
	for _, row := range t.Rows {
		id := strings.TrimSpace(row[ci])
		if id == "" {
			continue
		}
		ts, ok := dataset.ParseTime(row[di])
		if !ok {
			continue
		}
		acc := accs[id]
		if acc == nil {
			acc = &customerAcc{}
			accs[id] = acc
			order = append(order, id)
		}
		acc.count++
		if amount, ok := dataset.ParseFloat(row[ai]); ok {
			acc.spend += amount
		}
		if ts.After(acc.last) {
			acc.last = ts
		}
		if ts.After(maxDate) {
			maxDate = ts
		}
	}

	if snapshot.IsZero() {
		snapshot = maxDate.Add(24 * time.Hour)
	}
	obs.Event(events.Event{Stage: "rfm", Message: "aggregate", Fields: map[string]any{
		"customers": len(accs),
		"snapshot":  snapshot.Format(dataset.TimeLayout),
	}})

	sort.Strings(order)
	records := make([]Record, 0, len(accs))
	for _, id := range order {
		acc := accs[id]
		days := int(snapshot.Sub(acc.last).Hours() / 24)
		if days < 0 {
			days = 0
		}
		spend := acc.spend
		if spend < 0 {
			spend = 0
		}
		records = append(records, Record{
			CustomerID: id,
			Recency:    days,
			Frequency:  acc.count,
			Monetary:   spend,
		})
	}
	return records, snapshot, nil
}
