// Package cleaning turns a raw transaction table into an analysis-ready one
// through a fixed sequence of row filters and normalizations. Per-row issues
// are filtered and counted, never raised; only a structurally broken table
// (missing columns) is an error.
package cleaning

import (
	"strings"

	"github.com/cohortlab/rfmctl/internal/dataset"
	"github.com/cohortlab/rfmctl/internal/events"
)

// CancelPrefix marks reversal invoices in the InvoiceNo column. Rows whose
// invoice number starts with it are dropped.
const CancelPrefix = "C"

// UnknownDescription fills missing product descriptions.
const UnknownDescription = "Unknown"

// StepCount records how many rows one cleaning step removed.
type StepCount struct {
	Name    string
	Removed int
}

// Result is the cleaned table plus the per-step removal ledger.
type Result struct {
	Table *dataset.Table
	Steps []StepCount
}

// Removed sums row removals across all steps.
func (r *Result) Removed() int {
	total := 0
	for _, s := range r.Steps {
		total += s.Removed
	}
	return total
}

type step struct {
	name  string
	apply func(t *dataset.Table, b dataset.Bindings) (*dataset.Table, int)
}

// steps run in this exact order. The order is load-bearing: dates are
// canonicalized before duplicate removal so rows differing only in date
// formatting collapse, and the derived amount is computed last.
var steps = []step{
	{"drop_missing_customer", dropMissingCustomer},
	{"drop_cancellations", dropCancellations},
	{"drop_nonpositive_quantity", dropNonPositiveQuantity},
	{"drop_nonpositive_price", dropNonPositivePrice},
	{"drop_invalid_dates", dropInvalidDates},
	{"drop_duplicates", dropDuplicates},
	{"coerce_customer_id", coerceCustomerID},
	{"fill_description", fillDescription},
	{"add_total_amount", addTotalAmount},
}

// Clean applies the full step sequence and reports each step's removals to
// the observer. The input table is never mutated.
func Clean(t *dataset.Table, b dataset.Bindings, obs events.Observer) (*Result, error) {
	if obs == nil {
		obs = events.Nop
	}
	b = b.Normalize()
	if err := dataset.Validate(t, b.Required()); err != nil {
		return nil, err
	}

	res := &Result{Table: t}
	obs.Event(events.Event{Stage: "clean", Message: "start", Fields: map[string]any{"rows": t.Len()}})
	for _, s := range steps {
		next, removed := s.apply(res.Table, b)
		res.Table = next
		res.Steps = append(res.Steps, StepCount{Name: s.name, Removed: removed})
		obs.Event(events.Event{Stage: "clean", Message: s.name, Fields: map[string]any{
			"removed":   removed,
			"remaining": next.Len(),
		}})
	}
	return res, nil
}

// filterRows keeps rows for which keep returns true and reports the removal
// count. The table is copied, not mutated.
func filterRows(t *dataset.Table, keep func(row []string) bool) (*dataset.Table, int) {
	src := t.Clone()
	kept := src.Rows[:0]
	removed := 0
	for _, row := range src.Rows {
		if keep(row) {
			kept = append(kept, row)
		} else {
			removed++
		}
	}
	src.Rows = kept
	return src, removed
}

func mapRows(t *dataset.Table, transform func(row []string)) *dataset.Table {
	out := t.Clone()
	for _, row := range out.Rows {
		transform(row)
	}
	return out
}

func dropMissingCustomer(t *dataset.Table, b dataset.Bindings) (*dataset.Table, int) {
	i, _ := t.Index(b.CustomerID)
	return filterRows(t, func(row []string) bool {
		return strings.TrimSpace(row[i]) != ""
	})
}

func dropCancellations(t *dataset.Table, b dataset.Bindings) (*dataset.Table, int) {
	i, _ := t.Index(b.InvoiceNo)
	return filterRows(t, func(row []string) bool {
		inv := strings.ToUpper(strings.TrimSpace(row[i]))
		return !strings.HasPrefix(inv, CancelPrefix)
	})
}

func dropNonPositiveQuantity(t *dataset.Table, b dataset.Bindings) (*dataset.Table, int) {
	i, _ := t.Index(b.Quantity)
	return filterRows(t, func(row []string) bool {
		q, ok := dataset.ParseInt(row[i])
		return ok && q > 0
	})
}

func dropNonPositivePrice(t *dataset.Table, b dataset.Bindings) (*dataset.Table, int) {
	i, _ := t.Index(b.UnitPrice)
	return filterRows(t, func(row []string) bool {
		p, ok := dataset.ParseFloat(row[i])
		return ok && p > 0
	})
}

// dropInvalidDates removes rows whose date does not parse and rewrites the
// survivors' dates in the canonical layout.
func dropInvalidDates(t *dataset.Table, b dataset.Bindings) (*dataset.Table, int) {
	i, _ := t.Index(b.InvoiceDate)
	out, removed := filterRows(t, func(row []string) bool {
		_, ok := dataset.ParseTime(row[i])
		return ok
	})
	out = mapRows(out, func(row []string) {
		if ts, ok := dataset.ParseTime(row[i]); ok {
			row[i] = ts.Format(dataset.TimeLayout)
		}
	})
	return out, removed
}

func dropDuplicates(t *dataset.Table, _ dataset.Bindings) (*dataset.Table, int) {
	seen := make(map[string]struct{}, t.Len())
	return filterRows(t, func(row []string) bool {
		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}

// coerceCustomerID rewrites float renderings of customer ids ("17850.0") as
// plain integers. Non-numeric identifiers pass through unchanged.
func coerceCustomerID(t *dataset.Table, b dataset.Bindings) (*dataset.Table, int) {
	i, _ := t.Index(b.CustomerID)
	out := mapRows(t, func(row []string) {
		if id, ok := dataset.ParseInt(row[i]); ok {
			row[i] = dataset.FormatInt(id)
		}
	})
	return out, 0
}

func fillDescription(t *dataset.Table, b dataset.Bindings) (*dataset.Table, int) {
	i, _ := t.Index(b.Description)
	out := mapRows(t, func(row []string) {
		if strings.TrimSpace(row[i]) == "" {
			row[i] = UnknownDescription
		}
	})
	return out, 0
}

// addTotalAmount appends (or overwrites, on a re-run) the derived
// quantity × unit price column.
func addTotalAmount(t *dataset.Table, b dataset.Bindings) (*dataset.Table, int) {
	qi, _ := t.Index(b.Quantity)
	pi, _ := t.Index(b.UnitPrice)
	totals := make([]string, t.Len())
	for r, row := range t.Rows {
		q, _ := dataset.ParseInt(row[qi])
		p, _ := dataset.ParseFloat(row[pi])
		totals[r] = dataset.FormatFloat(float64(q) * p)
	}
	if ti, ok := t.Index(b.TotalAmount); ok {
		out := t.Clone()
		for r := range out.Rows {
			out.Rows[r][ti] = totals[r]
		}
		return out, 0
	}
	return t.WithColumn(b.TotalAmount, totals), 0
}
