package cleaning

import (
	"reflect"
	"testing"

	"github.com/cohortlab/rfmctl/internal/dataset"
	"github.com/cohortlab/rfmctl/internal/events"
)

var header = []string{"InvoiceNo", "StockCode", "Description", "Quantity", "InvoiceDate", "UnitPrice", "CustomerID", "Country"}

func rawFixture() *dataset.Table {
	rows := [][]string{
		{"536365", "85123A", "WHITE HANGING HEART", "6", "12/1/2010 8:26", "2.55", "17850", "United Kingdom"},
		{"536366", "71053", "METAL LANTERN", "6", "12/1/2010 8:28", "3.39", "", "United Kingdom"},       // no customer
		{"C536379", "D", "Discount", "1", "12/1/2010 9:41", "27.5", "14527", "United Kingdom"},          // cancellation
		{"536368", "22960", "JAM MAKING SET", "-2", "12/1/2010 8:34", "4.25", "13047", "United Kingdom"}, // negative qty
		{"536369", "21756", "BATH BUILDING BLOCK", "3", "12/1/2010 8:35", "0", "13047", "United Kingdom"}, // zero price
		{"536370", "22728", "ALARM CLOCK", "24", "not-a-date", "3.75", "12583", "France"},                // bad date
		{"536365", "85123A", "WHITE HANGING HEART", "6", "12/1/2010 8:26", "2.55", "17850", "United Kingdom"}, // duplicate
		{"536371", "22086", "PAPER CHAIN KIT", "80", "12/1/2010 9:00", "2.55", "13748.0", "United Kingdom"},   // float id
		{"536372", "22632", "", "2", "12/1/2010 9:01", "1.85", "17850", "United Kingdom"},                // empty description
	}
	return dataset.New(header, rows)
}

func mustClean(t *testing.T, tbl *dataset.Table) *Result {
	t.Helper()
	res, err := Clean(tbl, dataset.Bindings{}, events.Nop)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	return res
}

func TestClean_StepCounts(t *testing.T) {
	res := mustClean(t, rawFixture())
	want := map[string]int{
		"drop_missing_customer":     1,
		"drop_cancellations":        1,
		"drop_nonpositive_quantity": 1,
		"drop_nonpositive_price":    1,
		"drop_invalid_dates":        1,
		"drop_duplicates":           1,
		"coerce_customer_id":        0,
		"fill_description":          0,
		"add_total_amount":          0,
	}
	if len(res.Steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(res.Steps))
	}
	for _, s := range res.Steps {
		if s.Removed != want[s.Name] {
			t.Errorf("step %s: removed %d, want %d", s.Name, s.Removed, want[s.Name])
		}
	}
	if res.Table.Len() != 3 {
		t.Fatalf("expected 3 surviving rows, got %d", res.Table.Len())
	}
	if res.Removed() != 6 {
		t.Fatalf("expected 6 removed in total, got %d", res.Removed())
	}
}

func TestClean_Invariants(t *testing.T) {
	res := mustClean(t, rawFixture())
	tbl := res.Table
	for i := 0; i < tbl.Len(); i++ {
		q, ok := dataset.ParseInt(tbl.Cell(i, "Quantity"))
		if !ok || q <= 0 {
			t.Errorf("row %d: non-positive quantity %q", i, tbl.Cell(i, "Quantity"))
		}
		p, ok := dataset.ParseFloat(tbl.Cell(i, "UnitPrice"))
		if !ok || p <= 0 {
			t.Errorf("row %d: non-positive price %q", i, tbl.Cell(i, "UnitPrice"))
		}
		if tbl.Cell(i, "CustomerID") == "" {
			t.Errorf("row %d: empty customer id", i)
		}
		if _, ok := dataset.ParseTime(tbl.Cell(i, "InvoiceDate")); !ok {
			t.Errorf("row %d: unparseable date %q", i, tbl.Cell(i, "InvoiceDate"))
		}
		total, ok := dataset.ParseFloat(tbl.Cell(i, "TotalAmount"))
		if !ok {
			t.Fatalf("row %d: missing total", i)
		}
		if total != float64(q)*p {
			t.Errorf("row %d: total %v != %v * %v", i, total, q, p)
		}
	}
}

func TestClean_Normalizations(t *testing.T) {
	res := mustClean(t, rawFixture())
	tbl := res.Table
	if got := tbl.Cell(0, "InvoiceDate"); got != "2010-12-01 08:26:00" {
		t.Errorf("date not canonicalized: %q", got)
	}
	if got := tbl.Cell(1, "CustomerID"); got != "13748" {
		t.Errorf("customer id not coerced: %q", got)
	}
	if got := tbl.Cell(2, "Description"); got != UnknownDescription {
		t.Errorf("description not filled: %q", got)
	}
}

func TestClean_Idempotent(t *testing.T) {
	first := mustClean(t, rawFixture())
	second := mustClean(t, first.Table)
	if second.Removed() != 0 {
		t.Fatalf("second clean removed %d rows", second.Removed())
	}
	if !reflect.DeepEqual(first.Table.Header, second.Table.Header) {
		t.Fatalf("headers differ after re-clean: %v vs %v", first.Table.Header, second.Table.Header)
	}
	if !reflect.DeepEqual(first.Table.Rows, second.Table.Rows) {
		t.Fatalf("rows differ after re-clean")
	}
}

func TestClean_DoesNotMutateInput(t *testing.T) {
	raw := rawFixture()
	before := raw.Clone()
	mustClean(t, raw)
	if !reflect.DeepEqual(before.Rows, raw.Rows) || !reflect.DeepEqual(before.Header, raw.Header) {
		t.Fatal("input table mutated")
	}
}

func TestClean_MissingColumnsIsStructural(t *testing.T) {
	tbl := dataset.New([]string{"InvoiceNo", "Quantity"}, nil)
	_, err := Clean(tbl, dataset.Bindings{}, events.Nop)
	if err == nil {
		t.Fatal("expected schema error for missing columns")
	}
}

func TestClean_EmitsStepEvents(t *testing.T) {
	var got []events.Event
	obs := captureObserver{events: &got}
	if _, err := Clean(rawFixture(), dataset.Bindings{}, obs); err != nil {
		t.Fatalf("clean: %v", err)
	}
	names := map[string]bool{}
	for _, e := range got {
		if e.Stage == "clean" {
			names[e.Message] = true
		}
	}
	for _, want := range []string{"start", "drop_missing_customer", "drop_duplicates", "add_total_amount"} {
		if !names[want] {
			t.Errorf("missing clean event %q", want)
		}
	}
}

type captureObserver struct {
	events *[]events.Event
}

func (c captureObserver) Event(e events.Event) { *c.events = append(*c.events, e) }
