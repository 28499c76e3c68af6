package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoad_UTF8(t *testing.T) {
	path := writeTemp(t, "tx.csv", []byte("InvoiceNo,CustomerID\n536365,17850\n536366,13047\n"))
	tbl, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	if got := tbl.Cell(0, "CustomerID"); got != "17850" {
		t.Fatalf("cell lookup: got %q", got)
	}
}

func TestLoad_Latin1Fallback(t *testing.T) {
	// "Café" with 0xE9 is invalid UTF-8 but valid ISO-8859-1.
	raw := append([]byte("Description,CustomerID\nCaf"), 0xE9)
	raw = append(raw, []byte(",17850\n")...)
	path := writeTemp(t, "latin1.csv", raw)
	tbl, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("load with fallback encoding: %v", err)
	}
	if got := tbl.Cell(0, "Description"); got != "Café" {
		t.Fatalf("expected decoded description, got %q", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), LoadOptions{})
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
}

func TestLoad_TSVDelimiterSniff(t *testing.T) {
	path := writeTemp(t, "tx.tsv", []byte("InvoiceNo\tCustomerID\n536365\t17850\n"))
	tbl, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("load tsv: %v", err)
	}
	if got := tbl.Cell(0, "InvoiceNo"); got != "536365" {
		t.Fatalf("tsv not split on tab: %q", got)
	}
}

func TestLoad_MaxRows(t *testing.T) {
	path := writeTemp(t, "tx.csv", []byte("A\n1\n2\n3\n"))
	tbl, err := Load(path, LoadOptions{MaxRows: 2})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected MaxRows to cap at 2, got %d", tbl.Len())
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "cleaned.csv")
	tbl := New([]string{"A", "B"}, [][]string{{"1", "x"}, {"2", "y"}})
	if err := WriteCSV(tbl, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Len() != 2 || back.Cell(1, "B") != "y" {
		t.Fatalf("round trip mismatch: %+v", back.Rows)
	}
}
