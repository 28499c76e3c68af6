package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Point at a config file that does not exist: defaults apply.
	c, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Bins != 5 {
		t.Errorf("default bins: got %d, want 5", c.Bins)
	}
	if c.Method != "quantile" {
		t.Errorf("default method: got %q", c.Method)
	}
	if c.OutputDir != "reports" {
		t.Errorf("default output_dir: got %q", c.OutputDir)
	}
	if c.Columns.CustomerID != "CustomerID" {
		t.Errorf("bindings not normalized: %+v", c.Columns)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &Global{Bins: 4, Method: "equal-width", OutputDir: "out", MySQLTable: "orders"}
	in.Columns.CustomerID = "client_id"
	if err := Save(in, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Bins != 4 || out.Method != "equal-width" || out.OutputDir != "out" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if out.MySQLTable != "orders" {
		t.Errorf("mysql_table lost: %+v", out)
	}
	if out.Columns.CustomerID != "client_id" {
		t.Errorf("custom binding lost: %+v", out.Columns)
	}
	if out.Columns.InvoiceNo != "InvoiceNo" {
		t.Errorf("unset bindings should normalize to defaults: %+v", out.Columns)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("bins: 3\nmethod: equal-width\ncolumns:\n  customer_id: ClientRef\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Bins != 3 {
		t.Errorf("bins: got %d, want 3", c.Bins)
	}
	if c.Columns.CustomerID != "ClientRef" {
		t.Errorf("customer binding: got %q", c.Columns.CustomerID)
	}
}
