package dataset

// RequiredColumns is the transaction schema the pipeline expects. Column
// names are matched case-insensitively; bindings in the config may rename
// them for other schemas.
func RequiredColumns() []string {
	return []string{
		"InvoiceNo",
		"StockCode",
		"Description",
		"Quantity",
		"InvoiceDate",
		"UnitPrice",
		"CustomerID",
		"Country",
	}
}

// Validate checks that every required column is present. It is a pure check:
// on failure it returns a *SchemaError naming all missing columns.
func Validate(t *Table, required []string) error {
	var missing []string
	for _, name := range required {
		if _, ok := t.Index(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
