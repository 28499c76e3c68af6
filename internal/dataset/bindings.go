package dataset

// Bindings names the transaction columns the pipeline reads, decoupling the
// stages from one exact schema. Zero-valued fields fall back to the defaults.
type Bindings struct {
	InvoiceNo   string `mapstructure:"invoice_no" yaml:"invoice_no"`
	StockCode   string `mapstructure:"stock_code" yaml:"stock_code"`
	Description string `mapstructure:"description" yaml:"description"`
	Quantity    string `mapstructure:"quantity" yaml:"quantity"`
	InvoiceDate string `mapstructure:"invoice_date" yaml:"invoice_date"`
	UnitPrice   string `mapstructure:"unit_price" yaml:"unit_price"`
	CustomerID  string `mapstructure:"customer_id" yaml:"customer_id"`
	Country     string `mapstructure:"country" yaml:"country"`
	TotalAmount string `mapstructure:"total_amount" yaml:"total_amount"`
}

// DefaultBindings matches the classic online-retail export schema.
func DefaultBindings() Bindings {
	return Bindings{
		InvoiceNo:   "InvoiceNo",
		StockCode:   "StockCode",
		Description: "Description",
		Quantity:    "Quantity",
		InvoiceDate: "InvoiceDate",
		UnitPrice:   "UnitPrice",
		CustomerID:  "CustomerID",
		Country:     "Country",
		TotalAmount: "TotalAmount",
	}
}

// Normalize fills empty fields from the defaults.
func (b Bindings) Normalize() Bindings {
	def := DefaultBindings()
	if b.InvoiceNo == "" {
		b.InvoiceNo = def.InvoiceNo
	}
	if b.StockCode == "" {
		b.StockCode = def.StockCode
	}
	if b.Description == "" {
		b.Description = def.Description
	}
	if b.Quantity == "" {
		b.Quantity = def.Quantity
	}
	if b.InvoiceDate == "" {
		b.InvoiceDate = def.InvoiceDate
	}
	if b.UnitPrice == "" {
		b.UnitPrice = def.UnitPrice
	}
	if b.CustomerID == "" {
		b.CustomerID = def.CustomerID
	}
	if b.Country == "" {
		b.Country = def.Country
	}
	if b.TotalAmount == "" {
		b.TotalAmount = def.TotalAmount
	}
	return b
}

// Required lists the input columns a raw transaction table must carry.
// TotalAmount is derived, not required.
func (b Bindings) Required() []string {
	b = b.Normalize()
	return []string{
		b.InvoiceNo,
		b.StockCode,
		b.Description,
		b.Quantity,
		b.InvoiceDate,
		b.UnitPrice,
		b.CustomerID,
		b.Country,
	}
}
