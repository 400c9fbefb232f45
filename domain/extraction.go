package domain

// Table is one extracted table of invoice data. Data holds CSV text whose first
// line is the header row, matching what the structuring model is asked to emit.
type Table struct {
	Data string `json:"data"`
}

// InvoiceDocument is the six-category structured form of a parsed invoice.
// Unknown fields inside a category are recorded as the literal "UNKNOWN".
type InvoiceDocument struct {
	VendorInfo      []Table `json:"vendor_info"`
	InvoiceDetails  []Table `json:"invoice_details"`
	LineItems       []Table `json:"line_items"`
	TaxesFees       []Table `json:"taxes_fees"`
	PaymentInfo     []Table `json:"payment_info"`
	ComplianceFlags []Table `json:"compliance_flags"`
}

// Category keys in their canonical order, shared by the extraction prompts,
// the cross-document merge and the Excel writer.
var InvoiceCategories = []string{
	"vendor_info",
	"invoice_details",
	"line_items",
	"taxes_fees",
	"payment_info",
	"compliance_flags",
}

func (d *InvoiceDocument) Category(key string) []Table {
	switch key {
	case "vendor_info":
		return d.VendorInfo
	case "invoice_details":
		return d.InvoiceDetails
	case "line_items":
		return d.LineItems
	case "taxes_fees":
		return d.TaxesFees
	case "payment_info":
		return d.PaymentInfo
	case "compliance_flags":
		return d.ComplianceFlags
	default:
		return nil
	}
}

func (d *InvoiceDocument) SetCategory(key string, tables []Table) {
	switch key {
	case "vendor_info":
		d.VendorInfo = tables
	case "invoice_details":
		d.InvoiceDetails = tables
	case "line_items":
		d.LineItems = tables
	case "taxes_fees":
		d.TaxesFees = tables
	case "payment_info":
		d.PaymentInfo = tables
	case "compliance_flags":
		d.ComplianceFlags = tables
	}
}

// Append extends every category with the tables of other, preserving order.
func (d *InvoiceDocument) Append(other InvoiceDocument) {
	for _, key := range InvoiceCategories {
		d.SetCategory(key, append(d.Category(key), other.Category(key)...))
	}
}

func (d *InvoiceDocument) IsEmpty() bool {
	for _, key := range InvoiceCategories {
		if len(d.Category(key)) > 0 {
			return false
		}
	}
	return true
}

// FieldClassification is the per-field result of the normalization pass.
type FieldClassification struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Notes      string  `json:"notes,omitempty"`
	Model      string  `json:"model"`
}

// Chunk is one element block returned by the document parser.
type Chunk struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Page int    `json:"page"`
}

// ParseResult is the raw output of the document-AI parser for one file.
type ParseResult struct {
	Markdown string  `json:"markdown"`
	Chunks   []Chunk `json:"chunks"`
}

// DocumentData pairs a document name with its extracted invoice data, used by
// the cross-document merge.
type DocumentData struct {
	DocumentName string          `json:"document_name"`
	Data         InvoiceDocument `json:"data"`
}
