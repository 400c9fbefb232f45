package extraction

import (
	"Invoice-Service/domain"
	"strings"
)

// headlineField maps one flattened field name to the category and CSV row
// label it is read from.
type headlineField struct {
	name     string
	category string
	label    string
}

var headlineFields = []headlineField{
	{"vendor_name", "vendor_info", "Vendor Name"},
	{"payment_terms", "vendor_info", "Payment Terms"},
	{"invoice_number", "invoice_details", "Invoice Number"},
	{"invoice_date", "invoice_details", "Invoice Date"},
	{"due_date", "invoice_details", "Due Date"},
	{"currency", "invoice_details", "Currency"},
	{"total_amount", "payment_info", "Total Amount Due"},
	{"amount_paid", "payment_info", "Amount Paid"},
	{"balance_due", "payment_info", "Balance Due"},
}

// HeadlineFields flattens the label,value rows of a structured document into
// the fields that get classified and surfaced on the invoice record. Rows
// whose value is empty or the UNKNOWN placeholder are skipped.
func HeadlineFields(doc domain.InvoiceDocument) map[string]string {
	fields := make(map[string]string)
	for _, hf := range headlineFields {
		if value, ok := lookupCSV(doc.Category(hf.category), hf.label); ok {
			fields[hf.name] = value
		}
	}
	return fields
}

func lookupCSV(tables []domain.Table, label string) (string, bool) {
	marker := label + ","
	for _, table := range tables {
		idx := strings.Index(table.Data, marker)
		if idx == -1 {
			continue
		}
		rest := table.Data[idx+len(marker):]
		if nl := strings.IndexByte(rest, '\n'); nl != -1 {
			rest = rest[:nl]
		}
		value := strings.TrimSpace(rest)
		if value != "" && value != "UNKNOWN" {
			return value, true
		}
	}
	return "", false
}
