package export

import (
	"Invoice-Service/domain"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestCreateInvoiceAnalysis(t *testing.T) {
	doc := domain.InvoiceDocument{
		VendorInfo: []domain.Table{
			{Data: "Field Name,Value\nVendor Name,Acme Corp\nTax ID,UNKNOWN\nPayment Terms,Net 30"},
		},
		InvoiceDetails: []domain.Table{
			{Data: "Field Name,Value\nInvoice Number,INV-001"},
		},
	}

	buf, err := CreateInvoiceAnalysis(doc)
	require.NoError(t, err)

	f := openWorkbook(t, buf)
	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, "Vendor Information")
	assert.Contains(t, sheets, "Invoice Details")
	assert.NotContains(t, sheets, "Line Items")
	assert.NotContains(t, sheets, "Sheet1")

	header, err := f.GetCellValue("Vendor Information", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Field Name", header)

	name, err := f.GetCellValue("Vendor Information", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Vendor Name", name)
	value, err := f.GetCellValue("Vendor Information", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", value)

	// The UNKNOWN Tax ID row is skipped, so Payment Terms moves up.
	terms, err := f.GetCellValue("Vendor Information", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Payment Terms", terms)

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Invoice Analysis Report", title)
}

func TestCreateInvoiceAnalysisTableSpacing(t *testing.T) {
	doc := domain.InvoiceDocument{
		VendorInfo: []domain.Table{
			{Data: "Field Name,Value\nVendor Name,First Vendor"},
			{Data: "Field Name,Value\nVendor Name,Second Vendor"},
		},
	}

	buf, err := CreateInvoiceAnalysis(doc)
	require.NoError(t, err)

	f := openWorkbook(t, buf)
	// First table: header row 1, data row 2, two blank rows, second table
	// header at row 5.
	secondHeader, err := f.GetCellValue("Vendor Information", "A5")
	require.NoError(t, err)
	assert.Equal(t, "Field Name", secondHeader)
	secondValue, err := f.GetCellValue("Vendor Information", "B6")
	require.NoError(t, err)
	assert.Equal(t, "Second Vendor", secondValue)
}

func TestCreateInvoiceExport(t *testing.T) {
	extracted := map[string]string{
		"vendor_name":    "Acme Corp",
		"invoice_number": "INV-001",
	}
	classified := map[string]domain.FieldClassification{
		"vendor_name": {Value: "Acme Corporation", Confidence: 0.95, Model: "claude"},
	}

	buf, err := CreateInvoiceExport("inv-1", "acme.pdf", "user-1", "processed", time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), extracted, classified)
	require.NoError(t, err)

	f := openWorkbook(t, buf)
	assert.Contains(t, f.GetSheetList(), "Invoice Data")
	assert.Contains(t, f.GetSheetList(), "Summary")

	header, err := f.GetCellValue("Invoice Data", "C1")
	require.NoError(t, err)
	assert.Equal(t, "Classified Value", header)

	// Fields are sorted: invoice_number first, then vendor_name.
	field, err := f.GetCellValue("Invoice Data", "A2")
	require.NoError(t, err)
	assert.Equal(t, "invoice_number", field)

	classifiedValue, err := f.GetCellValue("Invoice Data", "C3")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corporation", classifiedValue)

	status, err := f.GetCellValue("Summary", "B5")
	require.NoError(t, err)
	assert.Equal(t, "processed", status)
}
