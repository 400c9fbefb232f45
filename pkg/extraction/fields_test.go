package extraction

import (
	"Invoice-Service/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadlineFields(t *testing.T) {
	doc := domain.InvoiceDocument{
		VendorInfo: []domain.Table{
			{Data: "Field Name,Value\nVendor Name,Acme Corp\nPayment Terms,Net 30"},
		},
		InvoiceDetails: []domain.Table{
			{Data: "Field Name,Value\nInvoice Number,INV-001\nInvoice Date,2025-03-01\nDue Date,UNKNOWN\nCurrency,USD"},
		},
		PaymentInfo: []domain.Table{
			{Data: "Field Name,Value\nTotal Amount Due,1500.00\nAmount Paid,"},
		},
	}

	fields := HeadlineFields(doc)

	assert.Equal(t, "Acme Corp", fields["vendor_name"])
	assert.Equal(t, "Net 30", fields["payment_terms"])
	assert.Equal(t, "INV-001", fields["invoice_number"])
	assert.Equal(t, "2025-03-01", fields["invoice_date"])
	assert.Equal(t, "USD", fields["currency"])
	assert.Equal(t, "1500.00", fields["total_amount"])

	// UNKNOWN and empty values are skipped.
	_, hasDueDate := fields["due_date"]
	assert.False(t, hasDueDate)
	_, hasAmountPaid := fields["amount_paid"]
	assert.False(t, hasAmountPaid)
}

func TestHeadlineFieldsValueWithCommas(t *testing.T) {
	doc := domain.InvoiceDocument{
		VendorInfo: []domain.Table{
			{Data: "Field Name,Value\nVendor Name,\"Smith, Jones & Co\""},
		},
	}

	fields := HeadlineFields(doc)
	assert.Equal(t, `"Smith, Jones & Co"`, fields["vendor_name"])
}

func TestHeadlineFieldsEmptyDocument(t *testing.T) {
	fields := HeadlineFields(domain.InvoiceDocument{})
	assert.Empty(t, fields)
}
