package extraction

import (
	"Invoice-Service/domain"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (s *stubModel) Complete(_ context.Context, _ string, prompt string) (string, error) {
	idx := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	var err error
	if idx < len(s.errs) {
		err = s.errs[idx]
	}
	var res string
	if idx < len(s.responses) {
		res = s.responses[idx]
	}
	return res, err
}

func TestStructure(t *testing.T) {
	parsed := domain.ParseResult{Markdown: "# Invoice INV-9\nVendor: Acme"}

	t.Run("valid response", func(t *testing.T) {
		model := &stubModel{responses: []string{
			"```json\n{\"vendor_info\":[{\"data\":\"Field Name,Value\\nVendor Name,Acme\"}],\"invoice_details\":[],\"line_items\":[],\"taxes_fees\":[],\"payment_info\":[],\"compliance_flags\":[]}\n```",
		}}
		svc := NewExtractionService(model, &stubModel{})

		doc, err := svc.Structure(context.Background(), parsed)
		require.NoError(t, err)
		require.Len(t, doc.VendorInfo, 1)
		assert.Contains(t, model.prompts[0], "INV-9")
	})

	t.Run("retries transient failures", func(t *testing.T) {
		model := &stubModel{
			errs:      []error{errors.New("rate limited"), errors.New("rate limited"), nil},
			responses: []string{"", "", `{"vendor_info":[{"data":"Field Name,Value\nVendor Name,Acme"}]}`},
		}
		svc := NewExtractionService(model, &stubModel{})

		doc, err := svc.Structure(context.Background(), parsed)
		require.NoError(t, err)
		assert.Equal(t, 3, model.calls)
		assert.Len(t, doc.VendorInfo, 1)
	})

	t.Run("exhausted retries surface the error", func(t *testing.T) {
		model := &stubModel{errs: []error{
			errors.New("down"), errors.New("down"), errors.New("down"), errors.New("down"),
		}}
		svc := NewExtractionService(model, &stubModel{})

		_, err := svc.Structure(context.Background(), parsed)
		require.Error(t, err)
		assert.Equal(t, 3, model.calls)
	})

	t.Run("unparseable response yields empty document", func(t *testing.T) {
		model := &stubModel{responses: []string{"I could not find any invoice data."}}
		svc := NewExtractionService(model, &stubModel{})

		doc, err := svc.Structure(context.Background(), parsed)
		require.NoError(t, err)
		assert.True(t, doc.IsEmpty())
	})

	t.Run("truncated response repaired", func(t *testing.T) {
		model := &stubModel{responses: []string{
			`{"line_items":[{"data":"Item Description,Quantity,Unit Price,Line Total\nWidget,1,9.99,9.99"}`,
		}}
		svc := NewExtractionService(model, &stubModel{})

		doc, err := svc.Structure(context.Background(), parsed)
		require.NoError(t, err)
		require.Len(t, doc.LineItems, 1)
	})
}

func TestCorrect(t *testing.T) {
	extracted := domain.InvoiceDocument{
		VendorInfo:     []domain.Table{{Data: "Field Name,Value\nVendor Name,Acme"}},
		InvoiceDetails: []domain.Table{{Data: "Field Name,Value\nInvoice Number,INV-1"}},
	}
	parsed := domain.ParseResult{Markdown: "raw"}

	t.Run("corrected result replaces input", func(t *testing.T) {
		model := &stubModel{responses: []string{
			`{"vendor_info":[{"data":"Field Name,Value\nVendor Name,Acme Corporation"}],"invoice_details":[{"data":"Field Name,Value\nInvoice Number,INV-1"}],"line_items":[],"taxes_fees":[],"payment_info":[],"compliance_flags":[]}`,
		}}
		svc := NewExtractionService(&stubModel{}, model)

		corrected := svc.Correct(context.Background(), extracted, parsed)
		assert.Contains(t, corrected.VendorInfo[0].Data, "Acme Corporation")
	})

	t.Run("api failure falls back to input", func(t *testing.T) {
		model := &stubModel{errs: []error{
			errors.New("down"), errors.New("down"), errors.New("down"),
		}}
		svc := NewExtractionService(&stubModel{}, model)

		corrected := svc.Correct(context.Background(), extracted, parsed)
		assert.Equal(t, extracted, corrected)
	})

	t.Run("unparseable response falls back to input", func(t *testing.T) {
		model := &stubModel{responses: []string{"sure, the extraction looks fine"}}
		svc := NewExtractionService(&stubModel{}, model)

		corrected := svc.Correct(context.Background(), extracted, parsed)
		assert.Equal(t, extracted, corrected)
	})

	t.Run("dropped categories restored from input", func(t *testing.T) {
		model := &stubModel{responses: []string{
			`{"vendor_info":[{"data":"Field Name,Value\nVendor Name,Acme Corporation"}]}`,
		}}
		svc := NewExtractionService(&stubModel{}, model)

		corrected := svc.Correct(context.Background(), extracted, parsed)
		assert.Contains(t, corrected.VendorInfo[0].Data, "Acme Corporation")
		assert.Equal(t, extracted.InvoiceDetails, corrected.InvoiceDetails)
	})
}

func TestMergeDocuments(t *testing.T) {
	combined := domain.InvoiceDocument{
		VendorInfo: []domain.Table{
			{Data: "Field Name,Value\nVendor Name,Acme"},
			{Data: "Field Name,Value\nVendor Name,Acme Corp"},
		},
	}
	documents := []domain.DocumentData{
		{DocumentName: "Document 1: a.pdf", Data: domain.InvoiceDocument{VendorInfo: combined.VendorInfo[:1]}},
		{DocumentName: "Document 2: b.pdf", Data: domain.InvoiceDocument{VendorInfo: combined.VendorInfo[1:]}},
	}

	t.Run("merged result used", func(t *testing.T) {
		model := &stubModel{responses: []string{
			`{"vendor_info":[{"data":"Field Name,Value\nVendor Name,Acme Corp"}],"invoice_details":[],"line_items":[],"taxes_fees":[],"payment_info":[],"compliance_flags":[]}`,
		}}
		svc := NewExtractionService(model, &stubModel{})

		merged := svc.MergeDocuments(context.Background(), documents, combined)
		assert.Len(t, merged.VendorInfo, 1)
	})

	t.Run("failure keeps combined data", func(t *testing.T) {
		model := &stubModel{errs: []error{
			errors.New("down"), errors.New("down"), errors.New("down"),
		}}
		svc := NewExtractionService(model, &stubModel{})

		merged := svc.MergeDocuments(context.Background(), documents, combined)
		assert.Equal(t, combined, merged)
	})
}
