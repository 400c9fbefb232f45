package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessUploadInvoice  = "invoice processed successfully"
	MessageSuccessGetInvoices    = "invoices retrieved successfully"
	MessageSuccessSearchInvoices = "search completed successfully"
	MessageSuccessExportInvoice  = "invoice exported successfully"

	MessageFailedUploadInvoice  = "failed to process invoice"
	MessageFailedGetInvoices    = "failed to retrieve invoices"
	MessageFailedSearchInvoices = "search failed"
	MessageFailedExportInvoice  = "failed to export invoice"
	MessageFailedParseDocuments = "failed to parse invoice documents"

	ErrInvoiceNotFound       = errors.New("invoice not found")
	ErrUnauthorizedAccess    = errors.New("unauthorized access to invoice")
	ErrEncryptedDocument     = errors.New("document is encrypted or password-protected")
	ErrNotPDF                = errors.New("file is not a PDF document")
	ErrFileTooLarge          = errors.New("uploaded files exceed the size limit")
	ErrNoDocuments           = errors.New("at least one PDF file is required")
	ErrNoInvoiceData         = errors.New("no valid invoice data was found in the documents")
	ErrNoProcessedFile       = errors.New("no processed file available")
	ErrOriginalNotFound      = errors.New("original file not found")
	ErrEmbeddingDimension    = errors.New("embedding length does not match configured dimensions")
	ErrExtractionFailed      = errors.New("invoice extraction failed")
	ErrClassificationFailed  = errors.New("invoice classification failed")
	ErrEmbeddingFailed       = errors.New("embedding generation failed")
	ErrModelResponseEmpty    = errors.New("model returned an empty response")
	ErrModelResponseInvalid  = errors.New("model returned unparseable output")
	ErrParserResponseInvalid = errors.New("document parser returned an unexpected response")
)

type (
	UploadInvoiceRequest struct {
		File *multipart.FileHeader `json:"file" form:"file" validate:"required"`
	}

	UploadInvoiceResponse struct {
		ID       string `json:"id"`
		Filename string `json:"filename"`
		Status   string `json:"status"`
		Message  string `json:"message"`
	}

	InvoiceResponse struct {
		ID             string                         `json:"id"`
		UserID         string                         `json:"user_id"`
		Filename       string                         `json:"filename"`
		ExtractedData  InvoiceDocument                `json:"extracted_data"`
		ClassifiedData map[string]FieldClassification `json:"classified_data"`
		Status         string                         `json:"status"`
		CreatedAt      time.Time                      `json:"created_at"`
		UpdatedAt      time.Time                      `json:"updated_at"`
	}

	SearchInvoicesRequest struct {
		Query string `json:"query" validate:"required"`
		Limit int    `json:"limit" validate:"omitempty,min=1,max=50"`
		// Threshold is a pointer so an explicit 0 is distinguishable from
		// an absent field, which falls back to the configured default.
		Threshold *float64 `json:"threshold" validate:"omitempty,min=0,max=1"`
	}

	InvoiceSearchResponse struct {
		InvoiceID      string          `json:"invoice_id"`
		Filename       string          `json:"filename"`
		RelevanceScore float64         `json:"relevance_score"`
		MatchedContent string          `json:"matched_content"`
		ExtractedData  InvoiceDocument `json:"extracted_data"`
	}

	ExportInvoiceResponse struct {
		ExportURL string `json:"export_url"`
		Status    string `json:"status"`
		Message   string `json:"message"`
	}

	DocumentError struct {
		File    string `json:"file"`
		Error   string `json:"error"`
		Details string `json:"details"`
	}
)
