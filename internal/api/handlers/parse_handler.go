package handlers

import (
	"Invoice-Service/domain"
	"Invoice-Service/internal/api/presenters"
	"Invoice-Service/pkg/invoice"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type (
	// ParseHandler serves the bulk document pipeline: multi-file parsing with a
	// workbook response, plus retrieval of the last workbook and the original
	// uploads.
	ParseHandler interface {
		ParseInvoices(c *fiber.Ctx) error
		LastProcessedInvoices(c *fiber.Ctx) error
		GetOriginalInvoice(c *fiber.Ctx) error
		HealthCheck(c *fiber.Ctx) error
	}

	parseHandler struct {
		invoiceService invoice.InvoiceService
	}
)

func NewParseHandler(invoiceService invoice.InvoiceService) ParseHandler {
	return &parseHandler{invoiceService: invoiceService}
}

func (h *parseHandler) ParseInvoices(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	files := form.File["pdf_files"]
	invoiceID := c.FormValue("invoice_id")

	excelPath, batchID, docErrors, err := h.invoiceService.ParseInvoiceDocuments(c.Context(), files, invoiceID)
	if err != nil {
		return presenters.ErrorResponse(c, invoiceStatusCode(err), domain.MessageFailedParseDocuments, err)
	}

	if len(docErrors) > 0 {
		encoded, encodeErr := c.App().Config().JSONEncoder(docErrors)
		if encodeErr == nil {
			c.Set("X-Document-Errors", string(encoded))
		}
	}

	c.Set("X-Invoice-ID", batchID)
	c.Set(fiber.HeaderContentType, excelContentType)
	return c.Download(excelPath, "invoice_analysis.xlsx")
}

func (h *parseHandler) LastProcessedInvoices(c *fiber.Ctx) error {
	path, err := h.invoiceService.LastProcessedFile()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedParseDocuments, err)
	}

	c.Set(fiber.HeaderContentType, excelContentType)
	return c.Download(path, "invoice_analysis.xlsx")
}

func (h *parseHandler) GetOriginalInvoice(c *fiber.Ctx) error {
	invoiceID := c.Params("id")

	path, err := h.invoiceService.OriginalFilePath(invoiceID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedParseDocuments, err)
	}

	filename := filepath.Base(path)
	// Strip the batch id prefix from the download name.
	if cut, ok := strings.CutPrefix(filename, invoiceID+"_"); ok {
		filename = cut
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Download(path, filename)
}

func (h *parseHandler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "Invoice Processing Service",
		"version": "1.0.0",
	})
}
