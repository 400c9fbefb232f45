package handlers

import (
	"Invoice-Service/domain"
	"Invoice-Service/internal/api/presenters"
	"Invoice-Service/pkg/invoice"
	"Invoice-Service/pkg/search"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	InvoiceHandler interface {
		UploadInvoice(c *fiber.Ctx) error
		GetInvoices(c *fiber.Ctx) error
		GetInvoiceDetails(c *fiber.Ctx) error
		SearchInvoices(c *fiber.Ctx) error
		ExportInvoice(c *fiber.Ctx) error
	}

	invoiceHandler struct {
		invoiceService invoice.InvoiceService
		searchService  search.SearchService
		validator      *validator.Validate
	}
)

func NewInvoiceHandler(invoiceService invoice.InvoiceService, searchService search.SearchService, validator *validator.Validate) InvoiceHandler {
	return &invoiceHandler{
		invoiceService: invoiceService,
		searchService:  searchService,
		validator:      validator,
	}
}

func (h *invoiceHandler) UploadInvoice(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UploadInvoiceRequest)

	file, err := c.FormFile("file")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.File = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadInvoice, err)
	}

	res, err := h.invoiceService.UploadInvoice(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, invoiceStatusCode(err), domain.MessageFailedUploadInvoice, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessUploadInvoice)
}

func (h *invoiceHandler) GetInvoices(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	invoices, count, err := h.invoiceService.GetInvoices(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetInvoices, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"invoices": invoices,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetInvoices)
}

func (h *invoiceHandler) GetInvoiceDetails(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	invoiceID := c.Params("id")

	res, err := h.invoiceService.GetInvoiceByID(c.Context(), invoiceID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, invoiceStatusCode(err), domain.MessageFailedGetInvoices, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetInvoices)
}

func (h *invoiceHandler) SearchInvoices(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.SearchInvoicesRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSearchInvoices, err)
	}

	results, err := h.searchService.SearchInvoices(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedSearchInvoices, err)
	}

	return presenters.SuccessResponse(c, results, fiber.StatusOK, domain.MessageSuccessSearchInvoices)
}

func (h *invoiceHandler) ExportInvoice(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	invoiceID := c.Params("id")

	res, err := h.invoiceService.ExportInvoice(c.Context(), invoiceID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, invoiceStatusCode(err), domain.MessageFailedExportInvoice, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessExportInvoice)
}

func invoiceStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrNotPDF),
		errors.Is(err, domain.ErrFileTooLarge),
		errors.Is(err, domain.ErrNoDocuments),
		errors.Is(err, domain.ErrNoInvoiceData),
		errors.Is(err, domain.ErrEncryptedDocument),
		errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
