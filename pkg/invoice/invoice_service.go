package invoice

import (
	"Invoice-Service/domain"
	"Invoice-Service/entities"
	"Invoice-Service/internal/utils/storage"
	"Invoice-Service/pkg/classifier"
	"Invoice-Service/pkg/embedding"
	"Invoice-Service/pkg/export"
	"Invoice-Service/pkg/extraction"
	"Invoice-Service/pkg/parser"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Total upload size cap for the bulk parsing endpoint.
const maxTotalUploadSize = 100 * 1024 * 1024

type (
	InvoiceService interface {
		UploadInvoice(ctx context.Context, req domain.UploadInvoiceRequest, userID string) (domain.UploadInvoiceResponse, error)
		GetInvoices(ctx context.Context, userID string, page, limit int) ([]domain.InvoiceResponse, int64, error)
		GetInvoiceByID(ctx context.Context, invoiceID, userID string) (domain.InvoiceResponse, error)
		ExportInvoice(ctx context.Context, invoiceID, userID string) (domain.ExportInvoiceResponse, error)
		ParseInvoiceDocuments(ctx context.Context, files []*multipart.FileHeader, invoiceID string) (string, string, []domain.DocumentError, error)
		LastProcessedFile() (string, error)
		OriginalFilePath(invoiceID string) (string, error)
	}

	invoiceService struct {
		invoiceRepository InvoiceRepository
		parserService     parser.ParserService
		extractionService extraction.ExtractionService
		classifierService classifier.ClassifierService
		embeddingService  embedding.EmbeddingService
		s3                storage.AwsS3

		mu                sync.Mutex
		lastProcessedPath string
	}
)

func NewInvoiceService(
	invoiceRepository InvoiceRepository,
	parserService parser.ParserService,
	extractionService extraction.ExtractionService,
	classifierService classifier.ClassifierService,
	embeddingService embedding.EmbeddingService,
	s3 storage.AwsS3,
) InvoiceService {
	return &invoiceService{
		invoiceRepository: invoiceRepository,
		parserService:     parserService,
		extractionService: extractionService,
		classifierService: classifierService,
		embeddingService:  embeddingService,
		s3:                s3,
	}
}

// UploadInvoice runs the full pipeline for one document: parse, structure,
// correct, classify the headline fields, embed and persist. The record is
// created as processing and flipped to processed once the pipeline finishes;
// a pipeline failure discards the record so no row is left stuck in
// processing.
func (s *invoiceService) UploadInvoice(ctx context.Context, req domain.UploadInvoiceRequest, userID string) (domain.UploadInvoiceResponse, error) {
	if !strings.HasSuffix(strings.ToLower(req.File.Filename), ".pdf") {
		return domain.UploadInvoiceResponse{}, domain.ErrNotPDF
	}

	content, err := readFileHeader(req.File)
	if err != nil {
		return domain.UploadInvoiceResponse{}, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.UploadInvoiceResponse{}, domain.ErrParseUUID
	}

	record := &entities.Invoice{
		UserID:   userUUID,
		Filename: req.File.Filename,
		Status:   domain.StatusProcessing,
	}
	if err := s.invoiceRepository.CreateInvoice(ctx, record); err != nil {
		return domain.UploadInvoiceResponse{}, err
	}

	if err := s.runUploadPipeline(ctx, record, content); err != nil {
		s.discardInvoice(ctx, record)
		return domain.UploadInvoiceResponse{}, err
	}

	return domain.UploadInvoiceResponse{
		ID:       record.ID.String(),
		Filename: record.Filename,
		Status:   record.Status,
		Message:  domain.MessageSuccessUploadInvoice,
	}, nil
}

// runUploadPipeline fills the created record with the extraction results and
// persists it as processed.
func (s *invoiceService) runUploadPipeline(ctx context.Context, record *entities.Invoice, content []byte) error {
	parsed, err := s.parserService.ParseDocument(ctx, record.Filename, content)
	if err != nil {
		return err
	}

	doc, err := s.extractionService.Structure(ctx, parsed)
	if err != nil {
		return err
	}
	doc = s.extractionService.Correct(ctx, doc, parsed)
	if doc.IsEmpty() {
		return domain.ErrNoInvoiceData
	}

	fields := extraction.HeadlineFields(doc)
	classified := s.classifierService.ClassifyFields(ctx, fields)

	vector, err := s.embeddingService.GenerateEmbedding(ctx, embeddingContent(fields, classified))
	if err != nil {
		return err
	}

	extractedJSON, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	classifiedJSON, err := json.Marshal(classified)
	if err != nil {
		return err
	}

	record.ExtractedData = string(extractedJSON)
	record.ClassifiedData = string(classifiedJSON)
	record.Embeddings = pgvector.NewVector(vector)
	record.Status = domain.StatusProcessed
	return s.invoiceRepository.UpdateInvoice(ctx, record)
}

func (s *invoiceService) discardInvoice(ctx context.Context, record *entities.Invoice) {
	if err := s.invoiceRepository.DeleteInvoice(ctx, record); err != nil {
		log.Printf("failed to discard invoice %s after pipeline failure: %v", record.ID, err)
	}
}

func (s *invoiceService) GetInvoices(ctx context.Context, userID string, page, limit int) ([]domain.InvoiceResponse, int64, error) {
	records, count, err := s.invoiceRepository.GetInvoices(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.InvoiceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toInvoiceResponse(record))
	}
	return responses, count, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID, userID string) (domain.InvoiceResponse, error) {
	record, err := s.findOwnedInvoice(ctx, invoiceID, userID)
	if err != nil {
		return domain.InvoiceResponse{}, err
	}
	return toInvoiceResponse(record), nil
}

// ExportInvoice renders the stored invoice to a workbook, uploads it and
// returns a presigned download link.
func (s *invoiceService) ExportInvoice(ctx context.Context, invoiceID, userID string) (domain.ExportInvoiceResponse, error) {
	record, err := s.findOwnedInvoice(ctx, invoiceID, userID)
	if err != nil {
		return domain.ExportInvoiceResponse{}, err
	}

	doc, classified := decodeStoredData(record)
	fields := extraction.HeadlineFields(doc)

	workbook, err := export.CreateInvoiceExport(
		record.ID.String(),
		record.Filename,
		record.UserID.String(),
		record.Status,
		record.CreatedAt,
		fields,
		classified,
	)
	if err != nil {
		return domain.ExportInvoiceResponse{}, err
	}

	key := fmt.Sprintf("exports/%s/invoice_%s_%s.xlsx",
		record.UserID.String(), record.ID.String(), time.Now().Format("20060102_150405"))
	if err := s.s3.UploadBytes(ctx, key,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		workbook.Bytes()); err != nil {
		return domain.ExportInvoiceResponse{}, err
	}

	link, err := s.s3.PresignLink(ctx, key, time.Hour)
	if err != nil {
		return domain.ExportInvoiceResponse{}, err
	}

	return domain.ExportInvoiceResponse{
		ExportURL: link,
		Status:    "success",
		Message:   domain.MessageSuccessExportInvoice,
	}, nil
}

// ParseInvoiceDocuments is the bulk pipeline: every uploaded PDF is parsed,
// structured and corrected, results are combined (with a cross-document merge
// when more than one document survived) and rendered into the analysis
// workbook. Per-file failures are collected instead of failing the batch.
// Returns the workbook path and the invoice id the batch was correlated with.
func (s *invoiceService) ParseInvoiceDocuments(ctx context.Context, files []*multipart.FileHeader, invoiceID string) (string, string, []domain.DocumentError, error) {
	if len(files) == 0 {
		return "", "", nil, domain.ErrNoDocuments
	}

	var totalSize int64
	for _, file := range files {
		if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
			return "", "", nil, domain.ErrNotPDF
		}
		totalSize += file.Size
	}
	if totalSize > maxTotalUploadSize {
		return "", "", nil, domain.ErrFileTooLarge
	}

	if invoiceID == "" {
		invoiceID = uuid.NewString()
	}

	var combined domain.InvoiceDocument
	var documents []domain.DocumentData
	var documentErrors []domain.DocumentError

	for i, file := range files {
		docName := fmt.Sprintf("Document %d: %s", i+1, file.Filename)

		content, err := readFileHeader(file)
		if err != nil {
			documentErrors = append(documentErrors, newDocumentError(file.Filename, err))
			continue
		}

		if err := s.saveOriginal(invoiceID, file.Filename, content); err != nil {
			log.Printf("failed to save original for %s: %v", file.Filename, err)
		}

		doc, err := s.processDocument(ctx, file.Filename, content)
		if err != nil {
			documentErrors = append(documentErrors, newDocumentError(file.Filename, err))
			continue
		}

		documents = append(documents, domain.DocumentData{DocumentName: docName, Data: doc})
		combined.Append(doc)
	}

	if len(documents) > 1 {
		combined = s.extractionService.MergeDocuments(ctx, documents, combined)
	}

	if combined.IsEmpty() {
		return "", "", documentErrors, domain.ErrNoInvoiceData
	}

	workbook, err := export.CreateInvoiceAnalysis(combined)
	if err != nil {
		return "", "", documentErrors, err
	}

	exportsDir := filepath.Join(".", "exports")
	if err := os.MkdirAll(exportsDir, os.ModePerm); err != nil {
		return "", "", documentErrors, err
	}
	excelPath := filepath.Join(exportsDir, "invoice_analysis.xlsx")
	if err := os.WriteFile(excelPath, workbook.Bytes(), 0644); err != nil {
		return "", "", documentErrors, err
	}

	s.mu.Lock()
	s.lastProcessedPath = excelPath
	s.mu.Unlock()

	// Best effort: correlate the batch result back to an existing invoice
	// record. A miss never fails the request.
	s.updateInvoiceRecord(ctx, invoiceID, combined)

	return excelPath, invoiceID, documentErrors, nil
}

func (s *invoiceService) LastProcessedFile() (string, error) {
	s.mu.Lock()
	path := s.lastProcessedPath
	s.mu.Unlock()

	if path == "" {
		return "", domain.ErrNoProcessedFile
	}
	if _, err := os.Stat(path); err != nil {
		return "", domain.ErrNoProcessedFile
	}
	return path, nil
}

func (s *invoiceService) OriginalFilePath(invoiceID string) (string, error) {
	originalsDir := filepath.Join(".", "originals")
	entries, err := os.ReadDir(originalsDir)
	if err != nil {
		return "", domain.ErrOriginalNotFound
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, invoiceID) && strings.HasSuffix(name, ".pdf") {
			return filepath.Join(originalsDir, name), nil
		}
	}
	return "", domain.ErrOriginalNotFound
}

// processDocument runs parse, structure and correct for one file.
func (s *invoiceService) processDocument(ctx context.Context, filename string, content []byte) (domain.InvoiceDocument, error) {
	parsed, err := s.parserService.ParseDocument(ctx, filename, content)
	if err != nil {
		return domain.InvoiceDocument{}, err
	}

	doc, err := s.extractionService.Structure(ctx, parsed)
	if err != nil {
		return domain.InvoiceDocument{}, err
	}
	return s.extractionService.Correct(ctx, doc, parsed), nil
}

func (s *invoiceService) saveOriginal(invoiceID, filename string, content []byte) error {
	originalsDir := filepath.Join(".", "originals")
	if err := os.MkdirAll(originalsDir, os.ModePerm); err != nil {
		return err
	}
	path := filepath.Join(originalsDir, fmt.Sprintf("%s_%s", invoiceID, filepath.Base(filename)))
	return os.WriteFile(path, content, 0644)
}

func (s *invoiceService) updateInvoiceRecord(ctx context.Context, invoiceID string, combined domain.InvoiceDocument) {
	record, err := s.invoiceRepository.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("failed to look up invoice %s for batch update: %v", invoiceID, err)
		}
		return
	}

	extractedJSON, err := json.Marshal(combined)
	if err != nil {
		log.Printf("failed to encode batch result for invoice %s: %v", invoiceID, err)
		return
	}

	record.ExtractedData = string(extractedJSON)
	record.Status = domain.StatusProcessed
	if err := s.invoiceRepository.UpdateInvoice(ctx, record); err != nil {
		log.Printf("failed to update invoice %s with batch result: %v", invoiceID, err)
	}
}

func (s *invoiceService) findOwnedInvoice(ctx context.Context, invoiceID, userID string) (*entities.Invoice, error) {
	record, err := s.invoiceRepository.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	if record.UserID.String() != userID {
		return nil, domain.ErrInvoiceNotFound
	}
	return record, nil
}

func readFileHeader(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func newDocumentError(filename string, err error) domain.DocumentError {
	if errors.Is(err, domain.ErrEncryptedDocument) {
		return domain.DocumentError{
			File:    filename,
			Error:   "PDF is encrypted or password-protected",
			Details: "Cannot process encrypted PDFs. Please provide an unprotected PDF file.",
		}
	}
	return domain.DocumentError{
		File:    filename,
		Error:   err.Error(),
		Details: "Processing failed for this file",
	}
}

// embeddingContent flattens the extracted and classified fields into the text
// that gets embedded.
func embeddingContent(fields map[string]string, classified map[string]domain.FieldClassification) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, fields[key]))
	}
	for _, key := range keys {
		if classification, ok := classified[key]; ok {
			parts = append(parts, fmt.Sprintf("classified_%s: %s", key, classification.Value))
		}
	}
	return strings.Join(parts, " ")
}

func toInvoiceResponse(record *entities.Invoice) domain.InvoiceResponse {
	doc, classified := decodeStoredData(record)
	return domain.InvoiceResponse{
		ID:             record.ID.String(),
		UserID:         record.UserID.String(),
		Filename:       record.Filename,
		ExtractedData:  doc,
		ClassifiedData: classified,
		Status:         record.Status,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

func decodeStoredData(record *entities.Invoice) (domain.InvoiceDocument, map[string]domain.FieldClassification) {
	var doc domain.InvoiceDocument
	if record.ExtractedData != "" {
		if err := json.Unmarshal([]byte(record.ExtractedData), &doc); err != nil {
			log.Printf("invoice %s has malformed extracted data: %v", record.ID, err)
		}
	}
	classified := map[string]domain.FieldClassification{}
	if record.ClassifiedData != "" {
		if err := json.Unmarshal([]byte(record.ClassifiedData), &classified); err != nil {
			log.Printf("invoice %s has malformed classified data: %v", record.ID, err)
		}
	}
	return doc, classified
}
