package search

import (
	"Invoice-Service/domain"
	"Invoice-Service/internal/utils"
	"Invoice-Service/pkg/embedding"
	"Invoice-Service/pkg/extraction"
	"Invoice-Service/pkg/invoice"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
)

type (
	// SearchService answers semantic queries over a user's processed invoices.
	SearchService interface {
		SearchInvoices(ctx context.Context, req domain.SearchInvoicesRequest, userID string) ([]domain.InvoiceSearchResponse, error)
	}

	searchService struct {
		embeddingService  embedding.EmbeddingService
		invoiceRepository invoice.InvoiceRepository
	}
)

func NewSearchService(embeddingService embedding.EmbeddingService, invoiceRepository invoice.InvoiceRepository) SearchService {
	return &searchService{
		embeddingService:  embeddingService,
		invoiceRepository: invoiceRepository,
	}
}

func (s *searchService) SearchInvoices(ctx context.Context, req domain.SearchInvoicesRequest, userID string) ([]domain.InvoiceSearchResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = utils.GetConfigInt("MAX_SEARCH_RESULTS")
	}
	threshold := utils.GetConfigFloat("SIMILARITY_THRESHOLD")
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	queryEmbedding, err := s.embeddingService.GenerateEmbedding(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	matches, err := s.invoiceRepository.FindSimilarInvoices(ctx, userID, pgvector.NewVector(queryEmbedding), threshold, limit)
	if err != nil {
		return nil, err
	}

	results := make([]domain.InvoiceSearchResponse, 0, len(matches))
	for _, match := range matches {
		var doc domain.InvoiceDocument
		if match.ExtractedData != "" {
			if err := json.Unmarshal([]byte(match.ExtractedData), &doc); err != nil {
				doc = domain.InvoiceDocument{}
			}
		}

		results = append(results, domain.InvoiceSearchResponse{
			InvoiceID:      match.ID,
			Filename:       match.Filename,
			RelevanceScore: match.Similarity,
			MatchedContent: buildMatchedContent(match.Filename, doc),
			ExtractedData:  doc,
		})
	}
	return results, nil
}

// buildMatchedContent renders the filename plus the headline fields as a
// pipe-separated snippet.
func buildMatchedContent(filename string, doc domain.InvoiceDocument) string {
	parts := []string{fmt.Sprintf("Filename: %s", filename)}
	fields := extraction.HeadlineFields(doc)
	for _, field := range []string{"vendor_name", "invoice_number", "invoice_date", "total_amount", "currency"} {
		if value, ok := fields[field]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", field, value))
		}
	}
	return strings.Join(parts, " | ")
}
