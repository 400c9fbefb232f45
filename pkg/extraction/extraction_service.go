package extraction

import (
	"Invoice-Service/domain"
	"Invoice-Service/pkg/llm"
	"context"
	"log"

	"github.com/cenkalti/backoff/v4"
)

type (
	// ExtractionService turns the raw parser output into the structured invoice
	// document form. Structuring runs on the primary model, correction compares
	// the structured result against the raw output on the correction model, and
	// the merge consolidates results across multiple documents.
	ExtractionService interface {
		Structure(ctx context.Context, parsed domain.ParseResult) (domain.InvoiceDocument, error)
		Correct(ctx context.Context, extracted domain.InvoiceDocument, parsed domain.ParseResult) domain.InvoiceDocument
		MergeDocuments(ctx context.Context, documents []domain.DocumentData, combined domain.InvoiceDocument) domain.InvoiceDocument
	}

	extractionService struct {
		structureModel  llm.ChatModel
		correctionModel llm.ChatModel
	}
)

func NewExtractionService(structureModel llm.ChatModel, correctionModel llm.ChatModel) ExtractionService {
	return &extractionService{
		structureModel:  structureModel,
		correctionModel: correctionModel,
	}
}

func completeWithRetry(ctx context.Context, model llm.ChatModel, system string, prompt string) (string, error) {
	var response string
	operation := func() error {
		res, err := model.Complete(ctx, system, prompt)
		if err != nil {
			return err
		}
		response = res
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return response, nil
}

// Structure converts the parser output into the six-category document via the
// primary model. A response that cannot be parsed even after repair yields an
// empty document rather than an error, so a bad model day degrades to "no data
// found" instead of failing the whole batch.
func (s *extractionService) Structure(ctx context.Context, parsed domain.ParseResult) (domain.InvoiceDocument, error) {
	response, err := completeWithRetry(ctx, s.structureModel, "", buildStructurePrompt(parsed))
	if err != nil {
		return domain.InvoiceDocument{}, err
	}

	var doc domain.InvoiceDocument
	if err := decodeModelJSON(response, &doc); err != nil {
		log.Printf("structuring response unparseable, returning empty document: %v", err)
		return domain.InvoiceDocument{}, nil
	}
	return doc, nil
}

// Correct validates the structured extraction against the raw parser output.
// Any failure (API errors after retries, unparseable response) falls back to
// the uncorrected input.
func (s *extractionService) Correct(ctx context.Context, extracted domain.InvoiceDocument, parsed domain.ParseResult) domain.InvoiceDocument {
	response, err := completeWithRetry(ctx, s.correctionModel, "", buildCorrectionPrompt(extracted, parsed))
	if err != nil {
		log.Printf("correction call failed, keeping original extraction: %v", err)
		return extracted
	}

	var corrected domain.InvoiceDocument
	if err := decodeModelJSON(response, &corrected); err != nil {
		log.Printf("correction response unparseable, keeping original extraction: %v", err)
		return extracted
	}

	// Categories the correction dropped are restored from the input.
	for _, key := range domain.InvoiceCategories {
		if corrected.Category(key) == nil {
			corrected.SetCategory(key, extracted.Category(key))
		}
	}
	return corrected
}

// MergeDocuments consolidates per-document extractions into one validated
// document. On failure the naive concatenation is kept.
func (s *extractionService) MergeDocuments(ctx context.Context, documents []domain.DocumentData, combined domain.InvoiceDocument) domain.InvoiceDocument {
	response, err := completeWithRetry(ctx, s.structureModel, "", buildMergePrompt(documents, combined))
	if err != nil {
		log.Printf("cross-document merge failed, keeping combined data: %v", err)
		return combined
	}

	var merged domain.InvoiceDocument
	if err := decodeModelJSON(response, &merged); err != nil {
		log.Printf("cross-document merge response unparseable, keeping combined data: %v", err)
		return combined
	}

	for _, key := range domain.InvoiceCategories {
		if merged.Category(key) == nil {
			merged.SetCategory(key, combined.Category(key))
		}
	}
	return merged
}
