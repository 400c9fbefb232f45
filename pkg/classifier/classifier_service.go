package classifier

import (
	"Invoice-Service/domain"
	"Invoice-Service/pkg/llm"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
)

const classifierSystemPrompt = "You are an expert invoice classifier. Analyze the given field and provide the most accurate classification."

type (
	// ClassifierService normalizes extracted invoice fields. Each field gets one
	// model call on the primary model with a fallback to the secondary; a field
	// where both fail keeps its original value with zero confidence.
	ClassifierService interface {
		ClassifyFields(ctx context.Context, fields map[string]string) map[string]domain.FieldClassification
	}

	classifierService struct {
		primary   llm.ChatModel
		secondary llm.ChatModel
	}

	classificationPayload struct {
		CorrectedValue string   `json:"corrected_value"`
		Confidence     *float64 `json:"confidence"`
		Notes          string   `json:"notes"`
	}
)

func NewClassifierService(primary llm.ChatModel, secondary llm.ChatModel) ClassifierService {
	return &classifierService{
		primary:   primary,
		secondary: secondary,
	}
}

// ClassifyFields fans out one classification per field. A failed field never
// fails the batch.
func (s *classifierService) ClassifyFields(ctx context.Context, fields map[string]string) map[string]domain.FieldClassification {
	results := make(map[string]domain.FieldClassification, len(fields))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for field, value := range fields {
		field, value := field, value
		g.Go(func() error {
			classification := s.classifyField(gctx, field, value)
			mu.Lock()
			results[field] = classification
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *classifierService) classifyField(ctx context.Context, field string, value string) domain.FieldClassification {
	prompt := buildClassificationPrompt(field, value)

	response, err := s.primary.Complete(ctx, classifierSystemPrompt, prompt)
	if err == nil {
		return parseClassification(response, value, "claude")
	}
	log.Printf("primary classification failed for %s, trying fallback: %v", field, err)

	response, err = s.secondary.Complete(ctx, classifierSystemPrompt, prompt)
	if err == nil {
		return parseClassification(response, value, "openai")
	}
	log.Printf("fallback classification failed for %s: %v", field, err)

	return domain.FieldClassification{
		Value:      value,
		Confidence: 0.0,
		Model:      "failed",
	}
}

func buildClassificationPrompt(field string, value string) string {
	return fmt.Sprintf(`Analyze this invoice field and provide the most accurate classification:

Field: %s
Value: %s

Please provide:
1. The corrected/normalized value
2. A confidence score (0.0 to 1.0)
3. Any validation notes

Format your response as JSON:
{
    "corrected_value": "normalized value",
    "confidence": 0.95,
    "notes": "any validation notes"
}`, field, value)
}

// parseClassification reads the JSON payload the models are prompted for. A
// non-JSON answer keeps the original value at half confidence and flags it for
// manual review.
func parseClassification(response string, originalValue string, model string) domain.FieldClassification {
	var payload classificationPayload
	if err := json.Unmarshal([]byte(response), &payload); err != nil {
		return domain.FieldClassification{
			Value:      originalValue,
			Confidence: 0.5,
			Notes:      "Manual review recommended",
			Model:      model,
		}
	}

	value := payload.CorrectedValue
	if value == "" {
		value = originalValue
	}
	confidence := 0.5
	if payload.Confidence != nil {
		confidence = *payload.Confidence
	}

	return domain.FieldClassification{
		Value:      value,
		Confidence: confidence,
		Notes:      payload.Notes,
		Model:      model,
	}
}
