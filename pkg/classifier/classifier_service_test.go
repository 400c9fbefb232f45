package classifier

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
}

func (s *stubModel) Complete(_ context.Context, _ string, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.response, s.err
}

func TestClassifyFieldsPrimarySuccess(t *testing.T) {
	primary := &stubModel{response: `{"corrected_value":"Acme Corporation","confidence":0.95,"notes":"expanded abbreviation"}`}
	secondary := &stubModel{}
	svc := NewClassifierService(primary, secondary)

	results := svc.ClassifyFields(context.Background(), map[string]string{"vendor_name": "Acme Corp"})

	require.Contains(t, results, "vendor_name")
	got := results["vendor_name"]
	assert.Equal(t, "Acme Corporation", got.Value)
	assert.Equal(t, 0.95, got.Confidence)
	assert.Equal(t, "claude", got.Model)
	assert.Zero(t, secondary.calls)
}

func TestClassifyFieldsFallbackToSecondary(t *testing.T) {
	primary := &stubModel{err: errors.New("overloaded")}
	secondary := &stubModel{response: `{"corrected_value":"INV-001","confidence":0.9}`}
	svc := NewClassifierService(primary, secondary)

	results := svc.ClassifyFields(context.Background(), map[string]string{"invoice_number": "inv 001"})

	got := results["invoice_number"]
	assert.Equal(t, "INV-001", got.Value)
	assert.Equal(t, "openai", got.Model)
}

func TestClassifyFieldsBothModelsFail(t *testing.T) {
	primary := &stubModel{err: errors.New("down")}
	secondary := &stubModel{err: errors.New("also down")}
	svc := NewClassifierService(primary, secondary)

	results := svc.ClassifyFields(context.Background(), map[string]string{"total_amount": "1500.00"})

	got := results["total_amount"]
	assert.Equal(t, "1500.00", got.Value)
	assert.Equal(t, 0.0, got.Confidence)
	assert.Equal(t, "failed", got.Model)
}

func TestClassifyFieldsNonJSONResponse(t *testing.T) {
	primary := &stubModel{response: "The value looks like a valid date to me."}
	svc := NewClassifierService(primary, &stubModel{})

	results := svc.ClassifyFields(context.Background(), map[string]string{"invoice_date": "2025-03-01"})

	got := results["invoice_date"]
	assert.Equal(t, "2025-03-01", got.Value)
	assert.Equal(t, 0.5, got.Confidence)
	assert.Equal(t, "Manual review recommended", got.Notes)
}

func TestClassifyFieldsFansOutAllFields(t *testing.T) {
	primary := &stubModel{response: `{"corrected_value":"x","confidence":1.0}`}
	svc := NewClassifierService(primary, &stubModel{})

	fields := map[string]string{
		"vendor_name":    "a",
		"invoice_number": "b",
		"invoice_date":   "c",
		"total_amount":   "d",
	}
	results := svc.ClassifyFields(context.Background(), fields)

	assert.Len(t, results, len(fields))
	assert.Equal(t, len(fields), primary.calls)
	for field := range fields {
		assert.Contains(t, results, field)
	}
}

func TestParseClassificationMissingValueKeepsOriginal(t *testing.T) {
	got := parseClassification(`{"confidence":0.8,"notes":"looks fine"}`, "original", "claude")
	assert.Equal(t, "original", got.Value)
	assert.Equal(t, 0.8, got.Confidence)
}

func TestParseClassificationMissingConfidenceDefaults(t *testing.T) {
	got := parseClassification(`{"corrected_value":"fixed"}`, "original", "claude")
	assert.Equal(t, "fixed", got.Value)
	assert.Equal(t, 0.5, got.Confidence)
	assert.True(t, strings.HasPrefix(got.Model, "claude"))
}
