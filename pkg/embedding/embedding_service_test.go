package embedding

import (
	"Invoice-Service/domain"
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbeddingsClient struct {
	resp  openai.EmbeddingResponse
	err   error
	calls int
}

func (s *stubEmbeddingsClient) CreateEmbeddings(_ context.Context, _ openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	s.calls++
	return s.resp, s.err
}

func TestGenerateEmbedding(t *testing.T) {
	client := &stubEmbeddingsClient{
		resp: openai.EmbeddingResponse{
			Data: []openai.Embedding{{Embedding: []float32{0.1, 0.2, 0.3}}},
		},
	}
	svc := newEmbeddingServiceWithClient(client, "text-embedding-3-small", 3)

	vector, err := svc.GenerateEmbedding(context.Background(), "vendor_name: Acme")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
}

func TestGenerateEmbeddingDimensionMismatch(t *testing.T) {
	client := &stubEmbeddingsClient{
		resp: openai.EmbeddingResponse{
			Data: []openai.Embedding{{Embedding: []float32{0.1, 0.2}}},
		},
	}
	svc := newEmbeddingServiceWithClient(client, "text-embedding-3-small", 3)

	_, err := svc.GenerateEmbedding(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrEmbeddingDimension)
}

func TestGenerateEmbeddingRetriesThenFails(t *testing.T) {
	client := &stubEmbeddingsClient{err: errors.New("rate limited")}
	svc := newEmbeddingServiceWithClient(client, "text-embedding-3-small", 3)

	_, err := svc.GenerateEmbedding(context.Background(), "anything")
	require.Error(t, err)
	assert.Equal(t, 3, client.calls)
}

func TestCosineSimilarity(t *testing.T) {
	svc := newEmbeddingServiceWithClient(nil, "", 3)

	t.Run("identical vectors", func(t *testing.T) {
		assert.InDelta(t, 1.0, svc.CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	})

	t.Run("parallel vectors", func(t *testing.T) {
		assert.InDelta(t, 1.0, svc.CosineSimilarity([]float32{1, 0, 0}, []float32{5, 0, 0}), 1e-9)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		assert.InDelta(t, 0.0, svc.CosineSimilarity([]float32{1, 0, 0}, []float32{0, 1, 0}), 1e-9)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		assert.InDelta(t, -1.0, svc.CosineSimilarity([]float32{1, 0, 0}, []float32{-1, 0, 0}), 1e-9)
	})

	t.Run("zero vector", func(t *testing.T) {
		assert.Equal(t, 0.0, svc.CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3}))
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		assert.Equal(t, 0.0, svc.CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	})
}

func TestFindSimilar(t *testing.T) {
	svc := newEmbeddingServiceWithClient(nil, "", 3)
	query := []float32{1, 0, 0}
	stored := []StoredEmbedding{
		{ID: "exact", Embedding: []float32{1, 0, 0}},
		{ID: "close", Embedding: []float32{0.9, 0.1, 0}},
		{ID: "far", Embedding: []float32{0, 1, 0}},
	}

	t.Run("threshold filters and sorts best-first", func(t *testing.T) {
		matches := svc.FindSimilar(query, stored, 0.7, 10)
		require.Len(t, matches, 2)
		assert.Equal(t, "exact", matches[0].ID)
		assert.Equal(t, "close", matches[1].ID)
		assert.GreaterOrEqual(t, matches[1].Similarity, 0.7)
	})

	t.Run("limit truncates", func(t *testing.T) {
		matches := svc.FindSimilar(query, stored, 0.0, 1)
		require.Len(t, matches, 1)
		assert.Equal(t, "exact", matches[0].ID)
	})

	t.Run("no matches above threshold", func(t *testing.T) {
		matches := svc.FindSimilar(query, []StoredEmbedding{{ID: "far", Embedding: []float32{0, 1, 0}}}, 0.7, 10)
		assert.Empty(t, matches)
	})
}
