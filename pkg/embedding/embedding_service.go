package embedding

import (
	"Invoice-Service/domain"
	"Invoice-Service/internal/utils"
	"context"
	"math"
	"sort"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
)

type (
	// EmbeddingService generates embedding vectors for invoice content and
	// provides the similarity primitives used by search.
	EmbeddingService interface {
		GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
		GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
		CosineSimilarity(a []float32, b []float32) float64
		FindSimilar(query []float32, stored []StoredEmbedding, threshold float64, limit int) []SimilarityMatch
	}

	// embeddingsAPI is the slice of the OpenAI client the service needs.
	embeddingsAPI interface {
		CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
	}

	embeddingService struct {
		client     embeddingsAPI
		model      string
		dimensions int
	}

	StoredEmbedding struct {
		ID        string
		Embedding []float32
	}

	SimilarityMatch struct {
		ID         string
		Similarity float64
	}
)

func NewEmbeddingService() EmbeddingService {
	return &embeddingService{
		client:     openai.NewClient(utils.GetConfig("OPENAI_API_KEY")),
		model:      utils.GetConfig("EMBEDDING_MODEL"),
		dimensions: utils.GetConfigInt("EMBEDDING_DIMENSIONS"),
	}
}

func newEmbeddingServiceWithClient(client embeddingsAPI, model string, dimensions int) EmbeddingService {
	return &embeddingService{
		client:     client,
		model:      model,
		dimensions: dimensions,
	}
}

func (s *embeddingService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.generate(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (s *embeddingService) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	return s.generate(ctx, texts)
}

func (s *embeddingService) generate(ctx context.Context, texts []string) ([][]float32, error) {
	var resp openai.EmbeddingResponse

	operation := func() error {
		res, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input:      texts,
			Model:      openai.EmbeddingModel(s.model),
			Dimensions: s.dimensions,
		})
		if err != nil {
			return err
		}
		resp = res
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, domain.ErrEmbeddingFailed
	}

	vectors := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		if len(data.Embedding) != s.dimensions {
			return nil, domain.ErrEmbeddingDimension
		}
		vectors[i] = data.Embedding
	}
	return vectors, nil
}

// CosineSimilarity returns 0 for zero or mismatched vectors.
func (s *embeddingService) CosineSimilarity(a []float32, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// FindSimilar filters stored embeddings by the similarity threshold and
// returns the top matches sorted best-first.
func (s *embeddingService) FindSimilar(query []float32, stored []StoredEmbedding, threshold float64, limit int) []SimilarityMatch {
	matches := make([]SimilarityMatch, 0, len(stored))
	for _, item := range stored {
		similarity := s.CosineSimilarity(query, item.Embedding)
		if similarity >= threshold {
			matches = append(matches, SimilarityMatch{
				ID:         item.ID,
				Similarity: similarity,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
