package parser

import (
	"Invoice-Service/domain"
	"Invoice-Service/internal/utils"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type (
	// ParserService sends a PDF to the agentic document extraction API and
	// returns the markdown plus per-chunk breakdown of the document.
	ParserService interface {
		ParseDocument(ctx context.Context, filename string, content []byte) (domain.ParseResult, error)
	}

	parserService struct {
		apiURL     string
		apiKey     string
		httpClient *http.Client
	}

	parseAPIResponse struct {
		Data struct {
			Markdown string `json:"markdown"`
			Chunks   []struct {
				Text      string `json:"text"`
				ChunkType string `json:"chunk_type"`
				Grounding []struct {
					Page int `json:"page"`
				} `json:"grounding"`
			} `json:"chunks"`
		} `json:"data"`
	}
)

func NewParserService() ParserService {
	return &parserService{
		apiURL:     utils.GetConfig("DOCPARSE_API_URL"),
		apiKey:     utils.GetConfig("DOCPARSE_API_KEY"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *parserService) ParseDocument(ctx context.Context, filename string, content []byte) (domain.ParseResult, error) {
	var result domain.ParseResult

	operation := func() error {
		res, err := s.parseOnce(ctx, filename, content)
		if err != nil {
			return err
		}
		result = res
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return domain.ParseResult{}, err
	}
	return result, nil
}

func (s *parserService) parseOnce(ctx context.Context, filename string, content []byte) (domain.ParseResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("pdf", filename)
	if err != nil {
		return domain.ParseResult{}, backoff.Permanent(err)
	}
	if _, err = part.Write(content); err != nil {
		return domain.ParseResult{}, backoff.Permanent(err)
	}
	if err = writer.Close(); err != nil {
		return domain.ParseResult{}, backoff.Permanent(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, body)
	if err != nil {
		return domain.ParseResult{}, backoff.Permanent(err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return domain.ParseResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		msg := strings.ToLower(string(bodyBytes))
		if strings.Contains(msg, "encrypted") || strings.Contains(msg, "password") {
			return domain.ParseResult{}, backoff.Permanent(domain.ErrEncryptedDocument)
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return domain.ParseResult{}, backoff.Permanent(fmt.Errorf("document parser error: %s - %s", resp.Status, string(bodyBytes)))
		}
		return domain.ParseResult{}, fmt.Errorf("document parser error: %s", resp.Status)
	}

	var apiResp parseAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return domain.ParseResult{}, backoff.Permanent(domain.ErrParserResponseInvalid)
	}

	chunks := make([]domain.Chunk, 0, len(apiResp.Data.Chunks))
	for _, c := range apiResp.Data.Chunks {
		page := 0
		if len(c.Grounding) > 0 {
			page = c.Grounding[0].Page
		}
		chunks = append(chunks, domain.Chunk{
			Type: c.ChunkType,
			Text: c.Text,
			Page: page,
		})
	}

	return domain.ParseResult{
		Markdown: apiResp.Data.Markdown,
		Chunks:   chunks,
	}, nil
}
