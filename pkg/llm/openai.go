package llm

import (
	"Invoice-Service/domain"
	"context"

	openai "github.com/sashabaranov/go-openai"
)

type openAIModel struct {
	client   *openai.Client
	model    string
	jsonMode bool
}

// NewOpenAI builds the fallback classification model client.
func NewOpenAI(apiKey, model string) ChatModel {
	return &openAIModel{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewAzureOpenAI builds the correction model client. The deployment name is
// used as the model identifier and responses are forced into JSON mode, which
// is what the correction prompt expects.
func NewAzureOpenAI(apiKey, endpoint, deployment string) ChatModel {
	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	return &openAIModel{
		client:   openai.NewClientWithConfig(cfg),
		model:    deployment,
		jsonMode: true,
	}
}

func (m *openAIModel) Complete(ctx context.Context, system string, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	req := openai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    messages,
		MaxTokens:   8192,
		Temperature: 0.1,
	}
	if m.jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", domain.ErrModelResponseEmpty
	}
	return resp.Choices[0].Message.Content, nil
}
