package llm

import (
	"Invoice-Service/domain"
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type claudeModel struct {
	client anthropic.Client
	model  string
}

// NewClaude builds the primary model client used by the structuring stage and
// the classifier.
func NewClaude(apiKey, model string) ChatModel {
	return &claudeModel{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (m *claudeModel) Complete(ctx context.Context, system string, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: 8192,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
		params.Temperature = anthropic.Float(0.1)
	}

	message, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(message.Content) == 0 {
		return "", domain.ErrModelResponseEmpty
	}
	return message.Content[0].Text, nil
}
