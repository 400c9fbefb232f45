package llm

import (
	"context"
)

// ChatModel is a single-turn text completion against one provider. All of the
// extraction and classification stages speak through this so that providers can
// be swapped (and stubbed in tests).
type ChatModel interface {
	Complete(ctx context.Context, system string, prompt string) (string, error)
}
