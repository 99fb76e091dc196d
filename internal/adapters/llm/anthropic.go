package llm

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/PabloGalante/callorder-agent/internal/domain"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

type AnthropicResponder struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicResponder(apiKey, modelName string) (*AnthropicResponder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic responder needs an API key")
	}
	if modelName == "" {
		modelName = defaultAnthropicModel
	}
	return &AnthropicResponder{
		client: anthropic.NewClient(apiKey),
		model:  modelName,
	}, nil
}

func (a *AnthropicResponder) Respond(ctx context.Context, req domain.ResponderRequest) (string, error) {
	temperature := float32(defaultTemperature)
	mreq := anthropic.MessagesRequest{
		Model:       anthropic.Model(a.model),
		Messages:    anthropicMessages(conversation(req)),
		MaxTokens:   defaultMaxTokens,
		Temperature: &temperature,
	}
	if req.System != "" {
		mreq.MultiSystem = []anthropic.MessageSystemPart{{Type: "text", Text: req.System}}
	}

	resp, err := a.client.CreateMessages(ctx, mreq)
	if err != nil {
		return "", fmt.Errorf("anthropic create messages: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			b.WriteString(*block.Text)
		}
	}
	return cleanReply("anthropic", b.String())
}

func anthropicMessages(msgs []message) []anthropic.Message {
	out := make([]anthropic.Message, 0, len(msgs))
	for _, m := range msgs {
		role := anthropic.RoleUser
		if m.Role == domain.RoleAssistant {
			role = anthropic.RoleAssistant
		}
		out = append(out, anthropic.Message{
			Role:    role,
			Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Text)},
		})
	}
	return out
}
