package llm

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"github.com/PabloGalante/callorder-agent/internal/domain"
)

const defaultOpenAIModel = "gpt-4o"

// OpenAIResponder talks to the OpenAI chat completions API, or any
// compatible endpoint when a base URL is given.
type OpenAIResponder struct {
	client *openai.Client
	model  string
}

func NewOpenAIResponder(apiKey, modelName, baseURL string) (*OpenAIResponder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai responder needs an API key")
	}
	if modelName == "" {
		modelName = defaultOpenAIModel
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIResponder{
		client: openai.NewClientWithConfig(config),
		model:  modelName,
	}, nil
}

func (o *OpenAIResponder) Respond(ctx context.Context, req domain.ResponderRequest) (string, error) {
	temperature := float32(defaultTemperature)
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    openAIMessages(req.System, conversation(req)),
		MaxTokens:   defaultMaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return cleanReply("openai", resp.Choices[0].Message.Content)
}

func openAIMessages(system string, msgs []message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs)+1)
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range msgs {
		role := openai.ChatMessageRoleUser
		if m.Role == domain.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Text})
	}
	return out
}
