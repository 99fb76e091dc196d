package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/callorder-agent/internal/domain"
)

const defaultVertexModel = "gemini-2.5-flash"

type VertexResponder struct {
	client    *genai.Client
	modelName string
}

// NewVertexResponder creates a Responder backed by Vertex AI (Gemini).
func NewVertexResponder(ctx context.Context, projectID, location, modelName string) (*VertexResponder, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("vertex responder needs a project and a location")
	}
	if modelName == "" {
		modelName = defaultVertexModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexResponder{
		client:    client,
		modelName: modelName,
	}, nil
}

// Respond implements domain.Responder using Vertex AI.
func (v *VertexResponder) Respond(ctx context.Context, req domain.ResponderRequest) (string, error) {
	contents := vertexContents(conversation(req))

	temp := float32(defaultTemperature)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   int32(defaultMaxTokens),
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("vertex generate content: %w", err)
	}

	return cleanReply("vertex", res.Text())
}

func vertexContents(msgs []message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := genai.Role(genai.RoleUser)
		if m.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	return contents
}
