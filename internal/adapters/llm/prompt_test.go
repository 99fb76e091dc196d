package llm

import (
	"context"
	"testing"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/meguminnnnnnnnn/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/PabloGalante/callorder-agent/internal/config"
	"github.com/PabloGalante/callorder-agent/internal/domain"
)

func turn(role domain.Role, text string) domain.Turn {
	return domain.Turn{Role: role, Text: text}
}

func TestConversationAlternatesAndEndsWithLatest(t *testing.T) {
	req := domain.ResponderRequest{
		System: "rules",
		History: []domain.Turn{
			turn(domain.RoleAssistant, "Hello, I'm listening."),
			turn(domain.RoleUser, "a burger"),
			turn(domain.RoleUser, "and fries"),
			turn(domain.RoleAssistant, "Anything else?"),
			turn(domain.RoleAssistant, "   "),
		},
		Latest: "no thanks",
	}

	msgs := conversation(req)
	require.Len(t, msgs, 3)
	assert.Equal(t, message{Role: domain.RoleUser, Text: "a burger\nand fries"}, msgs[0])
	assert.Equal(t, message{Role: domain.RoleAssistant, Text: "Anything else?"}, msgs[1])
	assert.Equal(t, message{Role: domain.RoleUser, Text: "no thanks"}, msgs[2])
}

func TestConversationMergesLatestIntoTrailingUserTurn(t *testing.T) {
	msgs := conversation(domain.ResponderRequest{
		History: []domain.Turn{turn(domain.RoleUser, "hello")},
		Latest:  "tacos please",
	})
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello\ntacos please", msgs[0].Text)
}

func TestProviderMessages(t *testing.T) {
	msgs := []message{
		{Role: domain.RoleUser, Text: "fries"},
		{Role: domain.RoleAssistant, Text: "Anything else?"},
		{Role: domain.RoleUser, Text: "no"},
	}

	oa := openAIMessages("rules", msgs)
	require.Len(t, oa, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, oa[0].Role)
	assert.Equal(t, "rules", oa[0].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, oa[2].Role)
	assert.Len(t, openAIMessages("", msgs), 3)

	an := anthropicMessages(msgs)
	require.Len(t, an, 3)
	assert.Equal(t, anthropic.RoleUser, an[0].Role)
	assert.Equal(t, anthropic.RoleAssistant, an[1].Role)

	vx := vertexContents(msgs)
	require.Len(t, vx, 3)
	assert.Equal(t, genai.Role(genai.RoleModel), genai.Role(vx[1].Role))
}

func TestCleanReply(t *testing.T) {
	got, err := cleanReply("openai", "  Anything else?\n")
	require.NoError(t, err)
	assert.Equal(t, "Anything else?", got)

	_, err = cleanReply("openai", " \n ")
	assert.EqualError(t, err, "openai returned empty text")
}

func TestFactory(t *testing.T) {
	ctx := context.Background()

	r, err := New(ctx, &config.Config{Responder: "mock", EndMarker: "END_CALL"})
	require.NoError(t, err)
	assert.IsType(t, &MockResponder{}, r)

	_, err = New(ctx, &config.Config{Responder: "openai"})
	assert.Error(t, err, "missing API key")

	r, err = New(ctx, &config.Config{Responder: "anthropic", AnthropicAPIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicResponder{}, r)

	r, err = New(ctx, &config.Config{Responder: "openai", OpenAIAPIKey: "sk-test", OpenAIBaseURL: "http://localhost:1234/v1"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIResponder{}, r)

	_, err = New(ctx, &config.Config{Responder: "oracle"})
	assert.Error(t, err)
}

func TestMockResponderScriptThenGoodbye(t *testing.T) {
	ctx := context.Background()
	m := NewMockResponder("END_CALL", "Anything else?")

	got, err := m.Respond(ctx, domain.ResponderRequest{Latest: "fries"})
	require.NoError(t, err)
	assert.Equal(t, "Anything else?", got)

	got, err = m.Respond(ctx, domain.ResponderRequest{Latest: "tacos"})
	require.NoError(t, err)
	assert.Equal(t, `Noted: "tacos". Anything else?`, got)

	got, err = m.Respond(ctx, domain.ResponderRequest{Latest: "Merci, au revoir"})
	require.NoError(t, err)
	assert.Contains(t, got, "END_CALL")

	assert.Len(t, m.Calls(), 3)
}
