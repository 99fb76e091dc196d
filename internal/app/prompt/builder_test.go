package prompt_test

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/callorder-agent/internal/app/prompt"
	"github.com/PabloGalante/callorder-agent/internal/domain"
	"github.com/PabloGalante/callorder-agent/internal/menu"
)

func conversation(n int) []domain.Turn {
	turns := make([]domain.Turn, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			turns = append(turns, domain.Turn{Role: domain.RoleUser, Text: fmt.Sprintf("user %d", i)})
		} else {
			turns = append(turns, domain.Turn{Role: domain.RoleAssistant, Text: fmt.Sprintf("agent %d", i)})
		}
	}
	return turns
}

func newBuilder() *prompt.Builder {
	return prompt.NewBuilder(menu.NewStatic(menu.Default()), "END_CALL", 6, 400)
}

func TestBuildSplitsLatestFromHistory(t *testing.T) {
	turns := conversation(11) // ends on user 10

	p := newBuilder().Build(domain.StageOrdering, turns)

	assert.Equal(t, "user 10", p.Latest)
	require.Len(t, p.History, 6)
	assert.Equal(t, "user 4", p.History[0].Text)
	assert.Equal(t, "agent 9", p.History[5].Text)
}

func TestBuildShortLogReplaysEverything(t *testing.T) {
	turns := conversation(3)

	p := newBuilder().Build(domain.StageOrdering, turns)

	assert.Equal(t, "user 2", p.Latest)
	require.Len(t, p.History, 2)
	assert.Equal(t, "user 0", p.History[0].Text)
}

func TestBuildWithoutUserTurn(t *testing.T) {
	p := newBuilder().Build(domain.StageOrdering, nil)

	assert.Empty(t, p.Latest)
	assert.Empty(t, p.History)
	assert.Empty(t, p.OrderDigest)
	assert.NotEmpty(t, p.System)
}

func TestDigestCoversOnlyPriorUserTurns(t *testing.T) {
	turns := conversation(5)

	p := newBuilder().Build(domain.StageOrdering, turns)

	assert.Equal(t, "user 0 | user 2", p.OrderDigest)
}

func TestDigestTruncation(t *testing.T) {
	long := strings.Repeat("é", 50)
	turns := []domain.Turn{
		{Role: domain.RoleUser, Text: long},
		{Role: domain.RoleAssistant, Text: "ok"},
		{Role: domain.RoleUser, Text: long},
	}

	d := prompt.Digest(turns, 20)
	assert.Equal(t, 20, utf8.RuneCountInString(d))
	assert.True(t, strings.HasSuffix(d, "..."))

	assert.Equal(t, long, prompt.Digest(turns[:1], 50))
	assert.Equal(t, "éé", prompt.Digest(turns[:1], 2))
}

func TestSystemCarriesRulesMenuAndStage(t *testing.T) {
	turns := []domain.Turn{
		{Role: domain.RoleUser, Text: "a cheeseburger"},
		{Role: domain.RoleAssistant, Text: "Anything else?"},
		{Role: domain.RoleUser, Text: "fries"},
	}

	p := newBuilder().Build(domain.StagePayment, turns)

	assert.Equal(t, domain.StagePayment, p.Stage)
	assert.Contains(t, p.System, "Family Food")
	assert.Contains(t, p.System, "ONE question at a time")
	assert.Contains(t, p.System, "Cheeseburger 9.00€")
	assert.Contains(t, p.System, "Current stage: payment")
	assert.Contains(t, p.System, "END_CALL")
	assert.Contains(t, p.System, "What the caller said so far: a cheeseburger")
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	turns := conversation(9)
	snapshot := append([]domain.Turn(nil), turns...)

	p := newBuilder().Build(domain.StageClientInfo, turns)
	p.History[0].Text = "changed"

	assert.Equal(t, snapshot, turns)
}

func TestRequestCopiesPayload(t *testing.T) {
	p := newBuilder().Build(domain.StageOrdering, conversation(3))
	req := p.Request()

	assert.Equal(t, p.System, req.System)
	assert.Equal(t, p.Latest, req.Latest)
	assert.Equal(t, p.History, req.History)
}
