package stage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/callorder-agent/internal/app/stage"
	"github.com/PabloGalante/callorder-agent/internal/domain"
)

func user(text string) domain.Turn {
	return domain.Turn{Role: domain.RoleUser, Text: text}
}

func agent(text string) domain.Turn {
	return domain.Turn{Role: domain.RoleAssistant, Text: text}
}

func repeatTurns(n int) []domain.Turn {
	turns := make([]domain.Turn, n)
	for i := range turns {
		if i%2 == 0 {
			turns[i] = user("hmm")
		} else {
			turns[i] = agent("ok")
		}
	}
	return turns
}

func TestCountClassifierSteps(t *testing.T) {
	c := stage.NewCountClassifier()

	tests := []struct {
		n    int
		want domain.DialogueStage
	}{
		{0, domain.StageOrdering},
		{3, domain.StageOrdering},
		{4, domain.StageFulfillmentSelection},
		{7, domain.StageFulfillmentSelection},
		{8, domain.StageClientInfo},
		{11, domain.StageClientInfo},
		{12, domain.StagePayment},
		{40, domain.StagePayment},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(repeatTurns(tt.n)), "n=%d", tt.n)
	}
}

func TestKeywordClassifierPriority(t *testing.T) {
	c := stage.NewKeywordClassifier()

	tests := []struct {
		name  string
		turns []domain.Turn
		want  domain.DialogueStage
	}{
		{"empty log", nil, domain.StageOrdering},
		{"only user turns", []domain.Turn{user("I want to pay by card")}, domain.StageOrdering},
		{"menu question", []domain.Turn{user("hi"), agent("What would you like?")}, domain.StageOrdering},
		{"fulfillment", []domain.Turn{user("a kebab"), agent("Delivery or takeaway?")}, domain.StageFulfillmentSelection},
		{"client info", []domain.Turn{user("takeaway"), agent("What is your name?")}, domain.StageClientInfo},
		{"payment", []domain.Turn{user("Alex"), agent("Cash or card?")}, domain.StagePayment},
		{"payment beats address", []domain.Turn{agent("Your address, and will you pay cash?")}, domain.StagePayment},
		{"client beats fulfillment", []domain.Turn{agent("For delivery I need your address.")}, domain.StageClientInfo},
		{"french", []domain.Turn{agent("Livraison ou à emporter ?")}, domain.StageFulfillmentSelection},
		{"french payment", []domain.Turn{agent("Vous payez en espèces ou par carte ?")}, domain.StagePayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.turns))
		})
	}
}

func TestKeywordClassifierWindow(t *testing.T) {
	c := stage.NewKeywordClassifierWith(stage.DefaultKeywords(), 1)

	turns := []domain.Turn{
		agent("Cash or card?"),
		user("cash"),
		agent("Great, anything else to add?"),
	}
	// The payment prompt is outside a window of one assistant turn.
	assert.Equal(t, domain.StageOrdering, c.Classify(turns))

	wide := stage.NewKeywordClassifierWith(stage.DefaultKeywords(), 2)
	assert.Equal(t, domain.StagePayment, wide.Classify(turns))
}

func TestKeywordsMatchWholeWords(t *testing.T) {
	c := stage.NewKeywordClassifier()

	// "repay" and "cardinal" must not count as payment words.
	turns := []domain.Turn{agent("The cardinal rule: we repay kindness.")}
	assert.Equal(t, domain.StageOrdering, c.Classify(turns))
}

func TestClassifyIsPure(t *testing.T) {
	turns := []domain.Turn{
		user("a cheeseburger and fries"),
		agent("Delivery or takeaway?"),
		user("delivery"),
		agent("What is your address?"),
	}
	snapshot := append([]domain.Turn(nil), turns...)

	for _, c := range []stage.Classifier{stage.NewCountClassifier(), stage.NewKeywordClassifier()} {
		first := c.Classify(turns)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, c.Classify(turns))
		}
	}
	assert.Equal(t, snapshot, turns)
}

func TestTransitionFinalizedIsAbsorbing(t *testing.T) {
	c := stage.NewKeywordClassifier()
	turns := []domain.Turn{user("bye"), agent("Have a nice day! end_call")}

	assert.Equal(t, domain.StageFinalized, stage.Derive(c, "END_CALL", turns))
	assert.Equal(t, domain.StageFinalized, stage.Transition(c, "END_CALL", domain.StageFinalized, nil))

	// The marker only counts on assistant turns.
	userSaid := []domain.Turn{user("END_CALL")}
	assert.Equal(t, domain.StageOrdering, stage.Derive(c, "END_CALL", userSaid))
}

func TestEmptyLogIsInitialStage(t *testing.T) {
	for _, strategy := range []string{"count", "keyword"} {
		c, err := stage.New(strategy)
		require.NoError(t, err)
		assert.Equal(t, domain.StageOrdering, stage.Derive(c, "END_CALL", nil))
	}
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	_, err := stage.New("astrology")
	assert.Error(t, err)
}
