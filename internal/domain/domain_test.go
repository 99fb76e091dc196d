package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/callorder-agent/internal/domain"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Money
	}{
		{"12", 1200},
		{"12.5", 1250},
		{"12.50", 1250},
		{"12,50", 1250},
		{" 8.999 ", 899},
		{"0.05", 5},
	}
	for _, tt := range tests {
		got, err := domain.ParseMoney(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "abc", "1.x"} {
		_, err := domain.ParseMoney(bad)
		assert.Error(t, err, bad)
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "12.50", domain.Money(1250).String())
	assert.Equal(t, "0.05", domain.Money(5).String())
	assert.Equal(t, "-1.25", domain.Money(-125).String())
	assert.Equal(t, domain.Money(1125), domain.MoneyFromFloat(11.25))
}

func TestStripMarker(t *testing.T) {
	assert.Equal(t, "Have a nice day!", domain.StripMarker("Have a nice day! END_CALL", "END_CALL"))
	assert.Equal(t, "Bye", domain.StripMarker("end_call Bye", "END_CALL"))
	assert.Equal(t, "no marker", domain.StripMarker(" no marker ", ""))
}

func TestTerminalIndexOnlyCountsAssistantTurns(t *testing.T) {
	turns := []domain.Turn{
		{Role: domain.RoleUser, Text: "END_CALL"},
		{Role: domain.RoleAssistant, Text: "Anything else?"},
		{Role: domain.RoleAssistant, Text: "Bye END_CALL"},
		{Role: domain.RoleUser, Text: "wait"},
	}
	assert.Equal(t, 2, domain.TerminalIndex(turns, "END_CALL"))
	assert.Equal(t, -1, domain.TerminalIndex(turns[:2], "END_CALL"))
	assert.Equal(t, -1, domain.TerminalIndex(turns, ""))
}

func TestMissingAndFlag(t *testing.T) {
	var o domain.ExtractedOrder
	assert.Equal(t, []string{"items", "delivery_mode", "client_name", "client_phone", "payment_method", "total"}, o.Missing())

	total := domain.Money(850)
	o = domain.ExtractedOrder{
		Items:         []domain.OrderItem{{Label: "Classic Burger"}},
		DeliveryMode:  domain.DeliveryDelivery,
		ClientName:    "Alex",
		ClientPhone:   "0600000000",
		PaymentMethod: domain.PaymentCard,
		Total:         &total,
	}
	assert.Equal(t, []string{"client_address"}, o.Missing())

	o.Flag("no recap found")
	assert.True(t, o.LowConfidence)
	assert.Equal(t, []string{"no recap found"}, o.Warnings)
}

func TestSessionClone(t *testing.T) {
	s := domain.Session{Turns: []domain.Turn{{Text: "fries"}}}
	c := s.Clone()
	c.Turns[0].Text = "changed"

	assert.Equal(t, "fries", s.Turns[0].Text)
	assert.True(t, domain.Session{}.Stale())
	assert.True(t, domain.PaymentCash.Known())
	assert.False(t, domain.PaymentMethod("bitcoin").Known())
}
