package receipt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/callorder-agent/internal/app/receipt"
	"github.com/PabloGalante/callorder-agent/internal/domain"
	"github.com/PabloGalante/callorder-agent/internal/menu"
)

func money(v domain.Money) *domain.Money { return &v }

func TestRenderFullOrder(t *testing.T) {
	rec := &domain.CallRecord{
		CallID:  "CA42",
		OrderID: "01J0000000000000000000TEST",
		EndedAt: time.Date(2026, 1, 7, 19, 30, 0, 0, time.UTC),
		Order: domain.ExtractedOrder{
			Items: []domain.OrderItem{
				{Label: "Tacos XXL", Quantity: 2, UnitPrice: money(1200)},
				{Label: "Frites"},
			},
			DeliveryMode:  domain.DeliveryTakeaway,
			ClientName:    "Sam",
			ClientPhone:   "0600000000",
			PaymentMethod: domain.PaymentCard,
			Subtotal:      money(2750),
			DiscountNote:  "-10%",
			Total:         money(2475),
		},
	}

	out := receipt.Render(rec, menu.Default())

	assert.Contains(t, out, "FAMILY FOOD")
	assert.Contains(t, out, "Order:    01J0000000000000000000TEST")
	assert.Contains(t, out, "Date:     2026-01-07 19:30:00")
	assert.Contains(t, out, "Name:     Sam")
	assert.NotContains(t, out, "Address:")
	assert.Contains(t, out, "ORDER TYPE: Takeaway")
	assert.Contains(t, out, "  1. 2x Tacos XXL - 24.00 EUR")
	assert.Contains(t, out, "  2. Frites")
	assert.Contains(t, out, "Subtotal: 27.50 EUR")
	assert.Contains(t, out, "  Discount: -10%")
	assert.Contains(t, out, "TOTAL:    24.75 EUR")
	assert.Contains(t, out, "PAYMENT:  Card")
	assert.Contains(t, out, "READY IN: 15-20 minutes")
	assert.Contains(t, out, "Tel: +33939037161")
	assert.NotContains(t, out, receipt.NotProvided)

	// Sections come in a fixed order.
	order := []string{"FAMILY FOOD", "CLIENT", "ORDER TYPE", "ITEMS", "TOTALS", "PAYMENT", "READY IN", "contact@familyfood.fr"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		assert.Greater(t, idx, last, marker)
		last = idx
	}
}

func TestRenderMissingFields(t *testing.T) {
	rec := &domain.CallRecord{
		CallID: "CA1",
		Order: domain.ExtractedOrder{
			DeliveryMode:  domain.DeliveryDelivery,
			LowConfidence: true,
			Warnings:      []string{"no recap found"},
		},
	}

	out := receipt.Render(rec, nil)

	assert.Contains(t, out, "Name:     not provided")
	assert.Contains(t, out, "Phone:    not provided")
	assert.Contains(t, out, "Address:  not provided")
	assert.Contains(t, out, "Order:    not provided")
	assert.Contains(t, out, "Date:     not provided")
	assert.Contains(t, out, "  not provided")
	assert.Contains(t, out, "TOTAL:    not provided")
	assert.Contains(t, out, "PAYMENT:  not provided")
	assert.Contains(t, out, "READY IN: 25-35 minutes")
	assert.Contains(t, out, "CHECK WITH CLIENT: no recap found")
	assert.NotContains(t, out, "Subtotal")
	assert.NotContains(t, out, "Discount")
}

func TestRenderDeliveryBelowMinimum(t *testing.T) {
	rec := &domain.CallRecord{
		Order: domain.ExtractedOrder{
			DeliveryMode:  domain.DeliveryDelivery,
			ClientAddress: "12 rue des Lilas",
			Total:         money(800),
			PaymentMethod: "bitcoin",
		},
	}

	out := receipt.Render(rec, menu.Default())

	assert.Contains(t, out, "Address:  12 rue des Lilas")
	assert.Contains(t, out, "Note: minimum order for delivery is 12.00€")
	assert.Contains(t, out, "PAYMENT:  bitcoin")
}
