package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/callorder-agent/internal/app/orders"
	"github.com/PabloGalante/callorder-agent/internal/domain"
	"github.com/PabloGalante/callorder-agent/internal/menu"
)

func priced(id domain.CallID, cents domain.Money, mode domain.DeliveryMode, pay domain.PaymentMethod) *domain.CallRecord {
	return &domain.CallRecord{
		CallID:  id,
		EndedAt: time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC),
		Order: domain.ExtractedOrder{
			DeliveryMode:  mode,
			PaymentMethod: pay,
			ClientName:    "Alex",
			Total:         &cents,
		},
	}
}

func TestPlainListing(t *testing.T) {
	r := newRenderer(false, menu.Default())

	assert.Equal(t, "No orders found\n", r.list("Orders", nil))

	flagged := priced("CA2", 850, domain.DeliveryTakeaway, domain.PaymentCard)
	flagged.Order.LowConfidence = true
	out := r.list("Orders", []*domain.CallRecord{priced("CA1", 1250, domain.DeliveryDineIn, domain.PaymentCash), flagged})

	assert.Contains(t, out, "Orders (2)")
	assert.Contains(t, out, "1. [")
	assert.Contains(t, out, "Alex | dine_in | 12.50 EUR\n")
	assert.Contains(t, out, "takeaway | 8.50 EUR !\n")
	assert.NotContains(t, out, "\x1b[")
}

func TestPlainSummary(t *testing.T) {
	r := newRenderer(false, menu.Default())
	sum := orders.Summarize([]*domain.CallRecord{
		priced("CA1", 1250, domain.DeliveryDineIn, domain.PaymentCash),
		priced("CA2", 850, domain.DeliveryDineIn, domain.PaymentCard),
	})

	out := r.summary(sum, time.Date(2026, 1, 7, 18, 0, 0, 0, time.UTC))
	assert.Contains(t, out, "Total orders:    2")
	assert.Contains(t, out, "Revenue:         21.00 EUR")
	assert.Contains(t, out, "Average basket:  10.50 EUR")
	assert.Contains(t, out, "  dine_in      2")
	assert.Contains(t, out, "  card         1")
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 1, 7, 18, 30, 15, 0, time.Local)

	path, err := writeReport(filepath.Join(dir, "orders"), "report body", now)
	require.NoError(t, err)
	assert.Equal(t, "resume_20260107_183015.txt", filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "report body", string(raw))
}
