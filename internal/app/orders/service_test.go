package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/callorder-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/callorder-agent/internal/app/orders"
	"github.com/PabloGalante/callorder-agent/internal/domain"
)

func money(v domain.Money) *domain.Money { return &v }

var day = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

func seed(t *testing.T) *memory.RecordStore {
	t.Helper()
	ctx := context.Background()
	store := memory.NewRecordStore()

	recs := []*domain.CallRecord{
		{CallID: "CA1", EndedAt: day.Add(-24 * time.Hour), Order: domain.ExtractedOrder{Total: money(1250), DeliveryMode: domain.DeliveryTakeaway, PaymentMethod: domain.PaymentCash}},
		{CallID: "CA2", EndedAt: day.Add(-time.Hour), Order: domain.ExtractedOrder{Total: money(2000), DeliveryMode: domain.DeliveryDelivery, PaymentMethod: domain.PaymentCard}},
		{CallID: "CA3", EndedAt: day, Order: domain.ExtractedOrder{DeliveryMode: domain.DeliveryUnknown, LowConfidence: true}},
	}
	for _, r := range recs {
		require.NoError(t, store.SaveCall(ctx, r))
	}
	return store
}

func TestListRecentAndLatest(t *testing.T) {
	ctx := context.Background()
	svc := orders.NewService(seed(t))

	recs, err := svc.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, domain.CallID("CA3"), recs[0].CallID)

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CallID("CA3"), latest.CallID)
}

func TestToday(t *testing.T) {
	svc := orders.NewService(seed(t))
	svc.SetClock(func() time.Time { return day })

	recs, err := svc.Today(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestSummary(t *testing.T) {
	svc := orders.NewService(seed(t))

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Orders)
	assert.Equal(t, 2, sum.Priced)
	assert.Equal(t, domain.Money(3250), sum.Revenue)
	assert.Equal(t, domain.Money(1625), sum.Average)
	assert.Equal(t, 1, sum.Flagged)
	assert.Equal(t, 1, sum.ByPayment[domain.PaymentCard])
	assert.Equal(t, 1, sum.ByMode[domain.DeliveryUnknown])
}

func TestNilStore(t *testing.T) {
	ctx := context.Background()
	svc := orders.NewService(nil)

	assert.False(t, svc.Available())
	recs, err := svc.ListRecent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, recs)

	_, err = svc.Latest(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
