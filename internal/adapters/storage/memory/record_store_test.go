package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/callorder-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/callorder-agent/internal/domain"
)

func TestRecordStoreListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecordStore()

	for _, id := range []domain.CallID{"CA1", "CA2", "CA3"} {
		require.NoError(t, store.SaveCall(ctx, &domain.CallRecord{CallID: id}))
	}

	recs, err := store.ListCalls(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, domain.CallID("CA3"), recs[0].CallID)
	assert.Equal(t, domain.CallID("CA2"), recs[1].CallID)

	all, err := store.ListCalls(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.Equal(t, 3, store.Clear())
}

func TestRecordStoreCopiesTurns(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecordStore()

	rec := &domain.CallRecord{CallID: "CA1", Turns: []domain.Turn{{Role: domain.RoleUser, Text: "fries"}}}
	require.NoError(t, store.SaveCall(ctx, rec))
	rec.Turns[0].Text = "changed"

	recs, err := store.ListCalls(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "fries", recs[0].Turns[0].Text)
}
