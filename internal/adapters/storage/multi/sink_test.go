package multi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/callorder-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/callorder-agent/internal/adapters/storage/multi"
	"github.com/PabloGalante/callorder-agent/internal/domain"
)

type brokenSink struct{ closed bool }

func (b *brokenSink) SaveCall(context.Context, *domain.CallRecord) error {
	return errors.New("broker down")
}

func (b *brokenSink) Close() error {
	b.closed = true
	return nil
}

func TestSaveReachesEverySinkAndJoinsErrors(t *testing.T) {
	ctx := context.Background()
	broken := &brokenSink{}
	records := memory.NewRecordStore()
	sink := multi.New(broken, nil, records)

	err := sink.SaveCall(ctx, &domain.CallRecord{CallID: "CA1", OrderID: "01J"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")

	recs, err := sink.ListCalls(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, domain.CallID("CA1"), recs[0].CallID)

	require.NoError(t, sink.Close())
	assert.True(t, broken.closed)
}

func TestListWithoutListerIsEmpty(t *testing.T) {
	sink := multi.New(&brokenSink{})

	assert.Nil(t, sink.Lister())
	recs, err := sink.ListCalls(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
