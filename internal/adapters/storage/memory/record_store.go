package memory

import (
	"context"
	"sync"

	"github.com/PabloGalante/callorder-agent/internal/domain"
)

// RecordStore is an in-memory domain.RecordSink.
// It is NOT persistent and is only suitable for development / local mode.
type RecordStore struct {
	mu      sync.RWMutex
	records []*domain.CallRecord
}

// NewRecordStore creates a new in-memory RecordStore.
func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// SaveCall keeps a copy of the record.
func (s *RecordStore) SaveCall(_ context.Context, rec *domain.CallRecord) error {
	if rec == nil {
		return nil
	}

	cp := *rec
	cp.Turns = append([]domain.Turn(nil), rec.Turns...)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, &cp)
	return nil
}

// ListCalls returns the last `limit` records, newest first.
// If limit <= 0, returns all.
func (s *RecordStore) ListCalls(_ context.Context, limit int) ([]*domain.CallRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// If limit is not valid, use all
	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}

	out := make([]*domain.CallRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Clear drops every record.
func (s *RecordStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.records)
	s.records = nil
	return n
}
