// Package orders reads back finished calls for the admin API and the viewer CLI.
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/callorder-agent/internal/domain"
)

const defaultLimit = 20

// Service holds the logic of reading saved call records.
type Service struct {
	store domain.RecordLister
	now   func() time.Time
}

// NewService creates an orders service. A nil store yields empty listings.
func NewService(store domain.RecordLister) *Service {
	return &Service{store: store, now: time.Now}
}

// SetClock replaces the time source used by Today.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Available reports whether the configured storage can be read back.
func (s *Service) Available() bool {
	return s.store != nil
}

// ListRecent returns the last limit records, newest first.
// If limit <= 0, a reasonable default value is used.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*domain.CallRecord, error) {
	if s.store == nil {
		return []*domain.CallRecord{}, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	recs, err := s.store.ListCalls(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	return recs, nil
}

// All returns every stored record, newest first.
func (s *Service) All(ctx context.Context) ([]*domain.CallRecord, error) {
	if s.store == nil {
		return []*domain.CallRecord{}, nil
	}
	recs, err := s.store.ListCalls(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	return recs, nil
}

// Latest returns the most recent record, or domain.ErrSessionNotFound when
// nothing was saved yet.
func (s *Service) Latest(ctx context.Context) (*domain.CallRecord, error) {
	recs, err := s.ListRecent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, domain.ErrSessionNotFound
	}
	return recs[0], nil
}

// Today returns the records that ended on the current local day.
func (s *Service) Today(ctx context.Context) ([]*domain.CallRecord, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	y, m, d := s.now().Date()
	var out []*domain.CallRecord
	for _, r := range all {
		ry, rm, rd := r.EndedAt.In(s.now().Location()).Date()
		if ry == y && rm == m && rd == d {
			out = append(out, r)
		}
	}
	return out, nil
}

// Summary aggregates a set of records.
type Summary struct {
	Orders    int                          `json:"orders"`
	Priced    int                          `json:"priced"`
	Revenue   domain.Money                 `json:"revenue_cents"`
	Average   domain.Money                 `json:"average_cents"`
	ByMode    map[domain.DeliveryMode]int  `json:"by_mode"`
	ByPayment map[domain.PaymentMethod]int `json:"by_payment"`
	Flagged   int                          `json:"low_confidence"`
}

// Summarize counts orders and sums the totals that were extracted. The
// average basket only covers orders with a total.
func Summarize(recs []*domain.CallRecord) Summary {
	sum := Summary{
		ByMode:    map[domain.DeliveryMode]int{},
		ByPayment: map[domain.PaymentMethod]int{},
	}
	for _, r := range recs {
		sum.Orders++
		sum.ByMode[r.Order.DeliveryMode]++
		if r.Order.PaymentMethod != "" {
			sum.ByPayment[r.Order.PaymentMethod]++
		}
		if r.Order.LowConfidence {
			sum.Flagged++
		}
		if r.Order.Total != nil {
			sum.Priced++
			sum.Revenue += *r.Order.Total
		}
	}
	if sum.Priced > 0 {
		sum.Average = sum.Revenue / domain.Money(sum.Priced)
	}
	return sum
}

// Summary aggregates every stored record.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	all, err := s.All(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(all), nil
}
