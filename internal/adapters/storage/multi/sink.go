// Package multi fans a finished call out to several sinks.
package multi

import (
	"context"
	"errors"
	"fmt"

	"github.com/PabloGalante/callorder-agent/internal/domain"
)

// Sink saves to every wrapped sink and reads back from the first one that
// can list. A failing sink never stops the others.
type Sink struct {
	sinks []domain.RecordSink
}

func New(sinks ...domain.RecordSink) *Sink {
	s := &Sink{}
	for _, sink := range sinks {
		if sink != nil {
			s.sinks = append(s.sinks, sink)
		}
	}
	return s
}

func (s *Sink) SaveCall(ctx context.Context, rec *domain.CallRecord) error {
	var errs []error
	for i, sink := range s.sinks {
		if err := sink.SaveCall(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Lister returns the first wrapped sink able to list records, or nil.
func (s *Sink) Lister() domain.RecordLister {
	for _, sink := range s.sinks {
		if l, ok := sink.(domain.RecordLister); ok {
			return l
		}
	}
	return nil
}

func (s *Sink) ListCalls(ctx context.Context, limit int) ([]*domain.CallRecord, error) {
	l := s.Lister()
	if l == nil {
		return nil, nil
	}
	return l.ListCalls(ctx, limit)
}

// Close closes every wrapped sink that holds resources.
func (s *Sink) Close() error {
	var errs []error
	for _, sink := range s.sinks {
		if c, ok := sink.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
