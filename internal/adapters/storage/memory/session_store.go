package memory

import (
	"sync"
	"time"

	"github.com/PabloGalante/callorder-agent/internal/domain"
)

// SessionStore keeps live calls in process memory.
//
// The index is a sync.Map and every call has its own mutex, so two calls
// never wait on each other while appends to the same call are serialized
// in arrival order. An evicted entry is tombstoned before it leaves the
// index; an Append that lands on a tombstone retries on a fresh entry.
type SessionStore struct {
	sessions sync.Map // domain.CallID -> *sessionEntry
	now      func() time.Time
}

type sessionEntry struct {
	mu      sync.Mutex
	session domain.Session
	dead    bool
}

func NewSessionStore() *SessionStore {
	return &SessionStore{now: time.Now}
}

// NewSessionStoreWithClock is used by tests that need a controlled clock.
func NewSessionStoreWithClock(now func() time.Time) *SessionStore {
	return &SessionStore{now: now}
}

func (s *SessionStore) Append(callID domain.CallID, turn domain.Turn) domain.Session {
	for {
		e := s.entry(callID)

		e.mu.Lock()
		if e.dead {
			e.mu.Unlock()
			continue
		}

		if turn.OccurredAt.IsZero() {
			turn.OccurredAt = s.now()
		}
		// last_activity_at never moves backwards.
		if turn.OccurredAt.Before(e.session.LastActivityAt) {
			turn.OccurredAt = e.session.LastActivityAt
		}
		if e.session.CreatedAt.IsZero() {
			e.session.CreatedAt = turn.OccurredAt
		}

		e.session.Turns = append(e.session.Turns, turn)
		e.session.LastActivityAt = turn.OccurredAt

		snap := e.session.Clone()
		e.mu.Unlock()
		return snap
	}
}

func (s *SessionStore) entry(callID domain.CallID) *sessionEntry {
	if v, ok := s.sessions.Load(callID); ok {
		return v.(*sessionEntry)
	}
	fresh := &sessionEntry{session: domain.Session{CallID: callID}}
	v, _ := s.sessions.LoadOrStore(callID, fresh)
	return v.(*sessionEntry)
}

func (s *SessionStore) Get(callID domain.CallID) (domain.Session, bool) {
	v, ok := s.sessions.Load(callID)
	if !ok {
		return domain.Session{}, false
	}
	e := v.(*sessionEntry)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dead {
		return domain.Session{}, false
	}
	return e.session.Clone(), true
}

func (s *SessionStore) Evict(callID domain.CallID) {
	v, ok := s.sessions.Load(callID)
	if !ok {
		return
	}
	s.kill(callID, v.(*sessionEntry))
}

func (s *SessionStore) kill(callID domain.CallID, e *sessionEntry) {
	e.mu.Lock()
	e.dead = true
	e.mu.Unlock()
	s.sessions.CompareAndDelete(callID, e)
}

func (s *SessionStore) Sweep(now time.Time, maxTurns int, ttl time.Duration, keep ...domain.CallID) []domain.CallID {
	protected := make(map[domain.CallID]struct{}, len(keep))
	for _, id := range keep {
		protected[id] = struct{}{}
	}

	var evicted []domain.CallID
	s.sessions.Range(func(k, v any) bool {
		callID := k.(domain.CallID)
		if _, ok := protected[callID]; ok {
			return true
		}

		e := v.(*sessionEntry)
		e.mu.Lock()
		expired := !e.dead && shouldEvict(e.session, now, maxTurns, ttl)
		if expired {
			e.dead = true
		}
		e.mu.Unlock()

		if expired {
			s.sessions.CompareAndDelete(callID, e)
			evicted = append(evicted, callID)
		}
		return true
	})

	return evicted
}

func shouldEvict(sess domain.Session, now time.Time, maxTurns int, ttl time.Duration) bool {
	n := len(sess.Turns)
	return n == 0 || n > maxTurns || now.Sub(sess.LastActivityAt) > ttl
}

// Stats returns the number of stored sessions and how many hold turns.
func (s *SessionStore) Stats() (total, active int) {
	s.sessions.Range(func(_, v any) bool {
		e := v.(*sessionEntry)
		e.mu.Lock()
		if !e.dead {
			total++
			if len(e.session.Turns) > 0 {
				active++
			}
		}
		e.mu.Unlock()
		return true
	})
	return total, active
}

// Clear evicts every session and returns how many were removed.
func (s *SessionStore) Clear() int {
	n := 0
	s.sessions.Range(func(k, v any) bool {
		s.kill(k.(domain.CallID), v.(*sessionEntry))
		n++
		return true
	})
	return n
}
