package domain

import (
	"context"
	"time"
)

// Responder produces the assistant's next utterance. It is a black box:
// typically an LLM, given instructions, recent history and the caller's
// latest words.
type Responder interface {
	Respond(ctx context.Context, req ResponderRequest) (string, error)
}

// ResponderRequest is the instruction payload sent to a Responder.
type ResponderRequest struct {
	System  string
	History []Turn // bounded window, oldest first
	Latest  string // latest caller utterance
}

// SessionStore holds live calls. Operations on one call are atomic with
// respect to each other; operations on different calls never block each other.
type SessionStore interface {
	Append(callID CallID, turn Turn) Session
	Get(callID CallID) (Session, bool)
	Evict(callID CallID)
	// Sweep removes every session with more than maxTurns turns, idle longer
	// than ttl, or no turns at all. Sessions listed in keep are never removed.
	Sweep(now time.Time, maxTurns int, ttl time.Duration, keep ...CallID) []CallID
	Stats() (total, active int)
	Clear() int
}

// RecordSink persists terminated calls.
type RecordSink interface {
	SaveCall(ctx context.Context, rec *CallRecord) error
}

// RecordLister is implemented by sinks that can read back what they stored.
// Records are returned newest first.
type RecordLister interface {
	ListCalls(ctx context.Context, limit int) ([]*CallRecord, error)
}
