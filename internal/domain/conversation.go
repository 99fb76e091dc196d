package domain

import (
	"regexp"
	"strings"
)

// Turn is one utterance in a call, tagged by speaker.
type Turn struct {
	Role       Role      `json:"role"`
	Text       string    `json:"text"`
	OccurredAt Timestamp `json:"occurred_at"`
}

// Session is the accumulated turn log of one call.
// Values handed out by a SessionStore are snapshots: mutating them
// does not affect the store.
type Session struct {
	CallID         CallID    `json:"call_id"`
	Turns          []Turn    `json:"turns"`
	CreatedAt      Timestamp `json:"created_at"`
	LastActivityAt Timestamp `json:"last_activity_at"`
}

// Stale reports whether the session holds no turns.
func (s Session) Stale() bool {
	return len(s.Turns) == 0
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := s
	out.Turns = append([]Turn(nil), s.Turns...)
	return out
}

// ContainsMarker reports whether text carries the terminal marker (case-insensitive).
func ContainsMarker(text, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(marker))
}

// StripMarker removes every case-insensitive occurrence of marker from text
// and trims the surrounding whitespace.
func StripMarker(text, marker string) string {
	if marker == "" {
		return strings.TrimSpace(text)
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(marker))
	return strings.TrimSpace(re.ReplaceAllString(text, ""))
}

// TerminalIndex returns the index of the latest assistant turn carrying
// the marker, or -1.
func TerminalIndex(turns []Turn, marker string) int {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleAssistant && ContainsMarker(turns[i].Text, marker) {
			return i
		}
	}
	return -1
}
