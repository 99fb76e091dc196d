package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/callorder-agent/internal/domain"
)

// MockResponder replays a script of replies in order. Once the script is
// exhausted it acknowledges the caller, and ends the call on a goodbye.
type MockResponder struct {
	Marker string
	Delay  time.Duration
	Err    error

	mu     sync.Mutex
	script []string
	next   int
	calls  []domain.ResponderRequest
}

func NewMockResponder(marker string, script ...string) *MockResponder {
	return &MockResponder{Marker: marker, script: script}
}

func (m *MockResponder) Respond(ctx context.Context, req domain.ResponderRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	var reply string
	scripted := m.next < len(m.script)
	if scripted {
		reply = m.script[m.next]
		m.next++
	}
	m.mu.Unlock()

	if m.Delay > 0 {
		t := time.NewTimer(m.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	if scripted {
		return reply, nil
	}

	latest := strings.ToLower(req.Latest)
	for _, bye := range []string{"bye", "thank", "merci", "au revoir"} {
		if strings.Contains(latest, bye) {
			return "Have a nice day! " + m.Marker, nil
		}
	}
	return fmt.Sprintf("Noted: %q. Anything else?", req.Latest), nil
}

// Calls returns every request received so far.
func (m *MockResponder) Calls() []domain.ResponderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ResponderRequest(nil), m.calls...)
}
