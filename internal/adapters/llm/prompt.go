package llm

import (
	"strings"

	"github.com/PabloGalante/callorder-agent/internal/domain"
)

// Phone replies are one short sentence; the sampling settings keep them
// terse and predictable.
const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 80
)

// message is a provider-neutral chat message.
type message struct {
	Role domain.Role
	Text string
}

// conversation flattens a request into alternating messages that start with
// the caller and end with the latest utterance. Leading assistant turns are
// dropped and consecutive turns from the same speaker are merged, since some
// providers reject anything else.
func conversation(req domain.ResponderRequest) []message {
	out := make([]message, 0, len(req.History)+1)
	add := func(role domain.Role, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		if len(out) == 0 && role != domain.RoleUser {
			return
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Text += "\n" + text
			return
		}
		out = append(out, message{Role: role, Text: text})
	}

	for _, t := range req.History {
		add(t.Role, t.Text)
	}
	add(domain.RoleUser, req.Latest)
	return out
}

// cleanReply trims the model output and rejects empty replies.
func cleanReply(provider, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", emptyReplyError(provider)
	}
	return text, nil
}

type emptyReplyError string

func (e emptyReplyError) Error() string {
	return string(e) + " returned empty text"
}
