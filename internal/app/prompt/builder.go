// Package prompt assembles the instruction payload sent to the responder.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PabloGalante/callorder-agent/internal/domain"
	"github.com/PabloGalante/callorder-agent/internal/menu"
)

const (
	DefaultWindow    = 6
	DefaultDigestCap = 400

	digestSeparator = " | "
	ellipsis        = "..."
)

const rulesTemplate = `You take phone orders for %s (%s), %s.

Goal: collect everything needed to finalize an order.

Collect, in this order, only what is still missing:
1. Items and their options (bread, sauces, size).
2. Dine-in, takeaway or delivery.
3. The caller's name.
4. The caller's phone number.
5. The delivery address, for delivery only.
6. Payment method.
7. A recap of the whole order with the total price and the estimated time.
8. Confirmation, then say goodbye.

Rules:
- Keep answers short, 10 to 15 words.
- Ask ONE question at a time.
- Never repeat a question that was already answered. If the caller gives several details at once, take them all.
- Mention prices ONLY in the final recap.
- Recap format: items separated by commas, then "Total <amount> euros", then name, phone, address if delivery, and payment method.
- When the caller says goodbye or thanks after the recap, answer with a short goodbye followed by %s.
- Never write %s anywhere else.
`

var stageHints = map[domain.DialogueStage]string{
	domain.StageOrdering:             "Take the items. Ask what else they would like, or whether that is all.",
	domain.StageFulfillmentSelection: "Ask whether the order is for dine-in, takeaway or delivery.",
	domain.StageClientInfo:           "Ask for the missing client details: name, phone, and address for delivery.",
	domain.StagePayment:              "Ask how they will pay, then give the recap with the total.",
	domain.StageFinalized:            "The order is complete. Say goodbye.",
}

// Payload is everything the responder receives for one turn.
type Payload struct {
	System      string
	Stage       domain.DialogueStage
	OrderDigest string
	History     []domain.Turn
	Latest      string
}

// Request converts the payload into the responder port's request.
func (p Payload) Request() domain.ResponderRequest {
	return domain.ResponderRequest{
		System:  p.System,
		History: p.History,
		Latest:  p.Latest,
	}
}

// Builder derives payloads from session snapshots. It holds no per-call state.
type Builder struct {
	Menu      menu.Source
	Marker    string
	Window    int
	DigestCap int
}

func NewBuilder(src menu.Source, marker string, window, digestCap int) *Builder {
	if window <= 0 {
		window = DefaultWindow
	}
	if digestCap <= 0 {
		digestCap = DefaultDigestCap
	}
	return &Builder{Menu: src, Marker: marker, Window: window, DigestCap: digestCap}
}

// Build renders the payload for the current stage. The latest user turn is
// sent as Latest; at most Window turns before it are replayed as History and
// older user turns only survive through the order digest. turns is not modified.
func (b *Builder) Build(stage domain.DialogueStage, turns []domain.Turn) Payload {
	latestIdx := -1
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == domain.RoleUser {
			latestIdx = i
			break
		}
	}

	var (
		latest string
		before = turns
	)
	if latestIdx >= 0 {
		latest = turns[latestIdx].Text
		before = turns[:latestIdx]
	}

	start := len(before) - b.Window
	if start < 0 {
		start = 0
	}
	history := append([]domain.Turn(nil), before[start:]...)

	digest := Digest(before, b.DigestCap)

	return Payload{
		System:      b.system(stage, digest),
		Stage:       stage,
		OrderDigest: digest,
		History:     history,
		Latest:      latest,
	}
}

func (b *Builder) system(stage domain.DialogueStage, digest string) string {
	c := b.catalog()

	var s strings.Builder
	fmt.Fprintf(&s, rulesTemplate, c.Info.Name, c.Info.Kind, c.Info.Address, b.Marker, b.Marker)

	s.WriteString("\nMenu:\n")
	s.WriteString(c.Digest())
	s.WriteString("\n")

	fmt.Fprintf(&s, "\nCurrent stage: %s\n", stage)
	if hint, ok := stageHints[stage]; ok {
		s.WriteString(hint)
		s.WriteString("\n")
	}

	if digest != "" {
		fmt.Fprintf(&s, "\nWhat the caller said so far: %s\n", digest)
	}

	return s.String()
}

func (b *Builder) catalog() *menu.Catalog {
	if b.Menu != nil {
		if c := b.Menu.Catalog(); c != nil {
			return c
		}
	}
	return menu.Default()
}

// Digest joins the user turns of turns and truncates the result to limit
// runes, ending with an ellipsis when cut.
func Digest(turns []domain.Turn, limit int) string {
	var parts []string
	for _, t := range turns {
		if t.Role != domain.RoleUser {
			continue
		}
		if text := strings.TrimSpace(t.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return truncate(strings.Join(parts, digestSeparator), limit)
}

func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	if limit <= len(ellipsis) {
		return string(r[:limit])
	}
	return string(r[:limit-len(ellipsis)]) + ellipsis
}
