// Package stage infers which phase of the ordering flow a call is in.
//
// Every classifier is a pure function of the turn log: replaying a saved
// transcript always yields the same stage.
package stage

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PabloGalante/callorder-agent/internal/domain"
)

// Classifier maps a turn log to a stage.
type Classifier interface {
	Classify(turns []domain.Turn) domain.DialogueStage
}

// New builds the classifier named by strategy ("count" or "keyword").
func New(strategy string) (Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "count":
		return NewCountClassifier(), nil
	case "keyword", "":
		return NewKeywordClassifier(), nil
	default:
		return nil, fmt.Errorf("unknown stage strategy %q", strategy)
	}
}

// Transition computes the next stage. Finalized is absorbing and is entered
// as soon as an assistant turn carries the terminal marker; otherwise the
// classifier decides.
func Transition(c Classifier, marker string, prev domain.DialogueStage, turns []domain.Turn) domain.DialogueStage {
	if prev == domain.StageFinalized {
		return domain.StageFinalized
	}
	if domain.TerminalIndex(turns, marker) >= 0 {
		return domain.StageFinalized
	}
	return c.Classify(turns)
}

// Derive recomputes the stage from scratch.
func Derive(c Classifier, marker string, turns []domain.Turn) domain.DialogueStage {
	return Transition(c, marker, domain.StageOrdering, turns)
}

// CountClassifier is a step function of the number of turns. It ignores content.
type CountClassifier struct {
	// Thresholds are the turn counts at which fulfillment_selection,
	// client_info and payment begin.
	Thresholds [3]int
}

func NewCountClassifier() *CountClassifier {
	return &CountClassifier{Thresholds: [3]int{4, 8, 12}}
}

func (c *CountClassifier) Classify(turns []domain.Turn) domain.DialogueStage {
	n := len(turns)
	switch {
	case n >= c.Thresholds[2]:
		return domain.StagePayment
	case n >= c.Thresholds[1]:
		return domain.StageClientInfo
	case n >= c.Thresholds[0]:
		return domain.StageFulfillmentSelection
	default:
		return domain.StageOrdering
	}
}

// Keywords holds the vocabulary the KeywordClassifier looks for.
type Keywords struct {
	Payment     []string
	ClientInfo  []string
	Fulfillment []string
}

// DefaultKeywords covers English and the French phrasing Family Food
// callers use.
func DefaultKeywords() Keywords {
	return Keywords{
		Payment: []string{
			"pay", "paying", "payment", "cash", "card", "meal voucher",
			"paiement", "payer", "espèces", "par carte", "carte bancaire", "ticket restaurant",
		},
		ClientInfo: []string{
			"your name", "name for the order", "phone", "phone number", "address",
			"votre nom", "nom", "téléphone", "numéro", "adresse",
		},
		Fulfillment: []string{
			"delivery", "deliver", "takeaway", "take away", "pick up", "pickup", "dine in", "eat in", "on site",
			"livraison", "livrer", "emporter", "sur place",
		},
	}
}

// KeywordClassifier inspects the last Window assistant turns. Categories are
// checked in a fixed priority order, payment then client_info then
// fulfillment_selection, and the first category with a hit wins.
type KeywordClassifier struct {
	Window int

	payment     *regexp.Regexp
	clientInfo  *regexp.Regexp
	fulfillment *regexp.Regexp
}

func NewKeywordClassifier() *KeywordClassifier {
	return NewKeywordClassifierWith(DefaultKeywords(), 2)
}

func NewKeywordClassifierWith(kw Keywords, window int) *KeywordClassifier {
	if window <= 0 {
		window = 2
	}
	return &KeywordClassifier{
		Window:      window,
		payment:     CompileKeywords(kw.Payment),
		clientInfo:  CompileKeywords(kw.ClientInfo),
		fulfillment: CompileKeywords(kw.Fulfillment),
	}
}

func (c *KeywordClassifier) Classify(turns []domain.Turn) domain.DialogueStage {
	var recent []string
	for i := len(turns) - 1; i >= 0 && len(recent) < c.Window; i-- {
		if turns[i].Role == domain.RoleAssistant {
			recent = append(recent, turns[i].Text)
		}
	}
	if len(recent) == 0 {
		return domain.StageOrdering
	}

	text := strings.ToLower(strings.Join(recent, "\n"))
	switch {
	case matches(c.payment, text):
		return domain.StagePayment
	case matches(c.clientInfo, text):
		return domain.StageClientInfo
	case matches(c.fulfillment, text):
		return domain.StageFulfillmentSelection
	default:
		return domain.StageOrdering
	}
}

func matches(re *regexp.Regexp, text string) bool {
	return re != nil && re.MatchString(text)
}

// CompileKeywords builds a case-insensitive whole-word alternation. The
// matched keyword is submatch 1. It returns nil for an empty list.
func CompileKeywords(words []string) *regexp.Regexp {
	if len(words) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(w)))
	}
	if len(quoted) == 0 {
		return nil
	}
	// \b is ASCII-only in RE2, so word edges are spelled out to work with accents.
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(` + strings.Join(quoted, "|") + `)(?:$|[^\p{L}\p{N}])`)
}
