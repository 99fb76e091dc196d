package extract

import (
	"fmt"
	"regexp"

	"github.com/PabloGalante/callorder-agent/internal/app/stage"
	"github.com/PabloGalante/callorder-agent/internal/domain"
)

var (
	// "total" as a word, but not the tail of "sous-total".
	totalWord = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}\-])(total)(?:[^\p{L}\p{N}]|$)`)

	// An amount next to a currency symbol or word, on either side.
	priceRe = regexp.MustCompile(`(?i)(?:[€$£]\s*(\d+(?:[.,]\d{1,2})?))|(?:(\d+(?:[.,]\d{1,2})?)\s*(?:€|\$|£|euros?\b|eur\b|dollars?\b))`)

	initialRe  = regexp.MustCompile(`(?i)\binitial`)
	afterRe    = regexp.MustCompile(`(?i)after (?:the )?discount|après (?:la )?(?:réduction|remise)`)
	percentRe  = regexp.MustCompile(`(\d{1,3})\s*%`)
	closingRe  = stage.CompileKeywords([]string{
		"thank you", "thanks", "thank", "goodbye", "bye", "have a nice", "have a good", "see you",
		"merci", "au revoir", "bonne journée", "bonne soirée", "à tout à l'heure",
	})
)

// findRecap returns the text of the latest assistant turn carrying the
// marker. When that turn has no total, the latest earlier assistant turn
// that does is the recap instead.
func findRecap(turns []domain.Turn, marker string) (string, bool) {
	idx := domain.TerminalIndex(turns, marker)
	if idx < 0 {
		return "", false
	}

	text := turns[idx].Text
	if totalWord.MatchString(text) {
		return text, true
	}
	for i := idx - 1; i >= 0; i-- {
		if turns[i].Role == domain.RoleAssistant && totalWord.MatchString(turns[i].Text) {
			return turns[i].Text, true
		}
	}
	return text, true
}

// splitTotal cuts the recap at the first "total". The second part is empty
// when there is none.
func splitTotal(recap string) (items, totals string) {
	loc := totalWord.FindStringSubmatchIndex(recap)
	if loc == nil {
		return recap, ""
	}
	return recap[:loc[2]], recap[loc[2]:]
}

type totals struct {
	subtotal     *domain.Money
	total        *domain.Money
	discountNote string
}

// parseTotals reads the amount after "total". An "initial X ... after
// discount Y" pair sets the subtotal and keeps Y as the total.
func parseTotals(region, recap string) totals {
	var out totals
	if region == "" {
		return out
	}

	if i, a := initialRe.FindStringIndex(region), afterRe.FindStringIndex(region); i != nil && a != nil && i[0] < a[0] {
		sub, okSub := firstPrice(region[i[1]:a[0]])
		tot, okTot := firstPrice(region[a[1]:])
		if okSub && okTot {
			out.subtotal = &sub
			out.total = &tot
			out.discountNote = "discount applied"
			if m := percentRe.FindStringSubmatch(recap); m != nil {
				out.discountNote = fmt.Sprintf("-%s%%", m[1])
			}
			return out
		}
	}

	if tot, ok := firstPrice(region); ok {
		out.total = &tot
	}
	return out
}

func firstPrice(s string) (domain.Money, bool) {
	m := priceRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	v, err := domain.ParseMoney(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// cutClosing drops everything from the first thanks or goodbye on.
func cutClosing(region string) string {
	if loc := closingRe.FindStringSubmatchIndex(region); loc != nil {
		return region[:loc[2]]
	}
	return region
}
