package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PabloGalante/callorder-agent/internal/app/stage"
	"github.com/PabloGalante/callorder-agent/internal/domain"
	"github.com/PabloGalante/callorder-agent/internal/menu"
)

const minSegmentLen = 3

type segmentClass int

const (
	classItem segmentClass = iota
	classNoise
	classFiller
	classLogistics
)

var (
	multiplierRe = regexp.MustCompile(`(?i)^(\d{1,2})\s*[x×]\s*(\S.*)$`)
	leadingAndRe = regexp.MustCompile(`(?i)^(?:and|plus|et)\s+`)

	logisticsRe = stage.CompileKeywords([]string{
		// payment
		"pay", "paying", "payment", "cash", "card", "voucher", "meal voucher",
		"paiement", "payer", "espèces", "carte bancaire", "par carte", "ticket restaurant", "cb",
		// client details
		"your name", "name", "nom", "phone", "telephone", "téléphone", "number", "numéro", "address", "adresse",
		// fulfillment
		"delivery", "deliver", "delivered", "takeaway", "take away", "take-away", "pick up", "pickup",
		"collect", "dine in", "dine-in", "eat in", "on site",
		"livraison", "livrer", "livré", "emporter", "sur place",
		// timing
		"minutes", "minute", "min", "mins", "ready", "estimated", "prêt", "prête", "environ",
		// recap framing
		"recap", "summary", "récapitulatif", "résumé", "subtotal", "sous-total",
		"your order", "votre commande", "here is", "here's", "voici",
	})

	fillers = map[string]bool{
		"perfect": true, "great": true, "ok": true, "okay": true, "alright": true, "all right": true,
		"very good": true, "so": true, "well": true, "here you go": true, "your order": true,
		"let me recap": true, "to recap": true,
		"parfait": true, "très bien": true, "d'accord": true, "super": true, "voilà": true,
		"voici": true, "votre commande": true,
	}

	listMarkers = []string{"-", "*", "•"}
)

// segmentClassifiers run in order; the first non-item verdict wins.
var segmentClassifiers = []func(string) segmentClass{
	func(s string) segmentClass {
		if utf8.RuneCountInString(s) < minSegmentLen {
			return classNoise
		}
		return classItem
	},
	func(s string) segmentClass {
		if fillers[normalizeFiller(s)] {
			return classFiller
		}
		return classItem
	},
	func(s string) segmentClass {
		if logisticsRe.MatchString(s) {
			return classLogistics
		}
		return classItem
	},
}

func classifySegment(s string) segmentClass {
	for _, classify := range segmentClassifiers {
		if c := classify(s); c != classItem {
			return c
		}
	}
	return classItem
}

// parseItems turns the item region of a recap into order lines.
func parseItems(region string, catalog *menu.Catalog) []domain.OrderItem {
	var items []domain.OrderItem
	for _, seg := range segments(region) {
		seg = cleanSegment(seg)
		if classifySegment(seg) != classItem {
			continue
		}
		if it, ok := toItem(seg, catalog); ok {
			items = append(items, it)
		}
	}
	return items
}

// segments splits on sentence punctuation and commas. A dot or comma between
// two digits is a decimal separator and does not split.
func segments(s string) []string {
	runes := []rune(s)
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if t := strings.TrimSpace(cur.String()); t != "" {
			out = append(out, t)
		}
		cur.Reset()
	}

	for i, r := range runes {
		switch r {
		case '.', ',':
			if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
				cur.WriteRune(r)
				continue
			}
			flush()
		case '!', '?', ';', '\n', '…':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

// cleanSegment drops a preamble ending in a colon, list markers and a
// leading conjunction.
func cleanSegment(s string) string {
	if i := strings.LastIndex(s, ":"); i >= 0 {
		if rest := strings.TrimSpace(s[i+1:]); rest != "" {
			s = rest
		}
	}
	s = strings.TrimSpace(s)
	for _, m := range listMarkers {
		if strings.HasPrefix(s, m) {
			s = strings.TrimSpace(strings.TrimPrefix(s, m))
			break
		}
	}
	return strings.TrimSpace(leadingAndRe.ReplaceAllString(s, ""))
}

func toItem(seg string, catalog *menu.Catalog) (domain.OrderItem, bool) {
	var it domain.OrderItem

	label := seg
	if m := multiplierRe.FindStringSubmatch(seg); m != nil {
		qty, err := strconv.Atoi(m[1])
		if err == nil && qty > 0 {
			it.Quantity = qty
			label = m[2]
		}
	}

	linePrice, hasPrice := firstPrice(label)
	label = strings.Trim(priceRe.ReplaceAllString(label, ""), " -–:")
	if utf8.RuneCountInString(label) < minSegmentLen {
		return it, false
	}
	it.Label = capitalize(label)

	if it.Quantity > 0 {
		if catalog != nil {
			if p, ok := catalog.PriceOf(label); ok {
				it.UnitPrice = &p
				return it, true
			}
		}
		if hasPrice {
			unit := linePrice / domain.Money(it.Quantity)
			it.UnitPrice = &unit
		}
	}
	return it, true
}

// listFallback reads lines introduced by a list marker, verbatim.
func listFallback(recap string) []domain.OrderItem {
	var items []domain.OrderItem
	for _, line := range strings.Split(recap, "\n") {
		line = strings.TrimSpace(line)
		for _, m := range listMarkers {
			if !strings.HasPrefix(line, m) {
				continue
			}
			if label := strings.TrimSpace(strings.TrimPrefix(line, m)); label != "" {
				items = append(items, domain.OrderItem{Label: label})
			}
			break
		}
	}
	return items
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func normalizeFiller(s string) string {
	s = strings.ToLower(strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}))
	return strings.Join(strings.Fields(s), " ")
}
