package extract

import (
	"regexp"
	"strings"

	"github.com/PabloGalante/callorder-agent/internal/app/stage"
	"github.com/PabloGalante/callorder-agent/internal/domain"
)

var (
	namePromptRe    = stage.CompileKeywords([]string{"your name", "name", "nom", "who is the order for", "à quel nom"})
	phonePromptRe   = stage.CompileKeywords([]string{"phone", "telephone", "téléphone", "phone number", "numéro"})
	addressPromptRe = stage.CompileKeywords([]string{"address", "adresse", "where should we deliver", "où livrer"})
	paymentPromptRe = stage.CompileKeywords([]string{"pay", "paying", "payment", "cash", "card", "cash or card",
		"paiement", "payer", "régler", "espèces", "par carte", "carte bancaire"})

	voucherRe = stage.CompileKeywords([]string{"voucher", "meal voucher", "ticket", "tickets", "ticket restaurant", "titre-restaurant"})
	cashRe    = stage.CompileKeywords([]string{"cash", "espèces", "especes", "liquide"})
	cardRe    = stage.CompileKeywords([]string{"card", "credit card", "debit card", "carte", "carte bancaire", "cb"})

	deliveryRe = stage.CompileKeywords([]string{"delivery", "deliver", "delivered", "livraison", "livrer", "livré", "livrée"})
	takeawayRe = stage.CompileKeywords([]string{"takeaway", "take away", "take-away", "pick up", "pickup", "collect", "emporter"})
	dineInRe   = stage.CompileKeywords([]string{"dine in", "dine-in", "eat in", "on site", "sur place"})

	phoneRe = regexp.MustCompile(`\+?\d[\d .\-]{6,}\d`)

	nameLeadInRe = regexp.MustCompile(`(?i)^(?:my name is|it's|it is|this is|name's|je m'appelle|c'est|moi c'est)\s+`)
)

type answers struct {
	name    string
	phone   string
	address string
	payment domain.PaymentMethod
}

// walkAnswers pairs each user turn with the assistant turn right before it.
// A prompt asking for a client field captures the answer; later answers
// replace earlier ones. An assistant turn stating a total is a recap, not a
// prompt.
func walkAnswers(turns []domain.Turn) answers {
	var a answers
	for i := 1; i < len(turns); i++ {
		if turns[i].Role != domain.RoleUser || turns[i-1].Role != domain.RoleAssistant {
			continue
		}
		prompt := turns[i-1].Text
		if totalWord.MatchString(prompt) {
			continue
		}
		reply := strings.TrimSpace(turns[i].Text)
		if reply == "" {
			continue
		}

		askedName := namePromptRe.MatchString(prompt)
		askedPhone := phonePromptRe.MatchString(prompt)

		if askedPhone {
			if p := findPhone(reply); p != "" {
				a.phone = p
			} else if !askedName {
				a.phone = reply
			}
		}
		if askedName {
			if name := cleanName(reply); name != "" {
				a.name = name
			}
		}
		if addressPromptRe.MatchString(prompt) {
			a.address = strings.TrimRight(reply, " .")
		}
		if paymentPromptRe.MatchString(prompt) {
			a.payment = mapPayment(reply)
		}
	}
	return a
}

// cleanName strips a phone number and a lead-in like "my name is".
func cleanName(reply string) string {
	reply = phoneRe.ReplaceAllString(reply, "")
	reply = nameLeadInRe.ReplaceAllString(strings.TrimSpace(reply), "")
	return strings.Trim(reply, " ,.;")
}

// mapPayment maps an answer into the closed vocabulary, or keeps it literally.
func mapPayment(reply string) domain.PaymentMethod {
	if p := detectPayment(reply); p != "" {
		return p
	}
	return domain.PaymentMethod(strings.TrimRight(strings.TrimSpace(reply), " ."))
}

// detectPayment returns a known method named in text, or "". Vouchers are
// checked first since "ticket restaurant" answers often mention a card too.
func detectPayment(text string) domain.PaymentMethod {
	switch {
	case voucherRe.MatchString(text):
		return domain.PaymentMealVoucher
	case cashRe.MatchString(text):
		return domain.PaymentCash
	case cardRe.MatchString(text):
		return domain.PaymentCard
	default:
		return ""
	}
}

func findPhone(text string) string {
	m := phoneRe.FindString(text)
	if m == "" {
		return ""
	}
	return strings.NewReplacer(" ", "", ".", "", "-", "").Replace(m)
}

// deliveryMode scans every user turn; the last turn naming exactly one mode wins.
func deliveryMode(turns []domain.Turn) domain.DeliveryMode {
	mode := domain.DeliveryUnknown
	for _, t := range turns {
		if t.Role != domain.RoleUser {
			continue
		}
		if m := detectMode(t.Text); m != domain.DeliveryUnknown {
			mode = m
		}
	}
	return mode
}

// detectMode returns the single mode named in text, or unknown when none or
// several are named.
func detectMode(text string) domain.DeliveryMode {
	var found []domain.DeliveryMode
	if deliveryRe.MatchString(text) {
		found = append(found, domain.DeliveryDelivery)
	}
	if takeawayRe.MatchString(text) {
		found = append(found, domain.DeliveryTakeaway)
	}
	if dineInRe.MatchString(text) {
		found = append(found, domain.DeliveryDineIn)
	}
	if len(found) != 1 {
		return domain.DeliveryUnknown
	}
	return found[0]
}
