package call

import "github.com/PabloGalante/callorder-agent/internal/domain"

// Fallbacks are the fixed utterances used when the responder fails.
type Fallbacks struct {
	ByStage map[domain.DialogueStage]string
	Generic string
}

func DefaultFallbacks() Fallbacks {
	return Fallbacks{
		ByStage: map[domain.DialogueStage]string{
			domain.StageOrdering:             "Sorry, I missed that. What would you like to order?",
			domain.StageFulfillmentSelection: "Sorry, a technical problem. Is it for dine-in, takeaway or delivery?",
			domain.StageClientInfo:           "Sorry, a technical problem. Could you repeat your name and phone number?",
			domain.StagePayment:              "Sorry, a technical problem. Will you pay cash or by card?",
		},
		Generic: "Sorry, a technical problem. Could you repeat?",
	}
}

// For returns the stage's fallback, or the generic one.
func (f Fallbacks) For(stage domain.DialogueStage) string {
	if s, ok := f.ByStage[stage]; ok && s != "" {
		return s
	}
	return f.Generic
}
