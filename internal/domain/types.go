package domain

import "time"

// CallID is the opaque identifier the telephony layer assigns to a call.
type CallID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DialogueStage is the inferred phase of the ordering flow.
// It is always derived from the turn log, never stored.
type DialogueStage string

const (
	StageOrdering             DialogueStage = "ordering"              // Collecting items
	StageFulfillmentSelection DialogueStage = "fulfillment_selection" // Dine-in, takeaway or delivery
	StageClientInfo           DialogueStage = "client_info"           // Name, phone, address
	StagePayment              DialogueStage = "payment"               // Payment method and recap
	StageFinalized            DialogueStage = "finalized"             // Terminal marker observed
)

// Stages lists every stage in flow order.
var Stages = []DialogueStage{
	StageOrdering,
	StageFulfillmentSelection,
	StageClientInfo,
	StagePayment,
	StageFinalized,
}

type Timestamp = time.Time
