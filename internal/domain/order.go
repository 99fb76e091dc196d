package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Money is an amount in cents.
type Money int64

func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%d.%02d", sign, m/100, m%100)
}

// Float returns the amount in currency units.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// MoneyFromFloat rounds a currency amount to cents.
func MoneyFromFloat(v float64) Money {
	if v < 0 {
		return -MoneyFromFloat(-v)
	}
	return Money(v*100 + 0.5)
}

// ParseMoney parses "12", "12.5", "12.50" or "12,50".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	whole, frac, _ := strings.Cut(s, ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}

	var cents int64
	switch len(frac) {
	case 0:
	case 1:
		cents, err = strconv.ParseInt(frac, 10, 64)
		cents *= 10
	default:
		cents, err = strconv.ParseInt(frac[:2], 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}

	return Money(units*100 + cents), nil
}

type DeliveryMode string

const (
	DeliveryUnknown  DeliveryMode = "unknown"
	DeliveryDineIn   DeliveryMode = "dine_in"
	DeliveryTakeaway DeliveryMode = "takeaway"
	DeliveryDelivery DeliveryMode = "delivery"
)

// PaymentMethod holds one of the known methods below, or the caller's
// literal answer when it did not map to any of them.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCard        PaymentMethod = "card"
	PaymentMealVoucher PaymentMethod = "meal_voucher"
)

// Known reports whether the method belongs to the closed vocabulary.
func (p PaymentMethod) Known() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentMealVoucher:
		return true
	}
	return false
}

// OrderItem is one line of an extracted order. Quantity is 0 and UnitPrice
// nil when the recap did not state them.
type OrderItem struct {
	Label     string `json:"label"`
	Quantity  int    `json:"quantity,omitempty"`
	UnitPrice *Money `json:"unit_price,omitempty"`
}

// ExtractedOrder is the best-effort structure recovered from a call's recap.
// It is lossy: fields the recap did not expose are left empty, never guessed.
type ExtractedOrder struct {
	Items         []OrderItem   `json:"items"`
	DeliveryMode  DeliveryMode  `json:"delivery_mode"`
	ClientName    string        `json:"client_name,omitempty"`
	ClientPhone   string        `json:"client_phone,omitempty"`
	ClientAddress string        `json:"client_address,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	Subtotal      *Money        `json:"subtotal,omitempty"`
	DiscountNote  string        `json:"discount_note,omitempty"`
	Total         *Money        `json:"total,omitempty"`

	// LowConfidence flags recaps that did not match any expected shape.
	LowConfidence bool     `json:"low_confidence"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Flag marks the order as low confidence and records why.
func (o *ExtractedOrder) Flag(reason string) {
	o.LowConfidence = true
	o.Warnings = append(o.Warnings, reason)
}

// Missing lists the fields extraction could not populate.
func (o ExtractedOrder) Missing() []string {
	var out []string
	if len(o.Items) == 0 {
		out = append(out, "items")
	}
	if o.DeliveryMode == "" || o.DeliveryMode == DeliveryUnknown {
		out = append(out, "delivery_mode")
	}
	if o.ClientName == "" {
		out = append(out, "client_name")
	}
	if o.ClientPhone == "" {
		out = append(out, "client_phone")
	}
	if o.DeliveryMode == DeliveryDelivery && o.ClientAddress == "" {
		out = append(out, "client_address")
	}
	if o.PaymentMethod == "" {
		out = append(out, "payment_method")
	}
	if o.Total == nil {
		out = append(out, "total")
	}
	return out
}

// CallRecord is what persistence receives when a call terminates.
type CallRecord struct {
	CallID    CallID         `json:"call_id"`
	OrderID   string         `json:"order_id"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at"`
	Turns     []Turn         `json:"conversation"`
	Order     ExtractedOrder `json:"order"`
}
