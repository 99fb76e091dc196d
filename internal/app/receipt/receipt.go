// Package receipt renders the human-readable ticket for a finished call.
package receipt

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/callorder-agent/internal/domain"
	"github.com/PabloGalante/callorder-agent/internal/menu"
)

const (
	NotProvided = "not provided"

	rule      = "=================================================="
	thinRule  = "--------------------------------------------------"
	timestamp = "2006-01-02 15:04:05"
)

var modeLabels = map[domain.DeliveryMode]string{
	domain.DeliveryDineIn:   "Dine-in",
	domain.DeliveryTakeaway: "Takeaway",
	domain.DeliveryDelivery: "Delivery",
}

var paymentLabels = map[domain.PaymentMethod]string{
	domain.PaymentCash:        "Cash",
	domain.PaymentCard:        "Card",
	domain.PaymentMealVoucher: "Meal voucher",
}

// Render lays out the receipt: header, client block, order type, numbered
// items, totals, payment, estimated time and contact footer. A missing
// field prints as "not provided".
func Render(rec *domain.CallRecord, c *menu.Catalog) string {
	if c == nil {
		c = menu.Default()
	}
	o := rec.Order
	var b strings.Builder

	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line(rule)
	line("%s", center(strings.ToUpper(c.Info.Name)))
	if c.Info.Kind != "" {
		line("%s", center(c.Info.Kind))
	}
	line(rule)
	line("Order:    %s", or(rec.OrderID))
	line("Call:     %s", or(string(rec.CallID)))
	if !rec.EndedAt.IsZero() {
		line("Date:     %s", rec.EndedAt.Format(timestamp))
	} else {
		line("Date:     %s", NotProvided)
	}
	line("")

	line("CLIENT")
	line(thinRule)
	line("Name:     %s", or(o.ClientName))
	line("Phone:    %s", or(o.ClientPhone))
	if o.DeliveryMode == domain.DeliveryDelivery {
		line("Address:  %s", or(o.ClientAddress))
	}
	line("")

	mode, ok := modeLabels[o.DeliveryMode]
	if !ok {
		mode = NotProvided
	}
	line("ORDER TYPE: %s", mode)
	line("")

	line("ITEMS")
	line(thinRule)
	if len(o.Items) == 0 {
		line("  %s", NotProvided)
	}
	for i, it := range o.Items {
		line("  %d. %s", i+1, itemLine(it))
	}
	line("")

	line("TOTALS")
	line(thinRule)
	if o.Subtotal != nil {
		line("Subtotal: %s", amount(o.Subtotal))
	}
	if o.DiscountNote != "" {
		line("  Discount: %s", o.DiscountNote)
	}
	line("TOTAL:    %s", amount(o.Total))
	if o.DeliveryMode == domain.DeliveryDelivery && o.Total != nil {
		if ok, reason := c.DeliveryAvailable(*o.Total); !ok {
			line("  Note: %s", reason)
		}
	}
	line("")

	line("PAYMENT:  %s", payment(o.PaymentMethod))
	line("READY IN: %s", or(c.EstimatedTime(o.DeliveryMode)))
	if o.LowConfidence {
		line("")
		line("CHECK WITH CLIENT: %s", strings.Join(o.Warnings, "; "))
	}
	line("")

	line(rule)
	line("%s", center(c.Info.Name))
	line("%s", center(c.Info.Address))
	line("%s", center("Tel: "+or(c.Info.Phone)))
	if c.Info.Email != "" {
		line("%s", center(c.Info.Email))
	}
	if c.Info.Hours != "" {
		line("%s", center(c.Info.Hours))
	}
	line(rule)

	return b.String()
}

func itemLine(it domain.OrderItem) string {
	var s strings.Builder
	if it.Quantity > 0 {
		fmt.Fprintf(&s, "%dx ", it.Quantity)
	}
	s.WriteString(it.Label)
	if it.UnitPrice != nil {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		fmt.Fprintf(&s, " - %s EUR", *it.UnitPrice*domain.Money(qty))
	}
	return s.String()
}

func amount(m *domain.Money) string {
	if m == nil {
		return NotProvided
	}
	return m.String() + " EUR"
}

func payment(p domain.PaymentMethod) string {
	if p == "" {
		return NotProvided
	}
	if label, ok := paymentLabels[p]; ok {
		return label
	}
	return string(p)
}

func or(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotProvided
	}
	return s
}

func center(s string) string {
	pad := (len([]rune(rule)) - len([]rune(s))) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
