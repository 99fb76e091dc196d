package menu

import (
	"github.com/PabloGalante/callorder-agent/internal/domain"
)

// Quote is the menu price of a set of items for a service mode.
type Quote struct {
	Subtotal    domain.Money
	Discount    domain.Money
	DeliveryFee domain.Money
	Total       domain.Money

	// Unpriced lists labels that matched no catalog entry and carried no price.
	Unpriced []string
}

// Quote prices items against the catalog. Items without a quantity count
// once. Takeaway gets the percentage discount; delivery adds the fee unless
// the subtotal reaches the free-delivery threshold.
func (c *Catalog) Quote(items []domain.OrderItem, mode domain.DeliveryMode) Quote {
	var q Quote

	for _, it := range items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}

		var unit domain.Money
		switch {
		case it.UnitPrice != nil:
			unit = *it.UnitPrice
		default:
			p, ok := c.PriceOf(it.Label)
			if !ok {
				q.Unpriced = append(q.Unpriced, it.Label)
				continue
			}
			unit = p
		}
		q.Subtotal += unit * domain.Money(qty)
	}

	switch mode {
	case domain.DeliveryTakeaway:
		pct := domain.Money(c.Services.Takeaway.DiscountPercent)
		q.Discount = (q.Subtotal*pct + 50) / 100
	case domain.DeliveryDelivery:
		free := c.Services.Delivery.FreeAbove
		if free <= 0 || q.Subtotal < free {
			q.DeliveryFee = c.Services.Delivery.Fee
		}
	}

	q.Total = q.Subtotal - q.Discount + q.DeliveryFee
	return q
}

// DeliveryAvailable reports whether an order amount reaches the delivery
// minimum, with the reason when it does not.
func (c *Catalog) DeliveryAvailable(total domain.Money) (bool, string) {
	minimum := c.Services.Delivery.Minimum
	if total < minimum {
		return false, "minimum order for delivery is " + minimum.String() + c.currencySymbol()
	}
	return true, "delivery available"
}
