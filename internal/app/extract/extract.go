// Package extract rebuilds a structured order from a finished call.
//
// Extraction is best-effort and lossy: it reads back prose that the
// responder itself wrote, following the recap format the system prompt asks
// for. Fields it cannot find stay empty. When the recap does not look like
// the expected shape the order is flagged LowConfidence with the reasons in
// Warnings.
//
// Tie-break policy:
//   - the latest assistant turn with the terminal marker is the recap;
//   - the first "total" splits items from amounts;
//   - for client answers, the last matching prompt wins;
//   - for delivery mode, the last user turn naming exactly one mode wins.
package extract

import (
	"fmt"

	"github.com/PabloGalante/callorder-agent/internal/domain"
	"github.com/PabloGalante/callorder-agent/internal/menu"
)

const (
	warnNoRecap        = "no recap found"
	warnNoTotal        = "no total in recap"
	warnNoItems        = "no items in recap"
	warnListFallback   = "items recovered from list markers"
	warnTotalMismatchF = "recap total %s differs from menu price %s"
)

// Extractor is stateless; one value can serve every call concurrently.
type Extractor struct {
	Marker string
	// Menu is optional. When set, unpriced multiplied items get menu unit
	// prices and the recap total is checked against a menu quote.
	Menu menu.Source
}

func New(marker string, src menu.Source) *Extractor {
	return &Extractor{Marker: marker, Menu: src}
}

// Extract never fails and returns the same order for the same turns.
func (e *Extractor) Extract(turns []domain.Turn) domain.ExtractedOrder {
	order := domain.ExtractedOrder{
		Items:        []domain.OrderItem{},
		DeliveryMode: domain.DeliveryUnknown,
	}
	if len(turns) == 0 {
		return order
	}

	catalog := e.catalog()
	recap, found := findRecap(turns, e.Marker)
	if !found {
		order.Flag(warnNoRecap)
	} else {
		recap = domain.StripMarker(recap, e.Marker)
		itemRegion, totalRegion := splitTotal(recap)

		totals := parseTotals(totalRegion, recap)
		order.Subtotal = totals.subtotal
		order.Total = totals.total
		order.DiscountNote = totals.discountNote
		if order.Total == nil {
			order.Flag(warnNoTotal)
		}

		order.Items = parseItems(cutClosing(itemRegion), catalog)
		if len(order.Items) == 0 {
			if fallback := listFallback(recap); len(fallback) > 0 {
				order.Items = fallback
				order.Flag(warnListFallback)
			} else {
				order.Flag(warnNoItems)
			}
		}
	}

	ans := walkAnswers(turns)
	order.ClientName = ans.name
	order.ClientPhone = ans.phone
	order.ClientAddress = ans.address
	order.PaymentMethod = ans.payment
	order.DeliveryMode = deliveryMode(turns)

	if found {
		if order.PaymentMethod == "" {
			order.PaymentMethod = detectPayment(recap)
		}
		if order.ClientPhone == "" {
			order.ClientPhone = findPhone(recap)
		}
		if order.DeliveryMode == domain.DeliveryUnknown {
			order.DeliveryMode = detectMode(recap)
		}
	}

	if catalog != nil && order.Total != nil && len(order.Items) > 0 {
		q := catalog.Quote(order.Items, order.DeliveryMode)
		if len(q.Unpriced) == 0 && q.Total != *order.Total {
			order.Flag(fmt.Sprintf(warnTotalMismatchF, order.Total, q.Total))
		}
	}

	return order
}

func (e *Extractor) catalog() *menu.Catalog {
	if e.Menu == nil {
		return nil
	}
	return e.Menu.Catalog()
}
