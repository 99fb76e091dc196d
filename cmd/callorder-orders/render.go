package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/PabloGalante/callorder-agent/internal/app/orders"
	"github.com/PabloGalante/callorder-agent/internal/app/receipt"
	"github.com/PabloGalante/callorder-agent/internal/domain"
	"github.com/PabloGalante/callorder-agent/internal/menu"
)

// renderer formats orders for the terminal. Plain output carries no color
// and no box drawing so it can be piped or saved.
type renderer struct {
	pretty  bool
	catalog *menu.Catalog
}

func newRenderer(pretty bool, c *menu.Catalog) *renderer {
	return &renderer{pretty: pretty, catalog: c}
}

func (r *renderer) title(sb *strings.Builder, text string) {
	if r.pretty {
		sb.WriteString(color.CyanString(text) + "\n")
		sb.WriteString(strings.Repeat("─", 60) + "\n")
		return
	}
	sb.WriteString(text + "\n")
}

func (r *renderer) list(title string, recs []*domain.CallRecord) string {
	if len(recs) == 0 {
		return "No orders found\n"
	}

	var sb strings.Builder
	r.title(&sb, fmt.Sprintf("%s (%d)", title, len(recs)))

	for i, rec := range recs {
		o := rec.Order
		when := rec.EndedAt.Local().Format("2006-01-02 15:04")
		total := receipt.NotProvided
		if o.Total != nil {
			total = o.Total.String() + " " + r.currency()
		}
		client := o.ClientName
		if client == "" {
			client = receipt.NotProvided
		}

		mark := ""
		if o.LowConfidence {
			mark = " !"
			if r.pretty {
				mark = " " + color.YellowString("⚠")
			}
		}

		if r.pretty {
			fmt.Fprintf(&sb, "%3d. %s %-20s %-9s %s%s\n",
				i+1, color.HiBlackString(when), client, o.DeliveryMode, color.GreenString(total), mark)
		} else {
			fmt.Fprintf(&sb, "%d. [%s] %s | %s | %s%s\n", i+1, when, client, o.DeliveryMode, total, mark)
		}
	}
	return sb.String()
}

func (r *renderer) summary(sum orders.Summary, now time.Time) string {
	var sb strings.Builder
	r.title(&sb, "Order summary "+now.Format("2006-01-02 15:04"))

	cur := r.currency()
	fmt.Fprintf(&sb, "Total orders:    %d\n", sum.Orders)
	fmt.Fprintf(&sb, "Priced orders:   %d\n", sum.Priced)
	fmt.Fprintf(&sb, "Revenue:         %s %s\n", sum.Revenue, cur)
	fmt.Fprintf(&sb, "Average basket:  %s %s\n", sum.Average, cur)
	fmt.Fprintf(&sb, "To double-check: %d\n", sum.Flagged)

	if len(sum.ByMode) > 0 {
		sb.WriteString("\nBy order type:\n")
		for _, k := range sortedKeys(sum.ByMode) {
			fmt.Fprintf(&sb, "  %-12s %d\n", k, sum.ByMode[domain.DeliveryMode(k)])
		}
	}
	if len(sum.ByPayment) > 0 {
		sb.WriteString("\nBy payment:\n")
		for _, k := range sortedKeys(sum.ByPayment) {
			fmt.Fprintf(&sb, "  %-12s %d\n", k, sum.ByPayment[domain.PaymentMethod(k)])
		}
	}
	return sb.String()
}

func (r *renderer) saved(path string) string {
	if r.pretty {
		return color.GreenString("✓") + " summary saved to " + path
	}
	return "summary saved to " + path
}

func (r *renderer) currency() string {
	if r.catalog == nil || r.catalog.Currency == "" {
		return "EUR"
	}
	return r.catalog.Currency
}

func sortedKeys[K ~string, V any](m map[K]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}
