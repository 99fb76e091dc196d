// Package menu holds the restaurant catalog: identity, dishes, prices and
// service policies. The catalog is static data to the dialogue core; it is
// only rendered into prompts and used to price recaps.
package menu

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/callorder-agent/internal/domain"
)

type Info struct {
	Name        string `yaml:"name" json:"name"`
	Kind        string `yaml:"kind" json:"kind"`
	Address     string `yaml:"address" json:"address"`
	Phone       string `yaml:"phone" json:"phone"`
	Email       string `yaml:"email,omitempty" json:"email,omitempty"`
	Hours       string `yaml:"hours,omitempty" json:"hours,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type Item struct {
	Name  string       `yaml:"name" json:"name"`
	Price domain.Money `yaml:"price_cents" json:"price_cents"`
	Desc  string       `yaml:"desc,omitempty" json:"desc,omitempty"`
}

type Category struct {
	Name  string `yaml:"name" json:"name"`
	Items []Item `yaml:"items" json:"items"`
}

// Combo is a fixed-price set menu.
type Combo struct {
	Name     string       `yaml:"name" json:"name"`
	Price    domain.Money `yaml:"price_cents" json:"price_cents"`
	Contents []string     `yaml:"contents" json:"contents"`
}

type Delivery struct {
	Fee       domain.Money `yaml:"fee_cents" json:"fee_cents"`
	Minimum   domain.Money `yaml:"minimum_cents" json:"minimum_cents"`
	FreeAbove domain.Money `yaml:"free_above_cents" json:"free_above_cents"`
	Time      string       `yaml:"time" json:"time"`
	Zone      string       `yaml:"zone,omitempty" json:"zone,omitempty"`
}

type Takeaway struct {
	DiscountPercent int    `yaml:"discount_percent" json:"discount_percent"`
	Time            string `yaml:"time" json:"time"`
}

type DineIn struct {
	Time string `yaml:"time" json:"time"`
}

type Services struct {
	Delivery Delivery `yaml:"delivery" json:"delivery"`
	Takeaway Takeaway `yaml:"takeaway" json:"takeaway"`
	DineIn   DineIn   `yaml:"dine_in" json:"dine_in"`
}

// Catalog is the full restaurant configuration.
type Catalog struct {
	Info       Info       `yaml:"info" json:"info"`
	Currency   string     `yaml:"currency" json:"currency"`
	Categories []Category `yaml:"categories" json:"categories"`
	Combos     []Combo    `yaml:"combos,omitempty" json:"combos,omitempty"`
	Sauces     []string   `yaml:"sauces,omitempty" json:"sauces,omitempty"`
	Payments   []string   `yaml:"payments" json:"payments"`
	Services   Services   `yaml:"services" json:"services"`
}

// Source hands out the current catalog. Implementations may swap it at runtime.
type Source interface {
	Catalog() *Catalog
}

// Static is a Source that never changes.
type Static struct {
	c *Catalog
}

func NewStatic(c *Catalog) *Static {
	return &Static{c: c}
}

func (s *Static) Catalog() *Catalog {
	return s.c
}

// Digest renders the catalog as compact prompt text, one line per category.
func (c *Catalog) Digest() string {
	var b strings.Builder
	cur := c.currencySymbol()

	for _, cat := range c.Categories {
		parts := make([]string, 0, len(cat.Items))
		for _, it := range cat.Items {
			parts = append(parts, fmt.Sprintf("%s %s%s", it.Name, it.Price, cur))
		}
		fmt.Fprintf(&b, "%s: %s\n", cat.Name, strings.Join(parts, ", "))
	}

	if len(c.Combos) > 0 {
		parts := make([]string, 0, len(c.Combos))
		for _, m := range c.Combos {
			parts = append(parts, fmt.Sprintf("%s %s%s (%s)", m.Name, m.Price, cur, strings.Join(m.Contents, " + ")))
		}
		fmt.Fprintf(&b, "Menus: %s\n", strings.Join(parts, ", "))
	}

	if len(c.Sauces) > 0 {
		fmt.Fprintf(&b, "Sauces: %s\n", strings.Join(c.Sauces, ", "))
	}

	svc := c.Services
	fmt.Fprintf(&b, "Delivery: %s%s fee, %s, minimum %s%s, free above %s%s\n",
		svc.Delivery.Fee, cur, svc.Delivery.Time, svc.Delivery.Minimum, cur, svc.Delivery.FreeAbove, cur)
	fmt.Fprintf(&b, "Takeaway: -%d%%, %s\n", svc.Takeaway.DiscountPercent, svc.Takeaway.Time)
	if svc.DineIn.Time != "" {
		fmt.Fprintf(&b, "Dine-in: %s\n", svc.DineIn.Time)
	}
	if len(c.Payments) > 0 {
		fmt.Fprintf(&b, "Payment: %s\n", strings.Join(c.Payments, ", "))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (c *Catalog) currencySymbol() string {
	switch strings.ToUpper(c.Currency) {
	case "", "EUR":
		return "€"
	case "USD":
		return "$"
	case "GBP":
		return "£"
	default:
		return " " + c.Currency
	}
}

// PriceOf finds the unit price of a dish by name. An exact (case-insensitive)
// name wins; otherwise the longest catalog name contained in the label.
func (c *Catalog) PriceOf(label string) (domain.Money, bool) {
	want := normalize(label)
	if want == "" {
		return 0, false
	}

	var (
		best    domain.Money
		bestLen int
		found   bool
	)
	for _, e := range c.entries() {
		n := normalize(e.name)
		if n == want {
			return e.price, true
		}
		if strings.Contains(want, n) && len(n) > bestLen {
			best, bestLen, found = e.price, len(n), true
		}
	}
	return best, found
}

type entry struct {
	name  string
	price domain.Money
}

// entries lists every dish and combo with its price.
func (c *Catalog) entries() []entry {
	var out []entry
	for _, cat := range c.Categories {
		for _, it := range cat.Items {
			out = append(out, entry{it.Name, it.Price})
		}
	}
	for _, m := range c.Combos {
		out = append(out, entry{m.Name, m.Price})
	}
	return out
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// EstimatedTime returns the announced preparation or delivery time.
func (c *Catalog) EstimatedTime(mode domain.DeliveryMode) string {
	switch mode {
	case domain.DeliveryDelivery:
		return c.Services.Delivery.Time
	case domain.DeliveryTakeaway:
		return c.Services.Takeaway.Time
	case domain.DeliveryDineIn:
		return c.Services.DineIn.Time
	default:
		return ""
	}
}
