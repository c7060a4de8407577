// internal/domain/cart/entity.go
package cart

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/bookstore-backend/internal/domain/pricing"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
)

// MaxLineQuantity caps the copies of one title in a cart.
const MaxLineQuantity = 999

// Line is one title in a cart. Price is the unit price captured when the title was first added.
type Line struct {
	Title   string          `json:"title"`
	Price   decimal.Decimal `json:"price"`
	Qty     int             `json:"quantity"`
	AddedAt time.Time       `json:"added_at"`
}

func (l Line) UnitPrice() decimal.Decimal { return l.Price }
func (l Line) Quantity() int              { return l.Qty }
func (l Line) Label() string              { return l.Title }

// Cart is a per-session cart keyed by title. Lines keep insertion order.
type Cart struct {
	SessionID string    `json:"session_id"`
	Items     []Line    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an empty cart for a session.
func New(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Items: []Line{}}
}

func (c *Cart) find(title string) int {
	for i := range c.Items {
		if c.Items[i].Title == title {
			return i
		}
	}
	return -1
}

// Add creates a line or increments an existing one. Repeated adds are cumulative.
func (c *Cart) Add(title string, price decimal.Decimal, qty int) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return apperr.Invalid("title", "is required")
	}
	if price.IsNegative() {
		return apperr.Invalid("price", "must be non-negative")
	}
	if qty < 1 {
		return apperr.Invalid("quantity", "must be at least 1")
	}
	if qty > MaxLineQuantity {
		return apperr.Invalid("quantity", "must not exceed %d", MaxLineQuantity)
	}

	if i := c.find(title); i >= 0 {
		if c.Items[i].Qty > MaxLineQuantity-qty {
			return apperr.Invalid("quantity", "must not exceed %d per title", MaxLineQuantity)
		}
		c.Items[i].Qty += qty
	} else {
		c.Items = append(c.Items, Line{Title: title, Price: price, Qty: qty, AddedAt: time.Now().UTC()})
	}
	c.touch()
	return nil
}

// Update sets a line's quantity. A quantity of zero or less removes the line.
func (c *Cart) Update(title string, qty int) error {
	i := c.find(title)
	if qty <= 0 {
		if i >= 0 {
			c.removeAt(i)
		}
		return nil
	}
	if qty > MaxLineQuantity {
		return apperr.Invalid("quantity", "must not exceed %d", MaxLineQuantity)
	}
	if i < 0 {
		return apperr.ErrNotFound
	}
	c.Items[i].Qty = qty
	c.touch()
	return nil
}

// Remove drops a line. Removing a missing title is a no-op.
func (c *Cart) Remove(title string) {
	if i := c.find(title); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.touch()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []Line{}
	c.touch()
}

// TotalItems is the sum of quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, line := range c.Items {
		total += line.Qty
	}
	return total
}

// TotalPrice prices the cart without discount codes.
func (c *Cart) TotalPrice() decimal.Decimal {
	return undiscounted.ComputeLines(c.PricingLines(), nil).Total
}

// IsEmpty reports whether no line with a positive quantity remains.
func (c *Cart) IsEmpty() bool {
	for _, line := range c.Items {
		if line.Qty > 0 {
			return false
		}
	}
	return true
}

// Snapshot returns a copy of the lines that later cart mutations cannot reach.
func (c *Cart) Snapshot() []Line {
	out := make([]Line, len(c.Items))
	copy(out, c.Items)
	return out
}

// PricingLines converts the cart into pricing engine input.
func (c *Cart) PricingLines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(c.Items))
	for _, line := range c.Items {
		lines = append(lines, pricing.Line{Title: line.Title, Price: line.Price, Qty: line.Qty})
	}
	return lines
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}

var undiscounted = pricing.NewEngine(nil)
