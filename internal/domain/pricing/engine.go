// internal/domain/pricing/engine.go
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
)

// Line is a normalised cart entry.
type Line struct {
	ID    string          `json:"id,omitempty"`
	Title string          `json:"title,omitempty"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
}

// Priced is implemented by cart lines and anything else that can be priced directly.
type Priced interface {
	UnitPrice() decimal.Decimal
	Quantity() int
}

type labeled interface {
	Label() string
}

// LineItem is a priced line in a quote.
type LineItem struct {
	ID        string          `json:"id,omitempty"`
	Title     string          `json:"title,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Totals is the result of pricing a cart.
type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	LineItems    []LineItem      `json:"line_items"`
	AppliedCodes []string        `json:"applied_codes"`
}

// Engine prices carts against a discount policy.
type Engine struct {
	policy *Policy
}

// NewEngine creates a pricing engine. A nil policy prices without discounts.
func NewEngine(policy *Policy) *Engine {
	return &Engine{policy: policy}
}

// Policy returns the discount policy in use.
func (e *Engine) Policy() *Policy {
	return e.policy
}

// Compute normalises entries and prices them with the given discount codes.
func (e *Engine) Compute(entries []any, codes []string) (Totals, error) {
	lines, err := Normalize(entries)
	if err != nil {
		return Totals{}, err
	}
	return e.ComputeLines(lines, codes), nil
}

// ComputeLines prices already normalised lines.
func (e *Engine) ComputeLines(lines []Line, codes []string) Totals {
	totals := Totals{
		LineItems:    make([]LineItem, 0, len(lines)),
		AppliedCodes: []string{},
	}

	raw := decimal.Zero
	for _, line := range lines {
		product := line.Price.Mul(decimal.NewFromInt(int64(line.Qty)))
		raw = raw.Add(product)
		totals.LineItems = append(totals.LineItems, LineItem{
			ID:        line.ID,
			Title:     line.Title,
			Price:     line.Price,
			Qty:       line.Qty,
			LineTotal: Round2(product),
		})
	}

	totals.Subtotal = Round2(raw)
	discounted, applied := e.policy.ApplyDiscounts(totals.Subtotal, codes)
	if applied != nil {
		totals.AppliedCodes = applied
	}
	totals.Discount = Round2(totals.Subtotal.Sub(discounted))
	totals.Total = Round2(discounted)

	return totals
}

// ApplyDiscount is a convenience over the engine's policy.
func (e *Engine) ApplyDiscount(amount decimal.Decimal, code string) decimal.Decimal {
	return e.policy.ApplyDiscount(amount, code)
}

// Normalize converts heterogeneous cart entries into Lines.
//
// Accepted shapes: Line or *Line; Priced; map with "price" and "qty" (or "quantity");
// a two element (price, qty) slice; a three element (id, qty, price) slice.
func Normalize(entries []any) ([]Line, error) {
	lines := make([]Line, 0, len(entries))
	for i, entry := range entries {
		line, err := normalizeEntry(entry)
		if err != nil {
			return nil, apperr.Invalid(fmt.Sprintf("entries[%d]", i), "%s: %#v", err.Error(), entry)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func normalizeEntry(entry any) (Line, error) {
	var (
		line          Line
		price, qty    any
		havePrice, ok bool
	)

	switch v := entry.(type) {
	case Line:
		return checkLine(v)
	case *Line:
		if v == nil {
			return line, fmt.Errorf("nil line")
		}
		return checkLine(*v)
	case Priced:
		line = Line{Price: v.UnitPrice(), Qty: v.Quantity()}
		if l, isLabeled := v.(labeled); isLabeled {
			line.Title = l.Label()
		}
		return checkLine(line)
	case map[string]any:
		price, havePrice = v["price"]
		if qty, ok = v["qty"]; !ok {
			qty, ok = v["quantity"]
		}
		if !havePrice || !ok {
			return line, fmt.Errorf("entry needs price and qty")
		}
		if id, found := v["id"]; found {
			line.ID = fmt.Sprint(id)
		}
		if title, found := v["title"].(string); found {
			line.Title = title
		}
	case []any:
		switch len(v) {
		case 2:
			price, qty = v[0], v[1]
		case 3:
			line.ID = fmt.Sprint(v[0])
			qty, price = v[1], v[2]
		default:
			return line, fmt.Errorf("unrecognised cart entry of length %d", len(v))
		}
	case []float64:
		if len(v) != 2 {
			return line, fmt.Errorf("unrecognised cart entry of length %d", len(v))
		}
		price, qty = v[0], v[1]
	default:
		return line, fmt.Errorf("unrecognised cart entry")
	}

	p, ok := ParseMoney(price)
	if !ok {
		return line, fmt.Errorf("price is not numeric")
	}
	q, ok := parseQuantity(qty)
	if !ok {
		return line, fmt.Errorf("quantity is not a whole number up to %d", MaxQuantity)
	}
	line.Price, line.Qty = p, q

	return checkLine(line)
}

func checkLine(line Line) (Line, error) {
	if line.Price.IsNegative() {
		return line, fmt.Errorf("price must be non-negative")
	}
	if line.Qty < 0 {
		return line, fmt.Errorf("quantity must be non-negative")
	}
	if line.Qty > MaxQuantity {
		return line, fmt.Errorf("quantity must not exceed %d", MaxQuantity)
	}
	return line, nil
}
