// internal/domain/pricing/discount.go
package pricing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Policy is the discount table: code to fractional rate off.
// Codes are matched case-insensitively after trimming.
type Policy struct {
	rates map[string]decimal.Decimal
}

// NewPolicy builds a policy from a code/rate table such as config.DiscountConfig.Codes.
func NewPolicy(rates map[string]float64) *Policy {
	p := &Policy{rates: make(map[string]decimal.Decimal, len(rates))}
	for code, rate := range rates {
		p.rates[normalizeCode(code)] = decimal.NewFromFloat(rate)
	}
	return p
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup returns the rate for code.
func (p *Policy) Lookup(code string) (decimal.Decimal, bool) {
	if p == nil {
		return decimal.Zero, false
	}
	rate, ok := p.rates[normalizeCode(code)]
	return rate, ok
}

// Codes lists the known codes in sorted order.
func (p *Policy) Codes() []string {
	if p == nil {
		return nil
	}
	codes := make([]string, 0, len(p.rates))
	for code := range p.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ApplyDiscount takes one code off amount. Unknown codes leave amount unchanged.
func (p *Policy) ApplyDiscount(amount decimal.Decimal, code string) decimal.Decimal {
	rate, ok := p.Lookup(code)
	if !ok {
		return amount
	}
	return Round2(amount.Mul(decimal.NewFromInt(1).Sub(rate)))
}

// ApplyDiscounts applies codes in order, each to the already discounted amount.
// It returns the discounted amount and the codes that matched.
func (p *Policy) ApplyDiscounts(amount decimal.Decimal, codes []string) (decimal.Decimal, []string) {
	var applied []string
	for _, code := range codes {
		if _, ok := p.Lookup(code); !ok {
			continue
		}
		amount = p.ApplyDiscount(amount, code)
		applied = append(applied, normalizeCode(code))
	}
	return amount, applied
}

// SplitCodes turns a form value like "save10, welcome20" into a code list.
func SplitCodes(raw ...string) []string {
	var codes []string
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				codes = append(codes, part)
			}
		}
	}
	return codes
}
