package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func testEngine() *Engine {
	return NewEngine(NewPolicy(map[string]float64{"SAVE10": 0.10, "WELCOME20": 0.20}))
}

func TestComputeWithoutCodes(t *testing.T) {
	totals, err := testEngine().Compute([]any{
		map[string]any{"price": 10.0, "qty": 2},
		map[string]any{"price": 15.0, "qty": 1},
	}, nil)
	require.NoError(t, err)

	assertMoney(t, "35.00", totals.Subtotal)
	assertMoney(t, "0.00", totals.Discount)
	assertMoney(t, "35.00", totals.Total)
	require.Len(t, totals.LineItems, 2)
	assertMoney(t, "20.00", totals.LineItems[0].LineTotal)
	assert.Empty(t, totals.AppliedCodes)
}

func TestComputeWithSingleCode(t *testing.T) {
	totals, err := testEngine().Compute([]any{
		map[string]any{"price": 100.0, "qty": 1},
	}, []string{"SAVE10"})
	require.NoError(t, err)

	assertMoney(t, "100.00", totals.Subtotal)
	assertMoney(t, "10.00", totals.Discount)
	assertMoney(t, "90.00", totals.Total)
	assert.Equal(t, []string{"SAVE10"}, totals.AppliedCodes)
}

func TestDiscountsComposeMultiplicatively(t *testing.T) {
	totals, err := testEngine().Compute([]any{[]any{100.0, 1}}, []string{"save10", " Welcome20 "})
	require.NoError(t, err)

	assertMoney(t, "72.00", totals.Total)
	assertMoney(t, "28.00", totals.Discount)
	assert.Equal(t, []string{"SAVE10", "WELCOME20"}, totals.AppliedCodes)
}

func TestUnknownCodeIsIgnored(t *testing.T) {
	engine := testEngine()

	assertMoney(t, "100", engine.ApplyDiscount(dec("100.0"), "NOPE"))

	totals, err := engine.Compute([]any{[]any{100.0, 1}}, []string{"NOPE", "SAVE10"})
	require.NoError(t, err)
	assertMoney(t, "90.00", totals.Total)
	assert.Equal(t, []string{"SAVE10"}, totals.AppliedCodes)
}

func TestRoundingHalfAwayFromZero(t *testing.T) {
	assertMoney(t, "18.00", Round2(dec("17.995")))
	assertMoney(t, "18.00", Round2(decimal.NewFromFloat(17.995)))
	assertMoney(t, "0.01", Round2(dec("0.005")))
	assertMoney(t, "-0.01", Round2(dec("-0.005")))
	assertMoney(t, "2.34", Round2(dec("2.344")))

	totals, err := testEngine().Compute([]any{[]any{5.998333, 3}}, nil)
	require.NoError(t, err)
	assertMoney(t, "17.99", totals.LineItems[0].LineTotal)
}

func TestSubtotalRoundsTheRawSum(t *testing.T) {
	entries := []any{
		[]any{0.333, 1},
		[]any{0.333, 1},
		[]any{0.333, 1},
	}
	totals, err := testEngine().Compute(entries, nil)
	require.NoError(t, err)

	assertMoney(t, "1.00", totals.Subtotal)
	for _, item := range totals.LineItems {
		assertMoney(t, "0.33", item.LineTotal)
	}
}

type pricedBook struct {
	title string
	price decimal.Decimal
	qty   int
}

func (b pricedBook) UnitPrice() decimal.Decimal { return b.price }
func (b pricedBook) Quantity() int              { return b.qty }
func (b pricedBook) Label() string              { return b.title }

func TestNormalizeAcceptedShapes(t *testing.T) {
	lines, err := Normalize([]any{
		map[string]any{"price": "12.49", "quantity": json.Number("2"), "title": "Moby Dick"},
		[]any{8.99, 1},
		[]any{"book-7", 3, 10},
		Line{Title: "I Ching", Price: dec("18.99"), Qty: 1},
		&Line{Price: dec("1"), Qty: 0},
		pricedBook{title: "1984", price: dec("8.99"), qty: 4},
		[]float64{2.5, 2},
	})
	require.NoError(t, err)
	require.Len(t, lines, 7)

	assert.Equal(t, "Moby Dick", lines[0].Title)
	assert.Equal(t, 2, lines[0].Qty)
	assert.Equal(t, "book-7", lines[2].ID)
	assert.Equal(t, 3, lines[2].Qty)
	assertMoney(t, "10", lines[2].Price)
	assert.Equal(t, "1984", lines[5].Title)
	assert.Equal(t, 2, lines[6].Qty)
}

func TestNormalizeRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry any
	}{
		{"string entry", "bogus"},
		{"four tuple", []any{1, 2, 3, 4}},
		{"missing qty", map[string]any{"price": 10}},
		{"negative price", []any{-1.0, 1}},
		{"negative qty", []any{1.0, -2}},
		{"fractional qty", []any{1.0, 1.5}},
		{"non numeric price", []any{"ten", 1}},
		{"qty beyond int64", []any{json.Number("10"), json.Number("18446744073709551617")}},
		{"qty beyond bound", []any{10.0, int64(MaxQuantity) + 1}},
		{"huge uint qty", []any{10.0, uint64(1) << 63}},
		{"huge string qty", []any{10.0, "9223372036854775807"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize([]any{[]any{1.0, 1}, tt.entry})
			require.ErrorIs(t, err, apperr.ErrValidation)

			var verr *apperr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "entries[1]", verr.Field)
		})
	}
}

func TestZeroQuantityContributesNothing(t *testing.T) {
	totals, err := testEngine().Compute([]any{[]any{9.99, 0}, []any{1.0, 1}}, nil)
	require.NoError(t, err)
	assertMoney(t, "1.00", totals.Subtotal)
}

func TestNilPolicyPricesWithoutDiscounts(t *testing.T) {
	totals := NewEngine(nil).ComputeLines([]Line{{Price: dec("10"), Qty: 1}}, []string{"SAVE10"})
	assertMoney(t, "10.00", totals.Total)
	assertMoney(t, "0.00", totals.Discount)
}
