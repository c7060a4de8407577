package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyLookup(t *testing.T) {
	p := NewPolicy(map[string]float64{"save10": 0.10, "WELCOME20": 0.20})

	rate, ok := p.Lookup("  Save10 ")
	assert.True(t, ok)
	assertMoney(t, "0.1", rate)

	_, ok = p.Lookup("SAVE1")
	assert.False(t, ok)

	assert.Equal(t, []string{"SAVE10", "WELCOME20"}, p.Codes())
}

func TestApplyDiscountsInOrder(t *testing.T) {
	p := NewPolicy(map[string]float64{"A": 0.10, "B": 0.20})

	ab, applied := p.ApplyDiscounts(dec("100"), []string{"A", "B"})
	ba, _ := p.ApplyDiscounts(dec("100"), []string{"B", "A"})

	assertMoney(t, "72.00", ab)
	assertMoney(t, "72.00", ba)
	assert.Equal(t, []string{"A", "B"}, applied)

	// each step is rounded to cents
	odd, _ := p.ApplyDiscounts(dec("19.99"), []string{"A", "B"})
	assertMoney(t, "14.39", odd)
}

func TestSplitCodes(t *testing.T) {
	assert.Equal(t, []string{"save10", "WELCOME20", "X"}, SplitCodes("save10, WELCOME20", "", " X "))
	assert.Nil(t, SplitCodes(""))
}
