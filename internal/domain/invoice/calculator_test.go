package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id, desc string, qty, rate, amount string) LineItem {
	return LineItem{
		ID:          id,
		Description: desc,
		Quantity:    decimal.RequireFromString(qty),
		Rate:        decimal.RequireFromString(rate),
		Amount:      decimal.RequireFromString(amount),
	}
}

func TestCompute(t *testing.T) {
	items := []LineItem{
		item("1", "Consulting", "2", "10.00", "20.00"),
		item("2", "Support", "1", "5.50", "5.50"),
	}

	t.Run("ten percent tax no discount", func(t *testing.T) {
		comp := Compute(items, decimal.NewFromInt(10), decimal.Zero)

		assert.True(t, comp.Subtotal.Equal(decimal.RequireFromString("25.50")),
			"subtotal = %s", comp.Subtotal)
		assert.True(t, comp.TaxAmount.Equal(decimal.RequireFromString("2.55")),
			"taxAmount = %s", comp.TaxAmount)
		assert.True(t, comp.Total.Equal(decimal.RequireFromString("28.05")),
			"total = %s", comp.Total)
	})

	t.Run("discount exceeding subtotal plus tax passes through negative", func(t *testing.T) {
		comp := Compute(items, decimal.NewFromInt(10), decimal.RequireFromString("30.00"))

		// Negative totals are not clamped; rejecting or clamping them is
		// the caller's policy decision.
		assert.True(t, comp.Total.Equal(decimal.RequireFromString("-2.05")),
			"total = %s", comp.Total)
	})

	t.Run("empty item list", func(t *testing.T) {
		comp := Compute(nil, decimal.NewFromInt(10), decimal.Zero)
		assert.True(t, comp.Subtotal.IsZero())
		assert.True(t, comp.TaxAmount.IsZero())
		assert.True(t, comp.Total.IsZero())
	})

	t.Run("zero tax rate", func(t *testing.T) {
		comp := Compute(items, decimal.Zero, decimal.Zero)
		assert.True(t, comp.TaxAmount.IsZero())
		assert.True(t, comp.Total.Equal(comp.Subtotal))
	})
}

func TestComputePermutationInvariance(t *testing.T) {
	items := []LineItem{
		item("1", "A", "1", "0.10", "0.10"),
		item("2", "B", "3", "33.33", "99.99"),
		item("3", "C", "7", "0.07", "0.49"),
		item("4", "D", "1", "1234.56", "1234.56"),
		item("5", "E", "2", "0.005", "0.01"),
	}
	reversed := make([]LineItem, len(items))
	for i, it := range items {
		reversed[len(items)-1-i] = it
	}
	rotated := append(append([]LineItem{}, items[2:]...), items[:2]...)

	base := Compute(items, decimal.NewFromInt(7), decimal.NewFromInt(5))
	for _, perm := range [][]LineItem{reversed, rotated} {
		comp := Compute(perm, decimal.NewFromInt(7), decimal.NewFromInt(5))
		assert.True(t, comp.Subtotal.Equal(base.Subtotal))
		assert.True(t, comp.Total.Equal(base.Total))
	}
}

func TestComputeNoDriftAcrossRecomputation(t *testing.T) {
	// Amounts that are classic binary-float troublemakers
	items := make([]LineItem, 0, 100)
	for i := 0; i < 100; i++ {
		items = append(items, item("x", "drift", "1", "0.10", "0.10"))
	}

	first := Compute(items, decimal.RequireFromString("8.25"), decimal.RequireFromString("0.01"))
	require.True(t, first.Subtotal.Equal(decimal.RequireFromString("10.00")),
		"subtotal = %s", first.Subtotal)

	for i := 0; i < 50; i++ {
		again := Compute(items, decimal.RequireFromString("8.25"), decimal.RequireFromString("0.01"))
		require.True(t, again.Total.Equal(first.Total))
	}

	// total == subtotal + subtotal*rate/100 - discount, exactly
	expected := first.Subtotal.
		Add(first.Subtotal.Mul(decimal.RequireFromString("8.25")).Div(decimal.NewFromInt(100))).
		Sub(decimal.RequireFromString("0.01"))
	assert.True(t, first.Total.Equal(expected))
}
