package invoice

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validClient() Client {
	return Client{
		Name:    "Acme Corp",
		Email:   "billing@acme.example.com",
		Address: "1 Infinite Loop\nCupertino, CA",
	}
}

func validItems() []LineItem {
	return []LineItem{
		item("1", "Design work", "2", "10.00", "20.00"),
		item("2", "Hosting", "1", "5.50", "5.50"),
	}
}

func TestNew(t *testing.T) {
	userID := uuid.New()
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 1, 0)

	t.Run("creates draft invoice with computed totals", func(t *testing.T) {
		inv, err := New(userID, validClient(), issue, due, validItems(),
			decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)

		assert.Equal(t, StatusDraft, inv.Status)
		assert.NotEqual(t, uuid.Nil, inv.ID)
		assert.True(t, inv.Subtotal.Equal(decimal.RequireFromString("25.50")))
		assert.True(t, inv.Total.Equal(decimal.RequireFromString("28.05")))
		assert.True(t, inv.TaxAmount().Equal(decimal.RequireFromString("2.55")))
	})

	t.Run("rejects due date before issue date", func(t *testing.T) {
		_, err := New(userID, validClient(), due, issue, validItems(),
			decimal.NewFromInt(10), decimal.Zero)
		assert.ErrorContains(t, err, "Due date must be after issue date")
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		_, err := New(userID, validClient(), issue, due, nil,
			decimal.NewFromInt(10), decimal.Zero)
		assert.ErrorContains(t, err, "at least one item")
	})

	t.Run("rejects tax over 100 percent", func(t *testing.T) {
		_, err := New(userID, validClient(), issue, due, validItems(),
			decimal.NewFromInt(101), decimal.Zero)
		assert.ErrorContains(t, err, "Tax cannot exceed 100%")
	})

	t.Run("rejects missing client fields", func(t *testing.T) {
		c := validClient()
		c.Email = ""
		_, err := New(userID, c, issue, due, validItems(),
			decimal.NewFromInt(10), decimal.Zero)
		assert.ErrorContains(t, err, "Client email is required")
	})

	t.Run("rejects oversized description", func(t *testing.T) {
		items := validItems()
		items[0].Description = strings.Repeat("x", 501)
		_, err := New(userID, validClient(), issue, due, items,
			decimal.NewFromInt(10), decimal.Zero)
		assert.ErrorContains(t, err, "cannot exceed 500 characters")
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		items := validItems()
		items[0].Quantity = decimal.Zero
		_, err := New(userID, validClient(), issue, due, items,
			decimal.NewFromInt(10), decimal.Zero)
		assert.ErrorContains(t, err, "Quantity must be greater than 0")
	})
}

func TestInvoiceRecalculate(t *testing.T) {
	userID := uuid.New()
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	inv, err := New(userID, validClient(), issue, issue.AddDate(0, 1, 0), validItems(),
		decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)

	t.Run("SetItems recomputes from the full list", func(t *testing.T) {
		inv.SetItems([]LineItem{item("9", "One-off", "1", "100.00", "100.00")})
		assert.True(t, inv.Subtotal.Equal(decimal.RequireFromString("100.00")))
		assert.True(t, inv.Total.Equal(decimal.RequireFromString("110.00")))
	})

	t.Run("SetRates recomputes tax and discount", func(t *testing.T) {
		inv.SetRates(decimal.Zero, decimal.RequireFromString("10.00"))
		assert.True(t, inv.Total.Equal(decimal.RequireFromString("90.00")))
	})
}

func TestInvoiceSetStatus(t *testing.T) {
	userID := uuid.New()
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	inv, err := New(userID, validClient(), issue, issue.AddDate(0, 1, 0), validItems(),
		decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, inv.SetStatus(StatusSent))
	assert.Equal(t, StatusSent, inv.Status)

	assert.Error(t, inv.SetStatus(Status("archived")))
	assert.Equal(t, StatusSent, inv.Status)
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, Status("archived").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestInvoicePDFFilename(t *testing.T) {
	inv := &Invoice{Number: "INV-000042"}
	assert.Equal(t, "invoice-INV-000042.pdf", inv.PDFFilename())
}
