package invoice

import "github.com/shopspring/decimal"

// Computation holds the derived monetary totals for an invoice.
// All values use decimal arithmetic; invoice totals are financially
// load-bearing and must not drift across recomputation.
type Computation struct {
	Subtotal  decimal.Decimal
	TaxRate   decimal.Decimal
	TaxAmount decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// Compute derives subtotal, tax amount, and total from the given line items,
// tax rate (percent, 0-100), and discount.
//
// The computation is pure and deterministic. It assumes pre-validated input
// and does not re-derive item amounts from quantity and rate. A discount
// exceeding subtotal plus tax yields a negative total; clamping is a policy
// decision left to the caller.
func Compute(items []LineItem, taxRatePercent, discount decimal.Decimal) Computation {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}

	taxAmount := subtotal.Mul(taxRatePercent).Div(oneHundred)
	total := subtotal.Add(taxAmount).Sub(discount)

	return Computation{
		Subtotal:  subtotal,
		TaxRate:   taxRatePercent,
		TaxAmount: taxAmount,
		Discount:  discount,
		Total:     total,
	}
}
