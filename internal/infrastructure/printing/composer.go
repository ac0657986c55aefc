package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/invoicegen/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// InvoiceComposer builds the self-contained HTML document for an invoice.
// All styling is inlined so the output renders identically with no network
// access; the same invoice always produces the same markup.
type InvoiceComposer struct {
	tmpl *template.Template
}

// NewInvoiceComposer creates a composer with the invoice template parsed.
func NewInvoiceComposer() (*InvoiceComposer, error) {
	tmpl, err := template.New("invoice").Funcs(template.FuncMap{
		"money":  formatMoney,
		"date":   formatDate,
		"status": statusLabel,
	}).Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &InvoiceComposer{tmpl: tmpl}, nil
}

// Compose renders the invoice into a complete HTML document.
// User-supplied fields are escaped by html/template.
func (c *InvoiceComposer) Compose(inv *invoice.Invoice) (string, error) {
	if inv == nil {
		return "", fmt.Errorf("invoice is nil")
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, inv); err != nil {
		return "", fmt.Errorf("failed to compose invoice %s: %w", inv.Number, err)
	}
	return buf.String(), nil
}

// formatMoney formats a decimal value as US currency
// Example: 1234.5 -> "$1,234.50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]
	decPart := "00"
	if len(parts) > 1 {
		decPart = parts[1]
	}

	// Add thousand separators
	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}

	return sign + "$" + result.String() + "." + decPart
}

// formatDate formats a date in long US form
// Example: 2026-02-01 -> "February 1, 2026"
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

var statusCaser = cases.Title(language.AmericanEnglish)

// statusLabel renders an invoice status for display
// Example: "overdue" -> "Overdue"
func statusLabel(s invoice.Status) string {
	return statusCaser.String(string(s))
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.Number}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: Helvetica, Arial, sans-serif; font-size: 13px; color: #1f2937; padding: 24px; }
  .header { display: flex; justify-content: space-between; align-items: flex-start; margin-bottom: 32px; }
  .header h1 { font-size: 28px; letter-spacing: 2px; color: #111827; }
  .header .number { font-size: 14px; color: #6b7280; margin-top: 4px; }
  .status { display: inline-block; padding: 4px 12px; border-radius: 12px; font-size: 11px; font-weight: bold; text-transform: uppercase; background: #e5e7eb; color: #374151; }
  .status-paid { background: #d1fae5; color: #065f46; }
  .status-overdue { background: #fee2e2; color: #991b1b; }
  .meta { display: flex; justify-content: space-between; margin-bottom: 32px; }
  .meta h2 { font-size: 11px; text-transform: uppercase; color: #6b7280; margin-bottom: 8px; }
  .meta .dates { text-align: right; }
  .meta .dates div { margin-bottom: 4px; }
  .meta .dates span { color: #6b7280; margin-right: 8px; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
  th { text-align: left; font-size: 11px; text-transform: uppercase; color: #6b7280; border-bottom: 2px solid #e5e7eb; padding: 8px 4px; }
  th.num, td.num { text-align: right; }
  td { border-bottom: 1px solid #f3f4f6; padding: 10px 4px; }
  .totals { width: 280px; margin-left: auto; }
  .totals .row { display: flex; justify-content: space-between; padding: 6px 4px; }
  .totals .grand { border-top: 2px solid #111827; font-size: 16px; font-weight: bold; padding-top: 10px; }
  .notes { margin-top: 32px; }
  .notes h2 { font-size: 11px; text-transform: uppercase; color: #6b7280; margin-bottom: 6px; }
  .notes p { color: #4b5563; white-space: pre-wrap; }
  .notes + .notes { margin-top: 16px; }
</style>
</head>
<body>
<div class="header">
  <div>
    <h1>INVOICE</h1>
    <div class="number">{{.Number}}</div>
  </div>
  <div class="status status-{{.Status}}">{{status .Status}}</div>
</div>
<div class="meta">
  <div>
    <h2>Bill To</h2>
    <div><strong>{{.Client.Name}}</strong></div>
    {{if .Client.Company}}<div>{{.Client.Company}}</div>{{end}}
    <div>{{.Client.Email}}</div>
    {{if .Client.Phone}}<div>{{.Client.Phone}}</div>{{end}}
    <div>{{.Client.Address}}</div>
  </div>
  <div class="dates">
    <div><span>Issue Date</span>{{date .IssueDate}}</div>
    <div><span>Due Date</span>{{date .DueDate}}</div>
  </div>
</div>
<table>
  <thead>
    <tr>
      <th>Description</th>
      <th class="num">Qty</th>
      <th class="num">Rate</th>
      <th class="num">Amount</th>
    </tr>
  </thead>
  <tbody>
    {{range .Items}}<tr>
      <td>{{.Description}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{money .Rate}}</td>
      <td class="num">{{money .Amount}}</td>
    </tr>
    {{end}}
  </tbody>
</table>
<div class="totals">
  <div class="row"><span>Subtotal</span><span>{{money .Subtotal}}</span></div>
  <div class="row"><span>Tax ({{.TaxRate}}%)</span><span>{{money .TaxAmount}}</span></div>
  {{if .Discount.IsPositive}}<div class="row"><span>Discount</span><span>-{{money .Discount}}</span></div>
  {{end}}<div class="row grand"><span>Total</span><span>{{money .Total}}</span></div>
</div>
{{if .Notes}}<div class="notes">
  <h2>Notes</h2>
  <p>{{.Notes}}</p>
</div>
{{end}}{{if .Terms}}<div class="notes">
  <h2>Terms</h2>
  <p>{{.Terms}}</p>
</div>
{{end}}</body>
</html>
`
