package invoice

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of an invoice
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Field length limits mirroring the persisted schema
const (
	maxClientNameLength = 100
	maxCompanyLength    = 100
	maxAddressLength    = 500
	maxNotesLength      = 1000
	maxTermsLength      = 1000
)

// Client holds the billed party's contact details.
// Phone and Company are optional.
type Client struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Company string
}

// Validate checks client fields against schema constraints
func (c Client) Validate() error {
	if c.Name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Client name is required")
	}
	if len(c.Name) > maxClientNameLength {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Client name cannot exceed %d characters", maxClientNameLength))
	}
	if c.Email == "" {
		return shared.NewDomainError("INVALID_INPUT", "Client email is required")
	}
	if c.Address == "" {
		return shared.NewDomainError("INVALID_INPUT", "Client address is required")
	}
	if len(c.Address) > maxAddressLength {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Address cannot exceed %d characters", maxAddressLength))
	}
	if len(c.Company) > maxCompanyLength {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Company name cannot exceed %d characters", maxCompanyLength))
	}
	return nil
}

// Invoice is the aggregate root for a billable invoice.
// Monetary fields are always derived through Compute from the full item
// list; they are never patched incrementally.
type Invoice struct {
	shared.BaseEntity
	Number    string
	UserID    uuid.UUID
	Client    Client
	IssueDate time.Time
	DueDate   time.Time
	Items     LineItems
	Subtotal  decimal.Decimal
	TaxRate   decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
	Status    Status
	Notes     string
	Terms     string
	PDFPath   string
}

// New creates a new invoice for the given user and recomputes its totals.
// Number may be empty; the caller is then responsible for allocating one
// before the invoice is persisted.
func New(userID uuid.UUID, client Client, issueDate, dueDate time.Time, items []LineItem, taxRate, discount decimal.Decimal) (*Invoice, error) {
	inv := &Invoice{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Client:     client,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Items:      items,
		TaxRate:    taxRate,
		Discount:   discount,
		Status:     StatusDraft,
	}
	inv.Recalculate()

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Validate checks the invoice against all schema constraints
func (i *Invoice) Validate() error {
	if i.UserID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "User ID is required")
	}
	if err := i.Client.Validate(); err != nil {
		return err
	}
	if i.IssueDate.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Issue date is required")
	}
	if i.DueDate.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Due date is required")
	}
	if i.DueDate.Before(i.IssueDate) {
		return shared.NewDomainError("INVALID_INPUT", "Due date must be after issue date")
	}
	if len(i.Items) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "Invoice must have at least one item")
	}
	for _, item := range i.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if i.TaxRate.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Tax cannot be negative")
	}
	if i.TaxRate.GreaterThan(oneHundred) {
		return shared.NewDomainError("INVALID_INPUT", "Tax cannot exceed 100%")
	}
	if i.Discount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Discount cannot be negative")
	}
	if !i.Status.IsValid() {
		return shared.NewDomainError("INVALID_INPUT",
			"Status must be one of: draft, sent, paid, overdue, cancelled")
	}
	if len(i.Notes) > maxNotesLength {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Notes cannot exceed %d characters", maxNotesLength))
	}
	if len(i.Terms) > maxTermsLength {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Terms cannot exceed %d characters", maxTermsLength))
	}
	return nil
}

// Recalculate fully recomputes the derived monetary fields from the
// current item list, tax rate, and discount.
func (i *Invoice) Recalculate() {
	comp := Compute(i.Items, i.TaxRate, i.Discount)
	i.Subtotal = comp.Subtotal
	i.Total = comp.Total
}

// TaxAmount returns the tax portion of the current totals
func (i *Invoice) TaxAmount() decimal.Decimal {
	return i.Subtotal.Mul(i.TaxRate).Div(oneHundred)
}

// SetItems replaces the item list and recomputes totals
func (i *Invoice) SetItems(items []LineItem) {
	i.Items = items
	i.Recalculate()
	i.UpdatedAt = time.Now()
}

// SetRates replaces tax rate and discount and recomputes totals
func (i *Invoice) SetRates(taxRate, discount decimal.Decimal) {
	i.TaxRate = taxRate
	i.Discount = discount
	i.Recalculate()
	i.UpdatedAt = time.Now()
}

// SetStatus transitions the invoice to the given status
func (i *Invoice) SetStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Invalid invoice status")
	}
	i.Status = status
	i.UpdatedAt = time.Now()
	return nil
}

// PDFFilename returns the download filename for this invoice's PDF
func (i *Invoice) PDFFilename() string {
	return fmt.Sprintf("invoice-%s.pdf", i.Number)
}
