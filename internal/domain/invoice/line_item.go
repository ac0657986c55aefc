package invoice

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const maxDescriptionLength = 500

// LineItem represents one billable entry on an invoice.
// Amount is supplied by the producer as quantity * rate; the calculator
// trusts it as input to subtotal summation and does not re-derive it.
type LineItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Validate checks the line item against the schema constraints
func (li LineItem) Validate() error {
	if li.ID == "" {
		return shared.NewDomainError("INVALID_INPUT", "Item ID is required")
	}
	if li.Description == "" {
		return shared.NewDomainError("INVALID_INPUT", "Item description is required")
	}
	if len(li.Description) > maxDescriptionLength {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Description cannot exceed %d characters", maxDescriptionLength))
	}
	if !li.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Quantity must be greater than 0")
	}
	if li.Rate.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Rate cannot be negative")
	}
	if li.Amount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Amount cannot be negative")
	}
	return nil
}

// LineItems is a slice of LineItem that implements GORM Scanner/Valuer for JSONB storage
type LineItems []LineItem

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = LineItems{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for LineItems scan")
	}

	return json.Unmarshal(data, l)
}
