package invoice

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter holds query options for listing invoices
type Filter struct {
	Status   Status
	Search   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// StatusCount is one row of the status breakdown in invoice statistics
type StatusCount struct {
	Status      Status
	Count       int64
	TotalAmount decimal.Decimal
}

// Stats summarizes a user's invoices
type Stats struct {
	TotalInvoices   int64
	TotalRevenue    decimal.Decimal
	StatusBreakdown []StatusCount
}

// Repository defines persistence operations for invoices.
//
// Save must enforce a uniqueness constraint on the invoice number and
// return shared.ErrNumberConflict when it is violated, so callers can
// distinguish the concurrent-allocation race from generic failures.
type Repository interface {
	Save(ctx context.Context, inv *Invoice) error
	Update(ctx context.Context, inv *Invoice) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*Invoice, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter Filter) ([]*Invoice, int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	// Count returns the total number of invoices across all users; it is
	// the cardinality input to count-based number allocation.
	Count(ctx context.Context) (int64, error)
	Stats(ctx context.Context, userID uuid.UUID) (*Stats, error)
}
