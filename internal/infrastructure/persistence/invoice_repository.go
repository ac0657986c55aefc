package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/invoicegen/backend/internal/domain/invoice"
	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/invoicegen/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements invoice.Repository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save persists a new invoice. A unique-index violation on the invoice
// number is surfaced as shared.ErrNumberConflict so callers can retry
// allocation with a freshly read count.
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrNumberConflict
		}
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

// Update persists changes to an existing invoice
func (r *GormInvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND user_id = ?", inv.ID, inv.UserID).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.ErrNumberConflict
		}
		return fmt.Errorf("failed to update invoice: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID retrieves an invoice by ID, scoped to its owning user
func (r *GormInvoiceRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*invoice.Invoice, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByUser lists a user's invoices with filtering and pagination
func (r *GormInvoiceRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter invoice.Filter) ([]*invoice.Invoice, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"invoice_number LIKE ? OR LOWER(client_name) LIKE LOWER(?) OR LOWER(client_email) LIKE LOWER(?)",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	sortField := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := (filter.Page - 1) * filter.PageSize; offset > 0 {
			query = query.Offset(offset)
		}
	}

	var rows []models.InvoiceModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}

	invoices := make([]*invoice.Invoice, len(rows))
	for i := range rows {
		invoices[i] = rows[i].ToDomain()
	}
	return invoices, total, nil
}

// Delete removes an invoice, scoped to its owning user
func (r *GormInvoiceRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.InvoiceModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete invoice: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total number of invoices across all users.
// It is the cardinality input to count-based number allocation; the
// unique index on invoice_number covers the race between concurrent
// creations reading the same count.
func (r *GormInvoiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return count, nil
}

// statusRow is the scan target for the status breakdown aggregation
type statusRow struct {
	Status      string
	Count       int64
	TotalAmount decimal.Decimal
}

// Stats summarizes a user's invoices by status and computes paid revenue
func (r *GormInvoiceRepository) Stats(ctx context.Context, userID uuid.UUID) (*invoice.Stats, error) {
	var rows []statusRow
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("status, COUNT(*) AS count, SUM(total) AS total_amount").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate invoice stats: %w", err)
	}

	stats := &invoice.Stats{
		TotalRevenue:    decimal.Zero,
		StatusBreakdown: make([]invoice.StatusCount, 0, len(rows)),
	}
	for _, row := range rows {
		stats.TotalInvoices += row.Count
		if invoice.Status(row.Status) == invoice.StatusPaid {
			stats.TotalRevenue = stats.TotalRevenue.Add(row.TotalAmount)
		}
		stats.StatusBreakdown = append(stats.StatusBreakdown, invoice.StatusCount{
			Status:      invoice.Status(row.Status),
			Count:       row.Count,
			TotalAmount: row.TotalAmount,
		})
	}
	return stats, nil
}

// Ensure GormInvoiceRepository implements invoice.Repository
var _ invoice.Repository = (*GormInvoiceRepository)(nil)
