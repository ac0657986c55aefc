package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicegen/backend/internal/domain/invoice"
	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/invoicegen/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// maxNumberRetries bounds how many times invoice creation retries after a
// number uniqueness conflict before giving up.
const maxNumberRetries = 3

// Composer builds the HTML document for an invoice.
type Composer interface {
	Compose(inv *invoice.Invoice) (string, error)
}

// Service provides application-level invoice operations
type Service struct {
	repo     invoice.Repository
	composer Composer
	renderer printing.PDFRenderer
	storage  printing.PDFStorage
	logger   *zap.Logger
}

// NewService creates a new invoice Service
func NewService(
	repo invoice.Repository,
	composer Composer,
	renderer printing.PDFRenderer,
	storage printing.PDFStorage,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		composer: composer,
		renderer: renderer,
		storage:  storage,
		logger:   logger,
	}
}

// Create creates a new invoice, allocating the next sequential number.
// When a concurrent creation claims the same number, the unique index
// rejects the insert and allocation is retried with a fresh count.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	client := invoice.Client{
		Name:    req.Client.Name,
		Email:   req.Client.Email,
		Phone:   req.Client.Phone,
		Address: req.Client.Address,
		Company: req.Client.Company,
	}

	inv, err := invoice.New(userID, client, req.IssueDate, req.DueDate,
		toLineItems(req.Items), req.TaxRate, req.Discount)
	if err != nil {
		return nil, err
	}
	inv.Notes = req.Notes
	inv.Terms = req.Terms
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= maxNumberRetries; attempt++ {
		count, err := s.repo.Count(ctx)
		if err != nil {
			return nil, err
		}
		// The attempt offset skips past numbers claimed between our
		// count and our insert.
		inv.Number = invoice.NextNumber(count + int64(attempt))

		err = s.repo.Save(ctx, inv)
		if err == nil {
			s.logger.Info("invoice created",
				zap.String("invoice_number", inv.Number),
				zap.String("invoice_id", inv.ID.String()))
			return toInvoiceResponse(inv), nil
		}
		if !shared.IsNumberConflict(err) {
			return nil, err
		}

		lastErr = err
		s.logger.Warn("invoice number conflict, retrying",
			zap.String("invoice_number", inv.Number),
			zap.Int("attempt", attempt+1))
	}

	return nil, lastErr
}

// Get returns a single invoice owned by the user
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// List returns the user's invoices matching the filter
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*InvoiceListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	invoices, total, err := s.repo.FindByUser(ctx, userID, invoice.Filter{
		Status:   invoice.Status(filter.Status),
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	})
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, *toInvoiceResponse(inv))
	}

	return &InvoiceListResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Update replaces the mutable fields of an invoice and recomputes totals
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	inv.Client = invoice.Client{
		Name:    req.Client.Name,
		Email:   req.Client.Email,
		Phone:   req.Client.Phone,
		Address: req.Client.Address,
		Company: req.Client.Company,
	}
	inv.IssueDate = req.IssueDate
	inv.DueDate = req.DueDate
	inv.Notes = req.Notes
	inv.Terms = req.Terms
	inv.SetItems(toLineItems(req.Items))
	inv.SetRates(req.TaxRate, req.Discount)

	if req.Status != "" {
		if err := inv.SetStatus(invoice.Status(req.Status)); err != nil {
			return nil, err
		}
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}

	return toInvoiceResponse(inv), nil
}

// UpdateStatus transitions an invoice to a new status
func (s *Service) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) (*InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := inv.SetStatus(invoice.Status(status)); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}

	return toInvoiceResponse(inv), nil
}

// Delete removes an invoice and its stored PDF, if any
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	inv, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	if inv.PDFPath != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, inv.PDFPath); err != nil {
			// The invoice itself is gone; a stale file is only noise.
			s.logger.Warn("failed to delete invoice PDF",
				zap.String("path", inv.PDFPath),
				zap.Error(err))
		}
	}

	return nil
}

// Stats returns aggregate counts and revenue for the user's invoices
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*StatsResponse, error) {
	stats, err := s.repo.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	breakdown := make([]StatusCountResponse, 0, len(stats.StatusBreakdown))
	for _, sc := range stats.StatusBreakdown {
		breakdown = append(breakdown, StatusCountResponse{
			Status:      string(sc.Status),
			Count:       sc.Count,
			TotalAmount: sc.TotalAmount,
		})
	}

	return &StatsResponse{
		TotalInvoices:   stats.TotalInvoices,
		TotalRevenue:    stats.TotalRevenue,
		StatusBreakdown: breakdown,
	}, nil
}

// GeneratePDF renders the invoice to a PDF document. The result is also
// written to storage so later downloads can skip rendering, but a storage
// failure does not fail the download.
func (s *Service) GeneratePDF(ctx context.Context, userID, id uuid.UUID) (*PDFDocument, error) {
	inv, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	html, err := s.composer.Compose(inv)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:  html,
		Title: "Invoice " + inv.Number,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice PDF generated",
		zap.String("invoice_number", inv.Number),
		zap.Int("bytes", len(result.PDFData)),
		zap.Duration("duration", time.Since(start)))

	filename := inv.PDFFilename()
	if s.storage != nil {
		stored, err := s.storage.Store(ctx, &printing.StoreRequest{
			UserID:   userID,
			Filename: filename,
			PDFData:  result.PDFData,
		})
		if err != nil {
			s.logger.Warn("failed to store invoice PDF",
				zap.String("invoice_number", inv.Number),
				zap.Error(err))
		} else if stored.Path != inv.PDFPath {
			inv.PDFPath = stored.Path
			if err := s.repo.Update(ctx, inv); err != nil {
				s.logger.Warn("failed to record invoice PDF path",
					zap.String("invoice_number", inv.Number),
					zap.Error(err))
			}
		}
	}

	return &PDFDocument{
		Filename: filename,
		Data:     result.PDFData,
		Size:     int64(len(result.PDFData)),
	}, nil
}

// toLineItems maps request items to domain line items, computing each
// amount as quantity times rate.
func toLineItems(items []LineItemRequest) []invoice.LineItem {
	result := make([]invoice.LineItem, 0, len(items))
	for _, item := range items {
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}
		result = append(result, invoice.LineItem{
			ID:          id,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Quantity.Mul(item.Rate),
		})
	}
	return result
}
