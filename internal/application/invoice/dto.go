package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicegen/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// ClientRequest carries the billed party details
type ClientRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"required,max=500"`
	Company string `json:"company" binding:"max=200"`
}

// LineItemRequest carries one invoice line. The amount is computed
// server-side as quantity times rate.
type LineItemRequest struct {
	ID          string          `json:"id"`
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Rate        decimal.Decimal `json:"rate" binding:"required"`
}

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	Client    ClientRequest     `json:"client" binding:"required"`
	IssueDate time.Time         `json:"issue_date" binding:"required"`
	DueDate   time.Time         `json:"due_date" binding:"required"`
	Items     []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxRate   decimal.Decimal   `json:"tax_rate"`
	Discount  decimal.Decimal   `json:"discount"`
	Notes     string            `json:"notes" binding:"max=1000"`
	Terms     string            `json:"terms" binding:"max=1000"`
}

// UpdateInvoiceRequest represents a request to update an invoice
type UpdateInvoiceRequest struct {
	Client    ClientRequest     `json:"client" binding:"required"`
	IssueDate time.Time         `json:"issue_date" binding:"required"`
	DueDate   time.Time         `json:"due_date" binding:"required"`
	Items     []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxRate   decimal.Decimal   `json:"tax_rate"`
	Discount  decimal.Decimal   `json:"discount"`
	Status    string            `json:"status" binding:"omitempty,oneof=draft sent paid overdue cancelled"`
	Notes     string            `json:"notes" binding:"max=1000"`
	Terms     string            `json:"terms" binding:"max=1000"`
}

// UpdateStatusRequest represents a status transition request
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft sent paid overdue cancelled"`
}

// ListFilter defines filtering options for invoice list queries
type ListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=draft sent paid overdue cancelled"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ClientResponse represents the billed party in API responses
type ClientResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address"`
	Company string `json:"company,omitempty"`
}

// LineItemResponse represents one invoice line in API responses
type LineItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID        uuid.UUID          `json:"id"`
	Number    string             `json:"invoice_number"`
	Client    ClientResponse     `json:"client"`
	IssueDate time.Time          `json:"issue_date"`
	DueDate   time.Time          `json:"due_date"`
	Items     []LineItemResponse `json:"items"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	TaxRate   decimal.Decimal    `json:"tax_rate"`
	TaxAmount decimal.Decimal    `json:"tax_amount"`
	Discount  decimal.Decimal    `json:"discount"`
	Total     decimal.Decimal    `json:"total"`
	Status    string             `json:"status"`
	Notes     string             `json:"notes,omitempty"`
	Terms     string             `json:"terms,omitempty"`
	PDFPath   string             `json:"pdf_path,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// InvoiceListResponse represents a paginated invoice listing
type InvoiceListResponse struct {
	Items    []InvoiceResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// StatusCountResponse is one entry of the status breakdown
type StatusCountResponse struct {
	Status      string          `json:"status"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// StatsResponse represents aggregate invoice statistics
type StatsResponse struct {
	TotalInvoices   int64                 `json:"total_invoices"`
	TotalRevenue    decimal.Decimal       `json:"total_revenue"`
	StatusBreakdown []StatusCountResponse `json:"status_breakdown"`
}

// PDFDocument is a rendered invoice PDF ready for download
type PDFDocument struct {
	Filename string
	Data     []byte
	Size     int64
}

// toInvoiceResponse maps a domain invoice to its API representation
func toInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	items := make([]LineItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, LineItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount,
		})
	}

	return &InvoiceResponse{
		ID:     inv.ID,
		Number: inv.Number,
		Client: ClientResponse{
			Name:    inv.Client.Name,
			Email:   inv.Client.Email,
			Phone:   inv.Client.Phone,
			Address: inv.Client.Address,
			Company: inv.Client.Company,
		},
		IssueDate: inv.IssueDate,
		DueDate:   inv.DueDate,
		Items:     items,
		Subtotal:  inv.Subtotal,
		TaxRate:   inv.TaxRate,
		TaxAmount: inv.TaxAmount(),
		Discount:  inv.Discount,
		Total:     inv.Total,
		Status:    string(inv.Status),
		Notes:     inv.Notes,
		Terms:     inv.Terms,
		PDFPath:   inv.PDFPath,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}
