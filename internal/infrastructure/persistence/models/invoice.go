package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicegen/backend/internal/domain/invoice"
	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the GORM model for the invoices table
type InvoiceModel struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key"`
	InvoiceNumber string            `gorm:"column:invoice_number;type:varchar(50);not null;uniqueIndex:idx_invoices_number"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	ClientName    string            `gorm:"type:varchar(100);not null"`
	ClientEmail   string            `gorm:"type:varchar(255);not null"`
	ClientPhone   string            `gorm:"type:varchar(30)"`
	ClientAddress string            `gorm:"type:varchar(500);not null"`
	ClientCompany string            `gorm:"type:varchar(100)"`
	IssueDate     time.Time         `gorm:"not null"`
	DueDate       time.Time         `gorm:"not null;index"`
	Items         invoice.LineItems `gorm:"type:jsonb;not null;default:'[]'"`
	Subtotal      decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	TaxRate       decimal.Decimal   `gorm:"column:tax_rate;type:decimal(5,2);not null"`
	Discount      decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Status        string            `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes         string            `gorm:"type:varchar(1000)"`
	Terms         string            `gorm:"type:varchar(1000)"`
	PDFPath       string            `gorm:"column:pdf_path;type:varchar(500)"`
	CreatedAt     time.Time         `gorm:"not null;index"`
	UpdatedAt     time.Time         `gorm:"not null"`
}

// TableName returns the table name for InvoiceModel
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts InvoiceModel to a domain Invoice
func (m *InvoiceModel) ToDomain() *invoice.Invoice {
	return &invoice.Invoice{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Number: m.InvoiceNumber,
		UserID: m.UserID,
		Client: invoice.Client{
			Name:    m.ClientName,
			Email:   m.ClientEmail,
			Phone:   m.ClientPhone,
			Address: m.ClientAddress,
			Company: m.ClientCompany,
		},
		IssueDate: m.IssueDate,
		DueDate:   m.DueDate,
		Items:     m.Items,
		Subtotal:  m.Subtotal,
		TaxRate:   m.TaxRate,
		Discount:  m.Discount,
		Total:     m.Total,
		Status:    invoice.Status(m.Status),
		Notes:     m.Notes,
		Terms:     m.Terms,
		PDFPath:   m.PDFPath,
	}
}

// InvoiceModelFromDomain creates an InvoiceModel from a domain Invoice
func InvoiceModelFromDomain(inv *invoice.Invoice) *InvoiceModel {
	return &InvoiceModel{
		ID:            inv.ID,
		InvoiceNumber: inv.Number,
		UserID:        inv.UserID,
		ClientName:    inv.Client.Name,
		ClientEmail:   inv.Client.Email,
		ClientPhone:   inv.Client.Phone,
		ClientAddress: inv.Client.Address,
		ClientCompany: inv.Client.Company,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Items:         inv.Items,
		Subtotal:      inv.Subtotal,
		TaxRate:       inv.TaxRate,
		Discount:      inv.Discount,
		Total:         inv.Total,
		Status:        string(inv.Status),
		Notes:         inv.Notes,
		Terms:         inv.Terms,
		PDFPath:       inv.PDFPath,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}
