package persistence

import "strings"

// InvoiceSortFields is the whitelist of sortable invoice columns.
// Sorting is restricted to known columns to prevent SQL injection via
// order-by parameters.
var InvoiceSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"issue_date":     true,
	"due_date":       true,
	"total":          true,
	"status":         true,
	"client_name":    true,
}

// ValidateSortField returns the requested field if whitelisted, otherwise the fallback
func ValidateSortField(field string, allowed map[string]bool, fallback string) string {
	field = strings.ToLower(strings.TrimSpace(field))
	if allowed[field] {
		return field
	}
	return fallback
}

// ValidateSortOrder returns "asc" or "desc", defaulting to "desc"
func ValidateSortOrder(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "asc"
	}
	return "desc"
}
