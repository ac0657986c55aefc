package invoice

import (
	"fmt"
	"regexp"
	"strings"
)

// NumberPrefix is the fixed prefix for generated invoice numbers
const NumberPrefix = "INV-"

var numberPattern = regexp.MustCompile(`^INV-\d{6}$`)

// NextNumber derives the next invoice number from the current invoice count.
//
// This is a count-based scheme: two concurrent creations reading the same
// count produce the same candidate. Uniqueness is enforced by the storage
// layer's unique index on invoice_number; callers must treat a rejection as
// a retryable conflict and re-read the count.
func NextNumber(count int64) string {
	return fmt.Sprintf("%s%06d", NumberPrefix, count+1)
}

// IsValidNumber reports whether s matches the generated number format
func IsValidNumber(s string) bool {
	return numberPattern.MatchString(s)
}

// NormalizeNumber trims and uppercases a caller-supplied invoice number
func NormalizeNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
