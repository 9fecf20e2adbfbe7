package middleware

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTextLength caps pasted ingredient text and chat turns.
const MaxTextLength = 20000

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateText rejects text over MaxTextLength runes.
func ValidateText(field, text string) error {
	if n := utf8.RuneCountInString(text); n > MaxTextLength {
		return fmt.Errorf("%s is too long (%d characters, max %d)", field, n, MaxTextLength)
	}
	return nil
}

// ValidateScanID checks the id is a UUID as issued by the service.
func ValidateScanID(scanID string) error {
	if scanID == "" {
		return fmt.Errorf("scan ID cannot be empty")
	}
	if _, err := uuid.Parse(scanID); err != nil {
		return fmt.Errorf("invalid scan ID format")
	}
	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
