package domain

import (
	"strconv"
	"strings"
)

// ValidateQuery rejects queries that are empty after trimming.
func ValidateQuery(text string) error {
	if strings.TrimSpace(text) == "" {
		return NewValidationError("query", text, ErrEmptyQuery)
	}
	return nil
}

// ValidateTopK rejects non-positive result counts.
func ValidateTopK(topK int) error {
	if topK < 1 {
		return NewValidationError("topK", strconv.Itoa(topK), ErrInvalidTopK)
	}
	return nil
}
