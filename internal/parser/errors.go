package parser

import (
	"fmt"
	"strings"

	"finguard/internal/models"
)

// FormatDetectionError means no usable trial-balance layout was found.
// Fatal for the whole import.
type FormatDetectionError struct {
	Reason string
}

func (e *FormatDetectionError) Error() string {
	return fmt.Sprintf("format detection failed: %s", e.Reason)
}

// MissingColumnError names the canonical fields the header row did not
// provide for the detected format. Fatal for the whole import.
type MissingColumnError struct {
	Format models.BalanceFormat
	Fields []models.CanonicalField
}

func (e *MissingColumnError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("missing required columns for %s format: %s",
		e.Format, strings.Join(names, ", "))
}
