package parser

import (
	"finguard/internal/models"
)

// requiredFields returns the canonical fields a format must map. Simplified
// balances carry no turnover columns; those default to zero downstream.
func requiredFields(format models.BalanceFormat) []models.CanonicalField {
	if format == models.FormatSimplified {
		return []models.CanonicalField{
			models.FieldAccountCode,
			models.FieldAccountName,
			models.FieldOpeningDebit,
			models.FieldOpeningCredit,
			models.FieldClosingDebit,
			models.FieldClosingCredit,
		}
	}
	return models.CanonicalFields
}

// MapColumns binds each canonical field to the best-matching header column.
// Pure function of the header row and format. Extra analytic columns in
// extended layouts are left unmapped on purpose.
func MapColumns(format models.BalanceFormat, header []string) (models.ColumnMapping, error) {
	type match struct {
		column int
		score  float64
	}
	best := make(map[models.CanonicalField]match)

	for col, cell := range header {
		field, score := matchField(cell)
		if score == 0 {
			continue
		}
		if prev, ok := best[field]; !ok || score > prev.score {
			best[field] = match{column: col, score: score}
		}
	}

	mapping := make(models.ColumnMapping, len(best))
	for field, m := range best {
		mapping[field] = m.column
	}

	var missing []models.CanonicalField
	for _, field := range requiredFields(format) {
		if _, ok := mapping[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Format: format, Fields: missing}
	}

	return mapping, nil
}
