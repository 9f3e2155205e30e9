package parser

import (
	"testing"

	"finguard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapColumnsStandard(t *testing.T) {
	mapping, err := MapColumns(models.FormatStandard, standardHeader)
	require.NoError(t, err)

	expected := models.ColumnMapping{
		models.FieldAccountCode:    0,
		models.FieldAccountName:    1,
		models.FieldOpeningDebit:   2,
		models.FieldOpeningCredit:  3,
		models.FieldDebitTurnover:  4,
		models.FieldCreditTurnover: 5,
		models.FieldClosingDebit:   6,
		models.FieldClosingCredit:  7,
	}
	assert.Equal(t, expected, mapping)
}

func TestMapColumnsSimplified(t *testing.T) {
	header := []string{
		"Cont", "Denumire",
		"Sold Initial Debitor", "Sold Initial Creditor",
		"Sold Final Debitor", "Sold Final Creditor",
	}

	mapping, err := MapColumns(models.FormatSimplified, header)
	require.NoError(t, err)

	assert.Equal(t, 0, mapping[models.FieldAccountCode])
	assert.Equal(t, 5, mapping[models.FieldClosingCredit])
	_, hasTurnover := mapping[models.FieldDebitTurnover]
	assert.False(t, hasTurnover)
}

func TestMapColumnsExtendedIgnoresExtras(t *testing.T) {
	header := append(append([]string{}, standardHeader...), "Cod analitic", "Centru de cost")

	mapping, err := MapColumns(models.FormatExtended, header)
	require.NoError(t, err)
	assert.Len(t, mapping, len(models.CanonicalFields))
}

func TestMapColumnsMissingRequired(t *testing.T) {
	header := []string{
		"Cont", "Denumire",
		"Sold Initial Debitor", "Sold Initial Creditor",
		"Rulaj Debitor", "Rulaj Creditor",
	}

	_, err := MapColumns(models.FormatStandard, header)
	require.Error(t, err)

	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Fields, models.FieldClosingDebit)
	assert.Contains(t, missing.Fields, models.FieldClosingCredit)
}

func TestMapColumnsLongestSynonymWins(t *testing.T) {
	// "Sold Initial Debitor" contains "debitor" style fragments but must
	// never bind to a turnover field.
	mapping, err := MapColumns(models.FormatStandard, standardHeader)
	require.NoError(t, err)
	assert.Equal(t, 2, mapping[models.FieldOpeningDebit])
	assert.Equal(t, 4, mapping[models.FieldDebitTurnover])
}

func TestMatchFieldVariants(t *testing.T) {
	tests := []struct {
		cell  string
		field models.CanonicalField
	}{
		{"Simbol cont", models.FieldAccountCode},
		{"DENUMIREA CONTULUI", models.FieldAccountName},
		{"Solduri initiale debitoare", models.FieldOpeningDebit},
		{"Total rulaj creditor", models.FieldCreditTurnover},
		{"Sold final creditor", models.FieldClosingCredit},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			field, score := matchField(tt.cell)
			assert.Equal(t, tt.field, field)
			assert.Greater(t, score, 0.0)
		})
	}
}
