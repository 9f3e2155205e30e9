package service

import (
	"path/filepath"
	"testing"

	"finguard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportParseResult(t *testing.T) {
	result := &models.ParseResult{
		Status: models.StatusAccepted,
		Accounts: []models.TrialBalanceAccount{
			{Line: 2, AccountCode: "401", AccountName: "Furnizori", OpeningCredit: dec("1000")},
			{Line: 3, AccountCode: "411", AccountName: "Clienti", OpeningDebit: dec("1000")},
		},
		Totals: models.BalanceTotals{
			OpeningDebit:  dec("1000"),
			OpeningCredit: dec("1000"),
		},
		Warnings: []models.ValidationWarning{
			{Type: models.WarnNegativeValue, Line: 3, AccountCode: "411", Message: "account 411: negative value"},
		},
	}

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, NewExcelService().ExportParseResult(result, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Balanta")
	require.NoError(t, err)
	// Header, two accounts, totals row
	require.Len(t, rows, 4)
	assert.Equal(t, "Cont", rows[0][0])
	assert.Equal(t, "401", rows[1][0])
	assert.Equal(t, "TOTAL", rows[3][0])
	assert.Equal(t, "1000.00", rows[3][2])

	findings, err := f.GetRows("Constatari")
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, "warning", findings[1][0])
	assert.Equal(t, models.WarnNegativeValue, findings[1][1])
}

func TestGenerateBalanceTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, NewExcelService().GenerateBalanceTemplate(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Balanta de verificare")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Cont", rows[0][0])
	assert.Equal(t, "Sold Final Creditor", rows[0][7])
	// Sample rows follow the header
	assert.Equal(t, "101", rows[1][0])
}
