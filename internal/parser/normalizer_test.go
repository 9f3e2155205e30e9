package parser

import (
	"testing"

	"finguard/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var standardMapping = models.ColumnMapping{
	models.FieldAccountCode:    0,
	models.FieldAccountName:    1,
	models.FieldOpeningDebit:   2,
	models.FieldOpeningCredit:  3,
	models.FieldDebitTurnover:  4,
	models.FieldCreditTurnover: 5,
	models.FieldClosingDebit:   6,
	models.FieldClosingCredit:  7,
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "0", false},
		{"-", "0", false},
		{"   ", "0", false},
		{"1234", "1234", false},
		{"1234,56", "1234.56", false},
		{"1.234,56", "1234.56", false},
		{"1.234.567,89", "1234567.89", false},
		{"1.234.567", "1234567", false},
		{"1234.56", "1234.56", false},
		{"1,234.56", "1234.56", false},
		{"1 234,50", "1234.5", false},
		{"(100,00)", "-100", false},
		{"-250,75", "-250.75", false},
		{"0,00", "0", false},
		{"abc", "", true},
		{"12.34.56", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			want, _ := decimal.NewFromString(tt.want)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestNormalizeRow(t *testing.T) {
	opts := models.DefaultProcessingOptions()
	n := NewNormalizer(opts)

	t.Run("valid row", func(t *testing.T) {
		raw := models.RawTrialBalanceLine{
			Line:  3,
			Cells: []string{"411", "Clienti", "1.000,00", "0", "500,00", "200,00", "1.300,00", "0"},
		}
		out := n.NormalizeRow(raw, standardMapping)
		require.NotNil(t, out.Account)
		assert.Nil(t, out.Err)
		assert.Equal(t, "411", out.Account.AccountCode)
		assert.True(t, out.Account.OpeningDebit.Equal(decimal.NewFromInt(1000)))
		assert.True(t, out.Account.ClosingDebit.Equal(decimal.NewFromInt(1300)))
	})

	t.Run("blank separator row skipped", func(t *testing.T) {
		raw := models.RawTrialBalanceLine{
			Line:  4,
			Cells: []string{"", "", "", "", "", "", "", ""},
		}
		out := n.NormalizeRow(raw, standardMapping)
		assert.True(t, out.Skipped)
		assert.Nil(t, out.Account)
	})

	t.Run("unparsable amount", func(t *testing.T) {
		raw := models.RawTrialBalanceLine{
			Line:  5,
			Cells: []string{"401", "Furnizori", "n/a", "0", "0", "0", "0", "0"},
		}
		out := n.NormalizeRow(raw, standardMapping)
		require.NotNil(t, out.Err)
		assert.Nil(t, out.Account)
		assert.Equal(t, models.ErrInvalidNumeric, out.Err.Type)
		assert.Equal(t, 5, out.Err.Line)
		assert.Equal(t, string(models.FieldOpeningDebit), out.Err.Field)
	})

	t.Run("analytic code accepted", func(t *testing.T) {
		raw := models.RawTrialBalanceLine{
			Line:  6,
			Cells: []string{"512.01", "Banca in lei", "100", "0", "0", "0", "100", "0"},
		}
		out := n.NormalizeRow(raw, standardMapping)
		require.NotNil(t, out.Account)
		assert.Nil(t, out.Warning)
	})

	t.Run("odd code warns by default", func(t *testing.T) {
		raw := models.RawTrialBalanceLine{
			Line:  7,
			Cells: []string{"TOTAL", "Total general", "100", "0", "0", "0", "100", "0"},
		}
		out := n.NormalizeRow(raw, standardMapping)
		require.NotNil(t, out.Account)
		require.NotNil(t, out.Warning)
		assert.Equal(t, models.WarnInvalidAccountCode, out.Warning.Type)
	})

	t.Run("name whitespace collapsed", func(t *testing.T) {
		raw := models.RawTrialBalanceLine{
			Line:  8,
			Cells: []string{"371", "  Marfuri   in   depozit ", "0", "0", "10", "0", "10", "0"},
		}
		out := n.NormalizeRow(raw, standardMapping)
		require.NotNil(t, out.Account)
		assert.Equal(t, "Marfuri in depozit", out.Account.AccountName)
	})
}

func TestNormalizeRowStrictAccountFormat(t *testing.T) {
	opts := models.DefaultProcessingOptions()
	opts.StrictAccountFormat = true
	n := NewNormalizer(opts)

	raw := models.RawTrialBalanceLine{
		Line:  2,
		Cells: []string{"TOTAL", "Total general", "100", "0", "0", "0", "100", "0"},
	}
	out := n.NormalizeRow(raw, standardMapping)
	require.NotNil(t, out.Err)
	assert.Nil(t, out.Account)
	assert.Equal(t, models.ErrInvalidAccountCode, out.Err.Type)
}

func TestNormalizeRowSimplifiedMapping(t *testing.T) {
	mapping := models.ColumnMapping{
		models.FieldAccountCode:   0,
		models.FieldAccountName:   1,
		models.FieldOpeningDebit:  2,
		models.FieldOpeningCredit: 3,
		models.FieldClosingDebit:  4,
		models.FieldClosingCredit: 5,
	}
	n := NewNormalizer(models.DefaultProcessingOptions())

	raw := models.RawTrialBalanceLine{
		Line:  2,
		Cells: []string{"101", "Capital social", "0", "50000", "0", "50000"},
	}
	out := n.NormalizeRow(raw, mapping)
	require.NotNil(t, out.Account)
	assert.True(t, out.Account.DebitTurnover.IsZero())
	assert.True(t, out.Account.CreditTurnover.IsZero())
	assert.True(t, out.Account.ClosingCredit.Equal(decimal.NewFromInt(50000)))
}
