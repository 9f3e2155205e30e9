package parser

import (
	"testing"

	"finguard/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func balancedAccounts() []models.TrialBalanceAccount {
	return []models.TrialBalanceAccount{
		{
			Line: 2, AccountCode: "101", AccountName: "Capital social",
			OpeningDebit: dec("0"), OpeningCredit: dec("50000"),
			DebitTurnover: dec("0"), CreditTurnover: dec("0"),
			ClosingDebit: dec("0"), ClosingCredit: dec("50000"),
		},
		{
			Line: 3, AccountCode: "212", AccountName: "Constructii",
			OpeningDebit: dec("50000"), OpeningCredit: dec("0"),
			DebitTurnover: dec("0"), CreditTurnover: dec("0"),
			ClosingDebit: dec("50000"), ClosingCredit: dec("0"),
		},
	}
}

func TestValidateBalancedSet(t *testing.T) {
	v := NewValidator(models.DefaultProcessingOptions())

	result := v.Validate(balancedAccounts(), models.ProcessingContext{}, 0)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 6, result.Statistics.TotalChecks)
	assert.Equal(t, 6, result.Statistics.PassedChecks)
}

func TestValidateOpeningMismatch(t *testing.T) {
	accounts := balancedAccounts()
	accounts[1].OpeningDebit = dec("49000")

	v := NewValidator(models.DefaultProcessingOptions())
	result := v.Validate(accounts, models.ProcessingContext{}, 0)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ErrOpeningMismatch, result.Errors[0].Type)
	assert.Equal(t, "1000", result.Errors[0].Details["difference"])
}

func TestValidateClosingMismatchWithinTolerance(t *testing.T) {
	accounts := balancedAccounts()
	accounts[1].ClosingDebit = dec("50000.009")

	v := NewValidator(models.DefaultProcessingOptions())
	result := v.Validate(accounts, models.ProcessingContext{}, 0)

	// 0.009 is inside the default 0.01 tolerance, but it also breaks the
	// per-account turnover identity, which is advisory.
	hasClosingError := false
	for _, e := range result.Errors {
		if e.Type == models.ErrClosingMismatch {
			hasClosingError = true
		}
	}
	assert.False(t, hasClosingError)
}

func TestValidateDuplicateCodes(t *testing.T) {
	accounts := balancedAccounts()
	dup := accounts[1]
	dup.Line = 4
	dup.OpeningDebit = dec("0")
	dup.ClosingDebit = dec("0")
	accounts = append(accounts, dup)
	accounts[0].OpeningCredit = dec("50000")
	accounts[0].ClosingCredit = dec("50000")

	v := NewValidator(models.DefaultProcessingOptions())
	result := v.Validate(accounts, models.ProcessingContext{}, 0)

	assert.False(t, result.IsValid)

	var dupErr *models.ValidationError
	for i := range result.Errors {
		if result.Errors[i].Type == models.ErrDuplicateAccount {
			dupErr = &result.Errors[i]
		}
	}
	require.NotNil(t, dupErr)
	assert.Equal(t, "212", dupErr.AccountCode)
	assert.ElementsMatch(t, []int{3, 4}, dupErr.Details["lines"])
}

func TestValidateTurnoverInconsistencyWarns(t *testing.T) {
	accounts := []models.TrialBalanceAccount{
		{
			Line: 2, AccountCode: "301", AccountName: "Materii prime",
			OpeningDebit: dec("100"), OpeningCredit: dec("0"),
			DebitTurnover: dec("50"), CreditTurnover: dec("0"),
			// Expected closing is 150, so this row is internally inconsistent.
			ClosingDebit: dec("100"), ClosingCredit: dec("0"),
		},
		{
			Line: 3, AccountCode: "401", AccountName: "Furnizori",
			OpeningDebit: dec("0"), OpeningCredit: dec("100"),
			DebitTurnover: dec("0"), CreditTurnover: dec("0"),
			ClosingDebit: dec("0"), ClosingCredit: dec("100"),
		},
	}

	v := NewValidator(models.DefaultProcessingOptions())
	result := v.Validate(accounts, models.ProcessingContext{}, 0)

	// Closing totals no longer balance, but the turnover finding itself
	// must stay a warning.
	found := false
	for _, w := range result.Warnings {
		if w.Type == models.WarnTurnoverInconsistent {
			found = true
			assert.Equal(t, "301", w.AccountCode)
		}
	}
	assert.True(t, found)
}

func TestValidateNegativeValuesWarn(t *testing.T) {
	accounts := balancedAccounts()
	accounts[0].DebitTurnover = dec("-25")
	accounts[1].CreditTurnover = dec("-25")

	v := NewValidator(models.DefaultProcessingOptions())
	result := v.Validate(accounts, models.ProcessingContext{}, 0)

	assert.True(t, result.IsValid, "negative values are advisory only")
	negatives := 0
	for _, w := range result.Warnings {
		if w.Type == models.WarnNegativeValue {
			negatives++
		}
	}
	assert.Equal(t, 2, negatives)
}

func TestValidateTruncationWarns(t *testing.T) {
	v := NewValidator(models.DefaultProcessingOptions())
	result := v.Validate(balancedAccounts(), models.ProcessingContext{}, 50)

	assert.True(t, result.IsValid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, models.WarnTruncatedInput, result.Warnings[0].Type)
	assert.Equal(t, 50, result.Warnings[0].Details["skipped_rows"])
}

func TestValidateStrictFormatBackstop(t *testing.T) {
	opts := models.DefaultProcessingOptions()
	opts.StrictAccountFormat = true

	accounts := balancedAccounts()
	accounts[0].AccountCode = "TOTAL"

	v := NewValidator(opts)
	result := v.Validate(accounts, models.ProcessingContext{}, 0)

	assert.False(t, result.IsValid)
	found := false
	for _, e := range result.Errors {
		if e.Type == models.ErrInvalidAccountCode {
			found = true
		}
	}
	assert.True(t, found)
}
