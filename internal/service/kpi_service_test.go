package service

import (
	"testing"

	"finguard/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func TestComputeKPISnapshot(t *testing.T) {
	accounts := []models.TrialBalanceAccount{
		// Equity: 101 Capital social, credit balance
		{AccountCode: "101", ClosingCredit: dec("50000")},
		// Borrowings: 162 Credite bancare pe termen lung
		{AccountCode: "162", ClosingCredit: dec("20000")},
		// Fixed assets: 212 Constructii
		{AccountCode: "212", ClosingDebit: dec("40000")},
		// Inventory: 371 Marfuri
		{AccountCode: "371", ClosingDebit: dec("10000")},
		// Receivables: 411 Clienti, net debit
		{AccountCode: "411", ClosingDebit: dec("15000")},
		// Payables: 401 Furnizori, net credit
		{AccountCode: "401", ClosingCredit: dec("12000")},
		// Cash: 512.1
		{AccountCode: "512.1", ClosingDebit: dec("17000")},
		// Result accounts via turnover
		{AccountCode: "601", DebitTurnover: dec("8000")},
		{AccountCode: "704", CreditTurnover: dec("14000")},
	}

	pctx := models.ProcessingContext{CompanyID: 7, Period: "2025-12"}
	snapshot := NewKPIService().Compute(accounts, pctx)

	assert.Equal(t, 7, snapshot.CompanyID)
	assert.Equal(t, "2025-12", snapshot.Period)

	assert.True(t, snapshot.Revenue.Equal(dec("14000")))
	assert.True(t, snapshot.Expenses.Equal(dec("8000")))
	assert.True(t, snapshot.NetResult.Equal(dec("6000")))

	assert.True(t, snapshot.FixedAssets.Equal(dec("40000")))
	assert.True(t, snapshot.Inventory.Equal(dec("10000")))
	assert.True(t, snapshot.Cash.Equal(dec("17000")))

	// inventory + receivables + cash
	assert.True(t, snapshot.CurrentAssets.Equal(dec("42000")))
	// payables + borrowings
	assert.True(t, snapshot.Liabilities.Equal(dec("32000")))
	assert.True(t, snapshot.Equity.Equal(dec("50000")))
	// current assets - payables
	assert.True(t, snapshot.WorkingCapital.Equal(dec("30000")))

	assert.True(t, snapshot.CurrentRatio.Equal(dec("3.5")))
	assert.True(t, snapshot.DebtToEquity.Equal(dec("0.64")))
}

func TestComputeKPIRatiosWithZeroDenominator(t *testing.T) {
	accounts := []models.TrialBalanceAccount{
		{AccountCode: "212", ClosingDebit: dec("1000")},
	}

	snapshot := NewKPIService().Compute(accounts, models.ProcessingContext{})

	assert.True(t, snapshot.CurrentRatio.IsZero())
	assert.True(t, snapshot.QuickRatio.IsZero())
	assert.True(t, snapshot.DebtToEquity.IsZero())
	assert.True(t, snapshot.NetMargin.IsZero())
}

func TestComputeKPIReceivablePayableSplit(t *testing.T) {
	accounts := []models.TrialBalanceAccount{
		// Class 4 account with a net debit balance counts as a receivable,
		// a net credit balance as a payable.
		{AccountCode: "411", ClosingDebit: dec("9000"), ClosingCredit: dec("1000")},
		{AccountCode: "401", ClosingDebit: dec("2000"), ClosingCredit: dec("12000")},
	}

	snapshot := NewKPIService().Compute(accounts, models.ProcessingContext{})

	assert.True(t, snapshot.CurrentAssets.Equal(dec("8000")))
	assert.True(t, snapshot.Liabilities.Equal(dec("10000")))
}
