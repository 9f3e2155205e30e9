package service

import (
	"strings"

	"finguard/internal/models"

	"github.com/shopspring/decimal"
)

// KPIService computes financial indicators from a normalized trial balance.
// All figures derive from closing balances and period turnover, grouped by
// Romanian chart-of-accounts class prefixes (OMFP 1802/2014).
type KPIService struct{}

func NewKPIService() *KPIService {
	return &KPIService{}
}

// Compute derives the indicator snapshot for one accepted import.
func (s *KPIService) Compute(accounts []models.TrialBalanceAccount, pctx models.ProcessingContext) models.KPISnapshot {
	var (
		fixedAssets decimal.Decimal // class 2
		inventory   decimal.Decimal // class 3
		receivables decimal.Decimal // class 4, net debit accounts
		payables    decimal.Decimal // class 4, net credit accounts
		cash        decimal.Decimal // class 5
		equity      decimal.Decimal // class 1 groups 10-15, net credit
		borrowings  decimal.Decimal // class 1 group 16, net credit
		revenue     decimal.Decimal // class 7 credit turnover
		expenses    decimal.Decimal // class 6 debit turnover
	)

	for _, acc := range accounts {
		net := acc.ClosingDebit.Sub(acc.ClosingCredit)

		switch accountClass(acc.AccountCode) {
		case '1':
			if strings.HasPrefix(acc.AccountCode, "16") {
				borrowings = borrowings.Add(net.Neg())
			} else {
				equity = equity.Add(net.Neg())
			}
		case '2':
			fixedAssets = fixedAssets.Add(net)
		case '3':
			inventory = inventory.Add(net)
		case '4':
			if net.IsNegative() {
				payables = payables.Add(net.Neg())
			} else {
				receivables = receivables.Add(net)
			}
		case '5':
			cash = cash.Add(net)
		case '6':
			expenses = expenses.Add(acc.DebitTurnover.Sub(acc.CreditTurnover))
		case '7':
			revenue = revenue.Add(acc.CreditTurnover.Sub(acc.DebitTurnover))
		}
	}

	currentAssets := inventory.Add(receivables).Add(cash)
	liabilities := payables.Add(borrowings)
	netResult := revenue.Sub(expenses)

	snapshot := models.KPISnapshot{
		CompanyID:      pctx.CompanyID,
		Period:         pctx.Period,
		Revenue:        revenue,
		Expenses:       expenses,
		NetResult:      netResult,
		CurrentAssets:  currentAssets,
		FixedAssets:    fixedAssets,
		Inventory:      inventory,
		Cash:           cash,
		Liabilities:    liabilities,
		Equity:         equity,
		WorkingCapital: currentAssets.Sub(payables),
		CurrentRatio:   safeDiv(currentAssets, payables),
		QuickRatio:     safeDiv(currentAssets.Sub(inventory), payables),
		DebtToEquity:   safeDiv(liabilities, equity),
		NetMargin:      safeDiv(netResult, revenue),
	}
	return snapshot
}

func accountClass(code string) byte {
	if code == "" {
		return 0
	}
	return code[0]
}

// safeDiv returns zero for a zero denominator instead of panicking.
func safeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.DivRound(den, 4)
}
