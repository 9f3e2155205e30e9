package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPISnapshot holds the financial indicators computed from one accepted
// import. Ratios with a zero denominator are stored as zero.
type KPISnapshot struct {
	ID             int64           `db:"id" json:"id"`
	CompanyID      int             `db:"company_id" json:"company_id"`
	ImportID       int             `db:"import_id" json:"import_id"`
	Period         string          `db:"period" json:"period"`
	Revenue        decimal.Decimal `db:"revenue" json:"revenue"`
	Expenses       decimal.Decimal `db:"expenses" json:"expenses"`
	NetResult      decimal.Decimal `db:"net_result" json:"net_result"`
	CurrentAssets  decimal.Decimal `db:"current_assets" json:"current_assets"`
	FixedAssets    decimal.Decimal `db:"fixed_assets" json:"fixed_assets"`
	Inventory      decimal.Decimal `db:"inventory" json:"inventory"`
	Cash           decimal.Decimal `db:"cash" json:"cash"`
	Liabilities    decimal.Decimal `db:"liabilities" json:"liabilities"`
	Equity         decimal.Decimal `db:"equity" json:"equity"`
	WorkingCapital decimal.Decimal `db:"working_capital" json:"working_capital"`
	CurrentRatio   decimal.Decimal `db:"current_ratio" json:"current_ratio"`
	QuickRatio     decimal.Decimal `db:"quick_ratio" json:"quick_ratio"`
	DebtToEquity   decimal.Decimal `db:"debt_to_equity" json:"debt_to_equity"`
	NetMargin      decimal.Decimal `db:"net_margin" json:"net_margin"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
