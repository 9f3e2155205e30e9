package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Import session statuses
const (
	ImportStatusUploaded   = "uploaded"
	ImportStatusProcessing = "processing"
	ImportStatusAccepted   = "accepted"
	ImportStatusRejected   = "rejected"
	ImportStatusFailed     = "failed"
	ImportStatusCanceled   = "canceled"
)

// BalanceImport is one uploaded trial-balance file and its processing state.
// Data-quality rejection keeps the full result for display; "failed" is
// reserved for I/O-level faults.
type BalanceImport struct {
	ID           int       `db:"id" json:"id"`
	Reference    string    `db:"reference" json:"reference"`
	CompanyID    int       `db:"company_id" json:"company_id"`
	UserID       int       `db:"user_id" json:"user_id"`
	Filename     string    `db:"filename" json:"filename"`
	FilePath     string    `db:"file_path" json:"file_path"`
	Format       string    `db:"format" json:"format"`
	Confidence   float64   `db:"confidence" json:"confidence"`
	Period       string    `db:"period" json:"period"`
	FiscalYear   int       `db:"fiscal_year" json:"fiscal_year"`
	Currency     string    `db:"currency" json:"currency"`
	TotalRows    int       `db:"total_rows" json:"total_rows"`
	AcceptedRows int       `db:"accepted_rows" json:"accepted_rows"`
	ErrorCount   int       `db:"error_count" json:"error_count"`
	WarningCount int       `db:"warning_count" json:"warning_count"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// BalanceAccountRow is a persisted normalized ledger line.
type BalanceAccountRow struct {
	ID             int64           `db:"id" json:"id"`
	ImportID       int             `db:"import_id" json:"import_id"`
	Line           int             `db:"line" json:"line"`
	AccountCode    string          `db:"account_code" json:"account_code"`
	AccountName    string          `db:"account_name" json:"account_name"`
	OpeningDebit   decimal.Decimal `db:"opening_debit" json:"opening_debit"`
	OpeningCredit  decimal.Decimal `db:"opening_credit" json:"opening_credit"`
	DebitTurnover  decimal.Decimal `db:"debit_turnover" json:"debit_turnover"`
	CreditTurnover decimal.Decimal `db:"credit_turnover" json:"credit_turnover"`
	ClosingDebit   decimal.Decimal `db:"closing_debit" json:"closing_debit"`
	ClosingCredit  decimal.Decimal `db:"closing_credit" json:"closing_credit"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// Account converts a persisted row back to its pipeline form.
func (r BalanceAccountRow) Account() TrialBalanceAccount {
	return TrialBalanceAccount{
		Line:           r.Line,
		AccountCode:    r.AccountCode,
		AccountName:    r.AccountName,
		OpeningDebit:   r.OpeningDebit,
		OpeningCredit:  r.OpeningCredit,
		DebitTurnover:  r.DebitTurnover,
		CreditTurnover: r.CreditTurnover,
		ClosingDebit:   r.ClosingDebit,
		ClosingCredit:  r.ClosingCredit,
	}
}

// ImportFinding is a persisted validation error or warning.
type ImportFinding struct {
	ID          int64     `db:"id" json:"id"`
	ImportID    int       `db:"import_id" json:"import_id"`
	Severity    string    `db:"severity" json:"severity"`
	Type        string    `db:"type" json:"type"`
	Message     string    `db:"message" json:"message"`
	Line        int       `db:"line" json:"line"`
	AccountCode string    `db:"account_code" json:"account_code"`
	Field       string    `db:"field" json:"field"`
	Suggestion  string    `db:"suggestion" json:"suggestion"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
