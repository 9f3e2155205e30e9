package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceFormat identifies the source layout of an uploaded trial balance.
type BalanceFormat string

const (
	FormatStandard   BalanceFormat = "standard"   // 8 canonical columns
	FormatExtended   BalanceFormat = "extended"   // 8 canonical columns plus analytic extras
	FormatSimplified BalanceFormat = "simplified" // opening/closing only, no turnover columns
)

// CanonicalField names one of the eight semantic columns every normalized
// trial balance carries.
type CanonicalField string

const (
	FieldAccountCode    CanonicalField = "account_code"
	FieldAccountName    CanonicalField = "account_name"
	FieldOpeningDebit   CanonicalField = "opening_debit"
	FieldOpeningCredit  CanonicalField = "opening_credit"
	FieldDebitTurnover  CanonicalField = "debit_turnover"
	FieldCreditTurnover CanonicalField = "credit_turnover"
	FieldClosingDebit   CanonicalField = "closing_debit"
	FieldClosingCredit  CanonicalField = "closing_credit"
)

// CanonicalFields lists the canonical columns in their output order.
var CanonicalFields = []CanonicalField{
	FieldAccountCode,
	FieldAccountName,
	FieldOpeningDebit,
	FieldOpeningCredit,
	FieldDebitTurnover,
	FieldCreditTurnover,
	FieldClosingDebit,
	FieldClosingCredit,
}

// MonetaryFields lists the six monetary canonical columns.
var MonetaryFields = []CanonicalField{
	FieldOpeningDebit,
	FieldOpeningCredit,
	FieldDebitTurnover,
	FieldCreditTurnover,
	FieldClosingDebit,
	FieldClosingCredit,
}

// ColumnMapping binds each canonical field to its source column index.
// Built once per file by the column mapper and reused for every row.
type ColumnMapping map[CanonicalField]int

// TrialBalanceAccount is one normalized ledger line.
type TrialBalanceAccount struct {
	Line           int             `json:"line"`
	AccountCode    string          `json:"account_code"`
	AccountName    string          `json:"account_name"`
	OpeningDebit   decimal.Decimal `json:"opening_debit"`
	OpeningCredit  decimal.Decimal `json:"opening_credit"`
	DebitTurnover  decimal.Decimal `json:"debit_turnover"`
	CreditTurnover decimal.Decimal `json:"credit_turnover"`
	ClosingDebit   decimal.Decimal `json:"closing_debit"`
	ClosingCredit  decimal.Decimal `json:"closing_credit"`
}

// RawTrialBalanceLine is the untouched source form of one row, kept for
// audit and error reporting when the row fails normalization.
type RawTrialBalanceLine struct {
	Line  int      `json:"line"`
	Cells []string `json:"cells"`
}

// FormatDetectionResult describes the layout the detector settled on.
type FormatDetectionResult struct {
	Format       BalanceFormat `json:"format"`
	Confidence   float64       `json:"confidence"`
	HeaderRow    int           `json:"header_row"`
	DataStartRow int           `json:"data_start_row"`
	Delimiter    string        `json:"delimiter,omitempty"`
}

// FileMetadata describes the input file. Created once per upload and
// attached to the final result.
type FileMetadata struct {
	Filename    string                `json:"filename"`
	Size        int64                 `json:"size"`
	MimeType    string                `json:"mime_type"`
	Format      BalanceFormat         `json:"format"`
	ColumnCount int                   `json:"column_count"`
	Mapping     ColumnMapping         `json:"mapping,omitempty"`
	Detection   FormatDetectionResult `json:"detection"`
	ProcessedAt time.Time             `json:"processed_at"`
}

// Validation finding types (errors)
const (
	ErrFormatDetection    = "format-detection-failed"
	ErrMissingColumn      = "missing-column"
	ErrInvalidNumeric     = "invalid-numeric-value"
	ErrInvalidAccountCode = "invalid-account-code-format"
	ErrOpeningMismatch    = "opening-balance-mismatch"
	ErrClosingMismatch    = "closing-balance-mismatch"
	ErrDuplicateAccount   = "duplicate-account-code"
)

// Validation finding types (warnings)
const (
	WarnInvalidAccountCode   = "invalid-account-code-format"
	WarnTurnoverInconsistent = "turnover-inconsistency"
	WarnNegativeValue        = "negative-value"
	WarnTruncatedInput       = "truncated-input"
)

// ValidationError is a blocking finding. A batch with any error is rejected.
type ValidationError struct {
	Type        string                 `json:"type"`
	Message     string                 `json:"message"`
	Line        int                    `json:"line,omitempty"`
	AccountCode string                 `json:"account_code,omitempty"`
	Field       string                 `json:"field,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Suggestion  string                 `json:"suggestion,omitempty"`
}

// ValidationWarning is an advisory finding. Warnings never reject a batch.
type ValidationWarning struct {
	Type        string                 `json:"type"`
	Message     string                 `json:"message"`
	Line        int                    `json:"line,omitempty"`
	AccountCode string                 `json:"account_code,omitempty"`
	Field       string                 `json:"field,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Suggestion  string                 `json:"suggestion,omitempty"`
}

// ValidationStatistics summarizes one validation run. Check counts are per
// check category, not per row.
type ValidationStatistics struct {
	TotalRows    int           `json:"total_rows"`
	TotalChecks  int           `json:"total_checks"`
	PassedChecks int           `json:"passed_checks"`
	FailedChecks int           `json:"failed_checks"`
	ErrorCount   int           `json:"error_count"`
	WarningCount int           `json:"warning_count"`
	Duration     time.Duration `json:"duration"`
}

// ValidationResult is the validator's output over the full account set.
type ValidationResult struct {
	IsValid    bool                 `json:"is_valid"`
	Errors     []ValidationError    `json:"errors"`
	Warnings   []ValidationWarning  `json:"warnings"`
	Statistics ValidationStatistics `json:"statistics"`
}

// BalanceTotals aggregates the six monetary columns over all accounts.
type BalanceTotals struct {
	OpeningDebit   decimal.Decimal `json:"opening_debit"`
	OpeningCredit  decimal.Decimal `json:"opening_credit"`
	DebitTurnover  decimal.Decimal `json:"debit_turnover"`
	CreditTurnover decimal.Decimal `json:"credit_turnover"`
	ClosingDebit   decimal.Decimal `json:"closing_debit"`
	ClosingCredit  decimal.Decimal `json:"closing_credit"`
}

// PipelineStatus tracks the ingestion state machine.
type PipelineStatus string

const (
	StatusReceived    PipelineStatus = "received"
	StatusDetecting   PipelineStatus = "detecting"
	StatusMapping     PipelineStatus = "mapping"
	StatusNormalizing PipelineStatus = "normalizing"
	StatusValidating  PipelineStatus = "validating"
	StatusAccepted    PipelineStatus = "accepted"
	StatusRejected    PipelineStatus = "rejected"
)

// ParseResult is the terminal aggregate of one pipeline invocation.
// Immutable once returned.
type ParseResult struct {
	Status     PipelineStatus        `json:"status"`
	Accounts   []TrialBalanceAccount `json:"accounts"`
	RawLines   []RawTrialBalanceLine `json:"raw_lines,omitempty"`
	Totals     BalanceTotals         `json:"totals"`
	Errors     []ValidationError     `json:"errors"`
	Warnings   []ValidationWarning   `json:"warnings"`
	Statistics ValidationStatistics  `json:"statistics"`
	Metadata   FileMetadata          `json:"metadata"`
}

// Accepted reports whether the batch passed without blocking errors.
func (r *ParseResult) Accepted() bool {
	return r.Status == StatusAccepted
}

// ProcessingContext is the caller-supplied scope of an import. Read-only
// input to validation; the authorization layer has already verified the
// caller may act on CompanyID.
type ProcessingContext struct {
	CompanyID  int    `json:"company_id"`
	Period     string `json:"period"`
	Currency   string `json:"currency"`
	FiscalYear int    `json:"fiscal_year"`
}

// ProcessingOptions are the caller-supplied pipeline tunables.
type ProcessingOptions struct {
	// BalanceTolerance is the slack allowed when checking debit/credit
	// equality, in reporting-currency units.
	BalanceTolerance float64 `json:"balance_tolerance"`
	// StrictAccountFormat rejects codes not matching XX or XXX.XX.
	StrictAccountFormat bool `json:"strict_account_format"`
	// IgnoreWarnings drops advisory findings from the returned result.
	IgnoreWarnings bool `json:"ignore_warnings"`
	// AutoNormalizeNames trims and collapses whitespace in account names.
	AutoNormalizeNames bool `json:"auto_normalize_names"`
	// MaxLines caps the number of rows processed; the remainder is
	// reported as truncated.
	MaxLines int `json:"max_lines"`
}

// DefaultProcessingOptions returns the pipeline defaults.
func DefaultProcessingOptions() ProcessingOptions {
	return ProcessingOptions{
		BalanceTolerance:   0.01,
		AutoNormalizeNames: true,
		MaxLines:           10000,
	}
}
