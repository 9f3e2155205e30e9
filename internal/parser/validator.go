package parser

import (
	"fmt"
	"sort"
	"time"

	"finguard/internal/models"

	"github.com/shopspring/decimal"
)

// Validator runs the business-rule checks over a normalized account set.
// Checks are independent: one failing category never skips another.
type Validator struct {
	opts      models.ProcessingOptions
	tolerance decimal.Decimal
}

func NewValidator(opts models.ProcessingOptions) *Validator {
	return &Validator{
		opts:      opts,
		tolerance: decimal.NewFromFloat(opts.BalanceTolerance),
	}
}

// Validate runs all check categories. truncatedRows is the number of rows
// the orchestrator dropped past the MaxLines cap.
func (v *Validator) Validate(accounts []models.TrialBalanceAccount, pctx models.ProcessingContext, truncatedRows int) models.ValidationResult {
	start := time.Now()

	result := models.ValidationResult{
		Errors:   []models.ValidationError{},
		Warnings: []models.ValidationWarning{},
	}

	checks := []func([]models.TrialBalanceAccount, *models.ValidationResult) bool{
		v.checkBalanceEquality,
		v.checkTurnoverConsistency,
		v.checkDuplicateCodes,
		v.checkAccountFormat,
		v.checkNonNegativity,
	}
	for _, check := range checks {
		result.Statistics.TotalChecks++
		if check(accounts, &result) {
			result.Statistics.PassedChecks++
		} else {
			result.Statistics.FailedChecks++
		}
	}

	// Row count sanity runs against the orchestrator's truncation outcome.
	result.Statistics.TotalChecks++
	if truncatedRows > 0 {
		result.Statistics.FailedChecks++
		result.Warnings = append(result.Warnings, models.ValidationWarning{
			Type:    models.WarnTruncatedInput,
			Message: fmt.Sprintf("input truncated: %d rows past the line cap were skipped", truncatedRows),
			Details: map[string]interface{}{"skipped_rows": truncatedRows},
		})
	} else {
		result.Statistics.PassedChecks++
	}

	result.IsValid = len(result.Errors) == 0
	result.Statistics.ErrorCount = len(result.Errors)
	result.Statistics.WarningCount = len(result.Warnings)
	result.Statistics.Duration = time.Since(start)
	return result
}

// checkBalanceEquality verifies that opening debits equal opening credits
// and closing debits equal closing credits, within tolerance.
func (v *Validator) checkBalanceEquality(accounts []models.TrialBalanceAccount, result *models.ValidationResult) bool {
	var openingDebit, openingCredit, closingDebit, closingCredit decimal.Decimal
	for _, acc := range accounts {
		openingDebit = openingDebit.Add(acc.OpeningDebit)
		openingCredit = openingCredit.Add(acc.OpeningCredit)
		closingDebit = closingDebit.Add(acc.ClosingDebit)
		closingCredit = closingCredit.Add(acc.ClosingCredit)
	}

	ok := true
	if diff := openingDebit.Sub(openingCredit).Abs(); diff.GreaterThan(v.tolerance) {
		ok = false
		result.Errors = append(result.Errors, models.ValidationError{
			Type: models.ErrOpeningMismatch,
			Message: fmt.Sprintf("opening balance mismatch: debits %s vs credits %s (difference %s)",
				openingDebit, openingCredit, diff),
			Details: map[string]interface{}{
				"debit_total":  openingDebit.String(),
				"credit_total": openingCredit.String(),
				"difference":   diff.String(),
			},
			Suggestion: "check for missing accounts or a partially exported balance",
		})
	}
	if diff := closingDebit.Sub(closingCredit).Abs(); diff.GreaterThan(v.tolerance) {
		ok = false
		result.Errors = append(result.Errors, models.ValidationError{
			Type: models.ErrClosingMismatch,
			Message: fmt.Sprintf("closing balance mismatch: debits %s vs credits %s (difference %s)",
				closingDebit, closingCredit, diff),
			Details: map[string]interface{}{
				"debit_total":  closingDebit.String(),
				"credit_total": closingCredit.String(),
				"difference":   diff.String(),
			},
			Suggestion: "check for missing accounts or a partially exported balance",
		})
	}
	return ok
}

// checkTurnoverConsistency verifies per account that
// closing = opening + turnover on a net basis. Advisory only: carry-forward
// nuances across periods cause benign mismatches.
func (v *Validator) checkTurnoverConsistency(accounts []models.TrialBalanceAccount, result *models.ValidationResult) bool {
	ok := true
	for _, acc := range accounts {
		closingNet := acc.ClosingDebit.Sub(acc.ClosingCredit)
		expected := acc.OpeningDebit.Sub(acc.OpeningCredit).
			Add(acc.DebitTurnover.Sub(acc.CreditTurnover))
		if closingNet.Sub(expected).Abs().GreaterThan(v.tolerance) {
			ok = false
			result.Warnings = append(result.Warnings, models.ValidationWarning{
				Type:        models.WarnTurnoverInconsistent,
				Message:     fmt.Sprintf("account %s: closing balance does not equal opening plus turnover", acc.AccountCode),
				Line:        acc.Line,
				AccountCode: acc.AccountCode,
			})
		}
	}
	return ok
}

// checkDuplicateCodes flags account codes appearing more than once.
func (v *Validator) checkDuplicateCodes(accounts []models.TrialBalanceAccount, result *models.ValidationResult) bool {
	lines := make(map[string][]int)
	for _, acc := range accounts {
		lines[acc.AccountCode] = append(lines[acc.AccountCode], acc.Line)
	}

	var duplicated []string
	for code, l := range lines {
		if len(l) > 1 {
			duplicated = append(duplicated, code)
		}
	}
	sort.Strings(duplicated)

	for _, code := range duplicated {
		result.Errors = append(result.Errors, models.ValidationError{
			Type:        models.ErrDuplicateAccount,
			Message:     fmt.Sprintf("account code %s appears %d times", code, len(lines[code])),
			AccountCode: code,
			Details:     map[string]interface{}{"lines": lines[code]},
			Suggestion:  "merge duplicate rows before uploading",
		})
	}
	return len(duplicated) == 0
}

// checkAccountFormat re-validates code shapes under strict mode. The
// normalizer already rejects such rows when strict, so this is a backstop
// for accounts injected by other paths.
func (v *Validator) checkAccountFormat(accounts []models.TrialBalanceAccount, result *models.ValidationResult) bool {
	if !v.opts.StrictAccountFormat {
		return true
	}
	ok := true
	for _, acc := range accounts {
		if !accountCodePattern.MatchString(acc.AccountCode) {
			ok = false
			result.Errors = append(result.Errors, models.ValidationError{
				Type:        models.ErrInvalidAccountCode,
				Message:     fmt.Sprintf("account code %q does not match XX or XXX.XX", acc.AccountCode),
				Line:        acc.Line,
				AccountCode: acc.AccountCode,
			})
		}
	}
	return ok
}

// checkNonNegativity flags negative monetary fields. Advisory: adjustment
// entries legitimately go negative in some exports.
func (v *Validator) checkNonNegativity(accounts []models.TrialBalanceAccount, result *models.ValidationResult) bool {
	ok := true
	for _, acc := range accounts {
		fields := map[models.CanonicalField]decimal.Decimal{
			models.FieldOpeningDebit:   acc.OpeningDebit,
			models.FieldOpeningCredit:  acc.OpeningCredit,
			models.FieldDebitTurnover:  acc.DebitTurnover,
			models.FieldCreditTurnover: acc.CreditTurnover,
			models.FieldClosingDebit:   acc.ClosingDebit,
			models.FieldClosingCredit:  acc.ClosingCredit,
		}
		for _, field := range models.MonetaryFields {
			if fields[field].IsNegative() {
				ok = false
				result.Warnings = append(result.Warnings, models.ValidationWarning{
					Type:        models.WarnNegativeValue,
					Message:     fmt.Sprintf("account %s: negative value in %s", acc.AccountCode, field),
					Line:        acc.Line,
					AccountCode: acc.AccountCode,
					Field:       string(field),
				})
			}
		}
	}
	return ok
}
