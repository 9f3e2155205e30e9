package parser

import (
	"fmt"
	"regexp"
	"strings"

	"finguard/internal/models"

	"github.com/shopspring/decimal"
)

// accountCodePattern is the Romanian chart-of-accounts code shape
// (OMFP 1802/2014): synthetic XX/XXX, optionally with an analytic suffix.
var accountCodePattern = regexp.MustCompile(`^\d{2,3}(\.\d{1,2})?$`)

// Normalizer converts raw rows into canonical accounts, one row at a time,
// without aborting the batch on row-level problems.
type Normalizer struct {
	opts models.ProcessingOptions
}

func NewNormalizer(opts models.ProcessingOptions) *Normalizer {
	return &Normalizer{opts: opts}
}

// RowResult is the outcome of normalizing one raw line. Exactly one of
// Account and Err is set unless the row was a blank separator (Skipped).
// Warning may accompany a successful Account.
type RowResult struct {
	Account *models.TrialBalanceAccount
	Err     *models.ValidationError
	Warning *models.ValidationWarning
	Skipped bool
}

// NormalizeRow converts one raw line using the prebuilt column mapping.
func (n *Normalizer) NormalizeRow(raw models.RawTrialBalanceLine, mapping models.ColumnMapping) RowResult {
	code := strings.TrimSpace(cellAt(raw.Cells, mapping, models.FieldAccountCode))
	name := cellAt(raw.Cells, mapping, models.FieldAccountName)

	amounts := make(map[models.CanonicalField]decimal.Decimal, len(models.MonetaryFields))
	for _, field := range models.MonetaryFields {
		col, mapped := mapping[field]
		if !mapped {
			// Simplified layouts carry no turnover columns.
			amounts[field] = decimal.Zero
			continue
		}
		value, err := ParseAmount(cellValue(raw.Cells, col))
		if err != nil {
			return RowResult{Err: &models.ValidationError{
				Type:        models.ErrInvalidNumeric,
				Message:     fmt.Sprintf("line %d: unparsable value %q in column %s", raw.Line, cellValue(raw.Cells, col), field),
				Line:        raw.Line,
				AccountCode: code,
				Field:       string(field),
				Suggestion:  "use Romanian number formatting, e.g. 1.234,56",
			}}
		}
		amounts[field] = value
	}

	// Blank separator row: no code and nothing posted.
	if code == "" && allZero(amounts) {
		return RowResult{Skipped: true}
	}

	result := RowResult{}
	if !accountCodePattern.MatchString(code) {
		if n.opts.StrictAccountFormat {
			return RowResult{Err: &models.ValidationError{
				Type:        models.ErrInvalidAccountCode,
				Message:     fmt.Sprintf("line %d: account code %q does not match XX or XXX.XX", raw.Line, code),
				Line:        raw.Line,
				AccountCode: code,
				Suggestion:  "use synthetic codes like 401 or analytic codes like 512.01",
			}}
		}
		result.Warning = &models.ValidationWarning{
			Type:        models.WarnInvalidAccountCode,
			Message:     fmt.Sprintf("line %d: account code %q does not match XX or XXX.XX", raw.Line, code),
			Line:        raw.Line,
			AccountCode: code,
		}
	}

	if n.opts.AutoNormalizeNames {
		name = strings.Join(strings.Fields(name), " ")
	}

	result.Account = &models.TrialBalanceAccount{
		Line:           raw.Line,
		AccountCode:    code,
		AccountName:    name,
		OpeningDebit:   amounts[models.FieldOpeningDebit],
		OpeningCredit:  amounts[models.FieldOpeningCredit],
		DebitTurnover:  amounts[models.FieldDebitTurnover],
		CreditTurnover: amounts[models.FieldCreditTurnover],
		ClosingDebit:   amounts[models.FieldClosingDebit],
		ClosingCredit:  amounts[models.FieldClosingCredit],
	}
	return result
}

// ParseAmount parses a locale-formatted monetary cell per Romanian
// convention: "." groups thousands, "," marks decimals. Blank cells and a
// lone dash are zero. Parenthesized values are negative.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Currency exports sometimes pad with regular or non-breaking spaces.
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		// The later separator is the decimal mark.
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		s = strings.Replace(s, ",", ".", 1)
	case hasDot:
		if looksLikeThousands(s) {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numeric value %q", s)
	}
	if negative {
		value = value.Neg()
	}
	return value, nil
}

// looksLikeThousands reports whether every dot-separated group after the
// first has exactly three digits, i.e. "1.234.567" rather than "1234.56".
func looksLikeThousands(s string) bool {
	trimmed := strings.TrimPrefix(s, "-")
	groups := strings.Split(trimmed, ".")
	if len(groups) < 2 {
		return false
	}
	for i, g := range groups {
		if i == 0 {
			if len(g) == 0 || len(g) > 3 {
				return false
			}
			continue
		}
		if len(g) != 3 {
			return false
		}
	}
	return true
}

func cellAt(cells []string, mapping models.ColumnMapping, field models.CanonicalField) string {
	col, ok := mapping[field]
	if !ok {
		return ""
	}
	return cellValue(cells, col)
}

func cellValue(cells []string, index int) string {
	if index >= 0 && index < len(cells) {
		return cells[index]
	}
	return ""
}

func allZero(amounts map[models.CanonicalField]decimal.Decimal) bool {
	for _, v := range amounts {
		if !v.IsZero() {
			return false
		}
	}
	return true
}
