package parser

import (
	"strings"
	"unicode"

	"finguard/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fieldSynonyms maps each canonical field to the Romanian column labels seen
// in the wild. Labels are matched case- and diacritics-insensitively, with
// substring tolerance; longer synonyms win so "sold initial debitor" never
// binds to a turnover field.
var fieldSynonyms = map[models.CanonicalField][]string{
	models.FieldAccountCode: {
		"simbol cont", "cod cont", "nr cont", "cont", "simbol",
	},
	models.FieldAccountName: {
		"denumirea contului", "denumire cont", "nume cont", "denumire",
	},
	models.FieldOpeningDebit: {
		"sold initial debitor", "solduri initiale debitoare",
		"sold initial debit", "si debitor", "si debit",
	},
	models.FieldOpeningCredit: {
		"sold initial creditor", "solduri initiale creditoare",
		"sold initial credit", "si creditor", "si credit",
	},
	models.FieldDebitTurnover: {
		"rulaj debitor", "rulaje debitoare", "total rulaj debitor",
		"rulaj curent debitor", "miscari debitoare", "rulaj debit",
	},
	models.FieldCreditTurnover: {
		"rulaj creditor", "rulaje creditoare", "total rulaj creditor",
		"rulaj curent creditor", "miscari creditoare", "rulaj credit",
	},
	models.FieldClosingDebit: {
		"sold final debitor", "solduri finale debitoare",
		"sold final debit", "sf debitor", "sf debit",
	},
	models.FieldClosingCredit: {
		"sold final creditor", "solduri finale creditoare",
		"sold final credit", "sf creditor", "sf credit",
	},
}

var diacriticsFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeLabel folds a header cell to a canonical comparable form:
// lower case, diacritics stripped, punctuation dropped, single spaces.
func normalizeLabel(s string) string {
	folded, _, err := transform.String(diacriticsFold, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// matchField returns the canonical field best matching a header cell and a
// score in [0,1]. Score 0 means no synonym matched.
func matchField(cell string) (models.CanonicalField, float64) {
	label := normalizeLabel(cell)
	if label == "" {
		return "", 0
	}

	var bestField models.CanonicalField
	bestLen := 0

	for _, field := range models.CanonicalFields {
		for _, syn := range fieldSynonyms[field] {
			if label == syn {
				return field, 1
			}
			if strings.Contains(label, syn) && len(syn) > bestLen {
				bestField = field
				bestLen = len(syn)
			}
		}
	}

	if bestLen == 0 {
		return "", 0
	}
	return bestField, float64(bestLen) / float64(len(label))
}
