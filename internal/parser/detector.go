package parser

import (
	"finguard/internal/models"
)

const (
	// maxScanRows bounds the header search.
	maxScanRows = 20
	// minHeaderScore is the fraction of canonical labels a candidate
	// header row must match to be usable.
	minHeaderScore = 0.5
	// consistencySampleRows bounds the column-consistency sample.
	consistencySampleRows = 10
)

// Detector finds the layout of a decoded trial balance: which row is the
// header, where data starts, and which known format the file follows.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

// Detect scans the first rows for the best header candidate and derives the
// format from the column count at the data start row. The delimiter is the
// one the reader sniffed (zero for workbooks) and only feeds the result.
func (d *Detector) Detect(rows [][]string, delimiter rune) (models.FormatDetectionResult, error) {
	if len(rows) == 0 {
		return models.FormatDetectionResult{}, &FormatDetectionError{Reason: "file contains no rows"}
	}

	headerRow := -1
	headerScore := 0.0

	limit := len(rows)
	if limit > maxScanRows {
		limit = maxScanRows
	}
	for i := 0; i < limit; i++ {
		score := headerMatchScore(rows[i])
		if score > headerScore {
			headerScore = score
			headerRow = i
		}
	}

	if headerRow < 0 || headerScore < minHeaderScore {
		return models.FormatDetectionResult{}, &FormatDetectionError{
			Reason: "no row matches known trial-balance column labels",
		}
	}

	dataStart := headerRow + 1
	if dataStart >= len(rows) {
		return models.FormatDetectionResult{}, &FormatDetectionError{
			Reason: "header row found but no data rows follow",
		}
	}

	columnCount := countColumns(rows[headerRow])
	if c := countColumns(rows[dataStart]); c > columnCount {
		columnCount = c
	}

	var format models.BalanceFormat
	switch {
	case columnCount == len(models.CanonicalFields):
		format = models.FormatStandard
	case columnCount > len(models.CanonicalFields):
		format = models.FormatExtended
	default:
		format = models.FormatSimplified
	}

	confidence := headerScore * columnConsistency(rows, dataStart, columnCount)

	result := models.FormatDetectionResult{
		Format:       format,
		Confidence:   confidence,
		HeaderRow:    headerRow,
		DataStartRow: dataStart,
	}
	if delimiter != 0 {
		result.Delimiter = string(delimiter)
	}
	return result, nil
}

// headerMatchScore is the fraction of the eight canonical fields matched by
// distinct cells of the row.
func headerMatchScore(row []string) float64 {
	matched := make(map[models.CanonicalField]bool)
	for _, cell := range row {
		if field, score := matchField(cell); score > 0 {
			matched[field] = true
		}
	}
	return float64(len(matched)) / float64(len(models.CanonicalFields))
}

// columnConsistency is the fraction of sampled data rows whose column count
// agrees with the header layout. Short trailing rows are common in CSV
// exports, so rows narrower by one still count.
func columnConsistency(rows [][]string, dataStart, columnCount int) float64 {
	sampled := 0
	agreeing := 0
	for i := dataStart; i < len(rows) && sampled < consistencySampleRows; i++ {
		if countColumns(rows[i]) == 0 {
			continue
		}
		sampled++
		c := len(rows[i])
		if c == columnCount || c == columnCount-1 {
			agreeing++
		}
	}
	if sampled == 0 {
		return 0
	}
	return float64(agreeing) / float64(sampled)
}

func countColumns(row []string) int {
	count := 0
	for i, cell := range row {
		if cell != "" {
			count = i + 1
		}
	}
	return count
}
