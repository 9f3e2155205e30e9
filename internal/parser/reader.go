package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"finguard/internal/models"

	"github.com/xuri/excelize/v2"
)

// candidateDelimiters are tried when sniffing CSV input.
var candidateDelimiters = []rune{',', ';', '|', '\t'}

const delimiterSampleLines = 20

// DecodeRows turns raw file content into cell rows. Excel workbooks are
// decoded via excelize (first sheet); everything else is treated as
// delimited text with a sniffed delimiter. The returned delimiter is zero
// for spreadsheet input.
func DecodeRows(content []byte, meta models.FileMetadata) ([][]string, rune, error) {
	if isSpreadsheet(meta) {
		rows, err := decodeWorkbook(content)
		return rows, 0, err
	}

	text := stripBOM(content)
	delimiter := DetectDelimiter(text)
	if delimiter == 0 {
		return nil, 0, fmt.Errorf("no consistent delimiter found")
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read delimited rows: %w", err)
	}
	return rows, delimiter, nil
}

func isSpreadsheet(meta models.FileMetadata) bool {
	switch strings.ToLower(filepath.Ext(meta.Filename)) {
	case ".xlsx", ".xlsm", ".xls":
		return true
	}
	switch meta.MimeType {
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-excel":
		return true
	}
	return false
}

func decodeWorkbook(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in workbook")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, nil
}

// DetectDelimiter picks the candidate delimiter that appears most often and
// with a consistent count across the sampled lines. Returns 0 when no
// candidate shows up at all.
func DetectDelimiter(content []byte) rune {
	lines := sampleLines(content, delimiterSampleLines)
	if len(lines) == 0 {
		return 0
	}

	var best rune
	bestScore := 0.0

	for _, cand := range candidateDelimiters {
		counts := make(map[int]int)
		total := 0
		for _, line := range lines {
			n := strings.Count(line, string(cand))
			counts[n]++
			total += n
		}
		if total == 0 {
			continue
		}

		// Most frequent per-line count and how consistent it is.
		modeCount, modeLines := 0, 0
		for n, freq := range counts {
			if freq > modeLines || (freq == modeLines && n > modeCount) {
				modeCount, modeLines = n, freq
			}
		}
		if modeCount == 0 {
			continue
		}

		consistency := float64(modeLines) / float64(len(lines))
		score := float64(modeCount) * consistency
		if score > bestScore {
			bestScore = score
			best = cand
		}
	}

	return best
}

func sampleLines(content []byte, max int) []string {
	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == max {
			break
		}
	}
	return lines
}

func stripBOM(content []byte) []byte {
	return bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})
}
