package service

import (
	"fmt"

	"finguard/internal/models"

	"github.com/xuri/excelize/v2"
)

// balanceHeaders are the standard-layout column labels, in canonical order.
var balanceHeaders = []string{
	"Cont", "Denumire",
	"Sold Initial Debitor", "Sold Initial Creditor",
	"Rulaj Debitor", "Rulaj Creditor",
	"Sold Final Debitor", "Sold Final Creditor",
}

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// ExportParseResult writes the normalized accounts and findings of one
// import to an Excel workbook.
func (s *ExcelService) ExportParseResult(result *models.ParseResult, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Balanta"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	// Write headers
	for i, header := range balanceHeaders {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(balanceHeaders)-1)), headerStyle)

	// Write data
	for rowIdx, acc := range result.Accounts {
		row := rowIdx + 2
		values := []interface{}{
			acc.AccountCode,
			acc.AccountName,
			acc.OpeningDebit.StringFixed(2),
			acc.OpeningCredit.StringFixed(2),
			acc.DebitTurnover.StringFixed(2),
			acc.CreditTurnover.StringFixed(2),
			acc.ClosingDebit.StringFixed(2),
			acc.ClosingCredit.StringFixed(2),
		}
		for colIdx, value := range values {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// Totals row
	totalsRow := len(result.Accounts) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalsRow), "TOTAL")
	totals := []string{
		result.Totals.OpeningDebit.StringFixed(2),
		result.Totals.OpeningCredit.StringFixed(2),
		result.Totals.DebitTurnover.StringFixed(2),
		result.Totals.CreditTurnover.StringFixed(2),
		result.Totals.ClosingDebit.StringFixed(2),
		result.Totals.ClosingCredit.StringFixed(2),
	}
	for i, value := range totals {
		cell := fmt.Sprintf("%s%d", getColumnName(i+2), totalsRow)
		f.SetCellValue(sheetName, cell, value)
	}
	totalStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", totalsRow),
		fmt.Sprintf("%s%d", getColumnName(len(balanceHeaders)-1), totalsRow), totalStyle)

	// Column widths
	columnWidths := []float64{12, 40, 18, 18, 18, 18, 18, 18}
	for i, width := range columnWidths {
		colName := getColumnName(i)
		f.SetColWidth(sheetName, colName, colName, width)
	}

	if len(result.Errors) > 0 || len(result.Warnings) > 0 {
		if err := s.writeFindingsSheet(f, result); err != nil {
			return err
		}
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// writeFindingsSheet adds a sheet listing blocking errors and advisory
// warnings of the import.
func (s *ExcelService) writeFindingsSheet(f *excelize.File, result *models.ParseResult) error {
	sheetName := "Constatari"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	headers := []string{"Severity", "Type", "Line", "Account", "Message", "Suggestion"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFE6E6"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	row := 2
	writeRow := func(severity, findingType string, line int, account, message, suggestion string) {
		values := []interface{}{severity, findingType, line, account, message, suggestion}
		for colIdx, value := range values {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
		row++
	}
	for _, e := range result.Errors {
		writeRow("error", e.Type, e.Line, e.AccountCode, e.Message, e.Suggestion)
	}
	for _, w := range result.Warnings {
		writeRow("warning", w.Type, w.Line, w.AccountCode, w.Message, w.Suggestion)
	}

	// Column widths
	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 26)
	f.SetColWidth(sheetName, "C", "C", 8)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 60)
	f.SetColWidth(sheetName, "F", "F", 40)

	return nil
}

// GenerateBalanceTemplate creates an upload template with the standard
// layout and a few sample rows.
func (s *ExcelService) GenerateBalanceTemplate(outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Balanta de verificare"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	// Write headers
	for i, header := range balanceHeaders {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(balanceHeaders)-1)), headerStyle)

	// Add sample data
	sampleData := [][]interface{}{
		{"101", "Capital social", "0,00", "50000,00", "0,00", "0,00", "0,00", "50000,00"},
		{"212", "Constructii", "30000,00", "0,00", "0,00", "0,00", "30000,00", "0,00"},
		{"371", "Marfuri", "8000,00", "0,00", "4000,00", "2000,00", "10000,00", "0,00"},
		{"401", "Furnizori", "0,00", "12000,00", "5000,00", "3000,00", "0,00", "10000,00"},
		{"512.01", "Conturi la banci in lei", "24000,00", "0,00", "6000,00", "10000,00", "20000,00", "0,00"},
	}
	for rowIdx, rowData := range sampleData {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// Set column widths
	columnWidths := []float64{12, 40, 18, 18, 18, 18, 18, 18}
	for i, width := range columnWidths {
		colName := getColumnName(i)
		f.SetColWidth(sheetName, colName, colName, width)
	}

	// Add instructions
	instructionsStartRow := len(sampleData) + 4
	instructions := []string{
		"Instructiuni:",
		"1. Cont: codul contului conform planului de conturi (ex. 401 sau 512.01)",
		"2. Denumire: denumirea contului",
		"3. Sold Initial Debitor / Creditor: soldurile la inceputul perioadei",
		"4. Rulaj Debitor / Creditor: miscarile perioadei",
		"5. Sold Final Debitor / Creditor: soldurile la sfarsitul perioadei",
		"",
		"Nota: nu modificati randul de antet. Completati datele incepand cu randul 2.",
		"Valorile numerice folosesc virgula ca separator zecimal (ex. 1.234,56).",
	}
	for i, instruction := range instructions {
		cell := fmt.Sprintf("A%d", instructionsStartRow+i)
		f.SetCellValue(sheetName, cell, instruction)
	}

	instructionStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F0F8FF"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", instructionsStartRow), fmt.Sprintf("A%d", instructionsStartRow), instructionStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
