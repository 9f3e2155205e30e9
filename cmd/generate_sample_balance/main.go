package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

var headers = []string{
	"Cont", "Denumire cont",
	"Sold Initial Debitor", "Sold Initial Creditor",
	"Rulaj Debitor", "Rulaj Creditor",
	"Sold Final Debitor", "Sold Final Creditor",
}

// A small balanced trial balance: debit and credit columns sum to the same
// total in the opening and the closing position.
var sampleData = [][]interface{}{
	{"101", "Capital social", 0, 50000, 0, 0, 0, 50000},
	{"212", "Constructii", 30000, 0, 0, 0, 30000, 0},
	{"301", "Materii prime", 5000, 0, 12000, 8000, 9000, 0},
	{"371", "Marfuri", 8000, 0, 15000, 10000, 13000, 0},
	{"401", "Furnizori", 0, 7000, 18000, 21000, 0, 10000},
	{"411", "Clienti", 6000, 0, 25000, 22000, 9000, 0},
	{"512.1", "Conturi la banci in lei", 8000, 0, 30000, 28000, 10000, 0},
	{"531", "Casa", 0, 0, 5000, 4000, 1000, 0},
	{"601", "Cheltuieli cu materiile prime", 0, 0, 8000, 0, 8000, 0},
	{"607", "Cheltuieli privind marfurile", 0, 0, 10000, 0, 10000, 0},
	{"704", "Venituri din servicii prestate", 0, 0, 0, 12000, 0, 12000},
	{"707", "Venituri din vanzarea marfurilor", 0, 0, 0, 18000, 0, 18000},
}

func main() {
	outDir := "testdata"
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		return
	}

	if err := writeWorkbook(filepath.Join(outDir, "balanta_sample.xlsx")); err != nil {
		fmt.Printf("Error writing workbook: %v\n", err)
		return
	}
	if err := writeCSV(filepath.Join(outDir, "balanta_sample.csv")); err != nil {
		fmt.Printf("Error writing CSV: %v\n", err)
		return
	}

	fmt.Printf("Sample trial balances written to %s\n", outDir)
}

func writeWorkbook(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Balanta"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	// Report banner above the header, like most ERP exports
	f.SetCellValue(sheetName, "A1", "Balanta de verificare la 31.12.2025")

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A2", "H2", headerStyle)

	for rowIdx, row := range sampleData {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+3)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	return f.SaveAs(path)
}

func writeCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Comma = ';'
	defer w.Flush()

	if err := w.Write(headers); err != nil {
		return err
	}
	for _, row := range sampleData {
		record := make([]string, len(row))
		for i, value := range row {
			record[i] = fmt.Sprintf("%v", value)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
