package parser

import (
	"fmt"
	"strings"
	"testing"

	"finguard/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPipeline() *Pipeline {
	log := logrus.New()
	log.SetOutput(&strings.Builder{})
	return NewPipeline(log)
}

func csvMeta(name string) models.FileMetadata {
	return models.FileMetadata{Filename: name, MimeType: "text/csv"}
}

const sampleCSV = `Balanta de verificare la 31.12.2025
Cont;Denumire cont;Sold Initial Debitor;Sold Initial Creditor;Rulaj Debitor;Rulaj Creditor;Sold Final Debitor;Sold Final Creditor
101;Capital social;0;50000,00;0;0;0;50000,00
212;Constructii;30000,00;0;0;0;30000,00;0
371;Marfuri;14000,00;0;15000,00;10000,00;19000,00;0
401;Furnizori;0;7000,00;18000,00;21000,00;0;10000,00
411;Clienti;6000,00;0;25000,00;22000,00;9000,00;0
512.1;Conturi la banci in lei;7000,00;0;30000,00;29000,00;8000,00;0
601;Cheltuieli cu materiile prime;0;0;8000,00;0;8000,00;0
704;Venituri din servicii prestate;0;0;0;14000,00;0;14000,00
`

func TestPipelineAcceptsValidStandardCSV(t *testing.T) {
	p := testPipeline()

	result := p.Run([]byte(sampleCSV), csvMeta("balanta.csv"),
		models.DefaultProcessingOptions(), models.ProcessingContext{CompanyID: 1, Period: "2025-12"})

	require.Equal(t, models.StatusAccepted, result.Status)
	assert.True(t, result.Accepted())
	assert.Len(t, result.Accounts, 8)
	assert.Empty(t, result.Errors)
	assert.Equal(t, models.FormatStandard, result.Metadata.Format)
	assert.Equal(t, ";", result.Metadata.Detection.Delimiter)

	// First data line in the file is line 3 (banner, header, then data).
	assert.Equal(t, 3, result.Accounts[0].Line)
	assert.Equal(t, "101", result.Accounts[0].AccountCode)

	assert.True(t, result.Totals.OpeningDebit.Equal(result.Totals.OpeningCredit))
	assert.True(t, result.Totals.ClosingDebit.Equal(result.Totals.ClosingCredit))
}

func TestPipelineRejectsUnrecognizedContent(t *testing.T) {
	p := testPipeline()

	result := p.Run([]byte("just some prose\nwith no structure at all\n"),
		csvMeta("notes.txt"), models.DefaultProcessingOptions(), models.ProcessingContext{})

	assert.Equal(t, models.StatusRejected, result.Status)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ErrFormatDetection, result.Errors[0].Type)
	assert.Empty(t, result.Accounts)
}

func TestPipelineRejectsMissingColumns(t *testing.T) {
	content := `Cont;Denumire cont;Sold Initial Debitor;Sold Initial Creditor;Rulaj Debitor;Rulaj Creditor;Sold Final Debitor;Alta coloana
401;Furnizori;0;100;0;0;0;100
411;Clienti;100;0;0;0;100;0
`
	p := testPipeline()
	result := p.Run([]byte(content), csvMeta("balanta.csv"),
		models.DefaultProcessingOptions(), models.ProcessingContext{})

	assert.Equal(t, models.StatusRejected, result.Status)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ErrMissingColumn, result.Errors[0].Type)
	assert.Empty(t, result.Accounts)
}

func TestPipelineRowFailureDoesNotAbortBatch(t *testing.T) {
	content := `Cont;Denumire cont;Sold Initial Debitor;Sold Initial Creditor;Rulaj Debitor;Rulaj Creditor;Sold Final Debitor;Sold Final Creditor
100;Cont unu;100,00;100,00;0;0;100,00;100,00
101;Cont doi;oops;0;0;0;0;0
102;Cont trei;200,00;200,00;0;0;200,00;200,00
`
	p := testPipeline()
	result := p.Run([]byte(content), csvMeta("balanta.csv"),
		models.DefaultProcessingOptions(), models.ProcessingContext{})

	// The malformed row is excluded, its neighbors survive, and the batch
	// as a whole is rejected because an error was recorded.
	assert.Equal(t, models.StatusRejected, result.Status)
	assert.Len(t, result.Accounts, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ErrInvalidNumeric, result.Errors[0].Type)
	assert.Equal(t, 3, result.Errors[0].Line)
	require.Len(t, result.RawLines, 1)
	assert.Equal(t, 3, result.RawLines[0].Line)
}

func TestPipelineTruncatesPastLineCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("Cont;Denumire cont;Sold Initial Debitor;Sold Initial Creditor;Rulaj Debitor;Rulaj Creditor;Sold Final Debitor;Sold Final Creditor\n")
	// Each row is individually balanced so truncation cannot unbalance
	// the totals.
	for i := 0; i < 150; i++ {
		fmt.Fprintf(&b, "%d;Cont %d;100,00;100,00;0;0;100,00;100,00\n", 100+i, i)
	}

	opts := models.DefaultProcessingOptions()
	opts.MaxLines = 100

	p := testPipeline()
	result := p.Run([]byte(b.String()), csvMeta("balanta.csv"), opts, models.ProcessingContext{})

	assert.Equal(t, models.StatusAccepted, result.Status)
	assert.Len(t, result.Accounts, 100)
	assert.Equal(t, 150, result.Statistics.TotalRows)

	var truncated *models.ValidationWarning
	for i := range result.Warnings {
		if result.Warnings[i].Type == models.WarnTruncatedInput {
			truncated = &result.Warnings[i]
		}
	}
	require.NotNil(t, truncated)
	assert.Equal(t, 50, truncated.Details["skipped_rows"])
}

func TestPipelineIgnoreWarningsDropsAdvisories(t *testing.T) {
	content := `Cont;Denumire cont;Sold Initial Debitor;Sold Initial Creditor;Rulaj Debitor;Rulaj Creditor;Sold Final Debitor;Sold Final Creditor
100;Cont unu;100,00;100,00;(50,00);(50,00);100,00;100,00
`
	opts := models.DefaultProcessingOptions()
	opts.IgnoreWarnings = true

	p := testPipeline()
	result := p.Run([]byte(content), csvMeta("balanta.csv"), opts, models.ProcessingContext{})

	assert.Equal(t, models.StatusAccepted, result.Status)
	assert.Empty(t, result.Warnings)
	assert.Zero(t, result.Statistics.WarningCount)
}

func TestPipelineSkipsBlankSeparatorRows(t *testing.T) {
	content := `Cont;Denumire cont;Sold Initial Debitor;Sold Initial Creditor;Rulaj Debitor;Rulaj Creditor;Sold Final Debitor;Sold Final Creditor
100;Cont unu;100,00;100,00;0;0;100,00;100,00
;;;;;;;
102;Cont trei;200,00;200,00;0;0;200,00;200,00
`
	p := testPipeline()
	result := p.Run([]byte(content), csvMeta("balanta.csv"),
		models.DefaultProcessingOptions(), models.ProcessingContext{})

	assert.Equal(t, models.StatusAccepted, result.Status)
	assert.Len(t, result.Accounts, 2)
	assert.Equal(t, 4, result.Accounts[1].Line)
}

func TestPipelineIsDeterministic(t *testing.T) {
	p := testPipeline()
	opts := models.DefaultProcessingOptions()

	first := p.Run([]byte(sampleCSV), csvMeta("balanta.csv"), opts, models.ProcessingContext{})
	second := p.Run([]byte(sampleCSV), csvMeta("balanta.csv"), opts, models.ProcessingContext{})

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Accounts, second.Accounts)
	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, first.Warnings, second.Warnings)
	assert.True(t, first.Totals.ClosingDebit.Equal(second.Totals.ClosingDebit))
}
