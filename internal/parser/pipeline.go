package parser

import (
	"time"

	"finguard/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Pipeline sequences detection, mapping, normalization and validation over
// one uploaded file. It is a pure function of its inputs: no process-wide
// state, safe to run concurrently for independent uploads.
type Pipeline struct {
	detector *Detector
	log      *logrus.Logger
}

func NewPipeline(log *logrus.Logger) *Pipeline {
	return &Pipeline{
		detector: NewDetector(),
		log:      log,
	}
}

// Run executes the full ingestion pipeline. Data-quality problems never
// surface as Go errors: every such condition lands in the returned
// ParseResult. Fatal stage failures (no usable layout, missing required
// columns) short-circuit to a rejected result with a single blocking error
// and no partial accounts.
func (p *Pipeline) Run(content []byte, meta models.FileMetadata, opts models.ProcessingOptions, pctx models.ProcessingContext) *models.ParseResult {
	if opts.MaxLines <= 0 {
		opts.MaxLines = models.DefaultProcessingOptions().MaxLines
	}

	result := &models.ParseResult{
		Status:   models.StatusReceived,
		Accounts: []models.TrialBalanceAccount{},
		Errors:   []models.ValidationError{},
		Warnings: []models.ValidationWarning{},
		Metadata: meta,
	}

	// Detecting
	result.Status = models.StatusDetecting
	rows, delimiter, err := DecodeRows(content, meta)
	if err != nil {
		return p.reject(result, models.ValidationError{
			Type:       models.ErrFormatDetection,
			Message:    err.Error(),
			Suggestion: "upload an .xlsx workbook or a delimited text export",
		})
	}

	detection, err := p.detector.Detect(rows, delimiter)
	if err != nil {
		return p.reject(result, models.ValidationError{
			Type:       models.ErrFormatDetection,
			Message:    err.Error(),
			Suggestion: "the file must contain a trial-balance header row (Cont, Denumire, Sold Initial Debitor, ...)",
		})
	}
	result.Metadata.Detection = detection
	result.Metadata.Format = detection.Format

	// Mapping
	result.Status = models.StatusMapping
	header := rows[detection.HeaderRow]
	mapping, err := MapColumns(detection.Format, header)
	if err != nil {
		return p.reject(result, models.ValidationError{
			Type:       models.ErrMissingColumn,
			Message:    err.Error(),
			Suggestion: "rename the missing columns to their standard Romanian labels",
		})
	}
	result.Metadata.Mapping = mapping
	result.Metadata.ColumnCount = countColumns(header)

	// Normalizing: row failures never abort the batch.
	result.Status = models.StatusNormalizing
	dataRows := rows[detection.DataStartRow:]
	truncated := 0
	if len(dataRows) > opts.MaxLines {
		truncated = len(dataRows) - opts.MaxLines
		dataRows = dataRows[:opts.MaxLines]
	}

	normalizer := NewNormalizer(opts)
	for i, cells := range dataRows {
		raw := models.RawTrialBalanceLine{
			// 1-based line numbers counted from the top of the file.
			Line:  detection.DataStartRow + i + 1,
			Cells: cells,
		}
		out := normalizer.NormalizeRow(raw, mapping)
		switch {
		case out.Skipped:
			continue
		case out.Err != nil:
			result.Errors = append(result.Errors, *out.Err)
			result.RawLines = append(result.RawLines, raw)
		default:
			if out.Warning != nil {
				result.Warnings = append(result.Warnings, *out.Warning)
			}
			result.Accounts = append(result.Accounts, *out.Account)
		}
	}
	result.Totals = sumTotals(result.Accounts)

	// Validating
	result.Status = models.StatusValidating
	validation := NewValidator(opts).Validate(result.Accounts, pctx, truncated)
	result.Errors = append(result.Errors, validation.Errors...)
	result.Warnings = append(result.Warnings, validation.Warnings...)
	result.Statistics = validation.Statistics
	result.Statistics.TotalRows = len(dataRows) + truncated
	result.Statistics.ErrorCount = len(result.Errors)
	result.Statistics.WarningCount = len(result.Warnings)

	if opts.IgnoreWarnings {
		result.Warnings = []models.ValidationWarning{}
		result.Statistics.WarningCount = 0
	}

	if len(result.Errors) == 0 {
		result.Status = models.StatusAccepted
	} else {
		result.Status = models.StatusRejected
	}
	result.Metadata.ProcessedAt = time.Now()

	p.log.WithFields(logrus.Fields{
		"filename": meta.Filename,
		"format":   detection.Format,
		"status":   result.Status,
		"accounts": len(result.Accounts),
		"errors":   len(result.Errors),
		"warnings": len(result.Warnings),
	}).Info("trial balance processed")

	return result
}

func (p *Pipeline) reject(result *models.ParseResult, fatal models.ValidationError) *models.ParseResult {
	result.Status = models.StatusRejected
	result.Accounts = []models.TrialBalanceAccount{}
	result.Errors = []models.ValidationError{fatal}
	result.Statistics.ErrorCount = 1
	result.Metadata.ProcessedAt = time.Now()

	p.log.WithFields(logrus.Fields{
		"filename": result.Metadata.Filename,
		"type":     fatal.Type,
	}).Warn("trial balance rejected")

	return result
}

func sumTotals(accounts []models.TrialBalanceAccount) models.BalanceTotals {
	totals := models.BalanceTotals{
		OpeningDebit:   decimal.Zero,
		OpeningCredit:  decimal.Zero,
		DebitTurnover:  decimal.Zero,
		CreditTurnover: decimal.Zero,
		ClosingDebit:   decimal.Zero,
		ClosingCredit:  decimal.Zero,
	}
	for _, acc := range accounts {
		totals.OpeningDebit = totals.OpeningDebit.Add(acc.OpeningDebit)
		totals.OpeningCredit = totals.OpeningCredit.Add(acc.OpeningCredit)
		totals.DebitTurnover = totals.DebitTurnover.Add(acc.DebitTurnover)
		totals.CreditTurnover = totals.CreditTurnover.Add(acc.CreditTurnover)
		totals.ClosingDebit = totals.ClosingDebit.Add(acc.ClosingDebit)
		totals.ClosingCredit = totals.ClosingCredit.Add(acc.ClosingCredit)
	}
	return totals
}
