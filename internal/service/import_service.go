package service

import (
	"fmt"
	"os"

	"finguard/internal/config"
	"finguard/internal/models"
	"finguard/internal/parser"

	"github.com/sirupsen/logrus"
)

// ImportService runs the ingestion pipeline over stored uploads. Reading
// the file and persisting the outcome stay outside the pipeline itself:
// the pipeline remains a pure function of its inputs.
type ImportService struct {
	pipeline *parser.Pipeline
	cfg      *config.Config
	log      *logrus.Logger
}

func NewImportService(cfg *config.Config, log *logrus.Logger) *ImportService {
	return &ImportService{
		pipeline: parser.NewPipeline(log),
		cfg:      cfg,
		log:      log,
	}
}

// DefaultOptions returns the configured pipeline tunables.
func (s *ImportService) DefaultOptions() models.ProcessingOptions {
	opts := models.DefaultProcessingOptions()
	opts.BalanceTolerance = s.cfg.BalanceTolerance
	opts.MaxLines = s.cfg.MaxLines
	return opts
}

// Run executes the pipeline over in-memory content.
func (s *ImportService) Run(content []byte, meta models.FileMetadata, opts models.ProcessingOptions, pctx models.ProcessingContext) *models.ParseResult {
	return s.pipeline.Run(content, meta, opts, pctx)
}

// RunFile executes the pipeline over a stored upload. The returned error is
// I/O-level only; data-quality problems land in the ParseResult.
func (s *ImportService) RunFile(imp *models.BalanceImport, opts models.ProcessingOptions) (*models.ParseResult, error) {
	content, err := os.ReadFile(imp.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored upload %s: %w", imp.FilePath, err)
	}

	meta := models.FileMetadata{
		Filename: imp.Filename,
		Size:     int64(len(content)),
	}
	pctx := models.ProcessingContext{
		CompanyID:  imp.CompanyID,
		Period:     imp.Period,
		Currency:   imp.Currency,
		FiscalYear: imp.FiscalYear,
	}

	return s.pipeline.Run(content, meta, opts, pctx), nil
}

// Detect runs format detection only, for upload previews.
func (s *ImportService) Detect(content []byte, meta models.FileMetadata) (models.FormatDetectionResult, error) {
	rows, delimiter, err := parser.DecodeRows(content, meta)
	if err != nil {
		return models.FormatDetectionResult{}, err
	}
	return parser.NewDetector().Detect(rows, delimiter)
}
