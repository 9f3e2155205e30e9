package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"finguard/internal/config"
	"finguard/internal/models"
	"finguard/internal/repository"
	"finguard/internal/service"
	"finguard/internal/utils"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type BalanceTaskHandler struct {
	db            *sqlx.DB
	redis         *redis.Client
	cfg           *config.Config
	importRepo    *repository.ImportRepository
	kpiRepo       *repository.KPIRepository
	importService *service.ImportService
	kpiService    *service.KPIService
}

func NewBalanceTaskHandler(db *sqlx.DB, redis *redis.Client, cfg *config.Config) *BalanceTaskHandler {
	return &BalanceTaskHandler{
		db:            db,
		redis:         redis,
		cfg:           cfg,
		importRepo:    repository.NewImportRepository(db),
		kpiRepo:       repository.NewKPIRepository(db),
		importService: service.NewImportService(cfg, utils.GetLogger()),
		kpiService:    service.NewKPIService(),
	}
}

type BalanceTaskPayload struct {
	ImportID  int                      `json:"import_id"`
	Reference string                   `json:"reference"`
	Options   models.ProcessingOptions `json:"options"`
}

func (h *BalanceTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload BalanceTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.Printf("Starting processing for import %s (ID: %d)", payload.Reference, payload.ImportID)

	imp, err := h.importRepo.FindByID(payload.ImportID)
	if err != nil {
		return fmt.Errorf("failed to get import: %w", err)
	}

	// Check if import has been canceled
	if imp.Status == models.ImportStatusCanceled {
		log.Printf("Import %s has been canceled, skipping processing", payload.Reference)
		return nil // Don't return error, just skip processing
	}

	// Check if import is already in a terminal state
	if imp.Status == models.ImportStatusAccepted || imp.Status == models.ImportStatusRejected || imp.Status == models.ImportStatusFailed {
		log.Printf("Import %s is already %s, skipping processing", payload.Reference, imp.Status)
		return nil // Don't return error, just skip processing
	}

	if imp.Status != models.ImportStatusProcessing {
		h.importRepo.UpdateStatus(imp.ID, models.ImportStatusProcessing)
	}
	h.setProgress(ctx, imp.ID, 0)

	opts := payload.Options
	if opts.MaxLines == 0 {
		opts = h.importService.DefaultOptions()
	}

	// Run the full pipeline over the stored file. Data-quality problems
	// land in the result; only an I/O fault comes back as an error.
	result, err := h.importService.RunFile(imp, opts)
	if err != nil {
		log.Printf("Failed to process import %s: %v", payload.Reference, err)
		imp.Status = models.ImportStatusFailed
		imp.ErrorMessage = err.Error()
		if uerr := h.importRepo.UpdateImport(imp); uerr != nil {
			log.Printf("Failed to update import status: %v", uerr)
		}
		return fmt.Errorf("failed to process import file: %w", err)
	}
	h.setProgress(ctx, imp.ID, 40)

	// Persist normalized accounts in batches
	if result.Accepted() {
		if err := h.storeAccounts(ctx, imp.ID, result.Accounts); err != nil {
			log.Printf("Failed to store accounts for import %s: %v", payload.Reference, err)
			imp.Status = models.ImportStatusFailed
			imp.ErrorMessage = err.Error()
			h.importRepo.UpdateImport(imp)
			return fmt.Errorf("failed to store accounts: %w", err)
		}
	}
	h.setProgress(ctx, imp.ID, 70)

	// Persist findings for later inspection
	if err := h.storeFindings(imp.ID, result); err != nil {
		log.Printf("Warning: failed to store findings for import %s: %v", payload.Reference, err)
		// Findings are advisory, keep going
	}

	// Compute and store the KPI snapshot for accepted imports
	if result.Accepted() {
		pctx := models.ProcessingContext{
			CompanyID:  imp.CompanyID,
			Period:     imp.Period,
			Currency:   imp.Currency,
			FiscalYear: imp.FiscalYear,
		}
		snapshot := h.kpiService.Compute(result.Accounts, pctx)
		snapshot.ImportID = imp.ID
		if err := h.kpiRepo.SaveSnapshot(&snapshot); err != nil {
			log.Printf("Warning: failed to save KPI snapshot for import %s: %v", payload.Reference, err)
		}
	}
	h.setProgress(ctx, imp.ID, 90)

	// Update the import session with the outcome
	imp.Format = string(result.Metadata.Format)
	imp.TotalRows = result.Statistics.TotalRows
	imp.AcceptedRows = len(result.Accounts)
	imp.ErrorCount = len(result.Errors)
	imp.WarningCount = len(result.Warnings)
	if result.Accepted() {
		imp.Status = models.ImportStatusAccepted
	} else {
		imp.Status = models.ImportStatusRejected
		imp.ErrorMessage = firstErrorMessage(result)
	}
	if err := h.importRepo.UpdateImport(imp); err != nil {
		log.Printf("Failed to update import status: %v", err)
		return fmt.Errorf("failed to update import: %w", err)
	}
	h.setProgress(ctx, imp.ID, 100)

	log.Printf("Processing completed for import %s. Status: %s, Accounts: %d, Errors: %d, Warnings: %d",
		payload.Reference, imp.Status, imp.AcceptedRows, imp.ErrorCount, imp.WarningCount)

	return nil
}

func (h *BalanceTaskHandler) storeAccounts(ctx context.Context, importID int, accounts []models.TrialBalanceAccount) error {
	batchSize := h.cfg.BatchSize
	for start := 0; start < len(accounts); start += batchSize {
		end := start + batchSize
		if end > len(accounts) {
			end = len(accounts)
		}

		rows := make([]models.BalanceAccountRow, 0, end-start)
		for _, acc := range accounts[start:end] {
			rows = append(rows, models.BalanceAccountRow{
				ImportID:       importID,
				Line:           acc.Line,
				AccountCode:    acc.AccountCode,
				AccountName:    acc.AccountName,
				OpeningDebit:   acc.OpeningDebit,
				OpeningCredit:  acc.OpeningCredit,
				DebitTurnover:  acc.DebitTurnover,
				CreditTurnover: acc.CreditTurnover,
				ClosingDebit:   acc.ClosingDebit,
				ClosingCredit:  acc.ClosingCredit,
			})
		}
		if err := h.importRepo.BulkInsertAccounts(rows); err != nil {
			return err
		}

		// Account storage spans the 40-70% window of overall progress
		progress := 40 + float64(end)/float64(len(accounts))*30
		h.setProgress(ctx, importID, progress)
	}
	return nil
}

func (h *BalanceTaskHandler) storeFindings(importID int, result *models.ParseResult) error {
	findings := make([]models.ImportFinding, 0, len(result.Errors)+len(result.Warnings))
	for _, e := range result.Errors {
		findings = append(findings, models.ImportFinding{
			ImportID:    importID,
			Severity:    "error",
			Type:        e.Type,
			Message:     e.Message,
			Line:        e.Line,
			AccountCode: e.AccountCode,
			Field:       e.Field,
			Suggestion:  e.Suggestion,
		})
	}
	for _, w := range result.Warnings {
		findings = append(findings, models.ImportFinding{
			ImportID:    importID,
			Severity:    "warning",
			Type:        w.Type,
			Message:     w.Message,
			Line:        w.Line,
			AccountCode: w.AccountCode,
			Field:       w.Field,
			Suggestion:  w.Suggestion,
		})
	}
	if len(findings) == 0 {
		return nil
	}
	return h.importRepo.BulkInsertFindings(findings)
}

func (h *BalanceTaskHandler) setProgress(ctx context.Context, importID int, progress float64) {
	if h.redis == nil {
		return
	}
	key := fmt.Sprintf("import:progress:%d", importID)
	h.redis.Set(ctx, key, fmt.Sprintf("%.2f", progress), 0)
}

func firstErrorMessage(result *models.ParseResult) string {
	if len(result.Errors) == 0 {
		return ""
	}
	return result.Errors[0].Message
}
