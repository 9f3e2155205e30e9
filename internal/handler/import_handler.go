package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"finguard/internal/config"
	"finguard/internal/models"
	"finguard/internal/repository"
	"finguard/internal/service"
	"finguard/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskProcessBalance is the asynq task type for background import runs.
const TaskProcessBalance = "balance:process"

type ImportHandler struct {
	importRepo    *repository.ImportRepository
	companyRepo   *repository.CompanyRepository
	importService *service.ImportService
	excelService  *service.ExcelService
	asynqClient   *asynq.Client
	redis         *redis.Client
	cfg           *config.Config
}

func NewImportHandler(
	importRepo *repository.ImportRepository,
	companyRepo *repository.CompanyRepository,
	importService *service.ImportService,
	excelService *service.ExcelService,
	asynqClient *asynq.Client,
	redisClient *redis.Client,
	cfg *config.Config,
) *ImportHandler {
	return &ImportHandler{
		importRepo:    importRepo,
		companyRepo:   companyRepo,
		importService: importService,
		excelService:  excelService,
		asynqClient:   asynqClient,
		redis:         redisClient,
		cfg:           cfg,
	}
}

func (h *ImportHandler) requireCompanyAccess(c *fiber.Ctx, companyID int) (*models.Company, error) {
	company, err := h.companyRepo.FindByID(companyID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Company not found")
	}

	role := c.Locals("role").(string)
	userID := c.Locals("user_id").(int)
	if role != "admin" && company.OwnerID != userID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Access to this company is not allowed")
	}

	return company, nil
}

// UploadFile stores a trial-balance upload, runs a detection preview and
// creates the import session. The full pipeline runs in the worker.
func (h *ImportHandler) UploadFile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	companyID, err := strconv.Atoi(c.FormValue("company_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Valid company_id is required", err)
	}
	company, err := h.requireCompanyAccess(c, companyID)
	if err != nil {
		return err
	}

	// Get uploaded file
	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	// Validate file type
	ext := filepath.Ext(file.Filename)
	if ext != ".xlsx" && ext != ".xls" && ext != ".csv" && ext != ".txt" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only Excel (.xlsx, .xls) or delimited text (.csv, .txt) files are allowed", nil)
	}

	// Validate file size
	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	// Generate import reference
	reference := fmt.Sprintf("TB-%s", uuid.New().String()[:8])

	// Save file
	filePath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("%s%s", reference, ext))
	if err := c.SaveFile(file, filePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}

	// Detection preview
	content, err := os.ReadFile(filePath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read saved file", err)
	}
	meta := models.FileMetadata{
		Filename: file.Filename,
		Size:     file.Size,
		MimeType: file.Header.Get("Content-Type"),
	}
	detection, detErr := h.importService.Detect(content, meta)

	imp := &models.BalanceImport{
		Reference:  reference,
		CompanyID:  company.ID,
		UserID:     userID,
		Filename:   file.Filename,
		FilePath:   filePath,
		Format:     string(detection.Format),
		Confidence: detection.Confidence,
		Period:     c.FormValue("period"),
		FiscalYear: atoiOrZero(c.FormValue("fiscal_year")),
		Currency:   company.Currency,
		Status:     models.ImportStatusUploaded,
	}
	if detErr != nil {
		imp.ErrorMessage = detErr.Error()
	}

	if err := h.importRepo.CreateImport(imp); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create import", err)
	}

	resp := fiber.Map{"import": imp}
	if detErr != nil {
		resp["detection_error"] = detErr.Error()
	} else {
		resp["detection"] = detection
	}
	return utils.SuccessResponse(c, "File uploaded successfully", resp)
}

// ValidateFile runs the full pipeline synchronously without persisting
// anything. Dry-run for previewing an upload.
func (h *ImportHandler) ValidateFile(c *fiber.Ctx) error {
	companyID, err := strconv.Atoi(c.FormValue("company_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Valid company_id is required", err)
	}
	company, err := h.requireCompanyAccess(c, companyID)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}
	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	src, err := file.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to open uploaded file", err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read uploaded file", err)
	}

	opts := h.parseOptions(c)
	meta := models.FileMetadata{
		Filename: file.Filename,
		Size:     file.Size,
		MimeType: file.Header.Get("Content-Type"),
	}
	pctx := models.ProcessingContext{
		CompanyID:  company.ID,
		Period:     c.FormValue("period"),
		Currency:   company.Currency,
		FiscalYear: atoiOrZero(c.FormValue("fiscal_year")),
	}

	result := h.importService.Run(content, meta, opts, pctx)
	return utils.SuccessResponse(c, "Validation completed", result)
}

func (h *ImportHandler) parseOptions(c *fiber.Ctx) models.ProcessingOptions {
	opts := h.importService.DefaultOptions()
	if v := c.FormValue("balance_tolerance"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			opts.BalanceTolerance = f
		}
	}
	if v := c.FormValue("max_lines"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.MaxLines = n
		}
	}
	opts.StrictAccountFormat = c.FormValue("strict_account_format") == "true"
	opts.IgnoreWarnings = c.FormValue("ignore_warnings") == "true"
	if v := c.FormValue("auto_normalize_names"); v != "" {
		opts.AutoNormalizeNames = v == "true"
	}
	return opts
}

func (h *ImportHandler) GetImports(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	companyID := atoiOrZero(c.Query("company_id"))
	if companyID > 0 {
		if _, err := h.requireCompanyAccess(c, companyID); err != nil {
			return err
		}
	} else if c.Locals("role").(string) != "admin" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "company_id is required", nil)
	}

	imports, total, err := h.importRepo.FindAll(params.Limit, offset, companyID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve imports", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Imports retrieved successfully", fiber.Map{
		"imports": imports,
	}, pagination)
}

func (h *ImportHandler) getImportWithAccess(c *fiber.Ctx) (*models.BalanceImport, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid import ID")
	}

	imp, err := h.importRepo.FindByID(id)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Import not found")
	}
	if _, err := h.requireCompanyAccess(c, imp.CompanyID); err != nil {
		return nil, err
	}
	return imp, nil
}

func (h *ImportHandler) GetImport(c *fiber.Ctx) error {
	imp, err := h.getImportWithAccess(c)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, "Import retrieved successfully", imp)
}

func (h *ImportHandler) GetAccounts(c *fiber.Ctx) error {
	imp, err := h.getImportWithAccess(c)
	if err != nil {
		return err
	}

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	accounts, total, err := h.importRepo.GetAccounts(imp.ID, params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve accounts", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Accounts retrieved successfully", fiber.Map{
		"accounts": accounts,
	}, pagination)
}

func (h *ImportHandler) GetFindings(c *fiber.Ctx) error {
	imp, err := h.getImportWithAccess(c)
	if err != nil {
		return err
	}

	findings, err := h.importRepo.GetFindings(imp.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve findings", err)
	}

	return utils.SuccessResponse(c, "Findings retrieved successfully", findings)
}

// ProcessImport queues the background pipeline run for an upload.
func (h *ImportHandler) ProcessImport(c *fiber.Ctx) error {
	imp, err := h.getImportWithAccess(c)
	if err != nil {
		return err
	}

	// Check if already processing or in a terminal state
	if imp.Status == models.ImportStatusProcessing {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Import is already being processed", nil)
	}
	if imp.Status == models.ImportStatusAccepted || imp.Status == models.ImportStatusRejected {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Import has already been processed", nil)
	}

	if h.asynqClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background processing is not available (Redis not connected)", nil)
	}

	// Update status to processing
	if err := h.importRepo.UpdateStatus(imp.ID, models.ImportStatusProcessing); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update import status", err)
	}

	opts := h.parseOptions(c)
	payload, _ := json.Marshal(fiber.Map{
		"import_id": imp.ID,
		"reference": imp.Reference,
		"options":   opts,
	})

	task := asynq.NewTask(TaskProcessBalance, payload)
	info, err := h.asynqClient.Enqueue(task)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue processing task", err)
	}

	return utils.SuccessResponse(c, "Processing started", fiber.Map{
		"job_id": info.ID,
		"import": imp,
	})
}

func (h *ImportHandler) CancelImport(c *fiber.Ctx) error {
	imp, err := h.getImportWithAccess(c)
	if err != nil {
		return err
	}

	if imp.Status != models.ImportStatusUploaded && imp.Status != models.ImportStatusProcessing {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only pending or processing imports can be canceled", nil)
	}

	if err := h.importRepo.UpdateStatus(imp.ID, models.ImportStatusCanceled); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to cancel import", err)
	}

	return utils.SuccessResponse(c, "Import canceled", nil)
}

func (h *ImportHandler) DeleteImport(c *fiber.Ctx) error {
	imp, err := h.getImportWithAccess(c)
	if err != nil {
		return err
	}

	if err := h.importRepo.DeleteImport(imp.ID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete import", err)
	}

	// Best effort: the stored upload is no longer referenced.
	_ = os.Remove(imp.FilePath)

	return utils.SuccessResponse(c, "Import deleted", nil)
}

// ExportImport re-runs the pipeline over the stored file and streams the
// result workbook.
func (h *ImportHandler) ExportImport(c *fiber.Ctx) error {
	imp, err := h.getImportWithAccess(c)
	if err != nil {
		return err
	}

	result, err := h.importService.RunFile(imp, h.importService.DefaultOptions())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process stored file", err)
	}

	exportFileName := fmt.Sprintf("export_%s_%s.xlsx", imp.Reference, time.Now().Format("20060102_150405"))
	exportPath := filepath.Join(h.cfg.ExportPath, exportFileName)

	if err := h.excelService.ExportParseResult(result, exportPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export data", err)
	}

	return c.Download(exportPath, exportFileName)
}

// GetProgress reports background processing progress from Redis.
func (h *ImportHandler) GetProgress(c *fiber.Ctx) error {
	reference := c.Params("reference")

	imp, err := h.importRepo.FindByReference(reference)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Import not found", err)
	}
	if _, err := h.requireCompanyAccess(c, imp.CompanyID); err != nil {
		return err
	}

	progress := "0.00"
	if h.redis != nil {
		key := fmt.Sprintf("import:progress:%d", imp.ID)
		if v, err := h.redis.Get(c.Context(), key).Result(); err == nil {
			progress = v
		}
	}

	return utils.SuccessResponse(c, "Progress retrieved successfully", fiber.Map{
		"reference": imp.Reference,
		"status":    imp.Status,
		"progress":  progress,
	})
}

// DownloadTemplate serves the standard-layout upload template.
func (h *ImportHandler) DownloadTemplate(c *fiber.Ctx) error {
	templatePath := filepath.Join(h.cfg.ExportPath, "balance_template.xlsx")
	if err := h.excelService.GenerateBalanceTemplate(templatePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}
	return c.Download(templatePath, "balanta_template.xlsx")
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
