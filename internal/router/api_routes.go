package router

import (
	"finguard/internal/config"
	"finguard/internal/handler"
	"finguard/internal/middleware"
	"finguard/internal/repository"
	"finguard/internal/service"
	"finguard/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redis *redis.Client,
	cfg *config.Config,
) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	importRepo := repository.NewImportRepository(db)
	kpiRepo := repository.NewKPIRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg)
	excelService := service.NewExcelService()
	importService := service.NewImportService(cfg, utils.GetLogger())

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redis != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	companyHandler := handler.NewCompanyHandler(companyRepo)
	importHandler := handler.NewImportHandler(importRepo, companyRepo, importService, excelService, asynqClient, redis, cfg)
	kpiHandler := handler.NewKPIHandler(kpiRepo, companyRepo, redis)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/logout", authHandler.Logout)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	// Auth routes
	protected.Get("/auth/me", authHandler.Me)

	// Company routes
	companies := protected.Group("/companies")
	companies.Get("/", companyHandler.GetCompanies)
	companies.Post("/", companyHandler.CreateCompany)
	companies.Get("/:id", companyHandler.GetCompany)
	companies.Put("/:id", companyHandler.UpdateCompany)
	companies.Delete("/:id", companyHandler.DeleteCompany)
	companies.Get("/:id/kpis", kpiHandler.GetCompanyKPIs)

	// Import routes
	imports := protected.Group("/imports")
	imports.Post("/", importHandler.UploadFile)
	imports.Post("/validate", importHandler.ValidateFile)
	imports.Get("/", importHandler.GetImports)
	imports.Get("/template", importHandler.DownloadTemplate)
	imports.Get("/progress/:reference", importHandler.GetProgress)
	imports.Get("/:id", importHandler.GetImport)
	imports.Get("/:id/accounts", importHandler.GetAccounts)
	imports.Get("/:id/findings", importHandler.GetFindings)
	imports.Post("/:id/process", importHandler.ProcessImport)
	imports.Post("/:id/cancel", importHandler.CancelImport)
	imports.Get("/:id/export", importHandler.ExportImport)
	imports.Delete("/:id", importHandler.DeleteImport)
}
