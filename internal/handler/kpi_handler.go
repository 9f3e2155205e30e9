package handler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"finguard/internal/models"
	"finguard/internal/repository"
	"finguard/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type KPIHandler struct {
	kpiRepo     *repository.KPIRepository
	companyRepo *repository.CompanyRepository
	redis       *redis.Client
}

func NewKPIHandler(kpiRepo *repository.KPIRepository, companyRepo *repository.CompanyRepository, redisClient *redis.Client) *KPIHandler {
	return &KPIHandler{
		kpiRepo:     kpiRepo,
		companyRepo: companyRepo,
		redis:       redisClient,
	}
}

// GetCompanyKPIs returns the latest KPI snapshot for a company, optionally
// filtered by period. Snapshots are cached in Redis for five minutes.
func (h *KPIHandler) GetCompanyKPIs(c *fiber.Ctx) error {
	companyID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid company ID", err)
	}

	company, err := h.companyRepo.FindByID(companyID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Company not found", err)
	}

	role := c.Locals("role").(string)
	userID := c.Locals("user_id").(int)
	if role != "admin" && company.OwnerID != userID {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Access to this company is not allowed", nil)
	}

	period := c.Query("period")
	cacheKey := fmt.Sprintf("kpi:company:%d:%s", companyID, period)

	if h.redis != nil {
		if cached, err := h.redis.Get(c.Context(), cacheKey).Result(); err == nil {
			var snapshot models.KPISnapshot
			if err := json.Unmarshal([]byte(cached), &snapshot); err == nil {
				return utils.SuccessResponse(c, "KPIs retrieved successfully", snapshot)
			}
		}
	}

	snapshot, err := h.kpiRepo.Latest(companyID, period)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No KPI snapshot available for this company", err)
	}

	if h.redis != nil {
		if data, err := json.Marshal(snapshot); err == nil {
			h.redis.Set(c.Context(), cacheKey, data, 5*time.Minute)
		}
	}

	return utils.SuccessResponse(c, "KPIs retrieved successfully", snapshot)
}
