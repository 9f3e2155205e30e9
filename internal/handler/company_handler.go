package handler

import (
	"strconv"

	"finguard/internal/models"
	"finguard/internal/repository"
	"finguard/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CompanyHandler struct {
	companyRepo *repository.CompanyRepository
}

func NewCompanyHandler(companyRepo *repository.CompanyRepository) *CompanyHandler {
	return &CompanyHandler{companyRepo: companyRepo}
}

// requireCompanyAccess loads a company and verifies the caller may act on
// it. Admins see every company; users only their own.
func (h *CompanyHandler) requireCompanyAccess(c *fiber.Ctx, companyID int) (*models.Company, error) {
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

func (h *CompanyHandler) GetCompanies(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)
	role := c.Locals("role").(string)

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	// Admin can see all companies, user can only see their own
	ownerID := 0
	if role != "admin" {
		ownerID = userID
	}

	companies, total, err := h.companyRepo.FindAll(params.Limit, offset, params.Search, ownerID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve companies", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Companies retrieved successfully", fiber.Map{
		"companies": companies,
	}, pagination)
}

func (h *CompanyHandler) GetCompany(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid company ID", err)
	}

	company, err := h.requireCompanyAccess(c, id)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, "Company retrieved successfully", company)
}

func (h *CompanyHandler) CreateCompany(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	var req models.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.Name == "" || req.FiscalCode == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Name and fiscal code are required", nil)
	}
	if req.Currency == "" {
		req.Currency = "RON"
	}

	company := &models.Company{
		OwnerID:         userID,
		Name:            req.Name,
		FiscalCode:      req.FiscalCode,
		Currency:        req.Currency,
		FiscalYearStart: req.FiscalYearStart,
		IsActive:        true,
	}

	if err := h.companyRepo.Create(company); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create company", err)
	}

	return utils.SuccessResponse(c, "Company created successfully", company)
}

func (h *CompanyHandler) UpdateCompany(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid company ID", err)
	}

	company, err := h.requireCompanyAccess(c, id)
	if err != nil {
		return err
	}

	var req models.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	company.Name = req.Name
	company.FiscalCode = req.FiscalCode
	if req.Currency != "" {
		company.Currency = req.Currency
	}
	if req.FiscalYearStart != "" {
		company.FiscalYearStart = req.FiscalYearStart
	}
	company.IsActive = req.IsActive

	if err := h.companyRepo.Update(company); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update company", err)
	}

	return utils.SuccessResponse(c, "Company updated successfully", company)
}

func (h *CompanyHandler) DeleteCompany(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid company ID", err)
	}

	if _, err := h.requireCompanyAccess(c, id); err != nil {
		return err
	}

	if err := h.companyRepo.Delete(id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete company", err)
	}

	return utils.SuccessResponse(c, "Company deleted successfully", nil)
}
