package models

import "time"

type Company struct {
	ID              int       `db:"id" json:"id"`
	OwnerID         int       `db:"owner_id" json:"owner_id"`
	Name            string    `db:"name" json:"name"`
	FiscalCode      string    `db:"fiscal_code" json:"fiscal_code"`
	Currency        string    `db:"currency" json:"currency"`
	FiscalYearStart string    `db:"fiscal_year_start" json:"fiscal_year_start"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type CompanyRequest struct {
	Name            string `json:"name" validate:"required"`
	FiscalCode      string `json:"fiscal_code" validate:"required"`
	Currency        string `json:"currency"`
	FiscalYearStart string `json:"fiscal_year_start"`
	IsActive        bool   `json:"is_active"`
}
