package repository

import (
	"fmt"

	"finguard/internal/models"

	"github.com/jmoiron/sqlx"
)

type CompanyRepository struct {
	db *sqlx.DB
}

func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// FindAll lists companies, restricted to one owner when ownerID > 0.
func (r *CompanyRepository) FindAll(limit, offset int, search string, ownerID int) ([]models.Company, int, error) {
	var companies []models.Company
	var total int

	whereClause := "WHERE 1=1"
	args := []interface{}{}

	if ownerID > 0 {
		whereClause += " AND owner_id = ?"
		args = append(args, ownerID)
	}
	if search != "" {
		whereClause += " AND (name LIKE ? OR fiscal_code LIKE ?)"
		searchPattern := "%" + search + "%"
		args = append(args, searchPattern, searchPattern)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM companies %s", whereClause)
	err := r.db.Get(&total, countQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id,
		       owner_id,
		       name,
		       fiscal_code,
		       COALESCE(currency, 'RON') as currency,
		       COALESCE(fiscal_year_start, '01-01') as fiscal_year_start,
		       is_active,
		       created_at,
		       updated_at
		FROM companies %s
		ORDER BY name
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	err = r.db.Select(&companies, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return companies, total, nil
}

func (r *CompanyRepository) FindByID(id int) (*models.Company, error) {
	var company models.Company
	query := `
		SELECT id,
		       owner_id,
		       name,
		       fiscal_code,
		       COALESCE(currency, 'RON') as currency,
		       COALESCE(fiscal_year_start, '01-01') as fiscal_year_start,
		       is_active,
		       created_at,
		       updated_at
		FROM companies
		WHERE id = ?
		LIMIT 1`
	err := r.db.Get(&company, query, id)
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepository) Create(company *models.Company) error {
	query := `INSERT INTO companies (owner_id, name, fiscal_code, currency, fiscal_year_start, is_active)
	          VALUES (:owner_id, :name, :fiscal_code, :currency, :fiscal_year_start, :is_active)`
	result, err := r.db.NamedExec(query, company)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	company.ID = int(id)
	return nil
}

func (r *CompanyRepository) Update(company *models.Company) error {
	query := `UPDATE companies SET name = :name, fiscal_code = :fiscal_code,
	          currency = :currency, fiscal_year_start = :fiscal_year_start, is_active = :is_active
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, company)
	return err
}

func (r *CompanyRepository) Delete(id int) error {
	query := "DELETE FROM companies WHERE id = ?"
	_, err := r.db.Exec(query, id)
	return err
}
