package repository

import (
	"fmt"

	"finguard/internal/models"

	"github.com/jmoiron/sqlx"
)

type ImportRepository struct {
	db *sqlx.DB
}

func NewImportRepository(db *sqlx.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

func (r *ImportRepository) CreateImport(imp *models.BalanceImport) error {
	query := `INSERT INTO balance_imports
	          (reference, company_id, user_id, filename, file_path, format, confidence,
	           period, fiscal_year, currency, total_rows, accepted_rows, error_count,
	           warning_count, status, error_message)
	          VALUES (:reference, :company_id, :user_id, :filename, :file_path, :format,
	           :confidence, :period, :fiscal_year, :currency, :total_rows, :accepted_rows,
	           :error_count, :warning_count, :status, :error_message)`
	result, err := r.db.NamedExec(query, imp)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	imp.ID = int(id)
	return nil
}

func (r *ImportRepository) FindByID(id int) (*models.BalanceImport, error) {
	var imp models.BalanceImport
	query := "SELECT * FROM balance_imports WHERE id = ? LIMIT 1"
	err := r.db.Get(&imp, query, id)
	if err != nil {
		return nil, err
	}
	return &imp, nil
}

func (r *ImportRepository) FindByReference(reference string) (*models.BalanceImport, error) {
	var imp models.BalanceImport
	query := "SELECT * FROM balance_imports WHERE reference = ? LIMIT 1"
	err := r.db.Get(&imp, query, reference)
	if err != nil {
		return nil, err
	}
	return &imp, nil
}

// FindAll lists imports, restricted to one company when companyID > 0.
func (r *ImportRepository) FindAll(limit, offset, companyID int) ([]models.BalanceImport, int, error) {
	var imports []models.BalanceImport
	var total int

	whereClause := ""
	args := []interface{}{}
	if companyID > 0 {
		whereClause = "WHERE company_id = ?"
		args = append(args, companyID)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM balance_imports %s", whereClause)
	err := r.db.Get(&total, countQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT * FROM balance_imports %s
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	err = r.db.Select(&imports, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return imports, total, nil
}

func (r *ImportRepository) UpdateImport(imp *models.BalanceImport) error {
	query := `UPDATE balance_imports SET format = :format, confidence = :confidence,
	          total_rows = :total_rows, accepted_rows = :accepted_rows,
	          error_count = :error_count, warning_count = :warning_count,
	          status = :status, error_message = :error_message
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, imp)
	return err
}

func (r *ImportRepository) UpdateStatus(id int, status string) error {
	query := "UPDATE balance_imports SET status = ? WHERE id = ?"
	_, err := r.db.Exec(query, status, id)
	return err
}

func (r *ImportRepository) DeleteImport(id int) error {
	if _, err := r.db.Exec("DELETE FROM balance_accounts WHERE import_id = ?", id); err != nil {
		return err
	}
	if _, err := r.db.Exec("DELETE FROM import_findings WHERE import_id = ?", id); err != nil {
		return err
	}
	_, err := r.db.Exec("DELETE FROM balance_imports WHERE id = ?", id)
	return err
}

// LatestAccepted returns the most recent accepted import for a company,
// optionally scoped to a period.
func (r *ImportRepository) LatestAccepted(companyID int, period string) (*models.BalanceImport, error) {
	var imp models.BalanceImport
	query := "SELECT * FROM balance_imports WHERE company_id = ? AND status = ?"
	args := []interface{}{companyID, models.ImportStatusAccepted}
	if period != "" {
		query += " AND period = ?"
		args = append(args, period)
	}
	query += " ORDER BY created_at DESC LIMIT 1"
	err := r.db.Get(&imp, query, args...)
	if err != nil {
		return nil, err
	}
	return &imp, nil
}

func (r *ImportRepository) BulkInsertAccounts(rows []models.BalanceAccountRow) error {
	if len(rows) == 0 {
		return nil
	}

	query := `INSERT INTO balance_accounts
	          (import_id, line, account_code, account_name, opening_debit, opening_credit,
	           debit_turnover, credit_turnover, closing_debit, closing_credit)
	          VALUES (:import_id, :line, :account_code, :account_name, :opening_debit,
	           :opening_credit, :debit_turnover, :credit_turnover, :closing_debit, :closing_credit)`
	_, err := r.db.NamedExec(query, rows)
	return err
}

func (r *ImportRepository) GetAccounts(importID, limit, offset int) ([]models.BalanceAccountRow, int, error) {
	var rows []models.BalanceAccountRow
	var total int

	err := r.db.Get(&total, "SELECT COUNT(*) FROM balance_accounts WHERE import_id = ?", importID)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM balance_accounts WHERE import_id = ?
	          ORDER BY line LIMIT ? OFFSET ?`
	err = r.db.Select(&rows, query, importID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *ImportRepository) GetAllAccounts(importID int) ([]models.BalanceAccountRow, error) {
	var rows []models.BalanceAccountRow
	query := "SELECT * FROM balance_accounts WHERE import_id = ? ORDER BY line"
	err := r.db.Select(&rows, query, importID)
	return rows, err
}

func (r *ImportRepository) BulkInsertFindings(findings []models.ImportFinding) error {
	if len(findings) == 0 {
		return nil
	}

	query := `INSERT INTO import_findings
	          (import_id, severity, type, message, line, account_code, field, suggestion)
	          VALUES (:import_id, :severity, :type, :message, :line, :account_code, :field, :suggestion)`
	_, err := r.db.NamedExec(query, findings)
	return err
}

func (r *ImportRepository) GetFindings(importID int) ([]models.ImportFinding, error) {
	var findings []models.ImportFinding
	query := `SELECT * FROM import_findings WHERE import_id = ?
	          ORDER BY FIELD(severity, 'error', 'warning'), line`
	err := r.db.Select(&findings, query, importID)
	return findings, err
}
