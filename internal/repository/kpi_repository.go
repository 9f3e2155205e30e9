package repository

import (
	"finguard/internal/models"

	"github.com/jmoiron/sqlx"
)

type KPIRepository struct {
	db *sqlx.DB
}

func NewKPIRepository(db *sqlx.DB) *KPIRepository {
	return &KPIRepository{db: db}
}

func (r *KPIRepository) SaveSnapshot(snapshot *models.KPISnapshot) error {
	query := `INSERT INTO kpi_snapshots
	          (company_id, import_id, period, revenue, expenses, net_result,
	           current_assets, fixed_assets, inventory, cash, liabilities, equity,
	           working_capital, current_ratio, quick_ratio, debt_to_equity, net_margin)
	          VALUES (:company_id, :import_id, :period, :revenue, :expenses, :net_result,
	           :current_assets, :fixed_assets, :inventory, :cash, :liabilities, :equity,
	           :working_capital, :current_ratio, :quick_ratio, :debt_to_equity, :net_margin)`
	result, err := r.db.NamedExec(query, snapshot)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	snapshot.ID = id
	return nil
}

// Latest returns the newest snapshot for a company, optionally scoped to a
// reporting period.
func (r *KPIRepository) Latest(companyID int, period string) (*models.KPISnapshot, error) {
	var snapshot models.KPISnapshot
	query := "SELECT * FROM kpi_snapshots WHERE company_id = ?"
	args := []interface{}{companyID}
	if period != "" {
		query += " AND period = ?"
		args = append(args, period)
	}
	query += " ORDER BY created_at DESC LIMIT 1"
	err := r.db.Get(&snapshot, query, args...)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
