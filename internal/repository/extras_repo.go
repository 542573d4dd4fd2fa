package repository

import (
	"context"
	"database/sql"
	"fmt"

	"rentiva/internal/db"

	"github.com/lib/pq"
)

type ExtrasRepository struct {
	DB *sql.DB
}

func NewExtrasRepository(database *sql.DB) *ExtrasRepository {
	return &ExtrasRepository{DB: database}
}

func (r *ExtrasRepository) ListExtras(ctx context.Context, orgID int) ([]db.Extra, error) {
	query := `SELECT id, org_id, name, price, per_day FROM extras WHERE org_id = $1 ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("error querying extras: %w", err)
	}
	defer rows.Close()

	var extras []db.Extra
	for rows.Next() {
		var e db.Extra
		if err := rows.Scan(&e.ID, &e.OrgID, &e.Name, &e.Price, &e.PerDay); err != nil {
			return nil, fmt.Errorf("error scanning extra: %w", err)
		}
		extras = append(extras, e)
	}
	return extras, rows.Err()
}

// GetExtrasByIDs fetches the selected extras, silently dropping unknown ids.
func (r *ExtrasRepository) GetExtrasByIDs(ctx context.Context, orgID int, ids []int) ([]db.Extra, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT id, org_id, name, price, per_day FROM extras WHERE org_id = $1 AND id = ANY($2)`
	rows, err := r.DB.QueryContext(ctx, query, orgID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error querying selected extras: %w", err)
	}
	defer rows.Close()

	var extras []db.Extra
	for rows.Next() {
		var e db.Extra
		if err := rows.Scan(&e.ID, &e.OrgID, &e.Name, &e.Price, &e.PerDay); err != nil {
			return nil, fmt.Errorf("error scanning extra: %w", err)
		}
		extras = append(extras, e)
	}
	return extras, rows.Err()
}

func (r *ExtrasRepository) ListInsuranceTypes(ctx context.Context, orgID int) ([]db.InsuranceType, error) {
	query := `SELECT id, org_id, name, price_per_day, COALESCE(description, '') FROM insurance_types WHERE org_id = $1 ORDER BY price_per_day`
	rows, err := r.DB.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("error querying insurance types: %w", err)
	}
	defer rows.Close()

	var types []db.InsuranceType
	for rows.Next() {
		var it db.InsuranceType
		if err := rows.Scan(&it.ID, &it.OrgID, &it.Name, &it.PricePerDay, &it.Description); err != nil {
			return nil, fmt.Errorf("error scanning insurance type: %w", err)
		}
		types = append(types, it)
	}
	return types, rows.Err()
}

// GetInsuranceType returns one insurance type or nil when it does not exist.
func (r *ExtrasRepository) GetInsuranceType(ctx context.Context, orgID, id int) (*db.InsuranceType, error) {
	var it db.InsuranceType
	query := `SELECT id, org_id, name, price_per_day, COALESCE(description, '') FROM insurance_types WHERE org_id = $1 AND id = $2`
	err := r.DB.QueryRowContext(ctx, query, orgID, id).Scan(&it.ID, &it.OrgID, &it.Name, &it.PricePerDay, &it.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying insurance type: %w", err)
	}
	return &it, nil
}
