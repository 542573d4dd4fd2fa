package repository

import (
	"context"
	"database/sql"

	"rentiva/internal/db"
)

type OrgRepository struct {
	DB *sql.DB
}

func NewOrgRepository(database *sql.DB) *OrgRepository {
	return &OrgRepository{DB: database}
}

// GetBySlug resolves a tenant. sql.ErrNoRows propagates for a 404 mapping.
func (r *OrgRepository) GetBySlug(ctx context.Context, slug string) (*db.Organization, error) {
	var org db.Organization
	query := `SELECT id, slug, name, currency, created_at FROM organizations WHERE slug = $1 AND active = TRUE`
	err := r.DB.QueryRowContext(ctx, query, slug).Scan(&org.ID, &org.Slug, &org.Name, &org.Currency, &org.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *OrgRepository) GetByID(ctx context.Context, id int) (*db.Organization, error) {
	var org db.Organization
	query := `SELECT id, slug, name, currency, created_at FROM organizations WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&org.ID, &org.Slug, &org.Name, &org.Currency, &org.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &org, nil
}
