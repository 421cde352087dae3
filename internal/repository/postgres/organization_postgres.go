package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"docport/internal/model"
	"docport/internal/repository"
)

// OrganizationPostgres reads the organizations table.
type OrganizationPostgres struct {
	db *sql.DB
}

// NewOrganizationPostgres creates a new OrganizationPostgres repository.
func NewOrganizationPostgres(db *sql.DB) *OrganizationPostgres {
	return &OrganizationPostgres{db: db}
}

var _ repository.OrganizationRepository = (*OrganizationPostgres)(nil)

// List returns all organizations ordered by name.
func (r *OrganizationPostgres) List(ctx context.Context) ([]model.Organization, error) {
	const q = `SELECT id, name, code FROM organizations ORDER BY name ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	items := make([]model.Organization, 0)
	for rows.Next() {
		var o model.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Code); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID returns one organization. An id that is not a UUID is reported as
// repository.ErrNotFound without a round trip.
func (r *OrganizationPostgres) FindByID(ctx context.Context, id string) (*model.Organization, error) {
	if !isUUID(id) {
		return nil, repository.ErrNotFound
	}
	const q = `SELECT id, name, code FROM organizations WHERE id = $1`
	var o model.Organization
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&o.ID, &o.Name, &o.Code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select organization: %w", err)
	}
	return &o, nil
}

// Seed inserts orgs that are not present yet, matched by code, and returns how
// many rows were added. Existing rows are left untouched.
func (r *OrganizationPostgres) Seed(ctx context.Context, orgs []model.Organization) (int, error) {
	const q = `INSERT INTO organizations (id, name, code) VALUES ($1, $2, $3) ON CONFLICT (code) DO NOTHING`
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed organizations: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, o := range orgs {
		res, err := tx.ExecContext(ctx, q, o.ID, o.Name, o.Code)
		if err != nil {
			return 0, fmt.Errorf("seed organization %s: %w", o.Code, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			added += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed organizations: %w", err)
	}
	return added, nil
}
