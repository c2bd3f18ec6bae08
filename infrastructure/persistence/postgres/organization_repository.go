package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orgapi/domain/entities"
	"orgapi/pkg/common"
)

var organizationSortColumns = map[string]string{
	"name": "name",
}

// OrganizationRepository implements ports.OrganizationRepository on postgres.
type OrganizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository creates an OrganizationRepository.
func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *entities.Organization) (*entities.Organization, error) {
	const query = `
		INSERT INTO organizations (id, name, industry, date_founded, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, industry, date_founded, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		org.ID, org.Name, org.Industry, org.DateFounded, org.CreatedAt, org.UpdatedAt)

	out, err := scanOrganization(row)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating organization: %w", err)
	}
	return out, nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*entities.Organization, error) {
	const query = `
		SELECT id, name, industry, date_founded, created_at, updated_at
		FROM organizations
		WHERE id = $1`

	out, err := scanOrganization(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: finding organization %s: %w", id, err)
	}
	return out, nil
}

func (r *OrganizationRepository) FindPage(ctx context.Context, q common.PageQuery) ([]entities.Organization, int, error) {
	order, err := orderClause(organizationSortColumns, q)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, name, industry, date_founded, created_at, updated_at
		FROM organizations
		%s
		LIMIT $1 OFFSET $2`, order)

	rows, err := r.pool.Query(ctx, query, q.PageSize, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: listing organizations: %w", err)
	}
	defer rows.Close()

	orgs := make([]entities.Organization, 0, q.PageSize)
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: scanning organization row: %w", err)
		}
		orgs = append(orgs, *org)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: iterating organization rows: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM organizations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: counting organizations: %w", err)
	}

	return orgs, total, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *entities.Organization) (*entities.Organization, error) {
	const query = `
		UPDATE organizations
		SET name = $2, industry = $3, date_founded = $4, updated_at = $5
		WHERE id = $1
		RETURNING id, name, industry, date_founded, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		org.ID, org.Name, org.Industry, org.DateFounded, org.UpdatedAt)

	out, err := scanOrganization(row)
	if err != nil {
		return nil, fmt.Errorf("postgres: updating organization %s: %w", org.ID, err)
	}
	return out, nil
}

func (r *OrganizationRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("postgres: deleting organization %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrganizationRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM organizations WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: checking organization %s: %w", id, err)
	}
	return exists, nil
}

func scanOrganization(row pgx.Row) (*entities.Organization, error) {
	var org entities.Organization
	err := row.Scan(&org.ID, &org.Name, &org.Industry, &org.DateFounded, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &org, nil
}
