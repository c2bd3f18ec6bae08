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

var userSortColumns = map[string]string{
	"email": "email",
}

// UserRepository implements ports.UserRepository on postgres.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	const query = `
		INSERT INTO users (id, first_name, last_name, email, organization_id, date_created, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, first_name, last_name, email, organization_id, date_created, updated_at`

	row := r.pool.QueryRow(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.OrganizationID, user.DateCreated, user.UpdatedAt)

	out, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating user: %w", err)
	}
	return out, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	const query = `
		SELECT id, first_name, last_name, email, organization_id, date_created, updated_at
		FROM users
		WHERE id = $1`

	out, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: finding user %s: %w", id, err)
	}
	return out, nil
}

func (r *UserRepository) FindPage(ctx context.Context, q common.PageQuery) ([]entities.User, int, error) {
	order, err := orderClause(userSortColumns, q)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, first_name, last_name, email, organization_id, date_created, updated_at
		FROM users
		%s
		LIMIT $1 OFFSET $2`, order)

	rows, err := r.pool.Query(ctx, query, q.PageSize, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0, q.PageSize)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: scanning user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: iterating user rows: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: counting users: %w", err)
	}

	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	const query = `
		UPDATE users
		SET first_name = $2, last_name = $3, updated_at = $4
		WHERE id = $1
		RETURNING id, first_name, last_name, email, organization_id, date_created, updated_at`

	row := r.pool.QueryRow(ctx, query, user.ID, user.FirstName, user.LastName, user.UpdatedAt)

	out, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("postgres: updating user %s: %w", user.ID, err)
	}
	return out, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("postgres: deleting user %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: checking email %s: %w", email, err)
	}
	return exists, nil
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.OrganizationID, &user.DateCreated, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
