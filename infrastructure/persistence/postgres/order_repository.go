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

var orderSortColumns = map[string]string{
	"orderDate": "order_date",
}

// OrderRepository implements ports.OrderRepository on postgres.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates an OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Create(ctx context.Context, order *entities.Order) (*entities.Order, error) {
	const query = `
		INSERT INTO orders (id, total_amount, user_id, organization_id, order_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, total_amount, user_id, organization_id, order_date, updated_at`

	row := r.pool.QueryRow(ctx, query,
		order.ID, order.TotalAmount, order.UserID, order.OrganizationID, order.OrderDate, order.UpdatedAt)

	out, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating order: %w", err)
	}
	return out, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entities.Order, error) {
	const query = `
		SELECT id, total_amount, user_id, organization_id, order_date, updated_at
		FROM orders
		WHERE id = $1`

	out, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: finding order %s: %w", id, err)
	}
	return out, nil
}

func (r *OrderRepository) FindByIDWithRelations(ctx context.Context, id string) (*entities.OrderDetails, error) {
	const query = `
		SELECT
			o.id, o.total_amount, o.user_id, o.organization_id, o.order_date, o.updated_at,
			u.id, u.first_name, u.last_name, u.email, u.organization_id, u.date_created, u.updated_at,
			g.id, g.name, g.industry, g.date_founded, g.created_at, g.updated_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		JOIN organizations g ON g.id = o.organization_id
		WHERE o.id = $1`

	var details entities.OrderDetails
	var user entities.User
	var org entities.Organization

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&details.ID, &details.TotalAmount, &details.UserID, &details.OrganizationID, &details.OrderDate, &details.UpdatedAt,
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.OrganizationID, &user.DateCreated, &user.UpdatedAt,
		&org.ID, &org.Name, &org.Industry, &org.DateFounded, &org.CreatedAt, &org.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: finding order %s with relations: %w", id, err)
	}

	details.User = &user
	details.Organization = &org
	return &details, nil
}

func (r *OrderRepository) FindPage(ctx context.Context, q common.PageQuery) ([]entities.Order, int, error) {
	order, err := orderClause(orderSortColumns, q)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, total_amount, user_id, organization_id, order_date, updated_at
		FROM orders
		%s
		LIMIT $1 OFFSET $2`, order)

	rows, err := r.pool.Query(ctx, query, q.PageSize, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: listing orders: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.Order, 0, q.PageSize)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: scanning order row: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: iterating order rows: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: counting orders: %w", err)
	}

	return orders, total, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *entities.Order) (*entities.Order, error) {
	const query = `
		UPDATE orders
		SET total_amount = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, total_amount, user_id, organization_id, order_date, updated_at`

	row := r.pool.QueryRow(ctx, query, order.ID, order.TotalAmount, order.UpdatedAt)

	out, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("postgres: updating order %s: %w", order.ID, err)
	}
	return out, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("postgres: deleting order %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanOrder(row pgx.Row) (*entities.Order, error) {
	var order entities.Order
	err := row.Scan(&order.ID, &order.TotalAmount, &order.UserID,
		&order.OrganizationID, &order.OrderDate, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
