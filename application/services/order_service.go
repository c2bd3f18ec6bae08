package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"orgapi/application/ports"
	"orgapi/domain/entities"
	"orgapi/pkg/common"
	"orgapi/pkg/errors"
)

// orderSortFields is the sort allow-list for order listings.
var orderSortFields = []string{"orderDate"}

// OrderService implements the order CRUD operations. The owning
// organization is always derived from the looked-up user, never taken
// from the client.
type OrderService struct {
	orders ports.OrderRepository
	users  ports.UserRepository
	logger *zap.Logger
}

// NewOrderService creates an OrderService.
func NewOrderService(orders ports.OrderRepository, users ports.UserRepository, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, users: users, logger: logger}
}

// CreateOrderInput carries the fields needed to create an order.
type CreateOrderInput struct {
	UserID      string
	TotalAmount float64
}

// UpdateOrderInput carries the replaceable fields of an order.
type UpdateOrderInput struct {
	TotalAmount float64
}

// Create stores a new order for an existing user.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*entities.Order, error) {
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotFoundErrorf("User %s does not exist", input.UserID)
	}

	now := time.Now().UTC()
	order := &entities.Order{
		ID:             uuid.NewString(),
		TotalAmount:    input.TotalAmount,
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		OrderDate:      now,
		UpdatedAt:      now,
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", created.ID),
		zap.String("user_id", created.UserID),
		zap.Float64("total_amount", created.TotalAmount),
	)
	return created, nil
}

// FindByID returns one order joined with its user and organization.
func (s *OrderService) FindByID(ctx context.Context, id string) (*entities.OrderDetails, error) {
	order, err := s.orders.FindByIDWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.NewNotFoundError("Order not found")
	}
	return order, nil
}

// List returns a page of orders sorted by order date.
func (s *OrderService) List(ctx context.Context, q ListQuery) (common.PagedResult[entities.Order], error) {
	query, err := normalizeListQuery(q, orderSortFields, "orderDate")
	if err != nil {
		return common.PagedResult[entities.Order]{}, err
	}

	rows, total, err := s.orders.FindPage(ctx, query)
	if err != nil {
		return common.PagedResult[entities.Order]{}, err
	}

	return common.NewPagedResult(rows, query.Page, query.PageSize, total), nil
}

// Update replaces the order's total amount.
func (s *OrderService) Update(ctx context.Context, id string, input UpdateOrderInput) (*entities.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.NewNotFoundError("Order not found")
	}

	order.TotalAmount = input.TotalAmount
	order.UpdatedAt = time.Now().UTC()

	return s.orders.Update(ctx, order)
}

// Delete removes an order and returns its last known state.
func (s *OrderService) Delete(ctx context.Context, id string) (*entities.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.NewNotFoundError("Order not found")
	}

	if _, err := s.orders.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("order deleted", zap.String("order_id", id))
	return order, nil
}
