// Package ports defines the capability interfaces consumed by application
// services and implemented by infrastructure adapters.
package ports

import (
	"context"

	"orgapi/domain/entities"
	"orgapi/pkg/common"
)

// OrganizationRepository persists organizations.
type OrganizationRepository interface {
	Create(ctx context.Context, org *entities.Organization) (*entities.Organization, error)
	FindByID(ctx context.Context, id string) (*entities.Organization, error)
	FindPage(ctx context.Context, q common.PageQuery) ([]entities.Organization, int, error)
	Update(ctx context.Context, org *entities.Organization) (*entities.Organization, error)
	Delete(ctx context.Context, id string) (bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindPage(ctx context.Context, q common.PageQuery) ([]entities.User, int, error)
	Update(ctx context.Context, user *entities.User) (*entities.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, order *entities.Order) (*entities.Order, error)
	FindByID(ctx context.Context, id string) (*entities.Order, error)
	FindByIDWithRelations(ctx context.Context, id string) (*entities.OrderDetails, error)
	FindPage(ctx context.Context, q common.PageQuery) ([]entities.Order, int, error)
	Update(ctx context.Context, order *entities.Order) (*entities.Order, error)
	Delete(ctx context.Context, id string) (bool, error)
}
