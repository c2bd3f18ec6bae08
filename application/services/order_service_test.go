package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orgapi/domain/entities"
	"orgapi/pkg/errors"
	"orgapi/tests/fakes"
)

func TestOrderServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("organization derived from the user", func(t *testing.T) {
		users := fakes.NewUserRepo()
		orders := fakes.NewOrderRepo()
		svc := NewOrderService(orders, users, zap.NewNop())

		orgID := uuid.NewString()
		userID := uuid.NewString()
		users.Seed(entities.User{ID: userID, Email: "ada@acme.test", OrganizationID: orgID})

		order, err := svc.Create(ctx, CreateOrderInput{UserID: userID, TotalAmount: 99.5})
		require.NoError(t, err)
		assert.Equal(t, orgID, order.OrganizationID)
		assert.Equal(t, userID, order.UserID)
		assert.Equal(t, 99.5, order.TotalAmount)
		assert.False(t, order.OrderDate.IsZero())
	})

	t.Run("unknown user yields not found without create", func(t *testing.T) {
		users := fakes.NewUserRepo()
		orders := fakes.NewOrderRepo()
		svc := NewOrderService(orders, users, zap.NewNop())

		missing := uuid.NewString()
		_, err := svc.Create(ctx, CreateOrderInput{UserID: missing, TotalAmount: 10})
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.Contains(t, err.Error(), missing)
		assert.Zero(t, orders.CreateCalls)
	})
}

func TestOrderServiceFindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("joins user and organization", func(t *testing.T) {
		users := fakes.NewUserRepo()
		orgs := fakes.NewOrganizationRepo()
		orders := fakes.NewOrderRepo()
		orders.Users = users
		orders.Orgs = orgs
		svc := NewOrderService(orders, users, zap.NewNop())

		org := entities.Organization{ID: uuid.NewString(), Name: "Acme"}
		user := entities.User{ID: uuid.NewString(), Email: "ada@acme.test", OrganizationID: org.ID}
		orgs.Seed(org)
		users.Seed(user)

		orderID := uuid.NewString()
		orders.Seed(entities.Order{ID: orderID, UserID: user.ID, OrganizationID: org.ID, TotalAmount: 5})

		details, err := svc.FindByID(ctx, orderID)
		require.NoError(t, err)
		require.NotNil(t, details.User)
		require.NotNil(t, details.Organization)
		assert.Equal(t, user.ID, details.User.ID)
		assert.Equal(t, org.ID, details.Organization.ID)
	})

	t.Run("missing order yields not found", func(t *testing.T) {
		svc := NewOrderService(fakes.NewOrderRepo(), fakes.NewUserRepo(), zap.NewNop())
		_, err := svc.FindByID(ctx, uuid.NewString())
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestOrderServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("second page of three seeded orders", func(t *testing.T) {
		orders := fakes.NewOrderRepo()
		svc := NewOrderService(orders, fakes.NewUserRepo(), zap.NewNop())

		base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		third := uuid.NewString()
		orders.Seed(
			entities.Order{ID: uuid.NewString(), OrderDate: base},
			entities.Order{ID: uuid.NewString(), OrderDate: base.Add(time.Hour)},
			entities.Order{ID: third, OrderDate: base.Add(2 * time.Hour)},
		)

		res, err := svc.List(ctx, ListQuery{Page: 2, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, third, res.Items[0].ID)
		assert.Equal(t, 2, res.Page)
		assert.Equal(t, 2, res.PageSize)
		assert.Equal(t, 3, res.TotalItems)
		assert.Equal(t, 2, res.TotalPages)
	})

	t.Run("sort field outside allow-list rejected", func(t *testing.T) {
		svc := NewOrderService(fakes.NewOrderRepo(), fakes.NewUserRepo(), zap.NewNop())
		_, err := svc.List(ctx, ListQuery{SortBy: "totalAmount"})
		require.Error(t, err)

		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, []string{"orderDate"}, appErr.Details["allowed"])
	})
}

func TestOrderServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("missing order never reaches repository delete", func(t *testing.T) {
		orders := fakes.NewOrderRepo()
		svc := NewOrderService(orders, fakes.NewUserRepo(), zap.NewNop())

		_, err := svc.Delete(ctx, uuid.NewString())
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.Zero(t, orders.DeleteCalls)
	})

	t.Run("existing order removed", func(t *testing.T) {
		orders := fakes.NewOrderRepo()
		svc := NewOrderService(orders, fakes.NewUserRepo(), zap.NewNop())

		id := uuid.NewString()
		orders.Seed(entities.Order{ID: id, TotalAmount: 7})

		removed, err := svc.Delete(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, removed.ID)
		assert.Equal(t, 1, orders.DeleteCalls)
	})
}

func TestOrderServiceUpdate(t *testing.T) {
	ctx := context.Background()

	orders := fakes.NewOrderRepo()
	svc := NewOrderService(orders, fakes.NewUserRepo(), zap.NewNop())

	id := uuid.NewString()
	orders.Seed(entities.Order{ID: id, TotalAmount: 7, UserID: uuid.NewString()})

	updated, err := svc.Update(ctx, id, UpdateOrderInput{TotalAmount: 12.25})
	require.NoError(t, err)
	assert.Equal(t, 12.25, updated.TotalAmount)

	_, err = svc.Update(ctx, uuid.NewString(), UpdateOrderInput{TotalAmount: 1})
	assert.True(t, errors.IsNotFound(err))
}
