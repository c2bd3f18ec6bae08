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

func seedOrganization(t *testing.T, orgs *fakes.OrganizationRepo) entities.Organization {
	t.Helper()
	org := entities.Organization{
		ID:          uuid.NewString(),
		Name:        "Acme",
		Industry:    "SaaS",
		DateFounded: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	orgs.Seed(org)
	return org
}

func TestUserServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user in existing organization", func(t *testing.T) {
		users := fakes.NewUserRepo()
		orgs := fakes.NewOrganizationRepo()
		org := seedOrganization(t, orgs)
		svc := NewUserService(users, orgs, zap.NewNop())

		user, err := svc.Create(ctx, CreateUserInput{
			FirstName:      "Ada",
			LastName:       "Lovelace",
			Email:          "ada@acme.test",
			OrganizationID: org.ID,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, org.ID, user.OrganizationID)
		assert.Equal(t, 1, users.CreateCalls)
	})

	t.Run("unknown organization yields not found without create", func(t *testing.T) {
		users := fakes.NewUserRepo()
		orgs := fakes.NewOrganizationRepo()
		svc := NewUserService(users, orgs, zap.NewNop())

		missing := uuid.NewString()
		_, err := svc.Create(ctx, CreateUserInput{
			FirstName:      "Ada",
			LastName:       "Lovelace",
			Email:          "ada@acme.test",
			OrganizationID: missing,
		})
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.Contains(t, err.Error(), missing)
		assert.Zero(t, users.CreateCalls)
	})

	t.Run("occupied email yields conflict without create", func(t *testing.T) {
		users := fakes.NewUserRepo()
		orgs := fakes.NewOrganizationRepo()
		org := seedOrganization(t, orgs)
		users.Seed(entities.User{
			ID:             uuid.NewString(),
			Email:          "ada@acme.test",
			OrganizationID: org.ID,
		})
		svc := NewUserService(users, orgs, zap.NewNop())

		_, err := svc.Create(ctx, CreateUserInput{
			FirstName:      "Ada",
			LastName:       "Lovelace",
			Email:          "ada@acme.test",
			OrganizationID: org.ID,
		})
		require.Error(t, err)
		assert.True(t, errors.IsConflict(err))
		assert.Zero(t, users.CreateCalls)
	})
}

func TestUserServiceList(t *testing.T) {
	ctx := context.Background()

	newSvc := func() (*UserService, *fakes.UserRepo) {
		users := fakes.NewUserRepo()
		orgs := fakes.NewOrganizationRepo()
		return NewUserService(users, orgs, zap.NewNop()), users
	}

	t.Run("unsupported sort field reports allow-list", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.List(ctx, ListQuery{SortBy: "lastName"})
		require.Error(t, err)

		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.True(t, errors.IsBadRequest(err))
		assert.Equal(t, []string{"email"}, appErr.Details["allowed"])
	})

	t.Run("unsupported sort direction reports allow-list", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.List(ctx, ListQuery{SortDir: "sideways"})
		require.Error(t, err)

		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, []string{"asc", "desc"}, appErr.Details["allowed"])
	})

	t.Run("page size clamps to the maximum", func(t *testing.T) {
		svc, _ := newSvc()
		res, err := svc.List(ctx, ListQuery{PageSize: 9999})
		require.NoError(t, err)
		assert.Equal(t, 200, res.PageSize)
	})

	t.Run("sorted ascending by email", func(t *testing.T) {
		svc, users := newSvc()
		users.Seed(
			entities.User{ID: uuid.NewString(), Email: "carol@acme.test"},
			entities.User{ID: uuid.NewString(), Email: "alice@acme.test"},
			entities.User{ID: uuid.NewString(), Email: "bob@acme.test"},
		)

		res, err := svc.List(ctx, ListQuery{})
		require.NoError(t, err)
		require.Len(t, res.Items, 3)
		assert.Equal(t, "alice@acme.test", res.Items[0].Email)
		assert.Equal(t, "carol@acme.test", res.Items[2].Email)
		assert.Equal(t, 3, res.TotalItems)
		assert.Equal(t, 1, res.TotalPages)
	})
}

func TestUserServiceUpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("update replaces names only", func(t *testing.T) {
		users := fakes.NewUserRepo()
		orgs := fakes.NewOrganizationRepo()
		svc := NewUserService(users, orgs, zap.NewNop())

		id := uuid.NewString()
		users.Seed(entities.User{ID: id, FirstName: "Ada", LastName: "L", Email: "ada@acme.test"})

		updated, err := svc.Update(ctx, id, UpdateUserInput{FirstName: "Augusta", LastName: "King"})
		require.NoError(t, err)
		assert.Equal(t, "Augusta", updated.FirstName)
		assert.Equal(t, "ada@acme.test", updated.Email)
	})

	t.Run("update of missing user yields not found", func(t *testing.T) {
		users := fakes.NewUserRepo()
		svc := NewUserService(users, fakes.NewOrganizationRepo(), zap.NewNop())

		_, err := svc.Update(ctx, uuid.NewString(), UpdateUserInput{FirstName: "X", LastName: "Y"})
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("delete returns removed user", func(t *testing.T) {
		users := fakes.NewUserRepo()
		svc := NewUserService(users, fakes.NewOrganizationRepo(), zap.NewNop())

		id := uuid.NewString()
		users.Seed(entities.User{ID: id, Email: "ada@acme.test"})

		removed, err := svc.Delete(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, removed.ID)

		_, err = svc.FindByID(ctx, id)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("delete of missing user never reaches repository", func(t *testing.T) {
		users := fakes.NewUserRepo()
		svc := NewUserService(users, fakes.NewOrganizationRepo(), zap.NewNop())

		_, err := svc.Delete(ctx, uuid.NewString())
		assert.True(t, errors.IsNotFound(err))
		assert.Zero(t, users.DeleteCalls)
	})
}
