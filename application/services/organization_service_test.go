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

func TestOrganizationServiceCreate(t *testing.T) {
	ctx := context.Background()
	orgs := fakes.NewOrganizationRepo()
	svc := NewOrganizationService(orgs, zap.NewNop())

	created, err := svc.Create(ctx, CreateOrganizationInput{
		Name:        "Acme",
		Industry:    "SaaS",
		DateFounded: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NoError(t, uuid.Validate(created.ID))

	found, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", found.Name)
	assert.Equal(t, "SaaS", found.Industry)
}

func TestOrganizationServiceFindByID(t *testing.T) {
	ctx := context.Background()
	svc := NewOrganizationService(fakes.NewOrganizationRepo(), zap.NewNop())

	_, err := svc.FindByID(ctx, uuid.NewString())
	assert.True(t, errors.IsNotFound(err))
}

func TestOrganizationServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("page clamps to the minimum", func(t *testing.T) {
		svc := NewOrganizationService(fakes.NewOrganizationRepo(), zap.NewNop())
		res, err := svc.List(ctx, ListQuery{Page: -4})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 1, res.TotalPages)
	})

	t.Run("sorted descending by name", func(t *testing.T) {
		orgs := fakes.NewOrganizationRepo()
		orgs.Seed(
			entities.Organization{ID: uuid.NewString(), Name: "Beta"},
			entities.Organization{ID: uuid.NewString(), Name: "Alpha"},
		)
		svc := NewOrganizationService(orgs, zap.NewNop())

		res, err := svc.List(ctx, ListQuery{SortDir: "desc"})
		require.NoError(t, err)
		require.Len(t, res.Items, 2)
		assert.Equal(t, "Beta", res.Items[0].Name)
	})

	t.Run("invalid sort direction rejected", func(t *testing.T) {
		svc := NewOrganizationService(fakes.NewOrganizationRepo(), zap.NewNop())
		_, err := svc.List(ctx, ListQuery{SortDir: "up"})
		assert.True(t, errors.IsBadRequest(err))
	})
}

func TestOrganizationServiceUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	orgs := fakes.NewOrganizationRepo()
	svc := NewOrganizationService(orgs, zap.NewNop())

	id := uuid.NewString()
	orgs.Seed(entities.Organization{ID: id, Name: "Acme", Industry: "SaaS"})

	updated, err := svc.Update(ctx, id, UpdateOrganizationInput{
		Name:        "Acme Corp",
		Industry:    "Software",
		DateFounded: time.Date(2014, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)

	removed, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, removed.ID)

	_, err = svc.Delete(ctx, id)
	assert.True(t, errors.IsNotFound(err))
}
