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

// organizationSortFields is the sort allow-list for organization listings.
var organizationSortFields = []string{"name"}

// OrganizationService implements the organization CRUD operations.
type OrganizationService struct {
	orgs   ports.OrganizationRepository
	logger *zap.Logger
}

// NewOrganizationService creates an OrganizationService.
func NewOrganizationService(orgs ports.OrganizationRepository, logger *zap.Logger) *OrganizationService {
	return &OrganizationService{orgs: orgs, logger: logger}
}

// CreateOrganizationInput carries the fields needed to create an organization.
type CreateOrganizationInput struct {
	Name        string
	Industry    string
	DateFounded time.Time
}

// UpdateOrganizationInput carries the replaceable fields of an organization.
type UpdateOrganizationInput struct {
	Name        string
	Industry    string
	DateFounded time.Time
}

// Create stores a new organization with a generated id.
func (s *OrganizationService) Create(ctx context.Context, input CreateOrganizationInput) (*entities.Organization, error) {
	now := time.Now().UTC()
	org := &entities.Organization{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Industry:    input.Industry,
		DateFounded: input.DateFounded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.orgs.Create(ctx, org)
	if err != nil {
		return nil, err
	}

	s.logger.Info("organization created",
		zap.String("organization_id", created.ID),
		zap.String("name", created.Name),
	)
	return created, nil
}

// FindByID returns one organization or a not found error.
func (s *OrganizationService) FindByID(ctx context.Context, id string) (*entities.Organization, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, errors.NewNotFoundError("Organization not found")
	}
	return org, nil
}

// List returns a page of organizations sorted by name.
func (s *OrganizationService) List(ctx context.Context, q ListQuery) (common.PagedResult[entities.Organization], error) {
	query, err := normalizeListQuery(q, organizationSortFields, "name")
	if err != nil {
		return common.PagedResult[entities.Organization]{}, err
	}

	rows, total, err := s.orgs.FindPage(ctx, query)
	if err != nil {
		return common.PagedResult[entities.Organization]{}, err
	}

	return common.NewPagedResult(rows, query.Page, query.PageSize, total), nil
}

// Update replaces the mutable fields of an organization.
func (s *OrganizationService) Update(ctx context.Context, id string, input UpdateOrganizationInput) (*entities.Organization, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, errors.NewNotFoundError("Organization not found")
	}

	org.Name = input.Name
	org.Industry = input.Industry
	org.DateFounded = input.DateFounded
	org.UpdatedAt = time.Now().UTC()

	return s.orgs.Update(ctx, org)
}

// Delete removes an organization and returns its last known state.
func (s *OrganizationService) Delete(ctx context.Context, id string) (*entities.Organization, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, errors.NewNotFoundError("Organization not found")
	}

	if _, err := s.orgs.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("organization deleted", zap.String("organization_id", id))
	return org, nil
}
