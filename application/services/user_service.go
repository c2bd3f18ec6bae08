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

// userSortFields is the sort allow-list for user listings.
var userSortFields = []string{"email"}

// UserService implements the user CRUD operations. Creation guards the
// organization FK and the global email uniqueness before touching the
// repository.
type UserService struct {
	users  ports.UserRepository
	orgs   ports.OrganizationRepository
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(users ports.UserRepository, orgs ports.OrganizationRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, orgs: orgs, logger: logger}
}

// CreateUserInput carries the fields needed to create a user.
type CreateUserInput struct {
	FirstName      string
	LastName       string
	Email          string
	OrganizationID string
}

// UpdateUserInput carries the replaceable fields of a user.
type UpdateUserInput struct {
	FirstName string
	LastName  string
}

// Create stores a new user after checking that the organization exists and
// the email is free. Both checks short-circuit before any write.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*entities.User, error) {
	orgExists, err := s.orgs.ExistsByID(ctx, input.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !orgExists {
		return nil, errors.NewNotFoundErrorf("Organization %s does not exist", input.OrganizationID)
	}

	emailOccupied, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if emailOccupied {
		return nil, errors.NewConflictErrorf("Email %s is already occupied", input.Email)
	}

	now := time.Now().UTC()
	user := &entities.User{
		ID:             uuid.NewString(),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		OrganizationID: input.OrganizationID,
		DateCreated:    now,
		UpdatedAt:      now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", created.ID),
		zap.String("organization_id", created.OrganizationID),
	)
	return created, nil
}

// FindByID returns one user or a not found error.
func (s *UserService) FindByID(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotFoundError("User not found")
	}
	return user, nil
}

// List returns a page of users sorted by email.
func (s *UserService) List(ctx context.Context, q ListQuery) (common.PagedResult[entities.User], error) {
	query, err := normalizeListQuery(q, userSortFields, "email")
	if err != nil {
		return common.PagedResult[entities.User]{}, err
	}

	rows, total, err := s.users.FindPage(ctx, query)
	if err != nil {
		return common.PagedResult[entities.User]{}, err
	}

	return common.NewPagedResult(rows, query.Page, query.PageSize, total), nil
}

// Update replaces the user's name fields.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*entities.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotFoundError("User not found")
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.UpdatedAt = time.Now().UTC()

	return s.users.Update(ctx, user)
}

// Delete removes a user and returns its last known state.
func (s *UserService) Delete(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotFoundErrorf("User %s not found", id)
	}

	if _, err := s.users.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("user deleted", zap.String("user_id", id))
	return user, nil
}
