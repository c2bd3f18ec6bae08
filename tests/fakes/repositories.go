// Package fakes provides in-memory repository implementations for tests.
package fakes

import (
	"context"
	"sort"
	"strings"
	"sync"

	"orgapi/domain/entities"
	"orgapi/pkg/common"
)

// OrganizationRepo is an in-memory ports.OrganizationRepository.
type OrganizationRepo struct {
	mu   sync.Mutex
	byID map[string]entities.Organization

	CreateCalls int
	DeleteCalls int
	FailWith    error
}

// NewOrganizationRepo creates an empty OrganizationRepo.
func NewOrganizationRepo() *OrganizationRepo {
	return &OrganizationRepo{byID: make(map[string]entities.Organization)}
}

// Seed inserts organizations without counting as Create calls.
func (r *OrganizationRepo) Seed(orgs ...entities.Organization) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range orgs {
		r.byID[o.ID] = o
	}
}

func (r *OrganizationRepo) Create(_ context.Context, org *entities.Organization) (*entities.Organization, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CreateCalls++
	r.byID[org.ID] = *org
	out := *org
	return &out, nil
}

func (r *OrganizationRepo) FindByID(_ context.Context, id string) (*entities.Organization, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	org, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	out := org
	return &out, nil
}

func (r *OrganizationRepo) FindPage(_ context.Context, q common.PageQuery) ([]entities.Organization, int, error) {
	if r.FailWith != nil {
		return nil, 0, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]entities.Organization, 0, len(r.byID))
	for _, o := range r.byID {
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool {
		less := strings.Compare(all[i].Name, all[j].Name) < 0
		if q.SortDir == "desc" {
			return !less
		}
		return less
	})
	total := len(all)
	return page(all, q), total, nil
}

func (r *OrganizationRepo) Update(_ context.Context, org *entities.Organization) (*entities.Organization, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[org.ID] = *org
	out := *org
	return &out, nil
}

func (r *OrganizationRepo) Delete(_ context.Context, id string) (bool, error) {
	if r.FailWith != nil {
		return false, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DeleteCalls++
	_, ok := r.byID[id]
	delete(r.byID, id)
	return ok, nil
}

func (r *OrganizationRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	if r.FailWith != nil {
		return false, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byID[id]
	return ok, nil
}

// UserRepo is an in-memory ports.UserRepository.
type UserRepo struct {
	mu   sync.Mutex
	byID map[string]entities.User

	CreateCalls int
	DeleteCalls int
	FailWith    error
}

// NewUserRepo creates an empty UserRepo.
func NewUserRepo() *UserRepo {
	return &UserRepo{byID: make(map[string]entities.User)}
}

// Seed inserts users without counting as Create calls.
func (r *UserRepo) Seed(users ...entities.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range users {
		r.byID[u.ID] = u
	}
}

func (r *UserRepo) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CreateCalls++
	r.byID[user.ID] = *user
	out := *user
	return &out, nil
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*entities.User, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	out := user
	return &out, nil
}

func (r *UserRepo) FindPage(_ context.Context, q common.PageQuery) ([]entities.User, int, error) {
	if r.FailWith != nil {
		return nil, 0, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]entities.User, 0, len(r.byID))
	for _, u := range r.byID {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		less := strings.Compare(all[i].Email, all[j].Email) < 0
		if q.SortDir == "desc" {
			return !less
		}
		return less
	})
	total := len(all)
	return page(all, q), total, nil
}

func (r *UserRepo) Update(_ context.Context, user *entities.User) (*entities.User, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[user.ID] = *user
	out := *user
	return &out, nil
}

func (r *UserRepo) Delete(_ context.Context, id string) (bool, error) {
	if r.FailWith != nil {
		return false, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DeleteCalls++
	_, ok := r.byID[id]
	delete(r.byID, id)
	return ok, nil
}

func (r *UserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if r.FailWith != nil {
		return false, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// OrderRepo is an in-memory ports.OrderRepository. Relations are resolved
// against the optional Users and Orgs fakes.
type OrderRepo struct {
	mu   sync.Mutex
	byID map[string]entities.Order

	Users *UserRepo
	Orgs  *OrganizationRepo

	CreateCalls int
	DeleteCalls int
	FailWith    error
}

// NewOrderRepo creates an empty OrderRepo.
func NewOrderRepo() *OrderRepo {
	return &OrderRepo{byID: make(map[string]entities.Order)}
}

// Seed inserts orders without counting as Create calls.
func (r *OrderRepo) Seed(orders ...entities.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range orders {
		r.byID[o.ID] = o
	}
}

func (r *OrderRepo) Create(_ context.Context, order *entities.Order) (*entities.Order, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CreateCalls++
	r.byID[order.ID] = *order
	out := *order
	return &out, nil
}

func (r *OrderRepo) FindByID(_ context.Context, id string) (*entities.Order, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	out := order
	return &out, nil
}

func (r *OrderRepo) FindByIDWithRelations(ctx context.Context, id string) (*entities.OrderDetails, error) {
	order, err := r.FindByID(ctx, id)
	if err != nil || order == nil {
		return nil, err
	}

	details := &entities.OrderDetails{Order: *order}
	if r.Users != nil {
		details.User, _ = r.Users.FindByID(ctx, order.UserID)
	}
	if r.Orgs != nil {
		details.Organization, _ = r.Orgs.FindByID(ctx, order.OrganizationID)
	}
	return details, nil
}

func (r *OrderRepo) FindPage(_ context.Context, q common.PageQuery) ([]entities.Order, int, error) {
	if r.FailWith != nil {
		return nil, 0, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]entities.Order, 0, len(r.byID))
	for _, o := range r.byID {
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool {
		less := all[i].OrderDate.Before(all[j].OrderDate)
		if q.SortDir == "desc" {
			return !less
		}
		return less
	})
	total := len(all)
	return page(all, q), total, nil
}

func (r *OrderRepo) Update(_ context.Context, order *entities.Order) (*entities.Order, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[order.ID] = *order
	out := *order
	return &out, nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) (bool, error) {
	if r.FailWith != nil {
		return false, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DeleteCalls++
	_, ok := r.byID[id]
	delete(r.byID, id)
	return ok, nil
}

func page[T any](all []T, q common.PageQuery) []T {
	offset := q.Offset()
	if offset >= len(all) {
		return []T{}
	}
	end := offset + q.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
