package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"orgapi/application/services"
	"orgapi/interfaces/http/rest"
	"orgapi/pkg/common"
)

// UserHandler serves the /users routes.
type UserHandler struct {
	service *services.UserService
	logger  *zap.Logger
}

// NewUserHandler creates a user controller.
func NewUserHandler(service *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

// CreateUserRequest is the body for creating a user.
type CreateUserRequest struct {
	FirstName      string `json:"firstName" validate:"required,max=100"`
	LastName       string `json:"lastName" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	OrganizationID string `json:"organizationId" validate:"required,uuid4"`
}

// UpdateUserRequest is the body for replacing a user's editable fields.
// Email and organization stay fixed after creation.
type UpdateUserRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

func (h *UserHandler) Prefix() string { return "/users" }

func (h *UserHandler) Middleware() []rest.Middleware { return nil }

// Routes returns the static route table for users.
func (h *UserHandler) Routes() []rest.Route {
	return []rest.Route{
		{
			Method:  http.MethodPost,
			Path:    "/",
			Summary: "Create a user",
			Body:    func() interface{} { return &CreateUserRequest{} },
			Handler: h.create,
		},
		{
			Method:  http.MethodGet,
			Path:    "/",
			Summary: "List users",
			Params:  listParams("email"),
			Handler: h.list,
		},
		{
			Method:  http.MethodGet,
			Path:    "/{id}",
			Summary: "Get a user by id",
			Handler: h.get,
		},
		{
			Method:  http.MethodPut,
			Path:    "/{id}",
			Summary: "Replace a user's name",
			Body:    func() interface{} { return &UpdateUserRequest{} },
			Handler: h.update,
		},
		{
			Method:  http.MethodDelete,
			Path:    "/{id}",
			Summary: "Delete a user",
			Handler: h.delete,
		},
	}
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) error {
	req := rest.BodyFrom[CreateUserRequest](r)

	user, err := h.service.Create(r.Context(), services.CreateUserInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusCreated, user)
	return nil
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) error {
	result, err := h.service.List(r.Context(), listQueryFrom(r))
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusOK, result)
	return nil
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	user, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusOK, user)
	return nil
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	req := rest.BodyFrom[UpdateUserRequest](r)

	user, err := h.service.Update(r.Context(), id, services.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusOK, user)
	return nil
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	user, err := h.service.Delete(r.Context(), id)
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusOK, user)
	return nil
}
