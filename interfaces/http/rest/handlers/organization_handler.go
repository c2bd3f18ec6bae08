package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"orgapi/application/services"
	"orgapi/interfaces/http/rest"
	"orgapi/pkg/common"
	"orgapi/pkg/errors"
)

const dateLayout = "2006-01-02"

// OrganizationHandler serves the /organizations routes.
type OrganizationHandler struct {
	service *services.OrganizationService
	logger  *zap.Logger
}

// NewOrganizationHandler creates an organization controller.
func NewOrganizationHandler(service *services.OrganizationService, logger *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{service: service, logger: logger}
}

// CreateOrganizationRequest is the body for creating an organization.
type CreateOrganizationRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Industry    string `json:"industry" validate:"required,max=100"`
	DateFounded string `json:"dateFounded" validate:"required,datetime=2006-01-02"`
}

// UpdateOrganizationRequest is the body for replacing an organization.
type UpdateOrganizationRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Industry    string `json:"industry" validate:"required,max=100"`
	DateFounded string `json:"dateFounded" validate:"required,datetime=2006-01-02"`
}

func (h *OrganizationHandler) Prefix() string { return "/organizations" }

func (h *OrganizationHandler) Middleware() []rest.Middleware { return nil }

// Routes returns the static route table for organizations.
func (h *OrganizationHandler) Routes() []rest.Route {
	return []rest.Route{
		{
			Method:  http.MethodPost,
			Path:    "/",
			Summary: "Create an organization",
			Body:    func() interface{} { return &CreateOrganizationRequest{} },
			Handler: h.create,
		},
		{
			Method:  http.MethodGet,
			Path:    "/",
			Summary: "List organizations",
			Params:  listParams("name"),
			Handler: h.list,
		},
		{
			Method:  http.MethodGet,
			Path:    "/{id}",
			Summary: "Get an organization by id",
			Handler: h.get,
		},
		{
			Method:  http.MethodPut,
			Path:    "/{id}",
			Summary: "Replace an organization",
			Body:    func() interface{} { return &UpdateOrganizationRequest{} },
			Handler: h.update,
		},
		{
			Method:  http.MethodDelete,
			Path:    "/{id}",
			Summary: "Delete an organization",
			Handler: h.delete,
		},
	}
}

func (h *OrganizationHandler) create(w http.ResponseWriter, r *http.Request) error {
	req := rest.BodyFrom[CreateOrganizationRequest](r)

	dateFounded, err := time.Parse(dateLayout, req.DateFounded)
	if err != nil {
		return errors.NewBadRequestError("dateFounded must be a valid YYYY-MM-DD date").WithCause(err)
	}

	org, err := h.service.Create(r.Context(), services.CreateOrganizationInput{
		Name:        req.Name,
		Industry:    req.Industry,
		DateFounded: dateFounded,
	})
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusCreated, org)
	return nil
}

func (h *OrganizationHandler) list(w http.ResponseWriter, r *http.Request) error {
	result, err := h.service.List(r.Context(), listQueryFrom(r))
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusOK, result)
	return nil
}

func (h *OrganizationHandler) get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	org, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusOK, org)
	return nil
}

func (h *OrganizationHandler) update(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	req := rest.BodyFrom[UpdateOrganizationRequest](r)

	dateFounded, err := time.Parse(dateLayout, req.DateFounded)
	if err != nil {
		return errors.NewBadRequestError("dateFounded must be a valid YYYY-MM-DD date").WithCause(err)
	}

	org, err := h.service.Update(r.Context(), id, services.UpdateOrganizationInput{
		Name:        req.Name,
		Industry:    req.Industry,
		DateFounded: dateFounded,
	})
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusOK, org)
	return nil
}

func (h *OrganizationHandler) delete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	org, err := h.service.Delete(r.Context(), id)
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusOK, org)
	return nil
}

// pathID pulls the {id} path parameter and rejects anything that is not
// a UUID before it reaches a service.
func pathID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.NewBadRequestError("id must be a valid UUID")
	}
	return id, nil
}

// listQueryFrom reads the shared paging query parameters. Values are
// pre-clamped here; services clamp again when applying defaults.
func listQueryFrom(r *http.Request) services.ListQuery {
	q := r.URL.Query()
	return services.ListQuery{
		Page:     common.ParseClampedInt(q.Get("page"), common.DefaultPage, common.MinPage, common.MaxPage),
		PageSize: common.ParseClampedInt(q.Get("pageSize"), common.DefaultPageSize, common.MinPageSize, common.MaxPageSize),
		SortBy:   q.Get("sortBy"),
		SortDir:  q.Get("sortDir"),
	}
}

// listParams declares the paging parameters shared by every list route.
func listParams(defaultSort string) []rest.Param {
	return []rest.Param{
		{In: rest.ParamInQuery, Name: "page", Description: "1-based page number"},
		{In: rest.ParamInQuery, Name: "pageSize", Description: "items per page, capped at 200"},
		{In: rest.ParamInQuery, Name: "sortBy", Description: "sort field, defaults to " + defaultSort},
		{In: rest.ParamInQuery, Name: "sortDir", Description: "asc or desc"},
	}
}
