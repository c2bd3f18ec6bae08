package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"orgapi/application/services"
	"orgapi/interfaces/http/rest"
	"orgapi/pkg/common"
)

// OrderHandler serves the /orders routes.
type OrderHandler struct {
	service *services.OrderService
	logger  *zap.Logger
}

// NewOrderHandler creates an order controller.
func NewOrderHandler(service *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{service: service, logger: logger}
}

// CreateOrderRequest is the body for placing an order. The organization
// is derived from the user and never accepted from the client.
type CreateOrderRequest struct {
	UserID      string  `json:"userId" validate:"required,uuid4"`
	TotalAmount float64 `json:"totalAmount" validate:"required,gt=0"`
}

// UpdateOrderRequest is the body for adjusting an order's amount.
type UpdateOrderRequest struct {
	TotalAmount float64 `json:"totalAmount" validate:"required,gt=0"`
}

func (h *OrderHandler) Prefix() string { return "/orders" }

func (h *OrderHandler) Middleware() []rest.Middleware { return nil }

// Routes returns the static route table for orders.
func (h *OrderHandler) Routes() []rest.Route {
	return []rest.Route{
		{
			Method:  http.MethodPost,
			Path:    "/",
			Summary: "Place an order",
			Body:    func() interface{} { return &CreateOrderRequest{} },
			Handler: h.create,
		},
		{
			Method:  http.MethodGet,
			Path:    "/",
			Summary: "List orders",
			Params:  listParams("orderDate"),
			Handler: h.list,
		},
		{
			Method:  http.MethodGet,
			Path:    "/{id}",
			Summary: "Get an order with its user and organization",
			Handler: h.get,
		},
		{
			Method:  http.MethodPut,
			Path:    "/{id}",
			Summary: "Update an order's amount",
			Body:    func() interface{} { return &UpdateOrderRequest{} },
			Handler: h.update,
		},
		{
			Method:  http.MethodDelete,
			Path:    "/{id}",
			Summary: "Delete an order",
			Handler: h.delete,
		},
	}
}

func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request) error {
	req := rest.BodyFrom[CreateOrderRequest](r)

	order, err := h.service.Create(r.Context(), services.CreateOrderInput{
		UserID:      req.UserID,
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusCreated, order)
	return nil
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) error {
	result, err := h.service.List(r.Context(), listQueryFrom(r))
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusOK, result)
	return nil
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	details, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusOK, details)
	return nil
}

func (h *OrderHandler) update(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	req := rest.BodyFrom[UpdateOrderRequest](r)

	order, err := h.service.Update(r.Context(), id, services.UpdateOrderInput{
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusOK, order)
	return nil
}

func (h *OrderHandler) delete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	order, err := h.service.Delete(r.Context(), id)
	if err != nil {
		return err
	}

	common.RespondJSON(w, http.StatusOK, order)
	return nil
}
