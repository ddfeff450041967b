package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/suppcart/storefront/api/responses"
	"github.com/suppcart/storefront/api/validators"
	"github.com/suppcart/storefront/internal/orders"
	"github.com/suppcart/storefront/pkg/enums"
	pkgerrors "github.com/suppcart/storefront/pkg/errors"
	"github.com/suppcart/storefront/pkg/logger"
)

// OrdersController serves the order history endpoints.
type OrdersController struct {
	orders *orders.Store
	logg   *logger.Logger
}

func NewOrdersController(store *orders.Store, logg *logger.Logger) (*OrdersController, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order store required")
	}
	return &OrdersController{orders: store, logg: logg}, nil
}

func (c *OrdersController) List(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, c.orders.List())
}

func (c *OrdersController) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, err := c.orders.Get(id)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, order)
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (c *OrdersController) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body setStatusRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	status, err := enums.ParseOrderStatus(body.Status)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
		return
	}

	if err := c.orders.SetStatus(r.Context(), id, status); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	order, err := c.orders.Get(id)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, order)
}
