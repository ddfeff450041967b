package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/suppcart/storefront/api/responses"
	"github.com/suppcart/storefront/api/validators"
	"github.com/suppcart/storefront/internal/cart"
	pkgerrors "github.com/suppcart/storefront/pkg/errors"
	"github.com/suppcart/storefront/pkg/logger"
)

// CartController serves the shopping cart endpoints.
type CartController struct {
	cart *cart.Store
	logg *logger.Logger
}

func NewCartController(store *cart.Store, logg *logger.Logger) (*CartController, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store required")
	}
	return &CartController{cart: store, logg: logg}, nil
}

type cartSummary struct {
	Items []cart.Item     `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, c.summary())
}

func (c *CartController) ListItems(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, c.cart.Items())
}

type addItemRequest struct {
	ID        int64           `json:"id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
	ImageURL  string          `json:"image_url"`
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var body addItemRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if body.UnitPrice.IsNegative() {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative"))
		return
	}

	err := c.cart.Add(r.Context(), cart.Product{
		ID:        body.ID,
		Name:      body.Name,
		UnitPrice: body.UnitPrice,
		ImageURL:  body.ImageURL,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, c.summary())
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (c *CartController) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var body setQuantityRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.cart.SetQuantity(r.Context(), id, body.Quantity); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, c.summary())
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.cart.Remove(r.Context(), id); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, c.summary())
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	if err := c.cart.Clear(r.Context()); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, c.summary())
}

func (c *CartController) summary() cartSummary {
	return cartSummary{
		Items: c.cart.Items(),
		Total: c.cart.Total(),
		Count: c.cart.Count(),
	}
}

func itemID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	return id, nil
}
