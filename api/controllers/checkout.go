package controllers

import (
	"net/http"

	"github.com/suppcart/storefront/api/responses"
	"github.com/suppcart/storefront/api/validators"
	"github.com/suppcart/storefront/internal/checkout"
	"github.com/suppcart/storefront/internal/orders"
	pkgerrors "github.com/suppcart/storefront/pkg/errors"
	"github.com/suppcart/storefront/pkg/logger"
)

// CheckoutController turns the current cart into a placed order.
type CheckoutController struct {
	checkout checkout.Service
	logg     *logger.Logger
}

func NewCheckoutController(svc checkout.Service, logg *logger.Logger) (*CheckoutController, error) {
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout service required")
	}
	return &CheckoutController{checkout: svc, logg: logg}, nil
}

type checkoutRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	ZipCode   string `json:"zip_code" validate:"required"`
}

func (c *CheckoutController) Place(w http.ResponseWriter, r *http.Request) {
	var body checkoutRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	order, err := c.checkout.Place(r.Context(), orders.Customer{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Phone:     body.Phone,
		Address:   body.Address,
		City:      body.City,
		ZipCode:   body.ZipCode,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if c.logg != nil {
		ctx := c.logg.WithOrderID(r.Context(), order.ID)
		c.logg.Info(ctx, "order placed")
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, order)
}
