package controllers

import (
	"net/http"

	"github.com/suppcart/storefront/api/responses"
	"github.com/suppcart/storefront/api/validators"
	"github.com/suppcart/storefront/internal/auth"
	pkgerrors "github.com/suppcart/storefront/pkg/errors"
	"github.com/suppcart/storefront/pkg/logger"
)

// AuthController serves the session endpoints. Outcomes are returned as
// success/message pairs the view renders directly.
type AuthController struct {
	auth *auth.Service
	logg *logger.Logger
}

func NewAuthController(svc *auth.Service, logg *logger.Logger) (*AuthController, error) {
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth service required")
	}
	return &AuthController{auth: svc, logg: logg}, nil
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, c.auth.Login(r.Context(), body.Email, body.Password))
}

type registerRequest struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required"`
	Phone           string `json:"phone"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	AcceptTerms     bool   `json:"accept_terms"`
	AcceptMarketing bool   `json:"accept_marketing"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, c.auth.Register(r.Context(), auth.RegisterInput{
		FirstName:       body.FirstName,
		LastName:        body.LastName,
		Email:           body.Email,
		Phone:           body.Phone,
		Password:        body.Password,
		ConfirmPassword: body.ConfirmPassword,
		AcceptTerms:     body.AcceptTerms,
		AcceptMarketing: body.AcceptMarketing,
	}))
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.auth.Logout(r.Context()); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, auth.Result{Success: true, Message: "logged out"})
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

func (c *AuthController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var body verifyEmailRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, c.auth.VerifyEmail(r.Context(), body.Token))
}

type sendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (c *AuthController) SendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	var body sendVerificationRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, c.auth.SendVerificationEmail(r.Context(), body.Email))
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := c.auth.Current()
	if !ok {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.New(pkgerrors.CodeUnauthorized, "not signed in"))
		return
	}
	responses.WriteSuccess(w, user)
}
