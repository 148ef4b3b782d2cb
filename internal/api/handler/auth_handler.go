package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campuslink/campus-api/internal/api/metrics"
	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AccountService
}

func NewAuthHandler(authService ports.AccountService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"max=72"`
	Name     string `json:"name" validate:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

func toAuthResponse(r *ports.AuthResult) authResponse {
	return authResponse{Token: r.Token, ExpiresAt: r.ExpiresAt, User: r.User}
}

// Register creates a new local account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorDoc
// @Failure      500   {object}  errorDoc
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues(domain.ProviderPassword).Inc()
	return respond(c, http.StatusCreated, toAuthResponse(result))
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorDoc
// @Failure      401   {object}  errorDoc
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues(domain.ProviderPassword).Inc()
	return respond(c, http.StatusOK, toAuthResponse(result))
}

// Logout revokes the caller's session token.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  errorDoc
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), identity); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GoogleLogin redirects the browser to Google's consent page.
//
// @Summary      Start Google sign-in
// @Tags         auth
// @Success      307
// @Failure      404   {object}  errorDoc
// @Router       /v1/auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	url, err := h.authService.GoogleLoginURL(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback completes Google sign-in and returns a session token.
//
// @Summary      Complete Google sign-in
// @Tags         auth
// @Produce      json
// @Param        state  query     string  true  "Sign-in state"
// @Param        code   query     string  true  "Authorization code"
// @Success      200    {object}  authResponse
// @Failure      400    {object}  errorDoc
// @Failure      401    {object}  errorDoc
// @Router       /v1/auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	result, err := h.authService.GoogleCallback(c.Request().Context(), c.QueryParam("state"), c.QueryParam("code"))
	if err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues(domain.ProviderGoogle).Inc()
	return respond(c, http.StatusOK, toAuthResponse(result))
}
