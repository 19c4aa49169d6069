package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/batuwa-travels/travel-api/internal/service"
	"github.com/batuwa-travels/travel-api/internal/util"
)

type AuthHandler struct {
	auth *service.AuthService
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService, loginLimit echo.MiddlewareFunc) {
	handler := &AuthHandler{auth: auth}

	group := e.Group("/api/auth")
	group.POST("/login", handler.login, optional(loginLimit)...)
	group.POST("/verify", handler.verify)
	group.POST("/logout", handler.logout, RequireAuth(auth))
	group.GET("/me", handler.me, RequireAuth(auth))
}

// login handles POST /api/auth/login
func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthValidation):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrAccountInactive):
			return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
		default:
			return internalError(c, "unable to login", err)
		}
	}

	return c.JSON(http.StatusOK, AuthTokenResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Admin:     result.Admin,
	})
}

// verify handles POST /api/auth/verify
func (h *AuthHandler) verify(c echo.Context) error {
	token, err := bearerToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, VerifyResponse{Valid: false, Message: err.Error()})
	}
	_, admin, err := h.auth.Authenticate(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) || errors.Is(err, service.ErrAccountInactive) {
			return c.JSON(http.StatusUnauthorized, VerifyResponse{Valid: false, Message: err.Error()})
		}
		return internalError(c, "unable to verify token", err)
	}
	return c.JSON(http.StatusOK, VerifyResponse{Valid: true, Admin: admin})
}

// logout handles POST /api/auth/logout
func (h *AuthHandler) logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context()); err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
		}
		return internalError(c, "unable to logout", err)
	}
	return c.JSON(http.StatusOK, util.Message("Logged out successfully"))
}

// me handles GET /api/auth/me
func (h *AuthHandler) me(c echo.Context) error {
	admin, err := h.auth.Me(c.Request().Context())
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
		}
		return internalError(c, "unable to load admin", err)
	}
	return c.JSON(http.StatusOK, AdminResponse{Admin: admin})
}
