package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/service"
	"github.com/batuwa-travels/travel-api/internal/util"
)

type UserHandler struct {
	users *service.UserService
}

// UserRequest is the body of POST /api/admin/users.
type UserRequest struct {
	Name        string                  `json:"name" example:"Anita Gurung"`
	Email       string                  `json:"email" example:"anita@example.com"`
	Phone       string                  `json:"phone,omitempty"`
	Role        string                  `json:"role,omitempty" example:"user"`
	Avatar      string                  `json:"avatar,omitempty"`
	Preferences *domain.UserPreferences `json:"preferences,omitempty"`
}

// UserUpdateRequest is the body of PUT /api/admin/users/:id.
type UserUpdateRequest struct {
	Name        *string                 `json:"name,omitempty"`
	Email       *string                 `json:"email,omitempty"`
	Phone       *string                 `json:"phone,omitempty"`
	Avatar      *string                 `json:"avatar,omitempty"`
	Preferences *domain.UserPreferences `json:"preferences,omitempty"`
}

type roleRequest struct {
	Role string `json:"role"`
}

func RegisterUsers(e *echo.Echo, auth Authenticator, users *service.UserService) {
	handler := &UserHandler{users: users}

	group := e.Group("/api/admin/users", RequireAuth(auth), RequireRole(domain.AdminRoleAdmin))
	group.GET("", handler.list)
	group.POST("", handler.create)
	group.GET("/:id", handler.get)
	group.PUT("/:id", handler.update)
	group.PUT("/:id/block", handler.toggleBlock)
	group.PUT("/:id/role", handler.setRole)
	group.DELETE("/:id", handler.delete)
}

func (h *UserHandler) list(c echo.Context) error {
	pagination, err := parsePagination(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	blocked, err := parseBoolQuery(c, "isBlocked")
	if err != nil {
		return badRequest(c, err.Error())
	}
	page, err := h.users.List(c.Request().Context(), domain.UserFilter{
		Search:     strings.TrimSpace(c.QueryParam("search")),
		IsBlocked:  blocked,
		Pagination: pagination,
	})
	if err != nil {
		return internalError(c, "unable to list users", err)
	}
	return c.JSON(http.StatusOK, pageEnvelope("users", page))
}

// get returns the user with their bookings.
func (h *UserHandler) get(c echo.Context) error {
	id, err := parseIDParam(c, "user")
	if err != nil {
		return badRequest(c, err.Error())
	}
	detail, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return userError(c, err, "unable to load user")
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *UserHandler) create(c echo.Context) error {
	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	user, err := h.users.Create(c.Request().Context(), service.UserInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Role:        domain.UserRole(strings.TrimSpace(req.Role)),
		Avatar:      req.Avatar,
		Preferences: req.Preferences,
	})
	if err != nil {
		return userError(c, err, "unable to create user")
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "user")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req UserUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	user, err := h.users.Update(c.Request().Context(), id, service.UserPatch(req))
	if err != nil {
		return userError(c, err, "unable to update user")
	}
	return c.JSON(http.StatusOK, user)
}

// toggleBlock handles PUT /api/admin/users/:id/block
func (h *UserHandler) toggleBlock(c echo.Context) error {
	id, err := parseIDParam(c, "user")
	if err != nil {
		return badRequest(c, err.Error())
	}
	user, err := h.users.ToggleBlock(c.Request().Context(), id)
	if err != nil {
		return userError(c, err, "unable to update user")
	}
	return c.JSON(http.StatusOK, user)
}

// setRole handles PUT /api/admin/users/:id/role
func (h *UserHandler) setRole(c echo.Context) error {
	id, err := parseIDParam(c, "user")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	user, err := h.users.SetRole(c.Request().Context(), id, domain.UserRole(strings.TrimSpace(req.Role)))
	if err != nil {
		return userError(c, err, "unable to update user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "user")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return userError(c, err, "unable to delete user")
	}
	return c.JSON(http.StatusOK, util.Message("User deleted successfully"))
}

func userError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrUserValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, util.Error(err.Error()))
	case errors.Is(err, service.ErrUserExists):
		return c.JSON(http.StatusConflict, util.Error(err.Error()))
	default:
		return internalError(c, fallback, err)
	}
}
