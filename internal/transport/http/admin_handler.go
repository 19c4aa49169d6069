package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/service"
	"github.com/batuwa-travels/travel-api/internal/util"
)

type AdminHandler struct {
	admins *service.AdminService
}

func RegisterAdmins(e *echo.Echo, auth Authenticator, admins *service.AdminService) {
	handler := &AdminHandler{admins: admins}

	group := e.Group("/api/admin/admins", RequireAuth(auth), RequireRole(domain.AdminRoleSuperAdmin))
	group.GET("", handler.list)
	group.POST("", handler.create)
	group.PUT("/:id", handler.update)
	group.DELETE("/:id", handler.delete)
}

func (h *AdminHandler) list(c echo.Context) error {
	admins, err := h.admins.List(c.Request().Context())
	if err != nil {
		return internalError(c, "unable to list admins", err)
	}
	return c.JSON(http.StatusOK, AdminsResponse{Admins: admins})
}

func (h *AdminHandler) create(c echo.Context) error {
	var req AdminCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	admin, err := h.admins.Create(c.Request().Context(), service.AdminInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     domain.AdminRole(req.Role),
	})
	if err != nil {
		return adminError(c, err, "unable to create admin")
	}
	return c.JSON(http.StatusCreated, AdminResponse{Admin: admin})
}

func (h *AdminHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "admin")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req AdminUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	patch := service.AdminPatch{
		Email:    req.Email,
		FullName: req.FullName,
		IsActive: req.IsActive,
		Password: req.Password,
	}
	if req.Role != nil {
		role := domain.AdminRole(*req.Role)
		patch.Role = &role
	}
	admin, err := h.admins.Update(c.Request().Context(), id, patch)
	if err != nil {
		return adminError(c, err, "unable to update admin")
	}
	return c.JSON(http.StatusOK, AdminResponse{Admin: admin})
}

func (h *AdminHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "admin")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.admins.Delete(c.Request().Context(), id); err != nil {
		return adminError(c, err, "unable to delete admin")
	}
	return c.JSON(http.StatusOK, util.Message("Admin deleted successfully"))
}

func adminError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrAdminValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrSelfModify):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrAdminNotFound):
		return c.JSON(http.StatusNotFound, util.Error(err.Error()))
	case errors.Is(err, service.ErrAdminExists):
		return c.JSON(http.StatusConflict, util.Error(err.Error()))
	default:
		return internalError(c, fallback, err)
	}
}
