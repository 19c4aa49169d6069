package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/service"
)

type ActivityHandler struct {
	activity  *service.ActivityRecorder
	dashboard *service.DashboardService
}

func RegisterActivity(e *echo.Echo, auth Authenticator, activity *service.ActivityRecorder, dashboard *service.DashboardService) {
	handler := &ActivityHandler{activity: activity, dashboard: dashboard}

	group := e.Group("/api/admin", RequireAuth(auth), RequireRole(domain.AdminRoleAdmin))
	group.GET("/activity-logs", handler.logs)
	group.GET("/dashboard/stats", handler.stats)
}

// logs handles GET /api/admin/activity-logs
func (h *ActivityHandler) logs(c echo.Context) error {
	pagination, err := parsePagination(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	adminID, err := parseUUIDQuery(c, "adminId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	page, err := h.activity.List(c.Request().Context(), service.ActivityLogQuery{
		Resource:   strings.TrimSpace(c.QueryParam("resource")),
		Action:     strings.TrimSpace(c.QueryParam("action")),
		AdminID:    adminID,
		Pagination: pagination,
	})
	if err != nil {
		return internalError(c, "unable to list activity logs", err)
	}
	return c.JSON(http.StatusOK, pageEnvelope("logs", page))
}

// stats handles GET /api/admin/dashboard/stats
func (h *ActivityHandler) stats(c echo.Context) error {
	summary, err := h.dashboard.Summary(c.Request().Context())
	if err != nil {
		return internalError(c, "unable to load dashboard", err)
	}
	return c.JSON(http.StatusOK, summary)
}
