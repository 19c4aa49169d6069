package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/service"
	"github.com/batuwa-travels/travel-api/internal/util"
)

type SettingsHandler struct {
	settings *service.SettingsService
}

// ReorderRequest is the body of PUT /api/admin/homepage-content/reorder.
type ReorderRequest struct {
	Sections []domain.SectionOrder `json:"sections"`
}

func RegisterSettings(e *echo.Echo, auth Authenticator, settings *service.SettingsService) {
	handler := &SettingsHandler{settings: settings}

	e.GET("/api/website-settings", handler.website)
	e.GET("/api/theme", handler.theme)
	e.GET("/api/banner", handler.banner)
	e.GET("/api/seo/:page", handler.publicSEO)
	e.GET("/api/homepage-content", handler.publicHomepage)

	admin := e.Group("/api/admin", RequireAuth(auth), RequireRole(domain.AdminRoleEditor))
	admin.GET("/website-settings", handler.website)
	admin.PUT("/website-settings", handler.updateWebsite)
	admin.GET("/theme", handler.theme)
	admin.PUT("/theme", handler.updateTheme)
	admin.GET("/banner", handler.banner)
	admin.PUT("/banner", handler.updateBanner)
	admin.GET("/seo", handler.listSEO)
	admin.GET("/seo/:page", handler.seo)
	admin.PUT("/seo/:page", handler.updateSEO)
	admin.GET("/homepage-content", handler.adminHomepage)
	admin.PUT("/homepage-content/reorder", handler.reorderHomepage)
	admin.GET("/homepage-content/:section", handler.homepageSection)
	admin.PUT("/homepage-content/:section", handler.updateHomepageSection)
}

func (h *SettingsHandler) website(c echo.Context) error {
	doc, err := h.settings.Website(c.Request().Context())
	if err != nil {
		return settingsError(c, err, "unable to load website settings")
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *SettingsHandler) updateWebsite(c echo.Context) error {
	patch, err := readJSONPatch(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	doc, err := h.settings.UpdateWebsite(c.Request().Context(), patch)
	if err != nil {
		return settingsError(c, err, "unable to update website settings")
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *SettingsHandler) theme(c echo.Context) error {
	doc, err := h.settings.Theme(c.Request().Context())
	if err != nil {
		return settingsError(c, err, "unable to load theme")
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *SettingsHandler) updateTheme(c echo.Context) error {
	patch, err := readJSONPatch(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	doc, err := h.settings.UpdateTheme(c.Request().Context(), patch)
	if err != nil {
		return settingsError(c, err, "unable to update theme")
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *SettingsHandler) banner(c echo.Context) error {
	doc, err := h.settings.Banner(c.Request().Context())
	if err != nil {
		return settingsError(c, err, "unable to load banner")
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *SettingsHandler) updateBanner(c echo.Context) error {
	patch, err := readJSONPatch(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	doc, err := h.settings.UpdateBanner(c.Request().Context(), patch)
	if err != nil {
		return settingsError(c, err, "unable to update banner")
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *SettingsHandler) seo(c echo.Context) error {
	doc, err := h.settings.SEO(c.Request().Context(), c.Param("page"))
	if err != nil {
		return settingsError(c, err, "unable to load SEO settings")
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *SettingsHandler) publicSEO(c echo.Context) error {
	doc, err := h.settings.PublicSEO(c.Request().Context(), c.Param("page"))
	if err != nil {
		return settingsError(c, err, "unable to load SEO settings")
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *SettingsHandler) listSEO(c echo.Context) error {
	docs, err := h.settings.ListSEO(c.Request().Context())
	if err != nil {
		return settingsError(c, err, "unable to list SEO settings")
	}
	return c.JSON(http.StatusOK, docs)
}

func (h *SettingsHandler) updateSEO(c echo.Context) error {
	patch, err := readJSONPatch(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	doc, err := h.settings.UpdateSEO(c.Request().Context(), c.Param("page"), patch)
	if err != nil {
		return settingsError(c, err, "unable to update SEO settings")
	}
	return c.JSON(http.StatusOK, doc)
}

// publicHomepage only returns enabled sections.
func (h *SettingsHandler) publicHomepage(c echo.Context) error {
	sections, err := h.settings.ListHomepage(c.Request().Context(), true)
	if err != nil {
		return settingsError(c, err, "unable to load homepage content")
	}
	return c.JSON(http.StatusOK, sections)
}

func (h *SettingsHandler) adminHomepage(c echo.Context) error {
	sections, err := h.settings.ListHomepage(c.Request().Context(), false)
	if err != nil {
		return settingsError(c, err, "unable to load homepage content")
	}
	return c.JSON(http.StatusOK, sections)
}

func (h *SettingsHandler) homepageSection(c echo.Context) error {
	section, err := h.settings.HomepageSection(c.Request().Context(), c.Param("section"))
	if err != nil {
		return settingsError(c, err, "unable to load homepage section")
	}
	return c.JSON(http.StatusOK, section)
}

func (h *SettingsHandler) updateHomepageSection(c echo.Context) error {
	patch, err := readJSONPatch(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	section, err := h.settings.UpdateHomepageSection(c.Request().Context(), c.Param("section"), patch)
	if err != nil {
		return settingsError(c, err, "unable to update homepage section")
	}
	return c.JSON(http.StatusOK, section)
}

func (h *SettingsHandler) reorderHomepage(c echo.Context) error {
	var req ReorderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	sections, err := h.settings.ReorderHomepage(c.Request().Context(), req.Sections)
	if err != nil {
		return settingsError(c, err, "unable to reorder homepage content")
	}
	return c.JSON(http.StatusOK, sections)
}

func settingsError(c echo.Context, err error, fallback string) error {
	if errors.Is(err, service.ErrSettingsValidation) {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	return internalError(c, fallback, err)
}
