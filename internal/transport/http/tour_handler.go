package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/service"
	"github.com/batuwa-travels/travel-api/internal/util"
)

const maxPatchBody = 1 << 20

type TourHandler struct {
	tours *service.TourService
}

func RegisterTours(e *echo.Echo, auth Authenticator, tours *service.TourService) {
	handler := &TourHandler{tours: tours}

	public := e.Group("/api/tours")
	public.GET("", handler.list, OptionalAuth(auth))
	public.GET("/:id", handler.view)

	editors := e.Group("/api/tours", RequireAuth(auth), RequireRole(domain.AdminRoleEditor))
	editors.POST("", handler.create)
	editors.PUT("/:id", handler.update)
	editors.DELETE("/:id", handler.delete)

	admin := e.Group("/api/admin/tours", RequireAuth(auth), RequireRole(domain.AdminRoleEditor))
	admin.GET("", handler.adminList)
	admin.GET("/:id", handler.adminGet)
}

// list handles GET /api/tours. Anonymous callers only see published tours.
func (h *TourHandler) list(c echo.Context) error {
	visibility := domain.VisibilityPublic
	if _, ok := CurrentActor(c); ok {
		visibility = domain.VisibilityAdmin
	}
	return h.respondList(c, visibility)
}

// adminList handles GET /api/admin/tours
func (h *TourHandler) adminList(c echo.Context) error {
	return h.respondList(c, domain.VisibilityAdmin)
}

func (h *TourHandler) respondList(c echo.Context, visibility domain.Visibility) error {
	filter, err := parseTourFilter(c, visibility)
	if err != nil {
		return badRequest(c, err.Error())
	}
	tours, err := h.tours.List(c.Request().Context(), filter)
	if err != nil {
		return internalError(c, "unable to list tours", err)
	}
	return c.JSON(http.StatusOK, tours)
}

// view handles GET /api/tours/:id and counts the visit.
func (h *TourHandler) view(c echo.Context) error {
	tour, err := h.tours.View(c.Request().Context(), c.Param("id"))
	if err != nil {
		return tourError(c, err, "unable to load tour")
	}
	return c.JSON(http.StatusOK, tour)
}

// adminGet handles GET /api/admin/tours/:id without touching the view counter.
func (h *TourHandler) adminGet(c echo.Context) error {
	tour, err := h.tours.Get(c.Request().Context(), c.Param("id"), domain.VisibilityAdmin)
	if err != nil {
		return tourError(c, err, "unable to load tour")
	}
	return c.JSON(http.StatusOK, tour)
}

func (h *TourHandler) create(c echo.Context) error {
	var input domain.Tour
	if err := json.NewDecoder(io.LimitReader(c.Request().Body, maxPatchBody)).Decode(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	tour, err := h.tours.Create(c.Request().Context(), input)
	if err != nil {
		return tourError(c, err, "unable to create tour")
	}
	return c.JSON(http.StatusCreated, tour)
}

func (h *TourHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "tour")
	if err != nil {
		return badRequest(c, err.Error())
	}
	patch, err := readJSONPatch(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	tour, err := h.tours.Update(c.Request().Context(), id, patch)
	if err != nil {
		return tourError(c, err, "unable to update tour")
	}
	return c.JSON(http.StatusOK, tour)
}

func (h *TourHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "tour")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.tours.Delete(c.Request().Context(), id); err != nil {
		return tourError(c, err, "unable to delete tour")
	}
	return c.JSON(http.StatusOK, util.Message("Tour deleted successfully"))
}

func parseTourFilter(c echo.Context, visibility domain.Visibility) (domain.TourFilter, error) {
	filter := domain.TourFilter{
		Visibility: visibility,
		Search:     strings.TrimSpace(c.QueryParam("search")),
	}

	if raw := strings.ToLower(strings.TrimSpace(c.QueryParam("status"))); raw != "" && raw != domain.TourStatusAll {
		status := domain.TourStatus(raw)
		if !status.Valid() {
			return domain.TourFilter{}, errors.New("status must be one of all, draft, published, hidden")
		}
		filter.Status = &status
	}

	var err error
	if filter.Featured, err = parseBoolQuery(c, "featured"); err != nil {
		return domain.TourFilter{}, err
	}
	if filter.Trending, err = parseBoolQuery(c, "trending"); err != nil {
		return domain.TourFilter{}, err
	}
	if filter.Upcoming, err = parseBoolQuery(c, "upcoming"); err != nil {
		return domain.TourFilter{}, err
	}
	return filter, nil
}

// readJSONPatch returns the raw request body after checking it is a JSON object.
func readJSONPatch(c echo.Context) (json.RawMessage, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxPatchBody))
	if err != nil {
		return nil, fmt.Errorf("unable to read request body: %w", err)
	}
	var object map[string]json.RawMessage
	if err := json.Unmarshal(body, &object); err != nil {
		return nil, errors.New("request body must be a JSON object")
	}
	return body, nil
}

func tourError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrTourValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrTourNotFound):
		return c.JSON(http.StatusNotFound, util.Error(err.Error()))
	default:
		return internalError(c, fallback, err)
	}
}
