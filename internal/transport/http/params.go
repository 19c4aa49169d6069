package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/service"
	"github.com/batuwa-travels/travel-api/internal/util"
)

const dateLayout = "2006-01-02"

func parseIDParam(c echo.Context, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id", label)
	}
	return id, nil
}

func parsePagination(c echo.Context) (domain.Pagination, error) {
	var p domain.Pagination
	if raw := strings.TrimSpace(c.QueryParam("page")); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val < 1 {
			return domain.Pagination{}, errors.New("page must be a positive integer")
		}
		p.Page = val
	}
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val < 1 {
			return domain.Pagination{}, errors.New("limit must be a positive integer")
		}
		p.Limit = val
	}
	return p, nil
}

func parseBoolQuery(c echo.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", name)
	}
	return &val, nil
}

func parseUUIDQuery(c echo.Context, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a valid id", name)
	}
	return &id, nil
}

// parseDate accepts a calendar date or a full RFC3339 timestamp.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func pageEnvelope[T any](key string, page *service.Page[T]) util.Envelope {
	return util.Envelope{
		key:           page.Items,
		"total":       page.Total,
		"totalPages":  page.TotalPages,
		"currentPage": page.Page,
	}
}

// internalError hides the cause from the client and logs it for operators.
func internalError(c echo.Context, message string, err error) error {
	log.Printf("%s %s: %s: %v", c.Request().Method, c.Path(), message, err)
	return c.JSON(http.StatusInternalServerError, util.Error(message))
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, util.Error(message))
}

func optional(m echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if m == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m}
}
