package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/service"
	"github.com/batuwa-travels/travel-api/internal/util"
)

type ReviewHandler struct {
	reviews *service.ReviewService
}

// ReviewRequest is the body of POST /api/reviews.
type ReviewRequest struct {
	Author  string   `json:"author" example:"Ram Thapa"`
	Email   string   `json:"email,omitempty" example:"ram@example.com"`
	Rating  int      `json:"rating" example:"5"`
	Message string   `json:"message" example:"Unforgettable trek."`
	TourID  string   `json:"tourId,omitempty"`
	UserID  string   `json:"userId,omitempty"`
	Photos  []string `json:"photos,omitempty"`
}

// ReviewUpdateRequest is the body of PUT /api/reviews/:id.
type ReviewUpdateRequest struct {
	Approved      *bool   `json:"approved,omitempty"`
	Featured      *bool   `json:"featured,omitempty"`
	Hidden        *bool   `json:"hidden,omitempty"`
	EditedMessage *string `json:"editedMessage,omitempty"`
}

func RegisterReviews(e *echo.Echo, auth Authenticator, reviews *service.ReviewService, publicLimit echo.MiddlewareFunc) {
	handler := &ReviewHandler{reviews: reviews}

	public := e.Group("/api/reviews", OptionalAuth(auth))
	public.GET("", handler.list)
	public.POST("", handler.submit, optional(publicLimit)...)

	editors := e.Group("/api/reviews", RequireAuth(auth), RequireRole(domain.AdminRoleEditor))
	editors.PUT("/:id", handler.update)
	editors.DELETE("/:id", handler.delete)

	admin := e.Group("/api/admin/reviews", RequireAuth(auth), RequireRole(domain.AdminRoleEditor))
	admin.GET("", handler.adminList)
	admin.GET("/:id", handler.get)
}

// submit handles POST /api/reviews. Reviews from visitors wait for approval.
func (h *ReviewHandler) submit(c echo.Context) error {
	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	input := service.ReviewInput{
		Author:  req.Author,
		Email:   req.Email,
		Rating:  req.Rating,
		Message: req.Message,
		Photos:  req.Photos,
	}
	if raw := strings.TrimSpace(req.TourID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "tourId must be a valid id")
		}
		input.TourID = &id
	}
	if raw := strings.TrimSpace(req.UserID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "userId must be a valid id")
		}
		input.UserID = &id
	}

	review, err := h.reviews.Submit(c.Request().Context(), input)
	if err != nil {
		return reviewError(c, err, "unable to submit review")
	}
	return c.JSON(http.StatusCreated, review)
}

// list handles GET /api/reviews. Moderation filters only apply to admins.
func (h *ReviewHandler) list(c echo.Context) error {
	visibility := domain.VisibilityPublic
	if _, ok := CurrentActor(c); ok {
		visibility = domain.VisibilityAdmin
	}
	return h.respondList(c, visibility)
}

// adminList handles GET /api/admin/reviews
func (h *ReviewHandler) adminList(c echo.Context) error {
	return h.respondList(c, domain.VisibilityAdmin)
}

func (h *ReviewHandler) respondList(c echo.Context, visibility domain.Visibility) error {
	filter, err := parseReviewFilter(c, visibility)
	if err != nil {
		return badRequest(c, err.Error())
	}
	reviews, err := h.reviews.List(c.Request().Context(), filter)
	if err != nil {
		return internalError(c, "unable to list reviews", err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) get(c echo.Context) error {
	id, err := parseIDParam(c, "review")
	if err != nil {
		return badRequest(c, err.Error())
	}
	review, err := h.reviews.Get(c.Request().Context(), id)
	if err != nil {
		return reviewError(c, err, "unable to load review")
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "review")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req ReviewUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	review, err := h.reviews.Update(c.Request().Context(), id, service.ReviewUpdate{
		Approved:      req.Approved,
		Featured:      req.Featured,
		Hidden:        req.Hidden,
		EditedMessage: req.EditedMessage,
	})
	if err != nil {
		return reviewError(c, err, "unable to update review")
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "review")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.reviews.Delete(c.Request().Context(), id); err != nil {
		return reviewError(c, err, "unable to delete review")
	}
	return c.JSON(http.StatusOK, util.Message("Review deleted successfully"))
}

func parseReviewFilter(c echo.Context, visibility domain.Visibility) (domain.ReviewFilter, error) {
	filter := domain.ReviewFilter{Visibility: visibility}

	var err error
	if filter.TourID, err = parseUUIDQuery(c, "tour"); err != nil {
		return domain.ReviewFilter{}, err
	}
	if filter.Featured, err = parseBoolQuery(c, "featured"); err != nil {
		return domain.ReviewFilter{}, err
	}
	if visibility == domain.VisibilityPublic {
		return filter, nil
	}
	if filter.Approved, err = parseBoolQuery(c, "approved"); err != nil {
		return domain.ReviewFilter{}, err
	}
	if filter.Hidden, err = parseBoolQuery(c, "hidden"); err != nil {
		return domain.ReviewFilter{}, err
	}
	return filter, nil
}

func reviewError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrReviewValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrReviewNotFound), errors.Is(err, service.ErrTourNotFound):
		return c.JSON(http.StatusNotFound, util.Error(err.Error()))
	default:
		return internalError(c, fallback, err)
	}
}
