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

type InquiryHandler struct {
	inquiries *service.InquiryService
}

// InquiryRequest is the body of POST /api/inquiries.
type InquiryRequest struct {
	Name    string `json:"name" example:"Hari Karki"`
	Email   string `json:"email" example:"hari@example.com"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty" example:"Group discount"`
	Message string `json:"message" example:"Do you offer discounts for groups of 10?"`
	TourID  string `json:"tourId,omitempty"`
}

// InquiryStatusRequest is the body of PUT /api/admin/inquiries/:id/status.
type InquiryStatusRequest struct {
	Status     string  `json:"status" example:"replied"`
	AdminNotes *string `json:"adminNotes,omitempty"`
}

func RegisterInquiries(e *echo.Echo, auth Authenticator, inquiries *service.InquiryService, publicLimit echo.MiddlewareFunc) {
	handler := &InquiryHandler{inquiries: inquiries}

	e.POST("/api/inquiries", handler.submit, optional(publicLimit)...)

	admin := e.Group("/api/admin/inquiries", RequireAuth(auth), RequireRole(domain.AdminRoleAdmin))
	admin.GET("", handler.list)
	admin.GET("/:id", handler.get)
	admin.PUT("/:id/status", handler.updateStatus)
	admin.DELETE("/:id", handler.delete)
}

func (h *InquiryHandler) submit(c echo.Context) error {
	var req InquiryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	input := service.InquiryInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}
	if raw := strings.TrimSpace(req.TourID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "tourId must be a valid id")
		}
		input.TourID = &id
	}
	inquiry, err := h.inquiries.Submit(c.Request().Context(), input)
	if err != nil {
		return inquiryError(c, err, "unable to submit inquiry")
	}
	return c.JSON(http.StatusCreated, inquiry)
}

func (h *InquiryHandler) list(c echo.Context) error {
	pagination, err := parsePagination(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	filter := domain.InquiryFilter{
		Search:     strings.TrimSpace(c.QueryParam("search")),
		Pagination: pagination,
	}
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" && raw != "all" {
		status := domain.InquiryStatus(raw)
		filter.Status = &status
	}
	page, err := h.inquiries.List(c.Request().Context(), filter)
	if err != nil {
		return inquiryError(c, err, "unable to list inquiries")
	}
	return c.JSON(http.StatusOK, pageEnvelope("inquiries", page))
}

func (h *InquiryHandler) get(c echo.Context) error {
	id, err := parseIDParam(c, "inquiry")
	if err != nil {
		return badRequest(c, err.Error())
	}
	inquiry, err := h.inquiries.Get(c.Request().Context(), id)
	if err != nil {
		return inquiryError(c, err, "unable to load inquiry")
	}
	return c.JSON(http.StatusOK, inquiry)
}

func (h *InquiryHandler) updateStatus(c echo.Context) error {
	id, err := parseIDParam(c, "inquiry")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req InquiryStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	inquiry, err := h.inquiries.UpdateStatus(c.Request().Context(), id, service.InquiryStatusUpdate{
		Status:     domain.InquiryStatus(strings.TrimSpace(req.Status)),
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		return inquiryError(c, err, "unable to update inquiry")
	}
	return c.JSON(http.StatusOK, inquiry)
}

func (h *InquiryHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "inquiry")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.inquiries.Delete(c.Request().Context(), id); err != nil {
		return inquiryError(c, err, "unable to delete inquiry")
	}
	return c.JSON(http.StatusOK, util.Message("Inquiry deleted successfully"))
}

func inquiryError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrInquiryValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrInquiryNotFound):
		return c.JSON(http.StatusNotFound, util.Error(err.Error()))
	default:
		return internalError(c, fallback, err)
	}
}
