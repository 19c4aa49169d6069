package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/service"
	"github.com/batuwa-travels/travel-api/internal/util"
)

type BookingHandler struct {
	bookings *service.BookingService
}

// BookingRequest is the body of POST /api/bookings.
type BookingRequest struct {
	TourID            string `json:"tourId"`
	UserID            string `json:"userId,omitempty"`
	CustomerName      string `json:"customerName" example:"Sita Sharma"`
	CustomerEmail     string `json:"customerEmail" example:"sita@example.com"`
	CustomerPhone     string `json:"customerPhone" example:"+977-9800000000"`
	NumberOfTravelers int    `json:"numberOfTravelers" example:"2"`
	TravelDate        string `json:"travelDate" example:"2025-04-01"`
	VoucherCode       string `json:"voucherCode,omitempty" example:"SAVE20"`
	SpecialRequests   string `json:"specialRequests,omitempty"`
}

// AdminBookingRequest is the body of POST /api/admin/bookings. Totals are
// computed from the tour when totalAmount is omitted.
type AdminBookingRequest struct {
	BookingRequest
	TourTitle      string   `json:"tourTitle,omitempty"`
	TotalAmount    *float64 `json:"totalAmount,omitempty"`
	DiscountAmount *float64 `json:"discountAmount,omitempty"`
	Status         string   `json:"status,omitempty"`
	PaymentStatus  string   `json:"paymentStatus,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// BookingUpdateRequest is the body of PUT /api/admin/bookings/:id.
type BookingUpdateRequest struct {
	Status            *string `json:"status,omitempty"`
	PaymentStatus     *string `json:"paymentStatus,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	CustomerName      *string `json:"customerName,omitempty"`
	CustomerEmail     *string `json:"customerEmail,omitempty"`
	CustomerPhone     *string `json:"customerPhone,omitempty"`
	NumberOfTravelers *int    `json:"numberOfTravelers,omitempty"`
	TravelDate        *string `json:"travelDate,omitempty"`
	SpecialRequests   *string `json:"specialRequests,omitempty"`
}

func RegisterBookings(e *echo.Echo, auth Authenticator, bookings *service.BookingService, publicLimit echo.MiddlewareFunc) {
	handler := &BookingHandler{bookings: bookings}

	e.POST("/api/bookings", handler.createPublic, optional(publicLimit)...)

	admin := e.Group("/api/admin/bookings", RequireAuth(auth), RequireRole(domain.AdminRoleAdmin))
	admin.GET("", handler.list)
	admin.POST("", handler.createAdmin)
	admin.GET("/export/:format", handler.export)
	admin.GET("/:id", handler.get)
	admin.PUT("/:id", handler.update)
	admin.DELETE("/:id", handler.delete)
}

// createPublic handles POST /api/bookings
func (h *BookingHandler) createPublic(c echo.Context) error {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	input, err := req.toInput()
	if err != nil {
		return badRequest(c, err.Error())
	}
	booking, err := h.bookings.CreatePublic(c.Request().Context(), input)
	if err != nil {
		return bookingError(c, err, "unable to create booking")
	}
	return c.JSON(http.StatusCreated, booking)
}

// createAdmin handles POST /api/admin/bookings
func (h *BookingHandler) createAdmin(c echo.Context) error {
	var req AdminBookingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	base, err := req.BookingRequest.toInput()
	if err != nil {
		return badRequest(c, err.Error())
	}
	input := service.AdminBookingInput{
		BookingInput:   base,
		TourTitle:      req.TourTitle,
		TotalAmount:    req.TotalAmount,
		DiscountAmount: req.DiscountAmount,
		Notes:          req.Notes,
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := domain.BookingStatus(raw)
		input.Status = &status
	}
	if raw := strings.TrimSpace(req.PaymentStatus); raw != "" {
		payment := domain.PaymentStatus(raw)
		input.PaymentStatus = &payment
	}

	booking, err := h.bookings.CreateAdmin(c.Request().Context(), input)
	if err != nil {
		return bookingError(c, err, "unable to create booking")
	}
	return c.JSON(http.StatusCreated, booking)
}

// list handles GET /api/admin/bookings
func (h *BookingHandler) list(c echo.Context) error {
	filter, err := parseBookingFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	page, err := h.bookings.List(c.Request().Context(), filter)
	if err != nil {
		return bookingError(c, err, "unable to list bookings")
	}
	return c.JSON(http.StatusOK, pageEnvelope("bookings", page))
}

func (h *BookingHandler) get(c echo.Context) error {
	id, err := parseIDParam(c, "booking")
	if err != nil {
		return badRequest(c, err.Error())
	}
	booking, err := h.bookings.Get(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err, "unable to load booking")
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "booking")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req BookingUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	patch := service.BookingUpdate{
		Notes:             req.Notes,
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		NumberOfTravelers: req.NumberOfTravelers,
		SpecialRequests:   req.SpecialRequests,
	}
	if req.Status != nil {
		status := domain.BookingStatus(strings.TrimSpace(*req.Status))
		patch.Status = &status
	}
	if req.PaymentStatus != nil {
		payment := domain.PaymentStatus(strings.TrimSpace(*req.PaymentStatus))
		patch.PaymentStatus = &payment
	}
	if req.TravelDate != nil {
		date, err := parseDate(*req.TravelDate)
		if err != nil {
			return badRequest(c, "travelDate must be a date (YYYY-MM-DD)")
		}
		patch.TravelDate = &date
	}

	booking, err := h.bookings.Update(c.Request().Context(), id, patch)
	if err != nil {
		return bookingError(c, err, "unable to update booking")
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "booking")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.bookings.Delete(c.Request().Context(), id); err != nil {
		return bookingError(c, err, "unable to delete booking")
	}
	return c.JSON(http.StatusOK, util.Message("Booking deleted successfully"))
}

// export handles GET /api/admin/bookings/export/{csv|xlsx|pdf}
func (h *BookingHandler) export(c echo.Context) error {
	filter, err := parseBookingFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	format := strings.ToLower(strings.TrimSpace(c.Param("format")))
	file, err := h.bookings.Export(c.Request().Context(), format, filter)
	if err != nil {
		return bookingError(c, err, "unable to export bookings")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.FileName))
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}

func (r BookingRequest) toInput() (service.BookingInput, error) {
	input := service.BookingInput{
		CustomerName:      r.CustomerName,
		CustomerEmail:     r.CustomerEmail,
		CustomerPhone:     r.CustomerPhone,
		NumberOfTravelers: r.NumberOfTravelers,
		VoucherCode:       r.VoucherCode,
		SpecialRequests:   r.SpecialRequests,
	}
	tourID, err := uuid.Parse(strings.TrimSpace(r.TourID))
	if err != nil {
		return service.BookingInput{}, errors.New("tourId must be a valid id")
	}
	input.TourID = tourID
	if raw := strings.TrimSpace(r.UserID); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return service.BookingInput{}, errors.New("userId must be a valid id")
		}
		input.UserID = &userID
	}
	if strings.TrimSpace(r.TravelDate) == "" {
		return service.BookingInput{}, errors.New("travelDate is required")
	}
	date, err := parseDate(r.TravelDate)
	if err != nil {
		return service.BookingInput{}, errors.New("travelDate must be a date (YYYY-MM-DD)")
	}
	input.TravelDate = date
	return input, nil
}

func parseBookingFilter(c echo.Context) (domain.BookingFilter, error) {
	pagination, err := parsePagination(c)
	if err != nil {
		return domain.BookingFilter{}, err
	}
	filter := domain.BookingFilter{
		Search:     strings.TrimSpace(c.QueryParam("search")),
		Pagination: pagination,
	}
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" && raw != "all" {
		status := domain.BookingStatus(raw)
		filter.Status = &status
	}
	if raw := strings.TrimSpace(c.QueryParam("paymentStatus")); raw != "" && raw != "all" {
		payment := domain.PaymentStatus(raw)
		filter.PaymentStatus = &payment
	}
	return filter, nil
}

func bookingError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrBookingValidation),
		errors.Is(err, service.ErrVoucherRejected),
		errors.Is(err, service.ErrUnsupportedExport):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrBookingNotFound), errors.Is(err, service.ErrTourNotFound):
		return c.JSON(http.StatusNotFound, util.Error(err.Error()))
	case errors.Is(err, service.ErrBookingsDisabled):
		return c.JSON(http.StatusConflict, util.Error("Bookings are currently disabled"))
	case errors.Is(err, service.ErrVoucherLimitReached), errors.Is(err, service.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, util.Error(err.Error()))
	default:
		return internalError(c, fallback, err)
	}
}
