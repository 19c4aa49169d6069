package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/service"
	"github.com/batuwa-travels/travel-api/internal/util"
)

type VoucherHandler struct {
	vouchers *service.VoucherService
}

// VoucherValidateRequest is the body of POST /api/vouchers/validate.
type VoucherValidateRequest struct {
	Code   string   `json:"code" example:"SAVE20"`
	TourID string   `json:"tourId,omitempty"`
	Amount *float64 `json:"amount,omitempty" example:"1000"`
}

func RegisterVouchers(e *echo.Echo, auth Authenticator, vouchers *service.VoucherService, publicLimit echo.MiddlewareFunc) {
	handler := &VoucherHandler{vouchers: vouchers}

	e.POST("/api/vouchers/validate", handler.validate, optional(publicLimit)...)

	admin := e.Group("/api/vouchers", RequireAuth(auth), RequireRole(domain.AdminRoleAdmin))
	admin.GET("", handler.list)
	admin.POST("", handler.create)
	admin.GET("/:id", handler.get)
	admin.PUT("/:id", handler.update)
	admin.DELETE("/:id", handler.delete)
}

// validate handles POST /api/vouchers/validate. Rejections are reported with
// valid=false and a 200 status.
func (h *VoucherHandler) validate(c echo.Context) error {
	var req VoucherValidateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Code) == "" {
		return badRequest(c, "code is required")
	}

	var tourID *uuid.UUID
	if raw := strings.TrimSpace(req.TourID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "tourId must be a valid id")
		}
		tourID = &id
	}
	if req.Amount != nil && *req.Amount < 0 {
		return badRequest(c, "amount must not be negative")
	}

	result, err := h.vouchers.Validate(c.Request().Context(), req.Code, tourID, req.Amount)
	if err != nil {
		return internalError(c, "unable to validate voucher", err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *VoucherHandler) list(c echo.Context) error {
	vouchers, err := h.vouchers.List(c.Request().Context())
	if err != nil {
		return internalError(c, "unable to list vouchers", err)
	}
	return c.JSON(http.StatusOK, vouchers)
}

func (h *VoucherHandler) get(c echo.Context) error {
	id, err := parseIDParam(c, "voucher")
	if err != nil {
		return badRequest(c, err.Error())
	}
	voucher, err := h.vouchers.Get(c.Request().Context(), id)
	if err != nil {
		return voucherError(c, err, "unable to load voucher")
	}
	return c.JSON(http.StatusOK, voucher)
}

func (h *VoucherHandler) create(c echo.Context) error {
	var input domain.Voucher
	if err := json.NewDecoder(io.LimitReader(c.Request().Body, maxPatchBody)).Decode(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	voucher, err := h.vouchers.Create(c.Request().Context(), input)
	if err != nil {
		return voucherError(c, err, "unable to create voucher")
	}
	return c.JSON(http.StatusCreated, voucher)
}

func (h *VoucherHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "voucher")
	if err != nil {
		return badRequest(c, err.Error())
	}
	patch, err := readJSONPatch(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	voucher, err := h.vouchers.Update(c.Request().Context(), id, patch)
	if err != nil {
		return voucherError(c, err, "unable to update voucher")
	}
	return c.JSON(http.StatusOK, voucher)
}

func (h *VoucherHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "voucher")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.vouchers.Delete(c.Request().Context(), id); err != nil {
		return voucherError(c, err, "unable to delete voucher")
	}
	return c.JSON(http.StatusOK, util.Message("Voucher deleted successfully"))
}

func voucherError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrVoucherValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrVoucherNotFound):
		return c.JSON(http.StatusNotFound, util.Error(err.Error()))
	case errors.Is(err, service.ErrVoucherExists):
		return c.JSON(http.StatusConflict, util.Error(err.Error()))
	default:
		return internalError(c, fallback, err)
	}
}
