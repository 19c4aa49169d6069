package domain

import (
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

type Voucher struct {
	ID                uuid.UUID    `db:"id" json:"id"`
	Code              string       `db:"code" json:"code"`
	Description       string       `db:"description" json:"description"`
	DiscountType      DiscountType `db:"discount_type" json:"discountType"`
	DiscountValue     float64      `db:"discount_value" json:"discountValue"`
	MinPurchaseAmount float64      `db:"min_purchase_amount" json:"minPurchaseAmount"`
	MaxDiscountAmount *float64     `db:"max_discount_amount" json:"maxDiscountAmount,omitempty"`
	ApplicableTours   StringList   `db:"applicable_tours" json:"applicableTours"`
	ValidFrom         *time.Time   `db:"valid_from" json:"validFrom,omitempty"`
	ValidUntil        *time.Time   `db:"valid_until" json:"validUntil,omitempty"`
	UsageLimit        *int         `db:"usage_limit" json:"usageLimit,omitempty"`
	UsageCount        int          `db:"usage_count" json:"usageCount"`
	PerUserLimit      *int         `db:"per_user_limit" json:"perUserLimit,omitempty"`
	Active            bool         `db:"active" json:"active"`
	CreatedAt         time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time    `db:"updated_at" json:"updatedAt"`
}

// InWindow reports whether at lies inside [ValidFrom, ValidUntil]. Unset bounds are open.
func (v *Voucher) InWindow(at time.Time) bool {
	if v.ValidFrom != nil && at.Before(*v.ValidFrom) {
		return false
	}
	if v.ValidUntil != nil && at.After(*v.ValidUntil) {
		return false
	}
	return true
}

func (v *Voucher) Exhausted() bool {
	return v.UsageLimit != nil && v.UsageCount >= *v.UsageLimit
}

// AppliesTo reports whether the voucher may be used for tourID. An empty list applies to all tours.
func (v *Voucher) AppliesTo(tourID uuid.UUID) bool {
	if len(v.ApplicableTours) == 0 {
		return true
	}
	return v.ApplicableTours.Contains(tourID.String())
}

// VoucherValidation is the outcome of checking a code against a purchase.
type VoucherValidation struct {
	Valid         bool         `json:"valid"`
	Code          string       `json:"code,omitempty"`
	Discount      *float64     `json:"discount,omitempty"`
	DiscountType  DiscountType `json:"discountType,omitempty"`
	DiscountValue *float64     `json:"discountValue,omitempty"`
	Message       string       `json:"message,omitempty"`
}
