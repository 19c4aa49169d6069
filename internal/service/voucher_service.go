package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

var (
	ErrVoucherValidation   = errors.New("voucher validation failed")
	ErrVoucherNotFound     = errors.New("voucher not found")
	ErrVoucherExists       = errors.New("voucher code already exists")
	ErrVoucherRejected     = errors.New("voucher rejected")
	ErrVoucherLimitReached = errors.New("voucher usage limit reached")
)

const (
	msgVoucherInvalid       = "Invalid voucher code"
	msgVoucherExpired       = "Voucher has expired"
	msgVoucherLimit         = "Voucher usage limit reached"
	msgVoucherNotApplicable = "Voucher not applicable for this tour"
	msgVoucherMinPurchase   = "Minimum purchase amount of %.2f required"
)

var voucherCodePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// VoucherObserver counts validation outcomes.
type VoucherObserver interface {
	VoucherValidated(valid bool)
}

type VoucherService struct {
	vouchers ports.VoucherRepository
	activity *ActivityRecorder
	observer VoucherObserver
	now      func() time.Time
}

func NewVoucherService(vouchers ports.VoucherRepository, activity *ActivityRecorder, observer VoucherObserver) *VoucherService {
	return &VoucherService{
		vouchers: vouchers,
		activity: activity,
		observer: observer,
		now:      time.Now,
	}
}

func (s *VoucherService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Validate checks code against an optional tour and purchase amount. A
// rejected voucher is a normal result with Valid=false; errors are reserved
// for store failures. Usage is never consumed here.
func (s *VoucherService) Validate(ctx context.Context, code string, tourID *uuid.UUID, amount *float64) (*domain.VoucherValidation, error) {
	_, result, err := s.evaluate(ctx, code, tourID, amount)
	if err != nil {
		return nil, err
	}
	if s.observer != nil {
		s.observer.VoucherValidated(result.Valid)
	}
	return result, nil
}

func (s *VoucherService) evaluate(ctx context.Context, code string, tourID *uuid.UUID, amount *float64) (*domain.Voucher, *domain.VoucherValidation, error) {
	code = normalizeVoucherCode(code)
	if code == "" {
		return nil, invalidVoucher(msgVoucherInvalid), nil
	}

	voucher, err := s.vouchers.FindActiveByCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			return nil, invalidVoucher(msgVoucherInvalid), nil
		}
		return nil, nil, err
	}

	if !voucher.InWindow(s.now()) {
		return voucher, invalidVoucher(msgVoucherExpired), nil
	}
	if voucher.Exhausted() {
		return voucher, invalidVoucher(msgVoucherLimit), nil
	}
	if tourID != nil && !voucher.AppliesTo(*tourID) {
		return voucher, invalidVoucher(msgVoucherNotApplicable), nil
	}
	if voucher.MinPurchaseAmount > 0 && amount != nil && *amount < voucher.MinPurchaseAmount {
		return voucher, invalidVoucher(fmt.Sprintf(msgVoucherMinPurchase, voucher.MinPurchaseAmount)), nil
	}

	discount := ComputeDiscount(voucher, amount)
	value := voucher.DiscountValue
	return voucher, &domain.VoucherValidation{
		Valid:         true,
		Code:          voucher.Code,
		Discount:      &discount,
		DiscountType:  voucher.DiscountType,
		DiscountValue: &value,
	}, nil
}

// ComputeDiscount applies the voucher to amount. Percentage discounts are
// capped by MaxDiscountAmount. Fixed discounts never exceed the amount when
// one is given. Without an amount a percentage yields zero.
func ComputeDiscount(v *domain.Voucher, amount *float64) float64 {
	var discount float64
	switch v.DiscountType {
	case domain.DiscountPercentage:
		if amount == nil {
			return 0
		}
		discount = *amount * v.DiscountValue / 100
		if v.MaxDiscountAmount != nil {
			discount = math.Min(discount, *v.MaxDiscountAmount)
		}
	case domain.DiscountFixed:
		discount = v.DiscountValue
		if amount != nil {
			discount = math.Min(discount, *amount)
		}
	}
	if discount < 0 {
		discount = 0
	}
	return round2(discount)
}

// Redeem consumes one use with a conditional increment in the store.
func (s *VoucherService) Redeem(ctx context.Context, voucher *domain.Voucher) error {
	ok, err := s.vouchers.Redeem(ctx, voucher.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrVoucherLimitReached
	}
	return nil
}

func (s *VoucherService) List(ctx context.Context) ([]domain.Voucher, error) {
	vouchers, err := s.vouchers.List(ctx)
	if err != nil {
		return nil, err
	}
	if vouchers == nil {
		vouchers = []domain.Voucher{}
	}
	return vouchers, nil
}

func (s *VoucherService) Get(ctx context.Context, id uuid.UUID) (*domain.Voucher, error) {
	voucher, err := s.vouchers.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrVoucherNotFound
		}
		return nil, err
	}
	return voucher, nil
}

func (s *VoucherService) Create(ctx context.Context, input domain.Voucher) (*domain.Voucher, error) {
	voucher := input
	voucher.UsageCount = 0
	if err := normalizeVoucher(&voucher); err != nil {
		return nil, err
	}

	stored, err := s.vouchers.Create(ctx, &voucher)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrVoucherExists
		}
		return nil, err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionCreate,
		Resource:   domain.ResourceVoucher,
		ResourceID: stored.ID.String(),
		Details:    fmt.Sprintf("Created voucher %s", stored.Code),
	})
	return stored, nil
}

func (s *VoucherService) Update(ctx context.Context, id uuid.UUID, patch json.RawMessage) (*domain.Voucher, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	if err := json.Unmarshal(patch, &next); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrVoucherValidation, err.Error())
	}
	next.ID = current.ID
	next.UsageCount = current.UsageCount
	next.CreatedAt = current.CreatedAt
	if err := normalizeVoucher(&next); err != nil {
		return nil, err
	}

	stored, err := s.vouchers.Update(ctx, &next)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrVoucherNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrVoucherExists
		}
		return nil, err
	}

	changes := domain.ChangeSet{}
	if current.Active != stored.Active {
		changes["active"] = domain.FieldChange{From: current.Active, To: stored.Active}
	}
	if current.DiscountValue != stored.DiscountValue || current.DiscountType != stored.DiscountType {
		changes["discount"] = domain.FieldChange{
			From: fmt.Sprintf("%s %.2f", current.DiscountType, current.DiscountValue),
			To:   fmt.Sprintf("%s %.2f", stored.DiscountType, stored.DiscountValue),
		}
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionUpdate,
		Resource:   domain.ResourceVoucher,
		ResourceID: stored.ID.String(),
		Details:    fmt.Sprintf("Updated voucher %s", stored.Code),
		Changes:    changes,
	})
	return stored, nil
}

func (s *VoucherService) Delete(ctx context.Context, id uuid.UUID) error {
	voucher, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.vouchers.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrVoucherNotFound
		}
		return err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionDelete,
		Resource:   domain.ResourceVoucher,
		ResourceID: id.String(),
		Details:    fmt.Sprintf("Deleted voucher %s", voucher.Code),
	})
	return nil
}

func normalizeVoucherCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func invalidVoucher(message string) *domain.VoucherValidation {
	return &domain.VoucherValidation{Valid: false, Message: message}
}

func normalizeVoucher(v *domain.Voucher) error {
	v.Code = normalizeVoucherCode(v.Code)
	v.Description = strings.TrimSpace(v.Description)
	v.ApplicableTours = trimAll(v.ApplicableTours)

	var problems []string
	if v.Code == "" {
		problems = append(problems, "code is required")
	} else if !voucherCodePattern.MatchString(v.Code) {
		problems = append(problems, "code may only contain letters, digits, '-' and '_'")
	}
	if !v.DiscountType.Valid() {
		problems = append(problems, "discountType must be percentage or fixed")
	}
	if v.DiscountValue <= 0 {
		problems = append(problems, "discountValue must be greater than 0")
	}
	if v.DiscountType == domain.DiscountPercentage && v.DiscountValue > 100 {
		problems = append(problems, "percentage discount cannot exceed 100")
	}
	if v.MinPurchaseAmount < 0 {
		problems = append(problems, "minPurchaseAmount must not be negative")
	}
	if v.MaxDiscountAmount != nil && *v.MaxDiscountAmount < 0 {
		problems = append(problems, "maxDiscountAmount must not be negative")
	}
	if v.UsageLimit != nil && *v.UsageLimit < 0 {
		problems = append(problems, "usageLimit must not be negative")
	}
	if v.PerUserLimit != nil && *v.PerUserLimit < 0 {
		problems = append(problems, "perUserLimit must not be negative")
	}
	if v.ValidFrom != nil && v.ValidUntil != nil && !v.ValidUntil.After(*v.ValidFrom) {
		problems = append(problems, "validUntil must be after validFrom")
	}
	for i, id := range v.ApplicableTours {
		parsed, err := uuid.Parse(id)
		if err != nil {
			problems = append(problems, fmt.Sprintf("applicable tour %q is not a valid id", id))
			break
		}
		v.ApplicableTours[i] = parsed.String()
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrVoucherValidation, strings.Join(problems, "; "))
	}
	return nil
}
