package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

const voucherColumns = `
	id, code, description, discount_type, discount_value, min_purchase_amount, max_discount_amount,
	applicable_tours, valid_from, valid_until, usage_limit, usage_count, per_user_limit, active,
	created_at, updated_at`

type VoucherRepository struct {
	db *sqlx.DB
}

var _ ports.VoucherRepository = (*VoucherRepository)(nil)

func NewVoucherRepo(db *sqlx.DB) *VoucherRepository {
	return &VoucherRepository{db: db}
}

func (r *VoucherRepository) Create(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
	query := `
		INSERT INTO voucher (
			code, description, discount_type, discount_value, min_purchase_amount, max_discount_amount,
			applicable_tours, valid_from, valid_until, usage_limit, per_user_limit, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + voucherColumns
	var stored domain.Voucher
	err := r.db.QueryRowxContext(ctx, query,
		v.Code, v.Description, v.DiscountType, v.DiscountValue, v.MinPurchaseAmount, nullFloat(v.MaxDiscountAmount),
		v.ApplicableTours, v.ValidFrom, v.ValidUntil, nullInt(v.UsageLimit), nullInt(v.PerUserLimit), v.Active,
	).StructScan(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// Update rewrites the editable fields. usage_count is never written here so
// concurrent redemptions are not lost.
func (r *VoucherRepository) Update(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
	query := `
		UPDATE voucher SET
			code = $2, description = $3, discount_type = $4, discount_value = $5,
			min_purchase_amount = $6, max_discount_amount = $7, applicable_tours = $8,
			valid_from = $9, valid_until = $10, usage_limit = $11, per_user_limit = $12,
			active = $13, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + voucherColumns
	var stored domain.Voucher
	err := r.db.QueryRowxContext(ctx, query, v.ID,
		v.Code, v.Description, v.DiscountType, v.DiscountValue, v.MinPurchaseAmount, nullFloat(v.MaxDiscountAmount),
		v.ApplicableTours, v.ValidFrom, v.ValidUntil, nullInt(v.UsageLimit), nullInt(v.PerUserLimit), v.Active,
	).StructScan(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *VoucherRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Voucher, error) {
	var v domain.Voucher
	if err := r.db.GetContext(ctx, &v, `SELECT `+voucherColumns+` FROM voucher WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VoucherRepository) FindActiveByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	var v domain.Voucher
	if err := r.db.GetContext(ctx, &v, `SELECT `+voucherColumns+` FROM voucher WHERE code = $1 AND active = true`, code); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VoucherRepository) List(ctx context.Context) ([]domain.Voucher, error) {
	var vouchers []domain.Voucher
	if err := r.db.SelectContext(ctx, &vouchers, `SELECT `+voucherColumns+` FROM voucher ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	return vouchers, nil
}

func (r *VoucherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM voucher WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *VoucherRepository) Redeem(ctx context.Context, id uuid.UUID) (bool, error) {
	return redeemVoucher(ctx, r.db, id)
}

// redeemVoucher runs the conditional increment on db or inside a transaction.
func redeemVoucher(ctx context.Context, db sqlx.ExecerContext, id uuid.UUID) (bool, error) {
	const query = `
		UPDATE voucher
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE id = $1
		  AND active = true
		  AND (usage_limit IS NULL OR usage_count < usage_limit)
	`
	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
