package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

const inquiryColumns = `
	id, name, email, phone, subject, message, tour_id, status, admin_notes,
	replied_at, replied_by, created_at, updated_at`

type InquiryRepository struct {
	db *sqlx.DB
}

var _ ports.InquiryRepository = (*InquiryRepository)(nil)

func NewInquiryRepo(db *sqlx.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) Create(ctx context.Context, inq *domain.Inquiry) (*domain.Inquiry, error) {
	query := `
		INSERT INTO inquiry (name, email, phone, subject, message, tour_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + inquiryColumns
	var stored domain.Inquiry
	err := r.db.QueryRowxContext(ctx, query,
		inq.Name, inq.Email, inq.Phone, inq.Subject, inq.Message, nullableUUID(inq.TourID), inq.Status,
	).StructScan(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *InquiryRepository) Update(ctx context.Context, inq *domain.Inquiry) (*domain.Inquiry, error) {
	query := `
		UPDATE inquiry SET
			status = $2, admin_notes = $3, replied_at = $4, replied_by = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + inquiryColumns
	var stored domain.Inquiry
	err := r.db.QueryRowxContext(ctx, query, inq.ID,
		inq.Status, inq.AdminNotes, inq.RepliedAt, nullableUUID(inq.RepliedBy),
	).StructScan(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *InquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error) {
	var inq domain.Inquiry
	if err := r.db.GetContext(ctx, &inq, `SELECT `+inquiryColumns+` FROM inquiry WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &inq, nil
}

func (r *InquiryRepository) List(ctx context.Context, filter domain.InquiryFilter) ([]domain.Inquiry, int, error) {
	w := &whereBuilder{}
	if filter.Status != nil {
		w.add("status = $%d", *filter.Status)
	}
	w.addSearch(filter.Search, "name", "email", "subject")

	total, err := countRows(ctx, r.db, "inquiry", w)
	if err != nil {
		return nil, 0, err
	}

	limitClause, args := w.page(filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s FROM inquiry %s ORDER BY created_at DESC, id DESC %s`, inquiryColumns, w.sql(), limitClause)
	var inquiries []domain.Inquiry
	if err := r.db.SelectContext(ctx, &inquiries, query, args...); err != nil {
		return nil, 0, err
	}
	return inquiries, total, nil
}

func (r *InquiryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inquiry WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
