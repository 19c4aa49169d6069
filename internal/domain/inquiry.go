package domain

import (
	"time"

	"github.com/google/uuid"
)

type InquiryStatus string

const (
	InquiryNew      InquiryStatus = "new"
	InquiryRead     InquiryStatus = "read"
	InquiryReplied  InquiryStatus = "replied"
	InquiryArchived InquiryStatus = "archived"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryNew, InquiryRead, InquiryReplied, InquiryArchived:
		return true
	}
	return false
}

type Inquiry struct {
	ID         uuid.UUID     `db:"id" json:"id"`
	Name       string        `db:"name" json:"name"`
	Email      string        `db:"email" json:"email"`
	Phone      string        `db:"phone" json:"phone"`
	Subject    string        `db:"subject" json:"subject"`
	Message    string        `db:"message" json:"message"`
	TourID     *uuid.UUID    `db:"tour_id" json:"tourId,omitempty"`
	Status     InquiryStatus `db:"status" json:"status"`
	AdminNotes string        `db:"admin_notes" json:"adminNotes"`
	RepliedAt  *time.Time    `db:"replied_at" json:"repliedAt,omitempty"`
	RepliedBy  *uuid.UUID    `db:"replied_by" json:"repliedBy,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updatedAt"`
}

type InquiryFilter struct {
	Status *InquiryStatus
	Search string
	Pagination
}
