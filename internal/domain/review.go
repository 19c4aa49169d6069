package domain

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Author           string     `db:"author" json:"author"`
	Email            string     `db:"email" json:"email"`
	Rating           int        `db:"rating" json:"rating"`
	Message          string     `db:"message" json:"message"`
	TourID           *uuid.UUID `db:"tour_id" json:"tourId,omitempty"`
	TourTitle        string     `db:"tour_title" json:"tourTitle"`
	UserID           *uuid.UUID `db:"user_id" json:"userId,omitempty"`
	Approved         bool       `db:"approved" json:"approved"`
	Featured         bool       `db:"featured" json:"featured"`
	Hidden           bool       `db:"hidden" json:"hidden"`
	EditedBy         *uuid.UUID `db:"edited_by" json:"editedBy,omitempty"`
	EditedMessage    string     `db:"edited_message" json:"editedMessage"`
	IsEdited         bool       `db:"is_edited" json:"isEdited"`
	Photos           StringList `db:"photos" json:"photos"`
	VerifiedPurchase bool       `db:"verified_purchase" json:"verifiedPurchase"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}

// DisplayMessage is the text shown publicly: the admin edit when present.
func (r *Review) DisplayMessage() string {
	if r.IsEdited && r.EditedMessage != "" {
		return r.EditedMessage
	}
	return r.Message
}

// PubliclyVisible reports whether anonymous readers may see the review.
func (r *Review) PubliclyVisible() bool {
	return r.Approved && !r.Hidden
}

type ReviewFilter struct {
	Visibility Visibility
	TourID     *uuid.UUID
	Approved   *bool
	Featured   *bool
	Hidden     *bool
}
