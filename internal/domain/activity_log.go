package domain

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type ActivityAction string

const (
	ActionCreate  ActivityAction = "create"
	ActionUpdate  ActivityAction = "update"
	ActionDelete  ActivityAction = "delete"
	ActionLogin   ActivityAction = "login"
	ActionLogout  ActivityAction = "logout"
	ActionBlock   ActivityAction = "block"
	ActionUnblock ActivityAction = "unblock"
)

// Resource tags used in activity entries.
const (
	ResourceAdmin           = "admin"
	ResourceTour            = "tour"
	ResourceVoucher         = "voucher"
	ResourceBooking         = "booking"
	ResourceReview          = "review"
	ResourceBlog            = "blog"
	ResourceGallery         = "gallery"
	ResourceUser            = "user"
	ResourceInquiry         = "inquiry"
	ResourceWebsiteSettings = "website-settings"
	ResourceTheme           = "theme"
	ResourceBanner          = "banner"
	ResourceSEO             = "seo"
	ResourceHomepage        = "homepage-content"
)

type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// ChangeSet records before/after values keyed by field name.
type ChangeSet map[string]FieldChange

func (c ChangeSet) Value() (driver.Value, error) {
	if len(c) == 0 {
		return nil, nil
	}
	return jsonValue(c)
}

func (c *ChangeSet) Scan(value any) error {
	*c = nil
	return jsonScan(value, c)
}

type ActivityLog struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	AdminID       uuid.UUID      `db:"admin_id" json:"adminId"`
	AdminUsername string         `db:"admin_username" json:"adminUsername"`
	Action        ActivityAction `db:"action" json:"action"`
	Resource      string         `db:"resource" json:"resource"`
	ResourceID    *string        `db:"resource_id" json:"resourceId,omitempty"`
	Details       string         `db:"details" json:"details"`
	Changes       ChangeSet      `db:"changes" json:"changes,omitempty"`
	IPAddress     string         `db:"ip_address" json:"ipAddress"`
	UserAgent     string         `db:"user_agent" json:"userAgent"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
}

type ActivityLogFilter struct {
	Resource string
	Action   string
	AdminID  *uuid.UUID
	Pagination
}
