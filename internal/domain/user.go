package domain

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

type UserPreferences struct {
	Notifications bool `json:"notifications"`
	Newsletter    bool `json:"newsletter"`
}

func DefaultUserPreferences() UserPreferences {
	return UserPreferences{Notifications: true}
}

func (p UserPreferences) Value() (driver.Value, error) {
	return jsonValue(p)
}

func (p *UserPreferences) Scan(value any) error {
	*p = DefaultUserPreferences()
	return jsonScan(value, p)
}

// User is a customer account of the public site.
type User struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Email       string          `db:"email" json:"email"`
	Phone       string          `db:"phone" json:"phone"`
	Role        UserRole        `db:"role" json:"role"`
	IsBlocked   bool            `db:"is_blocked" json:"isBlocked"`
	Avatar      string          `db:"avatar" json:"avatar"`
	Preferences UserPreferences `db:"preferences" json:"preferences"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

type UserFilter struct {
	Search    string
	IsBlocked *bool
	Pagination
}
