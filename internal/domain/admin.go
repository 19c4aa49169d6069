package domain

import (
	"time"

	"github.com/google/uuid"
)

type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "super_admin"
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleEditor     AdminRole = "editor"
)

func (r AdminRole) rank() int {
	switch r {
	case AdminRoleSuperAdmin:
		return 3
	case AdminRoleAdmin:
		return 2
	case AdminRoleEditor:
		return 1
	}
	return 0
}

func (r AdminRole) Valid() bool {
	return r.rank() > 0
}

// AtLeast reports whether r grants every privilege of min.
func (r AdminRole) AtLeast(min AdminRole) bool {
	return r.Valid() && r.rank() >= min.rank()
}

type Admin struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         AdminRole  `db:"role" json:"role"`
	FullName     string     `db:"full_name" json:"fullName"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	LastLogin    *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	LastLoginIP  string     `db:"last_login_ip" json:"lastLoginIp"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

type AdminUpdate struct {
	Email        *string
	FullName     *string
	Role         *AdminRole
	IsActive     *bool
	PasswordHash *string
}
