package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleManager      Role = "manager"
	RoleDeliveryCrew Role = "delivery-crew"
	RoleCustomer     Role = "customer"
)

func (r Role) IsValid() bool {
	return r == RoleManager || r == RoleDeliveryCrew || r == RoleCustomer
}

// HasRole checks a role-set the way the middleware stores it in claims.
func HasRole(roles []string, role Role) bool {
	for _, r := range roles {
		if Role(r) == role {
			return true
		}
	}
	return false
}

type User struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Email      string     `db:"email" json:"email"`
	Password   string     `db:"password" json:"-"`
	Roles      []UserRole `db:"-" json:"roles,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ArchivedAt *time.Time `db:"archived_at" json:"archived_at,omitempty"`
}

type UserRole struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
