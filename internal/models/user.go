package models

import (
	"time"

	"github.com/google/uuid"
)

// Back-office roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a back-office account. Catalog visitors are anonymous; only staff
// authenticate.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
