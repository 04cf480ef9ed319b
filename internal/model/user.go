package model

import "time"

// Roles carried in the JWT "role" claim.  OWNER accounts create and
// manage their own reservations, BACKOFFICE approves bookings and
// administers stations and schedules, OPERATOR scans QR tokens on-site.
const (
	RoleOwner      = "OWNER"
	RoleBackoffice = "BACKOFFICE"
	RoleOperator   = "OPERATOR"
)

// User is an account on the platform.  The NIC doubles as the national
// person identifier and is validated on registration.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	NIC          string    `json:"nic"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
}
