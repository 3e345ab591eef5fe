package model

import "time"

// Role values carried by User.Role. Every mutating operation is gated on one
// of these plus the account's approval status.
const (
	RoleCustomer      = "customer"
	RoleManager       = "manager"
	RoleAdministrator = "administrator"
)

// Approval status values carried by User.Status.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// User represents an account in the directory.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	Role      string    `gorm:"size:32;not null" json:"role"`
	Status    string    `gorm:"size:32;not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
