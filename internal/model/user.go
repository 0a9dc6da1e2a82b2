package model

import (
	"time"
)

// User roles
const (
	RoleUser       = "user"
	RoleAccountant = "accountant"
	RoleAdmin      = "admin"
)

// User statuses
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// User represents a SwiftTax account
type User struct {
	ID             int        `json:"id" db:"id"`
	FirstName      string     `json:"firstName" db:"first_name"`
	LastName       string     `json:"lastName" db:"last_name"`
	Email          string     `json:"email" db:"email"`
	PasswordHash   string     `json:"-" db:"password_hash"`
	Role           string     `json:"role" db:"role"`
	Status         string     `json:"status" db:"status"`
	PANNumber      *string    `json:"panNumber,omitempty" db:"pan_number"`
	Phone          *string    `json:"phone,omitempty" db:"phone"`
	TaxFormsCount  int        `json:"taxFormsCount" db:"tax_forms_count"`
	DocumentsCount int        `json:"documentsCount" db:"documents_count"`
	LastLogin      *time.Time `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserCreate represents data needed to create a new user
type UserCreate struct {
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password,omitempty" binding:"omitempty,min=8"`
	Role      string  `json:"role" binding:"omitempty,oneof=user accountant admin"`
	Status    string  `json:"status" binding:"omitempty,oneof=active inactive suspended"`
	PANNumber *string `json:"panNumber,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// UserUpdate represents a partial patch for a user. Nil fields are left
// untouched by the update.
type UserUpdate struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Role      *string `json:"role" binding:"omitempty,oneof=user accountant admin"`
	Status    *string `json:"status" binding:"omitempty,oneof=active inactive suspended"`
	PANNumber *string `json:"panNumber"`
	Phone     *string `json:"phone"`
}

// UserStatusUpdate represents a single-row status transition
type UserStatusUpdate struct {
	Status string `json:"status" binding:"required,oneof=active inactive suspended"`
}

// Bulk actions accepted by the bulk endpoint
const (
	BulkActivate   = "activate"
	BulkDeactivate = "deactivate"
	BulkDelete     = "delete"
)

// BulkActionRequest represents a batch operation over a set of user IDs
type BulkActionRequest struct {
	Action string `json:"action" binding:"required,oneof=activate deactivate delete"`
	IDs    []int  `json:"ids" binding:"required"`
}

// BulkActionResponse reports how many rows a bulk action touched
type BulkActionResponse struct {
	Action   string `json:"action"`
	Affected int    `json:"affected"`
}

// UserFilter holds the admin list filters. Empty fields impose no constraint.
type UserFilter struct {
	Search string
	Role   string
	Status string
}
