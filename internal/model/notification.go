package model

import (
	"time"
)

// Notification types. They drive icon selection in clients, nothing else.
const (
	NotificationTaxDeadline      = "tax_deadline"
	NotificationDocumentUploaded = "document_uploaded"
	NotificationFormReviewed     = "form_reviewed"
	NotificationOther            = "other"
)

// Notification represents a user notification
type Notification struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"-" db:"user_id"`
	Type      string    `json:"type" db:"type"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Read      bool      `json:"read" db:"is_read"`
	ActionURL string    `json:"actionUrl,omitempty" db:"action_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NotificationCreate represents data for creating a notification
type NotificationCreate struct {
	UserID    int    `json:"userId" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=tax_deadline document_uploaded form_reviewed other"`
	Title     string `json:"title" binding:"required"`
	Message   string `json:"message" binding:"required"`
	ActionURL string `json:"actionUrl,omitempty"`
}

// NotificationList is the payload inside the list envelope
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
}

// NotificationListResponse is the wire envelope for the list endpoint:
// { "data": { "notifications": [...] } }
type NotificationListResponse struct {
	Data NotificationList `json:"data"`
}
