package models

import (
	"time"
)

// Notification represents a user notification
type Notification struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           string     `gorm:"size:64;not null;index" json:"user_id"`
	Title            string     `gorm:"not null" json:"title"`
	Message          string     `gorm:"not null" json:"message"`
	NotificationType *string    `gorm:"index" json:"notification_type"`
	PaymentID        *string    `gorm:"size:64;index" json:"payment_id,omitempty"`
	Period           string     `gorm:"size:7" json:"period,omitempty"`
	ReadAt           *time.Time `gorm:"index" json:"read_at"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// Notification type constants
const (
	NotificationTypePaymentRecorded = "payment_recorded"
	NotificationTypePaymentOverdue  = "payment_overdue"
	NotificationTypePlanCompleted   = "plan_completed"
	NotificationTypePlanCancelled   = "plan_cancelled"
)

// IsRead returns true if notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// MarkAsRead marks the notification as read at the given time
func (n *Notification) MarkAsRead(at time.Time) {
	n.ReadAt = &at
}

// NotificationResponse is the JSON response format
type NotificationResponse struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title"`
	Message          string     `json:"message"`
	NotificationType *string    `json:"notification_type"`
	Read             bool       `json:"read"`
	ReadAt           *time.Time `json:"read_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToResponse converts Notification to NotificationResponse
func (n *Notification) ToResponse() NotificationResponse {
	return NotificationResponse{
		ID:               n.ID,
		Title:            n.Title,
		Message:          n.Message,
		NotificationType: n.NotificationType,
		Read:             n.IsRead(),
		ReadAt:           n.ReadAt,
		CreatedAt:        n.CreatedAt,
	}
}

// AllModels lists every table for auto-migration
func AllModels() []any {
	return []any{
		&Property{},
		&User{},
		&Project{},
		&UnitAssignment{},
		&Document{},
		&Message{},
		&InstallmentPlan{},
		&MonthlyPayment{},
		&Notification{},
	}
}
