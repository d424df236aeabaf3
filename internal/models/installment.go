package models

import (
	"time"
)

// PlanStatus is the lifecycle state of an installment plan
type PlanStatus string

// Plan status constants
const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusCancelled PlanStatus = "cancelled"
)

// PaymentStatus is the stored state of a monthly payment.
// Overdue is never stored; it is derived from the due date at read time.
type PaymentStatus string

// Payment status constants
const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// InstallmentPlan is the financing schedule of one unit
type InstallmentPlan struct {
	ID                string     `gorm:"primaryKey;size:64" json:"id"`
	ProjectID         string     `gorm:"size:64;not null;index" json:"project_id"`
	UnitID            int        `gorm:"not null" json:"unit_id"`
	UserID            string     `gorm:"size:64;not null;index" json:"user_id"`
	Status            PlanStatus `gorm:"size:20;default:active;not null;index" json:"status"`
	TotalAmount       int64      `gorm:"not null" json:"total_amount"`
	DownPayment       int64      `gorm:"not null" json:"down_payment"`
	InstallmentAmount int64      `gorm:"not null" json:"installment_amount"`
	TotalInstallments int        `gorm:"not null" json:"total_installments"`
	StartDate         time.Time  `gorm:"not null" json:"start_date"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Associations
	Payments []MonthlyPayment `gorm:"foreignKey:PlanID" json:"payments"`
}

// TableName specifies the table name for InstallmentPlan
func (InstallmentPlan) TableName() string {
	return "installment_plans"
}

// Financed returns the amount recovered through installments
func (p *InstallmentPlan) Financed() int64 {
	return p.TotalAmount - p.DownPayment
}

// IsActive returns true if the plan still accepts payments
func (p *InstallmentPlan) IsActive() bool {
	return p.Status == PlanStatusActive
}

// MonthlyPayment is one expected or recorded installment
type MonthlyPayment struct {
	ID            string        `gorm:"primaryKey;size:64" json:"id"`
	PlanID        string        `gorm:"size:64;not null;index" json:"plan_id"`
	UserID        string        `gorm:"size:64;not null;index" json:"user_id"`
	UnitID        int           `gorm:"not null" json:"unit_id"`
	Period        string        `gorm:"size:7;not null;index" json:"period"`
	Amount        int64         `gorm:"not null" json:"amount"`
	DueDate       time.Time     `gorm:"not null;index" json:"due_date"`
	Status        PaymentStatus `gorm:"size:20;default:pending;not null;index" json:"status"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`
	PaymentMethod *string       `json:"payment_method,omitempty"`
	ReceiptPath   *string       `json:"receipt,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// TableName specifies the table name for MonthlyPayment
func (MonthlyPayment) TableName() string {
	return "monthly_payments"
}

// IsPaid returns true once the payment has been recorded
func (p *MonthlyPayment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}

// MayPay returns true if the payment can be recorded
func (p *MonthlyPayment) MayPay() bool {
	return p.Status == PaymentStatusPending
}
