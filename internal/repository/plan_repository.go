package repository

import (
	"context"

	"github.com/sjperalta/cobuy-api/internal/models"
	"gorm.io/gorm"
)

// PlanRepository defines the interface for installment plan data access
type PlanRepository interface {
	FindByID(ctx context.Context, id string) (*models.InstallmentPlan, error)
	FindActive(ctx context.Context) ([]models.InstallmentPlan, error)
	FindByUser(ctx context.Context, userID string) ([]models.InstallmentPlan, error)
	Create(ctx context.Context, plan *models.InstallmentPlan) error
	Update(ctx context.Context, plan *models.InstallmentPlan) error
	AppendPayment(ctx context.Context, payment *models.MonthlyPayment) error
	UpdatePayment(ctx context.Context, payment *models.MonthlyPayment) error
	FindPayment(ctx context.Context, planID, paymentID string) (*models.MonthlyPayment, error)
}

type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func orderedPayments(db *gorm.DB) *gorm.DB {
	return db.Order("due_date, id")
}

func (r *planRepository) FindByID(ctx context.Context, id string) (*models.InstallmentPlan, error) {
	var plan models.InstallmentPlan
	err := r.db.WithContext(ctx).
		Preload("Payments", orderedPayments).
		Where("id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) FindActive(ctx context.Context) ([]models.InstallmentPlan, error) {
	var plans []models.InstallmentPlan
	err := r.db.WithContext(ctx).
		Preload("Payments", orderedPayments).
		Where("status = ?", models.PlanStatusActive).
		Order("id").
		Find(&plans).Error
	return plans, err
}

func (r *planRepository) FindByUser(ctx context.Context, userID string) ([]models.InstallmentPlan, error) {
	var plans []models.InstallmentPlan
	err := r.db.WithContext(ctx).
		Preload("Payments", orderedPayments).
		Where("user_id = ?", userID).
		Order("start_date, id").
		Find(&plans).Error
	return plans, err
}

func (r *planRepository) Create(ctx context.Context, plan *models.InstallmentPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

// Update saves the plan row only; payments are written through their own methods
func (r *planRepository) Update(ctx context.Context, plan *models.InstallmentPlan) error {
	return r.db.WithContext(ctx).Omit("Payments").Save(plan).Error
}

func (r *planRepository) AppendPayment(ctx context.Context, payment *models.MonthlyPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *planRepository) UpdatePayment(ctx context.Context, payment *models.MonthlyPayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *planRepository) FindPayment(ctx context.Context, planID, paymentID string) (*models.MonthlyPayment, error) {
	var payment models.MonthlyPayment
	err := r.db.WithContext(ctx).
		Where("plan_id = ? AND id = ?", planID, paymentID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
