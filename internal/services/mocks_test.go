package services

import (
	"context"
	"sync"
	"time"

	"github.com/sjperalta/cobuy-api/internal/models"
	"github.com/sjperalta/cobuy-api/internal/repository"
	"gorm.io/gorm"
)

// Mock PlanRepository (embedding the interface keeps unused methods unimplemented)
type mockPlanRepository struct {
	repository.PlanRepository
	plans    map[string]*models.InstallmentPlan
	updated  []models.InstallmentPlan
	paid     []models.MonthlyPayment
	appended []models.MonthlyPayment
}

func newMockPlanRepository(plans ...*models.InstallmentPlan) *mockPlanRepository {
	m := &mockPlanRepository{plans: make(map[string]*models.InstallmentPlan)}
	for _, p := range plans {
		m.plans[p.ID] = p
	}
	return m
}

func (m *mockPlanRepository) FindByID(ctx context.Context, id string) (*models.InstallmentPlan, error) {
	p, ok := m.plans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	clone.Payments = append([]models.MonthlyPayment(nil), p.Payments...)
	return &clone, nil
}

func (m *mockPlanRepository) FindActive(ctx context.Context) ([]models.InstallmentPlan, error) {
	var out []models.InstallmentPlan
	for _, p := range m.plans {
		if p.IsActive() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPlanRepository) FindPayment(ctx context.Context, planID, paymentID string) (*models.MonthlyPayment, error) {
	if p, ok := m.plans[planID]; ok {
		for i := range p.Payments {
			if p.Payments[i].ID == paymentID {
				payment := p.Payments[i]
				return &payment, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepository) Update(ctx context.Context, plan *models.InstallmentPlan) error {
	m.updated = append(m.updated, *plan)
	return nil
}

func (m *mockPlanRepository) UpdatePayment(ctx context.Context, payment *models.MonthlyPayment) error {
	m.paid = append(m.paid, *payment)
	return nil
}

func (m *mockPlanRepository) AppendPayment(ctx context.Context, payment *models.MonthlyPayment) error {
	m.appended = append(m.appended, *payment)
	return nil
}

// Mock UserRepository
type mockUserRepository struct {
	repository.UserRepository
	users map[string]models.User
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

// Mock ProjectRepository
type mockProjectRepository struct {
	repository.ProjectRepository
	projects map[string]*models.Project
}

func (m *mockProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

// Mock PropertyRepository
type mockPropertyRepository struct {
	repository.PropertyRepository
	properties []models.Property
}

func (m *mockPropertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	for i := range m.properties {
		if m.properties[i].ID == id {
			p := m.properties[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPropertyRepository) FindAll(ctx context.Context) ([]models.Property, error) {
	return m.properties, nil
}

// Mock NotificationRepository, safe for use from worker goroutines
type mockNotificationRepository struct {
	repository.NotificationRepository
	mu            sync.Mutex
	notifications []models.Notification
}

func (m *mockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	notification.ID = uint(len(m.notifications) + 1)
	m.notifications = append(m.notifications, *notification)
	return nil
}

func (m *mockNotificationRepository) ExistsForPayment(ctx context.Context, paymentID, notificationType, period string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.PaymentID != nil && *n.PaymentID == paymentID && n.Period == period &&
			n.NotificationType != nil && *n.NotificationType == notificationType {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockNotificationRepository) FindByID(ctx context.Context, id uint) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepository) Update(ctx context.Context, notification *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == notification.ID {
			m.notifications[i] = *notification
		}
	}
	return nil
}

func (m *mockNotificationRepository) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, n := range m.notifications {
		out = append(out, *n.NotificationType)
	}
	return out
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

// kemangPlan has two paid and two pending installments of 250
func kemangPlan() *models.InstallmentPlan {
	payment := func(id, period string, due time.Time, status models.PaymentStatus) models.MonthlyPayment {
		return models.MonthlyPayment{ID: id, PlanID: "plan-1", UserID: "user-budi", UnitID: 1, Period: period, Amount: 250, DueDate: due, Status: status}
	}
	return &models.InstallmentPlan{
		ID:                "plan-1",
		ProjectID:         "proj-kemang",
		UnitID:            1,
		UserID:            "user-budi",
		Status:            models.PlanStatusActive,
		TotalAmount:       1200,
		DownPayment:       200,
		InstallmentAmount: 250,
		TotalInstallments: 4,
		StartDate:         date(2024, 1, 15),
		Payments: []models.MonthlyPayment{
			payment("pay-1", "2024-01", date(2024, 1, 15), models.PaymentStatusPaid),
			payment("pay-2", "2024-02", date(2024, 2, 15), models.PaymentStatusPaid),
			payment("pay-3", "2024-03", date(2024, 3, 15), models.PaymentStatusPending),
			payment("pay-4", "2024-04", date(2024, 4, 15), models.PaymentStatusPending),
		},
	}
}
