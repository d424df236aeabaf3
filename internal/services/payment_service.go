package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/sjperalta/cobuy-api/internal/billing"
	"github.com/sjperalta/cobuy-api/internal/format"
	"github.com/sjperalta/cobuy-api/internal/jobs"
	"github.com/sjperalta/cobuy-api/internal/models"
	"github.com/sjperalta/cobuy-api/internal/repository"
	"github.com/sjperalta/cobuy-api/internal/statemachine"
	"github.com/sjperalta/cobuy-api/internal/storage"
	"github.com/sjperalta/cobuy-api/pkg/logger"
)

const receiptDir = "receipts"

// Actor is the authenticated user performing a change
type Actor struct {
	UserID  string
	IsAdmin bool
}

// RecordPaymentInput carries an installment payment
type RecordPaymentInput struct {
	PlanID      string
	PaymentID   string
	Method      string
	Receipt     io.Reader
	ReceiptName string
}

type PaymentService struct {
	repo            repository.PlanRepository
	userRepo        repository.UserRepository
	projectRepo     repository.ProjectRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	storage         *storage.LocalStorage
	worker          *jobs.Worker
}

func NewPaymentService(
	repo repository.PlanRepository,
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	storage *storage.LocalStorage,
	worker *jobs.Worker,
) *PaymentService {
	return &PaymentService{
		repo:            repo,
		userRepo:        userRepo,
		projectRepo:     projectRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		storage:         storage,
		worker:          worker,
	}
}

func (s *PaymentService) FindPlan(ctx context.Context, id string) (*models.InstallmentPlan, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "plan", id)
	}
	return plan, nil
}

// Summary evaluates a plan at now
func (s *PaymentService) Summary(ctx context.Context, planID string, now time.Time) (*billing.PlanSummary, error) {
	plan, err := s.FindPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	summary := billing.Summarize(plan, now)
	return &summary, nil
}

// SummariesForUser evaluates every plan of the user at now
func (s *PaymentService) SummariesForUser(ctx context.Context, userID string, now time.Time) ([]billing.PlanSummary, error) {
	plans, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]billing.PlanSummary, 0, len(plans))
	for i := range plans {
		summaries = append(summaries, billing.Summarize(&plans[i], now))
	}
	return summaries, nil
}

// RecordPayment marks a pending installment as paid at now, stores the
// optional receipt and completes the plan once nothing remains.
func (s *PaymentService) RecordPayment(ctx context.Context, actor Actor, in RecordPaymentInput, now time.Time) (*models.MonthlyPayment, error) {
	plan, err := s.FindPlan(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && actor.UserID != plan.UserID {
		return nil, ErrForbidden
	}
	if !plan.IsActive() {
		return nil, fmt.Errorf("%w: plan %s is %s", ErrInvalidState, plan.ID, plan.Status)
	}

	var payment *models.MonthlyPayment
	for i := range plan.Payments {
		if plan.Payments[i].ID == in.PaymentID {
			payment = &plan.Payments[i]
			break
		}
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s: %w", in.PaymentID, ErrNotFound)
	}

	if err := statemachine.NewPaymentFSM(payment).Pay(ctx, now, in.Method); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if in.Receipt != nil {
		relPath, err := s.storage.Save(in.Receipt, in.ReceiptName, receiptDir, now)
		if err != nil {
			return nil, err
		}
		payment.ReceiptPath = &relPath
	}

	if err := s.repo.UpdatePayment(ctx, payment); err != nil {
		return nil, err
	}

	completed := false
	if billing.Remaining(plan) == 0 && billing.PendingInstallmentsCount(plan) == 0 {
		if err := statemachine.NewPlanFSM(plan).Complete(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
		if err := s.repo.Update(ctx, plan); err != nil {
			return nil, err
		}
		completed = true
	}

	logger.Info("payment recorded", "plan_id", plan.ID, "payment_id", payment.ID, "completed", completed)

	recorded := *payment
	percentage := billing.PaidPercentage(plan)
	planID := plan.ID
	s.worker.EnqueueAsync("payment_recorded", func(ctx context.Context) error {
		return s.notifyRecorded(ctx, &recorded, planID, percentage, completed)
	})

	return payment, nil
}

func (s *PaymentService) notifyRecorded(ctx context.Context, payment *models.MonthlyPayment, planID string, percentage int, completed bool) error {
	if err := s.notificationSvc.NotifyUser(ctx, payment.UserID,
		"Pembayaran diterima",
		fmt.Sprintf("Cicilan %s sebesar %s telah dicatat", format.FormatPeriod(payment.Period), format.FormatCurrency(payment.Amount)),
		models.NotificationTypePaymentRecorded); err != nil {
		return err
	}
	if completed {
		if err := s.notificationSvc.NotifyUser(ctx, payment.UserID,
			"Cicilan lunas",
			fmt.Sprintf("Rencana cicilan %s telah lunas", planID),
			models.NotificationTypePlanCompleted); err != nil {
			return err
		}
	}

	user, err := s.userRepo.FindByID(ctx, payment.UserID)
	if err != nil {
		return err
	}
	if !user.HasEmail() {
		return nil
	}
	return s.emailSvc.SendPaymentRecorded(ctx, user, payment, percentage)
}

// AppendNextInstallment schedules the next expected installment one month
// after the latest due date, capped at what is still unscheduled.
func (s *PaymentService) AppendNextInstallment(ctx context.Context, actor Actor, planID string) (*models.MonthlyPayment, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	plan, err := s.FindPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive() {
		return nil, fmt.Errorf("%w: plan %s is %s", ErrInvalidState, plan.ID, plan.Status)
	}
	if len(plan.Payments) >= plan.TotalInstallments {
		return nil, fmt.Errorf("%w: plan %s already has %d installments", ErrInvalidState, plan.ID, plan.TotalInstallments)
	}

	amount := min(plan.InstallmentAmount, billing.Remaining(plan)-billing.OpenAmount(plan))
	if amount <= 0 {
		return nil, fmt.Errorf("%w: plan %s has nothing left to schedule", ErrInvalidState, plan.ID)
	}

	due := billing.ProjectedDueDate(plan)
	payment := &models.MonthlyPayment{
		ID:      uuid.NewString(),
		PlanID:  plan.ID,
		UserID:  plan.UserID,
		UnitID:  plan.UnitID,
		Period:  format.PeriodOf(due),
		Amount:  amount,
		DueDate: due,
		Status:  models.PaymentStatusPending,
	}
	if err := s.repo.AppendPayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// CancelPlan stops an active plan
func (s *PaymentService) CancelPlan(ctx context.Context, actor Actor, planID string) (*models.InstallmentPlan, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	plan, err := s.FindPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := statemachine.NewPlanFSM(plan).Cancel(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, err
	}

	userID := plan.UserID
	s.worker.EnqueueAsync("plan_cancelled", func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, userID,
			"Cicilan dibatalkan",
			fmt.Sprintf("Rencana cicilan %s telah dibatalkan", planID),
			models.NotificationTypePlanCancelled)
	})
	return plan, nil
}

// OpenReceipt returns the stored receipt of a payment
func (s *PaymentService) OpenReceipt(ctx context.Context, actor Actor, planID, paymentID string) (*os.File, string, error) {
	plan, err := s.FindPlan(ctx, planID)
	if err != nil {
		return nil, "", err
	}
	if !actor.IsAdmin && actor.UserID != plan.UserID {
		return nil, "", ErrForbidden
	}
	payment, err := s.repo.FindPayment(ctx, planID, paymentID)
	if err != nil {
		return nil, "", notFound(err, "payment", paymentID)
	}
	if payment.ReceiptPath == nil {
		return nil, "", fmt.Errorf("receipt for payment %s: %w", paymentID, ErrNotFound)
	}
	f, err := s.storage.Open(*payment.ReceiptPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("receipt for payment %s: %w", paymentID, ErrNotFound)
		}
		return nil, "", err
	}
	return f, path.Base(*payment.ReceiptPath), nil
}

// CheckOverduePayments notifies users once per overdue installment per
// month of now, then emails each user that has an address.
// It returns the number of notifications created.
func (s *PaymentService) CheckOverduePayments(ctx context.Context, now time.Time) (int, error) {
	plans, err := s.repo.FindActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("find active plans: %w", err)
	}

	period := format.PeriodOf(now)
	propertyNames := make(map[string]string)
	lines := make(map[string][]OverdueLine)
	totals := make(map[string]int64)
	var userIDs []string
	created := 0

	for i := range plans {
		plan := &plans[i]
		for _, payment := range billing.OverduePayments(plan, now) {
			ok, err := s.notificationSvc.NotifyPayment(ctx, payment, period,
				"Cicilan lewat jatuh tempo",
				fmt.Sprintf("Cicilan %s sebesar %s jatuh tempo %s",
					format.FormatPeriod(payment.Period), format.FormatCurrency(payment.Amount), format.FormatDate(payment.DueDate)),
				models.NotificationTypePaymentOverdue)
			if err != nil {
				logger.Warn("failed to create overdue notification", "payment_id", payment.ID, logger.Err(err))
				continue
			}
			if !ok {
				continue
			}
			created++

			if _, seen := lines[payment.UserID]; !seen {
				userIDs = append(userIDs, payment.UserID)
			}
			lines[payment.UserID] = append(lines[payment.UserID], OverdueLine{
				Property: s.propertyName(ctx, plan.ProjectID, propertyNames),
				Period:   format.FormatPeriod(payment.Period),
				Amount:   format.FormatCurrency(payment.Amount),
				DueDate:  format.FormatDate(payment.DueDate),
			})
			totals[payment.UserID] += payment.Amount
		}
	}

	if len(userIDs) > 0 {
		users, err := s.userRepo.FindByIDs(ctx, userIDs)
		if err != nil {
			return created, fmt.Errorf("find users: %w", err)
		}
		for i := range users {
			user := &users[i]
			if !user.HasEmail() {
				continue
			}
			if err := s.emailSvc.SendOverdueReminder(ctx, user, lines[user.ID], totals[user.ID]); err != nil {
				logger.Warn("failed to send overdue reminder", "user_id", user.ID, logger.Err(err))
			}
		}
	}

	logger.Info("overdue check finished", "period", period, "notifications", created, "users", len(userIDs))
	return created, nil
}

func (s *PaymentService) propertyName(ctx context.Context, projectID string, cache map[string]string) string {
	if name, ok := cache[projectID]; ok {
		return name
	}
	name := projectID
	if project, err := s.projectRepo.FindByID(ctx, projectID); err == nil && project.PropertyName != "" {
		name = project.PropertyName
	}
	cache[projectID] = name
	return name
}
