package services

import (
	"context"
	"strconv"
	"time"

	"github.com/sjperalta/cobuy-api/internal/models"
	"github.com/sjperalta/cobuy-api/internal/repository"
)

type NotificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) FindByUser(ctx context.Context, userID string, query *repository.ListQuery) ([]models.Notification, int64, error) {
	return s.repo.FindByUser(ctx, userID, query)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkAsRead marks one of the user's notifications as read
func (s *NotificationService) MarkAsRead(ctx context.Context, userID string, id uint, at time.Time) (*models.Notification, error) {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "notification", strconv.FormatUint(uint64(id), 10))
	}
	if notification.UserID != userID {
		return nil, ErrForbidden
	}
	if !notification.IsRead() {
		notification.MarkAsRead(at)
		if err := s.repo.Update(ctx, notification); err != nil {
			return nil, err
		}
	}
	return notification, nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string, at time.Time) error {
	return s.repo.MarkAllAsRead(ctx, userID, at)
}

// NotifyUser stores an in-app notification
func (s *NotificationService) NotifyUser(ctx context.Context, userID, title, message, notifType string) error {
	notification := &models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		NotificationType: &notifType,
	}
	return s.repo.Create(ctx, notification)
}

// NotifyPayment stores a notification tied to a payment and period, once.
// It reports whether a new notification was created.
func (s *NotificationService) NotifyPayment(ctx context.Context, payment *models.MonthlyPayment, period, title, message, notifType string) (bool, error) {
	exists, err := s.repo.ExistsForPayment(ctx, payment.ID, notifType, period)
	if err != nil || exists {
		return false, err
	}
	paymentID := payment.ID
	notification := &models.Notification{
		UserID:           payment.UserID,
		Title:            title,
		Message:          message,
		NotificationType: &notifType,
		PaymentID:        &paymentID,
		Period:           period,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return false, err
	}
	return true, nil
}
