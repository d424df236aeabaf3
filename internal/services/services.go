package services

import (
	"github.com/sjperalta/cobuy-api/internal/advisor"
	"github.com/sjperalta/cobuy-api/internal/config"
	"github.com/sjperalta/cobuy-api/internal/jobs"
	"github.com/sjperalta/cobuy-api/internal/pricing"
	"github.com/sjperalta/cobuy-api/internal/repository"
	"github.com/sjperalta/cobuy-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	Property     *PropertyService
	User         *UserService
	Project      *ProjectService
	Payment      *PaymentService
	Notification *NotificationService
	Email        *EmailService
	Export       *ExportService
	Advisor      *AdvisorService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, storage *storage.LocalStorage, cfg *config.Config, adv advisor.Advisor) *Services {
	notificationSvc := NewNotificationService(repos.Notification)
	emailSvc := NewEmailService(cfg)
	paymentSvc := NewPaymentService(repos.Plan, repos.User, repos.Project, notificationSvc, emailSvc, storage, worker)
	policy := pricing.NewPolicy(cfg.PricingBuildingStep, cfg.PricingPlotStep)

	return &Services{
		Auth:         NewAuthService(repos.User, cfg),
		Property:     NewPropertyService(repos.Property, policy),
		User:         NewUserService(repos.User),
		Project:      NewProjectService(repos.Project),
		Payment:      paymentSvc,
		Notification: notificationSvc,
		Email:        emailSvc,
		Export:       NewExportService(paymentSvc),
		Advisor:      NewAdvisorService(adv, repos.User, repos.Property),
		Job:          NewJobService(worker, paymentSvc),
	}
}
