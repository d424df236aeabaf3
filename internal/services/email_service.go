package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"
	"github.com/sjperalta/cobuy-api/internal/config"
	"github.com/sjperalta/cobuy-api/internal/format"
	"github.com/sjperalta/cobuy-api/internal/models"
	"github.com/sjperalta/cobuy-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

// mailer is the part of the Resend client the service uses
type mailer interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailService struct {
	config *config.Config
	mailer mailer
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config: cfg,
		mailer: client.Emails,
	}
}

// OverdueLine is one row of the overdue reminder email
type OverdueLine struct {
	Property string
	Period   string
	Amount   string
	DueDate  string
}

// checkEmailPreconditions reports whether an email should be sent at all.
// Disabled notifications are not an error; a missing key or address is.
func (s *EmailService) checkEmailPreconditions(user *models.User, operation string) (bool, error) {
	if !s.config.EnableEmailNotifications {
		logger.Debug("email notifications disabled", "operation", operation)
		return false, nil
	}
	if s.config.ResendAPIKey == "" || s.config.FromEmail == "" {
		return false, fmt.Errorf("cannot send %s: RESEND_API_KEY is not set", operation)
	}
	if !user.HasEmail() {
		return false, errors.New("email address is empty")
	}
	return true, nil
}

// SendOverdueReminder emails the user the list of overdue installments
func (s *EmailService) SendOverdueReminder(ctx context.Context, user *models.User, lines []OverdueLine, total int64) error {
	ok, err := s.checkEmailPreconditions(user, "overdue reminder")
	if !ok {
		return err
	}

	data := struct {
		Name     string
		Payments []OverdueLine
		Total    string
	}{
		Name:     user.Name,
		Payments: lines,
		Total:    format.FormatCurrency(total),
	}

	subject := fmt.Sprintf("Pengingat: %d cicilan lewat jatuh tempo", len(lines))
	return s.send(user, subject, "overdue_reminder.html", data)
}

// SendPaymentRecorded confirms a recorded installment
func (s *EmailService) SendPaymentRecorded(ctx context.Context, user *models.User, payment *models.MonthlyPayment, percentage int) error {
	ok, err := s.checkEmailPreconditions(user, "payment recorded")
	if !ok {
		return err
	}

	paidOn := ""
	if payment.PaymentDate != nil {
		paidOn = format.FormatDate(*payment.PaymentDate)
	}
	data := struct {
		Name       string
		Period     string
		Amount     string
		PaidOn     string
		Percentage int
	}{
		Name:       user.Name,
		Period:     format.FormatPeriod(payment.Period),
		Amount:     format.FormatCurrency(payment.Amount),
		PaidOn:     paidOn,
		Percentage: percentage,
	}

	return s.send(user, "Pembayaran cicilan diterima", "payment_recorded.html", data)
}

func (s *EmailService) send(user *models.User, subject, templateName string, data any) error {
	body, err := s.renderTemplate(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{*user.Email},
		Subject: subject,
		Html:    body,
	}
	if _, err := s.mailer.Send(params); err != nil {
		logger.Error("failed to send email", "to", *user.Email, logger.Err(err))
		return err
	}

	logger.Info("email sent", "to", *user.Email, "subject", subject)
	return nil
}

func (s *EmailService) renderTemplate(name string, data any) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
