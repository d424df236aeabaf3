package services

import (
	"context"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/sjperalta/cobuy-api/internal/config"
	"github.com/sjperalta/cobuy-api/internal/models"
	"github.com/sjperalta/cobuy-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []*resend.SendEmailRequest
}

func (m *recordingMailer) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	m.sent = append(m.sent, params)
	return &resend.SendEmailResponse{Id: "test"}, nil
}

func TestEmailService_checkEmailPreconditions(t *testing.T) {
	logger.Setup("test")
	user := &models.User{ID: "user-budi", Name: "Budi", Email: strPtr("budi@example.com")}

	tests := []struct {
		name    string
		cfg     *config.Config
		user    *models.User
		ok      bool
		wantErr string
	}{
		{
			name: "notifications disabled",
			cfg:  &config.Config{EnableEmailNotifications: false},
			user: user,
		},
		{
			name: "configured",
			cfg:  &config.Config{EnableEmailNotifications: true, ResendAPIKey: "test_key", FromEmail: "from@example.com"},
			user: user,
			ok:   true,
		},
		{
			name:    "missing key",
			cfg:     &config.Config{EnableEmailNotifications: true, FromEmail: "from@example.com"},
			user:    user,
			wantErr: "RESEND_API_KEY is not set",
		},
		{
			name:    "user without email",
			cfg:     &config.Config{EnableEmailNotifications: true, ResendAPIKey: "test_key", FromEmail: "from@example.com"},
			user:    &models.User{ID: "user-citra", Name: "Citra"},
			wantErr: "email address is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := NewEmailService(tt.cfg).checkEmailPreconditions(tt.user, "test operation")
			assert.Equal(t, tt.ok, ok)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEmailService_SendOverdueReminder(t *testing.T) {
	logger.Setup("test")
	svc := NewEmailService(&config.Config{EnableEmailNotifications: true, ResendAPIKey: "test_key", FromEmail: "noreply@cobuy.id"})
	mailer := &recordingMailer{}
	svc.mailer = mailer

	user := &models.User{ID: "user-budi", Name: "Budi", Email: strPtr("budi@example.com")}
	lines := []OverdueLine{{Property: "Rumah Kemang", Period: "Maret 2024", Amount: "Rp 250.000", DueDate: "15 Maret 2024"}}

	require.NoError(t, svc.SendOverdueReminder(context.Background(), user, lines, 250000))
	require.Len(t, mailer.sent, 1)
	sent := mailer.sent[0]
	assert.Equal(t, []string{"budi@example.com"}, sent.To)
	assert.Equal(t, "Pengingat: 1 cicilan lewat jatuh tempo", sent.Subject)
	assert.Contains(t, sent.Html, "Rumah Kemang")
	assert.Contains(t, sent.Html, "Rp 250.000")
	assert.Contains(t, sent.Html, "Halo Budi")
}
