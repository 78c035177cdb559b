package services

import (
	"context"
	"fmt"
	"time"
	"tutoring-api/internal/config"
	"tutoring-api/pkg/logging"

	brevo "github.com/getbrevo/brevo-go/lib"
)

// AlertService emails the operator when a billing write fails after the
// approval claim already landed. Those gaps need manual reconciliation and
// must not rely on someone tailing logs. Disabled when no Brevo key is set.
type AlertService struct {
	client *brevo.APIClient
}

// NewAlertService creates an operator alert service from configuration
func NewAlertService() *AlertService {
	if config.AppConfig == nil || config.AppConfig.BrevoAPIKey == "" {
		return &AlertService{}
	}

	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", config.AppConfig.BrevoAPIKey)
	return &AlertService{client: brevo.NewAPIClient(cfg)}
}

// ReconciliationAlert notifies the operator of an unrecorded billing write
func (s *AlertService) ReconciliationAlert(gatewayTransactionID int64, accountID string, cause error) {
	if s.client == nil || config.AppConfig.BrevoAlertEmail == "" {
		return
	}

	subject := fmt.Sprintf("[%s] Billing reconciliation needed", config.AppConfig.ServiceName)
	body := fmt.Sprintf(
		"Transaction %d (account %s) extended premium but a follow-up write failed at %s.\n\nCause: %v\n\nThe ledger or commission state needs manual reconciliation.",
		gatewayTransactionID, accountID, time.Now().Format(time.RFC3339), cause)

	email := brevo.SendSmtpEmail{
		Sender: &brevo.SendSmtpEmailSender{
			Name:  config.AppConfig.ServiceName,
			Email: config.AppConfig.BrevoFromEmail,
		},
		To: []brevo.SendSmtpEmailTo{
			{Email: config.AppConfig.BrevoAlertEmail},
		},
		Subject:     subject,
		TextContent: body,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, _, err := s.client.TransactionalEmailsApi.SendTransacEmail(ctx, email); err != nil {
		logging.Errorf("Failed to send reconciliation alert: %v", err)
	}
}
