package services

import (
	"fmt"
	"time"
	"tutoring-api/internal/database"
	"tutoring-api/internal/models"
	"tutoring-api/pkg/logging"

	"gorm.io/gorm"
)

// ReconcileResult tells the webhook endpoint how an event was consumed
type ReconcileResult struct {
	Ignored    bool   `json:"ignored,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Idempotent bool   `json:"idempotent,omitempty"`
	Approved   bool   `json:"approved,omitempty"`
	Status     string `json:"status,omitempty"`
}

// ReconcileService consumes verified gateway events and drives the
// per-transaction state machine: pending -> approved (terminal, idempotent)
// or pending -> any other status (re-enterable, simply overwritten).
type ReconcileService struct {
	alerts *AlertService
}

// NewReconcileService creates a new webhook reconciler
func NewReconcileService() *ReconcileService {
	return &ReconcileService{alerts: NewAlertService()}
}

// ProcessEvent applies one verified gateway event to the ledger.
//
// Unmatched transaction ids are acknowledged and ignored: the gateway retries
// against events the store has no record of (test events, foreign projects)
// and must not be told to keep retrying. Redelivery of an approval for an
// already-approved transaction is an idempotent no-op.
func (s *ReconcileService) ProcessEvent(event *WebhookEvent, rawBody []byte) (*ReconcileResult, error) {
	gatewayID := event.TransactionID()
	if gatewayID == 0 {
		logging.Infof("Webhook event %q carries no transaction id, ignoring", event.Name)
		return &ReconcileResult{Ignored: true, Reason: "no-transaction-id"}, nil
	}

	tx, err := database.GetTransactionByGatewayID(gatewayID)
	if err == gorm.ErrRecordNotFound {
		logging.Infof("Webhook for unknown gateway transaction %d, ignoring", gatewayID)
		return &ReconcileResult{Ignored: true, Reason: "transaction-not-found"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up transaction %d: %w", gatewayID, err)
	}

	if !event.Approved() {
		status := event.Status()
		if err := database.UpdateTransactionStatus(tx.ID, status, string(rawBody)); err != nil {
			return nil, fmt.Errorf("failed to update transaction status: %w", err)
		}
		logging.Infof("Transaction %d moved to status %q", gatewayID, status)
		return &ReconcileResult{Status: status}, nil
	}

	if tx.Status == models.TransactionStatusApproved {
		logging.Infof("Transaction %d already approved, idempotent no-op", gatewayID)
		return &ReconcileResult{Idempotent: true}, nil
	}

	plan, ok := models.Plans[tx.PlanID]
	if !ok {
		return nil, fmt.Errorf("transaction %d references unknown plan %q", gatewayID, tx.PlanID)
	}

	// Claim the approval transition first. The conditional update only
	// matches while the row is not approved yet, so of two racing
	// deliveries exactly one gets past this point and extends premium.
	// Nothing has been written before the claim, so a failed claim is safe
	// to surface and let the gateway retry.
	now := time.Now()
	won, err := database.ApproveTransaction(tx.ID, now, string(rawBody))
	if err != nil {
		return nil, fmt.Errorf("failed to claim approval of transaction %d: %w", gatewayID, err)
	}
	if !won {
		logging.Infof("Transaction %d approved concurrently by another delivery", gatewayID)
		return &ReconcileResult{Idempotent: true}, nil
	}

	premiumUntil, err := ExtendPremium(tx.AccountID, plan.Days)
	if err != nil {
		// The claim landed but the entitlement did not. Never drop this
		// silently: it needs operator reconciliation, not user messaging.
		s.reportReconciliation(tx, fmt.Errorf("premium extension failed after approval claim: %w", err))
		return &ReconcileResult{Approved: true}, nil
	}

	if err := database.SetTransactionPremiumUntil(tx.ID, premiumUntil); err != nil {
		s.reportReconciliation(tx, fmt.Errorf("ledger expiry write failed: %w", err))
	}

	if err := notify(tx.AccountID, "Paiement confirmé",
		fmt.Sprintf("Ton paiement %dF est confirmé. Ton accès premium est actif.", tx.Amount),
		map[string]interface{}{
			"plan_id":       tx.PlanID,
			"plan_amount":   tx.Amount,
			"premium_until": premiumUntil.Format(time.RFC3339),
		}); err != nil {
		s.reportReconciliation(tx, fmt.Errorf("payer notification write failed: %w", err))
	}

	if tx.ReferrerPhone != "" && tx.ReferrerPhone != tx.Phone {
		if err := PayCommission(tx); err != nil {
			s.reportReconciliation(tx, fmt.Errorf("referral payout failed: %w", err))
		}
	}

	logging.Infof("Transaction %d approved - account: %s, premium_until: %s",
		gatewayID, tx.AccountID, premiumUntil.Format(time.RFC3339))
	return &ReconcileResult{Approved: true}, nil
}

// reportReconciliation records a failure that happened after the approval
// claim already landed
func (s *ReconcileService) reportReconciliation(tx *models.PaymentTransaction, err error) {
	logging.Reconcilef("transaction %d (account %s): %v", tx.GatewayTransactionID, tx.AccountID, err)
	s.alerts.ReconciliationAlert(tx.GatewayTransactionID, tx.AccountID, err)
}
