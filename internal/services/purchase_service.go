package services

import (
	"fmt"
	"tutoring-api/internal/config"
	"tutoring-api/internal/database"
	"tutoring-api/internal/models"
	"tutoring-api/pkg/logging"

	"github.com/google/uuid"
)

// PurchaseService creates pending transactions against the payment gateway
type PurchaseService struct {
	gateway *FedapayService
}

// NewPurchaseService creates a purchase service backed by the configured gateway
func NewPurchaseService() *PurchaseService {
	return &PurchaseService{gateway: NewFedapayService()}
}

// NewPurchaseServiceWithGateway injects an explicit gateway client (tests)
func NewPurchaseServiceWithGateway(gateway *FedapayService) *PurchaseService {
	return &PurchaseService{gateway: gateway}
}

// PurchaseRequest is a client-initiated purchase intent
type PurchaseRequest struct {
	AccountID      string
	FullName       string
	Phone          string
	Grade          string
	PlanID         string
	ReferrerPhone  string
	PreferredTutor string
}

// PurchaseResult carries the checkout redirect back to the client
type PurchaseResult struct {
	CheckoutURL          string `json:"checkout_url"`
	GatewayTransactionID int64  `json:"gateway_transaction_id"`
	PlanID               string `json:"plan_id"`
	Amount               int64  `json:"amount"`
}

// InitiatePurchase validates the intent, upserts the payer profile, opens a
// gateway transaction and persists the pending ledger row. On gateway failure
// nothing is written to the ledger: the profile upsert is idempotent and safe
// to retry, so a failed attempt leaves no ambiguous state behind.
func (s *PurchaseService) InitiatePurchase(req PurchaseRequest) (*PurchaseResult, error) {
	plan, ok := models.Plans[req.PlanID]
	if !ok {
		return nil, fmt.Errorf("unknown plan %q", req.PlanID)
	}
	if err := ValidatePhone(req.Phone); err != nil {
		return nil, err
	}
	if req.ReferrerPhone != "" {
		if err := ValidatePhone(req.ReferrerPhone); err != nil {
			return nil, fmt.Errorf("referrer: %w", err)
		}
		if req.ReferrerPhone == req.Phone {
			return nil, fmt.Errorf("referrer phone must differ from the payer's own phone")
		}
	}

	account, err := database.GetOrCreateAccount(req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	account.FullName = req.FullName
	account.Phone = req.Phone
	if req.Grade != "" {
		account.Grade = req.Grade
	}
	if req.PreferredTutor != "" {
		account.PreferredTutor = req.PreferredTutor
	}
	if err := database.UpdateAccount(account); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	reference := "ref_" + uuid.NewString()
	session, err := s.gateway.CreateTransaction(CreateTransactionRequest{
		Reference:   reference,
		Description: fmt.Sprintf("%s - %s", config.AppConfig.ServiceName, plan.Label),
		Amount:      plan.Amount,
		FullName:    req.FullName,
		Phone:       req.Phone,
		CallbackURL: config.AppConfig.FedapayCallbackURL,
	})
	if err != nil {
		return nil, err
	}

	if err := database.CreateTransaction(&models.PaymentTransaction{
		AccountID:            req.AccountID,
		GatewayTransactionID: session.TransactionID,
		GatewayReference:     session.Reference,
		Status:               models.TransactionStatusPending,
		PlanID:               req.PlanID,
		Amount:               plan.Amount,
		FullName:             req.FullName,
		Phone:                req.Phone,
		Grade:                req.Grade,
		PreferredTutor:       req.PreferredTutor,
		ReferrerPhone:        req.ReferrerPhone,
		RawPayload:           session.RawResponse,
	}); err != nil {
		return nil, fmt.Errorf("failed to record pending transaction: %w", err)
	}

	logging.Infof("Purchase initiated - account: %s, plan: %s, gateway_transaction: %d",
		req.AccountID, req.PlanID, session.TransactionID)

	return &PurchaseResult{
		CheckoutURL:          session.CheckoutURL,
		GatewayTransactionID: session.TransactionID,
		PlanID:               req.PlanID,
		Amount:               plan.Amount,
	}, nil
}
