package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"
	"tutoring-api/internal/database"
	"tutoring-api/internal/models"
	"tutoring-api/pkg/logging"

	"gorm.io/gorm"
)

// maxSyntheticIDAttempts bounds the collision retry loop on grant inserts
const maxSyntheticIDAttempts = 3

// newSyntheticTransactionID generates a negative ledger id for grants issued
// without a gateway round-trip. Real gateway ids are positive, so the two
// ranges cannot collide; collisions between two synthetic ids are handled by
// regenerating. Variable so tests can force collisions.
var newSyntheticTransactionID = func() int64 {
	return -(time.Now().UnixMilli()*1000 + rand.Int63n(1000))
}

// GrantRequest describes an administrative premium grant
type GrantRequest struct {
	AccountID string
	PlanID    string // defaults to monthly when days is unset
	Days      int    // explicit day count overrides the plan's days
	Amount    int64  // recorded amount, defaults to the plan's amount
	Note      string
	Source    string // e.g. manual-admin, admin-panel
}

// GrantResult is the outcome of a manual grant
type GrantResult struct {
	AccountID    string    `json:"account_id"`
	PlanID       string    `json:"plan_id"`
	Amount       int64     `json:"amount"`
	DaysAdded    int       `json:"days_added"`
	PremiumUntil time.Time `json:"premium_until"`
}

// GrantPremium is the administrative equivalent of a webhook approval: the
// same extension primitive, a ledger row born already approved under a
// synthetic negative id, and the same notification shape. It exists so
// premium can be granted when the gateway is unreachable or as goodwill.
func GrantPremium(req GrantRequest) (*GrantResult, error) {
	planID := req.PlanID
	if _, ok := models.Plans[planID]; !ok {
		planID = models.PlanMonthly
	}
	plan := models.Plans[planID]

	days := req.Days
	if days == 0 {
		days = plan.Days
	}
	if days <= 0 {
		return nil, fmt.Errorf("days must be > 0, got %d", days)
	}

	amount := req.Amount
	if amount == 0 {
		amount = plan.Amount
	}

	account, err := database.GetAccount(req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("account %s not found: %w", req.AccountID, err)
	}

	premiumUntil, err := ExtendPremium(req.AccountID, days)
	if err != nil {
		return nil, err
	}

	rawPayload, _ := json.Marshal(map[string]interface{}{
		"source":       req.Source,
		"note":         req.Note,
		"granted_days": days,
	})

	now := time.Now()
	var insertErr error
	for attempt := 0; attempt < maxSyntheticIDAttempts; attempt++ {
		insertErr = database.CreateTransaction(&models.PaymentTransaction{
			AccountID:            req.AccountID,
			GatewayTransactionID: newSyntheticTransactionID(),
			GatewayReference:     fmt.Sprintf("%s_%d", req.Source, now.UnixMilli()),
			Status:               models.TransactionStatusApproved,
			PlanID:               planID,
			Amount:               amount,
			FullName:             account.FullName,
			Phone:                account.Phone,
			Grade:                account.Grade,
			PreferredTutor:       account.PreferredTutor,
			PremiumUntil:         &premiumUntil,
			ApprovedAt:           &now,
			RawPayload:           string(rawPayload),
		})
		if insertErr == nil {
			break
		}
		if !errors.Is(insertErr, gorm.ErrDuplicatedKey) {
			// Only id collisions are worth a fresh synthetic id; any other
			// store failure will fail again and should surface now.
			break
		}
		logging.Errorf("Synthetic id collision on grant insert (attempt %d): %v", attempt+1, insertErr)
	}
	if insertErr != nil {
		// The extension already landed; surface the ledger gap distinctly.
		logging.Reconcilef("grant for account %s extended premium but wrote no ledger row: %v",
			req.AccountID, insertErr)
		return nil, fmt.Errorf("failed to record grant transaction: %w", insertErr)
	}

	if err := notify(req.AccountID, "Premium activé",
		fmt.Sprintf("Ton premium est actif jusqu'au %s.", premiumUntil.Format("02/01/2006")),
		map[string]interface{}{
			"source":       req.Source,
			"granted_days": days,
			"note":         req.Note,
		}); err != nil {
		logging.Reconcilef("grant notification for account %s failed: %v", req.AccountID, err)
	}

	return &GrantResult{
		AccountID:    req.AccountID,
		PlanID:       planID,
		Amount:       amount,
		DaysAdded:    days,
		PremiumUntil: premiumUntil,
	}, nil
}

// RevokePremium clears the entitlement of an account (admin path)
func RevokePremium(accountID, note string) error {
	if _, err := database.GetAccount(accountID); err != nil {
		return fmt.Errorf("account %s not found: %w", accountID, err)
	}
	if err := database.SetAccountPremium(accountID, false, nil); err != nil {
		return fmt.Errorf("failed to revoke premium: %w", err)
	}
	if err := notify(accountID, "Premium retiré",
		"Ton accès premium a été désactivé par l'administration.",
		map[string]interface{}{"source": "admin-panel", "note": note}); err != nil {
		logging.Errorf("Revoke notification for account %s failed: %v", accountID, err)
	}
	return nil
}
