package services

import (
	"errors"
	"fmt"
	"math"
	"tutoring-api/internal/config"
	"tutoring-api/internal/database"
	"tutoring-api/internal/models"
	"tutoring-api/pkg/logging"

	"gorm.io/gorm"
)

// CommissionFor computes the referrer's cut of a plan amount
func CommissionFor(amount int64) int64 {
	rate := float64(config.AppConfig.ReferralRatePct) / 100.0
	return int64(math.Round(float64(amount) * rate))
}

// PayCommission credits a one-time commission to the account holding the
// transaction's referrer phone.
//
// Missing referrers and self-referrals are skipped silently: they are not
// errors, the purchase simply carries no payable referral. The commission row
// is keyed by the source transaction (unique index), and the balance counters
// are only incremented after that insert succeeds, so even a redelivered
// approval can never credit a referrer twice — the reconciler's idempotency
// check keeps redelivery from reaching this code in the first place.
func PayCommission(tx *models.PaymentTransaction) error {
	referrers, err := database.FindAccountsByPhone(tx.ReferrerPhone, config.AppConfig.PhoneSiblingLimit)
	if err != nil {
		return fmt.Errorf("failed to look up referrer by phone: %w", err)
	}

	var referrer *models.Account
	for i := range referrers {
		if referrers[i].AccountID != tx.AccountID {
			referrer = &referrers[i]
			break
		}
	}
	if referrer == nil {
		logging.Infof("No payable referrer for transaction %d (phone %s)", tx.GatewayTransactionID, tx.ReferrerPhone)
		return nil
	}

	commission := CommissionFor(tx.Amount)

	err = database.CreateCommission(&models.ReferralCommission{
		TransactionID:     tx.ID,
		ReferrerAccountID: referrer.AccountID,
		PayerAccountID:    tx.AccountID,
		PayerPhone:        tx.Phone,
		PlanID:            tx.PlanID,
		PlanAmount:        tx.Amount,
		CommissionAmount:  commission,
		PayoutPhone:       tx.ReferrerPhone,
		PayoutStatus:      models.PayoutStatusPaid,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logging.Infof("Commission already recorded for transaction %d", tx.GatewayTransactionID)
			return nil
		}
		return fmt.Errorf("failed to record commission: %w", err)
	}

	if err := database.CreditReferralEarnings(referrer.AccountID, commission); err != nil {
		return fmt.Errorf("failed to credit referrer balance: %w", err)
	}

	if err := notify(referrer.AccountID, "Nouveau gain de parrainage",
		fmt.Sprintf("Tu as reçu %dF suite à un paiement confirmé.", commission),
		map[string]interface{}{
			"transaction_id":    tx.GatewayTransactionID,
			"payer_phone":       tx.Phone,
			"plan_amount":       tx.Amount,
			"commission_amount": commission,
		}); err != nil {
		return fmt.Errorf("failed to write referrer notification: %w", err)
	}

	logging.Infof("Commission %dF credited to %s for transaction %d",
		commission, referrer.AccountID, tx.GatewayTransactionID)
	return nil
}
