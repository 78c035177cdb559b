package database

import (
	"time"
	"tutoring-api/internal/models"
)

// CreateTransaction inserts a ledger row for one purchase attempt
func CreateTransaction(tx *models.PaymentTransaction) error {
	return DB.Create(tx).Error
}

// GetTransactionByGatewayID looks up the ledger row for a gateway transaction id
func GetTransactionByGatewayID(gatewayTransactionID int64) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	err := DB.Where("gateway_transaction_id = ?", gatewayTransactionID).First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetLatestTransaction returns the most recent purchase attempt for an account,
// whatever its status (used by the client status poll)
func GetLatestTransaction(accountID string) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	err := DB.Where("account_id = ?", accountID).
		Order("created_at DESC").
		First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetLatestApprovedTransaction returns the newest approved, unexpired
// transaction for an account. The premium resolver uses it to self-heal the
// account flag after a missed webhook write.
func GetLatestApprovedTransaction(accountID string) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	err := DB.Where("account_id = ? AND status = ? AND premium_until > ?",
		accountID, models.TransactionStatusApproved, time.Now()).
		Order("premium_until DESC").
		First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// UpdateTransactionStatus overwrites the status and raw payload of a pending
// transaction. Non-approval statuses are re-enterable: a later approval event
// can still land on the same row.
func UpdateTransactionStatus(id uint, status, rawPayload string) error {
	return DB.Model(&models.PaymentTransaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"raw_payload": rawPayload,
		}).Error
}

// ApproveTransaction transitions a transaction to approved, conditionally:
// the update only matches while the row is not already approved, which makes
// the check-then-act of two racing webhook deliveries atomic. Returns true
// when this caller won the transition. The expiry is written separately once
// the premium extension has actually happened (SetTransactionPremiumUntil).
func ApproveTransaction(id uint, approvedAt time.Time, rawPayload string) (bool, error) {
	result := DB.Model(&models.PaymentTransaction{}).
		Where("id = ? AND status <> ?", id, models.TransactionStatusApproved).
		Updates(map[string]interface{}{
			"status":      models.TransactionStatusApproved,
			"approved_at": approvedAt,
			"raw_payload": rawPayload,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetTransactionPremiumUntil backfills the expiry computed by the premium
// extension onto an already-claimed ledger row
func SetTransactionPremiumUntil(id uint, premiumUntil time.Time) error {
	return DB.Model(&models.PaymentTransaction{}).
		Where("id = ?", id).
		Update("premium_until", premiumUntil).Error
}
