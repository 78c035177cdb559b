package database

import (
	"tutoring-api/internal/models"
)

// CreateNotification inserts a user-facing notification
func CreateNotification(n *models.Notification) error {
	return DB.Create(n).Error
}

// ListNotifications returns the newest notifications for an account
func ListNotifications(accountID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := DB.Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// CreateCommission inserts a referral commission row. The unique index on
// transaction_id rejects a second commission for the same source transaction.
func CreateCommission(c *models.ReferralCommission) error {
	return DB.Create(c).Error
}

// ListCommissions returns the newest commissions earned by a referrer
func ListCommissions(referrerAccountID string, limit int) ([]models.ReferralCommission, error) {
	var commissions []models.ReferralCommission
	err := DB.Where("referrer_account_id = ?", referrerAccountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&commissions).Error
	return commissions, err
}
