package database

import (
	"tutoring-api/internal/models"
)

// CreateChatMessage appends one tutoring turn to the history
func CreateChatMessage(m *models.ChatMessage) error {
	return DB.Create(m).Error
}

// CountChatMessages counts past tutoring turns across a set of accounts.
// The quota counter feeds it the full phone-sharing identity set so a fresh
// account on the same phone cannot reset the free quota.
func CountChatMessages(accountIDs []string) (int64, error) {
	var count int64
	err := DB.Model(&models.ChatMessage{}).
		Where("account_id IN ?", accountIDs).
		Count(&count).Error
	return count, err
}

// ListChatMessages returns the newest tutoring turns for an account
func ListChatMessages(accountID string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := DB.Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
