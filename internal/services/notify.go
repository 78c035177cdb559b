package services

import (
	"encoding/json"
	"tutoring-api/internal/database"
	"tutoring-api/internal/models"
)

// notify appends a user-facing notification record
func notify(accountID, title, message string, metadata map[string]interface{}) error {
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	return database.CreateNotification(&models.Notification{
		AccountID: accountID,
		Title:     title,
		Message:   message,
		Metadata:  string(encoded),
	})
}
