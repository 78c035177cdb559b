package api

import (
	"net/http"
	"tutoring-api/internal/database"
	"tutoring-api/internal/response"

	"github.com/gin-gonic/gin"
)

// GetHistory returns the newest tutoring turns for an account
// GET /api/history?account_id=xxx
func GetHistory(c *gin.Context) {
	accountID := c.Query("account_id")
	if accountID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "account_id is required")
		return
	}

	messages, err := database.ListChatMessages(accountID, 50)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load history")
		return
	}

	response.SuccessJSON(c, messages)
}
