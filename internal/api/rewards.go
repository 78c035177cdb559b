package api

import (
	"net/http"
	"tutoring-api/internal/database"
	"tutoring-api/internal/models"
	"tutoring-api/internal/response"

	"github.com/gin-gonic/gin"
)

// RewardsData bundles notifications and referral earnings for an account
type RewardsData struct {
	Notifications []models.Notification       `json:"notifications"`
	Commissions   []models.ReferralCommission `json:"commissions"`
}

// GetRewards returns recent notifications and referral commissions
// GET /api/rewards?account_id=xxx
func GetRewards(c *gin.Context) {
	accountID := c.Query("account_id")
	if accountID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "account_id is required")
		return
	}

	notifications, err := database.ListNotifications(accountID, 30)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load notifications")
		return
	}

	commissions, err := database.ListCommissions(accountID, 50)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load commissions")
		return
	}

	response.SuccessJSON(c, RewardsData{
		Notifications: notifications,
		Commissions:   commissions,
	})
}
