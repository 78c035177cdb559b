package api

import (
	"errors"
	"net/http"
	"tutoring-api/internal/middleware"
	"tutoring-api/internal/services"
	"tutoring-api/pkg/logging"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ManualGrantRequest represents an administrative premium grant
type ManualGrantRequest struct {
	AccountID string `json:"account_id" binding:"required"`
	AdminKey  string `json:"admin_key"`
	Plan      string `json:"plan"`
	Days      int    `json:"days"`
	Amount    int64  `json:"amount"`
	Note      string `json:"note"`
}

// ManualGrant grants premium without a gateway round-trip
// POST /api/payment/manual
//
// The admin key is accepted via header, body, or query. The grant goes
// through the same extension primitive as the webhook path, so the two can
// never compute diverging expiries.
func ManualGrant(c *gin.Context) {
	var req ManualGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request format: " + err.Error(),
		})
		return
	}

	if !middleware.AdminKeyValid(middleware.AdminKeyFromRequest(c, req.AdminKey)) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid admin key",
		})
		return
	}

	if req.Days < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "days must be > 0",
		})
		return
	}

	result, err := services.GrantPremium(services.GrantRequest{
		AccountID: req.AccountID,
		PlanID:    req.Plan,
		Days:      req.Days,
		Amount:    req.Amount,
		Note:      req.Note,
		Source:    "manual-admin",
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Account not found",
			})
			return
		}
		logging.Errorf("Manual grant failed for account %s: %v", req.AccountID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
