package api

import (
	"net/http"
	"time"
	"tutoring-api/internal/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PaymentStatusResponse is the latest purchase attempt for an account
type PaymentStatusResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Payment *PaymentStatusItem `json:"payment"`
}

// PaymentStatusItem is one ledger row as the client sees it
type PaymentStatusItem struct {
	Status       string     `json:"status"`
	PlanID       string     `json:"plan_id"`
	Amount       int64      `json:"amount"`
	ApprovedAt   *time.Time `json:"approved_at"`
	PremiumUntil *time.Time `json:"premium_until"`
	CreatedAt    time.Time  `json:"created_at"`
}

// PaymentStatus returns the latest transaction's status for an account.
// The client polls it after returning from checkout.
// GET /api/payment/status?account_id=xxx
func PaymentStatus(c *gin.Context) {
	accountID := c.Query("account_id")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, PaymentStatusResponse{
			Success: false,
			Message: "account_id is required",
		})
		return
	}

	tx, err := database.GetLatestTransaction(accountID)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusOK, PaymentStatusResponse{Success: true, Payment: nil})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, PaymentStatusResponse{
			Success: false,
			Message: "Failed to load payment status",
		})
		return
	}

	c.JSON(http.StatusOK, PaymentStatusResponse{
		Success: true,
		Payment: &PaymentStatusItem{
			Status:       tx.Status,
			PlanID:       tx.PlanID,
			Amount:       tx.Amount,
			ApprovedAt:   tx.ApprovedAt,
			PremiumUntil: tx.PremiumUntil,
			CreatedAt:    tx.CreatedAt,
		},
	})
}
