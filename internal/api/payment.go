package api

import (
	"net/http"
	"strings"
	"tutoring-api/internal/services"
	"tutoring-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// purchaseService is swappable so tests can point at a stand-in gateway
var purchaseService *services.PurchaseService

// SetPurchaseService injects the purchase service (tests)
func SetPurchaseService(s *services.PurchaseService) {
	purchaseService = s
}

func getPurchaseService() *services.PurchaseService {
	if purchaseService == nil {
		purchaseService = services.NewPurchaseService()
	}
	return purchaseService
}

// InitiatePaymentRequest represents a purchase intent
type InitiatePaymentRequest struct {
	AccountID      string `json:"account_id" binding:"required"`
	FullName       string `json:"full_name" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	Grade          string `json:"grade"`
	Plan           string `json:"plan" binding:"required"`
	ReferrerPhone  string `json:"referrer_phone"`
	PreferredTutor string `json:"preferred_tutor"`
}

// InitiatePayment creates a pending transaction and returns the checkout URL
// POST /api/payment
func InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request format: " + err.Error(),
		})
		return
	}

	result, err := getPurchaseService().InitiatePurchase(services.PurchaseRequest{
		AccountID:      req.AccountID,
		FullName:       strings.TrimSpace(req.FullName),
		Phone:          req.Phone,
		Grade:          req.Grade,
		PlanID:         req.Plan,
		ReferrerPhone:  req.ReferrerPhone,
		PreferredTutor: req.PreferredTutor,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if isValidationError(err) {
			status = http.StatusBadRequest
		} else {
			logging.Errorf("Purchase initiation failed for account %s: %v", req.AccountID, err)
		}
		c.JSON(status, gin.H{
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

// isValidationError classifies user-correctable purchase failures
func isValidationError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid phone number") ||
		strings.Contains(msg, "unknown plan") ||
		strings.Contains(msg, "referrer phone must differ")
}
