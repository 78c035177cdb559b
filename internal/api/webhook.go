package api

import (
	"net/http"
	"tutoring-api/internal/config"
	"tutoring-api/internal/services"
	"tutoring-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

var reconcileService *services.ReconcileService

func getReconcileService() *services.ReconcileService {
	if reconcileService == nil {
		reconcileService = services.NewReconcileService()
	}
	return reconcileService
}

// PaymentWebhook consumes signed gateway confirmation events
// POST /api/payment/webhook
//
// Responds 2xx even for ignored or unmatched events so the gateway stops
// retrying; only a missing or invalid signature gets a 4xx.
func PaymentWebhook(c *gin.Context) {
	signature := c.GetHeader("X-Fedapay-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing webhook signature",
		})
		return
	}

	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Failed to read request body",
		})
		return
	}

	if err := services.VerifyWebhookSignature(body, signature, config.AppConfig.FedapayWebhookSecret); err != nil {
		logging.Errorf("Webhook signature verification failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Signature verification failed",
		})
		return
	}

	// Exact-duplicate deliveries stop here; the reconciler's approval check
	// stays the real idempotency guard for reworded redeliveries.
	if services.SeenWebhookBody(c.Request.Context(), body) {
		c.JSON(http.StatusOK, gin.H{"success": true, "idempotent": true})
		return
	}

	event, err := services.ParseWebhookEvent(body)
	if err != nil {
		// Signed but unparseable: acknowledge so the gateway does not retry,
		// keep the payload in the logs for manual review.
		logging.Errorf("Unparseable webhook body: %v, body: %s", err, string(body))
		c.JSON(http.StatusOK, gin.H{"success": true, "ignored": true, "reason": "unparseable"})
		return
	}

	result, err := getReconcileService().ProcessEvent(event, body)
	if err != nil {
		logging.Errorf("Webhook reconciliation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Reconciliation failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
