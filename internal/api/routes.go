package api

import (
	"tutoring-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine) {
	// API route group
	api := r.Group("/api")
	{
		// Tutoring chat (quota and premium gated)
		api.POST("/chat", Chat)
		api.GET("/history", GetHistory)

		// Profile and rewards
		api.GET("/profile", GetProfile)
		api.PATCH("/profile", UpdateProfile)
		api.GET("/rewards", GetRewards)

		// Billing routes
		payment := api.Group("/payment")
		{
			payment.POST("", InitiatePayment)
			payment.POST("/webhook", PaymentWebhook)
			payment.GET("/status", PaymentStatus)
			// Admin key checked in the handler (header, body, or query)
			payment.POST("/manual", ManualGrant)
		}

		// Admin routes (shared admin secret)
		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware())
		{
			admin.GET("/users", ListUsers)
			admin.PATCH("/users", PatchUser)
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "tutoring-api",
		})
	})
}
