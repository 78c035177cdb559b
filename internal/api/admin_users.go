package api

import (
	"net/http"
	"strconv"
	"strings"
	"tutoring-api/internal/database"
	"tutoring-api/internal/services"
	"tutoring-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// ListUsers returns accounts for the admin panel
// GET /api/admin/users?q=&premiumOnly=1&limit=100
func ListUsers(c *gin.Context) {
	search := strings.TrimSpace(c.Query("q"))
	premiumOnly := c.Query("premiumOnly") == "1"

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 200 {
		limit = 200
	}

	accounts, err := database.ListAccounts(search, premiumOnly, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to list accounts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    accounts,
	})
}

// PatchUserRequest represents an admin premium grant or revoke
type PatchUserRequest struct {
	AccountID    string `json:"account_id" binding:"required"`
	GrantPremium *bool  `json:"grant_premium"`
	Days         int    `json:"days"`
	Note         string `json:"note"`
}

// PatchUser grants or revokes premium from the admin panel. Grants reuse the
// same extension primitive as every other entry point.
// PATCH /api/admin/users
func PatchUser(c *gin.Context) {
	var req PatchUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request format: " + err.Error(),
		})
		return
	}

	grant := req.GrantPremium == nil || *req.GrantPremium
	if !grant {
		if err := services.RevokePremium(req.AccountID, req.Note); err != nil {
			logging.Errorf("Premium revoke failed for account %s: %v", req.AccountID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"account_id": req.AccountID, "is_premium": false},
		})
		return
	}

	days := req.Days
	if days <= 0 {
		days = 30
	}

	result, err := services.GrantPremium(services.GrantRequest{
		AccountID: req.AccountID,
		Days:      days,
		Note:      req.Note,
		Source:    "admin-panel",
	})
	if err != nil {
		logging.Errorf("Admin grant failed for account %s: %v", req.AccountID, err)
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
