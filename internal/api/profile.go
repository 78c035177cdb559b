package api

import (
	"net/http"
	"tutoring-api/internal/database"
	"tutoring-api/internal/response"
	"tutoring-api/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var allowedThemeColors = map[string]bool{
	"green": true, "blue": true, "orange": true, "red": true, "black": true,
}

var allowedTutors = map[string]bool{
	"female": true, "male": true,
}

// GetProfile returns an account's profile
// GET /api/profile?account_id=xxx
func GetProfile(c *gin.Context) {
	accountID := c.Query("account_id")
	if accountID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "account_id is required")
		return
	}

	account, err := database.GetAccount(accountID)
	if err == gorm.ErrRecordNotFound {
		response.ErrorJSON(c, http.StatusNotFound, "Account not found")
		return
	}
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	response.SuccessJSON(c, account)
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	AccountID      string `json:"account_id" binding:"required"`
	FullName       string `json:"full_name"`
	Phone          string `json:"phone"`
	Grade          string `json:"grade"`
	ThemeColor     string `json:"theme_color"`
	PreferredTutor string `json:"preferred_tutor"`
}

// UpdateProfile updates profile fields, validating before any write
// PATCH /api/profile
func UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	if req.Phone != "" {
		if err := services.ValidatePhone(req.Phone); err != nil {
			response.ErrorJSON(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.ThemeColor != "" && !allowedThemeColors[req.ThemeColor] {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid theme color")
		return
	}
	if req.PreferredTutor != "" && !allowedTutors[req.PreferredTutor] {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid tutor preference")
		return
	}

	account, err := database.GetOrCreateAccount(req.AccountID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	if req.FullName != "" {
		account.FullName = req.FullName
	}
	if req.Phone != "" {
		account.Phone = req.Phone
	}
	if req.Grade != "" {
		account.Grade = req.Grade
	}
	if req.ThemeColor != "" {
		account.ThemeColor = req.ThemeColor
	}
	if req.PreferredTutor != "" {
		account.PreferredTutor = req.PreferredTutor
	}

	if err := database.UpdateAccount(account); err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	response.SuccessJSON(c, account)
}
