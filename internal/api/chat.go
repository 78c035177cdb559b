package api

import (
	"fmt"
	"net/http"
	"time"
	"tutoring-api/internal/database"
	"tutoring-api/internal/models"
	"tutoring-api/internal/response"
	"tutoring-api/internal/services"
	"tutoring-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// systemPrompt frames every tutoring answer (APC pedagogy, French, short)
const systemPrompt = `Tu es un tuteur IA pour les élèves togolais (CM2, 3ème, 1ère).
Réponds STRICTEMENT selon la démarche APC en 3 sections obligatoires:
1) Analyse de la situation-problème
2) Mobilisation des ressources (rappels de cours, notions, formules)
3) Résolution pas à pas + vérification finale
Contraintes: français simple, maximum 120 mots, phrases courtes,
niveau adapté à la classe indiquée, exemples togolais quand pertinent.`

// answerer is swappable so tests can stub the AI call
var answerer services.Answerer

// SetAnswerer injects the AI backend (tests)
func SetAnswerer(a services.Answerer) {
	answerer = a
}

func getAnswerer() services.Answerer {
	if answerer == nil {
		answerer = services.NewGeminiService()
	}
	return answerer
}

// ChatRequest represents one tutoring turn
type ChatRequest struct {
	AccountID string `json:"account_id" binding:"required"`
	Phone     string `json:"phone"`
	Grade     string `json:"grade"`
	Domain    string `json:"domain"`
	Subject   string `json:"subject"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse carries the answer plus the caller's entitlement snapshot
type ChatResponse struct {
	Response      string     `json:"response,omitempty"`
	FreeLeft      int        `json:"free_left"`
	PremiumActive bool       `json:"premium_active"`
	PremiumUntil  *time.Time `json:"premium_until"`
}

// Chat answers a tutoring question, gated by premium and the pooled quota
// POST /api/chat
func Chat(c *gin.Context) {
	var req ChatRequest
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

	// Accounts are created on first chat contact
	account, err := database.GetOrCreateAccount(req.AccountID)
	if err != nil {
		logging.Errorf("Failed to load account %s: %v", req.AccountID, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load account")
		return
	}

	// Refresh profile fields the client sent along
	if (req.Phone != "" && req.Phone != account.Phone) ||
		(req.Grade != "" && req.Grade != account.Grade) {
		if req.Phone != "" {
			account.Phone = req.Phone
		}
		if req.Grade != "" {
			account.Grade = req.Grade
		}
		if err := database.UpdateAccount(account); err != nil {
			logging.Errorf("Profile refresh failed for account %s: %v", req.AccountID, err)
		}
	}

	premium, err := services.ResolvePremium(req.AccountID, account.Phone)
	if err != nil {
		logging.Errorf("Premium resolution failed for account %s: %v", req.AccountID, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to resolve entitlement")
		return
	}

	quota, err := services.CountFreeUsage(req.AccountID, account.Phone, premium.Active)
	if err != nil {
		logging.Errorf("Quota check failed for account %s: %v", req.AccountID, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to check quota")
		return
	}

	if quota.Blocked {
		response.PaymentRequiredJSON(c, ChatResponse{
			FreeLeft:      quota.FreeLeft,
			PremiumActive: false,
			PremiumUntil:  premium.PremiumUntil,
		})
		return
	}

	prompt := fmt.Sprintf("%s\n\nClasse: %s\nDomaine: %s\nMatière: %s\nQuestion: %s",
		systemPrompt, orDefault(req.Grade, "Non précisée"), orDefault(req.Domain, "Non précisé"),
		orDefault(req.Subject, "Non précisée"), req.Message)

	answer, err := getAnswerer().Answer(prompt)
	if err != nil {
		logging.Errorf("AI answer failed for account %s: %v", req.AccountID, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to generate answer")
		return
	}

	if err := database.CreateChatMessage(&models.ChatMessage{
		AccountID: req.AccountID,
		Message:   req.Message,
		Response:  answer,
		Grade:     req.Grade,
		Domain:    req.Domain,
		Subject:   req.Subject,
	}); err != nil {
		logging.Errorf("History append failed for account %s: %v", req.AccountID, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to record history")
		return
	}

	freeLeft := quota.FreeLeft
	if !premium.Active && freeLeft > 0 {
		freeLeft--
	}

	response.SuccessJSON(c, ChatResponse{
		Response:      answer,
		FreeLeft:      freeLeft,
		PremiumActive: premium.Active,
		PremiumUntil:  premium.PremiumUntil,
	})
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
