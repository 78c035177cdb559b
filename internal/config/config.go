package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL string

	// FedaPay gateway configuration
	FedapayBaseURL       string
	FedapaySecretKey     string
	FedapayWebhookSecret string
	FedapayCallbackURL   string

	// Admin configuration
	AdminKey string

	// Quota and referral configuration
	FreeChatLimit     int
	ReferralRatePct   int
	PhoneSiblingLimit int

	// AI tutor configuration
	GeminiAPIKey string
	GeminiModel  string

	// Brevo operator alert configuration
	BrevoAPIKey     string
	BrevoFromEmail  string
	BrevoAlertEmail string
	ServiceName     string
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:                 getEnv("PORT", "8080"),
		Mode:                 getEnv("GIN_MODE", "debug"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisURL:             getEnv("REDIS_URL", ""),
		FedapayBaseURL:       getEnv("FEDAPAY_BASE_URL", "https://sandbox-api.fedapay.com/v1"),
		FedapaySecretKey:     getEnv("FEDAPAY_SECRET_KEY", ""),
		FedapayWebhookSecret: getEnv("FEDAPAY_WEBHOOK_SECRET", ""),
		FedapayCallbackURL:   getEnv("FEDAPAY_CALLBACK_URL", ""),
		AdminKey:             getEnv("MANUAL_PREMIUM_ADMIN_KEY", ""),
		FreeChatLimit:        getEnvInt("FREE_CHAT_LIMIT", 2),
		ReferralRatePct:      getEnvInt("REFERRAL_RATE_PCT", 10),
		PhoneSiblingLimit:    getEnvInt("PHONE_SIBLING_LIMIT", 20),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		BrevoAPIKey:          getEnv("BREVO_API_KEY", ""),
		BrevoFromEmail:       getEnv("BREVO_FROM_EMAIL", ""),
		BrevoAlertEmail:      getEnv("BREVO_ALERT_EMAIL", ""),
		ServiceName:          getEnv("SERVICE_NAME", "Tutoring Service"),
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
