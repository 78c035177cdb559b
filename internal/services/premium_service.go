package services

import (
	"fmt"
	"time"
	"tutoring-api/internal/config"
	"tutoring-api/internal/database"
	"tutoring-api/pkg/logging"

	"gorm.io/gorm"
)

// ExtendPremium is the single authoritative "extend premium" operation.
// Every entry point that grants time (webhook approval, manual grant, admin
// patch) goes through it so the stacking rule stays uniform:
//
//	newExpiry = max(now, currentExpiry) + days
//
// Stacking never shortens an existing expiry: buying a second month before the
// first ran out appends to the current expiry, not to now.
func ExtendPremium(accountID string, days int) (time.Time, error) {
	if days <= 0 {
		return time.Time{}, fmt.Errorf("days must be > 0, got %d", days)
	}

	account, err := database.GetAccount(accountID)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}

	now := time.Now()
	base := now
	if account.PremiumUntil != nil && account.PremiumUntil.After(now) {
		base = *account.PremiumUntil
	}
	premiumUntil := base.AddDate(0, 0, days)

	if err := database.SetAccountPremium(accountID, true, &premiumUntil); err != nil {
		return time.Time{}, fmt.Errorf("failed to write premium state: %w", err)
	}
	return premiumUntil, nil
}

// PremiumStatus is the effective entitlement computed by ResolvePremium
type PremiumStatus struct {
	Active       bool
	PremiumUntil *time.Time
	Source       string // account, ledger, sibling, none
}

// ResolvePremium computes the effective entitlement for an account, consulting
// sources in priority order, first match wins:
//
//  1. the account's own stored flag and expiry (fast path, no extra reads);
//  2. the latest approved, unexpired transaction in the ledger — tolerates a
//     webhook whose account write never landed;
//  3. the latest unexpired premium on any other account sharing the phone —
//     supports a user who paid on one account and continues on another.
//
// When a better source is found the account's stored flag is healed to match.
// Self-heal writes are best-effort: their failure never fails the read.
func ResolvePremium(accountID, phone string) (PremiumStatus, error) {
	account, err := database.GetAccount(accountID)
	if err != nil {
		return PremiumStatus{}, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}

	now := time.Now()
	if account.PremiumActiveAt(now) {
		return PremiumStatus{Active: true, PremiumUntil: account.PremiumUntil, Source: "account"}, nil
	}

	// Ledger fallback
	tx, err := database.GetLatestApprovedTransaction(accountID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return PremiumStatus{}, fmt.Errorf("failed to query ledger: %w", err)
	}
	if err == nil && tx.PremiumUntil != nil {
		selfHeal(accountID, *tx.PremiumUntil, "ledger")
		return PremiumStatus{Active: true, PremiumUntil: tx.PremiumUntil, Source: "ledger"}, nil
	}

	// Phone-carried entitlement on a sibling account
	if phone == "" {
		phone = account.Phone
	}
	if phone != "" {
		sibling, err := database.FindPremiumSibling(phone, accountID, config.AppConfig.PhoneSiblingLimit)
		if err != nil && err != gorm.ErrRecordNotFound {
			return PremiumStatus{}, fmt.Errorf("failed to query phone siblings: %w", err)
		}
		if err == nil && sibling.PremiumUntil != nil {
			selfHeal(accountID, *sibling.PremiumUntil, "sibling")
			return PremiumStatus{Active: true, PremiumUntil: sibling.PremiumUntil, Source: "sibling"}, nil
		}
	}

	return PremiumStatus{Active: false, PremiumUntil: account.PremiumUntil, Source: "none"}, nil
}

// selfHeal writes a better-authority expiry back onto the account
func selfHeal(accountID string, premiumUntil time.Time, source string) {
	if err := database.SetAccountPremium(accountID, true, &premiumUntil); err != nil {
		logging.Errorf("Premium self-heal from %s failed for account %s: %v", source, accountID, err)
		return
	}
	logging.Infof("Premium self-healed from %s - account: %s, premium_until: %s",
		source, accountID, premiumUntil.Format(time.RFC3339))
}

// QuotaStatus is the pooled free-usage consumption for an identity set
type QuotaStatus struct {
	FreeUsed int
	FreeLeft int
	Blocked  bool
}

// CountFreeUsage computes free-quota consumption pooled across every account
// sharing the requesting account's phone number. Re-registering under the same
// phone must not reset the quota. Blocked means a non-premium request has to
// be answered with "payment required".
func CountFreeUsage(accountID, phone string, premiumActive bool) (QuotaStatus, error) {
	ids := []string{accountID}
	if phone != "" {
		siblings, err := database.FindAccountsByPhone(phone, config.AppConfig.PhoneSiblingLimit)
		if err != nil {
			return QuotaStatus{}, fmt.Errorf("failed to resolve phone siblings: %w", err)
		}
		for _, sibling := range siblings {
			if sibling.AccountID != accountID {
				ids = append(ids, sibling.AccountID)
			}
		}
	}

	used, err := database.CountChatMessages(ids)
	if err != nil {
		return QuotaStatus{}, fmt.Errorf("failed to count chat history: %w", err)
	}

	limit := config.AppConfig.FreeChatLimit
	freeUsed := int(used)
	freeLeft := limit - freeUsed
	if freeLeft < 0 {
		freeLeft = 0
	}

	return QuotaStatus{
		FreeUsed: freeUsed,
		FreeLeft: freeLeft,
		Blocked:  !premiumActive && freeUsed >= limit,
	}, nil
}
