package models

import (
	"time"
)

// Account is one registered user of the tutoring service.
//
// AccountID is the caller-supplied identity and is stable. Phone is optional
// and deliberately NOT unique: several accounts may register under one phone
// number, and the free quota is pooled across all of them.
//
// IsPremium only reflects reality at the time of the last write. Read paths
// must re-check PremiumUntil against the current time instead of trusting the
// flag (see services.ResolvePremium).
type Account struct {
	BaseModel

	AccountID string `json:"account_id" gorm:"uniqueIndex;not null;size:64"`
	FullName  string `json:"full_name" gorm:"size:120"`
	Phone     string `json:"phone" gorm:"size:20;index"` // format: +<country> <8 digits>
	Grade     string `json:"grade" gorm:"size:40"`       // school grade, e.g. CM2, 3eme

	// Profile preferences
	ThemeColor     string `json:"theme_color" gorm:"size:20"`
	PreferredTutor string `json:"preferred_tutor" gorm:"size:10"` // female or male

	// Entitlement state
	IsPremium    bool       `json:"is_premium" gorm:"index"`
	PremiumUntil *time.Time `json:"premium_until"`

	// Referral counters
	ReferralBalance       int64 `json:"referral_balance"`
	TotalReferralEarnings int64 `json:"total_referral_earnings"`
}

// TableName specifies the table name
func (Account) TableName() string {
	return "accounts"
}

// PremiumActiveAt reports whether the stored entitlement is live at the given
// instant. The flag alone is not enough: it can lag reality between writes.
func (a *Account) PremiumActiveAt(now time.Time) bool {
	return a.IsPremium && a.PremiumUntil != nil && a.PremiumUntil.After(now)
}
