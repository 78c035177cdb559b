package models

import (
	"time"
)

// Transaction statuses
const (
	TransactionStatusPending  = "pending"
	TransactionStatusApproved = "approved"
)

// Plan identifiers
const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

// Plan describes one purchasable pass
type Plan struct {
	Label  string
	Amount int64
	Days   int
}

// Plans maps plan identifiers to their configuration
var Plans = map[string]Plan{
	PlanMonthly: {Label: "Pass Mensuel", Amount: 500, Days: 30},
	PlanYearly:  {Label: "Pass Annuel", Amount: 1000, Days: 365},
}

// PaymentTransaction is the append-only ledger row for one purchase attempt.
//
// GatewayTransactionID is globally unique. Real gateway ids are positive;
// manually issued grants carry a synthetic negative id so the two ranges can
// never collide. Insertion retries with a fresh synthetic id on collision.
type PaymentTransaction struct {
	BaseModel

	AccountID string `json:"account_id" gorm:"not null;size:64;index"`

	GatewayTransactionID int64  `json:"gateway_transaction_id" gorm:"not null;uniqueIndex"`
	GatewayReference     string `json:"gateway_reference" gorm:"size:100"`

	Status string `json:"status" gorm:"not null;size:20;index"` // pending, approved, or gateway status as reported
	PlanID string `json:"plan_id" gorm:"not null;size:20"`
	Amount int64  `json:"amount"`

	// Payer snapshot at purchase time
	FullName       string `json:"full_name" gorm:"size:120"`
	Phone          string `json:"phone" gorm:"size:20"`
	Grade          string `json:"grade" gorm:"size:40"`
	PreferredTutor string `json:"preferred_tutor" gorm:"size:10"`

	// Referral: phone of the account that recommended this purchase, if any
	ReferrerPhone string `json:"referrer_phone" gorm:"size:20"`

	PremiumUntil *time.Time `json:"premium_until"` // expiry computed at approval
	ApprovedAt   *time.Time `json:"approved_at"`

	// Raw gateway payload kept for audit and manual reconciliation
	RawPayload string `json:"raw_payload" gorm:"type:text"`
}

// TableName specifies the table name
func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
