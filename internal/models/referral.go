package models

// Commission payout statuses
const (
	PayoutStatusPaid    = "paid"
	PayoutStatusPending = "pending"
)

// ReferralCommission records the one-time commission credited to a referrer
// when a referred purchase is approved.
//
// TransactionID carries a unique index: at most one commission can ever exist
// per source transaction, even under webhook redelivery.
type ReferralCommission struct {
	BaseModel

	TransactionID     uint   `json:"transaction_id" gorm:"not null;uniqueIndex"`
	ReferrerAccountID string `json:"referrer_account_id" gorm:"not null;size:64;index"`
	PayerAccountID    string `json:"payer_account_id" gorm:"not null;size:64"`
	PayerPhone        string `json:"payer_phone" gorm:"size:20"`

	PlanID           string `json:"plan_id" gorm:"size:20"`
	PlanAmount       int64  `json:"plan_amount"`
	CommissionAmount int64  `json:"commission_amount"`

	PayoutPhone  string `json:"payout_phone" gorm:"size:20"`
	PayoutStatus string `json:"payout_status" gorm:"size:20"`
}

// TableName specifies the table name
func (ReferralCommission) TableName() string {
	return "referral_commissions"
}
