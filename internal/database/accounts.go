package database

import (
	"time"
	"tutoring-api/internal/models"

	"gorm.io/gorm"
)

// GetAccount fetches an account by its caller-supplied account id
func GetAccount(accountID string) (*models.Account, error) {
	var account models.Account
	err := DB.Where("account_id = ?", accountID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateAccount inserts a new account
func CreateAccount(account *models.Account) error {
	return DB.Create(account).Error
}

// GetOrCreateAccount fetches an account, creating a blank one on first contact
func GetOrCreateAccount(accountID string) (*models.Account, error) {
	account, err := GetAccount(accountID)
	if err == nil {
		return account, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	account = &models.Account{AccountID: accountID}
	if err := CreateAccount(account); err != nil {
		return nil, err
	}
	return account, nil
}

// UpdateAccount persists the given account
func UpdateAccount(account *models.Account) error {
	return DB.Save(account).Error
}

// FindAccountsByPhone returns every account registered under the exact phone
// string, capped at limit. This is the identity resolver behind quota pooling
// and phone-carried premium lookup; the cap bounds the sibling fan-out.
func FindAccountsByPhone(phone string, limit int) ([]models.Account, error) {
	var accounts []models.Account
	err := DB.Where("phone = ?", phone).Limit(limit).Find(&accounts).Error
	return accounts, err
}

// FindPremiumSibling returns the phone-sharing account (other than accountID)
// holding the latest unexpired premium, or gorm.ErrRecordNotFound.
func FindPremiumSibling(phone, accountID string, limit int) (*models.Account, error) {
	var sibling models.Account
	err := DB.Where("phone = ? AND account_id <> ? AND is_premium = ? AND premium_until > ?",
		phone, accountID, true, time.Now()).
		Order("premium_until DESC").
		Limit(limit).
		First(&sibling).Error
	if err != nil {
		return nil, err
	}
	return &sibling, nil
}

// SetAccountPremium writes the entitlement state for an account
func SetAccountPremium(accountID string, isPremium bool, premiumUntil *time.Time) error {
	return DB.Model(&models.Account{}).
		Where("account_id = ?", accountID).
		Updates(map[string]interface{}{
			"is_premium":    isPremium,
			"premium_until": premiumUntil,
		}).Error
}

// CreditReferralEarnings adds the commission to the referrer's running balance
// and lifetime earnings counters
func CreditReferralEarnings(accountID string, amount int64) error {
	return DB.Model(&models.Account{}).
		Where("account_id = ?", accountID).
		Updates(map[string]interface{}{
			"referral_balance":        gorm.Expr("referral_balance + ?", amount),
			"total_referral_earnings": gorm.Expr("total_referral_earnings + ?", amount),
		}).Error
}

// ListAccounts returns accounts for the admin listing, newest first.
// The search term matches name or phone; limit is already bounded by the caller.
func ListAccounts(search string, premiumOnly bool, limit int) ([]models.Account, error) {
	query := DB.Order("created_at DESC").Limit(limit)
	if premiumOnly {
		query = query.Where("is_premium = ?", true)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("full_name LIKE ? OR phone LIKE ?", like, like)
	}

	var accounts []models.Account
	err := query.Find(&accounts).Error
	return accounts, err
}
