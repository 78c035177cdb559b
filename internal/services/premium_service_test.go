package services

import (
	"testing"
	"time"
	"tutoring-api/internal/database"
	"tutoring-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestExtendPremiumFromScratch(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u1"}))

	premiumUntil, err := ExtendPremium("u1", 30)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().AddDate(0, 0, 30), premiumUntil, 5*time.Second)

	account, err := database.GetAccount("u1")
	require.NoError(t, err)
	require.True(t, account.IsPremium)
	require.NotNil(t, account.PremiumUntil)
}

func TestExtendPremiumStacksOnUnexpired(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u1"}))

	first, err := ExtendPremium("u1", 30)
	require.NoError(t, err)

	// A second purchase before expiry appends to the current expiry, it
	// never restarts the clock from now.
	second, err := ExtendPremium("u1", 30)
	require.NoError(t, err)
	require.WithinDuration(t, first.AddDate(0, 0, 30), second, time.Second)
	require.True(t, second.After(first))
}

func TestExtendPremiumIgnoresExpiredBase(t *testing.T) {
	setupTestDB(t)
	expired := time.Now().AddDate(0, 0, -10)
	require.NoError(t, database.CreateAccount(&models.Account{
		AccountID:    "u1",
		IsPremium:    true,
		PremiumUntil: &expired,
	}))

	premiumUntil, err := ExtendPremium("u1", 30)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().AddDate(0, 0, 30), premiumUntil, 5*time.Second)
}

func TestExtendPremiumRejectsNonPositiveDays(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u1"}))

	_, err := ExtendPremium("u1", 0)
	require.Error(t, err)
	_, err = ExtendPremium("u1", -5)
	require.Error(t, err)
}

func TestResolvePremiumFastPath(t *testing.T) {
	setupTestDB(t)
	future := time.Now().AddDate(0, 0, 15)
	require.NoError(t, database.CreateAccount(&models.Account{
		AccountID:    "u1",
		IsPremium:    true,
		PremiumUntil: &future,
	}))

	status, err := ResolvePremium("u1", "")
	require.NoError(t, err)
	require.True(t, status.Active)
	require.Equal(t, "account", status.Source)
}

func TestResolvePremiumSelfHealsFromLedger(t *testing.T) {
	setupTestDB(t)

	// Stale flag: the webhook's account write never landed, but the ledger
	// holds an approved, unexpired transaction.
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u1"}))
	future := time.Now().AddDate(0, 0, 20)
	now := time.Now()
	require.NoError(t, database.CreateTransaction(&models.PaymentTransaction{
		AccountID:            "u1",
		GatewayTransactionID: 1001,
		Status:               models.TransactionStatusApproved,
		PlanID:               models.PlanMonthly,
		Amount:               500,
		PremiumUntil:         &future,
		ApprovedAt:           &now,
	}))

	status, err := ResolvePremium("u1", "")
	require.NoError(t, err)
	require.True(t, status.Active)
	require.Equal(t, "ledger", status.Source)

	// The read healed the stored flag
	account, err := database.GetAccount("u1")
	require.NoError(t, err)
	require.True(t, account.IsPremium)
	require.WithinDuration(t, future, *account.PremiumUntil, time.Second)
}

func TestResolvePremiumFallsBackToPhoneSibling(t *testing.T) {
	setupTestDB(t)

	phone := "+228 90000001"
	future := time.Now().AddDate(0, 0, 40)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "payer", Phone: phone, IsPremium: true, PremiumUntil: &future}))
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "fresh", Phone: phone}))

	status, err := ResolvePremium("fresh", phone)
	require.NoError(t, err)
	require.True(t, status.Active)
	require.Equal(t, "sibling", status.Source)
	require.WithinDuration(t, future, *status.PremiumUntil, time.Second)

	account, err := database.GetAccount("fresh")
	require.NoError(t, err)
	require.True(t, account.IsPremium)
}

func TestResolvePremiumPicksLatestSibling(t *testing.T) {
	setupTestDB(t)

	phone := "+228 90000002"
	near := time.Now().AddDate(0, 0, 5)
	far := time.Now().AddDate(0, 0, 60)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "a", Phone: phone, IsPremium: true, PremiumUntil: &near}))
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "b", Phone: phone, IsPremium: true, PremiumUntil: &far}))
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "c", Phone: phone}))

	status, err := ResolvePremium("c", phone)
	require.NoError(t, err)
	require.True(t, status.Active)
	require.WithinDuration(t, far, *status.PremiumUntil, time.Second)
}

func TestResolvePremiumInactive(t *testing.T) {
	setupTestDB(t)
	expired := time.Now().AddDate(0, 0, -1)
	require.NoError(t, database.CreateAccount(&models.Account{
		AccountID:    "u1",
		IsPremium:    true, // stale flag, expiry already passed
		PremiumUntil: &expired,
	}))

	status, err := ResolvePremium("u1", "")
	require.NoError(t, err)
	require.False(t, status.Active)
	require.Equal(t, "none", status.Source)
}

func TestCountFreeUsagePoolsAcrossPhoneSiblings(t *testing.T) {
	setupTestDB(t)

	phone := "+228 90000001"
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "a", Phone: phone}))
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "b", Phone: phone}))

	require.NoError(t, database.CreateChatMessage(&models.ChatMessage{AccountID: "a", Message: "q1"}))
	require.NoError(t, database.CreateChatMessage(&models.ChatMessage{AccountID: "b", Message: "q2"}))

	// Two combined turns exhaust the limit for both accounts, regardless of
	// which one made the prior requests.
	for _, id := range []string{"a", "b"} {
		quota, err := CountFreeUsage(id, phone, false)
		require.NoError(t, err)
		require.Equal(t, 2, quota.FreeUsed)
		require.Equal(t, 0, quota.FreeLeft)
		require.True(t, quota.Blocked)
	}
}

func TestCountFreeUsagePremiumNeverBlocked(t *testing.T) {
	setupTestDB(t)
	phone := "+228 90000003"
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "a", Phone: phone}))
	for i := 0; i < 5; i++ {
		require.NoError(t, database.CreateChatMessage(&models.ChatMessage{AccountID: "a", Message: "q"}))
	}

	quota, err := CountFreeUsage("a", phone, true)
	require.NoError(t, err)
	require.Equal(t, 5, quota.FreeUsed)
	require.False(t, quota.Blocked)
}

func TestValidatePhone(t *testing.T) {
	require.NoError(t, ValidatePhone("+228 90000001"))
	require.NoError(t, ValidatePhone("+1 12345678"))

	require.Error(t, ValidatePhone("90000001"))        // no country code
	require.Error(t, ValidatePhone("+228 9000000"))    // 7 digits
	require.Error(t, ValidatePhone("+228 900000012"))  // 9 digits
	require.Error(t, ValidatePhone("+22890000001"))    // missing space
	require.Error(t, ValidatePhone("+228  90000001"))  // double space
	require.Error(t, ValidatePhone("+228 9000000a"))   // non-digit
}
