package services

import (
	"testing"
	"time"
	"tutoring-api/internal/database"
	"tutoring-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestGrantPremiumDefaultsToMonthlyPlan(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u1", Phone: "+228 90000001"}))

	result, err := GrantPremium(GrantRequest{AccountID: "u1", Source: "manual-admin"})
	require.NoError(t, err)
	require.Equal(t, models.PlanMonthly, result.PlanID)
	require.Equal(t, 30, result.DaysAdded)
	require.Equal(t, int64(500), result.Amount)
	require.WithinDuration(t, time.Now().AddDate(0, 0, 30), result.PremiumUntil, 5*time.Second)

	// The grant wrote an already-approved ledger row under a synthetic
	// negative id
	tx, err := database.GetLatestTransaction("u1")
	require.NoError(t, err)
	require.Equal(t, models.TransactionStatusApproved, tx.Status)
	require.Negative(t, tx.GatewayTransactionID)
	require.NotNil(t, tx.ApprovedAt)
}

func TestGrantPremiumExplicitDays(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u1"}))

	result, err := GrantPremium(GrantRequest{AccountID: "u1", Days: 7, Source: "manual-admin"})
	require.NoError(t, err)
	require.Equal(t, 7, result.DaysAdded)
	require.WithinDuration(t, time.Now().AddDate(0, 0, 7), result.PremiumUntil, 5*time.Second)
}

func TestGrantPremiumStacksLikeWebhookPath(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u1"}))

	first, err := GrantPremium(GrantRequest{AccountID: "u1", Days: 30, Source: "manual-admin"})
	require.NoError(t, err)

	// Both paths share one extension primitive, so stacking behaves the same
	second, err := GrantPremium(GrantRequest{AccountID: "u1", Days: 30, Source: "manual-admin"})
	require.NoError(t, err)
	require.WithinDuration(t, first.PremiumUntil.AddDate(0, 0, 30), second.PremiumUntil, time.Second)
}

func TestGrantPremiumRetriesSyntheticIDCollision(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u1"}))

	// Occupy the id the generator will produce first
	until := time.Now().AddDate(0, 0, 30)
	require.NoError(t, database.CreateTransaction(&models.PaymentTransaction{
		AccountID:            "other",
		GatewayTransactionID: -42,
		Status:               models.TransactionStatusApproved,
		PlanID:               models.PlanMonthly,
		PremiumUntil:         &until,
	}))

	original := newSyntheticTransactionID
	defer func() { newSyntheticTransactionID = original }()
	ids := []int64{-42, -42, -43}
	newSyntheticTransactionID = func() int64 {
		id := ids[0]
		if len(ids) > 1 {
			ids = ids[1:]
		}
		return id
	}

	result, err := GrantPremium(GrantRequest{AccountID: "u1", Source: "manual-admin"})
	require.NoError(t, err)
	require.NotNil(t, result)

	tx, err := database.GetLatestTransaction("u1")
	require.NoError(t, err)
	require.Equal(t, int64(-43), tx.GatewayTransactionID)
}

func TestGrantPremiumGivesUpAfterPersistentCollisions(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u1"}))

	until := time.Now().AddDate(0, 0, 30)
	require.NoError(t, database.CreateTransaction(&models.PaymentTransaction{
		AccountID:            "other",
		GatewayTransactionID: -42,
		Status:               models.TransactionStatusApproved,
		PlanID:               models.PlanMonthly,
		PremiumUntil:         &until,
	}))

	original := newSyntheticTransactionID
	defer func() { newSyntheticTransactionID = original }()
	calls := 0
	newSyntheticTransactionID = func() int64 {
		calls++
		return -42
	}

	_, err := GrantPremium(GrantRequest{AccountID: "u1", Source: "manual-admin"})
	require.Error(t, err)
	require.Equal(t, 3, calls)
}

func TestGrantPremiumDoesNotRetryNonCollisionErrors(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u1"}))

	// A missing table is a store failure, not an id collision: the insert
	// must surface after a single attempt instead of burning fresh ids
	require.NoError(t, db.Migrator().DropTable(&models.PaymentTransaction{}))

	original := newSyntheticTransactionID
	defer func() { newSyntheticTransactionID = original }()
	calls := 0
	newSyntheticTransactionID = func() int64 {
		calls++
		return -42
	}

	_, err := GrantPremium(GrantRequest{AccountID: "u1", Source: "manual-admin"})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestGrantPremiumUnknownAccount(t *testing.T) {
	setupTestDB(t)
	_, err := GrantPremium(GrantRequest{AccountID: "ghost", Source: "manual-admin"})
	require.Error(t, err)
}

func TestRevokePremium(t *testing.T) {
	setupTestDB(t)
	future := time.Now().AddDate(0, 0, 30)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u1", IsPremium: true, PremiumUntil: &future}))

	require.NoError(t, RevokePremium("u1", "abuse"))

	account, err := database.GetAccount("u1")
	require.NoError(t, err)
	require.False(t, account.IsPremium)
	require.Nil(t, account.PremiumUntil)
}
