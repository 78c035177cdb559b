package api

import (
	"net/http"
	"testing"
	"time"
	"tutoring-api/internal/database"
	"tutoring-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func adminHeaders() map[string]string {
	return map[string]string{"X-Admin-Key": testAdminKey}
}

func TestAdminRoutesRequireKey(t *testing.T) {
	r := setupRouter(t)

	w := performJSON(r, http.MethodGet, "/api/admin/users", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = performJSON(r, http.MethodPatch, "/api/admin/users", gin.H{"account_id": "u1"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = performJSON(r, http.MethodGet, "/api/admin/users", nil, map[string]string{"X-Admin-Key": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsersFiltersAndLimits(t *testing.T) {
	r := setupRouter(t)

	future := time.Now().AddDate(0, 0, 10)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u1", FullName: "Ama Mensah", Phone: "+228 90000001"}))
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u2", FullName: "Kofi Agbeko", Phone: "+228 90000002", IsPremium: true, PremiumUntil: &future}))

	w := performJSON(r, http.MethodGet, "/api/admin/users", nil, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody(t, w)["data"].([]interface{}), 2)

	// Search matches name or phone
	w = performJSON(r, http.MethodGet, "/api/admin/users?q=Kofi", nil, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].([]interface{})
	require.Len(t, data, 1)

	// Premium-only filter
	w = performJSON(r, http.MethodGet, "/api/admin/users?premiumOnly=1", nil, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	require.Equal(t, "u2", data[0].(map[string]interface{})["account_id"])
}

func TestPatchUserGrantsPremium(t *testing.T) {
	r := setupRouter(t)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u1"}))

	w := performJSON(r, http.MethodPatch, "/api/admin/users", gin.H{
		"account_id": "u1",
		"days":       15,
	}, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	account, err := database.GetAccount("u1")
	require.NoError(t, err)
	require.True(t, account.IsPremium)
	require.WithinDuration(t, time.Now().AddDate(0, 0, 15), *account.PremiumUntil, 10*time.Second)
}

func TestPatchUserRevokesPremium(t *testing.T) {
	r := setupRouter(t)
	future := time.Now().AddDate(0, 0, 30)
	require.NoError(t, database.CreateAccount(&models.Account{AccountID: "u1", IsPremium: true, PremiumUntil: &future}))

	revoke := false
	w := performJSON(r, http.MethodPatch, "/api/admin/users", gin.H{
		"account_id":    "u1",
		"grant_premium": revoke,
		"note":          "chargeback",
	}, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	account, err := database.GetAccount("u1")
	require.NoError(t, err)
	require.False(t, account.IsPremium)
	require.Nil(t, account.PremiumUntil)
}
