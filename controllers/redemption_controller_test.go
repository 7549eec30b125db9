package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/browngirlclub/membership/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performJSON(handler gin.HandlerFunc, method, path string, body interface{}) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Handle(method, path, handler)

	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRedeemHandlerRejectsInvalidItemType(t *testing.T) {
	mock := setupMockDB(t)

	w := performJSON(RedeemHandler, http.MethodPost, "/redeem", RedeemRequest{
		UserID:   7,
		ItemType: "smoothie",
		ItemName: "mango",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid itemType")
	// No queries ran
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemHandlerRejectsMissingFields(t *testing.T) {
	mock := setupMockDB(t)

	w := performJSON(RedeemHandler, http.MethodPost, "/redeem", RedeemRequest{
		UserID:   7,
		ItemType: models.ItemTypeCoffee,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemHandlerDeniesWhenValidationFails(t *testing.T) {
	mock := setupMockDB(t)

	expired := time.Now().UTC().Add(-time.Hour)
	expectOwnerSubscription(mock, 7, subscriptionRow(3, 7, "daily-coffee", models.SubscriptionStatusActive, expired))

	w := performJSON(RedeemHandler, http.MethodPost, "/redeem", RedeemRequest{
		UserID:   7,
		ItemType: models.ItemTypeCoffee,
		ItemName: "latte",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Subscription has expired")
	require.NoError(t, mock.ExpectationsWereMet())
}

// Ordering five coffees when only three remain must fail before anything is
// written. The recorder trusts its caller, so this guard is the only thing
// standing between a bulk order and the ledger.
func TestRedeemHandlerBulkExceedingRemainingPersistsNothing(t *testing.T) {
	mock := setupMockDB(t)

	periodEnd := time.Now().UTC().Add(10 * 24 * time.Hour)

	expectOwnerSubscription(mock, 7, subscriptionRow(9, 7, "caffeine-royalty", models.SubscriptionStatusActive, periodEnd))
	expectTodayUsage(mock, 7, usageRows())
	// 1 of 4 pooled coffees used, so 3 remain
	mock.ExpectQuery(qm(`SELECT count(*) FROM "usage" WHERE subscription_id = $1 AND item_type = $2 AND redeemed_at >= $3`)).
		WithArgs(uint(9), models.ItemTypeCoffee, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := performJSON(RedeemHandler, http.MethodPost, "/redeem", RedeemRequest{
		UserID:   7,
		ItemType: models.ItemTypeCoffee,
		ItemName: "latte",
		Quantity: 5,
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "exceeds remaining allowance (3)")
	// No INSERT was expected or executed
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemHandlerBulkWithinRemaining(t *testing.T) {
	mock := setupMockDB(t)

	periodEnd := time.Now().UTC().Add(10 * 24 * time.Hour)

	expectOwnerSubscription(mock, 7, subscriptionRow(9, 7, "caffeine-royalty", models.SubscriptionStatusActive, periodEnd))
	expectTodayUsage(mock, 7, usageRows())
	mock.ExpectQuery(qm(`SELECT count(*) FROM "usage" WHERE subscription_id = $1 AND item_type = $2 AND redeemed_at >= $3`)).
		WithArgs(uint(9), models.ItemTypeCoffee, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectBegin()
	mock.ExpectQuery(qm(`INSERT INTO "usage"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(301).AddRow(302))
	mock.ExpectCommit()

	// Receipt lookup for the email; SMTP is unset in tests so the send is
	// skipped after this query.
	mock.ExpectQuery(qm(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(uint(7), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "phone", "google_id"}).
			AddRow(7, "maya@example.com", "Maya", "", ""))

	w := performJSON(RedeemHandler, http.MethodPost, "/redeem", RedeemRequest{
		UserID:   7,
		ItemType: models.ItemTypeCoffee,
		ItemName: "latte",
		Quantity: 2,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Remaining struct {
				Coffees *int `json:"coffees"`
			} `json:"remaining"`
			Redemptions []models.Usage `json:"redemptions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Redemptions, 2)
	require.NotNil(t, resp.Data.Remaining.Coffees)
	// 3 remained before the order, 2 were poured
	assert.Equal(t, 1, *resp.Data.Remaining.Coffees)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRedemptionHandlerReportsVerdict(t *testing.T) {
	mock := setupMockDB(t)

	expectOwnerSubscription(mock, 7, sqlmock.NewRows(subscriptionColumns()))
	mock.ExpectQuery(qm(`SELECT * FROM "subscription_members" WHERE member_user_id = $1`)).
		WithArgs(uint(7), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "subscription_id", "member_user_id"}))

	w := performJSON(ValidateRedemptionHandler, http.MethodPost, "/validate", ValidateRequest{
		UserID:   7,
		ItemType: models.ItemTypeCoffee,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":false`)
	assert.Contains(t, w.Body.String(), "No active subscription found")
	require.NoError(t, mock.ExpectationsWereMet())
}
