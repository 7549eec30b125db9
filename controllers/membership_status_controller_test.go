package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/browngirlclub/membership/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMembershipStatusActivatesAndInvoices(t *testing.T) {
	mock := setupMockDB(t)

	periodEnd := time.Now().UTC().Add(5 * 24 * time.Hour)
	mock.ExpectQuery(qm(`SELECT * FROM "subscriptions" WHERE (user_id = $1 AND status = $2)`)).
		WithArgs(uint(7), models.SubscriptionStatusPendingPayment, sqlmock.AnyArg()).
		WillReturnRows(subscriptionRow(3, 7, "chill-mode", models.SubscriptionStatusPendingPayment, periodEnd))

	mock.ExpectBegin()
	mock.ExpectExec(qm(`UPDATE "subscriptions" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(qm(`INSERT INTO "invoices"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41))
	mock.ExpectCommit()

	// Invoice email lookup; SMTP is unset in tests so the send is skipped.
	mock.ExpectQuery(qm(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(uint(7), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "phone", "google_id"}).
			AddRow(7, "maya@example.com", "Maya", "", ""))

	w := performJSON(UpdateMembershipStatusHandler, http.MethodPost, "/membership/status", MembershipStatusRequest{
		UserID: 7,
		Status: "paid",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Membership activated")
	assert.Contains(t, w.Body.String(), `"status":"paid"`)
	assert.Contains(t, w.Body.String(), `"id":41`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMembershipStatusRejectsOtherStatuses(t *testing.T) {
	mock := setupMockDB(t)

	w := performJSON(UpdateMembershipStatusHandler, http.MethodPost, "/membership/status", MembershipStatusRequest{
		UserID: 7,
		Status: "cancelled",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMembershipStatusNoPendingSubscription(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(qm(`SELECT * FROM "subscriptions" WHERE (user_id = $1 AND status = $2)`)).
		WithArgs(uint(7), models.SubscriptionStatusPendingPayment, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(subscriptionColumns()))

	w := performJSON(UpdateMembershipStatusHandler, http.MethodPost, "/membership/status", MembershipStatusRequest{
		UserID: 7,
		Status: "paid",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No pending subscription found")
	require.NoError(t, mock.ExpectationsWereMet())
}
