package controllers

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/browngirlclub/membership/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTodayUsageSummary(t *testing.T) {
	mock := setupMockDB(t)

	now := time.Now().UTC()
	dessert := models.Usage{ID: 4, UserID: 7, SubscriptionID: 3,
		ItemType: models.ItemTypeDessert, ItemName: "brownie", Location: "Main Location", RedeemedAt: now}

	expectTodayUsage(mock, 7, usageRows(
		coffeeRow(1, 7, 3, now),
		coffeeRow(2, 7, 3, now),
		foodRow(3, 7, 3, now),
		dessert,
	))

	summary, err := GetTodayUsageSummary(7)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Coffees)
	assert.Equal(t, 1, summary.Food)
	assert.Equal(t, 1, summary.Desserts)
	assert.Equal(t, 4, summary.Total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTodayUsageSummaryEmpty(t *testing.T) {
	mock := setupMockDB(t)

	expectTodayUsage(mock, 7, usageRows())

	summary, err := GetTodayUsageSummary(7)

	require.NoError(t, err)
	assert.Equal(t, UsageSummary{}, summary)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRedemptionHistoryDefaultsLimit(t *testing.T) {
	mock := setupMockDB(t)

	now := time.Now().UTC()
	// The limit arrives as a bind parameter, so the fallback of 50 is
	// asserted through the args rather than the SQL text.
	mock.ExpectQuery(qm(`SELECT * FROM "usage" WHERE user_id = $1 ORDER BY redeemed_at DESC LIMIT $2`)).
		WithArgs(uint(7), 50).
		WillReturnRows(usageRows(coffeeRow(2, 7, 3, now), coffeeRow(1, 7, 3, now.Add(-time.Hour))))

	history, err := GetRedemptionHistory(7, 0)

	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, uint(2), history[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPeriodCoffeeCount(t *testing.T) {
	mock := setupMockDB(t)

	periodStart := time.Now().UTC().AddDate(0, 0, -10)
	mock.ExpectQuery(qm(`SELECT count(*) FROM "usage" WHERE subscription_id = $1 AND item_type = $2 AND redeemed_at >= $3`)).
		WithArgs(uint(3), models.ItemTypeCoffee, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	count, err := GetPeriodCoffeeCount(3, periodStart)

	require.NoError(t, err)
	assert.Equal(t, int64(17), count)
	require.NoError(t, mock.ExpectationsWereMet())
}
