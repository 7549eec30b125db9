package controllers

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/browngirlclub/membership/config"
	"github.com/browngirlclub/membership/models"
	"github.com/browngirlclub/membership/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB replaces config.DB with a gorm handle over sqlmock for the
// duration of the test. Expectations use regexp matching, so QuoteMeta
// prefixes are enough to pin a query.
func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	prevDB := config.DB
	prevClock := periodClock
	config.DB = gormDB
	SetPeriodClock(utils.NewClock(utils.DefaultTimezoneOffsetMinutes))

	t.Cleanup(func() {
		config.DB = prevDB
		periodClock = prevClock
		db.Close()
	})
	return mock
}

// qm pins the leading portion of a generated query.
func qm(query string) string {
	return regexp.QuoteMeta(query)
}

func subscriptionColumns() []string {
	return []string{
		"id", "created_at", "updated_at", "deleted_at",
		"user_id", "plan_id", "plan_name", "status",
		"current_period_start", "current_period_end", "cancel_at", "paused_at",
	}
}

func subscriptionRow(id, userID uint, planID string, status string, periodEnd time.Time) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(subscriptionColumns()).
		AddRow(id, now, now, nil,
			userID, planID, models.PlanDisplayName(planID), status,
			now.AddDate(0, 0, -1), periodEnd, nil, nil)
}

func usageColumns() []string {
	return []string{"id", "user_id", "subscription_id", "item_type", "item_name", "location", "redeemed_at"}
}

func usageRows(rows ...models.Usage) *sqlmock.Rows {
	out := sqlmock.NewRows(usageColumns())
	for _, u := range rows {
		out.AddRow(u.ID, u.UserID, u.SubscriptionID, u.ItemType, u.ItemName, u.Location, u.RedeemedAt)
	}
	return out
}

func coffeeRow(id, userID, subID uint, at time.Time) models.Usage {
	return models.Usage{ID: id, UserID: userID, SubscriptionID: subID,
		ItemType: models.ItemTypeCoffee, ItemName: "latte", Location: "Main Location", RedeemedAt: at}
}

func foodRow(id, userID, subID uint, at time.Time) models.Usage {
	return models.Usage{ID: id, UserID: userID, SubscriptionID: subID,
		ItemType: models.ItemTypeFood, ItemName: "sandwich", Location: "Main Location", RedeemedAt: at}
}

// expectOwnerSubscription queues the owner-path subscription lookup. First
// queries carry a trailing LIMIT placeholder, hence the extra AnyArg.
func expectOwnerSubscription(mock sqlmock.Sqlmock, userID uint, rows *sqlmock.Rows) {
	mock.ExpectQuery(qm(`SELECT * FROM "subscriptions" WHERE (user_id = $1 AND status = $2)`)).
		WithArgs(userID, models.SubscriptionStatusActive, sqlmock.AnyArg()).
		WillReturnRows(rows)
}

// expectTodayUsage queues the per-user usage fetch since local midnight.
func expectTodayUsage(mock sqlmock.Sqlmock, userID uint, rows *sqlmock.Rows) {
	mock.ExpectQuery(qm(`SELECT * FROM "usage" WHERE user_id = $1 AND redeemed_at >= $2`)).
		WithArgs(userID, sqlmock.AnyArg()).
		WillReturnRows(rows)
}
