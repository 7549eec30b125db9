package controllers

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/browngirlclub/membership/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRedemption(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qm(`INSERT INTO "usage"`)).
		WithArgs(uint(7), uint(3), models.ItemTypeCoffee, "latte", "Main Location", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectCommit()

	usage, err := RecordRedemption(7, 3, models.ItemTypeCoffee, "latte", "Main Location")

	require.NoError(t, err)
	assert.Equal(t, uint(101), usage.ID)
	assert.Equal(t, uint(7), usage.UserID)
	assert.Equal(t, uint(3), usage.SubscriptionID)
	assert.False(t, usage.RedeemedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRedemptionDefaultsLocation(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qm(`INSERT INTO "usage"`)).
		WithArgs(uint(7), uint(3), models.ItemTypeFood, "sandwich", "Main Location", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(102))
	mock.ExpectCommit()

	usage, err := RecordRedemption(7, 3, models.ItemTypeFood, "sandwich", "")

	require.NoError(t, err)
	assert.Equal(t, "Main Location", usage.Location)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Bulk redemption writes one ledger row per item in a single insert.
func TestRecordRedemptionBulk(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qm(`INSERT INTO "usage"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(201).AddRow(202).AddRow(203))
	mock.ExpectCommit()

	rows, err := RecordRedemptionBulk(7, 3, models.ItemTypeCoffee, "americano", "", 3)

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, uint(201), rows[0].ID)
	assert.Equal(t, uint(203), rows[2].ID)
	for _, row := range rows {
		assert.Equal(t, uint(7), row.UserID)
		assert.Equal(t, models.ItemTypeCoffee, row.ItemType)
		assert.Equal(t, "Main Location", row.Location)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

// A failed bulk insert rolls back; no partial batch survives.
func TestRecordRedemptionBulkFailurePersistsNothing(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qm(`INSERT INTO "usage"`)).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	rows, err := RecordRedemptionBulk(7, 3, models.ItemTypeCoffee, "americano", "", 2)

	require.Error(t, err)
	assert.Nil(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}
