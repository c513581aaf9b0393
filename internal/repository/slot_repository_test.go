package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymops/gym-ops-api/internal/models"
)

func newSlotMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func slotRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "kind", "owner_id", "class_id", "weekday", "start_time", "end_time", "active_from", "active_to", "active", "created_at", "updated_at"})
}

func TestSlotRepositoryListActiveByOwnerWeekday(t *testing.T) {
	db, mock, cleanup := newSlotMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	rows := slotRows().
		AddRow("s1", "CLASS", "t1", "spinning", 1, "07:00", "08:00", time.Now(), time.Now(), true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT .* FROM schedule_slots WHERE owner_id = \\$1 AND kind = \\$2 AND weekday = \\$3 AND active = TRUE").
		WithArgs("t1", models.SlotKindClass, 1).
		WillReturnRows(rows)

	slots, err := repo.ListActiveByOwnerWeekday(context.Background(), "t1", models.SlotKindClass, 1)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, models.TimeOfDay("07:00"), slots[0].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSlotMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectExec("INSERT INTO schedule_slots").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	classID := "spinning"
	slot := models.ScheduleSlot{
		Kind:      models.SlotKindClass,
		OwnerID:   "t1",
		ClassID:   &classID,
		Weekday:   1,
		StartTime: "07:00",
		EndTime:   "08:00",
	}
	err := repo.Create(context.Background(), &slot)
	require.NoError(t, err)
	assert.NotEmpty(t, slot.ID)
	assert.True(t, slot.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryDeactivateByClassTx(t *testing.T) {
	db, mock, cleanup := newSlotMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE schedule_slots SET active = FALSE").
		WithArgs("spinning", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.DeactivateByClassTx(context.Background(), tx, "spinning"))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryUpdateOwnerTxMissingSlot(t *testing.T) {
	db, mock, cleanup := newSlotMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE schedule_slots SET owner_id = \\$2").
		WithArgs("missing", "t2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)
	err = repo.UpdateOwnerTx(context.Background(), tx, "missing", "t2")
	require.Error(t, err)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
