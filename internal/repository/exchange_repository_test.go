package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymops/gym-ops-api/internal/models"
)

func newExchangeMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestExchangeRepositoryCreateForcesPending(t *testing.T) {
	db, mock, cleanup := newExchangeMock(t)
	defer cleanup()
	repo := NewExchangeRepository(db)

	mock.ExpectExec("INSERT INTO shift_exchange_requests").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := models.ShiftExchangeRequest{
		OriginShiftID: "r1",
		DestShiftID:   "r2",
		OriginOwnerID: "t1",
		DestOwnerID:   "t2",
		State:         models.ExchangeApproved,
	}
	require.NoError(t, repo.Create(context.Background(), &req))
	assert.Equal(t, models.ExchangePending, req.State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExchangeRepositoryResolveTxGuardsDoubleResolution(t *testing.T) {
	db, mock, cleanup := newExchangeMock(t)
	defer cleanup()
	repo := NewExchangeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE shift_exchange_requests SET state = \\$2").
		WithArgs("x1", models.ExchangeApproved, sqlmock.AnyArg(), models.ExchangePending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)
	err = repo.ResolveTx(context.Background(), tx, "x1", models.ExchangeApproved)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
