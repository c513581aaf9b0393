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

func newMemberMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestMemberRepositoryMarkDelinquentTxSparesPaused(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	// PAUSED counts as a current membership: the exclusion subquery must
	// carry both states, not just ACTIVE.
	mock.ExpectBegin()
	mock.ExpectExec(`(?s)UPDATE members m SET status = \$1.*ms\.state IN \(\$4, \$5\)`).
		WithArgs(models.MemberStatusDelinquent, sqlmock.AnyArg(),
			models.MemberStatusActive, models.MembershipActive, models.MembershipPaused).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	affected, err := repo.MarkDelinquentTx(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, 2, affected)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepositoryMarkInactiveTxIncludesCutoffDay(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	cutoff := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

	// A membership expiring exactly on the cutoff day is already 90 days
	// stale, so the comparison is inclusive.
	mock.ExpectBegin()
	mock.ExpectExec(`(?s)UPDATE members m SET status = \$2.*MAX\(ms\.expiry_date\).*<= \$1`).
		WithArgs(cutoff, models.MemberStatusInactive, sqlmock.AnyArg(),
			models.MembershipActive, models.MembershipPaused).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	affected, err := repo.MarkInactiveTx(context.Background(), tx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
