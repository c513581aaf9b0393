package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymops/gym-ops-api/internal/models"
)

func newMembershipMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func membershipRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "member_id", "plan_id", "start_date", "expiry_date", "state", "paused_days_remaining", "pause_reason", "cancel_reason", "created_at", "updated_at"})
}

func TestMembershipRepositoryFindCurrentByMember(t *testing.T) {
	db, mock, cleanup := newMembershipMock(t)
	defer cleanup()
	repo := NewMembershipRepository(db)

	rows := membershipRows().
		AddRow("ms1", "m1", "monthly", time.Now(), time.Now().AddDate(0, 1, 0), "ACTIVE", 0, nil, nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT .* FROM memberships WHERE member_id = \\$1 AND state IN").
		WithArgs("m1", models.MembershipActive, models.MembershipPaused).
		WillReturnRows(rows)

	membership, err := repo.FindCurrentByMember(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, models.MembershipActive, membership.State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepositoryFindCurrentByMemberNone(t *testing.T) {
	db, mock, cleanup := newMembershipMock(t)
	defer cleanup()
	repo := NewMembershipRepository(db)

	mock.ExpectQuery("SELECT .* FROM memberships WHERE member_id = \\$1 AND state IN").
		WithArgs("m1", models.MembershipActive, models.MembershipPaused).
		WillReturnRows(membershipRows())

	_, err := repo.FindCurrentByMember(context.Background(), "m1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestMembershipRepositoryExpireDueTx(t *testing.T) {
	db, mock, cleanup := newMembershipMock(t)
	defer cleanup()
	repo := NewMembershipRepository(db)

	asOf := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE memberships SET state = \\$2").
		WithArgs(models.DateOnly(asOf), models.MembershipExpired, sqlmock.AnyArg(), models.MembershipActive).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)
	count, err := repo.ExpireDueTx(context.Background(), tx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepositoryInsertTx(t *testing.T) {
	db, mock, cleanup := newMembershipMock(t)
	defer cleanup()
	repo := NewMembershipRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO memberships").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)
	membership := models.Membership{
		MemberID:   "m1",
		PlanID:     "monthly",
		StartDate:  time.Now(),
		ExpiryDate: time.Now().AddDate(0, 1, 0),
		State:      models.MembershipActive,
	}
	require.NoError(t, repo.InsertTx(context.Background(), tx, &membership))
	assert.NotEmpty(t, membership.ID)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepositoryDemoteCurrentTxCoversPaused(t *testing.T) {
	db, mock, cleanup := newMembershipMock(t)
	defer cleanup()
	repo := NewMembershipRepository(db)

	// Both ACTIVE and PAUSED rows are demoted so a fresh assignment never
	// leaves a second current membership behind.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE memberships SET state = \$2, paused_days_remaining = 0.*state IN \(\$4, \$5\)`).
		WithArgs("m1", models.MembershipExpired, sqlmock.AnyArg(),
			models.MembershipActive, models.MembershipPaused).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.DemoteCurrentTx(context.Background(), tx, "m1"))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
