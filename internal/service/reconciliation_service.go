package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/gymops/gym-ops-api/internal/models"
	"github.com/gymops/gym-ops-api/pkg/config"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
)

type reconciliationMembershipRepo interface {
	ExpireDueTx(ctx context.Context, tx *sqlx.Tx, asOf time.Time) (int, error)
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
}

type reconciliationMemberRepo interface {
	MarkInactiveTx(ctx context.Context, tx *sqlx.Tx, cutoff time.Time) (int, error)
	MarkDelinquentTx(ctx context.Context, tx *sqlx.Tx) (int, error)
}

type reconciliationReservationRepo interface {
	MarkNoShowPastTx(ctx context.Context, tx *sqlx.Tx, asOf time.Time) (int, error)
}

type reconciliationSessionRepo interface {
	MarkNoShowPastTx(ctx context.Context, tx *sqlx.Tx, asOf time.Time) (int, error)
}

type sweepObserver interface {
	ObserveSweep(rule string, count int)
}

// ReconciliationService advances every time-derived state in one sweep:
// expired memberships, member standings and stale bookings. All rules run
// set-based inside a single transaction, so a sweep either lands completely
// or not at all, and a second run with no intervening writes changes zero
// rows.
type ReconciliationService struct {
	memberships  reconciliationMembershipRepo
	members      reconciliationMemberRepo
	reservations reconciliationReservationRepo
	sessions     reconciliationSessionRepo
	metrics      sweepObserver
	cfg          config.ReconciliationConfig
	logger       *zap.Logger
}

// NewReconciliationService constructs ReconciliationService.
func NewReconciliationService(
	memberships reconciliationMembershipRepo,
	members reconciliationMemberRepo,
	reservations reconciliationReservationRepo,
	sessions reconciliationSessionRepo,
	metrics sweepObserver,
	cfg config.ReconciliationConfig,
	logger *zap.Logger,
) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{
		memberships:  memberships,
		members:      members,
		reservations: reservations,
		sessions:     sessions,
		metrics:      metrics,
		cfg:          cfg,
		logger:       logger,
	}
}

// Run executes the sweep as of now. Membership expiry runs before the member
// standing rules: a membership that lapsed this instant must already be
// EXPIRED when the standing of its owner is derived.
func (s *ReconciliationService) Run(ctx context.Context) (*models.ReconciliationReport, error) {
	return s.RunAt(ctx, time.Now())
}

// RunAt executes the sweep against an explicit reference time.
func (s *ReconciliationService) RunAt(ctx context.Context, asOf time.Time) (*models.ReconciliationReport, error) {
	tx, err := s.memberships.BeginTx(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start sweep transaction")
	}
	defer func() { _ = tx.Rollback() }()

	report := &models.ReconciliationReport{}

	report.ExpiredMemberships, err = s.memberships.ExpireDueTx(ctx, tx, asOf)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to expire memberships")
	}

	cutoff := models.DateOnly(asOf).AddDate(0, 0, -s.cfg.InactivityCutoffDays)
	report.InactiveMembers, err = s.members.MarkInactiveTx(ctx, tx, cutoff)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark inactive members")
	}

	report.DelinquentMembers, err = s.members.MarkDelinquentTx(ctx, tx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark delinquent members")
	}

	report.ReservationNoShows, err = s.reservations.MarkNoShowPastTx(ctx, tx, asOf)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark no-show reservations")
	}

	report.SessionNoShows, err = s.sessions.MarkNoShowPastTx(ctx, tx, asOf)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark no-show sessions")
	}

	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit sweep")
	}

	if s.metrics != nil {
		s.metrics.ObserveSweep("expired_memberships", report.ExpiredMemberships)
		s.metrics.ObserveSweep("inactive_members", report.InactiveMembers)
		s.metrics.ObserveSweep("delinquent_members", report.DelinquentMembers)
		s.metrics.ObserveSweep("reservation_no_shows", report.ReservationNoShows)
		s.metrics.ObserveSweep("session_no_shows", report.SessionNoShows)
	}

	s.logger.Info("reconciliation sweep finished",
		zap.Time("as_of", asOf),
		zap.Int("expired_memberships", report.ExpiredMemberships),
		zap.Int("inactive_members", report.InactiveMembers),
		zap.Int("delinquent_members", report.DelinquentMembers),
		zap.Int("reservation_no_shows", report.ReservationNoShows),
		zap.Int("session_no_shows", report.SessionNoShows),
	)

	return report, nil
}
