package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/gymops/gym-ops-api/internal/models"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
)

type membershipRepo interface {
	FindByID(ctx context.Context, id string) (*models.Membership, error)
	FindCurrentByMember(ctx context.Context, memberID string) (*models.Membership, error)
	ListByMember(ctx context.Context, memberID string) ([]models.Membership, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, m *models.Membership) error
	DemoteCurrentTx(ctx context.Context, tx *sqlx.Tx, memberID string) error
	Update(ctx context.Context, m *models.Membership) error
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
}

type membershipPlanRepo interface {
	FindByID(ctx context.Context, id string) (*models.Plan, error)
}

type membershipPaymentRepo interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, p *models.Payment) error
}

type membershipMemberRepo interface {
	FindByID(ctx context.Context, id string) (*models.Member, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id string, status models.MemberStatus) error
}

// AssignMembershipRequest starts a new membership for a member. StartDate
// defaults to today when omitted.
type AssignMembershipRequest struct {
	PlanID    string `json:"plan_id" validate:"required"`
	Method    string `json:"method" validate:"required,oneof=CASH CARD TRANSFER"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// PauseMembershipRequest freezes an active membership for a bounded number
// of days.
type PauseMembershipRequest struct {
	Days   int    `json:"days" validate:"required,gte=1,lte=90"`
	Reason string `json:"reason" validate:"required"`
}

// ResumeMembershipRequest reactivates a paused membership. Extend credits
// the frozen days back onto the expiry date.
type ResumeMembershipRequest struct {
	Extend bool `json:"extend"`
}

// CancelMembershipRequest terminates a membership early.
type CancelMembershipRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// MembershipService drives the membership lifecycle. Assignment, payment and
// the member's account standing move together in one transaction; pause,
// resume and cancel are single-row state transitions guarded by the current
// state.
type MembershipService struct {
	memberships membershipRepo
	plans       membershipPlanRepo
	payments    membershipPaymentRepo
	members     membershipMemberRepo
	notifier    Notifier
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewMembershipService constructs MembershipService.
func NewMembershipService(
	memberships membershipRepo,
	plans membershipPlanRepo,
	payments membershipPaymentRepo,
	members membershipMemberRepo,
	notifier Notifier,
	validate *validator.Validate,
	logger *zap.Logger,
) *MembershipService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MembershipService{
		memberships: memberships,
		plans:       plans,
		payments:    payments,
		members:     members,
		notifier:    notifier,
		validate:    validate,
		logger:      logger,
	}
}

// Assign creates a new membership from the plan catalog. Any previous ACTIVE
// or PAUSED membership is demoted to EXPIRED in the same transaction, so the
// member never holds two current rows.
func (s *MembershipService) Assign(ctx context.Context, memberID string, req AssignMembershipRequest) (*models.Membership, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment")
	}

	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load member")
	}

	plan, err := s.plans.FindByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	if !plan.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "plan is no longer offered")
	}

	start := models.DateOnly(time.Now())
	if req.StartDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.StartDate, time.UTC)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD")
		}
		start = models.DateOnly(parsed)
	}

	membership := models.Membership{
		MemberID:   memberID,
		PlanID:     plan.ID,
		StartDate:  start,
		ExpiryDate: start.AddDate(0, 0, plan.DurationDays),
		State:      models.MembershipActive,
	}

	tx, err := s.memberships.BeginTx(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start assignment transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.memberships.DemoteCurrentTx(ctx, tx, memberID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to demote previous membership")
	}
	if err := s.memberships.InsertTx(ctx, tx, &membership); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store membership")
	}
	payment := models.Payment{
		MemberID:     memberID,
		MembershipID: membership.ID,
		Amount:       plan.Price,
		Method:       req.Method,
	}
	if err := s.payments.InsertTx(ctx, tx, &payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}
	if err := s.members.UpdateStatusTx(ctx, tx, memberID, models.MemberStatusActive); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update member standing")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit assignment")
	}

	s.logger.Info("membership assigned",
		zap.String("member_id", memberID),
		zap.String("plan_id", plan.ID),
		zap.Time("expiry", membership.ExpiryDate),
	)
	notify(ctx, s.notifier, s.logger, models.Notification{
		Audience: "member:" + memberID,
		Event:    "MEMBERSHIP_ASSIGNED",
		Title:    "Membership activated",
		Message:  fmt.Sprintf("Welcome back, %s. Your %s plan runs until %s", member.FullName, plan.Name, membership.ExpiryDate.Format("2006-01-02")),
	})

	return &membership, nil
}

// Pause freezes an ACTIVE membership. The frozen days are stored on the row
// so Resume can credit them back.
func (s *MembershipService) Pause(ctx context.Context, membershipID string, req PauseMembershipRequest) (*models.Membership, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pause")
	}

	membership, err := s.load(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if membership.State != models.MembershipActive {
		return nil, s.invalidTransition(membership.State, models.MembershipPaused)
	}

	membership.State = models.MembershipPaused
	membership.PausedDaysRemaining = req.Days
	membership.PauseReason = &req.Reason
	if err := s.memberships.Update(ctx, membership); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to pause membership")
	}

	notify(ctx, s.notifier, s.logger, models.Notification{
		Audience: "member:" + membership.MemberID,
		Event:    "MEMBERSHIP_PAUSED",
		Title:    "Membership paused",
		Message:  fmt.Sprintf("Your membership is paused for %d days", req.Days),
	})
	return membership, nil
}

// Resume reactivates a PAUSED membership. With extend set the expiry date
// moves forward by the frozen days, so the member loses no paid time.
func (s *MembershipService) Resume(ctx context.Context, membershipID string, req ResumeMembershipRequest) (*models.Membership, error) {
	membership, err := s.load(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if membership.State != models.MembershipPaused {
		return nil, s.invalidTransition(membership.State, models.MembershipActive)
	}

	if req.Extend && membership.PausedDaysRemaining > 0 {
		membership.ExpiryDate = membership.ExpiryDate.AddDate(0, 0, membership.PausedDaysRemaining)
	}
	membership.State = models.MembershipActive
	membership.PausedDaysRemaining = 0
	membership.PauseReason = nil
	if err := s.memberships.Update(ctx, membership); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resume membership")
	}

	notify(ctx, s.notifier, s.logger, models.Notification{
		Audience: "member:" + membership.MemberID,
		Event:    "MEMBERSHIP_RESUMED",
		Title:    "Membership resumed",
		Message:  fmt.Sprintf("Your membership now runs until %s", membership.ExpiryDate.Format("2006-01-02")),
	})
	return membership, nil
}

// Cancel terminates an ACTIVE or PAUSED membership. Terminal rows stay
// terminal; a new assignment is the only way forward.
func (s *MembershipService) Cancel(ctx context.Context, membershipID string, req CancelMembershipRequest) (*models.Membership, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cancellation")
	}

	membership, err := s.load(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if membership.State != models.MembershipActive && membership.State != models.MembershipPaused {
		return nil, s.invalidTransition(membership.State, models.MembershipCancelled)
	}

	membership.State = models.MembershipCancelled
	membership.PausedDaysRemaining = 0
	membership.CancelReason = &req.Reason
	if err := s.memberships.Update(ctx, membership); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel membership")
	}

	notify(ctx, s.notifier, s.logger, models.Notification{
		Audience: "member:" + membership.MemberID,
		Event:    "MEMBERSHIP_CANCELLED",
		Title:    "Membership cancelled",
		Message:  "Your membership has been cancelled",
	})
	return membership, nil
}

// Current returns the member's ACTIVE or PAUSED membership.
func (s *MembershipService) Current(ctx context.Context, memberID string) (*models.Membership, error) {
	membership, err := s.memberships.FindCurrentByMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member has no current membership")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load membership")
	}
	return membership, nil
}

// History returns the member's full membership history.
func (s *MembershipService) History(ctx context.Context, memberID string) ([]models.Membership, error) {
	list, err := s.memberships.ListByMember(ctx, memberID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load membership history")
	}
	return list, nil
}

func (s *MembershipService) load(ctx context.Context, membershipID string) (*models.Membership, error) {
	membership, err := s.memberships.FindByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "membership not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load membership")
	}
	return membership, nil
}

func (s *MembershipService) invalidTransition(from, to models.MembershipState) error {
	return appErrors.Clone(appErrors.ErrInvalidState,
		fmt.Sprintf("membership is %s, cannot move to %s", from, to))
}
