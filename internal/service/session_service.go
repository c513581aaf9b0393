package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gymops/gym-ops-api/internal/models"
	"github.com/gymops/gym-ops-api/internal/schedule"
	"github.com/gymops/gym-ops-api/pkg/config"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
	"github.com/gymops/gym-ops-api/pkg/lock"
)

type sessionRepo interface {
	FindByID(ctx context.Context, id string) (*models.PersonalSession, error)
	ListActiveByTrainerDate(ctx context.Context, trainerID string, date time.Time) ([]models.PersonalSession, error)
	ListByMember(ctx context.Context, memberID string) ([]models.PersonalSession, error)
	Create(ctx context.Context, s *models.PersonalSession) error
	UpdateState(ctx context.Context, id string, state models.SessionState) error
}

type sessionSlotRepo interface {
	ListActiveByOwnerWeekday(ctx context.Context, ownerID string, kind models.SlotKind, weekday int) ([]models.ScheduleSlot, error)
}

type sessionTrainerRepo interface {
	FindByID(ctx context.Context, id string) (*models.Trainer, error)
}

type sessionMemberRepo interface {
	FindByID(ctx context.Context, id string) (*models.Member, error)
}

// BookSessionRequest describes a one-off personal session booking attempt.
// Override acknowledges a previously reported soft conflict and forces the
// booking through.
type BookSessionRequest struct {
	TrainerID string  `json:"trainer_id" validate:"required"`
	MemberID  string  `json:"member_id" validate:"required"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	Override  bool    `json:"override"`
	Notes     *string `json:"notes,omitempty"`
}

// SessionService books and transitions personal training sessions. A session
// colliding with the trainer's class timetable is rejected outright; a
// collision with another personal session is reported back as a soft
// conflict the caller may override.
type SessionService struct {
	sessions sessionRepo
	slots    sessionSlotRepo
	trainers sessionTrainerRepo
	members  sessionMemberRepo
	locker   lock.Locker
	lockCfg  config.BookingConfig
	notifier Notifier
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSessionService constructs SessionService.
func NewSessionService(
	sessions sessionRepo,
	slots sessionSlotRepo,
	trainers sessionTrainerRepo,
	members sessionMemberRepo,
	locker lock.Locker,
	lockCfg config.BookingConfig,
	notifier Notifier,
	validate *validator.Validate,
	logger *zap.Logger,
) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	return &SessionService{
		sessions: sessions,
		slots:    slots,
		trainers: trainers,
		members:  members,
		locker:   locker,
		lockCfg:  lockCfg,
		notifier: notifier,
		validate: validate,
		logger:   logger,
	}
}

// Book attempts to schedule a personal session. The hard check against the
// trainer's class slots and the soft check against existing sessions both
// run under the trainer's schedule lock, so two concurrent bookings cannot
// slip past each other.
func (s *SessionService) Book(ctx context.Context, req BookSessionRequest) (*models.BookingResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking")
	}

	start := models.TimeOfDay(req.StartTime)
	end := models.TimeOfDay(req.EndTime)
	if !start.Valid() || !end.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "times must be HH:MM")
	}
	if !start.Before(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start time must be before end time")
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	trainer, err := s.trainers.FindByID(ctx, req.TrainerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}
	if !trainer.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "trainer is inactive")
	}
	if _, err := s.members.FindByID(ctx, req.MemberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load member")
	}

	key := trainerLockKey(req.TrainerID)
	if err := acquireLock(ctx, s.locker, s.lockCfg, key); err != nil {
		return nil, err
	}
	defer releaseLock(ctx, s.locker, s.logger, key)

	// Hard rule: the trainer cannot take a personal session during one of
	// their classes on that date.
	classSlots, err := s.slots.ListActiveByOwnerWeekday(ctx, req.TrainerID, models.SlotKindClass, int(models.DateOnly(date).Weekday()))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer classes")
	}
	for _, slot := range classSlots {
		if !slotRule(slot).AppliesOn(date) {
			continue
		}
		if schedule.OverlapsTime(start, end, slot.StartTime, slot.EndTime) {
			return nil, appErrors.Clone(appErrors.ErrTrainerUnavailable,
				fmt.Sprintf("trainer teaches a class %s-%s on %s", slot.StartTime, slot.EndTime, req.Date))
		}
	}

	// Soft rule: another personal session at the same hour needs explicit
	// confirmation, not a rejection.
	existing, err := s.sessions.ListActiveByTrainerDate(ctx, req.TrainerID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer sessions")
	}
	soft := 0
	for _, other := range existing {
		if schedule.OverlapsTime(start, end, other.StartTime, other.EndTime) {
			soft++
		}
	}
	if soft > 0 && !req.Override {
		return &models.BookingResult{Status: models.BookingSoftConflict, SoftConflicts: soft}, nil
	}

	session := models.PersonalSession{
		TrainerID: req.TrainerID,
		MemberID:  req.MemberID,
		Date:      models.DateOnly(date),
		StartTime: start,
		EndTime:   end,
		State:     models.SessionScheduled,
		Notes:     req.Notes,
	}
	if err := s.sessions.Create(ctx, &session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store session")
	}

	s.logger.Info("session booked",
		zap.String("session_id", session.ID),
		zap.String("trainer_id", req.TrainerID),
		zap.String("member_id", req.MemberID),
		zap.Int("overridden_conflicts", soft),
	)
	notify(ctx, s.notifier, s.logger, models.Notification{
		Audience: "trainer:" + req.TrainerID,
		Event:    "SESSION_BOOKED",
		Title:    "Personal session booked",
		Message:  fmt.Sprintf("Session on %s, %s-%s", req.Date, start, end),
	})

	return &models.BookingResult{Status: models.BookingBooked, Session: &session, SoftConflicts: soft}, nil
}

// Complete marks a scheduled session as held.
func (s *SessionService) Complete(ctx context.Context, id string) (*models.PersonalSession, error) {
	return s.transition(ctx, id, models.SessionCompleted)
}

// Cancel calls off a scheduled session.
func (s *SessionService) Cancel(ctx context.Context, id string) (*models.PersonalSession, error) {
	return s.transition(ctx, id, models.SessionCancelled)
}

// MarkNoShow records that the member did not attend.
func (s *SessionService) MarkNoShow(ctx context.Context, id string) (*models.PersonalSession, error) {
	return s.transition(ctx, id, models.SessionNoShow)
}

// transition moves a session out of SCHEDULED. Terminal states never move
// again.
func (s *SessionService) transition(ctx context.Context, id string, target models.SessionState) (*models.PersonalSession, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if session.State != models.SessionScheduled {
		return nil, appErrors.Clone(appErrors.ErrInvalidState,
			fmt.Sprintf("session is %s, only SCHEDULED sessions can change", session.State))
	}
	if err := s.sessions.UpdateState(ctx, id, target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}
	session.State = target
	return session, nil
}

// ListForMember returns a member's sessions, newest first.
func (s *SessionService) ListForMember(ctx context.Context, memberID string) ([]models.PersonalSession, error) {
	sessions, err := s.sessions.ListByMember(ctx, memberID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	return sessions, nil
}
