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
	"github.com/gymops/gym-ops-api/pkg/config"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
	"github.com/gymops/gym-ops-api/pkg/lock"
)

type reservationOccurrenceRepo interface {
	FindByID(ctx context.Context, id string) (*models.OccurrenceWithOccupancy, error)
	FindBySlotDate(ctx context.Context, slotID string, date time.Time) (*models.ClassOccurrence, error)
	Create(ctx context.Context, occ *models.ClassOccurrence) error
	ListWeekByClass(ctx context.Context, classID string, weekStart time.Time) ([]models.OccurrenceWithOccupancy, error)
}

type reservationRepo interface {
	FindByID(ctx context.Context, id string) (*models.ClassReservation, error)
	CountActive(ctx context.Context, occurrenceID string) (int, error)
	HasActiveForMember(ctx context.Context, occurrenceID, memberID string) (bool, error)
	Create(ctx context.Context, res *models.ClassReservation) error
	UpdateState(ctx context.Context, id string, state models.ReservationState) error
}

type reservationSlotRepo interface {
	ListActiveByClass(ctx context.Context, classID string) ([]models.ScheduleSlot, error)
}

type reservationClassRepo interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type reservationMembershipRepo interface {
	FindCurrentByMember(ctx context.Context, memberID string) (*models.Membership, error)
}

// ReserveSeatRequest books a seat on a class occurrence, identified by the
// class and the calendar date. The occurrence is materialized on demand from
// the class rule.
type ReserveSeatRequest struct {
	ClassID  string `json:"class_id" validate:"required"`
	MemberID string `json:"member_id" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
}

// ReservationService books seats on class occurrences. Occupancy is always
// derived from reservation rows; the capacity check runs under a per
// occurrence lock so two concurrent requests cannot claim the last seat.
type ReservationService struct {
	occurrences reservationOccurrenceRepo
	reservation reservationRepo
	slots       reservationSlotRepo
	classes     reservationClassRepo
	memberships reservationMembershipRepo
	locker      lock.Locker
	lockCfg     config.BookingConfig
	notifier    Notifier
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewReservationService constructs ReservationService.
func NewReservationService(
	occurrences reservationOccurrenceRepo,
	reservation reservationRepo,
	slots reservationSlotRepo,
	classes reservationClassRepo,
	memberships reservationMembershipRepo,
	locker lock.Locker,
	lockCfg config.BookingConfig,
	notifier Notifier,
	validate *validator.Validate,
	logger *zap.Logger,
) *ReservationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	return &ReservationService{
		occurrences: occurrences,
		reservation: reservation,
		slots:       slots,
		classes:     classes,
		memberships: memberships,
		locker:      locker,
		lockCfg:     lockCfg,
		notifier:    notifier,
		validate:    validate,
		logger:      logger,
	}
}

// Reserve books a seat. The member must hold an ACTIVE membership, must not
// already hold a seat on the occurrence, and the class must have capacity
// left.
func (s *ReservationService) Reserve(ctx context.Context, req ReserveSeatRequest) (*models.ClassReservation, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reservation")
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	membership, err := s.memberships.FindCurrentByMember(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "member has no current membership")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load membership")
	}
	if membership.State != models.MembershipActive {
		return nil, appErrors.Clone(appErrors.ErrForbidden,
			fmt.Sprintf("membership is %s, only ACTIVE members can reserve", membership.State))
	}

	class, err := s.classes.FindByID(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	occurrence, err := s.materialize(ctx, class.ID, date)
	if err != nil {
		return nil, err
	}

	key := occurrenceLockKey(occurrence.ID)
	if err := acquireLock(ctx, s.locker, s.lockCfg, key); err != nil {
		return nil, err
	}
	defer releaseLock(ctx, s.locker, s.logger, key)

	already, err := s.reservation.HasActiveForMember(ctx, occurrence.ID, req.MemberID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check reservations")
	}
	if already {
		return nil, appErrors.Clone(appErrors.ErrConflict, "member already holds a seat on this occurrence")
	}

	occupied, err := s.reservation.CountActive(ctx, occurrence.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count occupancy")
	}
	if occupied >= class.Capacity {
		return nil, appErrors.Clone(appErrors.ErrCapacityFull, "")
	}

	reservation := models.ClassReservation{
		OccurrenceID: occurrence.ID,
		MemberID:     req.MemberID,
		State:        models.ReservationReserved,
	}
	if err := s.reservation.Create(ctx, &reservation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store reservation")
	}

	s.logger.Info("seat reserved",
		zap.String("reservation_id", reservation.ID),
		zap.String("class_id", class.ID),
		zap.String("member_id", req.MemberID),
		zap.Int("occupied", occupied+1),
		zap.Int("capacity", class.Capacity),
	)
	notify(ctx, s.notifier, s.logger, models.Notification{
		Audience: "member:" + req.MemberID,
		Event:    "SEAT_RESERVED",
		Title:    "Seat reserved",
		Message:  fmt.Sprintf("You are in %s on %s", class.Name, req.Date),
	})

	return &reservation, nil
}

// CancelReservation frees the seat. Only RESERVED seats can be freed.
func (s *ReservationService) CancelReservation(ctx context.Context, id string) (*models.ClassReservation, error) {
	return s.transition(ctx, id, models.ReservationCancelled)
}

// MarkAttended checks the member in.
func (s *ReservationService) MarkAttended(ctx context.Context, id string) (*models.ClassReservation, error) {
	return s.transition(ctx, id, models.ReservationAttended)
}

func (s *ReservationService) transition(ctx context.Context, id string, target models.ReservationState) (*models.ClassReservation, error) {
	reservation, err := s.reservation.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservation")
	}
	if reservation.State != models.ReservationReserved {
		return nil, appErrors.Clone(appErrors.ErrInvalidState,
			fmt.Sprintf("reservation is %s, only RESERVED seats can change", reservation.State))
	}
	if err := s.reservation.UpdateState(ctx, id, target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update reservation")
	}
	reservation.State = target
	return reservation, nil
}

// WeekOccupancy returns the class occurrences of a 7-day window with derived
// seat counts.
func (s *ReservationService) WeekOccupancy(ctx context.Context, classID string, weekStart time.Time) ([]models.OccurrenceWithOccupancy, error) {
	list, err := s.occurrences.ListWeekByClass(ctx, classID, weekStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load occurrences")
	}
	return list, nil
}

// materialize resolves the occurrence of a class on a date, creating the row
// on first touch. The date must fall on an active rule weekday inside the
// rule's window.
func (s *ReservationService) materialize(ctx context.Context, classID string, date time.Time) (*models.ClassOccurrence, error) {
	slots, err := s.slots.ListActiveByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class rule")
	}
	for _, slot := range slots {
		if !slotRule(slot).AppliesOn(date) {
			continue
		}
		occurrence, err := s.occurrences.FindBySlotDate(ctx, slot.ID, date)
		if err == nil {
			return occurrence, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load occurrence")
		}
		occurrence = &models.ClassOccurrence{
			ClassID:   classID,
			SlotID:    slot.ID,
			Date:      models.DateOnly(date),
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		}
		if err := s.occurrences.Create(ctx, occurrence); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to materialize occurrence")
		}
		return occurrence, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "class does not meet on that date")
}
