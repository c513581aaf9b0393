package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gymops/gym-ops-api/internal/models"
	"github.com/gymops/gym-ops-api/internal/schedule"
	"github.com/gymops/gym-ops-api/pkg/config"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
	"github.com/gymops/gym-ops-api/pkg/lock"
)

type shiftSlotRepo interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
	ListActiveByOwner(ctx context.Context, ownerID string, kind models.SlotKind) ([]models.ScheduleSlot, error)
	ListActiveByOwnerWeekday(ctx context.Context, ownerID string, kind models.SlotKind, weekday int) ([]models.ScheduleSlot, error)
	Create(ctx context.Context, slot *models.ScheduleSlot) error
	Deactivate(ctx context.Context, id string) error
}

type shiftTrainerRepo interface {
	FindByID(ctx context.Context, id string) (*models.Trainer, error)
}

// ShiftRequest describes a recurring reception desk shift on one weekday.
type ShiftRequest struct {
	Weekday    int    `json:"weekday" validate:"gte=0,lte=6"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
	ActiveFrom string `json:"active_from" validate:"required,datetime=2006-01-02"`
	ActiveTo   string `json:"active_to" validate:"required,datetime=2006-01-02"`
}

// ShiftService assigns reception desk shifts to trainers. A trainer's shifts
// must not overlap each other; distinct trainers may share a desk hour.
type ShiftService struct {
	slots    shiftSlotRepo
	trainers shiftTrainerRepo
	locker   lock.Locker
	lockCfg  config.BookingConfig
	notifier Notifier
	validate *validator.Validate
	logger   *zap.Logger
}

// NewShiftService constructs ShiftService.
func NewShiftService(
	slots shiftSlotRepo,
	trainers shiftTrainerRepo,
	locker lock.Locker,
	lockCfg config.BookingConfig,
	notifier Notifier,
	validate *validator.Validate,
	logger *zap.Logger,
) *ShiftService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	return &ShiftService{
		slots:    slots,
		trainers: trainers,
		locker:   locker,
		lockCfg:  lockCfg,
		notifier: notifier,
		validate: validate,
		logger:   logger,
	}
}

// Assign creates a reception shift for the trainer after checking that it
// does not overlap any of the trainer's existing shifts.
func (s *ShiftService) Assign(ctx context.Context, trainerID string, req ShiftRequest) (*models.ScheduleSlot, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid shift")
	}
	rule, err := parseRecurrence([]int{req.Weekday}, req.StartTime, req.EndTime, req.ActiveFrom, req.ActiveTo)
	if err != nil {
		return nil, err
	}

	trainer, err := s.trainers.FindByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}
	if !trainer.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "trainer is inactive")
	}

	key := trainerLockKey(trainerID)
	if err := acquireLock(ctx, s.locker, s.lockCfg, key); err != nil {
		return nil, err
	}
	defer releaseLock(ctx, s.locker, s.logger, key)

	existing, err := s.slots.ListActiveByOwnerWeekday(ctx, trainerID, models.SlotKindReception, req.Weekday)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer shifts")
	}
	for _, row := range existing {
		if !schedule.OverlapsDateRange(rule.ActiveFrom, rule.ActiveTo, row.ActiveFrom, row.ActiveTo) {
			continue
		}
		if !schedule.OverlapsTime(rule.Start, rule.End, row.StartTime, row.EndTime) {
			continue
		}
		return nil, wrapSlotConflict(&models.SlotConflictError{
			Weekday: req.Weekday,
			Message: fmt.Sprintf("trainer already covers the desk %s-%s on weekday %d", row.StartTime, row.EndTime, req.Weekday),
			Conflict: models.SlotConflict{
				SlotID:    row.ID,
				OwnerID:   row.OwnerID,
				Weekday:   row.Weekday,
				StartTime: row.StartTime,
				EndTime:   row.EndTime,
			},
		})
	}

	slot := models.ScheduleSlot{
		Kind:       models.SlotKindReception,
		OwnerID:    trainerID,
		Weekday:    req.Weekday,
		StartTime:  rule.Start,
		EndTime:    rule.End,
		ActiveFrom: rule.ActiveFrom,
		ActiveTo:   rule.ActiveTo,
	}
	if err := s.slots.Create(ctx, &slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store shift")
	}

	s.logger.Info("shift assigned",
		zap.String("trainer_id", trainerID),
		zap.Int("weekday", req.Weekday),
		zap.String("start", string(rule.Start)),
		zap.String("end", string(rule.End)),
	)
	notify(ctx, s.notifier, s.logger, models.Notification{
		Audience: "trainer:" + trainerID,
		Event:    "SHIFT_ASSIGNED",
		Title:    "Reception shift assigned",
		Message:  fmt.Sprintf("New desk shift on weekday %d, %s-%s", req.Weekday, rule.Start, rule.End),
	})

	return &slot, nil
}

// Remove retires a reception shift.
func (s *ShiftService) Remove(ctx context.Context, shiftID string) error {
	slot, err := s.slots.FindByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "shift not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift")
	}
	if slot.Kind != models.SlotKindReception {
		return appErrors.Clone(appErrors.ErrValidation, "slot is not a reception shift")
	}
	if err := s.slots.Deactivate(ctx, shiftID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to retire shift")
	}
	return nil
}

// ListByTrainer returns the trainer's active reception shifts.
func (s *ShiftService) ListByTrainer(ctx context.Context, trainerID string) ([]models.ScheduleSlot, error) {
	slots, err := s.slots.ListActiveByOwner(ctx, trainerID, models.SlotKindReception)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shifts")
	}
	return slots, nil
}
