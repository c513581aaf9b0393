package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/gymops/gym-ops-api/internal/models"
	"github.com/gymops/gym-ops-api/internal/schedule"
	"github.com/gymops/gym-ops-api/pkg/config"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
	"github.com/gymops/gym-ops-api/pkg/lock"
)

type classSlotRepo interface {
	ListActiveByOwner(ctx context.Context, ownerID string, kind models.SlotKind) ([]models.ScheduleSlot, error)
	ListActiveByOwnerWeekday(ctx context.Context, ownerID string, kind models.SlotKind, weekday int) ([]models.ScheduleSlot, error)
	ListActiveByClass(ctx context.Context, classID string) ([]models.ScheduleSlot, error)
	CreateTx(ctx context.Context, tx *sqlx.Tx, slot *models.ScheduleSlot) error
	DeactivateByClassTx(ctx context.Context, tx *sqlx.Tx, classID string) error
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
}

type classCatalogRepo interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// ClassRuleRequest describes the weekly recurrence of a class: one fixed
// time range on one or more weekdays, active between two dates inclusive.
type ClassRuleRequest struct {
	Weekdays   []int  `json:"weekdays" validate:"required,min=1,max=7,dive,gte=0,lte=6"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
	ActiveFrom string `json:"active_from" validate:"required,datetime=2006-01-02"`
	ActiveTo   string `json:"active_to" validate:"required,datetime=2006-01-02"`
}

// SlotOccurrence is one concrete calendar-dated entry of a trainer's week.
type SlotOccurrence struct {
	SlotID  string           `json:"slot_id"`
	Kind    models.SlotKind  `json:"kind"`
	ClassID *string          `json:"class_id,omitempty"`
	Date    time.Time        `json:"date"`
	Start   models.TimeOfDay `json:"start_time"`
	End     models.TimeOfDay `json:"end_time"`
}

// ClassScheduleService maintains the recurring class rules of the timetable.
// Every write runs under the owning trainer's schedule lock so that the
// conflict check and the persisted rows cannot be separated by a concurrent
// writer.
type ClassScheduleService struct {
	slots    classSlotRepo
	classes  classCatalogRepo
	locker   lock.Locker
	lockCfg  config.BookingConfig
	notifier Notifier
	validate *validator.Validate
	logger   *zap.Logger
}

// NewClassScheduleService constructs ClassScheduleService.
func NewClassScheduleService(
	slots classSlotRepo,
	classes classCatalogRepo,
	locker lock.Locker,
	lockCfg config.BookingConfig,
	notifier Notifier,
	validate *validator.Validate,
	logger *zap.Logger,
) *ClassScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	return &ClassScheduleService{
		slots:    slots,
		classes:  classes,
		locker:   locker,
		lockCfg:  lockCfg,
		notifier: notifier,
		validate: validate,
		logger:   logger,
	}
}

// CreateRule validates and persists the recurrence rule of a class that has
// no active rule yet.
func (s *ClassScheduleService) CreateRule(ctx context.Context, classID string, req ClassRuleRequest) ([]models.ScheduleSlot, error) {
	return s.saveRule(ctx, classID, req, false)
}

// ReplaceRule swaps a class rule for a new one. The proposed rows are
// validated against every other class of the trainer before the old rows are
// touched: a rejected edit leaves the previous rule fully in place.
func (s *ClassScheduleService) ReplaceRule(ctx context.Context, classID string, req ClassRuleRequest) ([]models.ScheduleSlot, error) {
	return s.saveRule(ctx, classID, req, true)
}

func (s *ClassScheduleService) saveRule(ctx context.Context, classID string, req ClassRuleRequest, replace bool) ([]models.ScheduleSlot, error) {
	rule, err := s.parseRule(req)
	if err != nil {
		return nil, err
	}

	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if !class.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class is inactive")
	}

	key := trainerLockKey(class.TrainerID)
	if err := acquireLock(ctx, s.locker, s.lockCfg, key); err != nil {
		return nil, err
	}
	defer releaseLock(ctx, s.locker, s.logger, key)

	if err := s.ensureNoClassConflict(ctx, class.TrainerID, classID, rule); err != nil {
		return nil, err
	}

	tx, err := s.slots.BeginTx(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start schedule transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if replace {
		if err := s.slots.DeactivateByClassTx(ctx, tx, classID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to retire previous rule")
		}
	}

	created := make([]models.ScheduleSlot, 0, len(rule.Weekdays))
	for _, wd := range rule.Weekdays {
		slot := models.ScheduleSlot{
			Kind:       models.SlotKindClass,
			OwnerID:    class.TrainerID,
			ClassID:    &class.ID,
			Weekday:    int(wd),
			StartTime:  rule.Start,
			EndTime:    rule.End,
			ActiveFrom: rule.ActiveFrom,
			ActiveTo:   rule.ActiveTo,
		}
		if err := s.slots.CreateTx(ctx, tx, &slot); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store schedule slot")
		}
		created = append(created, slot)
	}

	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule transaction")
	}

	s.logger.Info("class rule saved",
		zap.String("class_id", classID),
		zap.String("trainer_id", class.TrainerID),
		zap.Int("weekdays", len(created)),
		zap.Bool("replace", replace),
	)
	notify(ctx, s.notifier, s.logger, models.Notification{
		Audience: "class:" + classID,
		Event:    "CLASS_SCHEDULE_UPDATED",
		Title:    "Class schedule updated",
		Message:  fmt.Sprintf("The schedule of %s has changed", class.Name),
	})

	return created, nil
}

// RemoveRule retires the active rule of a class.
func (s *ClassScheduleService) RemoveRule(ctx context.Context, classID string) error {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	key := trainerLockKey(class.TrainerID)
	if err := acquireLock(ctx, s.locker, s.lockCfg, key); err != nil {
		return err
	}
	defer releaseLock(ctx, s.locker, s.logger, key)

	tx, err := s.slots.BeginTx(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start schedule transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.slots.DeactivateByClassTx(ctx, tx, classID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to retire rule")
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule transaction")
	}
	return nil
}

// ClassRule returns the active slot rows of a class.
func (s *ClassScheduleService) ClassRule(ctx context.Context, classID string) ([]models.ScheduleSlot, error) {
	slots, err := s.slots.ListActiveByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class rule")
	}
	return slots, nil
}

// TrainerWeek expands every active commitment of a trainer (classes and
// reception shifts) over the 7-day window starting at weekStart. The
// expansion is recomputed from the current rules on each call.
func (s *ClassScheduleService) TrainerWeek(ctx context.Context, trainerID string, weekStart time.Time) ([]SlotOccurrence, error) {
	var out []SlotOccurrence
	for _, kind := range []models.SlotKind{models.SlotKindClass, models.SlotKindReception} {
		slots, err := s.slots.ListActiveByOwner(ctx, trainerID, kind)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer slots")
		}
		for _, slot := range slots {
			rule := slotRule(slot)
			for _, occ := range rule.WeekOccurrences(weekStart) {
				out = append(out, SlotOccurrence{
					SlotID:  slot.ID,
					Kind:    slot.Kind,
					ClassID: slot.ClassID,
					Date:    occ.Date,
					Start:   occ.Start,
					End:     occ.End,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

// ensureNoClassConflict rejects the proposed rule when any weekday overlaps
// an active class slot of the same trainer. Rows belonging to excludeClassID
// are skipped so an edit is not blocked by the rule it replaces.
func (s *ClassScheduleService) ensureNoClassConflict(ctx context.Context, trainerID, excludeClassID string, rule schedule.Rule) error {
	for _, wd := range rule.Weekdays {
		existing, err := s.slots.ListActiveByOwnerWeekday(ctx, trainerID, models.SlotKindClass, int(wd))
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer slots")
		}
		for _, row := range existing {
			if row.ClassID != nil && *row.ClassID == excludeClassID {
				continue
			}
			if !schedule.OverlapsDateRange(rule.ActiveFrom, rule.ActiveTo, row.ActiveFrom, row.ActiveTo) {
				continue
			}
			if !schedule.OverlapsTime(rule.Start, rule.End, row.StartTime, row.EndTime) {
				continue
			}
			return wrapSlotConflict(&models.SlotConflictError{
				Weekday: int(wd),
				Message: fmt.Sprintf("trainer already teaches %s-%s on weekday %d", row.StartTime, row.EndTime, int(wd)),
				Conflict: models.SlotConflict{
					SlotID:    row.ID,
					OwnerID:   row.OwnerID,
					ClassID:   row.ClassID,
					Weekday:   row.Weekday,
					StartTime: row.StartTime,
					EndTime:   row.EndTime,
				},
			})
		}
	}
	return nil
}

func (s *ClassScheduleService) parseRule(req ClassRuleRequest) (schedule.Rule, error) {
	if err := s.validate.Struct(req); err != nil {
		return schedule.Rule{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule rule")
	}
	return parseRecurrence(req.Weekdays, req.StartTime, req.EndTime, req.ActiveFrom, req.ActiveTo)
}

// parseRecurrence turns transport-level strings into a schedule.Rule,
// rejecting malformed times, degenerate intervals and inverted date windows.
func parseRecurrence(weekdays []int, startTime, endTime, activeFrom, activeTo string) (schedule.Rule, error) {
	start := models.TimeOfDay(startTime)
	end := models.TimeOfDay(endTime)
	if !start.Valid() || !end.Valid() {
		return schedule.Rule{}, appErrors.Clone(appErrors.ErrValidation, "times must be HH:MM")
	}
	if !start.Before(end) {
		return schedule.Rule{}, appErrors.Clone(appErrors.ErrValidation, "start time must be before end time")
	}

	from, err := time.ParseInLocation("2006-01-02", activeFrom, time.UTC)
	if err != nil {
		return schedule.Rule{}, appErrors.Clone(appErrors.ErrValidation, "active_from must be YYYY-MM-DD")
	}
	to, err := time.ParseInLocation("2006-01-02", activeTo, time.UTC)
	if err != nil {
		return schedule.Rule{}, appErrors.Clone(appErrors.ErrValidation, "active_to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return schedule.Rule{}, appErrors.Clone(appErrors.ErrValidation, "active_to must not precede active_from")
	}

	seen := make(map[time.Weekday]bool, len(weekdays))
	days := make([]time.Weekday, 0, len(weekdays))
	for _, raw := range weekdays {
		wd, err := models.ParseWeekday(raw)
		if err != nil {
			return schedule.Rule{}, appErrors.Clone(appErrors.ErrValidation, "weekday out of range")
		}
		if seen[wd] {
			continue
		}
		seen[wd] = true
		days = append(days, wd)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	return schedule.Rule{
		Weekdays:   days,
		Start:      start,
		End:        end,
		ActiveFrom: from,
		ActiveTo:   to,
	}, nil
}

func slotRule(slot models.ScheduleSlot) schedule.Rule {
	return schedule.Rule{
		Weekdays:   []time.Weekday{time.Weekday(slot.Weekday)},
		Start:      slot.StartTime,
		End:        slot.EndTime,
		ActiveFrom: slot.ActiveFrom,
		ActiveTo:   slot.ActiveTo,
	}
}

func wrapSlotConflict(conflict *models.SlotConflictError) error {
	return appErrors.Wrap(conflict, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status, conflict.Message)
}
