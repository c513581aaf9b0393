package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gymops/gym-ops-api/internal/models"
	"github.com/gymops/gym-ops-api/pkg/config"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
)

func newServiceTxMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

type slotRepoStub struct {
	db          *sqlx.DB
	slots       []models.ScheduleSlot
	created     []models.ScheduleSlot
	deactivated []string
}

func (s *slotRepoStub) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	for _, slot := range s.slots {
		if slot.ID == id {
			found := slot
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *slotRepoStub) ListActiveByOwner(ctx context.Context, ownerID string, kind models.SlotKind) ([]models.ScheduleSlot, error) {
	var out []models.ScheduleSlot
	for _, slot := range s.slots {
		if slot.OwnerID == ownerID && slot.Kind == kind && slot.Active {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *slotRepoStub) ListActiveByOwnerWeekday(ctx context.Context, ownerID string, kind models.SlotKind, weekday int) ([]models.ScheduleSlot, error) {
	var out []models.ScheduleSlot
	for _, slot := range s.slots {
		if slot.OwnerID == ownerID && slot.Kind == kind && slot.Weekday == weekday && slot.Active {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *slotRepoStub) ListActiveByClass(ctx context.Context, classID string) ([]models.ScheduleSlot, error) {
	var out []models.ScheduleSlot
	for _, slot := range s.slots {
		if slot.ClassID != nil && *slot.ClassID == classID && slot.Active {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *slotRepoStub) Create(ctx context.Context, slot *models.ScheduleSlot) error {
	slot.ID = "slot-" + string(slot.StartTime)
	slot.Active = true
	s.created = append(s.created, *slot)
	s.slots = append(s.slots, *slot)
	return nil
}

func (s *slotRepoStub) CreateTx(ctx context.Context, tx *sqlx.Tx, slot *models.ScheduleSlot) error {
	return s.Create(ctx, slot)
}

func (s *slotRepoStub) DeactivateByClassTx(ctx context.Context, tx *sqlx.Tx, classID string) error {
	s.deactivated = append(s.deactivated, classID)
	for i := range s.slots {
		if s.slots[i].ClassID != nil && *s.slots[i].ClassID == classID {
			s.slots[i].Active = false
		}
	}
	return nil
}

func (s *slotRepoStub) Deactivate(ctx context.Context, id string) error {
	for i := range s.slots {
		if s.slots[i].ID == id {
			s.slots[i].Active = false
		}
	}
	return nil
}

func (s *slotRepoStub) UpdateOwnerTx(ctx context.Context, tx *sqlx.Tx, slotID, ownerID string) error {
	for i := range s.slots {
		if s.slots[i].ID == slotID {
			s.slots[i].OwnerID = ownerID
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *slotRepoStub) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return s.db.Beginx()
}

type classRepoStub struct {
	classes map[string]models.Class
}

func (s *classRepoStub) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if c, ok := s.classes[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

type deniedLocker struct{}

func (deniedLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return false, nil
}

func (deniedLocker) Release(ctx context.Context, key string) error { return nil }

func classSlot(id, trainerID, classID string, weekday int, start, end models.TimeOfDay) models.ScheduleSlot {
	return models.ScheduleSlot{
		ID:         id,
		Kind:       models.SlotKindClass,
		OwnerID:    trainerID,
		ClassID:    &classID,
		Weekday:    weekday,
		StartTime:  start,
		EndTime:    end,
		ActiveFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ActiveTo:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Active:     true,
	}
}

func newClassScheduleFixture(t *testing.T, slots *slotRepoStub) (*ClassScheduleService, sqlmock.Sqlmock, func()) {
	db, mock, cleanup := newServiceTxMock(t)
	slots.db = db
	classes := &classRepoStub{classes: map[string]models.Class{
		"spinning": {ID: "spinning", Name: "Spinning", TrainerID: "t1", Capacity: 20, Active: true},
		"crossfit": {ID: "crossfit", Name: "CrossFit", TrainerID: "t1", Capacity: 15, Active: true},
	}}
	svc := NewClassScheduleService(slots, classes, nil, config.BookingConfig{}, nil, validator.New(), zap.NewNop())
	return svc, mock, cleanup
}

func TestClassScheduleServiceCreateRule(t *testing.T) {
	slots := &slotRepoStub{}
	svc, mock, cleanup := newClassScheduleFixture(t, slots)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectCommit()

	created, err := svc.CreateRule(context.Background(), "spinning", ClassRuleRequest{
		Weekdays:   []int{1, 5},
		StartTime:  "07:00",
		EndTime:    "08:00",
		ActiveFrom: "2025-01-01",
		ActiveTo:   "2025-03-31",
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, 1, created[0].Weekday)
	assert.Equal(t, 5, created[1].Weekday)
	assert.Equal(t, models.SlotKindClass, created[0].Kind)
	assert.Equal(t, "t1", created[0].OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassScheduleServiceCreateRuleConflict(t *testing.T) {
	slots := &slotRepoStub{slots: []models.ScheduleSlot{
		classSlot("s1", "t1", "crossfit", 1, "07:30", "08:30"),
	}}
	svc, _, cleanup := newClassScheduleFixture(t, slots)
	defer cleanup()

	_, err := svc.CreateRule(context.Background(), "spinning", ClassRuleRequest{
		Weekdays:   []int{1, 5},
		StartTime:  "07:00",
		EndTime:    "08:00",
		ActiveFrom: "2025-01-01",
		ActiveTo:   "2025-03-31",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, slots.created)
}

func TestClassScheduleServiceTouchingIntervalsAllowed(t *testing.T) {
	slots := &slotRepoStub{slots: []models.ScheduleSlot{
		classSlot("s1", "t1", "crossfit", 1, "08:00", "09:00"),
	}}
	svc, mock, cleanup := newClassScheduleFixture(t, slots)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectCommit()

	created, err := svc.CreateRule(context.Background(), "spinning", ClassRuleRequest{
		Weekdays:   []int{1},
		StartTime:  "07:00",
		EndTime:    "08:00",
		ActiveFrom: "2025-01-01",
		ActiveTo:   "2025-03-31",
	})
	require.NoError(t, err)
	assert.Len(t, created, 1)
}

func TestClassScheduleServiceDisjointWindowsAllowed(t *testing.T) {
	existing := classSlot("s1", "t1", "crossfit", 1, "07:00", "08:00")
	existing.ActiveFrom = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	existing.ActiveTo = time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	slots := &slotRepoStub{slots: []models.ScheduleSlot{existing}}
	svc, mock, cleanup := newClassScheduleFixture(t, slots)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.CreateRule(context.Background(), "spinning", ClassRuleRequest{
		Weekdays:   []int{1},
		StartTime:  "07:00",
		EndTime:    "08:00",
		ActiveFrom: "2025-03-01",
		ActiveTo:   "2025-04-30",
	})
	require.NoError(t, err)
}

func TestClassScheduleServiceReplaceRuleIgnoresOwnRows(t *testing.T) {
	slots := &slotRepoStub{slots: []models.ScheduleSlot{
		classSlot("s1", "t1", "spinning", 1, "07:00", "08:00"),
		classSlot("s2", "t1", "spinning", 3, "07:00", "08:00"),
	}}
	svc, mock, cleanup := newClassScheduleFixture(t, slots)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectCommit()

	created, err := svc.ReplaceRule(context.Background(), "spinning", ClassRuleRequest{
		Weekdays:   []int{1, 3},
		StartTime:  "07:30",
		EndTime:    "08:30",
		ActiveFrom: "2025-01-01",
		ActiveTo:   "2025-06-30",
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Equal(t, []string{"spinning"}, slots.deactivated)
}

func TestClassScheduleServiceReplaceRuleConflictKeepsOldRule(t *testing.T) {
	slots := &slotRepoStub{slots: []models.ScheduleSlot{
		classSlot("s1", "t1", "spinning", 1, "07:00", "08:00"),
		classSlot("s2", "t1", "crossfit", 2, "10:00", "11:00"),
	}}
	svc, _, cleanup := newClassScheduleFixture(t, slots)
	defer cleanup()

	_, err := svc.ReplaceRule(context.Background(), "spinning", ClassRuleRequest{
		Weekdays:   []int{2},
		StartTime:  "10:30",
		EndTime:    "11:30",
		ActiveFrom: "2025-01-01",
		ActiveTo:   "2025-06-30",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErrors.FromError(err).Code)
	// The previous rule was never touched.
	assert.Empty(t, slots.deactivated)
	assert.True(t, slots.slots[0].Active)
}

func TestClassScheduleServiceDegenerateIntervalRejected(t *testing.T) {
	slots := &slotRepoStub{}
	svc, _, cleanup := newClassScheduleFixture(t, slots)
	defer cleanup()

	_, err := svc.CreateRule(context.Background(), "spinning", ClassRuleRequest{
		Weekdays:   []int{1},
		StartTime:  "08:00",
		EndTime:    "08:00",
		ActiveFrom: "2025-01-01",
		ActiveTo:   "2025-03-31",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestClassScheduleServiceLockUnavailable(t *testing.T) {
	db, _, cleanup := newServiceTxMock(t)
	defer cleanup()
	slots := &slotRepoStub{db: db}
	classes := &classRepoStub{classes: map[string]models.Class{
		"spinning": {ID: "spinning", Name: "Spinning", TrainerID: "t1", Active: true},
	}}
	svc := NewClassScheduleService(slots, classes, deniedLocker{}, config.BookingConfig{}, nil, validator.New(), zap.NewNop())

	_, err := svc.CreateRule(context.Background(), "spinning", ClassRuleRequest{
		Weekdays:   []int{1},
		StartTime:  "07:00",
		EndTime:    "08:00",
		ActiveFrom: "2025-01-01",
		ActiveTo:   "2025-03-31",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrLockUnavailable.Code, appErrors.FromError(err).Code)
}

func TestClassScheduleServiceTrainerWeek(t *testing.T) {
	shift := models.ScheduleSlot{
		ID: "r1", Kind: models.SlotKindReception, OwnerID: "t1", Weekday: 1,
		StartTime: "12:00", EndTime: "16:00",
		ActiveFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ActiveTo:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Active:     true,
	}
	slots := &slotRepoStub{slots: []models.ScheduleSlot{
		classSlot("s1", "t1", "spinning", 1, "07:00", "08:00"),
		classSlot("s2", "t1", "spinning", 5, "07:00", "08:00"),
		shift,
	}}
	svc, _, cleanup := newClassScheduleFixture(t, slots)
	defer cleanup()

	// 2025-01-06 is a Monday.
	week, err := svc.TrainerWeek(context.Background(), "t1", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, week, 3)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), week[0].Date)
	assert.Equal(t, models.SlotKindClass, week[0].Kind)
	assert.Equal(t, models.SlotKindReception, week[1].Kind)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), week[2].Date)
}
