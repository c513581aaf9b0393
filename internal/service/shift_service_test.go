package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gymops/gym-ops-api/internal/models"
	"github.com/gymops/gym-ops-api/pkg/config"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
)

type trainerRepoStub struct {
	trainers map[string]models.Trainer
}

func (s *trainerRepoStub) FindByID(ctx context.Context, id string) (*models.Trainer, error) {
	if tr, ok := s.trainers[id]; ok {
		return &tr, nil
	}
	return nil, sql.ErrNoRows
}

func receptionSlot(id, trainerID string, weekday int, start, end models.TimeOfDay) models.ScheduleSlot {
	return models.ScheduleSlot{
		ID:         id,
		Kind:       models.SlotKindReception,
		OwnerID:    trainerID,
		Weekday:    weekday,
		StartTime:  start,
		EndTime:    end,
		ActiveFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ActiveTo:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Active:     true,
	}
}

func newShiftFixture(slots *slotRepoStub) *ShiftService {
	trainers := &trainerRepoStub{trainers: map[string]models.Trainer{
		"t1": {ID: "t1", FullName: "Ana", Active: true},
		"t2": {ID: "t2", FullName: "Luis", Active: true},
	}}
	return NewShiftService(slots, trainers, nil, config.BookingConfig{}, nil, validator.New(), zap.NewNop())
}

func TestShiftServiceAssign(t *testing.T) {
	slots := &slotRepoStub{}
	svc := newShiftFixture(slots)

	shift, err := svc.Assign(context.Background(), "t1", ShiftRequest{
		Weekday:    2,
		StartTime:  "09:00",
		EndTime:    "13:00",
		ActiveFrom: "2025-01-01",
		ActiveTo:   "2025-06-30",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SlotKindReception, shift.Kind)
	assert.Equal(t, "t1", shift.OwnerID)
	assert.Len(t, slots.created, 1)
}

func TestShiftServiceAssignOverlapRejected(t *testing.T) {
	slots := &slotRepoStub{slots: []models.ScheduleSlot{
		receptionSlot("r1", "t1", 2, "09:00", "13:00"),
	}}
	svc := newShiftFixture(slots)

	_, err := svc.Assign(context.Background(), "t1", ShiftRequest{
		Weekday:    2,
		StartTime:  "12:00",
		EndTime:    "16:00",
		ActiveFrom: "2025-01-01",
		ActiveTo:   "2025-06-30",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, slots.created)
}

func TestShiftServiceDistinctTrainersShareHour(t *testing.T) {
	slots := &slotRepoStub{slots: []models.ScheduleSlot{
		receptionSlot("r1", "t1", 2, "09:00", "13:00"),
	}}
	svc := newShiftFixture(slots)

	_, err := svc.Assign(context.Background(), "t2", ShiftRequest{
		Weekday:    2,
		StartTime:  "09:00",
		EndTime:    "13:00",
		ActiveFrom: "2025-01-01",
		ActiveTo:   "2025-06-30",
	})
	require.NoError(t, err)
}

func TestShiftServiceDegenerateIntervalRejected(t *testing.T) {
	svc := newShiftFixture(&slotRepoStub{})

	_, err := svc.Assign(context.Background(), "t1", ShiftRequest{
		Weekday:    2,
		StartTime:  "13:00",
		EndTime:    "09:00",
		ActiveFrom: "2025-01-01",
		ActiveTo:   "2025-06-30",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestShiftServiceRemoveWrongKind(t *testing.T) {
	slots := &slotRepoStub{slots: []models.ScheduleSlot{
		classSlot("s1", "t1", "spinning", 1, "07:00", "08:00"),
	}}
	svc := newShiftFixture(slots)

	err := svc.Remove(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
