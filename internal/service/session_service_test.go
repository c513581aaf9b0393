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

type sessionRepoStub struct {
	sessions map[string]models.PersonalSession
	created  *models.PersonalSession
	states   map[string]models.SessionState
}

func (s *sessionRepoStub) FindByID(ctx context.Context, id string) (*models.PersonalSession, error) {
	if sess, ok := s.sessions[id]; ok {
		return &sess, nil
	}
	return nil, sql.ErrNoRows
}

func (s *sessionRepoStub) ListActiveByTrainerDate(ctx context.Context, trainerID string, date time.Time) ([]models.PersonalSession, error) {
	var out []models.PersonalSession
	for _, sess := range s.sessions {
		if sess.TrainerID == trainerID && sess.Date.Equal(models.DateOnly(date)) && sess.State != models.SessionCancelled {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *sessionRepoStub) ListByMember(ctx context.Context, memberID string) ([]models.PersonalSession, error) {
	var out []models.PersonalSession
	for _, sess := range s.sessions {
		if sess.MemberID == memberID {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *sessionRepoStub) Create(ctx context.Context, sess *models.PersonalSession) error {
	if s.sessions == nil {
		s.sessions = make(map[string]models.PersonalSession)
	}
	if sess.ID == "" {
		sess.ID = "new-session"
	}
	s.sessions[sess.ID] = *sess
	s.created = sess
	return nil
}

func (s *sessionRepoStub) UpdateState(ctx context.Context, id string, state models.SessionState) error {
	if s.states == nil {
		s.states = make(map[string]models.SessionState)
	}
	s.states[id] = state
	if sess, ok := s.sessions[id]; ok {
		sess.State = state
		s.sessions[id] = sess
	}
	return nil
}

type memberRepoStub struct {
	members map[string]models.Member
}

func (s *memberRepoStub) FindByID(ctx context.Context, id string) (*models.Member, error) {
	if m, ok := s.members[id]; ok {
		return &m, nil
	}
	return nil, sql.ErrNoRows
}

func newSessionFixture(sessions *sessionRepoStub, slots *slotRepoStub) *SessionService {
	trainers := &trainerRepoStub{trainers: map[string]models.Trainer{
		"t1": {ID: "t1", FullName: "Ana", Active: true},
	}}
	members := &memberRepoStub{members: map[string]models.Member{
		"m1": {ID: "m1", FullName: "Pedro", Status: models.MemberStatusActive},
	}}
	return NewSessionService(sessions, slots, trainers, members, nil, config.BookingConfig{}, nil, validator.New(), zap.NewNop())
}

func TestSessionServiceBook(t *testing.T) {
	sessions := &sessionRepoStub{}
	svc := newSessionFixture(sessions, &slotRepoStub{})

	result, err := svc.Book(context.Background(), BookSessionRequest{
		TrainerID: "t1",
		MemberID:  "m1",
		Date:      "2025-01-06",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingBooked, result.Status)
	require.NotNil(t, result.Session)
	assert.Equal(t, models.SessionScheduled, result.Session.State)
	assert.NotNil(t, sessions.created)
}

func TestSessionServiceBookDuringClassRejected(t *testing.T) {
	// 2025-01-06 is a Monday; the trainer teaches Monday 09:00-10:00.
	slots := &slotRepoStub{slots: []models.ScheduleSlot{
		classSlot("s1", "t1", "spinning", 1, "09:00", "10:00"),
	}}
	sessions := &sessionRepoStub{}
	svc := newSessionFixture(sessions, slots)

	_, err := svc.Book(context.Background(), BookSessionRequest{
		TrainerID: "t1",
		MemberID:  "m1",
		Date:      "2025-01-06",
		StartTime: "09:30",
		EndTime:   "10:30",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTrainerUnavailable.Code, appErrors.FromError(err).Code)
	assert.Nil(t, sessions.created)
}

func TestSessionServiceBookOutsideClassWindowAllowed(t *testing.T) {
	// Same weekday and hour as the class rule, but the rule's window ended.
	expired := classSlot("s1", "t1", "spinning", 1, "09:00", "10:00")
	expired.ActiveTo = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	sessions := &sessionRepoStub{}
	svc := newSessionFixture(sessions, &slotRepoStub{slots: []models.ScheduleSlot{expired}})

	result, err := svc.Book(context.Background(), BookSessionRequest{
		TrainerID: "t1",
		MemberID:  "m1",
		Date:      "2025-01-06",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingBooked, result.Status)
}

func TestSessionServiceBookSoftConflict(t *testing.T) {
	sessions := &sessionRepoStub{sessions: map[string]models.PersonalSession{
		"p1": {
			ID: "p1", TrainerID: "t1", MemberID: "m9",
			Date:      time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			StartTime: "09:00", EndTime: "10:00",
			State: models.SessionScheduled,
		},
	}}
	svc := newSessionFixture(sessions, &slotRepoStub{})

	result, err := svc.Book(context.Background(), BookSessionRequest{
		TrainerID: "t1",
		MemberID:  "m1",
		Date:      "2025-01-06",
		StartTime: "09:30",
		EndTime:   "10:30",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingSoftConflict, result.Status)
	assert.Equal(t, 1, result.SoftConflicts)
	assert.Nil(t, result.Session)
	assert.Nil(t, sessions.created)
}

func TestSessionServiceBookSoftConflictOverride(t *testing.T) {
	sessions := &sessionRepoStub{sessions: map[string]models.PersonalSession{
		"p1": {
			ID: "p1", TrainerID: "t1", MemberID: "m9",
			Date:      time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			StartTime: "09:00", EndTime: "10:00",
			State: models.SessionScheduled,
		},
	}}
	svc := newSessionFixture(sessions, &slotRepoStub{})

	result, err := svc.Book(context.Background(), BookSessionRequest{
		TrainerID: "t1",
		MemberID:  "m1",
		Date:      "2025-01-06",
		StartTime: "09:30",
		EndTime:   "10:30",
		Override:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingBooked, result.Status)
	require.NotNil(t, result.Session)
	assert.Equal(t, 1, result.SoftConflicts)
}

func TestSessionServiceCancelledSessionDoesNotBlock(t *testing.T) {
	sessions := &sessionRepoStub{sessions: map[string]models.PersonalSession{
		"p1": {
			ID: "p1", TrainerID: "t1", MemberID: "m9",
			Date:      time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			StartTime: "09:00", EndTime: "10:00",
			State: models.SessionCancelled,
		},
	}}
	svc := newSessionFixture(sessions, &slotRepoStub{})

	result, err := svc.Book(context.Background(), BookSessionRequest{
		TrainerID: "t1",
		MemberID:  "m1",
		Date:      "2025-01-06",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingBooked, result.Status)
}

func TestSessionServiceTransitions(t *testing.T) {
	sessions := &sessionRepoStub{sessions: map[string]models.PersonalSession{
		"p1": {ID: "p1", TrainerID: "t1", MemberID: "m1", State: models.SessionScheduled},
	}}
	svc := newSessionFixture(sessions, &slotRepoStub{})

	done, err := svc.Complete(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, done.State)

	// Terminal states never move again.
	_, err = svc.Cancel(context.Background(), "p1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}
