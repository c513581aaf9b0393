package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/gymops/gym-ops-api/internal/models"
	"github.com/gymops/gym-ops-api/internal/repository"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
)

type exchangeRepo interface {
	FindByID(ctx context.Context, id string) (*models.ShiftExchangeRequest, error)
	ListByOwner(ctx context.Context, trainerID string) ([]models.ShiftExchangeRequest, error)
	Create(ctx context.Context, req *models.ShiftExchangeRequest) error
	ResolveTx(ctx context.Context, tx *sqlx.Tx, id string, state models.ExchangeState) error
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
}

type exchangeSlotRepo interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
	UpdateOwnerTx(ctx context.Context, tx *sqlx.Tx, slotID, ownerID string) error
}

// ProposeExchangeRequest asks the owner of the destination shift to swap.
type ProposeExchangeRequest struct {
	OriginShiftID string `json:"origin_shift_id" validate:"required"`
	DestShiftID   string `json:"dest_shift_id" validate:"required"`
}

// ShiftExchangeService runs the bilateral shift swap protocol. A proposal
// stays PENDING until the destination owner accepts or rejects it; an accept
// flips both shift owners and resolves the request in one transaction, so
// the swap is all-or-nothing.
type ShiftExchangeService struct {
	exchanges exchangeRepo
	slots     exchangeSlotRepo
	notifier  Notifier
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewShiftExchangeService constructs ShiftExchangeService.
func NewShiftExchangeService(
	exchanges exchangeRepo,
	slots exchangeSlotRepo,
	notifier Notifier,
	validate *validator.Validate,
	logger *zap.Logger,
) *ShiftExchangeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiftExchangeService{
		exchanges: exchanges,
		slots:     slots,
		notifier:  notifier,
		validate:  validate,
		logger:    logger,
	}
}

// Propose opens a swap request. The actor must own the origin shift, both
// slots must be active reception shifts, and the two owners must differ.
func (s *ShiftExchangeService) Propose(ctx context.Context, actorID string, req ProposeExchangeRequest) (*models.ShiftExchangeRequest, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid proposal")
	}
	if req.OriginShiftID == req.DestShiftID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot swap a shift with itself")
	}

	origin, err := s.loadShift(ctx, req.OriginShiftID)
	if err != nil {
		return nil, err
	}
	dest, err := s.loadShift(ctx, req.DestShiftID)
	if err != nil {
		return nil, err
	}
	if origin.OwnerID != actorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the shift owner can propose a swap")
	}
	if origin.OwnerID == dest.OwnerID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "both shifts belong to the same trainer")
	}

	exchange := models.ShiftExchangeRequest{
		OriginShiftID: origin.ID,
		DestShiftID:   dest.ID,
		OriginOwnerID: origin.OwnerID,
		DestOwnerID:   dest.OwnerID,
	}
	if err := s.exchanges.Create(ctx, &exchange); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store proposal")
	}

	notify(ctx, s.notifier, s.logger, models.Notification{
		Audience: "trainer:" + dest.OwnerID,
		Event:    "SHIFT_EXCHANGE_PROPOSED",
		Title:    "Shift swap proposed",
		Message:  fmt.Sprintf("A colleague wants to swap their weekday %d shift with yours", origin.Weekday),
	})
	return &exchange, nil
}

// Accept executes the swap. Ownership of both shifts flips and the request
// resolves in one transaction guarded on the PENDING state, so a concurrent
// accept or reject of the same request loses cleanly.
func (s *ShiftExchangeService) Accept(ctx context.Context, id, actorID string) (*models.ShiftExchangeRequest, error) {
	exchange, err := s.loadPending(ctx, id)
	if err != nil {
		return nil, err
	}
	if exchange.DestOwnerID != actorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the destination owner can accept")
	}

	tx, err := s.exchanges.BeginTx(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start swap transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.exchanges.ResolveTx(ctx, tx, id, models.ExchangeApproved); err != nil {
		if errors.Is(err, repository.ErrAlreadyResolved) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyResolved, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve proposal")
	}
	if err := s.slots.UpdateOwnerTx(ctx, tx, exchange.OriginShiftID, exchange.DestOwnerID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reassign origin shift")
	}
	if err := s.slots.UpdateOwnerTx(ctx, tx, exchange.DestShiftID, exchange.OriginOwnerID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reassign destination shift")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit swap")
	}

	exchange.State = models.ExchangeApproved
	s.logger.Info("shift exchange accepted",
		zap.String("exchange_id", id),
		zap.String("origin_owner", exchange.OriginOwnerID),
		zap.String("dest_owner", exchange.DestOwnerID),
	)
	notify(ctx, s.notifier, s.logger, models.Notification{
		Audience: "trainer:" + exchange.OriginOwnerID,
		Event:    "SHIFT_EXCHANGE_ACCEPTED",
		Title:    "Shift swap accepted",
		Message:  "Your shift swap was accepted",
	})
	return exchange, nil
}

// Reject declines the swap. Both shifts keep their owners.
func (s *ShiftExchangeService) Reject(ctx context.Context, id, actorID string) (*models.ShiftExchangeRequest, error) {
	exchange, err := s.loadPending(ctx, id)
	if err != nil {
		return nil, err
	}
	if exchange.DestOwnerID != actorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the destination owner can reject")
	}

	tx, err := s.exchanges.BeginTx(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.exchanges.ResolveTx(ctx, tx, id, models.ExchangeRejected); err != nil {
		if errors.Is(err, repository.ErrAlreadyResolved) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyResolved, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve proposal")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit")
	}

	exchange.State = models.ExchangeRejected
	notify(ctx, s.notifier, s.logger, models.Notification{
		Audience: "trainer:" + exchange.OriginOwnerID,
		Event:    "SHIFT_EXCHANGE_REJECTED",
		Title:    "Shift swap rejected",
		Message:  "Your shift swap was declined",
	})
	return exchange, nil
}

// ListForTrainer returns swap requests where the trainer is either side.
func (s *ShiftExchangeService) ListForTrainer(ctx context.Context, trainerID string) ([]models.ShiftExchangeRequest, error) {
	list, err := s.exchanges.ListByOwner(ctx, trainerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proposals")
	}
	return list, nil
}

func (s *ShiftExchangeService) loadShift(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	slot, err := s.slots.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "shift not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift")
	}
	if slot.Kind != models.SlotKindReception || !slot.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "slot is not an active reception shift")
	}
	return slot, nil
}

func (s *ShiftExchangeService) loadPending(ctx context.Context, id string) (*models.ShiftExchangeRequest, error) {
	exchange, err := s.exchanges.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proposal")
	}
	if exchange.State != models.ExchangePending {
		return nil, appErrors.Clone(appErrors.ErrAlreadyResolved, "")
	}
	return exchange, nil
}
