package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gymops/gym-ops-api/internal/models"
	"github.com/gymops/gym-ops-api/pkg/config"
	"github.com/gymops/gym-ops-api/pkg/jobs"
)

// Notifier delivers abstract notify events to the external sink. Delivery is
// fire-and-forget: a failed send never blocks or rolls back the state
// transition that produced it.
type Notifier interface {
	Send(ctx context.Context, n models.Notification) error
}

// NotificationService queues notify events for asynchronous dispatch. The
// actual delivery channel (push, mail, messaging) lives outside this API;
// the queue handler hands events to the sink boundary and logs the outcome.
type NotificationService struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService builds the dispatch queue.
func NewNotificationService(cfg config.NotificationsConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{logger: logger}
	s.queue = jobs.NewQueue("notifications", s.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the queue workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Send enqueues a notification. Errors are returned for logging only;
// callers must not fail their operation on them.
func (s *NotificationService) Send(ctx context.Context, n models.Notification) error {
	return s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    n.Event,
		Payload: n,
	})
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	n, ok := job.Payload.(models.Notification)
	if !ok {
		s.logger.Warn("notification payload has unexpected type", zap.String("job_id", job.ID))
		return nil
	}
	s.logger.Info("notification dispatched",
		zap.String("audience", n.Audience),
		zap.String("event", n.Event),
		zap.String("title", n.Title),
	)
	return nil
}

// notify pushes an event through the notifier, logging failures without
// propagating them.
func notify(ctx context.Context, notifier Notifier, logger *zap.Logger, n models.Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Send(ctx, n); err != nil {
		logger.Warn("notification delivery failed",
			zap.String("event", n.Event),
			zap.Error(err),
		)
	}
}
