package sideeffects

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/ivankudzin/estate-backoffice/internal/jobs/tasks"
)

type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	// TaskRetries is how many times the worker retries a task after enqueue.
	TaskRetries int
	TaskTimeout time.Duration
}

// Dispatcher queues non-essential follow-ups of committed transitions. Every
// method logs and returns; a failure never reaches the caller.
type Dispatcher struct {
	queue   Enqueuer
	retrier retry.Retry[*asynq.TaskInfo]
	opts    []asynq.Option
	logger  *zap.Logger
}

func NewDispatcher(queue Enqueuer, cfg Config, logger *zap.Logger) *Dispatcher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 50 * time.Millisecond
	}
	if cfg.TaskRetries <= 0 {
		cfg.TaskRetries = 12
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		queue: queue,
		retrier: retry.New[*asynq.TaskInfo](retry.Config{
			MaxAttempts:   cfg.MaxAttempts,
			InitialDelay:  cfg.InitialDelay,
			BackoffPolicy: retry.BackoffExponential,
			Multiplier:    2.0,
		}),
		opts:   []asynq.Option{asynq.MaxRetry(cfg.TaskRetries), asynq.Timeout(cfg.TaskTimeout)},
		logger: logger,
	}
}

func (d *Dispatcher) ReleaseSlot(ctx context.Context, listingID uuid.UUID) {
	task, err := tasks.NewSlotReleaseTask(listingID)
	d.enqueue(ctx, task, err, zap.String("listing_id", listingID.String()))
}

func (d *Dispatcher) PurgeMedia(ctx context.Context, listingID uuid.UUID, keys []string) {
	task, err := tasks.NewMediaPurgeTask(listingID, keys)
	d.enqueue(ctx, task, err, zap.String("listing_id", listingID.String()), zap.Int("keys", len(keys)))
}

func (d *Dispatcher) NotifyOwner(ctx context.Context, ownerID int64, message string) {
	if ownerID <= 0 || message == "" {
		return
	}
	task, err := tasks.NewOwnerNotifyTask(ownerID, message)
	d.enqueue(ctx, task, err, zap.Int64("owner_id", ownerID))
}

func (d *Dispatcher) enqueue(ctx context.Context, task *asynq.Task, buildErr error, fields ...zap.Field) {
	if buildErr != nil {
		d.logger.Error("side effect task build failed", append(fields, zap.Error(buildErr))...)
		return
	}
	fields = append(fields, zap.String("task", task.Type()))
	if d.queue == nil {
		d.logger.Warn("side effect queue is not configured, task dropped", fields...)
		return
	}

	// The request context may be cancelled right after the response is written.
	ctx = context.WithoutCancel(ctx)
	info, err := d.retrier.Do(ctx, func(ctx context.Context) (*asynq.TaskInfo, error) {
		info, err := d.queue.EnqueueContext(ctx, task, d.opts...)
		if err != nil {
			d.logger.Warn("side effect enqueue attempt failed", append(fields, zap.Error(err))...)
			return nil, fmt.Errorf("enqueue %s: %w", task.Type(), err)
		}
		return info, nil
	})
	if err != nil {
		d.logger.Error("side effect enqueue failed", append(fields, zap.Error(err))...)
		return
	}
	d.logger.Debug("side effect queued", append(fields, zap.String("task_id", info.ID), zap.String("queue", info.Queue))...)
}
