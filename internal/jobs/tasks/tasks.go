package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeSlotRelease = "listing:slot:release"
	TypeMediaPurge  = "listing:media:purge"
	TypeOwnerNotify = "owner:notify"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Queues maps queue names to asynq priorities.
var Queues = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
	QueueLow:      1,
}

type SlotReleasePayload struct {
	ListingID string `json:"listing_id"`
}

type MediaPurgePayload struct {
	ListingID string   `json:"listing_id"`
	Keys      []string `json:"keys"`
}

type OwnerNotifyPayload struct {
	OwnerID int64  `json:"owner_id"`
	Message string `json:"message"`
}

func NewSlotReleaseTask(listingID uuid.UUID) (*asynq.Task, error) {
	return newTask(TypeSlotRelease, SlotReleasePayload{ListingID: listingID.String()}, QueueCritical)
}

func NewMediaPurgeTask(listingID uuid.UUID, keys []string) (*asynq.Task, error) {
	return newTask(TypeMediaPurge, MediaPurgePayload{ListingID: listingID.String(), Keys: keys}, QueueLow)
}

func NewOwnerNotifyTask(ownerID int64, message string) (*asynq.Task, error) {
	return newTask(TypeOwnerNotify, OwnerNotifyPayload{OwnerID: ownerID, Message: message}, QueueDefault)
}

func newTask(typename string, payload any, queue string) (*asynq.Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", typename, err)
	}
	return asynq.NewTask(typename, raw, asynq.Queue(queue)), nil
}

type SlotReleaser interface {
	Release(ctx context.Context, listingID uuid.UUID) error
}

type MediaRemover interface {
	Delete(ctx context.Context, key string) error
}

type OwnerNotifier interface {
	Notify(ctx context.Context, ownerID int64, message string) error
}

// ErrPermanent marks collaborator failures that retrying cannot fix.
var ErrPermanent = errors.New("permanent failure")

// Processor executes side effects that the API enqueued after a commit.
type Processor struct {
	slots    SlotReleaser
	media    MediaRemover
	notifier OwnerNotifier
	logger   *zap.Logger
}

func NewProcessor(slots SlotReleaser, media MediaRemover, notifier OwnerNotifier, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		slots:    slots,
		media:    media,
		notifier: notifier,
		logger:   logger,
	}
}

func (p *Processor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeSlotRelease, p.HandleSlotRelease)
	mux.HandleFunc(TypeMediaPurge, p.HandleMediaPurge)
	mux.HandleFunc(TypeOwnerNotify, p.HandleOwnerNotify)
}

func (p *Processor) HandleSlotRelease(ctx context.Context, t *asynq.Task) error {
	var payload SlotReleasePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal slot release payload: %v: %w", err, asynq.SkipRetry)
	}
	listingID, err := uuid.Parse(payload.ListingID)
	if err != nil {
		return fmt.Errorf("invalid listing id %q: %w", payload.ListingID, asynq.SkipRetry)
	}
	if p.slots == nil {
		return fmt.Errorf("slot releaser is not configured: %w", asynq.SkipRetry)
	}

	if err := p.slots.Release(ctx, listingID); err != nil {
		return retryable("release slot", err)
	}
	p.logger.Info("listing slot released", zap.String("listing_id", listingID.String()))
	return nil
}

func (p *Processor) HandleMediaPurge(ctx context.Context, t *asynq.Task) error {
	var payload MediaPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal media purge payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.media == nil {
		return fmt.Errorf("media remover is not configured: %w", asynq.SkipRetry)
	}

	var failed []string
	for _, key := range payload.Keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if err := p.media.Delete(ctx, key); err != nil {
			p.logger.Warn("media delete failed",
				zap.String("listing_id", payload.ListingID),
				zap.String("key", key),
				zap.Error(err),
			)
			failed = append(failed, key)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("purge media of listing %s: %d of %d keys failed", payload.ListingID, len(failed), len(payload.Keys))
	}
	return nil
}

func (p *Processor) HandleOwnerNotify(ctx context.Context, t *asynq.Task) error {
	var payload OwnerNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal owner notify payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.OwnerID <= 0 || strings.TrimSpace(payload.Message) == "" {
		return fmt.Errorf("owner notify payload is incomplete: %w", asynq.SkipRetry)
	}
	if p.notifier == nil {
		return fmt.Errorf("owner notifier is not configured: %w", asynq.SkipRetry)
	}

	if err := p.notifier.Notify(ctx, payload.OwnerID, payload.Message); err != nil {
		return retryable("notify owner", err)
	}
	return nil
}

func retryable(op string, err error) error {
	if errors.Is(err, ErrPermanent) {
		return fmt.Errorf("%s: %v: %w", op, err, asynq.SkipRetry)
	}
	return fmt.Errorf("%s: %w", op, err)
}
