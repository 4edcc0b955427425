package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ivankudzin/estate-backoffice/internal/jobs/tasks"
)

type MockSlotReleaser struct {
	mock.Mock
}

func (m *MockSlotReleaser) Release(ctx context.Context, listingID uuid.UUID) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

type MockMediaRemover struct {
	mock.Mock
}

func (m *MockMediaRemover) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockOwnerNotifier struct {
	mock.Mock
}

func (m *MockOwnerNotifier) Notify(ctx context.Context, ownerID int64, message string) error {
	args := m.Called(ctx, ownerID, message)
	return args.Error(0)
}

func TestHandleSlotRelease_Success(t *testing.T) {
	slots := new(MockSlotReleaser)
	p := tasks.NewProcessor(slots, nil, nil, nil)

	listingID := uuid.New()
	task, err := tasks.NewSlotReleaseTask(listingID)
	assert.NoError(t, err)
	assert.Equal(t, tasks.TypeSlotRelease, task.Type())

	slots.On("Release", mock.Anything, listingID).Return(nil)

	err = p.HandleSlotRelease(context.Background(), task)
	assert.NoError(t, err)
	slots.AssertExpectations(t)
}

func TestHandleSlotRelease_RetriesOnTransientError(t *testing.T) {
	slots := new(MockSlotReleaser)
	p := tasks.NewProcessor(slots, nil, nil, nil)

	listingID := uuid.New()
	task, _ := tasks.NewSlotReleaseTask(listingID)
	slots.On("Release", mock.Anything, listingID).Return(errors.New("503 from placement service"))

	err := p.HandleSlotRelease(context.Background(), task)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry), "transient errors must be retried")
}

func TestHandleSlotRelease_PermanentErrorSkipsRetry(t *testing.T) {
	slots := new(MockSlotReleaser)
	p := tasks.NewProcessor(slots, nil, nil, nil)

	listingID := uuid.New()
	task, _ := tasks.NewSlotReleaseTask(listingID)
	slots.On("Release", mock.Anything, listingID).Return(fmt.Errorf("404 slot: %w", tasks.ErrPermanent))

	err := p.HandleSlotRelease(context.Background(), task)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleSlotRelease_MalformedPayload(t *testing.T) {
	p := tasks.NewProcessor(new(MockSlotReleaser), nil, nil, nil)

	err := p.HandleSlotRelease(context.Background(), asynq.NewTask(tasks.TypeSlotRelease, []byte("{not json")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	payload, _ := json.Marshal(tasks.SlotReleasePayload{ListingID: "not-a-uuid"})
	err = p.HandleSlotRelease(context.Background(), asynq.NewTask(tasks.TypeSlotRelease, payload))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleMediaPurge_PartialFailureIsRetried(t *testing.T) {
	media := new(MockMediaRemover)
	p := tasks.NewProcessor(nil, media, nil, nil)

	listingID := uuid.New()
	task, err := tasks.NewMediaPurgeTask(listingID, []string{"a.jpg", "b.jpg", " "})
	assert.NoError(t, err)

	media.On("Delete", mock.Anything, "a.jpg").Return(nil)
	media.On("Delete", mock.Anything, "b.jpg").Return(errors.New("timeout"))

	err = p.HandleMediaPurge(context.Background(), task)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
	media.AssertNumberOfCalls(t, "Delete", 2)
}

func TestHandleOwnerNotify(t *testing.T) {
	notifier := new(MockOwnerNotifier)
	p := tasks.NewProcessor(nil, nil, notifier, nil)

	task, err := tasks.NewOwnerNotifyTask(77, "Your listing has been reinstated.")
	assert.NoError(t, err)
	notifier.On("Notify", mock.Anything, int64(77), "Your listing has been reinstated.").Return(nil)

	assert.NoError(t, p.HandleOwnerNotify(context.Background(), task))
	notifier.AssertExpectations(t)

	empty, _ := tasks.NewOwnerNotifyTask(77, "  ")
	assert.True(t, errors.Is(p.HandleOwnerNotify(context.Background(), empty), asynq.SkipRetry))
}
