package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/infra/telegram"
	"github.com/ivankudzin/estate-backoffice/internal/jobs/tasks"
)

type chatsStub map[int64]int64

func (c chatsStub) TelegramChatID(_ context.Context, userID int64) (int64, error) {
	chatID, ok := c[userID]
	if !ok {
		return 0, errs.NotFound("user %d has no chat", userID)
	}
	return chatID, nil
}

type senderStub struct {
	err  error
	sent map[int64]string
}

func (s *senderStub) SendText(_ context.Context, chatID int64, text string) error {
	if s.err != nil {
		return s.err
	}
	if s.sent == nil {
		s.sent = make(map[int64]string)
	}
	s.sent[chatID] = text
	return nil
}

func TestNotifyDeliversToOwnerChat(t *testing.T) {
	sender := &senderStub{}
	svc := NewService(chatsStub{10: 9001}, sender)

	if err := svc.Notify(context.Background(), 10, "listing reinstated"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if sender.sent[9001] != "listing reinstated" {
		t.Fatalf("unexpected deliveries: %v", sender.sent)
	}
}

func TestNotifyPermanentFailures(t *testing.T) {
	svc := NewService(chatsStub{}, &senderStub{})
	if err := svc.Notify(context.Background(), 10, "x"); !errors.Is(err, tasks.ErrPermanent) {
		t.Fatalf("missing chat must be permanent, got %v", err)
	}

	blocked := &senderStub{err: fmt.Errorf("send: %w", telegram.ErrChatUnavailable)}
	svc = NewService(chatsStub{10: 9001}, blocked)
	if err := svc.Notify(context.Background(), 10, "x"); !errors.Is(err, tasks.ErrPermanent) {
		t.Fatalf("blocked chat must be permanent, got %v", err)
	}
}

func TestNotifyTransientFailureIsRetryable(t *testing.T) {
	svc := NewService(chatsStub{10: 9001}, &senderStub{err: errors.New("timeout")})

	err := svc.Notify(context.Background(), 10, "x")
	if err == nil || errors.Is(err, tasks.ErrPermanent) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}
