package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/infra/telegram"
	"github.com/ivankudzin/estate-backoffice/internal/jobs/tasks"
)

type ChatDirectory interface {
	TelegramChatID(ctx context.Context, userID int64) (int64, error)
}

type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Service delivers owner notifications through the marketplace Telegram bot.
type Service struct {
	chats  ChatDirectory
	sender Sender
}

func NewService(chats ChatDirectory, sender Sender) *Service {
	return &Service{chats: chats, sender: sender}
}

func (s *Service) Notify(ctx context.Context, ownerID int64, message string) error {
	if s.chats == nil || s.sender == nil {
		return fmt.Errorf("notification delivery is not configured: %w", tasks.ErrPermanent)
	}

	chatID, err := s.chats.TelegramChatID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("owner %d has no chat: %w", ownerID, tasks.ErrPermanent)
		}
		return fmt.Errorf("lookup owner chat: %w", err)
	}

	if err := s.sender.SendText(ctx, chatID, message); err != nil {
		if errors.Is(err, telegram.ErrChatUnavailable) {
			return fmt.Errorf("deliver to owner %d: %v: %w", ownerID, err, tasks.ErrPermanent)
		}
		return fmt.Errorf("deliver to owner %d: %w", ownerID, err)
	}
	return nil
}
