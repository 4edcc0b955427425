package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
)

func (r repo) TelegramChatID(ctx context.Context, userID int64) (int64, error) {
	if err := r.ready(); err != nil {
		return 0, err
	}

	var chatID *int64
	err := r.q.QueryRow(ctx, `SELECT telegram_id FROM users WHERE id = $1`, userID).Scan(&chatID)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && (chatID == nil || *chatID == 0)) {
		return 0, errs.NotFound("user %d has no telegram chat", userID)
	}
	if err != nil {
		return 0, fmt.Errorf("get telegram chat: %w", err)
	}
	return *chatID, nil
}
