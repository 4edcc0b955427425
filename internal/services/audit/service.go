package audit

import (
	"context"
	"fmt"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type Authorizer interface {
	Authorize(operator model.Operator, action enums.Action) error
}

type Reader interface {
	ListAudit(ctx context.Context, limit int) ([]model.AuditEntry, error)
	ListStrikes(ctx context.Context, ownerID int64) ([]model.Strike, error)
}

// Service exposes the transition audit trail and owner strikes. Both are
// written by the listing and report services inside their transactions.
type Service struct {
	guard  Authorizer
	reader Reader
}

func NewService(guard Authorizer, reader Reader) *Service {
	return &Service{guard: guard, reader: reader}
}

func (s *Service) Recent(ctx context.Context, operator model.Operator, limit int) ([]model.AuditEntry, error) {
	if err := s.guard.Authorize(operator, enums.ActionAuditView); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	entries, err := s.reader.ListAudit(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	return entries, nil
}

func (s *Service) OwnerStrikes(ctx context.Context, operator model.Operator, ownerID int64) ([]model.Strike, error) {
	if err := s.guard.Authorize(operator, enums.ActionAuditView); err != nil {
		return nil, err
	}
	if ownerID <= 0 {
		return nil, errs.Validation("owner id must be positive")
	}

	strikes, err := s.reader.ListStrikes(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list strikes: %w", err)
	}
	return strikes, nil
}
