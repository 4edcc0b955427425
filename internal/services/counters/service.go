package counters

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	"github.com/ivankudzin/estate-backoffice/internal/domain/rules"
)

type Guard interface {
	Authorize(operator model.Operator, action enums.Action) error
	VisibleQueues(operator model.Operator) []enums.Category
}

// StatusCounter groups raw status values; rows may hold legacy spellings.
type StatusCounter interface {
	StatusCounts(ctx context.Context, category enums.Category) ([]model.StatusCount, error)
}

type Cache interface {
	Get(ctx context.Context, category enums.Category) (model.QueueCounts, bool, error)
	Set(ctx context.Context, category enums.Category, counts model.QueueCounts, ttl time.Duration) error
}

type Service struct {
	guard   Guard
	counter StatusCounter
	cache   Cache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewService accepts a nil cache; counts are then recomputed on every call.
func NewService(guard Guard, counter StatusCounter, cache Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		guard:   guard,
		counter: counter,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// CountsFor returns per-queue counters for every queue the operator can see.
// Queues without permission are omitted rather than reported as zero.
func (s *Service) CountsFor(ctx context.Context, operator model.Operator) (model.Counts, error) {
	if err := s.guard.Authorize(operator, enums.ActionDashboardCounts); err != nil {
		return nil, err
	}

	out := make(model.Counts)
	for _, category := range s.guard.VisibleQueues(operator) {
		counts, err := s.queueCounts(ctx, category)
		if err != nil {
			return nil, err
		}
		out[category] = counts
	}
	return out, nil
}

func (s *Service) queueCounts(ctx context.Context, category enums.Category) (model.QueueCounts, error) {
	if s.cache != nil && s.ttl > 0 {
		cached, ok, err := s.cache.Get(ctx, category)
		if err != nil {
			s.logger.Warn("counts cache read failed", zap.String("queue", string(category)), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	rows, err := s.counter.StatusCounts(ctx, category)
	if err != nil {
		return model.QueueCounts{}, err
	}
	counts := Fold(category, rows)

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, category, counts, s.ttl); err != nil {
			s.logger.Warn("counts cache write failed", zap.String("queue", string(category)), zap.Error(err))
		}
	}
	return counts, nil
}

// Fold normalizes raw status rows into new and in-progress totals.
func Fold(category enums.Category, rows []model.StatusCount) model.QueueCounts {
	var out model.QueueCounts
	for _, row := range rows {
		switch category {
		case enums.CategoryListings:
			switch rules.NormalizeListingStatus(row.Status) {
			case enums.ListingStatusPending:
				out.New += row.Count
			case enums.ListingStatusInReview:
				out.InProgress += row.Count
			}
		case enums.CategoryReports, enums.CategoryComplaints:
			switch rules.NormalizeCaseStatus(row.Status) {
			case enums.CaseStatusNew:
				out.New += row.Count
			case enums.CaseStatusInReview:
				out.InProgress += row.Count
			case enums.CaseStatusClosed:
				if row.AwaitingDecision {
					out.InProgress += row.Count
				}
			}
		}
	}
	return out
}
