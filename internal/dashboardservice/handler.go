package dashboardservice

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sushihentaime/agencysite/internal/common"
	"github.com/sushihentaime/agencysite/internal/reviewservice"
)

var ErrUnknownEntityKind = errors.New("unknown entity kind")

func NewDashboardService(db *sql.DB, reviews RecentReviewLister, cache *common.Cache, queryTimeout time.Duration, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		store:        newDashboardModel(db),
		reviews:      reviews,
		cache:        cache,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// Count returns the number of rows of kind. Only successful reads are cached.
func (s *DashboardService) Count(ctx context.Context, actorID int, kind common.EntityKind) (int, error) {
	if !kind.Valid() {
		return 0, ErrUnknownEntityKind
	}

	key := common.CacheKeyCount(kind)
	if cached, ok := s.cache.Get(key); ok {
		if err := s.store.authorize(ctx, actorID); err != nil {
			return 0, err
		}
		return cached.(int), nil
	}

	return s.count(ctx, actorID, kind)
}

func (s *DashboardService) count(ctx context.Context, actorID int, kind common.EntityKind) (int, error) {
	key := common.CacheKeyCount(kind)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(int), nil
	}

	generation := s.cache.Generation()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.store.count(ctx, actorID, kind)
	if err != nil {
		return 0, err
	}

	s.cache.SetIfCurrent(key, n, generation)

	return n, nil
}

// RecentReviews returns at most limit reviews, newest first.
func (s *DashboardService) RecentReviews(ctx context.Context, actorID, limit int) ([]reviewservice.Review, error) {
	if err := s.store.authorize(ctx, actorID); err != nil {
		return nil, err
	}

	return s.recent(ctx, limit)
}

func (s *DashboardService) recent(ctx context.Context, limit int) ([]reviewservice.Review, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.reviews.RecentReviews(ctx, limit)
}

// Summary reads every count and the recent reviews concurrently. The reads are
// independent and may observe different points in time. A failed read is reported in
// its own slot and does not fail the summary.
func (s *DashboardService) Summary(ctx context.Context, actorID int) (*Summary, error) {
	if err := s.store.authorize(ctx, actorID); err != nil {
		return nil, err
	}

	summary := &Summary{Counts: make([]Count, len(common.EntityKinds))}

	var wg sync.WaitGroup
	for i, kind := range common.EntityKinds {
		wg.Add(1)
		go func(i int, kind common.EntityKind) {
			defer wg.Done()

			c := Count{Kind: kind}
			n, err := s.count(ctx, actorID, kind)
			if err != nil {
				s.logger.Error("could not count entities", slog.String("kind", string(kind)), slog.String("error", err.Error()))
				c.Error = err.Error()
			} else {
				c.Value = &n
			}
			summary.Counts[i] = c
		}(i, kind)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		reviews, err := s.recent(ctx, reviewservice.DefaultRecentLimit)
		if err != nil {
			s.logger.Error("could not list recent reviews", slog.String("error", err.Error()))
			summary.RecentError = err.Error()
			return
		}
		summary.RecentReviews = reviews
	}()

	wg.Wait()

	return summary, nil
}

func (s *DashboardService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}
