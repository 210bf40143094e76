package reviewservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/sushihentaime/agencysite/internal/common"
)

func NewReviewService(db *sql.DB, mb common.MessageProducer, cache *common.Cache, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		m:      newReviewModel(db),
		mb:     mb,
		cache:  cache,
		logger: logger,
	}
}

// CreateReview stores a review written by an authenticated user and announces it on
// review.created. The review is kept when the announcement cannot be published.
func (s *ReviewService) CreateReview(ctx context.Context, req *CreateReviewRequest) (*Review, error) {
	v := common.NewValidator()
	validateCreateReview(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	r, err := s.m.insert(ctx, req)
	if err != nil {
		return nil, err
	}

	s.invalidate(true)

	msg, err := json.Marshal(common.ReviewCreatedEvent{
		ReviewID:  r.ID,
		Name:      r.Name,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	})
	if err == nil {
		err = s.mb.Publish(ctx, msg, common.ReviewCreatedKey, common.ContentExchange)
	}
	if err != nil {
		s.logger.Error("could not publish review.created", slog.Int("review_id", r.ID), slog.String("error", err.Error()))
	}

	return r, nil
}

func (s *ReviewService) GetReview(ctx context.Context, id int) (*Review, error) {
	v := common.NewValidator()
	v.CheckID(id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByID(ctx, s.m.db, id)
}

// ListReviews returns the public list, newest first. Default limit is 10.
func (s *ReviewService) ListReviews(ctx context.Context, limit, offset int) ([]Review, error) {
	if offset < 0 {
		offset = 0
	}

	return s.m.list(ctx, nil, normalizeLimit(limit, 10), offset)
}

// ListFeatured returns the testimonials shown on the public pages.
func (s *ReviewService) ListFeatured(ctx context.Context, limit int) ([]Review, error) {
	featured := true
	return s.m.list(ctx, &featured, normalizeLimit(limit, 10), 0)
}

// RecentReviews returns at most limit reviews ordered by creation time, newest first.
// A limit below one falls back to DefaultRecentLimit.
func (s *ReviewService) RecentReviews(ctx context.Context, limit int) ([]Review, error) {
	limit = normalizeLimit(limit, DefaultRecentLimit)
	key := common.CacheKeyRecentReviewsLimit(limit)

	if cached, ok := s.cache.Get(key); ok {
		return cached.([]Review), nil
	}

	generation := s.cache.Generation()

	reviews, err := s.m.list(ctx, nil, limit, 0)
	if err != nil {
		return nil, err
	}

	s.cache.SetIfCurrent(key, reviews, generation)

	return reviews, nil
}

// AdminListReviews returns a page of the moderation list. The actor must hold admin:moderate.
func (s *ReviewService) AdminListReviews(ctx context.Context, actorID int, filter ListFilter) ([]Review, error) {
	if err := s.m.authorize(ctx, actorID); err != nil {
		return nil, err
	}

	limit := normalizeLimit(filter.Limit, 20)
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	featured := "all"
	if filter.Featured != nil {
		featured = strconv.FormatBool(*filter.Featured)
	}
	key := common.CacheKeyModerationList(featured, limit, offset)

	if cached, ok := s.cache.Get(key); ok {
		return cached.([]Review), nil
	}

	generation := s.cache.Generation()

	reviews, err := s.m.list(ctx, filter.Featured, limit, offset)
	if err != nil {
		return nil, err
	}

	s.cache.SetIfCurrent(key, reviews, generation)

	return reviews, nil
}

// ToggleFeatured flips is_featured in the store. Two sequential toggles restore the
// original value; concurrent toggles are applied one after the other.
func (s *ReviewService) ToggleFeatured(ctx context.Context, actorID, reviewID int) (*Review, error) {
	v := common.NewValidator()
	v.CheckID(reviewID, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	r, err := s.m.toggleFeatured(ctx, actorID, reviewID)
	if err != nil {
		return nil, err
	}

	s.invalidate(false)

	return r, nil
}

// SetFeatured writes the negation of observed, the value the caller last saw. If the
// stored value has changed since, nothing is written and common.ErrEditConflict is returned.
func (s *ReviewService) SetFeatured(ctx context.Context, actorID, reviewID int, observed bool) (*Review, error) {
	v := common.NewValidator()
	v.CheckID(reviewID, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	r, err := s.m.setFeatured(ctx, actorID, reviewID, observed)
	if err != nil {
		return nil, err
	}

	s.invalidate(false)

	return r, nil
}

// DeleteReview removes a review permanently. The store rejects actors without admin:moderate.
func (s *ReviewService) DeleteReview(ctx context.Context, actorID, reviewID int) error {
	v := common.NewValidator()
	v.CheckID(reviewID, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	err := s.m.delete(ctx, actorID, reviewID)
	if err != nil {
		return err
	}

	s.invalidate(true)

	return nil
}

// invalidate drops every cached list containing reviews, and the review count when it changed.
func (s *ReviewService) invalidate(countChanged bool) {
	s.cache.InvalidatePrefix(common.CacheKeyModerationLists)
	s.cache.InvalidatePrefix(common.CacheKeyRecentReviews)
	if countChanged {
		s.cache.Invalidate(common.CacheKeyCount(common.KindReviews))
	}
}
