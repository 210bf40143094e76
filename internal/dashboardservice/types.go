package dashboardservice

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/sushihentaime/agencysite/internal/common"
	"github.com/sushihentaime/agencysite/internal/reviewservice"
)

// Count is one dashboard tile. Value is nil when the count could not be read, in which
// case Error says why. A failed read is never reported as zero.
type Count struct {
	Kind  common.EntityKind `json:"kind"`
	Value *int              `json:"value"`
	Error string            `json:"error,omitempty"`
}

type Summary struct {
	Counts        []Count                `json:"counts"`
	RecentReviews []reviewservice.Review `json:"recent_reviews"`
	RecentError   string                 `json:"recent_error,omitempty"`
}

// RecentReviewLister is satisfied by *reviewservice.ReviewService.
type RecentReviewLister interface {
	RecentReviews(ctx context.Context, limit int) ([]reviewservice.Review, error)
}

type store interface {
	count(ctx context.Context, actorID int, kind common.EntityKind) (int, error)
	authorize(ctx context.Context, actorID int) error
}

type DashboardModel struct {
	db *sql.DB
}

type DashboardService struct {
	store        store
	reviews      RecentReviewLister
	cache        *common.Cache
	queryTimeout time.Duration
	logger       *slog.Logger
}
