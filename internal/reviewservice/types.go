package reviewservice

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/sushihentaime/agencysite/internal/common"
)

const (
	MinRating = 1
	MaxRating = 5

	DefaultRecentLimit = 5
	MaxListLimit       = 50
)

// Review is a client testimonial. A new review starts unmoderated and unverified;
// admins move it between unmoderated and featured, or delete it.
type Review struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Company     *string   `json:"company,omitempty"`
	Comment     string    `json:"comment"`
	Rating      int       `json:"rating"`
	IsFeatured  bool      `json:"is_featured"`
	IsVerified  bool      `json:"is_verified"`
	ServiceType *string   `json:"service_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      *int      `json:"user_id,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
}

type CreateReviewRequest struct {
	Name        string  `json:"name"`
	Company     *string `json:"company"`
	Comment     string  `json:"comment"`
	Rating      int     `json:"rating"`
	ServiceType *string `json:"service_type"`
	UserID      int     `json:"-"`
}

// ListFilter selects a page of the moderation list. A nil Featured lists every review.
type ListFilter struct {
	Featured *bool
	Limit    int
	Offset   int
}

type ReviewModel struct {
	db *sql.DB
}

type ReviewService struct {
	m      *ReviewModel
	mb     common.MessageProducer
	cache  *common.Cache
	logger *slog.Logger
}
