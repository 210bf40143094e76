package blogservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/agencysite/internal/common"
)

type Blog struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	// Content is stored in Markdown format.
	Content         string    `json:"content"`
	Excerpt         string    `json:"excerpt"`
	Author          string    `json:"author"`
	Category        string    `json:"category"`
	ImageURL        string    `json:"image_url"`
	IsPublished     bool      `json:"is_published"`
	Tags            []string  `json:"tags"`
	MetaDescription string    `json:"meta_description"`
	UserID          int       `json:"user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Version         int       `json:"version"`
}

type CreateBlogRequest struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Excerpt         string   `json:"excerpt"`
	Author          string   `json:"author"`
	Category        string   `json:"category"`
	ImageURL        string   `json:"image_url"`
	IsPublished     bool     `json:"is_published"`
	Tags            []string `json:"tags"`
	MetaDescription string   `json:"meta_description"`
	UserID          int      `json:"-"`
}

// UpdateBlogRequest carries a partial update. Nil fields keep their stored value.
type UpdateBlogRequest struct {
	ID              int       `json:"-"`
	Version         int       `json:"version"`
	Title           *string   `json:"title"`
	Content         *string   `json:"content"`
	Excerpt         *string   `json:"excerpt"`
	Author          *string   `json:"author"`
	Category        *string   `json:"category"`
	ImageURL        *string   `json:"image_url"`
	IsPublished     *bool     `json:"is_published"`
	Tags            *[]string `json:"tags"`
	MetaDescription *string   `json:"meta_description"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
	c *common.Cache
}
