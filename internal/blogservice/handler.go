package blogservice

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/sushihentaime/agencysite/internal/common"
)

func NewBlogService(db *sql.DB, cache *common.Cache) *BlogService {
	return &BlogService{m: newBlogModel(db), c: cache}
}

func blogCacheKey(id int) string {
	return "blog:" + strconv.Itoa(id)
}

// CreateBlog creates a new blog post owned by req.UserID, who must hold blog:write.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	b := &Blog{
		Title:           req.Title,
		Content:         sanitizeMarkdown(req.Content),
		Excerpt:         req.Excerpt,
		Author:          req.Author,
		Category:        req.Category,
		ImageURL:        req.ImageURL,
		IsPublished:     req.IsPublished,
		Tags:            req.Tags,
		MetaDescription: req.MetaDescription,
		UserID:          req.UserID,
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}

	v := common.NewValidator()
	validateBlog(v, b)
	validateInt(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.insert(ctx, b); err != nil {
		return nil, err
	}

	s.c.Invalidate(common.CacheKeyCount(common.KindBlogs))

	return b, nil
}

// GetBlogByID returns a published blog post by its ID.
func (s *BlogService) GetBlogByID(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(blogCacheKey(id)); ok {
		b := cached.(Blog)
		return &b, nil
	}

	generation := s.c.Generation()

	b, err := s.m.getByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	s.c.SetIfCurrent(blogCacheKey(id), *b, generation)

	return b, nil
}

// UpdateBlog applies a partial update. req.Version must match the stored version,
// otherwise common.ErrEditConflict is returned and nothing is written.
func (s *BlogService) UpdateBlog(ctx context.Context, actorID int, req *UpdateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, req.ID, "id")
	validateInt(v, req.Version, "version")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	b, err := s.m.getForWrite(ctx, actorID, req.ID)
	if err != nil {
		return nil, err
	}

	if b.Version != req.Version {
		return nil, common.ErrEditConflict
	}

	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Content != nil {
		b.Content = sanitizeMarkdown(*req.Content)
	}
	if req.Excerpt != nil {
		b.Excerpt = *req.Excerpt
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.Category != nil {
		b.Category = *req.Category
	}
	if req.ImageURL != nil {
		b.ImageURL = *req.ImageURL
	}
	if req.IsPublished != nil {
		b.IsPublished = *req.IsPublished
	}
	if req.Tags != nil {
		b.Tags = *req.Tags
	}
	if req.MetaDescription != nil {
		b.MetaDescription = *req.MetaDescription
	}

	validateBlog(v, b)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.update(ctx, actorID, b); err != nil {
		return nil, err
	}

	s.c.Invalidate(blogCacheKey(b.ID))

	return b, nil
}

// DeleteBlog deletes a blog post. The actor must hold blog:write.
func (s *BlogService) DeleteBlog(ctx context.Context, actorID, blogID int) error {
	v := common.NewValidator()
	validateInt(v, blogID, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.m.delete(ctx, actorID, blogID); err != nil {
		return err
	}

	s.c.Invalidate(blogCacheKey(blogID), common.CacheKeyCount(common.KindBlogs))

	return nil
}

// GetBlogs returns published blog posts. Default limit is 10 and default offset is 0.
func (s *BlogService) GetBlogs(ctx context.Context, limit, offset int) ([]Blog, error) {
	limit, offset = normalizePage(limit, offset)
	return s.m.list(ctx, "", limit, offset)
}

func (s *BlogService) GetBlogsByCategory(ctx context.Context, category string, limit, offset int) ([]Blog, error) {
	v := common.NewValidator()
	v.CheckRequired(category, "category", 50)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	limit, offset = normalizePage(limit, offset)
	return s.m.list(ctx, category, limit, offset)
}

func (s *BlogService) GetBlogsByTitle(ctx context.Context, title string, limit, offset int) ([]Blog, error) {
	v := common.NewValidator()
	validateTitle(v, title)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	limit, offset = normalizePage(limit, offset)
	return s.m.searchByTitle(ctx, title, limit, offset)
}

// AdminGetBlogs lists every post, drafts included.
func (s *BlogService) AdminGetBlogs(ctx context.Context, actorID, limit, offset int) ([]Blog, error) {
	limit, offset = normalizePage(limit, offset)
	return s.m.listAll(ctx, actorID, limit, offset)
}
