package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/sushihentaime/agencysite/internal/common"
	"github.com/sushihentaime/agencysite/internal/userservice"
)

var ErrUserForeignKey = errors.New("user_id does not exist")

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const blogColumns = `
		id, title, content, excerpt, author, category, image_url, is_published,
		tags, meta_description, user_id, created_at, updated_at, version
		FROM blogs`

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

func scanBlog(s scanner, b *Blog) error {
	return s.Scan(&b.ID, &b.Title, &b.Content, &b.Excerpt, &b.Author, &b.Category, &b.ImageURL, &b.IsPublished,
		pq.Array(&b.Tags), &b.MetaDescription, &b.UserID, &b.CreatedAt, &b.UpdatedAt, &b.Version)
}

func collectBlogs(rows *sql.Rows) ([]Blog, error) {
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		var b Blog
		if err := scanBlog(rows, &b); err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// canWrite is evaluated inside the transaction of the write it guards.
func canWrite(ctx context.Context, q queryer, actorID int) error {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM user_permissions
			WHERE user_id = $1 AND permission = $2
		)`

	var allowed bool
	if err := q.QueryRowContext(ctx, query, actorID, userservice.PermissionWriteBlog).Scan(&allowed); err != nil {
		return err
	}
	if !allowed {
		return common.ErrForbidden
	}
	return nil
}

func (m *BlogModel) insert(ctx context.Context, b *Blog) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := canWrite(ctx, tx, b.UserID); err != nil {
		return err
	}

	query := `
		INSERT INTO blogs (title, content, excerpt, author, category, image_url, is_published, tags, meta_description, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at, version`

	args := []any{b.Title, b.Content, b.Excerpt, b.Author, b.Category, b.ImageURL, b.IsPublished, pq.Array(b.Tags), b.MetaDescription, b.UserID}

	err = tx.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt, &b.Version)
	if err != nil {
		switch {
		case common.ForeignKeyError(err, "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return tx.Commit()
}

// getByID returns a blog post. Drafts are only returned when includeDrafts is set.
func (m *BlogModel) getByID(ctx context.Context, id int, includeDrafts bool) (*Blog, error) {
	return getByID(ctx, m.db, id, includeDrafts)
}

// getForWrite returns a blog post, drafts included, to an actor holding blog:write.
// Other actors get common.ErrForbidden whether or not the post exists.
func (m *BlogModel) getForWrite(ctx context.Context, actorID, id int) (*Blog, error) {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := canWrite(ctx, tx, actorID); err != nil {
		return nil, err
	}

	b, err := getByID(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}

	return b, tx.Commit()
}

func getByID(ctx context.Context, q queryer, id int, includeDrafts bool) (*Blog, error) {
	query := `SELECT` + blogColumns + `
		WHERE id = $1 AND (is_published OR $2)`

	var b Blog
	err := scanBlog(q.QueryRowContext(ctx, query, id, includeDrafts), &b)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &b, nil
}

// update writes b only while the stored version still equals b.Version.
func (m *BlogModel) update(ctx context.Context, actorID int, b *Blog) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := canWrite(ctx, tx, actorID); err != nil {
		return err
	}

	query := `
		UPDATE blogs
		SET title = $1, content = $2, excerpt = $3, author = $4, category = $5, image_url = $6,
			is_published = $7, tags = $8, meta_description = $9, updated_at = NOW(), version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING version, updated_at`

	args := []any{b.Title, b.Content, b.Excerpt, b.Author, b.Category, b.ImageURL, b.IsPublished, pq.Array(b.Tags), b.MetaDescription, b.ID, b.Version}

	err = tx.QueryRowContext(ctx, query, args...).Scan(&b.Version, &b.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrEditConflict
		default:
			return err
		}
	}

	return tx.Commit()
}

func (m *BlogModel) delete(ctx context.Context, actorID, blogID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := canWrite(ctx, tx, actorID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, blogID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return common.ErrRecordNotFound
	}

	return tx.Commit()
}

// list returns published posts newest first. A non-empty category narrows the result.
func (m *BlogModel) list(ctx context.Context, category string, limit, offset int) ([]Blog, error) {
	query := `SELECT` + blogColumns + `
		WHERE is_published AND ($1 = '' OR category = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := m.db.QueryContext(ctx, query, category, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectBlogs(rows)
}

// searchByTitle matches published titles case-insensitively.
func (m *BlogModel) searchByTitle(ctx context.Context, title string, limit, offset int) ([]Blog, error) {
	query := `SELECT` + blogColumns + `
		WHERE is_published AND title ILIKE $1 ESCAPE '\'
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := m.db.QueryContext(ctx, query, "%"+likeEscaper.Replace(title)+"%", limit, offset)
	if err != nil {
		return nil, err
	}

	return collectBlogs(rows)
}

// listAll includes drafts and is only answered for actors holding blog:write.
func (m *BlogModel) listAll(ctx context.Context, actorID, limit, offset int) ([]Blog, error) {
	if err := canWrite(ctx, m.db, actorID); err != nil {
		return nil, err
	}

	query := `SELECT` + blogColumns + `
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := m.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectBlogs(rows)
}
