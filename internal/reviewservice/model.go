package reviewservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/agencysite/internal/common"
	"github.com/sushihentaime/agencysite/internal/userservice"
)

var ErrUserForeignKey = errors.New("user_id does not exist")

const reviewColumns = `
		r.id, r.name, r.company, r.comment, r.rating, r.is_featured, r.is_verified,
		r.service_type, r.created_at, r.user_id, u.avatar_url
		FROM reviews r
		LEFT JOIN users u ON r.user_id = u.id`

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func newReviewModel(db *sql.DB) *ReviewModel {
	return &ReviewModel{db: db}
}

func scanReview(s scanner, r *Review) error {
	return s.Scan(&r.ID, &r.Name, &r.Company, &r.Comment, &r.Rating, &r.IsFeatured, &r.IsVerified, &r.ServiceType, &r.CreatedAt, &r.UserID, &r.AvatarURL)
}

func collectReviews(rows *sql.Rows) ([]Review, error) {
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		var r Review
		if err := scanReview(rows, &r); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}

func (m *ReviewModel) insert(ctx context.Context, req *CreateReviewRequest) (*Review, error) {
	query := `
		INSERT INTO reviews (name, company, comment, rating, service_type, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_featured, is_verified, created_at`

	r := Review{
		Name:        req.Name,
		Company:     req.Company,
		Comment:     req.Comment,
		Rating:      req.Rating,
		ServiceType: req.ServiceType,
		UserID:      &req.UserID,
	}

	err := m.db.QueryRowContext(ctx, query, req.Name, req.Company, req.Comment, req.Rating, req.ServiceType, req.UserID).Scan(&r.ID, &r.IsFeatured, &r.IsVerified, &r.CreatedAt)
	if err != nil {
		switch {
		case common.ForeignKeyError(err, "reviews_user_id_fkey"):
			return nil, ErrUserForeignKey
		case common.CheckViolation(err, "reviews_rating_check"):
			return nil, common.ValidationError{Errors: map[string]string{"rating": "must be between 1 and 5"}}
		default:
			return nil, err
		}
	}

	return &r, nil
}

func (m *ReviewModel) getByID(ctx context.Context, q queryer, id int) (*Review, error) {
	query := `SELECT` + reviewColumns + `
		WHERE r.id = $1`

	var r Review
	err := scanReview(q.QueryRowContext(ctx, query, id), &r)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &r, nil
}

// list returns reviews newest first. featured narrows the result when not nil.
func (m *ReviewModel) list(ctx context.Context, featured *bool, limit, offset int) ([]Review, error) {
	query := `SELECT` + reviewColumns + `
		WHERE ($1::boolean IS NULL OR r.is_featured = $1)
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := m.db.QueryContext(ctx, query, featured, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectReviews(rows)
}

// isModerator is evaluated inside the same transaction as the statement it guards.
func isModerator(ctx context.Context, q queryer, actorID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM user_permissions
			WHERE user_id = $1 AND permission = $2
		)`

	var allowed bool
	err := q.QueryRowContext(ctx, query, actorID, userservice.PermissionModerate).Scan(&allowed)
	return allowed, err
}

func (m *ReviewModel) authorize(ctx context.Context, actorID int) error {
	allowed, err := isModerator(ctx, m.db, actorID)
	if err != nil {
		return err
	}
	if !allowed {
		return common.ErrForbidden
	}
	return nil
}

// moderate runs mutate inside a transaction after checking the actor's permission,
// then re-reads the review so the caller sees the committed state.
func (m *ReviewModel) moderate(ctx context.Context, actorID, reviewID int, mutate func(tx *sql.Tx) (int64, error)) (*Review, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	allowed, err := isModerator(ctx, tx, actorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, common.ErrForbidden
	}

	rows, err := mutate(tx)
	if err != nil {
		return nil, err
	}

	if rows == 0 {
		var exists bool
		err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE id = $1)`, reviewID).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, common.ErrRecordNotFound
		}
		return nil, common.ErrEditConflict
	}

	r, err := m.getByID(ctx, tx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r, nil
}

// toggleFeatured negates the stored flag in a single statement.
func (m *ReviewModel) toggleFeatured(ctx context.Context, actorID, reviewID int) (*Review, error) {
	return m.moderate(ctx, actorID, reviewID, func(tx *sql.Tx) (int64, error) {
		query := `
			UPDATE reviews
			SET is_featured = NOT is_featured
			WHERE id = $1`

		res, err := tx.ExecContext(ctx, query, reviewID)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
}

// setFeatured writes !observed only while the stored flag still equals observed.
func (m *ReviewModel) setFeatured(ctx context.Context, actorID, reviewID int, observed bool) (*Review, error) {
	return m.moderate(ctx, actorID, reviewID, func(tx *sql.Tx) (int64, error) {
		query := `
			UPDATE reviews
			SET is_featured = NOT $2::boolean
			WHERE id = $1 AND is_featured = $2::boolean`

		res, err := tx.ExecContext(ctx, query, reviewID, observed)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
}

func (m *ReviewModel) delete(ctx context.Context, actorID, reviewID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	allowed, err := isModerator(ctx, tx, actorID)
	if err != nil {
		return err
	}
	if !allowed {
		return common.ErrForbidden
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID)
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
