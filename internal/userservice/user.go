package userservice

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/sushihentaime/agencysite/internal/common"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrNotFound          = common.ErrRecordNotFound
)

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

func (m *DBModel) insertUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at, version`

	args := []any{
		u.Username,
		u.Email,
		u.Password.hash,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "users_username_key"):
			return ErrDuplicateUsername
		case common.UniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

func (m *DBModel) getUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, email, password, activated, version
		FROM users
		WHERE username = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.Email, &u.Password.hash, &u.Activated, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) activateUserAccount(tx *sql.Tx, ctx context.Context, id int, version int) error {
	query := `
		UPDATE users
		SET activated = true, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2`

	res, err := tx.ExecContext(ctx, query, id, version)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows != 1 {
		switch {
		case rows == 0:
			return common.ErrEditConflict
		default:
			return errors.New("too many rows affected")
		}
	}

	return nil
}

func (m *DBModel) updateUserPassword(ctx context.Context, pwd Password, id int, version int) error {
	query := `
		UPDATE users
		SET password = $1, updated_at = NOW()
		WHERE id = $2 AND version = $3`

	_, err := m.db.ExecContext(ctx, query, pwd.hash, id, version)
	return err
}

func (m *DBModel) updateAvatar(ctx context.Context, id int, avatarURL *string) error {
	query := `
		UPDATE users
		SET avatar_url = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2`

	res, err := m.db.ExecContext(ctx, query, avatarURL, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// getUserByAccessToken loads the session owner together with every permission it holds.
func (m *DBModel) getUserByAccessToken(ctx context.Context, token []byte) (*User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.activated, u.avatar_url, u.version,
			COALESCE(array_agg(p.permission) FILTER (WHERE p.permission IS NOT NULL), '{}')
		FROM users u
		INNER JOIN auth_tokens t ON u.id = t.user_id
		LEFT JOIN user_permissions p ON u.id = p.user_id
		WHERE t.access_token = $1 AND t.access_token_expiry > $2
		GROUP BY u.id`

	var (
		u           User
		permissions []string
	)

	err := m.db.QueryRowContext(ctx, query, token, time.Now()).Scan(&u.ID, &u.Username, &u.Email, &u.Activated, &u.AvatarURL, &u.Version, pq.Array(&permissions))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	for _, p := range permissions {
		u.Permissions = append(u.Permissions, Permission(p))
	}

	return &u, nil
}
