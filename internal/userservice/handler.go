package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/sushihentaime/agencysite/internal/common"
)

var (
	ErrAuthenticationFailure = errors.New("unauthorized access")
)

func NewUserService(db *sql.DB, mb common.MessageProducer) *UserService {
	return &UserService{
		m:  newUserModel(db),
		mb: mb,
	}
}

// CreateUser creates a new user account and publish an user.created event.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string) (*User, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: username,
		Email:    email,
	}

	err := u.Password.set(password)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	token, err := s.m.createToken(ctx, u.ID, ActivationTokenTime, TokenScopeActivate)
	if err != nil {
		return nil, err
	}

	msg, err := json.Marshal(common.UserCreatedEvent{Email: u.Email, Token: token.Plain})
	if err != nil {
		return nil, err
	}

	err = s.mb.Publish(ctx, msg, common.UserCreatedKey, common.UserExchange)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// ActivateUser activates the account owning the token, deletes the token and grants review:write.
func (s *UserService) ActivateUser(ctx context.Context, token string) error {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return v.ValidationError()
	}

	user, err := s.m.getUserByToken(ctx, TokenScopeActivate, hashToken(token))
	if err != nil {
		return err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = s.m.activateUserAccount(tx, ctx, user.ID, user.Version)
	if err != nil {
		return err
	}

	err = s.m.deleteToken(tx, ctx, user.ID, TokenScopeActivate)
	if err != nil {
		return err
	}

	err = s.m.addUserPermission(tx, ctx, user.ID, PermissionWriteReview)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoginUser checks the credentials and issues a new access and refresh token pair.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*AuthToken, error) {
	v := common.NewValidator()
	v.Check(username != "", "username", "must be provided")
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthenticationFailure
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	err = s.m.deleteExpiredAuthTokens(tx, ctx, user.ID)
	if err != nil {
		return nil, err
	}

	authToken, err := s.m.createAuthToken(tx, ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return authToken, nil
}

func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getUserByAccessToken(ctx, hashToken(token))
}

// LogoutUser ends every session of the user.
func (s *UserService) LogoutUser(ctx context.Context, userID int) error {
	v := common.NewValidator()
	v.CheckID(userID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = s.m.deleteAuthTokens(tx, ctx, userID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// PromoteUser grants the admin permissions to an existing account and returns its full permission set.
func (s *UserService) PromoteUser(ctx context.Context, username string) (Permissions, error) {
	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	err = s.m.addUserPermission(tx, ctx, user.ID, AdminPermissions...)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.m.getPermissions(ctx, user.ID)
}

// UpdateAvatar sets or clears (nil) the profile picture shown next to the user's reviews.
func (s *UserService) UpdateAvatar(ctx context.Context, userID int, avatarURL *string) error {
	v := common.NewValidator()
	v.CheckID(userID, "user_id")
	validateAvatarURL(v, avatarURL)
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.updateAvatar(ctx, userID, avatarURL)
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}

func (u *User) IsActivated() bool {
	return u.Activated
}

func (u *User) HasPermission(permission Permission) bool {
	return u.Permissions.Include(permission)
}
