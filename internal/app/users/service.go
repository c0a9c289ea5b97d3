package users

import (
	"context"
	"errors"

	"showlog/internal/auth"
	"showlog/internal/conn"
	"showlog/internal/store"
	"showlog/shared/go/logging"
	"showlog/shared/go/models"
)

// ErrIdentityMismatch rejects a profile mutation whose caller is not the
// profile owner.
var ErrIdentityMismatch = errors.New("caller identity does not match user")

// Store defines persistence operations for user profiles.
type Store interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	RestoreUser(ctx context.Context, id int64, email, displayName string) error
	UpdateProfile(ctx context.Context, id int64, displayName, bio, pictureURL string) error
}

// Service reads and mutates user profiles.
type Service interface {
	Profile(ctx context.Context, userID int64, email string) (*models.User, error)
	Update(ctx context.Context, callerID, userID int64, displayName, bio, pictureURL string) error
}

type service struct {
	store   Store
	manager *conn.Manager
}

// New constructs a users Service.
func New(st Store, manager *conn.Manager) Service {
	return &service{store: st, manager: manager}
}

// Profile fetches a user's profile. When the row is missing but the caller
// presented a verified token, the profile is recreated from the token's
// email claim so an out-of-band deletion does not strand a valid session.
// The recreated row carries no password hash, so it cannot be signed into
// until the credentials are reset.
func (s *service) Profile(ctx context.Context, userID int64, email string) (*models.User, error) {
	return conn.Execute(ctx, s.manager, "get profile", func(ctx context.Context) (*models.User, error) {
		user, err := s.store.GetUser(ctx, userID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, store.ErrUserNotFound) || email == "" {
			return nil, err
		}

		logging.WithContext(ctx).Warn().Int64("user_id", userID).Msg("profile row missing, recreating from token")
		if err := s.store.RestoreUser(ctx, userID, email, auth.DisplayNameFromEmail(email)); err != nil {
			return nil, err
		}
		return s.store.GetUser(ctx, userID)
	})
}

// Update mutates the caller's own profile fields.
func (s *service) Update(ctx context.Context, callerID, userID int64, displayName, bio, pictureURL string) error {
	if callerID != userID {
		return ErrIdentityMismatch
	}
	return s.manager.Execute(ctx, "update profile", func(ctx context.Context) error {
		return s.store.UpdateProfile(ctx, userID, displayName, bio, pictureURL)
	})
}
