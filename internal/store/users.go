package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"showlog/shared/go/models"
)

// CreateUser registers a new user record and returns its id.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash, displayName string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING id
	`, email, passwordHash, displayName).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUserExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// RestoreUser reinserts a user row under its original id, for recovering a
// profile whose row disappeared while a valid token for it is still in
// circulation. The restored row has no password hash. Losing a concurrent
// insert race is fine; the row exists either way.
func (s *Store) RestoreUser(ctx context.Context, id int64, email, displayName string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, display_name)
		VALUES ($1, $2, '', $3)
		ON CONFLICT (id) DO NOTHING
	`, id, email, displayName)
	if err != nil {
		return fmt.Errorf("restore user: %w", err)
	}
	return nil
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var (
		u       models.User
		bio     sql.NullString
		picture sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, bio, profile_picture_url,
		       logged_concerts_count, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.DisplayName, &bio, &picture,
		&u.LoggedConcertsCount, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	u.Bio = bio.String
	u.ProfilePictureURL = picture.String
	return &u, nil
}

// CredentialsByEmail returns the id and password hash for a login attempt.
func (s *Store) CredentialsByEmail(ctx context.Context, email string) (int64, []byte, error) {
	var (
		id   int64
		hash []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash
		FROM users
		WHERE email = $1
	`, email).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, ErrUserNotFound
	}
	if err != nil {
		return 0, nil, fmt.Errorf("lookup user: %w", err)
	}
	return id, hash, nil
}

// DisplayNamesByIDs resolves display names for a set of users. Missing ids
// are simply absent from the result; callers degrade to a placeholder.
func (s *Store) DisplayNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf(`
		SELECT id, display_name
		FROM users
		WHERE id IN (%s)
	`, placeholders(1, len(ids)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select display names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan display name: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate display names: %w", err)
	}
	return names, nil
}

// UpdateProfile updates the mutable profile fields.
func (s *Store) UpdateProfile(ctx context.Context, id int64, displayName, bio, pictureURL string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET display_name = $1, bio = $2, profile_picture_url = $3, updated_at = NOW()
		WHERE id = $4
	`, displayName, bio, pictureURL, id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
