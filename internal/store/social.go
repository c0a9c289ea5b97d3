package store

import (
	"context"
	"fmt"
)

// CreateFollow records a follow edge. Re-following is a no-op.
func (s *Store) CreateFollow(ctx context.Context, followerID, followeeID int64) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`, followerID, followeeID); err != nil {
		return fmt.Errorf("insert follow: %w", err)
	}
	return nil
}

// DeleteFollow removes a follow edge. Unfollowing a non-followed user is a
// no-op.
func (s *Store) DeleteFollow(ctx context.Context, followerID, followeeID int64) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM follows
		WHERE follower_id = $1 AND followee_id = $2
	`, followerID, followeeID); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// FollowExists checks whether follower currently follows followee.
func (s *Store) FollowExists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)
	`, followerID, followeeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return exists, nil
}

// ListFollowing enumerates the users a follower follows, newest edge first.
func (s *Store) ListFollowing(ctx context.Context, followerID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT followee_id
		FROM follows
		WHERE follower_id = $1
		ORDER BY created_at DESC
	`, followerID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan following: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
