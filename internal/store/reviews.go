package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"showlog/shared/go/models"
)

// CreateReview inserts a review with zeroed engagement counters.
func (s *Store) CreateReview(ctx context.Context, review *models.Review) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO reviews (concert_id, user_id, rating, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, review.ConcertID, review.UserID, review.Rating, review.Text).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert review: %w", err)
	}
	return id, nil
}

// GetReview fetches a review by id.
func (s *Store) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	var r models.Review
	err := s.db.QueryRowContext(ctx, `
		SELECT id, concert_id, user_id, rating, text, likes_count,
		       comments_count, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`, id).Scan(&r.ID, &r.ConcertID, &r.UserID, &r.Rating, &r.Text,
		&r.LikesCount, &r.CommentsCount, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select review: %w", err)
	}
	return &r, nil
}

// ListReviewsByConcert returns a concert's reviews newest first. The
// ordered query needs a composite index; when the store reports the index
// missing or still building, the read falls back to an unordered query
// sorted in memory and reports usingFallback so the caller can surface a
// staleness hint. All other errors propagate.
func (s *Store) ListReviewsByConcert(ctx context.Context, concertID int64) ([]*models.Review, bool, error) {
	reviews, err := s.queryReviews(ctx, `
		SELECT id, concert_id, user_id, rating, text, likes_count,
		       comments_count, created_at, updated_at
		FROM reviews
		WHERE concert_id = $1
		ORDER BY created_at DESC
	`, concertID)
	if err == nil {
		return reviews, false, nil
	}
	if !isIndexNotReady(err) {
		return nil, false, err
	}

	reviews, err = s.queryReviews(ctx, `
		SELECT id, concert_id, user_id, rating, text, likes_count,
		       comments_count, created_at, updated_at
		FROM reviews
		WHERE concert_id = $1
	`, concertID)
	if err != nil {
		return nil, false, err
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, true, nil
}

// RecentReviewsByUsers returns the newest reviews authored by any of the
// given users, capped at limit. Used by the feed fan-out.
func (s *Store) RecentReviewsByUsers(ctx context.Context, userIDs []int64, limit int) ([]*models.Review, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(userIDs)+1)
	for _, id := range userIDs {
		args = append(args, id)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT id, concert_id, user_id, rating, text, likes_count,
		       comments_count, created_at, updated_at
		FROM reviews
		WHERE user_id IN (%s)
		ORDER BY created_at DESC
		LIMIT $%d
	`, placeholders(1, len(userIDs)), len(userIDs)+1)

	return s.queryReviews(ctx, query, args...)
}

func (s *Store) queryReviews(ctx context.Context, query string, args ...any) ([]*models.Review, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.ConcertID, &r.UserID, &r.Rating, &r.Text,
			&r.LikesCount, &r.CommentsCount, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

// ToggleLike flips the caller's like membership on a review and keeps
// likes_count equal to the membership count, all in one transaction. The
// review row is locked so interleaved toggles serialize.
func (s *Store) ToggleLike(ctx context.Context, reviewID, userID int64) (models.LikeAction, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var likes int
	err = tx.QueryRowContext(ctx, `
		SELECT likes_count
		FROM reviews
		WHERE id = $1
		FOR UPDATE
	`, reviewID).Scan(&likes)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, ErrReviewNotFound
	}
	if err != nil {
		return "", 0, fmt.Errorf("lock review: %w", err)
	}

	var liked bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM review_likes WHERE review_id = $1 AND user_id = $2)
	`, reviewID, userID).Scan(&liked)
	if err != nil {
		return "", 0, fmt.Errorf("check like: %w", err)
	}

	var action models.LikeAction
	if liked {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM review_likes
			WHERE review_id = $1 AND user_id = $2
		`, reviewID, userID); err != nil {
			return "", 0, fmt.Errorf("delete like: %w", err)
		}
		action = models.LikeActionUnliked
		likes--
		if likes < 0 {
			likes = 0
		}
	} else {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO review_likes (review_id, user_id)
			VALUES ($1, $2)
		`, reviewID, userID); err != nil {
			return "", 0, fmt.Errorf("insert like: %w", err)
		}
		action = models.LikeActionLiked
		likes++
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE reviews
		SET likes_count = $1, updated_at = NOW()
		WHERE id = $2
	`, likes, reviewID); err != nil {
		return "", 0, fmt.Errorf("update likes count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", 0, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return action, likes, nil
}

// HasLiked checks the caller's like membership on a review.
func (s *Store) HasLiked(ctx context.Context, reviewID, userID int64) (bool, error) {
	var liked bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM review_likes WHERE review_id = $1 AND user_id = $2)
	`, reviewID, userID).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return liked, nil
}

// AddComment appends a comment and increments comments_count in one
// transaction.
func (s *Store) AddComment(ctx context.Context, reviewID, userID int64, text string) (*models.Comment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var locked int64
	err = tx.QueryRowContext(ctx, `
		SELECT id
		FROM reviews
		WHERE id = $1
		FOR UPDATE
	`, reviewID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock review: %w", err)
	}

	comment := models.Comment{ReviewID: reviewID, UserID: userID, Text: text}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO review_comments (review_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, reviewID, userID, text).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE reviews
		SET comments_count = comments_count + 1, updated_at = NOW()
		WHERE id = $1
	`, reviewID); err != nil {
		return nil, fmt.Errorf("update comments count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return &comment, nil
}

// ListComments returns a review's comments oldest first.
func (s *Store) ListComments(ctx context.Context, reviewID int64) ([]*models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, review_id, user_id, text, created_at
		FROM review_comments
		WHERE review_id = $1
		ORDER BY created_at ASC
	`, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ReviewID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
