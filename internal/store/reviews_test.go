package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"showlog/shared/go/models"
)

var reviewColumns = []string{"id", "concert_id", "user_id", "rating", "text",
	"likes_count", "comments_count", "created_at", "updated_at"}

func TestToggleLikeAddsMembership(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT likes_count`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"likes_count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM review_likes`)).
		WithArgs(int64(5), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO review_likes (review_id, user_id)`)).
		WithArgs(int64(5), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`SET likes_count = $1`)).
		WithArgs(3, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	action, likes, err := s.ToggleLike(context.Background(), 5, 42)
	if err != nil {
		t.Fatalf("ToggleLike error: %v", err)
	}
	if action != models.LikeActionLiked {
		t.Fatalf("expected liked, got %q", action)
	}
	if likes != 3 {
		t.Fatalf("expected 3 likes, got %d", likes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestToggleLikeRemovesMembership(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT likes_count`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"likes_count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM review_likes`)).
		WithArgs(int64(5), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM review_likes`)).
		WithArgs(int64(5), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`SET likes_count = $1`)).
		WithArgs(0, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	action, likes, err := s.ToggleLike(context.Background(), 5, 42)
	if err != nil {
		t.Fatalf("ToggleLike error: %v", err)
	}
	if action != models.LikeActionUnliked {
		t.Fatalf("expected unliked, got %q", action)
	}
	if likes != 0 {
		t.Fatalf("expected 0 likes, got %d", likes)
	}
}

func TestToggleLikeCounterNeverNegative(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	// Stored counter drifted to zero while a membership row still exists.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT likes_count`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"likes_count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM review_likes`)).
		WithArgs(int64(5), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM review_likes`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`SET likes_count = $1`)).
		WithArgs(0, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, likes, err := s.ToggleLike(context.Background(), 5, 42)
	if err != nil {
		t.Fatalf("ToggleLike error: %v", err)
	}
	if likes != 0 {
		t.Fatalf("expected floor at 0, got %d", likes)
	}
}

func TestToggleLikeMissingReview(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT likes_count`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"likes_count"}))
	mock.ExpectRollback()

	if _, _, err := s.ToggleLike(context.Background(), 5, 42); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestListReviewsByConcertFallsBackWhenIndexNotReady(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	older := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC`)).
		WithArgs(int64(9)).
		WillReturnError(errors.New("index is currently building"))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE concert_id = $1`)).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(reviewColumns).
			AddRow(int64(1), int64(9), int64(42), 4, "solid", 0, 0, older, older).
			AddRow(int64(2), int64(9), int64(43), 5, "unreal", 0, 0, newer, newer))

	reviews, usingFallback, err := s.ListReviewsByConcert(context.Background(), 9)
	if err != nil {
		t.Fatalf("ListReviewsByConcert error: %v", err)
	}
	if !usingFallback {
		t.Fatal("expected usingFallback to be reported")
	}
	if len(reviews) != 2 || reviews[0].ID != 2 || reviews[1].ID != 1 {
		t.Fatalf("expected newest-first order after in-memory sort, got %+v", reviews)
	}
}

func TestListReviewsByConcertPropagatesOtherErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC`)).
		WithArgs(int64(9)).
		WillReturnError(errors.New("permission denied"))

	if _, _, err := s.ListReviewsByConcert(context.Background(), 9); err == nil {
		t.Fatal("expected error but got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddCommentBumpsCounter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id
			FROM reviews`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO review_comments (review_id, user_id, text)`)).
		WithArgs(int64(5), int64(42), "agreed").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(77), now))
	mock.ExpectExec(regexp.QuoteMeta(`SET comments_count = comments_count + 1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	comment, err := s.AddComment(context.Background(), 5, 42, "agreed")
	if err != nil {
		t.Fatalf("AddComment error: %v", err)
	}
	if comment.ID != 77 || comment.Text != "agreed" {
		t.Fatalf("unexpected comment: %+v", comment)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddCommentMissingReview(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id
			FROM reviews`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	if _, err := s.AddComment(context.Background(), 5, 42, "agreed"); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}
