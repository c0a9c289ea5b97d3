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

func TestCreateConcertIncrementsCounter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	date := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO concerts (artist_id, venue_id, user_id, date, rating, notes)`)).
		WithArgs(int64(7), int64(3), int64(42), date, 5, "front row").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(regexp.QuoteMeta(`SET logged_concerts_count = logged_concerts_count + 1`)).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := s.CreateConcert(context.Background(), &models.Concert{
		ArtistID: 7,
		VenueID:  3,
		UserID:   42,
		Date:     date,
		Rating:   5,
		Notes:    "front row",
	})
	if err != nil {
		t.Fatalf("CreateConcert error: %v", err)
	}
	if id != 11 {
		t.Fatalf("expected id 11, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateConcertRollsBackOnCounterFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	date := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO concerts (artist_id, venue_id, user_id, date, rating, notes)`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(regexp.QuoteMeta(`SET logged_concerts_count = logged_concerts_count + 1`)).
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	if _, err := s.CreateConcert(context.Background(), &models.Concert{
		ArtistID: 7, VenueID: 3, UserID: 42, Date: date, Rating: 5,
	}); err == nil {
		t.Fatal("expected error but got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetConcertNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM concerts c`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := s.GetConcert(context.Background(), 99); !errors.Is(err, ErrConcertNotFound) {
		t.Fatalf("expected ErrConcertNotFound, got %v", err)
	}
}

func TestGetConcertJoinsPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	now := time.Now()

	columns := []string{"id", "artist_id", "venue_id", "user_id", "date", "rating",
		"notes", "created_at", "updated_at", "artist_name", "venue_name", "venue_city"}
	mock.ExpectQuery(regexp.QuoteMeta(`COALESCE(a.name, 'Unknown Artist')`)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(11), int64(7), int64(3), int64(42), now, 5,
				nil, now, now, "Unknown Artist", "Unknown Venue", "Unknown"))

	got, err := s.GetConcert(context.Background(), 11)
	if err != nil {
		t.Fatalf("GetConcert error: %v", err)
	}
	if got.ArtistName != "Unknown Artist" || got.VenueName != "Unknown Venue" {
		t.Fatalf("expected placeholder names, got %q / %q", got.ArtistName, got.VenueName)
	}
	if got.Notes != "" {
		t.Fatalf("expected empty notes for NULL, got %q", got.Notes)
	}
}
