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

func TestFindArtistByNamePicksOldest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at ASC
			LIMIT 1`)).
		WithArgs("Four Tet").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "genre", "image_url", "created_at"}).
			AddRow(int64(8), "Four Tet", nil, nil, created))

	artist, err := s.FindArtistByName(context.Background(), "Four Tet")
	if err != nil {
		t.Fatalf("FindArtistByName error: %v", err)
	}
	if artist.ID != 8 {
		t.Fatalf("expected id 8, got %d", artist.ID)
	}
}

func TestFindArtistByNameNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM artists`)).
		WithArgs("Nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := s.FindArtistByName(context.Background(), "Nobody"); !errors.Is(err, ErrArtistNotFound) {
		t.Fatalf("expected ErrArtistNotFound, got %v", err)
	}
}

func TestCreateVenueDefaultsLocation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO venues (name, city, state, country)`)).
		WithArgs("The Fillmore", models.UnknownPlace).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "city", "state", "country", "created_at"}).
			AddRow(int64(4), "The Fillmore", models.UnknownPlace, models.UnknownPlace, models.UnknownPlace, now))

	venue, err := s.CreateVenue(context.Background(), "The Fillmore")
	if err != nil {
		t.Fatalf("CreateVenue error: %v", err)
	}
	if venue.City != models.UnknownPlace {
		t.Fatalf("expected placeholder city, got %q", venue.City)
	}
}
