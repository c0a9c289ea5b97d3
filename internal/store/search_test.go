package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSearchArtistsByPrefixBounds(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE name >= $1 AND name < $2`)).
		WithArgs("Rad", "Rad"+prefixSentinel, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "genre", "image_url", "created_at"}).
			AddRow(int64(1), "Radiohead", nil, nil, now))

	artists, err := s.SearchArtistsByPrefix(context.Background(), "Rad", 10)
	if err != nil {
		t.Fatalf("SearchArtistsByPrefix error: %v", err)
	}
	if len(artists) != 1 || artists[0].Name != "Radiohead" {
		t.Fatalf("unexpected result: %+v", artists)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchVenuesByFieldRejectsUnknownColumn(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	if _, err := s.SearchVenuesByField(context.Background(), "address; DROP TABLE venues", "x", 10); err == nil {
		t.Fatal("expected error for unsupported field")
	}
}

func TestSearchConcertsByFieldRejectsUnknownColumn(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	if _, err := s.SearchConcertsByField(context.Background(), "notes", "x", 10); err == nil {
		t.Fatal("expected error for unsupported field")
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(1, 3); got != "$1, $2, $3" {
		t.Fatalf("placeholders(1, 3) = %q", got)
	}
	if got := placeholders(4, 1); got != "$4" {
		t.Fatalf("placeholders(4, 1) = %q", got)
	}
}

func TestIsIndexNotReadyTextClassification(t *testing.T) {
	if !isIndexNotReady(errTest("the required index is currently building")) {
		t.Fatal("expected index-building text to classify as not ready")
	}
	if isIndexNotReady(errTest("permission denied")) {
		t.Fatal("expected unrelated error to propagate")
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
