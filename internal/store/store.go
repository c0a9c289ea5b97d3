package store

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUserExists signals the email is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound indicates a missing user record.
	ErrUserNotFound = errors.New("user not found")
	// ErrArtistNotFound indicates a missing artist record.
	ErrArtistNotFound = errors.New("artist not found")
	// ErrVenueNotFound indicates a missing venue record.
	ErrVenueNotFound = errors.New("venue not found")
	// ErrConcertNotFound indicates a missing concert record.
	ErrConcertNotFound = errors.New("concert not found")
	// ErrReviewNotFound indicates a missing review record.
	ErrReviewNotFound = errors.New("review not found")
	// ErrIndexNotReady signals a secondary index the ordered query needs is
	// missing or still building; callers fall back to an unordered read.
	ErrIndexNotReady = errors.New("index not ready")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// isIndexNotReady classifies the store's "secondary index missing or still
// building" condition. SQLSTATE 42704 is undefined_object, 42P01
// undefined_table (a hinted index path that is not there yet).
func isIndexNotReady(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "42704" || pgErr.Code == "42P01" {
			return true
		}
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "index")
}

// prefixSentinel is the maximum code point, appended to a search term to
// form the exclusive upper bound of a prefix-range query.
const prefixSentinel = "\U0010FFFF"

func prefixUpperBound(term string) string {
	return term + prefixSentinel
}

// placeholders renders $start..$start+n-1 for dynamic IN lists.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = "$" + strconv.Itoa(start+i)
	}
	return strings.Join(parts, ", ")
}
