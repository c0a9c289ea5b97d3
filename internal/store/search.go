package store

import (
	"context"
	"database/sql"
	"fmt"

	"showlog/shared/go/models"
)

// SearchArtistsByPrefix emulates "starts with" over the artist name index:
// name ∈ [term, term+sentinel), ordered by name. Case-sensitive.
func (s *Store) SearchArtistsByPrefix(ctx context.Context, term string, limit int) ([]*models.Artist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, genre, image_url, created_at
		FROM artists
		WHERE name >= $1 AND name < $2
		ORDER BY name ASC
		LIMIT $3
	`, term, prefixUpperBound(term), limit)
	if err != nil {
		return nil, fmt.Errorf("search artists: %w", err)
	}
	defer rows.Close()
	return scanArtists(rows)
}

// SearchVenuesByField runs a prefix-range query over one venue text field.
// field must be a known column; callers pass "name" or "city".
func (s *Store) SearchVenuesByField(ctx context.Context, field, term string, limit int) ([]*models.Venue, error) {
	if field != "name" && field != "city" {
		return nil, fmt.Errorf("search venues: unsupported field %q", field)
	}
	query := fmt.Sprintf(`
		SELECT id, name, city, state, country, address, image_url, created_at
		FROM venues
		WHERE %[1]s >= $1 AND %[1]s < $2
		ORDER BY %[1]s ASC
		LIMIT $3
	`, field)

	rows, err := s.db.QueryContext(ctx, query, term, prefixUpperBound(term), limit)
	if err != nil {
		return nil, fmt.Errorf("search venues: %w", err)
	}
	defer rows.Close()
	return scanVenues(rows)
}

// SearchConcertsByField runs a prefix-range query over a denormalized
// concert text field. field is "artist" or "venue".
func (s *Store) SearchConcertsByField(ctx context.Context, field, term string, limit int) ([]*models.ConcertWithDetails, error) {
	var column string
	switch field {
	case "artist":
		column = "a.name"
	case "venue":
		column = "v.name"
	default:
		return nil, fmt.Errorf("search concerts: unsupported field %q", field)
	}
	query := fmt.Sprintf(concertColumns+`
	WHERE %[1]s >= $1 AND %[1]s < $2
	ORDER BY %[1]s ASC
	LIMIT $3`, column)

	rows, err := s.db.QueryContext(ctx, query, term, prefixUpperBound(term), limit)
	if err != nil {
		return nil, fmt.Errorf("search concerts: %w", err)
	}
	defer rows.Close()

	var concerts []*models.ConcertWithDetails
	for rows.Next() {
		c, err := scanConcert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan concert: %w", err)
		}
		concerts = append(concerts, c)
	}
	return concerts, rows.Err()
}

// TrendingConcerts returns the newest concerts by creation time.
func (s *Store) TrendingConcerts(ctx context.Context, limit int) ([]*models.ConcertWithDetails, error) {
	rows, err := s.db.QueryContext(ctx, concertColumns+`
	ORDER BY c.created_at DESC
	LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("trending concerts: %w", err)
	}
	defer rows.Close()

	var concerts []*models.ConcertWithDetails
	for rows.Next() {
		c, err := scanConcert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan concert: %w", err)
		}
		concerts = append(concerts, c)
	}
	return concerts, rows.Err()
}

// RecentArtists returns the newest artists by creation time.
func (s *Store) RecentArtists(ctx context.Context, limit int) ([]*models.Artist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, genre, image_url, created_at
		FROM artists
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent artists: %w", err)
	}
	defer rows.Close()
	return scanArtists(rows)
}

func scanArtists(rows *sql.Rows) ([]*models.Artist, error) {
	var artists []*models.Artist
	for rows.Next() {
		var (
			a        models.Artist
			genre    sql.NullString
			imageURL sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Name, &genre, &imageURL, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		a.Genre = genre.String
		a.ImageURL = imageURL.String
		artists = append(artists, &a)
	}
	return artists, rows.Err()
}

func scanVenues(rows *sql.Rows) ([]*models.Venue, error) {
	var venues []*models.Venue
	for rows.Next() {
		var (
			v        models.Venue
			address  sql.NullString
			imageURL sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.Name, &v.City, &v.State, &v.Country, &address, &imageURL, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		v.Address = address.String
		v.ImageURL = imageURL.String
		venues = append(venues, &v)
	}
	return venues, rows.Err()
}
