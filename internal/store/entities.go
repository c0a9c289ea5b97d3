package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"showlog/shared/go/models"
)

// FindArtistByName does a case-sensitive exact-match lookup. The oldest
// record wins when best-effort deduplication has let duplicates through.
func (s *Store) FindArtistByName(ctx context.Context, name string) (*models.Artist, error) {
	var (
		a        models.Artist
		genre    sql.NullString
		imageURL sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, genre, image_url, created_at
		FROM artists
		WHERE name = $1
		ORDER BY created_at ASC
		LIMIT 1
	`, name).Scan(&a.ID, &a.Name, &genre, &imageURL, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find artist: %w", err)
	}
	a.Genre = genre.String
	a.ImageURL = imageURL.String
	return &a, nil
}

// CreateArtist inserts a new artist with placeholder fields.
func (s *Store) CreateArtist(ctx context.Context, name string) (*models.Artist, error) {
	var a models.Artist
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO artists (name)
		VALUES ($1)
		RETURNING id, name, created_at
	`, name).Scan(&a.ID, &a.Name, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert artist: %w", err)
	}
	return &a, nil
}

// GetArtist fetches an artist by id.
func (s *Store) GetArtist(ctx context.Context, id int64) (*models.Artist, error) {
	var (
		a        models.Artist
		genre    sql.NullString
		imageURL sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, genre, image_url, created_at
		FROM artists
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Name, &genre, &imageURL, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select artist: %w", err)
	}
	a.Genre = genre.String
	a.ImageURL = imageURL.String
	return &a, nil
}

// FindVenueByName does a case-sensitive exact-match lookup by venue name.
func (s *Store) FindVenueByName(ctx context.Context, name string) (*models.Venue, error) {
	var (
		v        models.Venue
		address  sql.NullString
		imageURL sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, city, state, country, address, image_url, created_at
		FROM venues
		WHERE name = $1
		ORDER BY created_at ASC
		LIMIT 1
	`, name).Scan(&v.ID, &v.Name, &v.City, &v.State, &v.Country, &address, &imageURL, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVenueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find venue: %w", err)
	}
	v.Address = address.String
	v.ImageURL = imageURL.String
	return &v, nil
}

// CreateVenue inserts a new venue. The concert-logging path collects only a
// name, so location fields default to the Unknown placeholder.
func (s *Store) CreateVenue(ctx context.Context, name string) (*models.Venue, error) {
	var v models.Venue
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO venues (name, city, state, country)
		VALUES ($1, $2, $2, $2)
		RETURNING id, name, city, state, country, created_at
	`, name, models.UnknownPlace).Scan(&v.ID, &v.Name, &v.City, &v.State, &v.Country, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert venue: %w", err)
	}
	return &v, nil
}

// GetVenue fetches a venue by id.
func (s *Store) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	var (
		v        models.Venue
		address  sql.NullString
		imageURL sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, city, state, country, address, image_url, created_at
		FROM venues
		WHERE id = $1
	`, id).Scan(&v.ID, &v.Name, &v.City, &v.State, &v.Country, &address, &imageURL, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVenueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select venue: %w", err)
	}
	v.Address = address.String
	v.ImageURL = imageURL.String
	return &v, nil
}
