package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"showlog/shared/go/models"
)

// concertColumns joins artist and venue names onto the concert row. Dangling
// references degrade to display placeholders rather than dropping the row.
const concertColumns = `
	SELECT c.id, c.artist_id, c.venue_id, c.user_id, c.date, c.rating,
	       c.notes, c.created_at, c.updated_at,
	       COALESCE(a.name, 'Unknown Artist') AS artist_name,
	       COALESCE(v.name, 'Unknown Venue') AS venue_name,
	       COALESCE(v.city, 'Unknown') AS venue_city
	FROM concerts c
	LEFT JOIN artists a ON c.artist_id = a.id
	LEFT JOIN venues v ON c.venue_id = v.id`

func scanConcert(row interface{ Scan(...any) error }) (*models.ConcertWithDetails, error) {
	var (
		c     models.ConcertWithDetails
		notes sql.NullString
	)
	err := row.Scan(&c.ID, &c.ArtistID, &c.VenueID, &c.UserID, &c.Date, &c.Rating,
		&notes, &c.CreatedAt, &c.UpdatedAt, &c.ArtistName, &c.VenueName, &c.VenueCity)
	if err != nil {
		return nil, err
	}
	c.Notes = notes.String
	return &c, nil
}

// CreateConcert inserts a concert and increments the owner's logged-concert
// counter in the same transaction.
func (s *Store) CreateConcert(ctx context.Context, concert *models.Concert) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO concerts (artist_id, venue_id, user_id, date, rating, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, concert.ArtistID, concert.VenueID, concert.UserID, concert.Date,
		concert.Rating, concert.Notes).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert concert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users
		SET logged_concerts_count = logged_concerts_count + 1, updated_at = NOW()
		WHERE id = $1
	`, concert.UserID); err != nil {
		return 0, fmt.Errorf("increment logged concerts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return id, nil
}

// ListConcertsByUser returns a user's concerts newest show first, sorted by
// the concert date rather than creation time.
func (s *Store) ListConcertsByUser(ctx context.Context, userID int64) ([]*models.ConcertWithDetails, error) {
	rows, err := s.db.QueryContext(ctx, concertColumns+`
	WHERE c.user_id = $1
	ORDER BY c.date DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list concerts: %w", err)
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

// GetConcert retrieves a single concert with joined display names.
func (s *Store) GetConcert(ctx context.Context, id int64) (*models.ConcertWithDetails, error) {
	c, err := scanConcert(s.db.QueryRowContext(ctx, concertColumns+`
	WHERE c.id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConcertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select concert: %w", err)
	}
	return c, nil
}

// ListConcertsByArtist returns a user's concerts for one artist.
func (s *Store) ListConcertsByArtist(ctx context.Context, userID, artistID int64) ([]*models.ConcertWithDetails, error) {
	rows, err := s.db.QueryContext(ctx, concertColumns+`
	WHERE c.user_id = $1 AND c.artist_id = $2
	ORDER BY c.date DESC
	`, userID, artistID)
	if err != nil {
		return nil, fmt.Errorf("list concerts by artist: %w", err)
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

// RecentConcertsByUsers returns the newest concerts authored by any of the
// given users, capped at limit. Used by the feed fan-out.
func (s *Store) RecentConcertsByUsers(ctx context.Context, userIDs []int64, limit int) ([]*models.ConcertWithDetails, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(userIDs)+1)
	for _, id := range userIDs {
		args = append(args, id)
	}
	args = append(args, limit)

	query := fmt.Sprintf(concertColumns+`
	WHERE c.user_id IN (%s)
	ORDER BY c.created_at DESC
	LIMIT $%d`, placeholders(1, len(userIDs)), len(userIDs)+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("recent concerts: %w", err)
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
