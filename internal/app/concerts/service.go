package concerts

import (
	"context"
	"errors"
	"strings"
	"time"

	"showlog/internal/analytics"
	"showlog/internal/app/entities"
	"showlog/internal/conn"
	"showlog/shared/go/models"
)

var (
	// ErrArtistRequired rejects a log request with a blank artist name.
	ErrArtistRequired = errors.New("artist name is required")
	// ErrVenueRequired rejects a log request with a blank venue name.
	ErrVenueRequired = errors.New("venue name is required")
	// ErrInvalidRating rejects ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrFutureDate rejects concerts dated in the future.
	ErrFutureDate = errors.New("concert date cannot be in the future")
)

// Store defines persistence operations for concerts.
type Store interface {
	CreateConcert(ctx context.Context, concert *models.Concert) (int64, error)
	ListConcertsByUser(ctx context.Context, userID int64) ([]*models.ConcertWithDetails, error)
	GetConcert(ctx context.Context, id int64) (*models.ConcertWithDetails, error)
	ListConcertsByArtist(ctx context.Context, userID, artistID int64) ([]*models.ConcertWithDetails, error)
}

// Service coordinates concert logging and browsing.
type Service interface {
	Log(ctx context.Context, userID int64, artistName, venueName string, date time.Time, rating int, notes string) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.ConcertWithDetails, error)
	Get(ctx context.Context, id int64) (*models.ConcertWithDetails, error)
	ListByArtist(ctx context.Context, userID, artistID int64) ([]*models.ConcertWithDetails, error)
}

type service struct {
	store    Store
	entities entities.Service
	manager  *conn.Manager
	sink     analytics.Sink
}

// New constructs a concerts Service.
func New(st Store, ent entities.Service, manager *conn.Manager, sink analytics.Sink) Service {
	return &service{store: st, entities: ent, manager: manager, sink: sink}
}

// Log validates the request, resolves the artist and venue, writes the
// concert (incrementing the owner's logged-concert counter), and emits an
// analytics event. The steps run inside one retry-wrapped operation but not
// one store transaction, so a retry after partial success can re-create
// entities; that window is accepted and documented.
func (s *service) Log(ctx context.Context, userID int64, artistName, venueName string, date time.Time, rating int, notes string) (int64, error) {
	if err := validateLog(artistName, venueName, date, rating); err != nil {
		return 0, err
	}

	concertID, err := conn.Execute(ctx, s.manager, "log concert", func(ctx context.Context) (int64, error) {
		artistID, err := s.entities.ResolveArtist(ctx, artistName)
		if err != nil {
			return 0, err
		}
		venueID, err := s.entities.ResolveVenue(ctx, venueName)
		if err != nil {
			return 0, err
		}
		return s.store.CreateConcert(ctx, &models.Concert{
			ArtistID: artistID,
			VenueID:  venueID,
			UserID:   userID,
			Date:     date,
			Rating:   rating,
			Notes:    notes,
		})
	})
	if err != nil {
		return 0, err
	}

	s.sink.Emit("concert_logged", map[string]any{
		"concert_id": concertID,
		"user_id":    userID,
		"artist":     artistName,
		"venue":      venueName,
		"rating":     rating,
	})
	return concertID, nil
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]*models.ConcertWithDetails, error) {
	return conn.Execute(ctx, s.manager, "list user concerts", func(ctx context.Context) ([]*models.ConcertWithDetails, error) {
		return s.store.ListConcertsByUser(ctx, userID)
	})
}

func (s *service) Get(ctx context.Context, id int64) (*models.ConcertWithDetails, error) {
	return conn.Execute(ctx, s.manager, "get concert", func(ctx context.Context) (*models.ConcertWithDetails, error) {
		return s.store.GetConcert(ctx, id)
	})
}

func (s *service) ListByArtist(ctx context.Context, userID, artistID int64) ([]*models.ConcertWithDetails, error) {
	return conn.Execute(ctx, s.manager, "list concerts by artist", func(ctx context.Context) ([]*models.ConcertWithDetails, error) {
		return s.store.ListConcertsByArtist(ctx, userID, artistID)
	})
}

func validateLog(artistName, venueName string, date time.Time, rating int) error {
	if strings.TrimSpace(artistName) == "" {
		return ErrArtistRequired
	}
	if strings.TrimSpace(venueName) == "" {
		return ErrVenueRequired
	}
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if date.After(time.Now()) {
		return ErrFutureDate
	}
	return nil
}
