package entities

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"showlog/internal/store"
	"showlog/shared/go/models"
)

// ErrNameRequired rejects blank entity names before any store call.
var ErrNameRequired = errors.New("name is required")

// Store defines persistence operations for normalized entities.
type Store interface {
	FindArtistByName(ctx context.Context, name string) (*models.Artist, error)
	CreateArtist(ctx context.Context, name string) (*models.Artist, error)
	GetArtist(ctx context.Context, id int64) (*models.Artist, error)
	FindVenueByName(ctx context.Context, name string) (*models.Venue, error)
	CreateVenue(ctx context.Context, name string) (*models.Venue, error)
	GetVenue(ctx context.Context, id int64) (*models.Venue, error)
}

// Service resolves free-text artist/venue names to normalized records,
// creating them on first reference.
//
// Resolution is find-or-create without a transaction or uniqueness
// constraint: two concurrent calls with the same name can both miss the
// lookup and both create, leaving duplicate records. That race is part of
// the contract; reads pick the oldest record for a name.
type Service interface {
	ResolveArtist(ctx context.Context, name string) (int64, error)
	ResolveVenue(ctx context.Context, name string) (int64, error)
	Artist(ctx context.Context, id int64) (*models.Artist, error)
	Venue(ctx context.Context, id int64) (*models.Venue, error)
}

type service struct {
	store Store
}

// New wires an entity-resolution Service backed by the provided Store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) ResolveArtist(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrNameRequired
	}

	artist, err := s.store.FindArtistByName(ctx, name)
	if err == nil {
		return artist.ID, nil
	}
	if !errors.Is(err, store.ErrArtistNotFound) {
		return 0, fmt.Errorf("resolve artist: %w", err)
	}

	created, err := s.store.CreateArtist(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("create artist: %w", err)
	}
	return created.ID, nil
}

func (s *service) ResolveVenue(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrNameRequired
	}

	venue, err := s.store.FindVenueByName(ctx, name)
	if err == nil {
		return venue.ID, nil
	}
	if !errors.Is(err, store.ErrVenueNotFound) {
		return 0, fmt.Errorf("resolve venue: %w", err)
	}

	created, err := s.store.CreateVenue(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("create venue: %w", err)
	}
	return created.ID, nil
}

func (s *service) Artist(ctx context.Context, id int64) (*models.Artist, error) {
	return s.store.GetArtist(ctx, id)
}

func (s *service) Venue(ctx context.Context, id int64) (*models.Venue, error) {
	return s.store.GetVenue(ctx, id)
}
