package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"showlog/internal/conn"
	"showlog/shared/go/logging"
	"showlog/shared/go/models"
)

const (
	// resultCap bounds each search result list.
	resultCap = 10
	// discoveryCap bounds the trending/popular discovery lists.
	discoveryCap = 5
)

// Store defines the read queries search is built on.
type Store interface {
	SearchArtistsByPrefix(ctx context.Context, term string, limit int) ([]*models.Artist, error)
	SearchVenuesByField(ctx context.Context, field, term string, limit int) ([]*models.Venue, error)
	SearchConcertsByField(ctx context.Context, field, term string, limit int) ([]*models.ConcertWithDetails, error)
	TrendingConcerts(ctx context.Context, limit int) ([]*models.ConcertWithDetails, error)
	RecentArtists(ctx context.Context, limit int) ([]*models.Artist, error)
}

// Service provides prefix search and discovery lists. Search is a
// non-critical surface: failures resolve to empty lists, never errors.
//
// Matching is case-sensitive prefix matching against the stored names.
type Service interface {
	Artists(ctx context.Context, term string) []*models.Artist
	Venues(ctx context.Context, term string) []*models.Venue
	Concerts(ctx context.Context, term string) []*models.ConcertWithDetails
	Trending(ctx context.Context) []*models.ConcertWithDetails
	PopularArtists(ctx context.Context) []*models.Artist
}

type service struct {
	store   Store
	manager *conn.Manager
}

// New constructs a search Service.
func New(st Store, manager *conn.Manager) Service {
	return &service{store: st, manager: manager}
}

func (s *service) Artists(ctx context.Context, term string) []*models.Artist {
	term = strings.TrimSpace(term)
	if term == "" {
		return []*models.Artist{}
	}
	artists, err := conn.Execute(ctx, s.manager, "search artists", func(ctx context.Context) ([]*models.Artist, error) {
		return s.store.SearchArtistsByPrefix(ctx, term, resultCap)
	})
	if err != nil {
		logging.WithContext(ctx).Warn().Err(err).Str("term", term).Msg("artist search failed")
		return []*models.Artist{}
	}
	if artists == nil {
		artists = []*models.Artist{}
	}
	return artists
}

// Venues matches the term against venue names and cities, merging both
// result sets. A venue matching on both fields appears once.
func (s *service) Venues(ctx context.Context, term string) []*models.Venue {
	term = strings.TrimSpace(term)
	if term == "" {
		return []*models.Venue{}
	}
	venues, err := conn.Execute(ctx, s.manager, "search venues", func(ctx context.Context) ([]*models.Venue, error) {
		var byName, byCity []*models.Venue
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			byName, err = s.store.SearchVenuesByField(gctx, "name", term, resultCap)
			return err
		})
		g.Go(func() error {
			var err error
			byCity, err = s.store.SearchVenuesByField(gctx, "city", term, resultCap)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return mergeByID(byName, byCity, func(v *models.Venue) int64 { return v.ID }), nil
	})
	if err != nil {
		logging.WithContext(ctx).Warn().Err(err).Str("term", term).Msg("venue search failed")
		return []*models.Venue{}
	}
	return venues
}

// Concerts matches the term against the artist and venue names of logged
// concerts, merged and deduplicated.
func (s *service) Concerts(ctx context.Context, term string) []*models.ConcertWithDetails {
	term = strings.TrimSpace(term)
	if term == "" {
		return []*models.ConcertWithDetails{}
	}
	concerts, err := conn.Execute(ctx, s.manager, "search concerts", func(ctx context.Context) ([]*models.ConcertWithDetails, error) {
		var byArtist, byVenue []*models.ConcertWithDetails
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			byArtist, err = s.store.SearchConcertsByField(gctx, "artist", term, resultCap)
			return err
		})
		g.Go(func() error {
			var err error
			byVenue, err = s.store.SearchConcertsByField(gctx, "venue", term, resultCap)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return mergeByID(byArtist, byVenue, func(c *models.ConcertWithDetails) int64 { return c.ID }), nil
	})
	if err != nil {
		logging.WithContext(ctx).Warn().Err(err).Str("term", term).Msg("concert search failed")
		return []*models.ConcertWithDetails{}
	}
	return concerts
}

// Trending returns the newest logged concerts. Recency stands in for
// popularity until engagement-weighted ranking exists.
func (s *service) Trending(ctx context.Context) []*models.ConcertWithDetails {
	concerts, err := conn.Execute(ctx, s.manager, "trending concerts", func(ctx context.Context) ([]*models.ConcertWithDetails, error) {
		return s.store.TrendingConcerts(ctx, discoveryCap)
	})
	if err != nil {
		logging.WithContext(ctx).Warn().Err(err).Msg("trending lookup failed")
		return []*models.ConcertWithDetails{}
	}
	if concerts == nil {
		concerts = []*models.ConcertWithDetails{}
	}
	return concerts
}

// PopularArtists returns the most recently added artists.
func (s *service) PopularArtists(ctx context.Context) []*models.Artist {
	artists, err := conn.Execute(ctx, s.manager, "popular artists", func(ctx context.Context) ([]*models.Artist, error) {
		return s.store.RecentArtists(ctx, discoveryCap)
	})
	if err != nil {
		logging.WithContext(ctx).Warn().Err(err).Msg("popular artists lookup failed")
		return []*models.Artist{}
	}
	if artists == nil {
		artists = []*models.Artist{}
	}
	return artists
}

// mergeByID concatenates two result sets keeping first occurrence per ID
// and capping at resultCap.
func mergeByID[T any](first, second []T, id func(T) int64) []T {
	seen := make(map[int64]struct{}, len(first)+len(second))
	merged := make([]T, 0, len(first)+len(second))
	for _, item := range append(first, second...) {
		if _, ok := seen[id(item)]; ok {
			continue
		}
		seen[id(item)] = struct{}{}
		merged = append(merged, item)
		if len(merged) == resultCap {
			break
		}
	}
	return merged
}

// Debounce returns a trailing-edge debounced wrapper around fn: rapid
// successive calls reset the timer and only the last call runs, after
// delay. Callers use it to coalesce per-keystroke search triggers.
func Debounce(fn func(), delay time.Duration) func() {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, fn)
	}
}
