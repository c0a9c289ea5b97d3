package search

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showlog/internal/conn"
	"showlog/shared/go/models"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func connectedManager(t *testing.T) *conn.Manager {
	t.Helper()
	m := conn.NewManager(1, time.Millisecond)
	require.NoError(t, m.Reconnect(context.Background(), pingerFunc(func(context.Context) error { return nil })))
	return m
}

type stubStore struct {
	artists    []*models.Artist
	artistsErr error

	venuesByField map[string][]*models.Venue
	venuesErr     error

	concertsByField map[string][]*models.ConcertWithDetails

	trending []*models.ConcertWithDetails
	recent   []*models.Artist
}

func (s *stubStore) SearchArtistsByPrefix(ctx context.Context, term string, limit int) ([]*models.Artist, error) {
	return s.artists, s.artistsErr
}

func (s *stubStore) SearchVenuesByField(ctx context.Context, field, term string, limit int) ([]*models.Venue, error) {
	if s.venuesErr != nil {
		return nil, s.venuesErr
	}
	return s.venuesByField[field], nil
}

func (s *stubStore) SearchConcertsByField(ctx context.Context, field, term string, limit int) ([]*models.ConcertWithDetails, error) {
	return s.concertsByField[field], nil
}

func (s *stubStore) TrendingConcerts(ctx context.Context, limit int) ([]*models.ConcertWithDetails, error) {
	if limit < len(s.trending) {
		return s.trending[:limit], nil
	}
	return s.trending, nil
}

func (s *stubStore) RecentArtists(ctx context.Context, limit int) ([]*models.Artist, error) {
	if limit < len(s.recent) {
		return s.recent[:limit], nil
	}
	return s.recent, nil
}

func TestArtistsBlankTermShortCircuits(t *testing.T) {
	st := &stubStore{artists: []*models.Artist{{ID: 1}}}
	svc := New(st, connectedManager(t))

	assert.Empty(t, svc.Artists(context.Background(), "   "))
}

func TestArtistsDefaultsToEmptyOnError(t *testing.T) {
	st := &stubStore{artistsErr: errors.New("boom")}
	svc := New(st, connectedManager(t))

	got := svc.Artists(context.Background(), "Rad")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestVenuesMergesNameAndCityMatches(t *testing.T) {
	st := &stubStore{venuesByField: map[string][]*models.Venue{
		"name": {{ID: 1, Name: "Paradiso"}, {ID: 2, Name: "Paard"}},
		"city": {{ID: 2, Name: "Paard"}, {ID: 3, Name: "013"}},
	}}
	svc := New(st, connectedManager(t))

	venues := svc.Venues(context.Background(), "Pa")
	require.Len(t, venues, 3, "overlap must be deduplicated")

	seen := map[int64]bool{}
	for _, v := range venues {
		assert.False(t, seen[v.ID], "venue %d appeared twice", v.ID)
		seen[v.ID] = true
	}
}

func TestConcertsMergeCapped(t *testing.T) {
	byArtist := make([]*models.ConcertWithDetails, 0, 8)
	byVenue := make([]*models.ConcertWithDetails, 0, 8)
	for i := 0; i < 8; i++ {
		byArtist = append(byArtist, &models.ConcertWithDetails{Concert: models.Concert{ID: int64(i + 1)}})
		byVenue = append(byVenue, &models.ConcertWithDetails{Concert: models.Concert{ID: int64(i + 50)}})
	}
	st := &stubStore{concertsByField: map[string][]*models.ConcertWithDetails{
		"artist": byArtist,
		"venue":  byVenue,
	}}
	svc := New(st, connectedManager(t))

	concerts := svc.Concerts(context.Background(), "x")
	assert.Len(t, concerts, resultCap)
}

func TestDiscoveryListsAreCapped(t *testing.T) {
	st := &stubStore{}
	for i := 0; i < 12; i++ {
		st.trending = append(st.trending, &models.ConcertWithDetails{Concert: models.Concert{ID: int64(i)}})
		st.recent = append(st.recent, &models.Artist{ID: int64(i)})
	}
	svc := New(st, connectedManager(t))

	assert.Len(t, svc.Trending(context.Background()), discoveryCap)
	assert.Len(t, svc.PopularArtists(context.Background()), discoveryCap)
}

func TestDebounceTrailingEdge(t *testing.T) {
	var runs int32
	debounced := Debounce(func() { atomic.AddInt32(&runs, 1) }, 100*time.Millisecond)

	for i := 0; i < 5; i++ {
		debounced()
		time.Sleep(5 * time.Millisecond)
	}

	assert.EqualValues(t, 0, atomic.LoadInt32(&runs), "nothing runs before the delay elapses")

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) == 1
	}, time.Second, 10*time.Millisecond, "exactly the last call runs")

	time.Sleep(150 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt32(&runs))
}
