package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/thoas/go-funk"
	"golang.org/x/sync/errgroup"

	"showlog/internal/app/social"
	"showlog/internal/conn"
	"showlog/internal/store"
	"showlog/shared/go/logging"
	"showlog/shared/go/models"
)

const (
	// sourceCap bounds each fan-out query (concerts, reviews).
	sourceCap = 20
	// feedCap bounds the merged feed.
	feedCap = 30
)

// Store defines the reads the assembler fans out across.
type Store interface {
	RecentConcertsByUsers(ctx context.Context, userIDs []int64, limit int) ([]*models.ConcertWithDetails, error)
	RecentReviewsByUsers(ctx context.Context, userIDs []int64, limit int) ([]*models.Review, error)
	GetConcert(ctx context.Context, id int64) (*models.ConcertWithDetails, error)
	DisplayNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

// Service assembles the social activity feed. The feed is best-effort:
// every failure resolves to an empty list so the caller never blocks on an
// error state.
type Service interface {
	Activities(ctx context.Context, userID int64) []models.FeedItem
}

type service struct {
	store   Store
	social  social.Service
	manager *conn.Manager
}

// New constructs a feed Service.
func New(st Store, soc social.Service, manager *conn.Manager) Service {
	return &service{store: st, social: soc, manager: manager}
}

// Activities resolves the caller's following set, fans out capped recency
// queries over followed users' concerts and reviews, joins display
// metadata, and returns the newest items merged and truncated.
func (s *service) Activities(ctx context.Context, userID int64) []models.FeedItem {
	following := s.social.Following(ctx, userID)
	if len(following) == 0 {
		return []models.FeedItem{}
	}

	items, err := conn.Execute(ctx, s.manager, "assemble feed", func(ctx context.Context) ([]models.FeedItem, error) {
		return s.assemble(ctx, following)
	})
	if err != nil {
		logging.WithContext(ctx).Warn().Err(err).Msg("feed assembly failed")
		return []models.FeedItem{}
	}
	return items
}

func (s *service) assemble(ctx context.Context, following []int64) ([]models.FeedItem, error) {
	var (
		concerts []*models.ConcertWithDetails
		reviews  []*models.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		concerts, err = s.store.RecentConcertsByUsers(gctx, following, sourceCap)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = s.store.RecentReviewsByUsers(gctx, following, sourceCap)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fan out: %w", err)
	}

	return s.join(ctx, concerts, reviews)
}

// join resolves display metadata and merges both sources into one ranked
// window. It is the only step that knows the feed is computed at read time;
// a materialized fan-out-on-write feed would replace this method without
// touching the public contract.
func (s *service) join(ctx context.Context, concerts []*models.ConcertWithDetails, reviews []*models.Review) ([]models.FeedItem, error) {
	authorIDs := make([]int64, 0, len(concerts)+len(reviews))
	for _, c := range concerts {
		authorIDs = append(authorIDs, c.UserID)
	}
	for _, r := range reviews {
		authorIDs = append(authorIDs, r.UserID)
	}

	names, err := s.store.DisplayNamesByIDs(ctx, funk.UniqInt64(authorIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}

	parents, err := s.lookupParents(ctx, reviews)
	if err != nil {
		return nil, err
	}

	items := make([]models.FeedItem, 0, len(concerts)+len(reviews))
	for _, c := range concerts {
		items = append(items, models.FeedItem{
			ID:              fmt.Sprintf("concert-%d", c.ID),
			Type:            models.FeedItemConcertLogged,
			UserID:          c.UserID,
			UserDisplayName: displayName(names, c.UserID),
			ConcertID:       c.ID,
			ConcertName:     concertName(c.ArtistName, c.VenueName),
			ArtistName:      c.ArtistName,
			VenueName:       c.VenueName,
			Timestamp:       c.CreatedAt,
		})
	}
	for _, r := range reviews {
		artist, venue := models.UnknownArtist, models.UnknownVenue
		if parent := parents[r.ConcertID]; parent != nil {
			artist, venue = parent.ArtistName, parent.VenueName
		}
		reviewID := r.ID
		items = append(items, models.FeedItem{
			ID:              fmt.Sprintf("review-%d", r.ID),
			Type:            models.FeedItemReviewPosted,
			UserID:          r.UserID,
			UserDisplayName: displayName(names, r.UserID),
			ConcertID:       r.ConcertID,
			ConcertName:     concertName(artist, venue),
			ArtistName:      artist,
			VenueName:       venue,
			ReviewID:        &reviewID,
			Timestamp:       r.CreatedAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if len(items) > feedCap {
		items = items[:feedCap]
	}
	return items, nil
}

// lookupParents fetches each review's parent concert concurrently. A
// missing concert yields no entry, which the caller renders as
// placeholders; other lookup failures abort the pipeline.
func (s *service) lookupParents(ctx context.Context, reviews []*models.Review) (map[int64]*models.ConcertWithDetails, error) {
	ids := make([]int64, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ConcertID)
	}
	ids = funk.UniqInt64(ids)

	parents := make(map[int64]*models.ConcertWithDetails, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			concert, err := s.store.GetConcert(gctx, id)
			if errors.Is(err, store.ErrConcertNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("resolve concert %d: %w", id, err)
			}
			mu.Lock()
			parents[id] = concert
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parents, nil
}

func displayName(names map[int64]string, userID int64) string {
	if name, ok := names[userID]; ok && name != "" {
		return name
	}
	return models.UnknownUser
}

func concertName(artist, venue string) string {
	return artist + " at " + venue
}
