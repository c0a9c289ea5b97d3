package social

import (
	"context"

	"showlog/internal/conn"
	"showlog/shared/go/logging"
)

// Store defines persistence operations for the follow graph.
type Store interface {
	CreateFollow(ctx context.Context, followerID, followeeID int64) error
	DeleteFollow(ctx context.Context, followerID, followeeID int64) error
	FollowExists(ctx context.Context, followerID, followeeID int64) (bool, error)
	ListFollowing(ctx context.Context, followerID int64) ([]int64, error)
}

// Service maintains follow edges. These are non-critical social
// affordances: every failure path resolves to false or an empty list
// rather than surfacing an error to the caller.
type Service interface {
	Follow(ctx context.Context, followerID, followeeID int64) bool
	Unfollow(ctx context.Context, followerID, followeeID int64) bool
	IsFollowing(ctx context.Context, followerID, followeeID int64) bool
	Following(ctx context.Context, userID int64) []int64
}

type service struct {
	store   Store
	manager *conn.Manager
}

// New constructs a social-graph Service.
func New(st Store, manager *conn.Manager) Service {
	return &service{store: st, manager: manager}
}

func (s *service) Follow(ctx context.Context, followerID, followeeID int64) bool {
	if followerID == followeeID {
		return false
	}
	err := s.manager.Execute(ctx, "follow user", func(ctx context.Context) error {
		return s.store.CreateFollow(ctx, followerID, followeeID)
	})
	if err != nil {
		logging.WithContext(ctx).Warn().Err(err).Int64("followee_id", followeeID).Msg("follow failed")
		return false
	}
	return true
}

func (s *service) Unfollow(ctx context.Context, followerID, followeeID int64) bool {
	err := s.manager.Execute(ctx, "unfollow user", func(ctx context.Context) error {
		return s.store.DeleteFollow(ctx, followerID, followeeID)
	})
	if err != nil {
		logging.WithContext(ctx).Warn().Err(err).Int64("followee_id", followeeID).Msg("unfollow failed")
		return false
	}
	return true
}

func (s *service) IsFollowing(ctx context.Context, followerID, followeeID int64) bool {
	following, err := conn.Execute(ctx, s.manager, "check following", func(ctx context.Context) (bool, error) {
		return s.store.FollowExists(ctx, followerID, followeeID)
	})
	if err != nil {
		logging.WithContext(ctx).Debug().Err(err).Int64("followee_id", followeeID).Msg("follow check failed")
		return false
	}
	return following
}

func (s *service) Following(ctx context.Context, userID int64) []int64 {
	ids, err := conn.Execute(ctx, s.manager, "list following", func(ctx context.Context) ([]int64, error) {
		return s.store.ListFollowing(ctx, userID)
	})
	if err != nil {
		logging.WithContext(ctx).Warn().Err(err).Msg("list following failed")
		return nil
	}
	return ids
}
