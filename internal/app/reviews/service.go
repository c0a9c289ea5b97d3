package reviews

import (
	"context"
	"errors"
	"strings"

	"showlog/internal/conn"
	"showlog/shared/go/logging"
	"showlog/shared/go/models"
)

var (
	// ErrTextRequired rejects empty or whitespace-only review/comment text.
	ErrTextRequired = errors.New("text is required")
	// ErrInvalidRating rejects ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrIdentityMismatch rejects a mutation whose caller is not the user
	// it claims to act for. Checked before any store write.
	ErrIdentityMismatch = errors.New("caller identity does not match user")
)

// Store defines persistence operations for reviews and engagement.
type Store interface {
	GetConcert(ctx context.Context, id int64) (*models.ConcertWithDetails, error)
	CreateReview(ctx context.Context, review *models.Review) (int64, error)
	GetReview(ctx context.Context, id int64) (*models.Review, error)
	ListReviewsByConcert(ctx context.Context, concertID int64) ([]*models.Review, bool, error)
	ToggleLike(ctx context.Context, reviewID, userID int64) (models.LikeAction, int, error)
	HasLiked(ctx context.Context, reviewID, userID int64) (bool, error)
	AddComment(ctx context.Context, reviewID, userID int64, text string) (*models.Comment, error)
	ListComments(ctx context.Context, reviewID int64) ([]*models.Comment, error)
}

// ReviewList is the result of a concert-review read. UsingFallback reports
// that the ordered index was unavailable and the order came from an
// in-memory sort, so the caller can show a staleness hint.
type ReviewList struct {
	Reviews       []*models.Review
	UsingFallback bool
}

// LikeResult reports the outcome of a like toggle.
type LikeResult struct {
	Action     models.LikeAction
	LikesCount int
}

// Service coordinates review submission and engagement.
type Service interface {
	Submit(ctx context.Context, concertID, userID int64, rating int, text string) (int64, error)
	ListByConcert(ctx context.Context, concertID int64) (ReviewList, error)
	Get(ctx context.Context, id int64) (*models.Review, error)
	ToggleLike(ctx context.Context, reviewID, callerID, userID int64) (LikeResult, error)
	HasLiked(ctx context.Context, reviewID, userID int64) bool
	AddComment(ctx context.Context, reviewID, callerID, userID int64, text string) (*models.Comment, error)
	Comments(ctx context.Context, reviewID int64) ([]*models.Comment, error)
}

type service struct {
	store   Store
	manager *conn.Manager
}

// New constructs a reviews Service.
func New(st Store, manager *conn.Manager) Service {
	return &service{store: st, manager: manager}
}

// Submit creates a review bound to a concert. When the reviewer owns the
// concert, the stored rating is the concert's own rating; caller input is
// ignored. A missing concert is a hard error.
func (s *service) Submit(ctx context.Context, concertID, userID int64, rating int, text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrTextRequired
	}
	if rating < 1 || rating > 5 {
		return 0, ErrInvalidRating
	}

	return conn.Execute(ctx, s.manager, "submit review", func(ctx context.Context) (int64, error) {
		concert, err := s.store.GetConcert(ctx, concertID)
		if err != nil {
			return 0, err
		}
		if concert.UserID == userID {
			rating = concert.Rating
		}
		return s.store.CreateReview(ctx, &models.Review{
			ConcertID: concertID,
			UserID:    userID,
			Rating:    rating,
			Text:      text,
		})
	})
}

func (s *service) ListByConcert(ctx context.Context, concertID int64) (ReviewList, error) {
	return conn.Execute(ctx, s.manager, "list concert reviews", func(ctx context.Context) (ReviewList, error) {
		reviews, usingFallback, err := s.store.ListReviewsByConcert(ctx, concertID)
		if err != nil {
			return ReviewList{}, err
		}
		return ReviewList{Reviews: reviews, UsingFallback: usingFallback}, nil
	})
}

func (s *service) Get(ctx context.Context, id int64) (*models.Review, error) {
	return conn.Execute(ctx, s.manager, "get review", func(ctx context.Context) (*models.Review, error) {
		return s.store.GetReview(ctx, id)
	})
}

// ToggleLike flips the caller's like membership atomically. The caller's
// verified identity must match the userID argument.
func (s *service) ToggleLike(ctx context.Context, reviewID, callerID, userID int64) (LikeResult, error) {
	if callerID != userID {
		return LikeResult{}, ErrIdentityMismatch
	}
	return conn.Execute(ctx, s.manager, "toggle review like", func(ctx context.Context) (LikeResult, error) {
		action, count, err := s.store.ToggleLike(ctx, reviewID, userID)
		if err != nil {
			return LikeResult{}, err
		}
		return LikeResult{Action: action, LikesCount: count}, nil
	})
}

// HasLiked is advisory UI decoration; any failure reads as "not liked".
func (s *service) HasLiked(ctx context.Context, reviewID, userID int64) bool {
	liked, err := conn.Execute(ctx, s.manager, "check review like", func(ctx context.Context) (bool, error) {
		return s.store.HasLiked(ctx, reviewID, userID)
	})
	if err != nil {
		logging.WithContext(ctx).Debug().Err(err).Int64("review_id", reviewID).Msg("like check failed")
		return false
	}
	return liked
}

// AddComment appends a comment atomically with its counter. Blank text is
// rejected before any store call.
func (s *service) AddComment(ctx context.Context, reviewID, callerID, userID int64, text string) (*models.Comment, error) {
	if callerID != userID {
		return nil, ErrIdentityMismatch
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}
	return conn.Execute(ctx, s.manager, "add review comment", func(ctx context.Context) (*models.Comment, error) {
		return s.store.AddComment(ctx, reviewID, userID, text)
	})
}

func (s *service) Comments(ctx context.Context, reviewID int64) ([]*models.Comment, error) {
	return conn.Execute(ctx, s.manager, "list review comments", func(ctx context.Context) ([]*models.Comment, error) {
		return s.store.ListComments(ctx, reviewID)
	})
}
