package reviews

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showlog/internal/conn"
	"showlog/internal/store"
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
	concert    *models.ConcertWithDetails
	concertErr error

	createdReview *models.Review
	createErr     error

	listReviews  []*models.Review
	listFallback bool
	listErr      error

	toggleAction models.LikeAction
	toggleCount  int
	toggleErr    error

	liked    bool
	likedErr error

	comment    *models.Comment
	commentErr error
}

func (s *stubStore) GetConcert(ctx context.Context, id int64) (*models.ConcertWithDetails, error) {
	if s.concertErr != nil {
		return nil, s.concertErr
	}
	return s.concert, nil
}

func (s *stubStore) CreateReview(ctx context.Context, review *models.Review) (int64, error) {
	s.createdReview = review
	if s.createErr != nil {
		return 0, s.createErr
	}
	return 101, nil
}

func (s *stubStore) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	return nil, store.ErrReviewNotFound
}

func (s *stubStore) ListReviewsByConcert(ctx context.Context, concertID int64) ([]*models.Review, bool, error) {
	return s.listReviews, s.listFallback, s.listErr
}

func (s *stubStore) ToggleLike(ctx context.Context, reviewID, userID int64) (models.LikeAction, int, error) {
	return s.toggleAction, s.toggleCount, s.toggleErr
}

func (s *stubStore) HasLiked(ctx context.Context, reviewID, userID int64) (bool, error) {
	return s.liked, s.likedErr
}

func (s *stubStore) AddComment(ctx context.Context, reviewID, userID int64, text string) (*models.Comment, error) {
	if s.commentErr != nil {
		return nil, s.commentErr
	}
	return s.comment, nil
}

func (s *stubStore) ListComments(ctx context.Context, reviewID int64) ([]*models.Comment, error) {
	return nil, nil
}

func TestSubmitLocksRatingForOwnConcert(t *testing.T) {
	st := &stubStore{concert: &models.ConcertWithDetails{
		Concert: models.Concert{ID: 9, UserID: 42, Rating: 4},
	}}
	svc := New(st, connectedManager(t))

	id, err := svc.Submit(context.Background(), 9, 42, 1, "my own show")
	require.NoError(t, err)
	assert.EqualValues(t, 101, id)
	require.NotNil(t, st.createdReview)
	assert.Equal(t, 4, st.createdReview.Rating, "owner review keeps the concert rating")
}

func TestSubmitKeepsCallerRatingForOthersConcert(t *testing.T) {
	st := &stubStore{concert: &models.ConcertWithDetails{
		Concert: models.Concert{ID: 9, UserID: 7, Rating: 4},
	}}
	svc := New(st, connectedManager(t))

	_, err := svc.Submit(context.Background(), 9, 42, 2, "saw it from the back")
	require.NoError(t, err)
	assert.Equal(t, 2, st.createdReview.Rating)
}

func TestSubmitValidation(t *testing.T) {
	svc := New(&stubStore{}, connectedManager(t))

	_, err := svc.Submit(context.Background(), 9, 42, 3, "   ")
	assert.ErrorIs(t, err, ErrTextRequired)

	_, err = svc.Submit(context.Background(), 9, 42, 0, "fine show")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Submit(context.Background(), 9, 42, 6, "fine show")
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestSubmitMissingConcertIsHardError(t *testing.T) {
	st := &stubStore{concertErr: store.ErrConcertNotFound}
	svc := New(st, connectedManager(t))

	_, err := svc.Submit(context.Background(), 9, 42, 3, "ghost show")
	assert.ErrorIs(t, err, store.ErrConcertNotFound)
	assert.Nil(t, st.createdReview)
}

func TestListByConcertReportsFallback(t *testing.T) {
	st := &stubStore{
		listReviews:  []*models.Review{{ID: 1}},
		listFallback: true,
	}
	svc := New(st, connectedManager(t))

	list, err := svc.ListByConcert(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, list.UsingFallback)
	assert.Len(t, list.Reviews, 1)
}

func TestToggleLikeRequiresMatchingIdentity(t *testing.T) {
	st := &stubStore{toggleAction: models.LikeActionLiked, toggleCount: 1}
	svc := New(st, connectedManager(t))

	_, err := svc.ToggleLike(context.Background(), 5, 42, 43)
	assert.ErrorIs(t, err, ErrIdentityMismatch)

	result, err := svc.ToggleLike(context.Background(), 5, 42, 42)
	require.NoError(t, err)
	assert.Equal(t, models.LikeActionLiked, result.Action)
	assert.Equal(t, 1, result.LikesCount)
}

func TestHasLikedDefaultsToFalseOnError(t *testing.T) {
	st := &stubStore{likedErr: errors.New("boom")}
	svc := New(st, connectedManager(t))

	assert.False(t, svc.HasLiked(context.Background(), 5, 42))
}

func TestAddCommentValidation(t *testing.T) {
	st := &stubStore{comment: &models.Comment{ID: 1, Text: "yes"}}
	svc := New(st, connectedManager(t))

	_, err := svc.AddComment(context.Background(), 5, 42, 43, "yes")
	assert.ErrorIs(t, err, ErrIdentityMismatch)

	_, err = svc.AddComment(context.Background(), 5, 42, 42, "  ")
	assert.ErrorIs(t, err, ErrTextRequired)

	comment, err := svc.AddComment(context.Background(), 5, 42, 42, "yes")
	require.NoError(t, err)
	assert.EqualValues(t, 1, comment.ID)
}
