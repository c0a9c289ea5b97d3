package models

import "time"

// Review is a write-up bound to a concert. LikesCount and CommentsCount are
// derived counters mutated only through the atomic toggle/append operations.
type Review struct {
	ID            int64     `json:"id"`
	ConcertID     int64     `json:"concert_id"`
	UserID        int64     `json:"user_id"`
	Rating        int       `json:"rating"`
	Text          string    `json:"text"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Comment is an append-only child of a review.
type Comment struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"review_id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeAction reports the outcome of a like toggle.
type LikeAction string

const (
	LikeActionLiked   LikeAction = "liked"
	LikeActionUnliked LikeAction = "unliked"
)
