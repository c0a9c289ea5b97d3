package models

import "time"

// FeedItemType distinguishes the two activity sources.
type FeedItemType string

const (
	FeedItemConcertLogged FeedItemType = "concert_logged"
	FeedItemReviewPosted  FeedItemType = "review_posted"
)

// Placeholders shown when a display join cannot resolve its reference.
const (
	UnknownUser   = "Unknown User"
	UnknownArtist = "Unknown Artist"
	UnknownVenue  = "Unknown Venue"
)

// FeedItem is one entry in the social activity feed, denormalized for
// display so the client needs no further lookups.
type FeedItem struct {
	ID              string       `json:"id"`
	Type            FeedItemType `json:"type"`
	UserID          int64        `json:"user_id"`
	UserDisplayName string       `json:"user_display_name"`
	ConcertID       int64        `json:"concert_id"`
	ConcertName     string       `json:"concert_name"`
	ArtistName      string       `json:"artist_name"`
	VenueName       string       `json:"venue_name"`
	ReviewID        *int64       `json:"review_id,omitempty"`
	Timestamp       time.Time    `json:"timestamp"`
}
