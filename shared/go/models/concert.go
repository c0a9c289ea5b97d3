package models

import "time"

// Concert is one logged show. ArtistID/VenueID/UserID are ownership-free
// back-references resolved through store lookups.
type Concert struct {
	ID        int64     `json:"id"`
	ArtistID  int64     `json:"artist_id"`
	VenueID   int64     `json:"venue_id"`
	UserID    int64     `json:"user_id"`
	Date      time.Time `json:"date"`
	Rating    int       `json:"rating"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConcertWithDetails includes the joined artist and venue names.
type ConcertWithDetails struct {
	Concert
	ArtistName string `json:"artist_name"`
	VenueName  string `json:"venue_name"`
	VenueCity  string `json:"venue_city"`
}
