package models

import "time"

// Artist is a normalized performer record created on first reference.
// Name uniqueness is best-effort only (exact-match lookup, no constraint).
type Artist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Genre     string    `json:"genre,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
