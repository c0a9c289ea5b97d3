package models

import "time"

// UnknownPlace is the placeholder for location fields the concert-logging
// path does not collect.
const UnknownPlace = "Unknown"

// Venue is a normalized venue record created on first reference.
type Venue struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Country   string    `json:"country"`
	Address   string    `json:"address,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
