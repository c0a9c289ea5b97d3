package models

import "time"

// User is an account holder. LoggedConcertsCount is a derived counter
// maintained by the concert store's create path; there is no decrement.
type User struct {
	ID                  int64     `json:"id"`
	Email               string    `json:"email"`
	DisplayName         string    `json:"display_name"`
	Bio                 string    `json:"bio,omitempty"`
	ProfilePictureURL   string    `json:"profile_picture_url,omitempty"`
	LoggedConcertsCount int       `json:"logged_concerts_count"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
