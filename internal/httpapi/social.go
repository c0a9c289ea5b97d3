package httpapi

import (
	"net/http"

	"showlog/shared/go/models"
)

type followResponse struct {
	Following bool `json:"following"`
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	callerID, _, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	followeeID, ok := pathID(w, r)
	if !ok {
		return
	}

	// Follow reports success as a bool; failures (including self-follow)
	// read as "not following" rather than an error.
	writeJSON(w, http.StatusOK, followResponse{
		Following: s.social.Follow(r.Context(), callerID, followeeID),
	})
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	callerID, _, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	followeeID, ok := pathID(w, r)
	if !ok {
		return
	}

	s.social.Unfollow(r.Context(), callerID, followeeID)
	writeJSON(w, http.StatusOK, followResponse{Following: false})
}

func (s *Server) handleIsFollowing(w http.ResponseWriter, r *http.Request) {
	callerID, _, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	followeeID, ok := pathID(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, followResponse{
		Following: s.social.IsFollowing(r.Context(), callerID, followeeID),
	})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	userID, _, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	items := s.feed.Activities(r.Context(), userID)
	if items == nil {
		items = []models.FeedItem{}
	}

	writeJSON(w, http.StatusOK, struct {
		Items []models.FeedItem `json:"items"`
	}{Items: items})
}
