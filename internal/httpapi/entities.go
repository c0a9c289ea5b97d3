package httpapi

import (
	"errors"
	"net/http"

	"showlog/internal/store"
)

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	artist, err := s.entities.Artist(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrArtistNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "artist not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleGetVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	venue, err := s.entities.Venue(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrVenueNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "venue not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, venue)
}
