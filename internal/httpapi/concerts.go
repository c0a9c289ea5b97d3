package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"showlog/internal/app/concerts"
	"showlog/internal/store"
	"showlog/shared/go/models"
)

type logConcertRequest struct {
	ArtistName string `json:"artist_name"`
	VenueName  string `json:"venue_name"`
	Date       string `json:"date"`
	Rating     int    `json:"rating"`
	Notes      string `json:"notes"`
}

type logConcertResponse struct {
	ConcertID int64 `json:"concert_id"`
}

func (s *Server) handleLogConcert(w http.ResponseWriter, r *http.Request) {
	userID, _, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req logConcertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	date, err := parseConcertDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date, expected YYYY-MM-DD or RFC 3339"})
		return
	}

	concertID, err := s.concerts.Log(r.Context(), userID, req.ArtistName, req.VenueName, date, req.Rating, req.Notes)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, concerts.ErrArtistRequired),
			errors.Is(err, concerts.ErrVenueRequired),
			errors.Is(err, concerts.ErrInvalidRating),
			errors.Is(err, concerts.ErrFutureDate):
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, logConcertResponse{ConcertID: concertID})
}

func (s *Server) handleMyConcerts(w http.ResponseWriter, r *http.Request) {
	userID, _, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var (
		list []*models.ConcertWithDetails
		err  error
	)
	if artistStr := r.URL.Query().Get("artist_id"); artistStr != "" {
		artistID, parseErr := strconv.ParseInt(artistStr, 10, 64)
		if parseErr != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid artist_id parameter"})
			return
		}
		list, err = s.concerts.ListByArtist(r.Context(), userID, artistID)
	} else {
		list, err = s.concerts.ListByUser(r.Context(), userID)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeConcertList(w, list)
}

func (s *Server) handleGetConcert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	concert, err := s.concerts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrConcertNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "concert not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, concert)
}

func (s *Server) handleUserConcerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	list, err := s.concerts.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeConcertList(w, list)
}

func writeConcertList(w http.ResponseWriter, list []*models.ConcertWithDetails) {
	if list == nil {
		list = []*models.ConcertWithDetails{}
	}
	writeJSON(w, http.StatusOK, struct {
		Concerts []*models.ConcertWithDetails `json:"concerts"`
	}{Concerts: list})
}

// parseConcertDate accepts a bare date or a full RFC 3339 timestamp.
func parseConcertDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
