package httpapi

import (
	"net/http"

	"showlog/shared/go/models"
)

func (s *Server) handleSearchArtists(w http.ResponseWriter, r *http.Request) {
	artists := s.search.Artists(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, struct {
		Artists []*models.Artist `json:"artists"`
	}{Artists: artists})
}

func (s *Server) handleSearchVenues(w http.ResponseWriter, r *http.Request) {
	venues := s.search.Venues(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, struct {
		Venues []*models.Venue `json:"venues"`
	}{Venues: venues})
}

func (s *Server) handleSearchConcerts(w http.ResponseWriter, r *http.Request) {
	concerts := s.search.Concerts(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, struct {
		Concerts []*models.ConcertWithDetails `json:"concerts"`
	}{Concerts: concerts})
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	concerts := s.search.Trending(r.Context())
	writeJSON(w, http.StatusOK, struct {
		Concerts []*models.ConcertWithDetails `json:"concerts"`
	}{Concerts: concerts})
}

func (s *Server) handlePopularArtists(w http.ResponseWriter, r *http.Request) {
	artists := s.search.PopularArtists(r.Context())
	writeJSON(w, http.StatusOK, struct {
		Artists []*models.Artist `json:"artists"`
	}{Artists: artists})
}
