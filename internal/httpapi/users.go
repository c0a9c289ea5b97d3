package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"showlog/internal/app/users"
	"showlog/internal/store"
)

type updateProfileRequest struct {
	DisplayName       string `json:"display_name"`
	Bio               string `json:"bio"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, email, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	user, err := s.users.Profile(r.Context(), userID, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if err := s.users.Update(r.Context(), userID, userID, req.DisplayName, req.Bio, req.ProfilePictureURL); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, users.ErrIdentityMismatch):
			status = http.StatusForbidden
		case errors.Is(err, store.ErrUserNotFound):
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
