package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"showlog/internal/app/reviews"
	"showlog/internal/store"
	"showlog/shared/go/models"
)

type submitReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

type submitReviewResponse struct {
	ReviewID int64 `json:"review_id"`
}

type reviewListResponse struct {
	Reviews       []*models.Review `json:"reviews"`
	UsingFallback bool             `json:"using_fallback"`
}

type likeRequest struct {
	UserID int64 `json:"user_id"`
}

type likeResponse struct {
	Action     models.LikeAction `json:"action"`
	LikesCount int               `json:"likes_count"`
}

type commentRequest struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, _, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	concertID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	reviewID, err := s.reviews.Submit(r.Context(), concertID, userID, req.Rating, req.Text)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, reviews.ErrTextRequired), errors.Is(err, reviews.ErrInvalidRating):
			status = http.StatusBadRequest
		case errors.Is(err, store.ErrConcertNotFound):
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, submitReviewResponse{ReviewID: reviewID})
}

func (s *Server) handleConcertReviews(w http.ResponseWriter, r *http.Request) {
	concertID, ok := pathID(w, r)
	if !ok {
		return
	}

	list, err := s.reviews.ListByConcert(r.Context(), concertID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if list.Reviews == nil {
		list.Reviews = []*models.Review{}
	}

	writeJSON(w, http.StatusOK, reviewListResponse{
		Reviews:       list.Reviews,
		UsingFallback: list.UsingFallback,
	})
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r)
	if !ok {
		return
	}

	review, err := s.reviews.Get(r.Context(), reviewID)
	if err != nil {
		if errors.Is(err, store.ErrReviewNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "review not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, review)
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	callerID, _, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	reviewID, ok := pathID(w, r)
	if !ok {
		return
	}

	// The body's user_id must match the verified caller; the service
	// enforces the same check.
	req := likeRequest{UserID: callerID}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
			return
		}
	}

	result, err := s.reviews.ToggleLike(r.Context(), reviewID, callerID, req.UserID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, reviews.ErrIdentityMismatch):
			status = http.StatusForbidden
		case errors.Is(err, store.ErrReviewNotFound):
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, likeResponse{Action: result.Action, LikesCount: result.LikesCount})
}

func (s *Server) handleHasLiked(w http.ResponseWriter, r *http.Request) {
	userID, _, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	reviewID, ok := pathID(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Liked bool `json:"liked"`
	}{Liked: s.reviews.HasLiked(r.Context(), reviewID, userID)})
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	callerID, _, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	reviewID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if req.UserID == 0 {
		req.UserID = callerID
	}

	comment, err := s.reviews.AddComment(r.Context(), reviewID, callerID, req.UserID, req.Text)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, reviews.ErrIdentityMismatch):
			status = http.StatusForbidden
		case errors.Is(err, reviews.ErrTextRequired):
			status = http.StatusBadRequest
		case errors.Is(err, store.ErrReviewNotFound):
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r)
	if !ok {
		return
	}

	comments, err := s.reviews.Comments(r.Context(), reviewID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	writeJSON(w, http.StatusOK, struct {
		Comments []*models.Comment `json:"comments"`
	}{Comments: comments})
}
