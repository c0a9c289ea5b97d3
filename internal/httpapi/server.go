package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"showlog/internal/app/reviews"
	"showlog/internal/auth"
	"showlog/internal/store"
	"showlog/shared/go/logging"
	"showlog/shared/go/models"
)

// AuthService captures the account operations needed by the HTTP handlers.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (int64, string, error)
	SignIn(ctx context.Context, email, password string) (int64, string, error)
	Verify(token string) (int64, string, error)
}

// ConcertService coordinates concert logging and browsing.
type ConcertService interface {
	Log(ctx context.Context, userID int64, artistName, venueName string, date time.Time, rating int, notes string) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.ConcertWithDetails, error)
	Get(ctx context.Context, id int64) (*models.ConcertWithDetails, error)
	ListByArtist(ctx context.Context, userID, artistID int64) ([]*models.ConcertWithDetails, error)
}

// ReviewService coordinates reviews and engagement.
type ReviewService interface {
	Submit(ctx context.Context, concertID, userID int64, rating int, text string) (int64, error)
	ListByConcert(ctx context.Context, concertID int64) (reviews.ReviewList, error)
	Get(ctx context.Context, id int64) (*models.Review, error)
	ToggleLike(ctx context.Context, reviewID, callerID, userID int64) (reviews.LikeResult, error)
	HasLiked(ctx context.Context, reviewID, userID int64) bool
	AddComment(ctx context.Context, reviewID, callerID, userID int64, text string) (*models.Comment, error)
	Comments(ctx context.Context, reviewID int64) ([]*models.Comment, error)
}

// EntityService resolves and reads normalized artist/venue records.
type EntityService interface {
	Artist(ctx context.Context, id int64) (*models.Artist, error)
	Venue(ctx context.Context, id int64) (*models.Venue, error)
}

// SocialService maintains the follow graph.
type SocialService interface {
	Follow(ctx context.Context, followerID, followeeID int64) bool
	Unfollow(ctx context.Context, followerID, followeeID int64) bool
	IsFollowing(ctx context.Context, followerID, followeeID int64) bool
}

// FeedService assembles the social activity feed.
type FeedService interface {
	Activities(ctx context.Context, userID int64) []models.FeedItem
}

// SearchService provides prefix search and discovery lists.
type SearchService interface {
	Artists(ctx context.Context, term string) []*models.Artist
	Venues(ctx context.Context, term string) []*models.Venue
	Concerts(ctx context.Context, term string) []*models.ConcertWithDetails
	Trending(ctx context.Context) []*models.ConcertWithDetails
	PopularArtists(ctx context.Context) []*models.Artist
}

// UserService reads and mutates user profiles.
type UserService interface {
	Profile(ctx context.Context, userID int64, email string) (*models.User, error)
	Update(ctx context.Context, callerID, userID int64, displayName, bio, pictureURL string) error
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	auth     AuthService
	concerts ConcertService
	reviews  ReviewService
	entities EntityService
	social   SocialService
	feed     FeedService
	search   SearchService
	users    UserService
}

// New configures a Server with the given services.
func New(
	authService AuthService,
	concertService ConcertService,
	reviewService ReviewService,
	entityService EntityService,
	socialService SocialService,
	feedService FeedService,
	searchService SearchService,
	userService UserService,
) *Server {
	return &Server{
		auth:     authService,
		concerts: concertService,
		reviews:  reviewService,
		entities: entityService,
		social:   socialService,
		feed:     feedService,
		search:   searchService,
		users:    userService,
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/v1/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	mux.HandleFunc("GET /api/v1/users/profile", s.handleGetProfile)
	mux.HandleFunc("PUT /api/v1/users/profile", s.handleUpdateProfile)

	mux.HandleFunc("POST /api/v1/concerts", s.handleLogConcert)
	mux.HandleFunc("GET /api/v1/me/concerts", s.handleMyConcerts)
	mux.HandleFunc("GET /api/v1/concerts/{id}", s.handleGetConcert)
	mux.HandleFunc("GET /api/v1/users/{id}/concerts", s.handleUserConcerts)
	mux.HandleFunc("GET /api/v1/artists/{id}", s.handleGetArtist)
	mux.HandleFunc("GET /api/v1/venues/{id}", s.handleGetVenue)

	mux.HandleFunc("GET /api/v1/concerts/{id}/reviews", s.handleConcertReviews)
	mux.HandleFunc("POST /api/v1/concerts/{id}/reviews", s.handleSubmitReview)
	mux.HandleFunc("GET /api/v1/reviews/{id}", s.handleGetReview)
	mux.HandleFunc("POST /api/v1/reviews/{id}/like", s.handleToggleLike)
	mux.HandleFunc("GET /api/v1/reviews/{id}/liked", s.handleHasLiked)
	mux.HandleFunc("POST /api/v1/reviews/{id}/comments", s.handleAddComment)
	mux.HandleFunc("GET /api/v1/reviews/{id}/comments", s.handleListComments)

	mux.HandleFunc("POST /api/v1/users/{id}/follow", s.handleFollow)
	mux.HandleFunc("DELETE /api/v1/users/{id}/follow", s.handleUnfollow)
	mux.HandleFunc("GET /api/v1/users/{id}/follow", s.handleIsFollowing)

	mux.HandleFunc("GET /api/v1/feed", s.handleFeed)

	mux.HandleFunc("GET /api/v1/search/artists", s.handleSearchArtists)
	mux.HandleFunc("GET /api/v1/search/venues", s.handleSearchVenues)
	mux.HandleFunc("GET /api/v1/search/concerts", s.handleSearchConcerts)
	mux.HandleFunc("GET /api/v1/discover/trending", s.handleTrending)
	mux.HandleFunc("GET /api/v1/discover/artists", s.handlePopularArtists)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	userID, token, err := s.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserExists):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "email already registered"})
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, UserID: userID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	userID, token, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Token: token, UserID: userID})
}

// authenticate resolves the caller's identity from the bearer token. On
// failure it writes a 401 and reports ok=false.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (int64, string, *http.Request, bool) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return 0, "", r, false
	}

	userID, email, err := s.auth.Verify(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
		return 0, "", r, false
	}

	ctx := context.WithValue(r.Context(), logging.UserIDKey, userID)
	return userID, email, r.WithContext(ctx), true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id parameter"})
		return 0, false
	}
	return id, true
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
