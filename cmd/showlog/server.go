package main

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"showlog/internal/analytics"
	"showlog/internal/app/concerts"
	"showlog/internal/app/entities"
	"showlog/internal/app/feed"
	"showlog/internal/app/reviews"
	"showlog/internal/app/search"
	"showlog/internal/app/social"
	"showlog/internal/app/users"
	"showlog/internal/auth"
	"showlog/internal/conn"
	"showlog/internal/httpapi"
	"showlog/internal/store"
	"showlog/shared/go/config"
	"showlog/shared/go/middleware"
)

func newHTTPHandler(cfg *config.Config, dataStore *store.Store, manager *conn.Manager) http.Handler {
	sink := analytics.NewLogSink(log.Logger)

	authSvc := auth.New(dataStore, cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	entitySvc := entities.New(dataStore)
	concertSvc := concerts.New(dataStore, entitySvc, manager, sink)
	reviewSvc := reviews.New(dataStore, manager)
	socialSvc := social.New(dataStore, manager)
	feedSvc := feed.New(dataStore, socialSvc, manager)
	searchSvc := search.New(dataStore, manager)
	userSvc := users.New(dataStore, manager)

	api := httpapi.New(authSvc, concertSvc, reviewSvc, entitySvc, socialSvc, feedSvc, searchSvc, userSvc)

	handler := middleware.RequestLogging()(api.Routes())
	handler = middleware.Recovery()(handler)
	return withCORS(cfg.CORS.AllowedOrigins, handler)
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
