package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"
	// UserIDKey is the context key for the authenticated user.
	UserIDKey contextKey = "user_id"
)

// Config holds logging configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output io.Writer
}

// New builds a zerolog logger for the given configuration. Text format uses
// the console writer for development; json is the production default.
func New(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "text" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// SetGlobal installs the logger as the process-wide default.
func SetGlobal(logger zerolog.Logger) {
	log.Logger = logger
}

// WithContext returns a logger annotated with request and user IDs when the
// context carries them.
func WithContext(ctx context.Context) *zerolog.Logger {
	builder := log.With()

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		builder = builder.Str("request_id", requestID)
	}
	if userID, ok := ctx.Value(UserIDKey).(int64); ok {
		builder = builder.Int64("user_id", userID)
	}

	logger := builder.Logger()
	return &logger
}
