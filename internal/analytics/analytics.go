package analytics

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Sink receives best-effort product events after successful writes. Emit
// must never block the caller or surface an error; losing an event is
// acceptable.
type Sink interface {
	Emit(name string, params map[string]any)
}

// LogSink writes events to the structured log.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink builds a Sink that records events through the given logger.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit records one event, swallowing any panic from parameter rendering.
func (s *LogSink) Emit(name string, params map[string]any) {
	defer func() {
		_ = recover()
	}()
	s.logger.Info().
		Str("event_id", uuid.New().String()).
		Str("event", name).
		Fields(params).
		Msg("analytics event")
}

// NopSink drops all events. Used when analytics is disabled.
type NopSink struct{}

// Emit discards the event.
func (NopSink) Emit(string, map[string]any) {}
