package store

import (
	"context"
	"time"

	"github.com/riftlab/matchd/internal/metrics"
	"github.com/rs/zerolog"
)

// Writer is the narrow surface the sink needs from the relational
// store. Production uses GormWriter; tests use a recorder.
type Writer interface {
	InsertLogins(ctx context.Context, logins []Login) error
	WriteUpdate(ctx context.Context, u Update) error
	WriteMatch(ctx context.Context, m MatchResult) error
}

// NopWriter drops every write; used when no database is configured.
type NopWriter struct{}

func (NopWriter) InsertLogins(context.Context, []Login) error   { return nil }
func (NopWriter) WriteUpdate(context.Context, Update) error     { return nil }
func (NopWriter) WriteMatch(context.Context, MatchResult) error { return nil }

// Sink batches persistence events on its own goroutine. Logins are
// batched per tick; updates and match rows go through as they arrive.
type Sink struct {
	in       chan Event
	writer   Writer
	interval time.Duration
	log      zerolog.Logger

	pendingLogins []Login
}

func NewSink(w Writer, interval time.Duration, log zerolog.Logger) *Sink {
	if interval <= 0 {
		interval = time.Second
	}
	return &Sink{
		in:       make(chan Event, 1024),
		writer:   w,
		interval: interval,
		log:      log.With().Str("component", "store-sink").Logger(),
	}
}

// In returns the send-only inbox handed to the engine.
func (s *Sink) In() chan<- Event { return s.in }

// Run drains the inbox until ctx is cancelled, flushing pending login
// batches once per tick.
func (s *Sink) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.flushLogins(context.Background())
			return
		case ev := <-s.in:
			s.Handle(ctx, ev)
		case <-ticker.C:
			s.flushLogins(ctx)
		}
	}
}

// Handle applies a single event. Exposed for tests; Run is the only
// production caller.
func (s *Sink) Handle(ctx context.Context, ev Event) {
	switch e := ev.(type) {
	case Login:
		s.pendingLogins = append(s.pendingLogins, e)
	case Update:
		if err := s.writer.WriteUpdate(ctx, e); err != nil {
			s.log.Error().Err(err).Str("user", e.UserID).Str("bucket", string(e.Bucket)).Msg("rating update failed")
		}
	case MatchResult:
		if err := s.writer.WriteMatch(ctx, e); err != nil {
			s.log.Error().Err(err).Uint64("game", e.GameID).Msg("match write failed")
		}
	}
}

// Flush writes any pending login batch immediately. Exposed for tests.
func (s *Sink) Flush(ctx context.Context) { s.flushLogins(ctx) }

func (s *Sink) flushLogins(ctx context.Context) {
	if len(s.pendingLogins) == 0 {
		return
	}
	batch := s.pendingLogins
	s.pendingLogins = nil
	metrics.PersistBatchSize.Observe(float64(len(batch)))
	if err := s.writer.InsertLogins(ctx, batch); err != nil {
		s.log.Error().Err(err).Int("count", len(batch)).Msg("login batch failed")
	}
}
