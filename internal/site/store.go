package site

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"metrobowling/internal/bowling"
	"metrobowling/pkg/realtime"
)

// ErrNoListener is reported by the strike cue when the visitor has no open
// stream to play it on.
var ErrNoListener = errors.New("no stream listening")

// StoreOptions configures a Store. Zero values pick production defaults.
type StoreOptions struct {
	Clock     realtime.Clock
	Logger    *slog.Logger
	NewSource func() bowling.Source
}

// Store holds visitor views and delegates to realtime.RoomStore for lookup
// and stream fan-out.
type Store struct {
	r         *realtime.RoomStore[*View]
	clock     realtime.Clock
	logger    *slog.Logger
	newSource func() bowling.Source
}

// NewStore creates an in-memory view store.
func NewStore(opts StoreOptions) *Store {
	s := &Store{
		r:         realtime.NewRoomStore[*View](),
		clock:     opts.Clock,
		logger:    opts.Logger,
		newSource: opts.NewSource,
	}
	if s.clock == nil {
		s.clock = realtime.SystemClock{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.newSource == nil {
		s.newSource = bowling.NewRandomSource
	}
	return s
}

// CreateView starts a fresh visitor session.
func (s *Store) CreateView() *View {
	id := uuid.NewString()
	lane := bowling.NewLane(bowling.Options{
		Source:    s.newSource(),
		Scheduler: s.clock,
		Logger:    s.logger.With(slog.String("view", id)),
		Cue: bowling.CueFunc(func() error {
			return s.notify(id, realtime.EventSound)
		}),
		OnCelebrationEnd: func(bowling.Flag) {
			_ = s.notify(id, realtime.EventCelebration)
		},
	})
	v := newView(id, lane, s.clock.Now())
	s.r.Create(id, v)
	return v
}

// GetView returns a view by ID if it exists.
func (s *Store) GetView(id string) (*View, bool) {
	if id == "" {
		return nil, false
	}
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.State, true
}

// Broadcaster returns the stream broadcaster of a view.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster, bool) {
	return s.r.Broadcaster(id)
}

// Len reports the number of live views.
func (s *Store) Len() int {
	return s.r.Len()
}

func (s *Store) notify(id string, event string) error {
	hub, ok := s.r.Broadcaster(id)
	if !ok || hub.Subscribers() == 0 {
		return ErrNoListener
	}
	s.r.Publish(id, event)
	return nil
}

// Sweep drops views idle for longer than ttl and returns how many went.
func (s *Store) Sweep(now time.Time, ttl time.Duration) int {
	cutoff := now.Add(-ttl)
	removed := 0
	s.r.Range(func(room *realtime.Room[*View]) bool {
		if room.State.LastSeen().Before(cutoff) {
			if s.r.Delete(room.ID) {
				removed++
			}
		}
		return true
	})
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(s.clock.Now(), ttl); n > 0 {
				s.logger.Info("expired idle views", slog.Int("removed", n), slog.Int("remaining", s.Len()))
			}
		}
	}
}
