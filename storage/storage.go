package storage

import (
	"sync"
	"time"

	"sportcal/calendar"
)

// DateCursor selects a date range when reading persisted events.
type DateCursor struct {
	T time.Time
	D time.Duration
}

func Cursor(st time.Time, d time.Duration) DateCursor {
	return DateCursor{
		T: st,
		D: d,
	}
}

// Everything spans the whole plausible event range.
func Everything() DateCursor {
	return DateCursor{T: time.Unix(0, 0), D: 100 * 365 * 24 * time.Hour}
}

type Saver interface {
	SaveEvents(calendar.Events) error
}

type Loader interface {
	LoadEvents(DateCursor, ...string) (calendar.Events, error)
}

// Store holds the events of one session: the feed snapshot loaded at
// startup and whatever the user created since. User events live only as
// long as the store does; they are never persisted.
type Store struct {
	mu   sync.RWMutex
	feed calendar.Events
	user calendar.Events
}

func NewStore() *Store {
	return &Store{}
}

// Load replaces the feed bucket wholesale.
func (s *Store) Load(events calendar.Events) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed = append(calendar.Events{}, events...)
}

// Add appends one user created event. The user bucket is append-only
// within a session.
func (s *Store) Add(ev calendar.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = append(s.user, ev)
}

// Merged returns both buckets as a single run, ordered ascending by start
// time with undated events last in insertion order. The result is a copy;
// callers cannot disturb the buckets through it.
func (s *Store) Merged() calendar.Events {
	s.mu.RLock()
	defer s.mu.RUnlock()
	merged := make(calendar.Events, 0, len(s.feed)+len(s.user))
	merged = append(merged, s.feed...)
	merged = append(merged, s.user...)
	merged.Sort()
	return merged
}
