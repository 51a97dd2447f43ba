package boltdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"sportcal/calendar"
	"sportcal/storage"
)

type LoggerFn func(string, ...interface{})

type repo struct {
	d    *bolt.DB
	root []byte
	path string
	log  LoggerFn
	err  LoggerFn
}

const (
	rootBucket = "cal"

	DefaultFile = "sportcal.bdb"
)

// Config
type Config struct {
	Path  string
	LogFn LoggerFn
	ErrFn LoggerFn
}

// New returns a boltdb backed snapshot repository for feed events.
func New(c Config) *repo {
	b := repo{
		root: []byte(rootBucket),
		path: c.Path,
		log:  func(string, ...interface{}) {},
		err:  func(string, ...interface{}) {},
	}
	if c.ErrFn != nil {
		b.err = c.ErrFn
	}
	if c.LogFn != nil {
		b.log = c.LogFn
	}

	return &b
}

func (r *repo) open() error {
	var err error
	r.d, err = bolt.Open(r.path, 0600, nil)
	if err != nil {
		return fmt.Errorf("could not open db %s %w", r.path, err)
	}
	err = r.d.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(r.root)
		if err != nil {
			return fmt.Errorf("unable to create root bucket %s: %w", r.root, err)
		}
		if !root.Writable() {
			return fmt.Errorf("non writeable root bucket %s", r.root)
		}
		return nil
	})
	return err
}

func (r *repo) close() error {
	if r.d == nil {
		return nil
	}
	return r.d.Close()
}

var pathSeparator = []byte{'/'}

const unknownSport = "unknown"

func sportKey(sport string) []byte {
	if sport == "" {
		sport = unknownSport
	}
	return []byte(strings.ToLower(sport))
}

// itemBucketPath buckets events by sport, then year, month, day of their
// start time.
func itemBucketPath(sport []byte, date time.Time) []byte {
	pathEl := make([][]byte, 0)

	pathEl = append(pathEl, sport)
	pathEl = append(pathEl, []byte(date.Format("2006")))
	pathEl = append(pathEl, []byte(date.Format("01")))
	pathEl = append(pathEl, []byte(date.Format("02")))

	return bytes.Join(pathEl, pathSeparator)
}

func descendInBucket(root *bolt.Bucket, path []byte, create bool) (*bolt.Bucket, error) {
	if root == nil {
		return nil, fmt.Errorf("trying to descend into nil bucket")
	}
	b := root
	for _, name := range bytes.Split(path, pathSeparator) {
		if len(name) == 0 {
			continue
		}
		var cb *bolt.Bucket
		var err error
		if create {
			cb, err = b.CreateBucketIfNotExists(name)
			if err != nil {
				return nil, err
			}
		} else {
			cb = b.Bucket(name)
		}
		if cb == nil {
			return nil, fmt.Errorf("unable to find bucket %s", name)
		}
		b = cb
	}
	return b, nil
}

// LoadEvents returns persisted events whose start time lies inside the
// cursor range, optionally restricted to the given sports, ordered
// ascending.
func (r *repo) LoadEvents(cursor storage.DateCursor, sports ...string) (calendar.Events, error) {
	if err := r.open(); err != nil {
		return nil, err
	}
	defer r.close()

	min, max := cursor.T, cursor.T.Add(cursor.D)
	if cursor.D < 0 {
		min, max = max, min
	}

	events := make(calendar.Events, 0)
	err := r.d.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(r.root)
		if root == nil {
			return fmt.Errorf("invalid bucket %s", r.root)
		}
		if len(sports) > 0 {
			for _, sport := range sports {
				if b := root.Bucket(sportKey(sport)); b != nil {
					events = append(events, loadFromBucketRecursive(b, min, max)...)
				}
			}
			return nil
		}
		c := root.Cursor()
		for key, raw := c.First(); key != nil; key, raw = c.Next() {
			if raw != nil {
				continue
			}
			events = append(events, loadFromBucketRecursive(root.Bucket(key), min, max)...)
		}
		return nil
	})

	events.Sort()
	return events, err
}

func loadFromBucketRecursive(b *bolt.Bucket, min, max time.Time) calendar.Events {
	events := make(calendar.Events, 0)

	c := b.Cursor()
	for key, raw := c.First(); key != nil; key, raw = c.Next() {
		if raw == nil {
			// this is a bucket mate: descend!
			events = append(events, loadFromBucketRecursive(b.Bucket(key), min, max)...)
			continue
		}
		ev, err := loadItem(raw)
		if err != nil {
			continue
		}
		if ev.StartTime.Before(min) || !ev.StartTime.Before(max) {
			continue
		}
		events = append(events, ev)
	}

	return events
}

func loadItem(raw []byte) (calendar.Event, error) {
	ev := calendar.Event{}
	if len(raw) == 0 {
		return ev, fmt.Errorf("empty raw item")
	}
	err := json.Unmarshal(raw, &ev)
	return ev, err
}

// SaveEvents persists a feed snapshot. Events without a start time are
// skipped: they can never be read back through a date cursor.
func (r *repo) SaveEvents(events calendar.Events) error {
	if err := r.open(); err != nil {
		return err
	}
	defer r.close()

	for _, ev := range events {
		if ev.StartTime.IsZero() {
			r.log("skipping undated event %s", ev.Title())
			continue
		}
		if err := r.save(ev); err != nil {
			r.err("error saving event %s: %s", ev, err)
		}
	}
	return nil
}

func (r *repo) save(ev calendar.Event) error {
	path := itemBucketPath(sportKey(ev.Sport), ev.StartTime)

	return r.d.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(r.root)
		if root == nil {
			return fmt.Errorf("invalid bucket %s", r.root)
		}
		if !root.Writable() {
			return fmt.Errorf("non writeable bucket %s", r.root)
		}
		b, err := descendInBucket(root, path, true)
		if err != nil {
			return fmt.Errorf("unable to find %s in root bucket: %w", path, err)
		}
		if !b.Writable() {
			return fmt.Errorf("non writeable bucket %s", path)
		}
		entryBytes, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("could not marshal object: %w", err)
		}
		// keyed by start and title so re-fetching the same feed is idempotent
		objectID := []byte(fmt.Sprintf("%d|%s", ev.StartTime.Unix(), ev.Title()))
		if err = b.Put(objectID, entryBytes); err != nil {
			return fmt.Errorf("could not store encoded object: %w", err)
		}

		return nil
	})
}
