package view

import (
	"time"

	"sportcal/calendar"
	"sportcal/storage"
)

var now = time.Now

// Placer resolves which grid day an event lands on for a viewer at a
// fixed UTC offset.
//
// Offset is the viewer's standing offset in minutes east of UTC, passed
// in explicitly so placement never depends on the ambient zone of the
// machine it runs on. A UTC anchored instant is shifted by the offset
// before its civil date is taken - a 23:30Z kickoff lands on the next day
// for a UTC+1 viewer. Local anchored events were entered in the viewer's
// own wall clock and are taken as-is.
type Placer struct {
	Offset int
}

// Key returns the day the event belongs to. The second value is false
// for events without a start time; those never appear on any grid.
func (p Placer) Key(ev calendar.Event) (calendar.Day, bool) {
	if ev.StartTime.IsZero() {
		return calendar.Day{}, false
	}
	t := ev.StartTime.UTC()
	if ev.Anchor == calendar.AnchorUTC {
		t = t.Add(time.Duration(p.Offset) * time.Minute)
	}
	return calendar.DayOf(t), true
}

// Month is one render-ready month view: the full grid plus the events of
// every day that has any, each cell ordered by start time.
type Month struct {
	Year  int
	Month time.Month
	Grid  calendar.Grid
	Cells map[calendar.Day]calendar.Events
}

// Model owns the session's current (year, month) and the event store and
// turns them into render-ready snapshots. Navigation only ever moves the
// month; nothing else carries over between views.
type Model struct {
	year   int
	month  time.Month
	store  *storage.Store
	placer Placer
}

// New starts a model on the current date's month.
func New(store *storage.Store, offset int) *Model {
	m := &Model{
		store:  store,
		placer: Placer{Offset: offset},
	}
	m.Today()
	return m
}

// NewAt starts a model on a fixed month.
func NewAt(store *storage.Store, offset, year int, month time.Month) *Model {
	m := New(store, offset)
	m.year, m.month = year, month
	return m
}

func (m *Model) Year() int {
	return m.year
}

func (m *Model) Month() time.Month {
	return m.month
}

// Next advances one month, rolling the year over December.
func (m *Model) Next() {
	m.shift(1)
}

// Prev retreats one month, rolling the year under January.
func (m *Model) Prev() {
	m.shift(-1)
}

func (m *Model) shift(months int) {
	t := time.Date(m.year, m.month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	m.year, m.month = t.Year(), t.Month()
}

// Today resets to the current date's month.
func (m *Model) Today() {
	n := now()
	m.year, m.month = n.Year(), n.Month()
}

// View computes the current month from one consistent snapshot of the
// store. Events placed outside the grid window are dropped from this
// view - they belong on another month's grid, not in this one's cells.
func (m *Model) View() Month {
	grid := calendar.MonthGrid(m.year, m.month)
	cells := make(map[calendar.Day]calendar.Events)
	for _, ev := range m.store.Merged() {
		day, ok := m.placer.Key(ev)
		if !ok || !grid.Contains(day) {
			continue
		}
		cells[day] = append(cells[day], ev)
	}
	return Month{Year: m.year, Month: m.month, Grid: grid, Cells: cells}
}
