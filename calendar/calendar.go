package calendar

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Source tags which bucket an event came from.
type Source string

const (
	SourceFeed Source = "feed"
	SourceUser Source = "user"
)

// Anchor records how an event's start time was anchored when it was
// normalized. Feed instants are absolute UTC points and need shifting
// into the viewer's zone before they land on a grid day; user submitted
// datetimes are already the viewer's wall clock.
type Anchor int

const (
	AnchorUTC Anchor = iota
	AnchorLocal
)

type Team struct {
	Name    string `json:"name,omitempty"`
	Country string `json:"country,omitempty"`
}

type Result struct {
	HomeGoals *int `json:"homeGoals"`
	AwayGoals *int `json:"awayGoals"`
}

// Score renders the result for display, with "-" standing in for goals
// that are not known yet.
func (r *Result) Score() string {
	if r == nil {
		return ""
	}
	h, a := "-", "-"
	if r.HomeGoals != nil {
		h = strconv.Itoa(*r.HomeGoals)
	}
	if r.AwayGoals != nil {
		a = strconv.Itoa(*r.AwayGoals)
	}
	return h + " : " + a
}

// Event is the canonical shape both sources normalize to.
//
// A zero StartTime means the source had no usable date and time; such an
// event is kept but never placed on a grid. An event is either match
// shaped (HomeTeam/AwayTeam set, possibly with empty names when the feed
// lacked them, Name empty) or a named one (Name set, teams and result
// nil) - never both.
type Event struct {
	Source      Source    `json:"source"`
	StartTime   time.Time `json:"startTime"`
	Anchor      Anchor    `json:"anchor"`
	Sport       string    `json:"sport,omitempty"`
	Competition string    `json:"competition,omitempty"`
	Name        string    `json:"name,omitempty"`
	HomeTeam    *Team     `json:"homeTeam,omitempty"`
	AwayTeam    *Team     `json:"awayTeam,omitempty"`
	Result      *Result   `json:"result,omitempty"`
}

func (e Event) IsMatch() bool {
	return e.HomeTeam != nil || e.AwayTeam != nil
}

// Title returns the display title: the event's name, or "home vs away"
// with TBA standing in for team names the feed did not carry.
func (e Event) Title() string {
	if !e.IsMatch() {
		return e.Name
	}
	home, away := "TBA", "TBA"
	if e.HomeTeam != nil && e.HomeTeam.Name != "" {
		home = e.HomeTeam.Name
	}
	if e.AwayTeam != nil && e.AwayTeam.Name != "" {
		away = e.AwayTeam.Name
	}
	return home + " vs " + away
}

func (e Event) String() string {
	return e.GoString()
}

func (e Event) GoString() string {
	when := "TBD"
	if !e.StartTime.IsZero() {
		when = e.StartTime.Format("2006-01-02 15:04 MST")
	}
	if len(e.Competition) > 0 {
		return fmt.Sprintf("<%s @ %s [%s]>", e.Title(), when, e.Competition)
	}
	return fmt.Sprintf("<%s @ %s>", e.Title(), when)
}

type Events []Event

// Sort orders events ascending by start time. Events without one keep
// their relative order after all dated events, so repeated sorts of the
// same content always agree.
func (evs Events) Sort() {
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].StartTime.IsZero() {
			return false
		}
		if evs[j].StartTime.IsZero() {
			return true
		}
		return evs[i].StartTime.Before(evs[j].StartTime)
	})
}
