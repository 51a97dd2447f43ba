package form

import (
	"fmt"
	"time"

	"sportcal/calendar"
)

// RawRecord carries one submission of the create-event form. Datetime is
// the submitter's wall clock at minute precision, with no zone
// designator.
type RawRecord struct {
	Sport       string `json:"sport"`
	Match       bool   `json:"isMatch"`
	Name        string `json:"name"`
	HomeTeam    string `json:"homeTeam"`
	AwayTeam    string `json:"awayTeam"`
	Competition string `json:"competition"`
	Datetime    string `json:"datetime"`
}

const datetimeLayout = "2006-01-02T15:04"

// Normalize validates and converts a form submission. Submissions with an
// unusable datetime are rejected outright, so a corrupt event never
// reaches a store. The start time is anchored as viewer-local wall clock:
// placement uses it as-is instead of shifting it by the viewer offset.
func Normalize(raw RawRecord) (calendar.Event, error) {
	start, err := time.Parse(datetimeLayout, raw.Datetime)
	if err != nil {
		return calendar.Event{}, fmt.Errorf("unusable datetime %q: %w", raw.Datetime, err)
	}
	ev := calendar.Event{
		Source:      calendar.SourceUser,
		StartTime:   start.UTC(),
		Anchor:      calendar.AnchorLocal,
		Sport:       calendar.NormalizeText(raw.Sport),
		Competition: calendar.NormalizeText(raw.Competition),
	}
	if raw.Match {
		ev.HomeTeam = &calendar.Team{Name: calendar.NormalizeText(raw.HomeTeam)}
		ev.AwayTeam = &calendar.Team{Name: calendar.NormalizeText(raw.AwayTeam)}
		ev.Result = &calendar.Result{}
	} else {
		ev.Name = calendar.NormalizeText(raw.Name)
	}
	return ev, nil
}
