package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sportcal/calendar"
)

func TestNormalize(t *testing.T) {
	one, three := 1, 3
	raw := RawRecord{
		DateVenue:             "2025-11-03",
		TimeVenueUTC:          "16:00:00",
		Sport:                 "football",
		OriginCompetitionName: "UEFA champions league",
		HomeTeam:              &RawTeam{OfficialName: "arsenal", TeamCountryCode: "ENG"},
		AwayTeam:              &RawTeam{OfficialName: "chelsea", TeamCountryCode: "ENG"},
		Result:                &RawResult{HomeGoals: &three, AwayGoals: &one},
	}

	ev := Normalize(raw)

	if ev.Source != calendar.SourceFeed {
		t.Errorf("Source = %q, want %q", ev.Source, calendar.SourceFeed)
	}
	if ev.Anchor != calendar.AnchorUTC {
		t.Errorf("Anchor = %v, want AnchorUTC", ev.Anchor)
	}
	want := time.Date(2025, time.November, 3, 16, 0, 0, 0, time.UTC)
	if !ev.StartTime.Equal(want) {
		t.Errorf("StartTime = %s, want %s", ev.StartTime, want)
	}
	if ev.Sport != "Football" {
		t.Errorf("Sport = %q, want Football", ev.Sport)
	}
	if ev.Competition != "UEFA Champions League" {
		t.Errorf("Competition = %q, want UEFA Champions League", ev.Competition)
	}
	if ev.HomeTeam == nil || ev.HomeTeam.Name != "Arsenal" || ev.HomeTeam.Country != "ENG" {
		t.Errorf("HomeTeam = %+v, want Arsenal/ENG", ev.HomeTeam)
	}
	if ev.AwayTeam == nil || ev.AwayTeam.Name != "Chelsea" {
		t.Errorf("AwayTeam = %+v, want Chelsea", ev.AwayTeam)
	}
	if ev.Name != "" {
		t.Errorf("Name = %q, want empty for feed events", ev.Name)
	}
	if ev.Result == nil || ev.Result.HomeGoals == nil || *ev.Result.HomeGoals != 3 {
		t.Errorf("Result = %+v, want home goals 3", ev.Result)
	}
}

func TestNormalizeMissingFields(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
	}{
		{"no date", RawRecord{TimeVenueUTC: "16:00:00"}},
		{"no time", RawRecord{DateVenue: "2025-11-03"}},
		{"garbage date", RawRecord{DateVenue: "soon", TimeVenueUTC: "16:00:00"}},
		{"empty record", RawRecord{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Normalize(tt.raw)
			if !ev.StartTime.IsZero() {
				t.Errorf("StartTime = %s, want zero for %s", ev.StartTime, tt.name)
			}
			// still match shaped, with everything unknown
			if !ev.IsMatch() {
				t.Error("feed events must stay match shaped")
			}
			if ev.HomeTeam.Name != "" || ev.AwayTeam.Name != "" {
				t.Errorf("team names = %q/%q, want empty", ev.HomeTeam.Name, ev.AwayTeam.Name)
			}
			if ev.Result == nil || ev.Result.HomeGoals != nil || ev.Result.AwayGoals != nil {
				t.Errorf("Result = %+v, want unresolved", ev.Result)
			}
		})
	}
}

const feedDoc = `{
	"data": [
		{
			"dateVenue": "2025-11-20",
			"timeVenueUTC": "12:00:00",
			"sport": "football",
			"homeTeam": {"officialName": "real madrid"},
			"awayTeam": {"officialName": "FC Porto"}
		},
		{
			"dateVenue": "2025-11-03",
			"timeVenueUTC": "16:00:00",
			"sport": "football",
			"homeTeam": {"officialName": "arsenal"},
			"awayTeam": {"officialName": "chelsea"}
		},
		{
			"timeVenueUTC": "10:00:00",
			"sport": "football"
		}
	]
}`

func TestDecode(t *testing.T) {
	events, err := Decode(strings.NewReader(feedDoc))
	if err != nil {
		t.Fatalf("Decode failed: %s", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	// sorted ascending, record without a date last
	if events[0].Title() != "Arsenal vs Chelsea" {
		t.Errorf("first event %q, want Arsenal vs Chelsea", events[0].Title())
	}
	if events[1].Title() != "Real Madrid vs FC Porto" {
		t.Errorf("second event %q, want Real Madrid vs FC Porto", events[1].Title())
	}
	if !events[2].StartTime.IsZero() {
		t.Errorf("undated record should sort last, got start %s", events[2].StartTime)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json")); err == nil {
		t.Error("expected an error for a document that does not parse")
	}
}

func TestFetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(feedDoc), 0600); err != nil {
		t.Fatal(err)
	}

	events, err := Fetch(path)
	if err != nil {
		t.Fatalf("Fetch failed: %s", err)
	}
	if len(events) != 3 {
		t.Errorf("got %d events, want 3", len(events))
	}
}

func TestFetchMissingFile(t *testing.T) {
	if _, err := Fetch(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected an error for a missing feed file")
	}
}
