package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"sportcal/calendar"
)

// Document is the top level shape of the published events feed.
type Document struct {
	Data []RawRecord `json:"data"`
}

// RawRecord is one feed entry as published. Any field may be absent;
// normalization decides what absence means. Raw records are consumed
// once and never stored.
type RawRecord struct {
	DateVenue             string     `json:"dateVenue"`
	TimeVenueUTC          string     `json:"timeVenueUTC"`
	Sport                 string     `json:"sport"`
	OriginCompetitionName string     `json:"originCompetitionName"`
	HomeTeam              *RawTeam   `json:"homeTeam"`
	AwayTeam              *RawTeam   `json:"awayTeam"`
	Result                *RawResult `json:"result"`
}

type RawTeam struct {
	OfficialName    string `json:"officialName"`
	Abbreviation    string `json:"abbreviation"`
	TeamCountryCode string `json:"teamCountryCode"`
}

type RawResult struct {
	HomeGoals *int `json:"homeGoals"`
	AwayGoals *int `json:"awayGoals"`
}

const instantLayout = "2006-01-02 15:04:05"

// Normalize converts one raw feed record into the canonical event shape.
// Feed records are always match shaped and always UTC anchored. A record
// missing its date or its time yields an event without a start time
// rather than a guessed one.
func Normalize(raw RawRecord) calendar.Event {
	ev := calendar.Event{
		Source:      calendar.SourceFeed,
		Anchor:      calendar.AnchorUTC,
		Sport:       calendar.NormalizeText(raw.Sport),
		Competition: calendar.NormalizeText(raw.OriginCompetitionName),
		HomeTeam:    normalizeTeam(raw.HomeTeam),
		AwayTeam:    normalizeTeam(raw.AwayTeam),
		Result:      &calendar.Result{},
	}
	if raw.DateVenue != "" && raw.TimeVenueUTC != "" {
		if t, err := time.Parse(instantLayout, raw.DateVenue+" "+raw.TimeVenueUTC); err == nil {
			ev.StartTime = t.UTC()
		}
	}
	if raw.Result != nil {
		ev.Result.HomeGoals = raw.Result.HomeGoals
		ev.Result.AwayGoals = raw.Result.AwayGoals
	}
	return ev
}

func normalizeTeam(raw *RawTeam) *calendar.Team {
	t := calendar.Team{}
	if raw != nil {
		t.Name = calendar.NormalizeText(raw.OfficialName)
		t.Country = raw.TeamCountryCode
	}
	return &t
}

// Decode reads one feed document and normalizes every record in it. A
// document that does not parse yields no events; an individual record
// with missing fields does not fail the batch.
func Decode(r io.Reader) (calendar.Events, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("unable to decode feed document: %w", err)
	}
	events := make(calendar.Events, 0, len(doc.Data))
	for _, raw := range doc.Data {
		events = append(events, Normalize(raw))
	}
	events.Sort()
	return events, nil
}

// Fetch loads the feed from an http(s) URL or a local file path. The
// caller is expected to treat a failure as an empty feed, not as a fatal
// condition.
func Fetch(source string) (calendar.Events, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		res, err := http.Get(source)
		if err != nil {
			return nil, fmt.Errorf("unable to load feed: %w", err)
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
		}
		return Decode(res.Body)
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("unable to open feed: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
