package ical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-chi/chi/v5"
	"github.com/soh335/ical"

	"sportcal/calendar"
	"sportcal/calendar/form"
	"sportcal/storage"
	"sportcal/view"
)

const defaultEventDuration = 2 * time.Hour

type handler struct {
	version string
	store   *storage.Store
	logger  lw.Logger
}

// monthParams reads /{year}/{month} with month given as 1..12.
func monthParams(r *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", chi.URLParam(r, "year"))
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %q", chi.URLParam(r, "month"))
	}
	return year, time.Month(month), nil
}

// viewerOffset reads the viewer's UTC offset in minutes from the tz query
// parameter. Placement is always relative to an explicit offset, never to
// whatever zone the server happens to run in.
func viewerOffset(r *http.Request) int {
	offset, err := strconv.Atoi(r.URL.Query().Get("tz"))
	if err != nil {
		return 0
	}
	return offset
}

type eventView struct {
	Title       string          `json:"title"`
	Source      calendar.Source `json:"source"`
	Sport       string          `json:"sport,omitempty"`
	Competition string          `json:"competition,omitempty"`
	Start       string          `json:"start"`
	Score       string          `json:"score,omitempty"`
}

type dayView struct {
	Date   string      `json:"date"`
	Events []eventView `json:"events,omitempty"`
}

type monthView struct {
	Year  int       `json:"year"`
	Month string    `json:"month"`
	Days  []dayView `json:"days"`
}

func renderMonth(m view.Month) monthView {
	mv := monthView{
		Year:  m.Year,
		Month: m.Month.String(),
		Days:  make([]dayView, 0, len(m.Grid)),
	}
	for _, day := range m.Grid {
		dv := dayView{Date: day.String()}
		for _, ev := range m.Cells[day] {
			dv.Events = append(dv.Events, eventView{
				Title:       ev.Title(),
				Source:      ev.Source,
				Sport:       ev.Sport,
				Competition: ev.Competition,
				Start:       ev.StartTime.Format(time.RFC3339),
				Score:       ev.Result.Score(),
			})
		}
		mv.Days = append(mv.Days, dv)
	}
	return mv
}

func (h handler) month(w http.ResponseWriter, r *http.Request) {
	year, month, err := monthParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	m := view.NewAt(h.store, viewerOffset(r), year, month).View()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(renderMonth(m))
}

func (h handler) ics(w http.ResponseWriter, r *http.Request) {
	year, month, err := monthParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	m := view.NewAt(h.store, viewerOffset(r), year, month).View()

	cal := ical.NewBasicVCalendar()
	cal.PRODID = fmt.Sprintf("-//sportcal//CAL//EN/%s", h.version)

	cal.VERSION = "2.0"

	name := fmt.Sprintf("sportcal %s %d", m.Month, m.Year)
	cal.NAME = name
	cal.X_WR_CALNAME = name
	description := fmt.Sprintf("Sport events for %s %d", m.Month, m.Year)
	cal.DESCRIPTION = description
	cal.X_WR_CALDESC = description

	cal.TIMEZONE_ID = "UTC"
	cal.X_WR_TIMEZONE = "UTC"

	cal.REFRESH_INTERVAL = "PT1H"
	cal.X_PUBLISHED_TTL = "PT1H"

	cal.CALSCALE = "GREGORIAN"
	cal.METHOD = "PUBLISH"

	for _, day := range m.Grid {
		for _, ev := range m.Cells[day] {
			summary := ev.Title()
			if ev.Competition != "" {
				summary = fmt.Sprintf("[%s] %s", ev.Competition, summary)
			}

			e := &ical.VEvent{
				UID:         fmt.Sprintf("%d-%s", ev.StartTime.Unix(), ev.Title()),
				DTSTAMP:     ev.StartTime,
				DTSTART:     ev.StartTime,
				DTEND:       ev.StartTime.Add(defaultEventDuration),
				SUMMARY:     summary,
				DESCRIPTION: ev.String(),
				TZID:        "UTC",
			}
			cal.VComponent = append(cal.VComponent, e)
		}
	}

	b := &bytes.Buffer{}
	if err := cal.Encode(b); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(fmt.Sprintf("%s", err)))
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Write(b.Bytes())
}

func (h handler) create(w http.ResponseWriter, r *http.Request) {
	var raw form.RawRecord
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "unable to decode event submission", http.StatusBadRequest)
		return
	}
	ev, err := form.Normalize(raw)
	if err != nil {
		// rejected before it can reach the store
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.store.Add(ev)
	if h.logger != nil {
		h.logger.Infof("added user event %s", ev)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ev)
}
