package ical

import (
	"net/http"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-chi/chi/v5"

	"sportcal/storage"
)

// Routes serves the month views for one session store: a JSON month
// view, an iCalendar rendition of the same, and user event submission.
func Routes(version string, store *storage.Store, logger lw.Logger) http.Handler {
	h := handler{version: version, store: store, logger: logger}

	r := chi.NewRouter()
	r.Get("/{year}/{month}", h.month)
	r.Get("/ical/{year}/{month}", h.ics)
	r.Post("/events", h.create)
	return r
}
