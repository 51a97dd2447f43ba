package boltdb

import (
	"path/filepath"
	"testing"
	"time"

	"sportcal/calendar"
	"sportcal/storage"
)

func testRepo(t *testing.T) *repo {
	t.Helper()
	return New(Config{Path: filepath.Join(t.TempDir(), DefaultFile)})
}

func matchAt(sport string, start time.Time, home, away string) calendar.Event {
	return calendar.Event{
		Source:    calendar.SourceFeed,
		Anchor:    calendar.AnchorUTC,
		Sport:     sport,
		StartTime: start,
		HomeTeam:  &calendar.Team{Name: home},
		AwayTeam:  &calendar.Team{Name: away},
		Result:    &calendar.Result{},
	}
}

func TestSaveAndLoadEvents(t *testing.T) {
	r := testRepo(t)

	nov3 := time.Date(2025, time.November, 3, 16, 0, 0, 0, time.UTC)
	nov20 := time.Date(2025, time.November, 20, 12, 0, 0, 0, time.UTC)
	events := calendar.Events{
		matchAt("Football", nov20, "Real Madrid", "FC Porto"),
		matchAt("Football", nov3, "Arsenal", "Chelsea"),
	}
	if err := r.SaveEvents(events); err != nil {
		t.Fatalf("SaveEvents failed: %s", err)
	}

	loaded, err := r.LoadEvents(storage.Cursor(nov3.Add(-time.Hour), 30*24*time.Hour))
	if err != nil {
		t.Fatalf("LoadEvents failed: %s", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("got %d events, want 2", len(loaded))
	}
	if loaded[0].Title() != "Arsenal vs Chelsea" {
		t.Errorf("events not ordered ascending: first is %s", loaded[0])
	}
	if !loaded[0].StartTime.Equal(nov3) {
		t.Errorf("start time not preserved: %s", loaded[0].StartTime)
	}
}

func TestLoadEventsCursorBounds(t *testing.T) {
	r := testRepo(t)

	nov3 := time.Date(2025, time.November, 3, 16, 0, 0, 0, time.UTC)
	dec1 := time.Date(2025, time.December, 1, 18, 0, 0, 0, time.UTC)
	if err := r.SaveEvents(calendar.Events{
		matchAt("Football", nov3, "Arsenal", "Chelsea"),
		matchAt("Football", dec1, "Inter", "Milan"),
	}); err != nil {
		t.Fatalf("SaveEvents failed: %s", err)
	}

	loaded, err := r.LoadEvents(storage.Cursor(time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), 14*24*time.Hour))
	if err != nil {
		t.Fatalf("LoadEvents failed: %s", err)
	}
	if len(loaded) != 1 || loaded[0].Title() != "Arsenal vs Chelsea" {
		t.Errorf("cursor should only cover November, got %v", loaded)
	}
}

func TestLoadEventsSportFilter(t *testing.T) {
	r := testRepo(t)

	at := time.Date(2025, time.November, 3, 16, 0, 0, 0, time.UTC)
	if err := r.SaveEvents(calendar.Events{
		matchAt("Football", at, "Arsenal", "Chelsea"),
		matchAt("Basketball", at.Add(time.Hour), "Lakers", "Celtics"),
	}); err != nil {
		t.Fatalf("SaveEvents failed: %s", err)
	}

	loaded, err := r.LoadEvents(storage.Everything(), "football")
	if err != nil {
		t.Fatalf("LoadEvents failed: %s", err)
	}
	if len(loaded) != 1 || loaded[0].Sport != "Football" {
		t.Errorf("sport filter failed, got %v", loaded)
	}
}

func TestSaveSkipsUndatedEvents(t *testing.T) {
	r := testRepo(t)

	if err := r.SaveEvents(calendar.Events{
		{Source: calendar.SourceFeed, Name: "undated"},
		matchAt("Football", time.Date(2025, time.November, 3, 16, 0, 0, 0, time.UTC), "Arsenal", "Chelsea"),
	}); err != nil {
		t.Fatalf("SaveEvents failed: %s", err)
	}

	loaded, err := r.LoadEvents(storage.Everything())
	if err != nil {
		t.Fatalf("LoadEvents failed: %s", err)
	}
	if len(loaded) != 1 {
		t.Errorf("undated events must not be persisted, got %v", loaded)
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	r := testRepo(t)

	events := calendar.Events{
		matchAt("Football", time.Date(2025, time.November, 3, 16, 0, 0, 0, time.UTC), "Arsenal", "Chelsea"),
	}
	if err := r.SaveEvents(events); err != nil {
		t.Fatal(err)
	}
	if err := r.SaveEvents(events); err != nil {
		t.Fatal(err)
	}

	loaded, err := r.LoadEvents(storage.Everything())
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Errorf("re-saving the same snapshot duplicated events: %d", len(loaded))
	}
}
