package calendar

import (
	"time"
)

// Day is a civil date used as a grid cell key. It carries no time of day
// and no zone; two Day values are equal exactly when year, month and day
// match.
type Day struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// DayOf strips t down to its civil date.
func DayOf(t time.Time) Day {
	return Day{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Time pins d to midnight UTC. All day stepping goes through here, so one
// step is always exactly one calendar day; wall clock discontinuities
// like DST transitions cannot repeat or skip a date.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d Day) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Day) Before(o Day) bool {
	return d.Time().Before(o.Time())
}

func (d Day) String() string {
	return d.Time().Format("2006-01-02")
}

// Grid is the ordered run of days displayed for one month: whole weeks,
// from the Monday on or before the 1st through the Sunday on or after
// the month's last day.
type Grid []Day

// MonthGrid builds the display grid for a month. The result length is
// always a multiple of seven and every day of the month appears exactly
// once, in ascending order without gaps.
func MonthGrid(year int, month time.Month) Grid {
	first := Day{Year: year, Month: month, Day: 1}
	// day zero of the following month is the last day of this one
	last := DayOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))

	start := first
	for start.Weekday() != time.Monday {
		start = start.AddDays(-1)
	}
	end := last
	for end.Weekday() != time.Sunday {
		end = end.AddDays(1)
	}

	grid := make(Grid, 0, 42)
	for d := start; !end.Before(d); d = d.AddDays(1) {
		grid = append(grid, d)
	}
	return grid
}

func (g Grid) Contains(d Day) bool {
	if len(g) == 0 {
		return false
	}
	return !d.Before(g[0]) && !g[len(g)-1].Before(d)
}

// Weeks splits the grid into rows of seven days, Monday first.
func (g Grid) Weeks() []Grid {
	weeks := make([]Grid, 0, len(g)/7)
	for i := 0; i+7 <= len(g); i += 7 {
		weeks = append(weeks, g[i:i+7])
	}
	return weeks
}
