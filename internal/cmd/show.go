package cmd

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/urfave/cli"

	"sportcal/calendar"
	"sportcal/storage"
	"sportcal/storage/boltdb"
	"sportcal/view"
)

var ShowCmd = cli.Command{
	Name:  "show",
	Usage: "Shows the month grid with placed events",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "month",
			Usage: "Month to display",
			Value: now.Format("2006-01"),
		},
		&cli.IntFlag{
			Name:  "tz",
			Usage: "Viewer UTC offset in minutes, east positive",
		},
		&cli.StringSliceFlag{
			Name:  "sport",
			Usage: "Which sports to display",
		},
	},
	Action: showMonth,
}

func showMonth(c *cli.Context) error {
	start, err := time.Parse("2006-01", c.String("month"))
	if err != nil {
		return fmt.Errorf("unable to parse month %q: %w", c.String("month"), err)
	}
	year, month := start.Year(), start.Month()

	st := boltdb.New(boltdb.Config{
		Path:  path.Join(c.GlobalString("path"), boltdb.DefaultFile),
		LogFn: nil,
		ErrFn: errFn,
	})

	// read one day beyond the grid on both sides: offset correction can
	// pull events in from just outside the window
	grid := calendar.MonthGrid(year, month)
	cursor := storage.Cursor(grid[0].Time().Add(-24*time.Hour), time.Duration(len(grid)+2)*24*time.Hour)
	events, err := st.LoadEvents(cursor, c.StringSlice("sport")...)
	if err != nil {
		errFn("Unable to load events: %s", err)
		events = nil
	}

	store := storage.NewStore()
	store.Load(events)

	fmt.Print(RenderMonth(view.NewAt(store, c.Int("tz"), year, month).View()))
	return nil
}

var dayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// RenderMonth lays a month view out as text: the day-number grid first,
// then every non-empty cell with its events in start order.
func RenderMonth(m view.Month) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "%s %d\n", m.Month, m.Year)
	fmt.Fprintf(&b, "%s\n", strings.Join(dayNames, " "))
	for _, week := range m.Grid.Weeks() {
		cells := make([]string, 0, len(week))
		for _, day := range week {
			mark := " "
			if len(m.Cells[day]) > 0 {
				mark = "*"
			}
			cells = append(cells, fmt.Sprintf("%2d%s", day.Day, mark))
		}
		fmt.Fprintf(&b, "%s\n", strings.Join(cells, " "))
	}
	for _, day := range m.Grid {
		for _, ev := range m.Cells[day] {
			fmt.Fprintf(&b, "%s  %s\n", day, ev)
		}
	}
	return b.String()
}
