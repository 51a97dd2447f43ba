package cmd

import (
	"path"

	"github.com/urfave/cli"

	"sportcal/calendar/feed"
	"sportcal/storage/boltdb"
)

var FetchCmd = cli.Command{
	Name:  "fetch",
	Usage: "Fetches the events feed and stores a local snapshot",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "feed",
			Usage: "Feed URL or file to load",
			Value: DefaultFeed,
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Don't persist events",
		},
	},
	Action: fetchFeed,
}

func fetchFeed(c *cli.Context) error {
	debug := c.Bool("debug") || c.GlobalBool("debug")
	source := c.String("feed")

	events, err := feed.Fetch(source)
	if err != nil {
		// an unreachable feed leaves the calendar empty, it never aborts
		errFn("Unable to load feed %s: %s", source, err)
		events = nil
	}
	if debug {
		info("Loaded %d events from %s", len(events), source)
		for _, ev := range events {
			info("%s", ev)
		}
	}
	if c.Bool("dry-run") {
		return nil
	}

	st := boltdb.New(boltdb.Config{
		Path:  path.Join(c.GlobalString("path"), boltdb.DefaultFile),
		LogFn: info,
		ErrFn: errFn,
	})
	return st.SaveEvents(events)
}
