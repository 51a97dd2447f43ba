package cmd

import (
	"context"
	"fmt"
	"path"
	"syscall"
	"time"

	"git.sr.ht/~mariusor/lw"
	w "git.sr.ht/~mariusor/wrapper"
	"github.com/urfave/cli"

	"sportcal/calendar"
	"sportcal/calendar/feed"
	"sportcal/ical"
	"sportcal/storage"
	"sportcal/storage/boltdb"
)

var ServerCmd = cli.Command{
	Name:  "server",
	Usage: "Starts the month view server",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Set hostname on which to listen to",
			Value: "localhost",
		},
		&cli.IntFlag{
			Name:  "port",
			Usage: "Set the port on which to listen to",
			Value: 9999,
		},
		&cli.StringFlag{
			Name:  "feed",
			Usage: "Feed URL or file to load at startup",
			Value: DefaultFeed,
		},
	},
	Action: serverStart,
}

var wait = 100 * time.Millisecond

func serverStart(c *cli.Context) error {
	listen := fmt.Sprintf("%s:%d", c.String("host"), c.Int("port"))
	logger := lw.Dev()

	store := storage.NewStore()
	store.Load(loadAtStartup(c, logger))

	logger.Infof("Listening on %s", listen)

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	srvRun, srvStop := w.HttpServer(w.Handler(ical.Routes(AppVersion, store, logger)), w.OnTCP(listen))
	w.RegisterSignalHandlers(w.SignalHandlers{
		syscall.SIGHUP: func(_ chan int) {
			logger.Infof("SIGHUP received, reloading configuration")
		},
		syscall.SIGINT: func(exit chan int) {
			logger.Infof("SIGINT received, stopping")
			exit <- 0
		},
		syscall.SIGTERM: func(exit chan int) {
			logger.Infof("SIGTERM received, force stopping")
			exit <- 0
		},
		syscall.SIGQUIT: func(exit chan int) {
			logger.Infof("SIGQUIT received, force stopping with core-dump")
			exit <- 0
		},
	}).Exec(func() error {
		if err := srvRun(); err != nil {
			logger.Errorf("Error: %s", err)
			return err
		}
		var err error
		// Doesn't block if no connections, but will otherwise wait until the timeout deadline.
		go func(e error) {
			if err = srvStop(ctx); err != nil {
				logger.Errorf("Error: %s", err)
			}
		}(err)
		return err
	})

	return nil
}

// loadAtStartup fills the feed bucket once: from the feed itself when
// reachable, from the last fetched snapshot otherwise. Both failing
// means an empty calendar, never a dead server.
func loadAtStartup(c *cli.Context, logger lw.Logger) calendar.Events {
	source := c.String("feed")
	events, err := feed.Fetch(source)
	if err == nil {
		logger.Infof("Loaded %d events from %s", len(events), source)
		return events
	}
	logger.Errorf("Unable to load feed %s: %s", source, err)

	st := boltdb.New(boltdb.Config{
		Path: path.Join(c.GlobalString("path"), boltdb.DefaultFile),
	})
	events, err = st.LoadEvents(storage.Everything())
	if err != nil {
		logger.Errorf("Unable to load stored snapshot: %s", err)
		return nil
	}
	logger.Infof("Loaded %d events from stored snapshot", len(events))
	return events
}
