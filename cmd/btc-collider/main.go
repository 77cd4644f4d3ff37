// btc-collider scans intervals of the bitcoin private-key space on all
// CPU cores and reports keys whose derived addresses collide with a
// pre-loaded address database.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/urfave/cli/v2"

	"github.com/Asylian21/btc-collider/addrfile"
	"github.com/Asylian21/btc-collider/collider"
	"github.com/Asylian21/btc-collider/searchspace"
)

const (
	defaultAddressesFile   = "addresses/latest.txt.gz"
	defaultSearchSpaceFile = "searchspace/done.txt"
	defaultIntervalSize    = 1_000_000
	logDir                 = "log"
)

// log is the main logger; initLogging replaces it with a backed one.
var log = btclog.Disabled

func main() {
	app := &cli.App{
		Name:  "btc-collider",
		Usage: "brute-force scan of the bitcoin private-key space",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "random",
				Aliases: []string{"r"},
				Usage:   "search at random starts instead of resuming from the search-space file",
			},
			&cli.IntFlag{
				Name:  "threads",
				Value: runtime.NumCPU(),
				Usage: "number of scan workers",
			},
			&cli.UintFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Usage:   "stop after this many minutes (0 = run until interrupted)",
			},
			&cli.UintFlag{
				Name:  "puzzle",
				Usage: "search inside the key range of puzzle transaction N",
			},
			&cli.StringFlag{
				Name:  "addresses",
				Value: defaultAddressesFile,
				Usage: "gzip-compressed address database, one address per line",
			},
			&cli.StringFlag{
				Name:  "searchspace",
				Value: defaultSearchSpaceFile,
				Usage: "file tracking completed intervals",
			},
			&cli.Uint64Flag{
				Name:  "interval",
				Value: defaultIntervalSize,
				Usage: "number of keys per work interval",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log at debug level",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cleanup, err := initLogging(c.Bool("debug"))
	if err != nil {
		return err
	}
	defer cleanup()

	log.Infof("Start btc-collider")
	log.Infof("CPU cores: %d | worker threads: %d", runtime.NumCPU(), c.Int("threads"))

	addresses, err := addrfile.ReadAddressesFile(c.String("addresses"))
	if err != nil {
		return err
	}

	provider, err := newProvider(c)
	if err != nil {
		return err
	}

	pool := collider.NewPool(c.Int("threads"), provider, addresses)
	log.Infof("Start collider on %d threads", c.Int("threads"))
	pool.Start()

	if timeout := c.Uint("timeout"); timeout > 0 {
		log.Debugf("Sleep on main thread for %d minutes", timeout)
		time.Sleep(time.Duration(timeout) * time.Minute)
	} else {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		sig := <-interrupt
		log.Debugf("Received %v", sig)
	}

	pool.Stop()
	log.Debugf("Waiting for workers to finish")
	pool.Wait()

	log.Infof("Shutdown btc-collider")
	return nil
}

// newProvider picks the search-space provider from the flags: random,
// puzzle-range, or the default file-backed frontier.
func newProvider(c *cli.Context) (searchspace.Provider, error) {
	interval := c.Uint64("interval")
	switch {
	case c.Bool("random"):
		return searchspace.NewRandomProvider(interval), nil
	case c.Uint("puzzle") > 0:
		return searchspace.NewPuzzleProvider(c.Uint("puzzle"), interval)
	default:
		return searchspace.NewFileProvider(c.String("searchspace"), interval)
	}
}

// initLogging routes every subsystem through one btclog backend writing
// to stdout and to log/<UTC-timestamp>.log. The returned cleanup closes
// the file.
func initLogging(debug bool) (func(), error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	name := filepath.Join(logDir, time.Now().UTC().Format("2006-01-02T150405")+".log")
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	backend := btclog.NewBackend(io.MultiWriter(os.Stdout, f))
	level := btclog.LevelInfo
	if debug {
		level = btclog.LevelDebug
	}

	newLogger := func(tag string) btclog.Logger {
		l := backend.Logger(tag)
		l.SetLevel(level)
		return l
	}
	log = newLogger("MAIN")
	collider.UseLogger(newLogger("COLL"))
	searchspace.UseLogger(newLogger("SPAC"))
	addrfile.UseLogger(newLogger("ADDR"))

	return func() { f.Close() }, nil
}
