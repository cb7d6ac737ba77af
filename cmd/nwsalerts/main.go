package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/nwsalerts/pkg/alerts"
	"github.com/umputun/nwsalerts/pkg/config"
	"github.com/umputun/nwsalerts/pkg/feed"
	"github.com/umputun/nwsalerts/pkg/location"
	"github.com/umputun/nwsalerts/pkg/metrics"
	"github.com/umputun/nwsalerts/pkg/repository"
	"github.com/umputun/nwsalerts/pkg/scheduler"
	"github.com/umputun/nwsalerts/server"
)

// Opts with all CLI options
type Opts struct {
	Config  string `short:"c" long:"config" env:"CONFIG" description:"configuration file, defaults are used if not set"`
	Listen  string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
	DB      string `long:"db" env:"DB" description:"database dsn, overrides config"`
	Seed    string `long:"seed" env:"SEED" description:"sql seed file with locations, overrides config"`
	Verbose bool   `short:"v" long:"verbose" description:"verbose mode"`

	Import struct {
		Locations string `long:"locations" env:"LOCATIONS" description:"csv file with zip, latitude, longitude, city, state, county"`
		Codes     string `long:"codes" env:"CODES" description:"csv file with state, county, countyansi"`
		Only      bool   `long:"only" env:"ONLY" description:"exit after import"`
	} `group:"import" namespace:"import" env-namespace:"IMPORT"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	SetupLog(opts.Debug || opts.Verbose)

	lgr.Printf("[INFO] starting nwsalerts version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	lgr.Print("[INFO] shutdown complete")
}

// run wires the directory, feed fetcher, alert engine, cache warmer, metrics and http server, blocks until ctx is done
func run(ctx context.Context, opts Opts) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		SeedFile:        cfg.Database.Seed,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			lgr.Printf("[WARN] close database: %v", err)
		}
	}()

	if err := importDirectory(ctx, repos.Location, opts); err != nil {
		return fmt.Errorf("failed to import directory: %w", err)
	}
	if opts.Import.Only {
		lgr.Print("[INFO] import done")
		return nil
	}

	if n, err := repos.Location.Count(ctx); err == nil {
		lgr.Printf("[INFO] location directory has %d entries", n)
		if n == 0 {
			lgr.Print("[WARN] location directory is empty, only national alerts can be served")
		}
	}

	fetcher := feed.NewCachedFetcher(feed.NewHTTPFetcher(cfg.Feed.Timeout, cfg.Feed.UserAgent), cfg.Feed.CacheTTL, cfg.Feed.CacheSize)
	engine := alerts.NewEngine(location.NewResolver(repos.Location), fetcher, cfg.PipelineConfig())

	warmer := scheduler.NewScheduler(scheduler.Params{
		Builder:    engine,
		Targets:    cfg.WarmTargets(),
		Interval:   cfg.Warm.Interval,
		MaxWorkers: cfg.Warm.Workers,
	})
	warmer.Start(ctx)
	defer warmer.Stop()

	var builder server.AlertBuilder = engine
	var srvOpts []server.Option
	if cfg.Server.Metrics {
		m := metrics.New()
		m.WatchCache(fetcher)
		builder = m.Instrument(engine)
		srvOpts = append(srvOpts, server.WithMetrics(m))
	}

	srv := server.New(cfg, builder, revision, opts.Debug, srvOpts...)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// importDirectory loads location and county code csv files set in import options
func importDirectory(ctx context.Context, repo *repository.LocationRepository, opts Opts) error {
	steps := []struct {
		name string
		file string
		load func(context.Context, io.Reader) (int, error)
	}{
		{name: "locations", file: opts.Import.Locations, load: repo.ImportLocations},
		{name: "county codes", file: opts.Import.Codes, load: repo.ImportCountyCodes},
	}
	for _, st := range steps {
		if st.file == "" {
			continue
		}
		f, err := os.Open(st.file)
		if err != nil {
			return fmt.Errorf("open %s file: %w", st.name, err)
		}
		n, err := st.load(ctx, f)
		_ = f.Close()
		if err != nil {
			return err
		}
		lgr.Printf("[INFO] imported %d %s from %s", n, st.name, st.file)
	}
	return nil
}

// loadConfig reads the config file if set and applies command line overrides
func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, err
		}
	}

	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.DB != "" {
		cfg.Database.DSN = opts.DB
	}
	if opts.Seed != "" {
		cfg.Database.Seed = opts.Seed
	}
	return cfg, nil
}

// SetupLog configures lgr and the standard logger, output is discarded unless dbg is set
func SetupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
