// Package server holds the startup plumbing shared by the schedule and
// predict subcommands: logger construction and catalog bootstrapping,
// grounded on the teacher's wamp_server.go (logger-by-LogFormat,
// waitForRequiredServices) but pointed at this domain's read-only
// Track/Driver/Compound/Scenario catalogs instead of a WAMP realm.
package server

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayyushutup/boxbox/log"
	"github.com/ayyushutup/boxbox/pkg/catalog/baseline"
	"github.com/ayyushutup/boxbox/pkg/catalog/compound"
	"github.com/ayyushutup/boxbox/pkg/catalog/driver"
	"github.com/ayyushutup/boxbox/pkg/catalog/scenario"
	"github.com/ayyushutup/boxbox/pkg/catalog/track"
	"github.com/ayyushutup/boxbox/pkg/config"
	"github.com/ayyushutup/boxbox/pkg/db/postgres"
	"github.com/ayyushutup/boxbox/pkg/utils"
	"github.com/ayyushutup/boxbox/testsupport/basedata"
)

// Catalogs bundles every read-only repository a server subcommand needs.
type Catalogs struct {
	Tracks    *track.Repository
	Drivers   *driver.Repository
	Compounds *compound.Repository
	Scenarios *scenario.Repository
}

func (c Catalogs) Baseline() baseline.Catalogs {
	return baseline.Catalogs{Tracks: c.Tracks, Drivers: c.Drivers}
}

// BuildLogger mirrors the teacher's logger-by-LogFormat switch, with the
// addition of zapfilter's rule-based filtering (pkg/config.LogFilter) for
// quieting noisy components such as the engine's per-tick pace jitter.
func BuildLogger() *log.Logger {
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(os.Stderr, level, log.WithCaller(true), log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(os.Stderr, level, log.WithCaller(true), log.AddCallerSkip(1))
	}

	if config.LogFilter != "" && config.LogFilter != "*" {
		logger = log.WithFilter(logger, config.LogFilter)
	}
	return logger
}

// WaitForRequiredServices blocks until Postgres answers, unless NoDB mode
// was requested. Grounded on the teacher's waitForRequiredServices, pared
// down to the one dependency this module has (no WAMP broker to probe).
func WaitForRequiredServices() {
	if config.NoDB {
		return
	}
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("invalid wait-for-services duration, using 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	if addr := utils.ExtractFromDBURL(config.DB); addr != "" {
		if err := utils.WaitForTCP(addr, timeout); err != nil {
			log.Fatal("required services not ready", log.ErrorField(err))
		}
	}
}

// BuildCatalogs opens the Postgres pool (unless NoDB mode is set, in which
// case every repository falls back to its in-memory seed map) and seeds
// the fixture data needed to exercise the bundled demo scenarios.
func BuildCatalogs(ctx context.Context) (Catalogs, *pgxpool.Pool) {
	var pool *pgxpool.Pool
	if !config.NoDB {
		p, err := postgres.InitWithUrl(ctx, config.DB)
		if err != nil {
			log.Fatal("could not connect to catalog database", log.ErrorField(err))
		}
		pool = p
	}

	cats := Catalogs{
		Tracks:    track.NewRepository(pool),
		Drivers:   driver.NewRepository(pool),
		Compounds: compound.NewRepository(pool),
		Scenarios: scenario.NewRepository(pool),
	}
	if config.NoDB {
		basedata.Seed(ctx, cats.Tracks, cats.Drivers, cats.Compounds, cats.Scenarios)
	}
	return cats, pool
}
