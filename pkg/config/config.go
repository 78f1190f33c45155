// Package config holds the resolved configuration values bound from CLI
// flags, environment variables and an optional config file. Flat
// package-level vars, matching the teacher's pkg/config rather than a
// nested struct — see cmd/root.go's bindFlags.
package config

var (
	DB                string // connection string for the catalog database
	NoDB              bool   // run against the in-memory catalog fallback instead of Postgres
	ListenAddr        string // listen address for the scheduler websocket server
	PredictAddr       string // listen address for the stateless predictor HTTP server
	LogLevel          string // zap log level: debug, info, warn, error
	LogFormat         string // "json" or "console"
	LogFilter         string // zapfilter rule string, e.g. "*" or "!component:engine.pace"
	WaitForServices   string // duration to wait for the database to become reachable
	MigrationSourceURL string // override for migration source location

	EnsembleWorkers   int // max concurrent Predictor ensemble members
	EnsembleDefaultN  int // default ensemble size when a caller doesn't specify one
	EnsembleMaxN      int // hard ceiling on ensemble size per request

	BroadcastQueueDepth int // per-listener outbound queue depth before snapshot coalescing kicks in
)

// Config is intentionally near-empty, matching the teacher's pkg/config —
// the flat vars above are what callers actually read.
type Config struct{}
