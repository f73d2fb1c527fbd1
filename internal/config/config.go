// Package config holds process-level configuration for every cmd/
// entrypoint: log directory, default timestamp authority, memo store
// location. Grounded on the donor's pkg/config.Config: a flat,
// grouped-by-concern struct populated from os.Getenv with typed accessors,
// not a third CLI-parsing layer on top of cobra/pflag.
package config

import "os"

// Config is process-wide configuration shared by every cmd/ entrypoint.
type Config struct {
	// TimestampServerURL is the default RFC 3161 timestamp authority used
	// by cmd/sign when --timestampserver is omitted.
	TimestampServerURL string
	// MemoDSN, when set, points the Standalone Builder's memo table at
	// Postgres (lib/pq) instead of the embedded SQLite default.
	MemoDSN string
	// MemoSQLitePath is the embedded SQLite memo database path (spec.md
	// §6.3: "memoizes prior answers in a SQLite table").
	MemoSQLitePath string
	// MetricsAddr, when non-empty, serves /metrics (prometheus) on this
	// address from cmd/validator.
	MetricsAddr string
	// ReaderConfigPath optionally points at a readers.yaml static reader
	// registration file (spec.md §9 Design Notes).
	ReaderConfigPath string
}

// FromEnv populates Config from environment variables, applying the
// donor's style of typed accessor over os.Getenv with explicit defaults.
func FromEnv() Config {
	return Config{
		TimestampServerURL: getEnv("PROVTOOL_TIMESTAMP_SERVER", "http://zeitstempel.dfn.de"),
		MemoDSN:            os.Getenv("PROVTOOL_MEMO_DSN"),
		MemoSQLitePath:     getEnv("PROVTOOL_MEMO_SQLITE", "provtool.db"),
		MetricsAddr:        os.Getenv("PROVTOOL_METRICS_ADDR"),
		ReaderConfigPath:   os.Getenv("PROVTOOL_READERS_YAML"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
