package store

import (
	"context"
	"fmt"
)

const (
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"
)

// Config selects and locates a backend. An empty SQLite DSN resolves to
// DefaultDBPath.
type Config struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Database string `mapstructure:"database"`
}

// OpenBackend opens the backend named by cfg.Driver.
func OpenBackend(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			p, err := DefaultDBPath()
			if err != nil {
				return nil, err
			}
			dsn = p
		}
		return Open(dsn)
	case DriverMongoDB:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("mongodb backend requires a connection URI")
		}
		name := cfg.Database
		if name == "" {
			name = "fluentplan"
		}
		return OpenMongo(ctx, cfg.DSN, name)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
