package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Rana718/ontoseed/internal/config"
	"github.com/Rana718/ontoseed/internal/database/mysql"
	"github.com/Rana718/ontoseed/internal/database/sqlite"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connection is a plain database/sql handle used to probe the server before
// the pooled adapters take over.
type Connection struct {
	DB     *sql.DB
	Config *config.Config
}

// DriverDSN maps a provider and URL to a database/sql driver name and DSN.
func DriverDSN(provider, url string) (string, string, error) {
	switch provider {
	case "postgresql", "postgres":
		return "postgres", url, nil
	case "mysql":
		return "mysql", mysql.DSN(url), nil
	case "sqlite", "sqlite3":
		dsn, _ := sqlite.DSN(url)
		return "sqlite3", dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database provider: %s", provider)
	}
}

// NewConnection opens a connection without pinging it.
func NewConnection(cfg *config.Config) (*Connection, error) {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	driver, dsn, err := DriverDSN(cfg.Database.Provider, dbURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &Connection{
		DB:     db,
		Config: cfg,
	}, nil
}

func (c *Connection) Close() error {
	return c.DB.Close()
}

// WaitOptions bounds the connectivity probe.
type WaitOptions struct {
	Attempts int
	Delay    time.Duration
	// OnRetry is called after each failed attempt that will be retried.
	OnRetry func(attempt int, err error)
}

// Wait pings until the database answers, the attempts run out, or ctx is done.
func (c *Connection) Wait(ctx context.Context, opts WaitOptions) error {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}

	var err error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		if err = c.DB.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == opts.Attempts {
			break
		}
		if opts.OnRetry != nil {
			opts.OnRetry(attempt, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(opts.Delay):
		}
	}
	return fmt.Errorf("database not reachable after %d attempts: %w", opts.Attempts, err)
}
