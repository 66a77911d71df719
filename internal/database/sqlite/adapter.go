package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/ontoseed/internal/database/common"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type Adapter struct {
	common.SQLStore
}

func New() *Adapter {
	return &Adapter{
		SQLStore: common.SQLStore{
			Stmts: common.NewStatements(squirrel.Question, common.OnConflictDoNothing),
		},
	}
}

// DSN turns a sqlite:// URL or bare path into a go-sqlite3 DSN with foreign
// keys enforced. Caller-supplied query parameters are kept.
func DSN(url string) (dsn, path string) {
	dsn = strings.TrimPrefix(url, "sqlite://")
	path = dsn
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}

	if !strings.Contains(dsn, "?") {
		dsn += "?cache=shared&_journal_mode=WAL"
	}
	if !strings.Contains(dsn, "_foreign_keys=") && !strings.Contains(dsn, "_fk=") {
		dsn += "&_foreign_keys=on"
	}
	return dsn, path
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	dsn, path := DSN(url)
	if dir := filepath.Dir(path); !strings.HasPrefix(path, ":memory:") && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.DB = db
	return nil
}

func (s *Adapter) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}
