package mysql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/ontoseed/internal/database/common"
	driver "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

type Adapter struct {
	common.SQLStore
}

func New() *Adapter {
	return &Adapter{
		SQLStore: common.SQLStore{
			Stmts: common.NewStatements(squirrel.Question, common.OnDuplicateKeyNoop),
		},
	}
}

// DSN converts a mysql:// URL into a go-sql-driver DSN. Plain DSNs pass through.
func DSN(url string) string {
	if !strings.HasPrefix(url, "mysql://") {
		return url
	}
	dsn := strings.TrimPrefix(url, "mysql://")

	atIndex := strings.LastIndex(dsn, "@")
	if atIndex <= 0 {
		return dsn
	}
	credentials := dsn[:atIndex]
	remainder := dsn[atIndex+1:]

	slashIndex := strings.Index(remainder, "/")
	if slashIndex <= 0 {
		return dsn
	}
	hostPort := remainder[:slashIndex]
	dbAndParams := remainder[slashIndex+1:]

	replacer := strings.NewReplacer(
		"ssl-mode=REQUIRED", "tls=skip-verify",
		"ssl-mode=DISABLED", "tls=false",
		"ssl-mode=VERIFY_CA", "tls=true",
		"ssl-mode=VERIFY_IDENTITY", "tls=true",
		"sslmode=require", "tls=skip-verify",
		"sslmode=disable", "tls=false",
		"sslmode=verify-ca", "tls=true",
		"sslmode=verify-full", "tls=true",
	)
	dbAndParams = replacer.Replace(dbAndParams)

	return fmt.Sprintf("%s@tcp(%s)/%s", credentials, hostPort, dbAndParams)
}

func (m *Adapter) Connect(ctx context.Context, url string) error {
	cfg, err := driver.ParseDSN(DSN(url))
	if err != nil {
		return fmt.Errorf("failed to parse MySQL DSN: %w", err)
	}
	// CREATE TABLE scripts are applied statement by statement; keep the DSN strict otherwise.
	cfg.MultiStatements = false
	cfg.ClientFoundRows = false

	db, err := sqlx.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	m.DB = db
	return nil
}

func (m *Adapter) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

func (m *Adapter) Ping(ctx context.Context) error {
	return m.DB.PingContext(ctx)
}
