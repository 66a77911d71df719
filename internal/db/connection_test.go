package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rana718/ontoseed/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverDSN(t *testing.T) {
	driver, dsn, err := DriverDSN("postgresql", "postgres://u:p@localhost:5432/onto")
	require.NoError(t, err)
	assert.Equal(t, "postgres", driver)
	assert.Equal(t, "postgres://u:p@localhost:5432/onto", dsn)

	driver, dsn, err = DriverDSN("mysql", "mysql://u:p@localhost:3306/onto")
	require.NoError(t, err)
	assert.Equal(t, "mysql", driver)
	assert.Equal(t, "u:p@tcp(localhost:3306)/onto", dsn)

	driver, _, err = DriverDSN("sqlite3", "sqlite://./onto.db")
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", driver)

	_, _, err = DriverDSN("oracle", "x")
	assert.Error(t, err)
}

func TestWaitSQLite(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Database.Provider = "sqlite"
	cfg.Database.URLEnv = "ONTOSEED_TEST_DB_URL"
	t.Setenv("ONTOSEED_TEST_DB_URL", "sqlite://"+filepath.Join(t.TempDir(), "ping.db"))

	conn, err := NewConnection(cfg)
	require.NoError(t, err)
	defer conn.Close()

	retries := 0
	err = conn.Wait(context.Background(), WaitOptions{
		Attempts: 3,
		Delay:    time.Millisecond,
		OnRetry:  func(int, error) { retries++ },
	})
	require.NoError(t, err)
	assert.Zero(t, retries)
}

func TestWaitGivesUp(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Database.Provider = "sqlite"
	cfg.Database.URLEnv = "ONTOSEED_TEST_DB_URL"
	// A directory that does not exist cannot hold the database file.
	t.Setenv("ONTOSEED_TEST_DB_URL", "sqlite://"+filepath.Join(t.TempDir(), "missing", "ping.db"))

	conn, err := NewConnection(cfg)
	require.NoError(t, err)
	defer conn.Close()

	var attempts []int
	err = conn.Wait(context.Background(), WaitOptions{
		Attempts: 3,
		Delay:    time.Millisecond,
		OnRetry:  func(n int, _ error) { attempts = append(attempts, n) },
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestNewConnectionNeedsURL(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Database.URLEnv = "ONTOSEED_TEST_UNSET_URL"
	t.Setenv("ONTOSEED_TEST_UNSET_URL", "")

	_, err := NewConnection(cfg)
	assert.Error(t, err)
}
