package testinternals

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitdash/internal/db"
)

// PostgresParams points at the database used by integration tests,
// POSTGRES_HOST / POSTGRES_PORT / POSTGRES_PASSWORD override the defaults.
func PostgresParams() db.NewDBPoolParams {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	return db.NewDBPoolParams{
		DBHost:     host,
		DBPort:     port,
		DBName:     "fitdash_test",
		DBUser:     "postgres",
		DBPassword: os.Getenv("POSTGRES_PASSWORD"),
		DBSSLMode:  "disable",
	}
}

// NewTestDB migrates the test database, empties it and returns a pool.
func NewTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	params := PostgresParams()
	t.Logf("using postgres host: %s", params.DBHost)

	_, err := db.Migrate(params)
	require.NoError(t, err)

	dbPool, err := db.NewDBPool(timeoutCtx, params)
	require.NoError(t, err)
	require.NoError(t, db.Truncate(timeoutCtx, dbPool))

	return dbPool, func() {
		dbPool.Close()
	}
}
