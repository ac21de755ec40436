package db

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewDBPoolParams struct {
	DBHost         string
	DBPort         string
	DBName         string
	DBUser         string
	DBPassword     string
	DBSSLMode      string
	MaxConns       int32
	TracingEnabled bool

	// DBTimeZone is the session TimeZone, it decides which calendar day workout_date::date
	// and the DATE_TRUNC buckets fall on. Defaults to UTC.
	DBTimeZone string
}

const DefaultTimeZone = "UTC"

// ConnString builds a postgres URL for the given scheme ("postgres" for pgx, "pgx5" for migrations).
func (p NewDBPoolParams) ConnString(scheme string) string {
	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(p.DBHost, p.DBPort),
		Path:   "/" + p.DBName,
	}

	user := p.DBUser
	if user == "" {
		user = "postgres"
	}
	if p.DBPassword != "" {
		u.User = url.UserPassword(user, p.DBPassword)
	} else {
		u.User = url.User(user)
	}

	if p.DBSSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", p.DBSSLMode)
		u.RawQuery = q.Encode()
	}

	return u.String()
}

func NewDBPool(ctx context.Context, params NewDBPoolParams) (*pgxpool.Pool, error) {
	poolConfig, err := newPoolConfig(params)
	if err != nil {
		return nil, err
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return db, nil
}

func newPoolConfig(params NewDBPoolParams) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(params.ConnString("postgres"))
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	if params.MaxConns > 0 {
		poolConfig.MaxConns = params.MaxConns
	}

	timeZone := params.DBTimeZone
	if timeZone == "" {
		timeZone = DefaultTimeZone
	}
	poolConfig.ConnConfig.RuntimeParams["timezone"] = timeZone

	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	return poolConfig, nil
}
