// Package store opens the trip database and turns query results into tables.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"net"
	"net/url"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // duckdb driver
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "github.com/mattn/go-sqlite3"    // sqlite3 driver

	"taxi-report/internal/config"
	"taxi-report/internal/logging"
	"taxi-report/internal/model"
	"taxi-report/internal/table"
)

// DriverName returns the database/sql driver registered for a dialect.
func DriverName(dialect string) (string, error) {
	switch dialect {
	case config.DialectPostgres, config.DialectRedshift:
		return "pgx", nil
	case config.DialectSQLite:
		return "sqlite3", nil
	case config.DialectDuckDB:
		return "duckdb", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// DSN builds the connection string for the descriptor.
func DSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Dialect {
	case config.DialectPostgres, config.DialectRedshift:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(cfg.User, cfg.Password),
			Host:   net.JoinHostPort(cfg.Host, cfg.Port),
			Path:   "/" + cfg.Name,
		}
		q := url.Values{}
		if cfg.SSLMode != "" {
			q.Set("sslmode", cfg.SSLMode)
		}
		if cfg.ConnectTimeout > 0 {
			q.Set("connect_timeout", fmt.Sprint(int(cfg.ConnectTimeout.Seconds())))
		}
		u.RawQuery = q.Encode()
		return u.String(), nil
	case config.DialectSQLite:
		if cfg.Path == "" {
			return ":memory:", nil
		}
		return "file:" + cfg.Path + "?mode=ro", nil
	case config.DialectDuckDB:
		if cfg.Path == "" {
			return "", nil
		}
		return cfg.Path + "?access_mode=read_only", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", cfg.Dialect)
	}
}

// Redact hides the password in a URL-style DSN for logging.
func Redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}

// Open connects to the database described by cfg and verifies it answers a
// ping. Every failure wraps model.ErrConnection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	driver, err := DriverName(cfg.Dialect)
	if err != nil {
		return nil, model.Fail("", "connect", model.ErrConnection, err)
	}
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, model.Fail("", "connect", model.ErrConnection, err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, model.Fail("", "connect", model.ErrConnection, fmt.Errorf("db open: %w", err))
	}

	// One sequential reader; a single connection also keeps in-memory
	// databases alive between queries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, model.Fail("", "connect", model.ErrConnection, fmt.Errorf("db ping: %w", err))
	}

	logging.Info().
		Str("dialect", cfg.Dialect).
		Str("target", Redact(dsn)).
		Msg("database connected")
	return db, nil
}

// Query runs a read-only statement and returns its rows as a table named name.
// Failures wrap model.ErrQuery.
func Query(ctx context.Context, db *sql.DB, name, query string) (*table.Table, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, model.Fail(name, "query", model.ErrQuery, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, model.Fail(name, "query", model.ErrQuery, err)
	}

	t := table.New(name, cols...)
	for rows.Next() {
		cells := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, model.Fail(name, "query", model.ErrQuery, err)
		}
		for i, v := range cells {
			cells[i] = normalize(v)
		}
		t.Rows = append(t.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Fail(name, "query", model.ErrQuery, err)
	}
	if t.Len() == 0 {
		logging.Warn().Str("question", name).Msg("query returned no rows")
	}
	return t, nil
}

// normalize maps driver values onto the cell types a table holds.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case nil, int64, float64, string, bool, time.Time:
		return val
	case []byte:
		return string(val)
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return float64(val)
	case *big.Int:
		if val.IsInt64() {
			return val.Int64()
		}
		return val.String()
	case interface{ Float64() float64 }:
		return val.Float64()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
