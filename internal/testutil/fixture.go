// Package testutil builds small trip databases for tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // duckdb driver
	_ "github.com/mattn/go-sqlite3"    // sqlite3 driver
	"github.com/stretchr/testify/require"
)

// Trip is one row of the trips table.
type Trip struct {
	VendorID       int
	PassengerCount int
	Distance       float64
	Total          float64
	Tip            float64
	PaymentType    int
	Pickup         time.Time
	Dropoff        time.Time
}

// Payment types in the fixture's payment lookup table.
const (
	Cash      = 1
	Credit    = 2
	NoCharge  = 3
	timestamp = "2006-01-02 15:04:05"
)

var schema = []string{
	`CREATE TABLE vendors (vendor_id INTEGER, name VARCHAR(64))`,
	`CREATE TABLE payment (payment_type INTEGER, payment_lookup VARCHAR(32))`,
	`CREATE TABLE trips (
		vendor_id INTEGER,
		passenger_count INTEGER,
		trip_distance DOUBLE PRECISION,
		total_amount DOUBLE PRECISION,
		tip_amount DOUBLE PRECISION,
		payment_type INTEGER,
		pickup_datetime TIMESTAMP,
		dropoff_datetime TIMESTAMP
	)`,
	`INSERT INTO vendors VALUES (1, 'Alpha Cabs'), (2, 'Beta Taxi')`,
	`INSERT INTO payment VALUES (1, 'Cash'), (2, 'Credit'), (3, 'No Charge')`,
}

func at(s string) time.Time {
	t, err := time.Parse(timestamp, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Trips is the default fixture. Expected results:
//
//	avg distance, passengers <= 2: (2 + 4 + 6) / 3 = 4.0
//	vendor totals: Alpha Cabs 100, Beta Taxi 50
//	cash rides: 10/2012 and 12/2012; non-cash: 10/2012 and 11/2012
//	tipped rides: 2012-10-07 (day 281) and 2012-11-05 (day 310)
//	weekend pickups (Sat 10-06, Sun 10-07): (600 + 1200) / 2 = 900 seconds
func Trips() []Trip {
	return []Trip{
		{1, 1, 2.0, 40, 0, Cash, at("2012-10-06 10:00:00"), at("2012-10-06 10:10:00")},
		{1, 2, 4.0, 60, 5, Credit, at("2012-10-07 12:00:00"), at("2012-10-07 12:20:00")},
		{2, 3, 10.0, 30, 2, Credit, at("2012-11-05 09:00:00"), at("2012-11-05 09:30:00")},
		{2, 1, 6.0, 20, 0, Cash, at("2012-12-25 18:00:00"), at("2012-12-25 18:05:00")},
	}
}

// UntippedTrips is Trips with every tip removed.
func UntippedTrips() []Trip {
	trips := Trips()
	for i := range trips {
		trips[i].Tip = 0
	}
	return trips
}

// Seed creates the schema and inserts trips using plain literals, so it works
// unchanged on sqlite, duckdb and postgres.
func Seed(ctx context.Context, db *sql.DB, trips []Trip) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("seed %q: %w", stmt, err)
		}
	}
	for _, tr := range trips {
		stmt := fmt.Sprintf(`INSERT INTO trips VALUES (%d, %d, %s, %s, %s, %d, '%s', '%s')`,
			tr.VendorID, tr.PassengerCount, num(tr.Distance), num(tr.Total), num(tr.Tip),
			tr.PaymentType, tr.Pickup.Format(timestamp), tr.Dropoff.Format(timestamp))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("seed trip: %w", err)
		}
	}
	return nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// SQLiteFile writes a seeded sqlite database under t.TempDir and returns its path.
func SQLiteFile(t *testing.T, trips []Trip) string {
	t.Helper()
	return seedFile(t, "sqlite3", "trips.db", trips)
}

// DuckDBFile writes a seeded duckdb database under t.TempDir and returns its path.
func DuckDBFile(t *testing.T, trips []Trip) string {
	t.Helper()
	return seedFile(t, "duckdb", "trips.duckdb", trips)
}

func seedFile(t *testing.T, driver, name string, trips []Trip) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	db, err := sql.Open(driver, path)
	require.NoError(t, err)
	require.NoError(t, Seed(context.Background(), db, trips))
	require.NoError(t, db.Close())
	return path
}
