// Package query holds the report's fixed SQL, one Definition per analytical
// query, with dialect-specific text and the column names each must return.
package query

import (
	"fmt"
	"sort"
)

// Query identifiers.
const (
	AvgDistance     = "avg_distance"
	TopVendors      = "top_vendors"
	CashRides       = "cash_rides"
	NonCashRides    = "non_cash_rides"
	TipsByDayOfYear = "tips_by_day_of_year"
	TipsByDayMonth  = "tips_by_day_month"
	WeekendDuration = "weekend_duration"
)

// Definition is a static, parameterless query.
type Definition struct {
	ID      string
	Columns []string          // schema contract: exact names in order
	Text    map[string]string // dialect -> SQL
}

// SQL returns the query text for a dialect.
func (d Definition) SQL(dialect string) (string, error) {
	s, ok := d.Text[dialect]
	if !ok {
		return "", fmt.Errorf("query %s: no SQL for dialect %q", d.ID, dialect)
	}
	return s, nil
}

// Lookup returns the definition with the given id.
func Lookup(id string) (Definition, error) {
	d, ok := definitions[id]
	if !ok {
		return Definition{}, fmt.Errorf("unknown query %q", id)
	}
	return d, nil
}

// IDs lists every query id, sorted.
func IDs() []string {
	ids := make([]string, 0, len(definitions))
	for id := range definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Tipped rides are counted for the last quarter of this year.
const TipsYear = 2012

var definitions = map[string]Definition{
	AvgDistance: {
		ID:      AvgDistance,
		Columns: []string{"avg_trip_distance"},
		Text: map[string]string{
			"redshift": `SELECT AVG(trip_distance)::float8 AS avg_trip_distance FROM trips
WHERE passenger_count <= 2`,
			"postgres": `SELECT AVG(trip_distance)::double precision AS avg_trip_distance FROM trips
WHERE passenger_count <= 2`,
			"sqlite": `SELECT AVG(trip_distance) AS avg_trip_distance FROM trips
WHERE passenger_count <= 2`,
			"duckdb": `SELECT AVG(trip_distance) AS avg_trip_distance FROM trips
WHERE passenger_count <= 2`,
		},
	},

	TopVendors: {
		ID:      TopVendors,
		Columns: []string{"vendor", "total"},
		Text: map[string]string{
			"redshift": `SELECT vendors.name AS vendor, SUM(total_amount)::float8 AS total FROM trips
JOIN vendors ON trips.vendor_id = vendors.vendor_id
GROUP BY vendors.name
ORDER BY total DESC, vendor
LIMIT 3`,
			"postgres": `SELECT vendors.name AS vendor, SUM(total_amount)::double precision AS total FROM trips
JOIN vendors ON trips.vendor_id = vendors.vendor_id
GROUP BY vendors.name
ORDER BY total DESC, vendor
LIMIT 3`,
			"sqlite": `SELECT vendors.name AS vendor, SUM(total_amount) AS total FROM trips
JOIN vendors ON trips.vendor_id = vendors.vendor_id
GROUP BY vendors.name
ORDER BY total DESC, vendor
LIMIT 3`,
			"duckdb": `SELECT vendors.name AS vendor, SUM(total_amount) AS total FROM trips
JOIN vendors ON trips.vendor_id = vendors.vendor_id
GROUP BY vendors.name
ORDER BY total DESC, vendor
LIMIT 3`,
		},
	},

	CashRides:    monthlyPayments(CashRides, "cash_only", "="),
	NonCashRides: monthlyPayments(NonCashRides, "not_cash", "<>"),

	TipsByDayOfYear: {
		ID:      TipsByDayOfYear,
		Columns: []string{"tips", "date"},
		Text: map[string]string{
			"redshift": `SELECT COUNT(*) AS tips, DATEPART(dayofyear, pickup_datetime)::int AS "date" FROM trips
WHERE tip_amount > 0
AND DATEPART(year, pickup_datetime) = 2012 AND DATEPART(month, pickup_datetime) BETWEEN 10 AND 12
GROUP BY 2
ORDER BY 2`,
			"postgres": `SELECT COUNT(*) AS tips, EXTRACT(DOY FROM pickup_datetime)::int AS "date" FROM trips
WHERE tip_amount > 0
AND EXTRACT(YEAR FROM pickup_datetime) = 2012 AND EXTRACT(MONTH FROM pickup_datetime) BETWEEN 10 AND 12
GROUP BY 2
ORDER BY 2`,
			"sqlite": `SELECT COUNT(*) AS tips, CAST(strftime('%j', pickup_datetime) AS INTEGER) AS "date" FROM trips
WHERE tip_amount > 0
AND CAST(strftime('%Y', pickup_datetime) AS INTEGER) = 2012
AND CAST(strftime('%m', pickup_datetime) AS INTEGER) BETWEEN 10 AND 12
GROUP BY 2
ORDER BY 2`,
			"duckdb": `SELECT COUNT(*) AS tips, dayofyear(pickup_datetime) AS "date" FROM trips
WHERE tip_amount > 0
AND year(pickup_datetime) = 2012 AND month(pickup_datetime) BETWEEN 10 AND 12
GROUP BY 2
ORDER BY 2`,
		},
	},

	TipsByDayMonth: {
		ID:      TipsByDayMonth,
		Columns: []string{"tips", "day", "month"},
		Text: map[string]string{
			"redshift": `SELECT COUNT(*) AS tips, DATEPART(day, pickup_datetime)::int AS day, DATEPART(month, pickup_datetime)::int AS month FROM trips
WHERE tip_amount > 0
AND DATEPART(year, pickup_datetime) = 2012 AND DATEPART(month, pickup_datetime) BETWEEN 10 AND 12
GROUP BY 2, 3
ORDER BY 3, 2`,
			"postgres": `SELECT COUNT(*) AS tips, EXTRACT(DAY FROM pickup_datetime)::int AS day, EXTRACT(MONTH FROM pickup_datetime)::int AS month FROM trips
WHERE tip_amount > 0
AND EXTRACT(YEAR FROM pickup_datetime) = 2012 AND EXTRACT(MONTH FROM pickup_datetime) BETWEEN 10 AND 12
GROUP BY 2, 3
ORDER BY 3, 2`,
			"sqlite": `SELECT COUNT(*) AS tips, CAST(strftime('%d', pickup_datetime) AS INTEGER) AS day, CAST(strftime('%m', pickup_datetime) AS INTEGER) AS month FROM trips
WHERE tip_amount > 0
AND CAST(strftime('%Y', pickup_datetime) AS INTEGER) = 2012
AND CAST(strftime('%m', pickup_datetime) AS INTEGER) BETWEEN 10 AND 12
GROUP BY 2, 3
ORDER BY 3, 2`,
			"duckdb": `SELECT COUNT(*) AS tips, day(pickup_datetime) AS day, month(pickup_datetime) AS month FROM trips
WHERE tip_amount > 0
AND year(pickup_datetime) = 2012 AND month(pickup_datetime) BETWEEN 10 AND 12
GROUP BY 2, 3
ORDER BY 3, 2`,
		},
	},

	// Weekend: Saturday (6) and Sunday (0).
	WeekendDuration: {
		ID:      WeekendDuration,
		Columns: []string{"average_sec"},
		Text: map[string]string{
			"redshift": `SELECT AVG(DATEDIFF(second, pickup_datetime, dropoff_datetime))::float8 AS average_sec FROM trips
WHERE DATE_PART(dow, pickup_datetime) IN (6, 0)`,
			"postgres": `SELECT AVG(EXTRACT(EPOCH FROM dropoff_datetime - pickup_datetime))::double precision AS average_sec FROM trips
WHERE EXTRACT(DOW FROM pickup_datetime) IN (6, 0)`,
			"sqlite": `SELECT AVG(CAST(strftime('%s', dropoff_datetime) AS INTEGER) - CAST(strftime('%s', pickup_datetime) AS INTEGER)) AS average_sec FROM trips
WHERE CAST(strftime('%w', pickup_datetime) AS INTEGER) IN (6, 0)`,
			"duckdb": `SELECT AVG(date_diff('second', pickup_datetime, dropoff_datetime)) AS average_sec FROM trips
WHERE dayofweek(pickup_datetime) IN (6, 0)`,
		},
	},
}

// monthlyPayments counts rides per (month, year) whose payment type does or
// does not resolve to 'Cash'.
func monthlyPayments(id, alias, op string) Definition {
	const tmpl = `SELECT COUNT(*) AS %[1]s, %[3]s AS month, %[4]s AS year FROM trips
JOIN payment ON payment.payment_type = trips.payment_type
WHERE payment_lookup %[2]s 'Cash'
GROUP BY 2, 3
ORDER BY 3, 2`
	build := func(month, year string) string {
		return fmt.Sprintf(tmpl, alias, op, month, year)
	}
	return Definition{
		ID:      id,
		Columns: []string{alias, "month", "year"},
		Text: map[string]string{
			"redshift": build("DATEPART(month, pickup_datetime)::int", "DATEPART(year, pickup_datetime)::int"),
			"postgres": build("EXTRACT(MONTH FROM pickup_datetime)::int", "EXTRACT(YEAR FROM pickup_datetime)::int"),
			"sqlite":   build("CAST(strftime('%m', pickup_datetime) AS INTEGER)", "CAST(strftime('%Y', pickup_datetime) AS INTEGER)"),
			"duckdb":   build("month(pickup_datetime)", "year(pickup_datetime)"),
		},
	}
}
