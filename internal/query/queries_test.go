package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dialects = []string{"redshift", "postgres", "sqlite", "duckdb"}

func TestIDs(t *testing.T) {
	assert.Equal(t, []string{
		AvgDistance, CashRides, NonCashRides, TipsByDayMonth, TipsByDayOfYear, TopVendors, WeekendDuration,
	}, IDs())
}

func TestEveryDefinitionCoversEveryDialect(t *testing.T) {
	for _, id := range IDs() {
		d, err := Lookup(id)
		require.NoError(t, err)
		assert.Equal(t, id, d.ID)
		require.NotEmpty(t, d.Columns, id)

		for _, dialect := range dialects {
			sql, err := d.SQL(dialect)
			require.NoError(t, err, "%s/%s", id, dialect)
			assert.True(t, strings.HasPrefix(sql, "SELECT "), "%s/%s is a read-only select", id, dialect)
			for _, c := range d.Columns {
				assert.Regexp(t, `(?i)AS "?`+c+`"?\b`, sql, "%s/%s aliases %s", id, dialect, c)
			}
		}
	}
}

func TestColumnsAreLowercase(t *testing.T) {
	for _, id := range IDs() {
		d, _ := Lookup(id)
		for _, c := range d.Columns {
			assert.Equal(t, strings.ToLower(c), c, "%s column %s", id, c)
		}
	}
}

func TestGroupedQueriesAreOrdered(t *testing.T) {
	for _, id := range IDs() {
		d, _ := Lookup(id)
		for _, dialect := range dialects {
			sql, _ := d.SQL(dialect)
			if strings.Contains(sql, "GROUP BY") {
				assert.Contains(t, sql, "ORDER BY", "%s/%s", id, dialect)
			}
		}
	}
}

func TestMonthlyPayments(t *testing.T) {
	cash, err := Lookup(CashRides)
	require.NoError(t, err)
	assert.Equal(t, []string{"cash_only", "month", "year"}, cash.Columns)
	sql, _ := cash.SQL("sqlite")
	assert.Contains(t, sql, "payment_lookup = 'Cash'")

	nonCash, err := Lookup(NonCashRides)
	require.NoError(t, err)
	assert.Equal(t, []string{"not_cash", "month", "year"}, nonCash.Columns)
	sql, _ = nonCash.SQL("postgres")
	assert.Contains(t, sql, "payment_lookup <> 'Cash'")
	assert.Contains(t, sql, "EXTRACT(MONTH FROM pickup_datetime)::int AS month")
}

func TestLookupErrors(t *testing.T) {
	_, err := Lookup("question9")
	assert.Error(t, err)

	d, err := Lookup(AvgDistance)
	require.NoError(t, err)
	_, err = d.SQL("oracle")
	assert.Error(t, err)
}
