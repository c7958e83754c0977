package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRoundTrip(t *testing.T) {
	orig := New("question2", "vendor", "total", "rides", "note")
	orig.Rows = [][]interface{}{
		{"Alpha Cabs", 100.0, int64(2), "quoted, with comma"},
		{"Beta Taxi", 50.5, int64(2), nil},
	}

	var buf bytes.Buffer
	require.NoError(t, orig.WriteCSV(&buf))
	assert.Equal(t,
		"vendor,total,rides,note\nAlpha Cabs,100.0,2,\"quoted, with comma\"\nBeta Taxi,50.5,2,\n",
		buf.String())

	got, err := ReadCSV("question2", &buf)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestCSVRoundTripEmpty(t *testing.T) {
	orig := New("question4a", "tips", "date")

	var buf bytes.Buffer
	require.NoError(t, orig.WriteCSV(&buf))
	assert.Equal(t, "tips,date\n", buf.String())

	got, err := ReadCSV("question4a", &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"tips", "date"}, got.Columns)
	assert.Equal(t, 0, got.Len())
}

func TestCSVRoundTripSingleNullColumn(t *testing.T) {
	tests := []struct {
		name string
		rows [][]interface{}
		csv  string
	}{
		{"only null", [][]interface{}{{nil}}, "avg_trip_distance\n\"\"\n"},
		{"null after value", [][]interface{}{{4.0}, {nil}}, "avg_trip_distance\n4.0\n\"\"\n"},
		{"null before value", [][]interface{}{{nil}, {int64(3)}}, "avg_trip_distance\n\"\"\n3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := New("question1", "avg_trip_distance")
			orig.Rows = tt.rows

			var buf bytes.Buffer
			require.NoError(t, orig.WriteCSV(&buf))
			assert.Equal(t, tt.csv, buf.String())

			got, err := ReadCSV("question1", &buf)
			require.NoError(t, err)
			assert.Equal(t, orig, got)
		})
	}
}

func TestCSVRoundTripJoined(t *testing.T) {
	joined, err := Join("question3", cashRides(), nonCashRides(), JoinOptions{On: []string{"month", "year"}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "question3.csv")
	require.NoError(t, joined.SaveCSV(path))

	got, err := LoadCSV("question3", path)
	require.NoError(t, err)
	assert.Equal(t, joined.Columns, got.Columns)
	assert.Equal(t, joined.Rows, got.Rows)
}

func TestSaveCSVOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "question1.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer\n1,2,3\n"), 0o644))

	tbl := New("question1", "avg_trip_distance")
	require.NoError(t, tbl.Append(4.0))
	require.NoError(t, tbl.SaveCSV(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "avg_trip_distance\n4.0\n", string(data))
}

func TestSaveCSVMissingDir(t *testing.T) {
	err := New("q", "a").SaveCSV(filepath.Join(t.TempDir(), "missing", "q.csv"))
	assert.Error(t, err)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV("empty", strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV("ragged", strings.NewReader("a,b\n1,2\n3\n"))
	assert.Error(t, err)

	_, err = LoadCSV("missing", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
