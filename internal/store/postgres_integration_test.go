//go:build integration

package store

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"taxi-report/internal/config"
	"taxi-report/internal/query"
	"taxi-report/internal/testutil"
)

const postgresImage = "postgres:16-alpine"

func skipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// startPostgres runs a throwaway postgres and returns its descriptor.
func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	skipIfNoDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "analyst",
				"POSTGRES_PASSWORD": "s3cret",
				"POSTGRES_DB":       "taxi",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return config.DatabaseConfig{
		Dialect:        config.DialectPostgres,
		Host:           host,
		Port:           port.Port(),
		User:           "analyst",
		Password:       "s3cret",
		Name:           "taxi",
		SSLMode:        "disable",
		ConnectTimeout: 10 * time.Second,
	}
}

func TestQueriesAgainstPostgres(t *testing.T) {
	cfg := startPostgres(t)
	ctx := context.Background()

	db, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, testutil.Seed(ctx, db, testutil.Trips()))

	for _, id := range query.IDs() {
		def, err := query.Lookup(id)
		require.NoError(t, err)
		sql, err := def.SQL(config.DialectPostgres)
		require.NoError(t, err)

		got, err := Query(ctx, db, id, sql)
		require.NoError(t, err, id)
		assert.Equal(t, def.Columns, got.Columns, id)
		assert.Equal(t, expected[id], got.Rows, id)
	}
}
