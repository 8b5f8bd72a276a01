// Package testutil provides test helpers shared across packages.
package testutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:16-alpine"

// TestDB returns a pool on an empty database and a cleanup function.
// TEST_DATABASE_URL points at an existing server; otherwise a container is
// started when RUN_INTEGRATION_TESTS is set, and the test is skipped if
// neither is present.
func TestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	ctx := context.Background()
	connString := os.Getenv("TEST_DATABASE_URL")
	terminate := func() {}

	if connString == "" {
		if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
			t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
		}
		connString, terminate = startPostgres(t)
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		terminate()
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		terminate()
		t.Fatalf("failed to ping test database: %v", err)
	}

	dropTables(ctx, pool)

	return pool, func() {
		dropTables(ctx, pool)
		pool.Close()
		terminate()
	}
}

func dropTables(ctx context.Context, pool *pgxpool.Pool) {
	pool.Exec(ctx, "DROP TABLE IF EXISTS brandData, brandCategories, trendData")
}

func startPostgres(t *testing.T) (string, func()) {
	t.Helper()

	// suppress logging
	logger := log.New()
	logger.SetOutput(io.Discard)
	testcontainers.Logger = logger

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "harvester",
				"POSTGRES_PASSWORD": "harvester",
				"POSTGRES_DB":       "harvester_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	connString := fmt.Sprintf("postgres://harvester:harvester@%s:%s/harvester_test?sslmode=disable", host, port.Port())

	return connString, func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate postgres container: %v", err)
		}
	}
}
