//go:build integration

package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/UnknownOlympus/glimpse/internal/metrics"
	"github.com/UnknownOlympus/glimpse/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestKVRepository_Postgres(t *testing.T) {
	ctx := context.Background()

	schema, err := os.ReadFile(filepath.Join("..", "..", "migrations", "00001_create_kv_entries.sql"))
	require.NoError(t, err)

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("glimpse"),
		postgres.WithUsername("glimpse"),
		postgres.WithPassword("glimpse"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	up, _, _ := strings.Cut(string(schema), "-- +goose Down")
	_, err = pool.Exec(ctx, up)
	require.NoError(t, err)

	exerciseKV(t, repository.NewKVRepository(pool, metrics.NewMetrics(prometheus.NewRegistry())))
}
