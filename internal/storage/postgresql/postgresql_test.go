package postgresql

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"fotoblog/internal/lib/logger/handlers/slogdiscard"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()

	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run PostgreSQL tests")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "fotoblog",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://test:test@%s:%s/fotoblog?sslmode=disable", host, port.Port())
}

func TestStorage(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()
	log := slogdiscard.NewDiscardLogger()

	storage, err := New(ctx, dsn, log)
	require.NoError(t, err)
	defer storage.Stop()

	require.NoError(t, storage.HealthCheck(ctx))

	t.Run("schema is migrated", func(t *testing.T) {
		var tables int
		err := storage.Pool().QueryRow(ctx,
			`SELECT count(*) FROM information_schema.tables WHERE table_name IN ('post', 'foto')`,
		).Scan(&tables)
		require.NoError(t, err)
		require.Equal(t, 2, tables)
	})

	t.Run("repeated migrate is a no-op", func(t *testing.T) {
		require.NoError(t, Migrate(ctx, dsn, "up", log))
		require.NoError(t, Migrate(ctx, dsn, "status", log))
	})

	t.Run("unknown command", func(t *testing.T) {
		require.Error(t, Migrate(ctx, dsn, "sideways", log))
	})
}
