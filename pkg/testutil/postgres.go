package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:16-alpine"

// Postgres is a throwaway database for integration tests.
type Postgres struct {
	DSN  string
	Pool *pgxpool.Pool
}

// StartPostgres runs a PostgreSQL container for the lifetime of t. When
// migrate is non-nil it is applied to the fresh database before the pool
// is opened, so tests exercise the same migrations the service runs at
// startup.
func StartPostgres(t *testing.T, migrate func(dsn string) error) *Postgres {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("credit_risk_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if ctr != nil {
		t.Cleanup(func() { terminate(t, "postgres", ctr) })
	}
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}
	if migrate != nil {
		if err := migrate(dsn); err != nil {
			t.Fatalf("migrate test database: %v", err)
		}
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("ping postgres: %v", err)
	}

	return &Postgres{DSN: dsn, Pool: pool}
}

func terminate(t *testing.T, name string, ctr testcontainers.Container) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ctr.Terminate(ctx); err != nil {
		t.Logf("terminate %s container: %v", name, err)
	}
}
