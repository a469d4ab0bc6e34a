package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// One container serves the whole package; tests truncate between runs.
var (
	sharedOnce      sync.Once
	sharedPool      *Pool
	sharedContainer *tcpostgres.PostgresContainer
	sharedErr       error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if sharedPool != nil {
		sharedPool.Close()
	}
	if sharedContainer != nil {
		if err := sharedContainer.Terminate(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "terminate postgres container: %v\n", err)
		}
	}
	os.Exit(code)
}

// setupTestDB returns a pool on the shared, migrated container. The returned
// cleanup empties every table.
func setupTestDB(t *testing.T) (*Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	sharedOnce.Do(func() {
		sharedPool, sharedContainer, sharedErr = startPostgres(ctx)
	})
	require.NoError(t, sharedErr, "failed to start postgres")

	cleanup := func() {
		_, err := sharedPool.Exec(ctx, `TRUNCATE tokens, pools, enumeration_runs`)
		if err != nil {
			t.Logf("truncate tables: %v", err)
		}
	}
	return sharedPool, cleanup
}

func startPostgres(ctx context.Context) (*Pool, *tcpostgres.PostgresContainer, error) {
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("pathfinder"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("start container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, container, fmt.Errorf("connection string: %w", err)
	}

	pool, err := NewPool(ctx, dsn)
	if err != nil {
		return nil, container, err
	}
	if err := applyMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, container, err
	}
	return pool, container, nil
}

// applyMigrations executes the postgres migration files from disk; the
// migrations package itself imports this one.
func applyMigrations(ctx context.Context, pool *Pool) error {
	root, err := findProjectRoot()
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(root, "internal", "storage", "migrations", "postgres", "*.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		sql, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", filepath.Base(file), err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", filepath.Base(file), err)
		}
	}
	return nil
}

// findProjectRoot walks up from the working directory to go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root (go.mod)")
		}
		dir = parent
	}
}
