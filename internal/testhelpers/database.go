package testhelpers

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/horvbalint/recet/internal/database"
	"github.com/horvbalint/recet/internal/models"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// SetupSQLite returns a migrated in-memory SQLite database private to the test.
func SetupSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.RunMigrations(db.DB); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return db.DB
}

// SetupPostgres starts a PostgreSQL container with pg_trgm available and returns
// a migrated connection. The test is skipped when docker is not installed.
func SetupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	const (
		user     = "postgres"
		password = "postpass"
		dbName   = "recet"
	)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     user,
				"POSTGRES_PASSWORD": password,
				"POSTGRES_DB":       dbName,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start container: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, mappedPort.Port(), user, password, dbName)
	t.Logf("connecting to database at %s:%s", host, mappedPort.Port())

	db, err := database.Open(dsn)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.RunMigrations(db.DB); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db.DB
}

// SeedReferences inserts one row per name into table and returns the IDs keyed by name.
func SeedReferences(t *testing.T, db *gorm.DB, table string, household *uuid.UUID, names ...string) map[string]uuid.UUID {
	t.Helper()
	ids := make(map[string]uuid.UUID, len(names))
	for _, name := range names {
		row, err := models.NewReference(table, name, household)
		if err != nil {
			t.Fatalf("failed to build %s row: %v", table, err)
		}
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("failed to insert %s %q: %v", table, name, err)
		}
		ids[name] = row.Row().ID
	}
	return ids
}
