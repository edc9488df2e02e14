package migration

import (
	"testing"

	"github.com/gatherkit/gatherkit/pkg/db"
)

func TestRunMigrationsSqlite(t *testing.T) {
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to unwrap db: %v", err)
	}
	// A pooled in-memory sqlite handle opens a fresh database per
	// connection; pin it to one.
	sqlDB.SetMaxOpenConns(1)

	if err := RunMigrations(sqlDB, "sqlite"); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	var count int64
	if err := conn.Raw("SELECT COUNT(*) FROM organization_invites").Scan(&count).Error; err != nil {
		t.Fatalf("schema missing after migration: %v", err)
	}

	// Re-running is a no-op, not an error.
	if err := RunMigrations(sqlDB, "sqlite"); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
}

func TestRunMigrationsRejectsUnknownType(t *testing.T) {
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to unwrap db: %v", err)
	}

	if err := RunMigrations(sqlDB, "mysql"); err == nil {
		t.Fatal("expected an error for an unsupported database type")
	}
}
