package db

import (
	"testing"

	"github.com/rowanmaple/cropdoc/internal/models"
)

func TestOpenSQLiteBootstrapsSchema(t *testing.T) {
	database := newTestDatabase(t)

	embedded, err := loadEmbeddedMigrations()
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	if len(embedded) == 0 {
		t.Fatal("expected at least one embedded migration")
	}

	applied, err := loadAppliedMigrationVersions(database)
	if err != nil {
		t.Fatalf("load applied versions: %v", err)
	}
	for _, migration := range embedded {
		if _, ok := applied[migration.Version]; !ok {
			t.Fatalf("migration %s was not recorded as applied", migration.Name)
		}
	}

	for _, table := range []string{"users", "crop_logs", "diagnoses"} {
		var count int64
		if err := database.Table(table).Count(&count).Error; err != nil {
			t.Fatalf("expected table %s to exist: %v", table, err)
		}
	}

	// Re-running against an already migrated database is a no-op.
	if err := applyEmbeddedMigrations(database); err != nil {
		t.Fatalf("reapply migrations: %v", err)
	}
}

func TestUserEmailUniqueConstraint(t *testing.T) {
	database := newTestDatabase(t)

	first := models.User{Email: "farmer@example.com", PasswordHash: "hash-1"}
	if err := database.Create(&first).Error; err != nil {
		t.Fatalf("create first user: %v", err)
	}

	second := models.User{Email: "farmer@example.com", PasswordHash: "hash-2"}
	if err := database.Create(&second).Error; err == nil {
		t.Fatal("expected duplicate email insert to fail")
	}
}

func TestSplitSQLStatements(t *testing.T) {
	statements := splitSQLStatements("CREATE TABLE a (id INTEGER);\n\nCREATE INDEX idx_a ON a(id);  ;")
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(statements), statements)
	}
	if statements[0] != "CREATE TABLE a (id INTEGER)" {
		t.Fatalf("unexpected first statement: %q", statements[0])
	}
}
