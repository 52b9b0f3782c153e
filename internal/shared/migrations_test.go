package shared

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations(t *testing.T) {
	t.Run("Creates Schema", func(t *testing.T) {
		db := openTestDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := db.Exec(`INSERT INTO sessions (id, access_token, refresh_token, expires_at, created_at, updated_at) VALUES ('s1', 'a', 'r', 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`); err != nil {
			t.Errorf("sessions table should exist: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("schema_migrations table should exist: %v", err)
		}
		if count == 0 {
			t.Error("expected at least one applied migration")
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		db := openTestDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("second run should be a no-op: %v", err)
		}
	})
}

func TestRollbackMigration(t *testing.T) {
	t.Run("Reverts Latest", func(t *testing.T) {
		db := openTestDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := RollbackMigration(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := db.Exec(`INSERT INTO sessions (id, access_token, refresh_token, expires_at, created_at, updated_at) VALUES ('s1', 'a', 'r', 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`); err == nil {
			t.Error("sessions table should be dropped after rollback")
		}
	})

	t.Run("Nothing To Rollback", func(t *testing.T) {
		db := openTestDB(t)

		if _, err := db.Exec(`CREATE TABLE schema_migrations (version INTEGER PRIMARY KEY, applied_at TIMESTAMP)`); err != nil {
			t.Fatalf("failed to create table: %v", err)
		}
		if err := RollbackMigration(db); err == nil {
			t.Error("expected error with no applied migrations")
		}
	})
}

func TestStripComments(t *testing.T) {
	in := "CREATE TABLE t ( -- trailing comment\n\tid TEXT -- another\n)"
	got := stripComments(in)
	want := "CREATE TABLE t (\nid TEXT\n)"
	if got != want {
		t.Errorf("stripComments = %q, want %q", got, want)
	}
}
