package test

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"eventsapp/internal/adapter/database/sqlite"
)

// findProjectRoot finds the project root directory by looking for go.mod
func findProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

// InitTestDB opens a migrated throwaway sqlite database for one test. The
// file lives in t.TempDir, so isolation and cleanup come for free.
func InitTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrationsPath := filepath.Join(findProjectRoot(), "db", "migrations", "sqlite")

	db, err := sqlite.NewDB(dbPath, migrationsPath)

	if err != nil {
		t.Fatalf("Failed to init test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
