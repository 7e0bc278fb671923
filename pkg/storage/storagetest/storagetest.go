// Package storagetest opens throwaway bootstrapped databases for tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/c14220110/clinic-appointments/pkg/storage"
	"github.com/c14220110/clinic-appointments/pkg/storage/sqlite"
)

// NewDB returns an in-memory SQLite database with the schema and the seed
// doctors in place. It is closed when the test ends.
func NewDB(t testing.TB) *storage.DB {
	t.Helper()
	raw, err := sqlite.Connect(":memory:")
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	t.Cleanup(func() { raw.Close() })

	db := storage.New(raw, storage.SQLite)
	if err := storage.Bootstrap(context.Background(), db); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return db
}
