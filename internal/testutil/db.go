package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hostfolio/hostfolio/internal/db"
	"github.com/hostfolio/hostfolio/internal/models"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// SeedProperty inserts a property for tests.
func SeedProperty(t *testing.T, database *db.DB, id, name string) models.Property {
	t.Helper()

	prop := models.Property{ID: id, Name: name, Role: "owner"}
	if err := database.CreateProperty(context.Background(), prop, 0); err != nil {
		t.Fatalf("seed property %s: %v", id, err)
	}
	return prop
}

// SeedBooking inserts a booking for tests and returns the stored record.
func SeedBooking(t *testing.T, database *db.DB, b models.Booking) models.Booking {
	t.Helper()

	created, err := database.CreateBooking(context.Background(), b)
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return created
}

// Date builds a UTC midnight timestamp; shorthand for test fixtures.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
