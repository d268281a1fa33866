// internal/source/source.go

// Package source defines the collaborator interfaces the aggregation engine
// reads bookings through, and the upstream HTTP client implementing them.
package source

import (
	"context"
	"errors"

	"github.com/hostfolio/hostfolio/internal/models"
)

// ErrUnauthenticated marks errors returned when the upstream rejects the
// configured credentials. Fatal: the whole pipeline aborts on it.
var ErrUnauthenticated = errors.New("upstream rejected credentials")

// ErrInvalidPayload marks errors returned when the upstream rejects a
// mutation payload. The local cache is left untouched.
var ErrInvalidPayload = errors.New("upstream rejected payload")

// Feed is one (property, window) fetch result: the bookings plus optional
// source-computed per-day totals.
type Feed struct {
	Bookings  []models.Booking
	DayTotals []models.DayTotal
}

// Source reads properties and per-window booking feeds. Implementations must
// be safe for concurrent use; the fetch orchestrator calls Bookings from many
// goroutines at once.
type Source interface {
	Properties(ctx context.Context) ([]models.Property, error)
	Bookings(ctx context.Context, propertyID string, w Window) (Feed, error)
}

// Mutator applies booking mutations at the system of record. Validation of
// payloads and status transitions happens there, not in the engine.
type Mutator interface {
	CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error)
	UpdateBooking(ctx context.Context, b models.Booking) (models.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}
