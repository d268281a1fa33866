// internal/models/booking.go
package models

import (
	"math"
	"time"
)

// Booking statuses as delivered by upstream feeds. The engine treats status
// as opaque categorical data: unknown values are preserved and only bucket
// into "other" when counted.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Rate modes. Per-person rates multiply by the guest count, per-stay rates
// apply once per booking.
const (
	RatePerStay   = "per_stay"
	RatePerPerson = "per_person"
)

// Property is an owned resource (vacation property or tour) that bookings
// attach to. Loaded once per session from the registry; read-only after that.
type Property struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Role       string            `json:"role"` // "owner", "manager", ...
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Booking is one canonical booking or schedule entry.
type Booking struct {
	ID           string    `json:"id"`
	PropertyID   string    `json:"propertyId"`
	PropertyName string    `json:"propertyName"`
	GuestName    string    `json:"guestName"`
	Type         string    `json:"type"` // "reservation", "block", ...
	CheckIn      time.Time `json:"checkIn"`
	CheckOut     time.Time `json:"checkOut"`
	Guests       int       `json:"guests"`
	Rate         float64   `json:"rate"`
	RateMode     string    `json:"rateMode"`
	Commission   float64   `json:"commission,omitempty"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Revenue returns the booking's revenue contribution: rate times guests for
// per-person pricing, the flat rate otherwise. Non-finite rates contribute 0
// so a single bad record never poisons an aggregate.
func (b Booking) Revenue() float64 {
	rate := b.Rate
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	if b.RateMode == RatePerPerson {
		return rate * float64(b.Guests)
	}
	return rate
}

// CommissionValue returns the commission with the same non-finite guard as
// Revenue.
func (b Booking) CommissionValue() float64 {
	if math.IsNaN(b.Commission) || math.IsInf(b.Commission, 0) {
		return 0
	}
	return b.Commission
}

// DayTotal is a source-computed per-day rollup. When present it is
// authoritative and preferred over local recomputation.
type DayTotal struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	Bookings int     `json:"bookings"`
	Guests   int     `json:"guests"`
	Revenue  float64 `json:"revenue"`
}

// SameDay reports whether two instants fall on the same calendar date,
// compared in a's location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
