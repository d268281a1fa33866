// internal/models/query.go
package models

import (
	"strings"
	"time"
)

// Criteria narrows a booking collection. All set fields AND together; zero
// values mean "no restriction".
type Criteria struct {
	Search     string     `json:"search,omitempty"`
	PropertyID string     `json:"propertyId,omitempty"`
	Status     string     `json:"status,omitempty"`
	Type       string     `json:"type,omitempty"`
	From       *time.Time `json:"from,omitempty"` // inclusive, on check-in date
	To         *time.Time `json:"to,omitempty"`   // inclusive, on check-in date
}

// Equal reports whether two criteria describe the same restriction. Used to
// decide when a page cursor must reset.
func (c Criteria) Equal(other Criteria) bool {
	if !strings.EqualFold(strings.TrimSpace(c.Search), strings.TrimSpace(other.Search)) {
		return false
	}
	if c.PropertyID != other.PropertyID || c.Status != other.Status || c.Type != other.Type {
		return false
	}
	if !timePtrEqual(c.From, other.From) || !timePtrEqual(c.To, other.To) {
		return false
	}
	return true
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Sortable booking fields.
const (
	SortByCheckIn  = "check_in"
	SortByCheckOut = "check_out"
	SortByProperty = "property"
	SortByGuest    = "guest"
	SortByGuests   = "guests"
	SortByRate     = "rate"
	SortByStatus   = "status"
	SortByCreated  = "created_at"
	SortByUpdated  = "updated_at"
)

// Sort names a field and a direction.
type Sort struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// Page is one slice of a filtered, sorted booking list.
type Page struct {
	Items      []Booking `json:"items"`
	PageNumber int       `json:"pageNumber"`
	PageSize   int       `json:"pageSize"`
	TotalItems int       `json:"totalItems"`
	TotalPages int       `json:"totalPages"`
}

// Summary is the dashboard rollup over a (filtered) booking collection.
type Summary struct {
	Total         int     `json:"total"`
	Pending       int     `json:"pending"`
	Confirmed     int     `json:"confirmed"`
	Completed     int     `json:"completed"`
	Cancelled     int     `json:"cancelled"`
	Other         int     `json:"other"`
	Revenue       float64 `json:"revenue"`
	Commission    float64 `json:"commission"`
	ArrivingToday int     `json:"arrivingToday"`
	FailedSources int     `json:"failedSources"`
	TotalSources  int     `json:"totalSources"`
}
