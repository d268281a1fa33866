// internal/source/wire.go
package source

import (
	"strings"
	"time"

	"github.com/hostfolio/hostfolio/internal/models"
)

// wireBooking is the loosely-shaped upstream record. Feeds disagree on field
// names (older endpoints say "count"/"totalSlots" for guests, "price" for the
// rate, "title" for the guest name), so every alias is decoded here and
// resolved into one canonical models.Booking in normalize. Nothing downstream
// of this file sees an alias.
type wireBooking struct {
	ID           string     `json:"id"`
	PropertyID   string     `json:"propertyId"`
	PropertyName string     `json:"propertyName"`
	GuestName    string     `json:"guestName"`
	Title        string     `json:"title"`
	Type         string     `json:"type"`
	CheckIn      time.Time  `json:"checkIn"`
	CheckOut     time.Time  `json:"checkOut"`
	Guests       *int       `json:"guests"`
	TotalSlots   *int       `json:"totalSlots"`
	Count        *int       `json:"count"`
	Rate         *float64   `json:"rate"`
	Amount       *float64   `json:"amount"`
	Price        *float64   `json:"price"`
	RateMode     string     `json:"rateMode"`
	Commission   float64    `json:"commission"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt"`
}

type wireFeed struct {
	Bookings  []wireBooking     `json:"bookings"`
	DayTotals []models.DayTotal `json:"dayTotals"`
}

// normalize maps a wire record onto the canonical booking shape. Reversed
// stay ranges are repaired by swapping; an absent rate mode means per-stay.
func (w wireBooking) normalize(fallbackProperty models.Property) models.Booking {
	b := models.Booking{
		ID:           w.ID,
		PropertyID:   w.PropertyID,
		PropertyName: w.PropertyName,
		GuestName:    firstNonEmpty(w.GuestName, w.Title),
		Type:         firstNonEmpty(w.Type, "reservation"),
		CheckIn:      w.CheckIn,
		CheckOut:     w.CheckOut,
		Guests:       firstInt(w.Guests, w.TotalSlots, w.Count),
		Rate:         firstFloat(w.Rate, w.Amount, w.Price),
		RateMode:     normalizeRateMode(w.RateMode),
		Commission:   w.Commission,
		Status:       strings.ToLower(strings.TrimSpace(w.Status)),
		Notes:        w.Notes,
		CreatedAt:    w.CreatedAt,
	}
	if b.PropertyID == "" {
		b.PropertyID = fallbackProperty.ID
	}
	if b.PropertyName == "" {
		b.PropertyName = fallbackProperty.Name
	}
	if w.UpdatedAt != nil {
		b.UpdatedAt = *w.UpdatedAt
	} else {
		b.UpdatedAt = w.CreatedAt
	}
	if b.CheckOut.Before(b.CheckIn) && !b.CheckOut.IsZero() {
		b.CheckIn, b.CheckOut = b.CheckOut, b.CheckIn
	}
	return b
}

func normalizeRateMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "per_person", "perperson", "per-person":
		return models.RatePerPerson
	default:
		return models.RatePerStay
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstInt(values ...*int) int {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

func firstFloat(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}
