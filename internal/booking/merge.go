// internal/booking/merge.go
package booking

import (
	"sort"

	"github.com/hostfolio/hostfolio/internal/models"
)

// Merge folds settled fetch results into one canonical booking collection.
// Bookings are keyed by ID; when the same ID arrives from two overlapping
// windows (calendar padding across month boundaries) the entry with the
// newest UpdatedAt wins. Day totals merge by date, summing across
// properties. The returned bookings are ordered by (check-in, ID), which
// makes Merge insensitive to input order and idempotent. The failed count is
// the number of (property, window) pairs that did not settle successfully.
func Merge(results []Result) (bookings []models.Booking, dayTotals map[string]models.DayTotal, failed int) {
	byID := make(map[string]models.Booking)
	dayTotals = make(map[string]models.DayTotal)

	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		for _, b := range r.Feed.Bookings {
			if b.ID == "" {
				continue
			}
			existing, ok := byID[b.ID]
			if !ok || b.UpdatedAt.After(existing.UpdatedAt) {
				byID[b.ID] = b
			}
		}
		for _, dt := range r.Feed.DayTotals {
			merged := dayTotals[dt.Date]
			merged.Date = dt.Date
			merged.Bookings += dt.Bookings
			merged.Guests += dt.Guests
			merged.Revenue += dt.Revenue
			dayTotals[dt.Date] = merged
		}
	}

	bookings = make([]models.Booking, 0, len(byID))
	for _, b := range byID {
		bookings = append(bookings, b)
	}
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].CheckIn.Equal(bookings[j].CheckIn) {
			return bookings[i].CheckIn.Before(bookings[j].CheckIn)
		}
		return bookings[i].ID < bookings[j].ID
	})
	return bookings, dayTotals, failed
}
