// internal/booking/summary.go
package booking

import (
	"time"

	"github.com/hostfolio/hostfolio/internal/models"
)

// Summarize rolls a (filtered) booking collection up into dashboard
// statistics: total count, per-status counts with unrecognized statuses
// bucketed under Other, revenue and commission sums, and the number of
// arrivals whose check-in date equals today. Pure: the input is never
// mutated. FailedSources/TotalSources are the store's concern and left zero
// here.
func Summarize(bookings []models.Booking, now time.Time) models.Summary {
	s := models.Summary{Total: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusConfirmed:
			s.Confirmed++
		case models.StatusCompleted:
			s.Completed++
		case models.StatusCancelled:
			s.Cancelled++
		default:
			s.Other++
		}
		s.Revenue += b.Revenue()
		s.Commission += b.CommissionValue()
		if models.SameDay(b.CheckIn.In(now.Location()), now) {
			s.ArrivingToday++
		}
	}
	return s
}
