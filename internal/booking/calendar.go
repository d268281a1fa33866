// internal/booking/calendar.go
package booking

import (
	"time"

	"github.com/hostfolio/hostfolio/internal/models"
)

const dateLayout = "2006-01-02"

// Day is one calendar cell: a date, the bookings checking in on it, and the
// per-day rollups.
type Day struct {
	Date       time.Time        `json:"date"`
	Bookings   []models.Booking `json:"bookings"`
	GuestCount int              `json:"guestCount"`
	Revenue    float64          `json:"revenue"`
	Today      bool             `json:"today"`
	InMonth    bool             `json:"inMonth"`
}

// Grid is a month view: whole Sunday-to-Saturday weeks covering the month,
// padded with leading and trailing days from the neighbouring months.
type Grid struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Weeks [][]Day `json:"weeks"`
}

// GridRange returns the first and last date of the padded grid for a month:
// the Sunday on or before the 1st through the Saturday on or after the last
// day. Callers fetch every window this span touches, so padding days carry
// real bookings too.
func GridRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))
	return start, end
}

// Project builds the month grid. Bookings land in the cell whose date equals
// their check-in date. Cell rollups sum guests and revenue (rate times
// guests for per-person pricing); when the sources supplied an authoritative
// DayTotal for a date it overrides the local recomputation. Padding cells
// are fully populated and only flagged with InMonth=false.
func Project(bookings []models.Booking, dayTotals map[string]models.DayTotal, year int, month time.Month, now time.Time) Grid {
	loc := now.Location()
	start, end := GridRange(year, month, loc)

	byDate := make(map[string][]models.Booking)
	for _, b := range bookings {
		key := b.CheckIn.In(loc).Format(dateLayout)
		byDate[key] = append(byDate[key], b)
	}

	grid := Grid{Year: year, Month: int(month)}
	var week []Day
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		key := date.Format(dateLayout)
		day := Day{
			Date:     date,
			Bookings: byDate[key],
			Today:    models.SameDay(date, now),
			InMonth:  date.Month() == month && date.Year() == year,
		}
		if dt, ok := dayTotals[key]; ok {
			day.GuestCount = dt.Guests
			day.Revenue = dt.Revenue
		} else {
			for _, b := range day.Bookings {
				day.GuestCount += b.Guests
				day.Revenue += b.Revenue()
			}
		}
		week = append(week, day)
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = nil
		}
	}
	return grid
}
