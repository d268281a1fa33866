package booking

import (
	"math"
	"testing"
	"time"

	"github.com/hostfolio/hostfolio/internal/models"
)

func TestProjectGridShape(t *testing.T) {
	now := testDate(2024, time.March, 15)
	grid := Project(nil, nil, 2024, time.March, now)

	// March 2024: Fri Mar 1 .. Sun Mar 31 pads to Sun Feb 25 .. Sat Apr 6.
	if len(grid.Weeks) != 6 {
		t.Fatalf("weeks: %d", len(grid.Weeks))
	}
	for i, week := range grid.Weeks {
		if len(week) != 7 {
			t.Fatalf("week %d has %d days", i, len(week))
		}
	}
	first := grid.Weeks[0][0]
	if first.Date.Weekday() != time.Sunday {
		t.Fatalf("first cell weekday: %s", first.Date.Weekday())
	}
	if !first.Date.Equal(testDate(2024, time.February, 25)) {
		t.Fatalf("first cell: %v", first.Date)
	}
	last := grid.Weeks[5][6]
	if last.Date.Weekday() != time.Saturday || !last.Date.Equal(testDate(2024, time.April, 6)) {
		t.Fatalf("last cell: %v", last.Date)
	}
}

func TestProjectEveryMonthDateAppearsExactlyOnce(t *testing.T) {
	grid := Project(nil, nil, 2024, time.February, testDate(2024, time.February, 1))

	seen := make(map[int]int)
	for _, week := range grid.Weeks {
		for _, day := range week {
			if day.InMonth {
				seen[day.Date.Day()]++
			}
		}
	}
	// 2024 is a leap year.
	if len(seen) != 29 {
		t.Fatalf("distinct days: %d", len(seen))
	}
	for day, count := range seen {
		if count != 1 {
			t.Fatalf("day %d appears %d times", day, count)
		}
	}
}

func TestProjectCellAggregates(t *testing.T) {
	bookings := []models.Booking{
		stay("r1", "p1", testDate(2024, time.March, 5), 2, 100, models.RatePerPerson, models.StatusConfirmed),
		stay("r2", "p1", testDate(2024, time.March, 5), 3, 400, models.RatePerStay, models.StatusPending),
		stay("r3", "p1", testDate(2024, time.March, 6), 1, 50, models.RatePerStay, models.StatusConfirmed),
	}

	grid := Project(bookings, nil, 2024, time.March, testDate(2024, time.March, 1))
	day := findDay(t, grid, testDate(2024, time.March, 5))

	if len(day.Bookings) != 2 {
		t.Fatalf("bookings: %d", len(day.Bookings))
	}
	if day.GuestCount != 5 {
		t.Fatalf("guest count: %d", day.GuestCount)
	}
	// 100 * 2 (per person) + 400 (per stay)
	if day.Revenue != 600 {
		t.Fatalf("revenue: %f", day.Revenue)
	}
}

func TestProjectNonFiniteAmountsContributeZero(t *testing.T) {
	bad := stay("r1", "p1", testDate(2024, time.March, 5), 2, math.NaN(), models.RatePerPerson, models.StatusConfirmed)
	inf := stay("r2", "p1", testDate(2024, time.March, 5), 1, math.Inf(1), models.RatePerStay, models.StatusConfirmed)
	good := stay("r3", "p1", testDate(2024, time.March, 5), 1, 80, models.RatePerStay, models.StatusConfirmed)

	grid := Project([]models.Booking{bad, inf, good}, nil, 2024, time.March, testDate(2024, time.March, 1))
	day := findDay(t, grid, testDate(2024, time.March, 5))

	if day.Revenue != 80 {
		t.Fatalf("revenue: %f", day.Revenue)
	}
	if math.IsNaN(day.Revenue) || math.IsInf(day.Revenue, 0) {
		t.Fatalf("aggregate not finite: %f", day.Revenue)
	}
}

func TestProjectSourceDayTotalOverridesLocalRecomputation(t *testing.T) {
	bookings := []models.Booking{
		stay("r1", "p1", testDate(2024, time.March, 5), 2, 100, models.RatePerPerson, models.StatusConfirmed),
	}
	totals := map[string]models.DayTotal{
		"2024-03-05": {Date: "2024-03-05", Bookings: 4, Guests: 9, Revenue: 1234},
	}

	grid := Project(bookings, totals, 2024, time.March, testDate(2024, time.March, 1))
	day := findDay(t, grid, testDate(2024, time.March, 5))

	if day.GuestCount != 9 || day.Revenue != 1234 {
		t.Fatalf("authoritative totals ignored: %+v", day)
	}
	// The booking list itself is still local.
	if len(day.Bookings) != 1 {
		t.Fatalf("bookings: %d", len(day.Bookings))
	}
}

func TestProjectPaddingDaysCarryBookings(t *testing.T) {
	// Feb 28 sits in March 2024's leading padding.
	padded := stay("r9", "p1", testDate(2024, time.February, 28), 2, 90, models.RatePerStay, models.StatusConfirmed)

	grid := Project([]models.Booking{padded}, nil, 2024, time.March, testDate(2024, time.March, 1))
	day := findDay(t, grid, testDate(2024, time.February, 28))

	if day.InMonth {
		t.Fatalf("padding day flagged as in month")
	}
	if len(day.Bookings) != 1 || day.Bookings[0].ID != "r9" {
		t.Fatalf("padding day bookings: %+v", day.Bookings)
	}
}

func TestProjectMarksToday(t *testing.T) {
	now := testDate(2024, time.March, 15)
	grid := Project(nil, nil, 2024, time.March, now)

	for _, week := range grid.Weeks {
		for _, day := range week {
			want := day.Date.Equal(now)
			if day.Today != want {
				t.Fatalf("today flag for %v: %v", day.Date, day.Today)
			}
		}
	}
}

func findDay(t *testing.T, grid Grid, date time.Time) Day {
	t.Helper()
	for _, week := range grid.Weeks {
		for _, day := range week {
			if day.Date.Equal(date) {
				return day
			}
		}
	}
	t.Fatalf("date %v not in grid", date)
	return Day{}
}
