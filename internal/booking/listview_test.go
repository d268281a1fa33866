package booking

import (
	"fmt"
	"testing"
	"time"

	"github.com/hostfolio/hostfolio/internal/models"
)

func TestApplyFiltersSearchIsCaseInsensitiveSubstring(t *testing.T) {
	bookings := []models.Booking{
		{ID: "r1", PropertyName: "Seaside Cabin", GuestName: "Ada Lovelace"},
		{ID: "r2", PropertyName: "Mountain Loft", GuestName: "Grace Hopper"},
		{ID: "r3", PropertyName: "Harbor View", GuestName: "Edsger Seaside"},
	}

	out := ApplyFilters(bookings, models.Criteria{Search: "SEASIDE"})
	if len(out) != 2 || out[0].ID != "r1" || out[1].ID != "r3" {
		t.Fatalf("filtered: %+v", out)
	}
}

func TestApplyFiltersCriteriaANDTogether(t *testing.T) {
	bookings := []models.Booking{
		{ID: "r1", PropertyID: "p1", PropertyName: "Cabin", Status: models.StatusConfirmed, Type: "reservation"},
		{ID: "r2", PropertyID: "p1", PropertyName: "Cabin", Status: models.StatusPending, Type: "reservation"},
		{ID: "r3", PropertyID: "p2", PropertyName: "Cabin", Status: models.StatusConfirmed, Type: "reservation"},
		{ID: "r4", PropertyID: "p1", PropertyName: "Cabin", Status: models.StatusConfirmed, Type: "block"},
	}

	out := ApplyFilters(bookings, models.Criteria{
		PropertyID: "p1",
		Status:     models.StatusConfirmed,
		Type:       "reservation",
	})
	if len(out) != 1 || out[0].ID != "r1" {
		t.Fatalf("filtered: %+v", out)
	}
}

func TestApplyFiltersDateRangeIsInclusiveOnCheckIn(t *testing.T) {
	bookings := []models.Booking{
		{ID: "before", CheckIn: testDate(2024, time.March, 4)},
		{ID: "start", CheckIn: testDate(2024, time.March, 5)},
		{ID: "middle", CheckIn: testDate(2024, time.March, 10)},
		{ID: "end", CheckIn: testDate(2024, time.March, 15)},
		{ID: "after", CheckIn: testDate(2024, time.March, 16)},
	}

	from := testDate(2024, time.March, 5)
	to := testDate(2024, time.March, 15)
	out := ApplyFilters(bookings, models.Criteria{From: &from, To: &to})

	if len(out) != 3 {
		t.Fatalf("filtered: %+v", out)
	}
	if out[0].ID != "start" || out[2].ID != "end" {
		t.Fatalf("bounds not inclusive: %+v", out)
	}
}

func TestSortBookingsIsStable(t *testing.T) {
	// Equal rates; input order must survive.
	bookings := []models.Booking{
		{ID: "r1", Rate: 100},
		{ID: "r2", Rate: 100},
		{ID: "r3", Rate: 50},
		{ID: "r4", Rate: 100},
	}

	SortBookings(bookings, models.Sort{Field: models.SortByRate})
	if bookings[0].ID != "r3" {
		t.Fatalf("order: %+v", bookings)
	}
	if bookings[1].ID != "r1" || bookings[2].ID != "r2" || bookings[3].ID != "r4" {
		t.Fatalf("stability lost: %+v", bookings)
	}
}

func TestSortBookingsDescendingFlipsComparator(t *testing.T) {
	bookings := []models.Booking{
		{ID: "r1", CheckIn: testDate(2024, time.March, 1)},
		{ID: "r2", CheckIn: testDate(2024, time.March, 20)},
		{ID: "r3", CheckIn: testDate(2024, time.March, 10)},
	}

	SortBookings(bookings, models.Sort{Field: models.SortByCheckIn, Descending: true})
	if bookings[0].ID != "r2" || bookings[1].ID != "r3" || bookings[2].ID != "r1" {
		t.Fatalf("order: %+v", bookings)
	}
}

func TestSortBookingsTextUsesCollation(t *testing.T) {
	bookings := []models.Booking{
		{ID: "r1", GuestName: "Ärna"},
		{ID: "r2", GuestName: "Zoe"},
		{ID: "r3", GuestName: "ada"},
	}

	SortBookings(bookings, models.Sort{Field: models.SortByGuest})
	// Loose collation folds case and diacritics: ada, Ärna, Zoe.
	if bookings[0].ID != "r3" || bookings[1].ID != "r1" || bookings[2].ID != "r2" {
		t.Fatalf("order: %s %s %s", bookings[0].GuestName, bookings[1].GuestName, bookings[2].GuestName)
	}
}

func TestPaginateLastShortPage(t *testing.T) {
	bookings := make([]models.Booking, 25)
	for i := range bookings {
		bookings[i].ID = fmt.Sprintf("r%02d", i)
	}

	page := Paginate(bookings, 3, 12)
	if len(page.Items) != 1 {
		t.Fatalf("items: %d", len(page.Items))
	}
	if page.TotalPages != 3 || page.TotalItems != 25 || page.PageNumber != 3 {
		t.Fatalf("page: %+v", page)
	}
	if page.Items[0].ID != "r24" {
		t.Fatalf("item: %s", page.Items[0].ID)
	}
}

func TestPaginateClampsOutOfRangePage(t *testing.T) {
	bookings := make([]models.Booking, 25)
	for i := range bookings {
		bookings[i].ID = fmt.Sprintf("r%02d", i)
	}

	page := Paginate(bookings, 10, 12)
	if page.PageNumber != 3 {
		t.Fatalf("page not clamped: %d", page.PageNumber)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items: %d", len(page.Items))
	}

	page = Paginate(bookings, 0, 12)
	if page.PageNumber != 1 {
		t.Fatalf("page not clamped up: %d", page.PageNumber)
	}
}

func TestPaginateEmptyCollection(t *testing.T) {
	page := Paginate(nil, 5, 10)
	if page.PageNumber != 1 || page.TotalPages != 1 || page.TotalItems != 0 {
		t.Fatalf("page: %+v", page)
	}
	if len(page.Items) != 0 {
		t.Fatalf("items: %d", len(page.Items))
	}
}

func TestListerResetsPageWhenCriteriaChange(t *testing.T) {
	bookings := make([]models.Booking, 30)
	for i := range bookings {
		bookings[i].ID = fmt.Sprintf("r%02d", i)
		bookings[i].Status = models.StatusConfirmed
	}

	lister := &Lister{}
	criteria := models.Criteria{Status: models.StatusConfirmed}

	page := lister.Query(bookings, criteria, models.Sort{}, 2, 10)
	if page.PageNumber != 2 {
		t.Fatalf("page: %d", page.PageNumber)
	}

	// Same criteria: the requested page sticks.
	page = lister.Query(bookings, criteria, models.Sort{}, 3, 10)
	if page.PageNumber != 3 {
		t.Fatalf("page: %d", page.PageNumber)
	}

	// Changed criteria: back to page 1 regardless of the request.
	page = lister.Query(bookings, models.Criteria{Status: models.StatusConfirmed, Search: "cabin"}, models.Sort{}, 3, 10)
	if page.PageNumber != 1 {
		t.Fatalf("page not reset: %d", page.PageNumber)
	}
}
