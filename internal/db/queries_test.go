package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hostfolio/hostfolio/internal/models"
	"github.com/hostfolio/hostfolio/internal/source"
	"github.com/hostfolio/hostfolio/internal/testutil"
)

func TestPropertiesOrderedByPosition(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	if err := database.CreateProperty(ctx, models.Property{ID: "p2", Name: "Loft"}, 2); err != nil {
		t.Fatalf("create p2: %v", err)
	}
	if err := database.CreateProperty(ctx, models.Property{ID: "p1", Name: "Cabin"}, 1); err != nil {
		t.Fatalf("create p1: %v", err)
	}

	props, err := database.Properties(ctx)
	if err != nil {
		t.Fatalf("properties: %v", err)
	}
	if len(props) != 2 || props[0].ID != "p1" || props[1].ID != "p2" {
		t.Fatalf("props: %+v", props)
	}
	if props[0].Role != "owner" {
		t.Fatalf("default role: %s", props[0].Role)
	}
}

func TestBookingsScopedToWindow(t *testing.T) {
	database := testutil.NewTestDB(t)
	testutil.SeedProperty(t, database, "p1", "Cabin")

	testutil.SeedBooking(t, database, models.Booking{
		PropertyID: "p1", GuestName: "March guest",
		CheckIn: testutil.Date(2024, time.March, 5), CheckOut: testutil.Date(2024, time.March, 8),
		Guests: 2, Rate: 100, RateMode: models.RatePerPerson, Status: models.StatusConfirmed,
	})
	testutil.SeedBooking(t, database, models.Booking{
		PropertyID: "p1", GuestName: "April guest",
		CheckIn: testutil.Date(2024, time.April, 2), CheckOut: testutil.Date(2024, time.April, 4),
		Guests: 1, Rate: 50, RateMode: models.RatePerStay, Status: models.StatusPending,
	})

	feed, err := database.Bookings(context.Background(), "p1", source.Window{Year: 2024, Month: time.March})
	if err != nil {
		t.Fatalf("bookings: %v", err)
	}
	if len(feed.Bookings) != 1 {
		t.Fatalf("bookings: %+v", feed.Bookings)
	}
	b := feed.Bookings[0]
	if b.GuestName != "March guest" || b.PropertyName != "Cabin" {
		t.Fatalf("booking: %+v", b)
	}
}

func TestBookingsComputesDayTotals(t *testing.T) {
	database := testutil.NewTestDB(t)
	testutil.SeedProperty(t, database, "p1", "Cabin")

	testutil.SeedBooking(t, database, models.Booking{
		PropertyID: "p1",
		CheckIn:    testutil.Date(2024, time.March, 5), CheckOut: testutil.Date(2024, time.March, 8),
		Guests: 2, Rate: 100, RateMode: models.RatePerPerson, Status: models.StatusConfirmed,
	})
	testutil.SeedBooking(t, database, models.Booking{
		PropertyID: "p1",
		CheckIn:    testutil.Date(2024, time.March, 5), CheckOut: testutil.Date(2024, time.March, 6),
		Guests: 3, Rate: 400, RateMode: models.RatePerStay, Status: models.StatusPending,
	})

	feed, err := database.Bookings(context.Background(), "p1", source.Window{Year: 2024, Month: time.March})
	if err != nil {
		t.Fatalf("bookings: %v", err)
	}
	if len(feed.DayTotals) != 1 {
		t.Fatalf("day totals: %+v", feed.DayTotals)
	}
	dt := feed.DayTotals[0]
	if dt.Date != "2024-03-05" {
		t.Fatalf("date: %s", dt.Date)
	}
	if dt.Bookings != 2 || dt.Guests != 5 {
		t.Fatalf("counts: %+v", dt)
	}
	// 100 * 2 (per person) + 400 (per stay)
	if dt.Revenue != 600 {
		t.Fatalf("revenue: %f", dt.Revenue)
	}
}

func TestCreateBookingAssignsIDAndTimestamps(t *testing.T) {
	database := testutil.NewTestDB(t)
	testutil.SeedProperty(t, database, "p1", "Cabin")

	created, err := database.CreateBooking(context.Background(), models.Booking{
		PropertyID: "p1", GuestName: "Ada",
		CheckIn: testutil.Date(2024, time.March, 5), CheckOut: testutil.Date(2024, time.March, 8),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("no id assigned")
	}
	if created.Status != models.StatusPending || created.RateMode != models.RatePerStay {
		t.Fatalf("defaults: %+v", created)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("timestamps: %+v", created)
	}
}

func TestCreateBookingRejectsUnknownProperty(t *testing.T) {
	database := testutil.NewTestDB(t)

	_, err := database.CreateBooking(context.Background(), models.Booking{
		PropertyID: "ghost",
		CheckIn:    testutil.Date(2024, time.March, 5),
	})
	if !errors.Is(err, source.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestCreateBookingRejectsReversedStay(t *testing.T) {
	database := testutil.NewTestDB(t)
	testutil.SeedProperty(t, database, "p1", "Cabin")

	_, err := database.CreateBooking(context.Background(), models.Booking{
		PropertyID: "p1",
		CheckIn:    testutil.Date(2024, time.March, 8),
		CheckOut:   testutil.Date(2024, time.March, 5),
	})
	if !errors.Is(err, source.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestUpdateBookingUnknownID(t *testing.T) {
	database := testutil.NewTestDB(t)
	testutil.SeedProperty(t, database, "p1", "Cabin")

	_, err := database.UpdateBooking(context.Background(), models.Booking{
		ID: "ghost", PropertyID: "p1",
		CheckIn: testutil.Date(2024, time.March, 5),
	})
	if !errors.Is(err, source.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestDeleteBooking(t *testing.T) {
	database := testutil.NewTestDB(t)
	testutil.SeedProperty(t, database, "p1", "Cabin")
	created := testutil.SeedBooking(t, database, models.Booking{
		PropertyID: "p1",
		CheckIn:    testutil.Date(2024, time.March, 5), CheckOut: testutil.Date(2024, time.March, 8),
	})

	if err := database.DeleteBooking(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := database.DeleteBooking(context.Background(), created.ID); !errors.Is(err, source.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload on double delete, got %v", err)
	}
}
