package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hostfolio/hostfolio/internal/models"
)

func TestClientProperties(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/properties" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token-123" {
			t.Errorf("authorization: %s", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"properties":[{"id":"p1","name":"Cabin"},{"id":"p2","name":"Loft"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token-123", time.Second)
	props, err := client.Properties(context.Background())
	if err != nil {
		t.Fatalf("properties: %v", err)
	}
	if len(props) != 2 || props[0].ID != "p1" || props[1].Name != "Loft" {
		t.Fatalf("props: %+v", props)
	}
}

func TestClientBookingsNormalizesWireRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("month") != "2024-03" {
			t.Errorf("month: %s", r.URL.Query().Get("month"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"bookings": [
				{"id":"r1","title":"Walk-in","count":3,"price":80,"rateMode":"per-person",
				 "checkIn":"2024-03-05T00:00:00Z","checkOut":"2024-03-07T00:00:00Z","status":"confirmed"}
			],
			"dayTotals": [{"date":"2024-03-05","bookings":1,"guests":3,"revenue":240}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token", time.Second)
	feed, err := client.Bookings(context.Background(), "p1", Window{Year: 2024, Month: time.March})
	if err != nil {
		t.Fatalf("bookings: %v", err)
	}
	if len(feed.Bookings) != 1 {
		t.Fatalf("bookings: %+v", feed.Bookings)
	}
	b := feed.Bookings[0]
	if b.GuestName != "Walk-in" || b.Guests != 3 || b.Rate != 80 || b.RateMode != models.RatePerPerson {
		t.Fatalf("normalized booking: %+v", b)
	}
	if b.PropertyID != "p1" {
		t.Fatalf("property fallback: %s", b.PropertyID)
	}
	if len(feed.DayTotals) != 1 || feed.DayTotals[0].Revenue != 240 {
		t.Fatalf("day totals: %+v", feed.DayTotals)
	}
}

func TestClientMapsAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "stale", time.Second)
	_, err := client.Properties(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestClientMapsRejectedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "check-out before check-in", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token", time.Second)
	_, err := client.CreateBooking(context.Background(), models.Booking{PropertyID: "p1"})
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestClientDeleteBooking(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token", time.Second)
	if err := client.DeleteBooking(context.Background(), "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/v1/bookings/r1" {
		t.Fatalf("request: %s %s", gotMethod, gotPath)
	}
}
