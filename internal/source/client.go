// internal/source/client.go
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hostfolio/hostfolio/internal/models"
)

const defaultClientTimeout = 10 * time.Second

// Client talks to the upstream channel API. It implements Source and
// Mutator. Retry and backoff live below this client, in the upstream's SDK
// or proxy; a failed call here is simply a failed call.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for the given base URL and bearer token.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Properties returns the properties visible to the configured token, in the
// upstream's order.
func (c *Client) Properties(ctx context.Context) ([]models.Property, error) {
	var out struct {
		Properties []models.Property `json:"properties"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/properties", nil, &out); err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return out.Properties, nil
}

// Bookings fetches one property's feed for one month window.
func (c *Client) Bookings(ctx context.Context, propertyID string, w Window) (Feed, error) {
	path := fmt.Sprintf("/v1/properties/%s/bookings?month=%s", url.PathEscape(propertyID), w)
	var out wireFeed
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return Feed{}, fmt.Errorf("fetch bookings %s %s: %w", propertyID, w, err)
	}
	feed := Feed{DayTotals: out.DayTotals}
	fallback := models.Property{ID: propertyID}
	for _, raw := range out.Bookings {
		feed.Bookings = append(feed.Bookings, raw.normalize(fallback))
	}
	return feed, nil
}

// CreateBooking submits a new booking and returns the canonical record the
// upstream produced.
func (c *Client) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	var out wireBooking
	if err := c.do(ctx, http.MethodPost, "/v1/bookings", b, &out); err != nil {
		return models.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return out.normalize(models.Property{ID: b.PropertyID, Name: b.PropertyName}), nil
}

// UpdateBooking replaces an existing booking.
func (c *Client) UpdateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	var out wireBooking
	path := "/v1/bookings/" + url.PathEscape(b.ID)
	if err := c.do(ctx, http.MethodPut, path, b, &out); err != nil {
		return models.Booking{}, fmt.Errorf("update booking %s: %w", b.ID, err)
	}
	return out.normalize(models.Property{ID: b.PropertyID, Name: b.PropertyName}), nil
}

// DeleteBooking removes a booking at the upstream.
func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/v1/bookings/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete booking %s: %w", id, err)
	}
	return nil
}

// do is the generic authenticated request primitive. body is JSON-encoded
// when non-nil; out is JSON-decoded from the response when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthenticated)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %w: %s", method, path, ErrInvalidPayload, strings.TrimSpace(string(detail)))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		log.Ctx(ctx).Debug().Int("status", resp.StatusCode).Str("path", path).Msg("Upstream request failed")
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
