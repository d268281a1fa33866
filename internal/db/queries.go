// internal/db/queries.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hostfolio/hostfolio/internal/models"
	"github.com/hostfolio/hostfolio/internal/source"
)

const bookingColumns = `b.id, b.property_id, p.name, b.guest_name, b.type,
	b.check_in, b.check_out, b.guests, b.rate, b.rate_mode, b.commission,
	b.status, b.notes, b.created_at, b.updated_at`

// Properties returns all properties ordered by their configured position.
func (db *DB) Properties(ctx context.Context) ([]models.Property, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, role, attributes FROM properties ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	var props []models.Property
	for rows.Next() {
		var p models.Property
		var attrs string
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &attrs); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		if attrs != "" {
			if err := json.Unmarshal([]byte(attrs), &p.Attributes); err != nil {
				return nil, fmt.Errorf("decode property attributes %s: %w", p.ID, err)
			}
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// Bookings returns one property's bookings for a month window together with
// authoritative per-day totals computed in SQL, so calendar consumers do not
// have to recompute them.
func (db *DB) Bookings(ctx context.Context, propertyID string, w source.Window) (source.Feed, error) {
	start := w.Start(time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := db.QueryContext(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings b JOIN properties p ON p.id = b.property_id
		 WHERE b.property_id = ? AND b.check_in >= ? AND b.check_in < ?
		 ORDER BY b.check_in, b.id`,
		propertyID, start, end)
	if err != nil {
		return source.Feed{}, fmt.Errorf("query bookings %s %s: %w", propertyID, w, err)
	}
	defer rows.Close()

	var feed source.Feed
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return source.Feed{}, err
		}
		feed.Bookings = append(feed.Bookings, b)
	}
	if err := rows.Err(); err != nil {
		return source.Feed{}, err
	}

	totals, err := db.dayTotals(ctx, propertyID, start, end)
	if err != nil {
		return source.Feed{}, err
	}
	feed.DayTotals = totals
	return feed, nil
}

func (db *DB) dayTotals(ctx context.Context, propertyID string, start, end time.Time) ([]models.DayTotal, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT date(check_in), COUNT(*), COALESCE(SUM(guests), 0),
		        COALESCE(SUM(CASE WHEN rate_mode = ? THEN rate * guests ELSE rate END), 0)
		 FROM bookings
		 WHERE property_id = ? AND check_in >= ? AND check_in < ?
		 GROUP BY date(check_in)
		 ORDER BY date(check_in)`,
		models.RatePerPerson, propertyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query day totals: %w", err)
	}
	defer rows.Close()

	var totals []models.DayTotal
	for rows.Next() {
		var dt models.DayTotal
		if err := rows.Scan(&dt.Date, &dt.Bookings, &dt.Guests, &dt.Revenue); err != nil {
			return nil, fmt.Errorf("scan day total: %w", err)
		}
		totals = append(totals, dt)
	}
	return totals, rows.Err()
}

// CreateBooking validates and inserts a booking, assigning an ID and
// timestamps. Unknown properties and reversed stay ranges are payload
// errors.
func (db *DB) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	if err := db.validateBooking(ctx, b); err != nil {
		return models.Booking{}, err
	}

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Type == "" {
		b.Type = "reservation"
	}
	if b.RateMode == "" {
		b.RateMode = models.RatePerStay
	}
	if b.Status == "" {
		b.Status = models.StatusPending
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO bookings (id, property_id, guest_name, type, check_in, check_out,
		                       guests, rate, rate_mode, commission, status, notes,
		                       created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.PropertyID, b.GuestName, b.Type, b.CheckIn.UTC(), b.CheckOut.UTC(),
		b.Guests, b.Rate, b.RateMode, b.Commission, b.Status, b.Notes,
		b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return models.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	return db.GetBooking(ctx, b.ID)
}

// UpdateBooking replaces an existing booking's mutable fields. The write and
// the canonical re-read happen in one transaction so the returned record is
// exactly what was stored.
func (db *DB) UpdateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	if err := db.validateBooking(ctx, b); err != nil {
		return models.Booking{}, err
	}

	var updated models.Booking
	err := db.RunInTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE bookings
			 SET property_id = ?, guest_name = ?, type = ?, check_in = ?, check_out = ?,
			     guests = ?, rate = ?, rate_mode = ?, commission = ?, status = ?,
			     notes = ?, updated_at = ?
			 WHERE id = ?`,
			b.PropertyID, b.GuestName, b.Type, b.CheckIn.UTC(), b.CheckOut.UTC(),
			b.Guests, b.Rate, b.RateMode, b.Commission, b.Status,
			b.Notes, time.Now().UTC(), b.ID)
		if err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: unknown booking %s", source.ErrInvalidPayload, b.ID)
		}

		row := tx.QueryRowContext(ctx,
			`SELECT `+bookingColumns+`
			 FROM bookings b JOIN properties p ON p.id = b.property_id
			 WHERE b.id = ?`, b.ID)
		updated, err = scanBooking(row)
		return err
	})
	if err != nil {
		return models.Booking{}, err
	}
	return updated, nil
}

// DeleteBooking removes a booking by ID.
func (db *DB) DeleteBooking(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: unknown booking %s", source.ErrInvalidPayload, id)
	}
	return nil
}

// GetBooking loads one booking by ID.
func (db *DB) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings b JOIN properties p ON p.id = b.property_id
		 WHERE b.id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, fmt.Errorf("%w: unknown booking %s", source.ErrInvalidPayload, id)
	}
	return b, err
}

// CreateProperty inserts a property. Used by seeds and tests.
func (db *DB) CreateProperty(ctx context.Context, p models.Property, position int) error {
	attrs := "{}"
	if len(p.Attributes) > 0 {
		encoded, err := json.Marshal(p.Attributes)
		if err != nil {
			return fmt.Errorf("encode property attributes: %w", err)
		}
		attrs = string(encoded)
	}
	role := p.Role
	if role == "" {
		role = "owner"
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO properties (id, name, role, attributes, position) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, role, attrs, position)
	if err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

func (db *DB) validateBooking(ctx context.Context, b models.Booking) error {
	if b.PropertyID == "" {
		return fmt.Errorf("%w: property id is required", source.ErrInvalidPayload)
	}
	if b.CheckIn.IsZero() {
		return fmt.Errorf("%w: check-in is required", source.ErrInvalidPayload)
	}
	if !b.CheckOut.IsZero() && b.CheckOut.Before(b.CheckIn) {
		return fmt.Errorf("%w: check-out before check-in", source.ErrInvalidPayload)
	}

	var exists int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM properties WHERE id = ?`, b.PropertyID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check property: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: unknown property %s", source.ErrInvalidPayload, b.PropertyID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.PropertyID, &b.PropertyName, &b.GuestName, &b.Type,
		&b.CheckIn, &b.CheckOut, &b.Guests, &b.Rate, &b.RateMode, &b.Commission,
		&b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, err
		}
		return models.Booking{}, fmt.Errorf("scan booking: %w", err)
	}
	return b, nil
}
