// internal/booking/listview.go
package booking

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hostfolio/hostfolio/internal/models"
)

// DefaultPageSize is used when a caller asks for a non-positive page size.
const DefaultPageSize = 20

// ApplyFilters returns the bookings matching every active criterion. Search
// matches case-insensitively as a substring of the property name or the
// guest name; property, status, and type are exact; the date range keeps
// bookings whose check-in date falls inside the inclusive [From, To] span.
func ApplyFilters(bookings []models.Booking, c models.Criteria) []models.Booking {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if search != "" &&
			!strings.Contains(strings.ToLower(b.PropertyName), search) &&
			!strings.Contains(strings.ToLower(b.GuestName), search) {
			continue
		}
		if c.PropertyID != "" && b.PropertyID != c.PropertyID {
			continue
		}
		if c.Status != "" && b.Status != c.Status {
			continue
		}
		if c.Type != "" && b.Type != c.Type {
			continue
		}
		if c.From != nil && b.CheckIn.Before(*c.From) && !models.SameDay(b.CheckIn, *c.From) {
			continue
		}
		if c.To != nil && b.CheckIn.After(*c.To) && !models.SameDay(b.CheckIn, *c.To) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// SortBookings stable-sorts in place. Text fields compare through a collator
// so ordering follows locale conventions rather than raw byte order; numeric
// and time fields compare by value. An unknown field leaves the input order
// untouched.
func SortBookings(bookings []models.Booking, spec models.Sort) {
	less := comparatorFor(spec.Field)
	if less == nil {
		return
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		if spec.Descending {
			return less(bookings[j], bookings[i])
		}
		return less(bookings[i], bookings[j])
	})
}

// collators allocate on every New; reuse one per goroutine via a pool since
// Collator buffers are not safe for concurrent use.
var collatorPool = sync.Pool{
	New: func() any {
		return collate.New(language.Und, collate.Loose)
	},
}

func collatedLess(a, b string) bool {
	col := collatorPool.Get().(*collate.Collator)
	defer collatorPool.Put(col)
	return col.CompareString(a, b) < 0
}

func comparatorFor(field string) func(a, b models.Booking) bool {
	switch field {
	case models.SortByCheckIn:
		return func(a, b models.Booking) bool { return a.CheckIn.Before(b.CheckIn) }
	case models.SortByCheckOut:
		return func(a, b models.Booking) bool { return a.CheckOut.Before(b.CheckOut) }
	case models.SortByCreated:
		return func(a, b models.Booking) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case models.SortByUpdated:
		return func(a, b models.Booking) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case models.SortByProperty:
		return func(a, b models.Booking) bool { return collatedLess(a.PropertyName, b.PropertyName) }
	case models.SortByGuest:
		return func(a, b models.Booking) bool { return collatedLess(a.GuestName, b.GuestName) }
	case models.SortByStatus:
		return func(a, b models.Booking) bool { return collatedLess(a.Status, b.Status) }
	case models.SortByGuests:
		return func(a, b models.Booking) bool { return a.Guests < b.Guests }
	case models.SortByRate:
		return func(a, b models.Booking) bool { return a.Rate < b.Rate }
	default:
		return nil
	}
}

// Paginate slices one page out of the collection. The page number is clamped
// into [1, totalPages]; an empty collection yields a single empty page.
func Paginate(bookings []models.Booking, pageNumber, pageSize int) models.Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(bookings)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageNumber > totalPages {
		pageNumber = totalPages
	}

	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]models.Booking, end-start)
	copy(items, bookings[start:end])

	return models.Page{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// Lister derives list pages and remembers the last criteria so that any
// criteria change resets the requested page back to 1.
type Lister struct {
	mu   sync.Mutex
	last models.Criteria
	seen bool
}

// Query filters, sorts, and paginates. When criteria differ from the
// previous call the requested page number is ignored and page 1 returned.
func (l *Lister) Query(bookings []models.Booking, c models.Criteria, spec models.Sort, pageNumber, pageSize int) models.Page {
	l.mu.Lock()
	if l.seen && !l.last.Equal(c) {
		pageNumber = 1
	}
	l.last = c
	l.seen = true
	l.mu.Unlock()

	filtered := ApplyFilters(bookings, c)
	SortBookings(filtered, spec)
	return Paginate(filtered, pageNumber, pageSize)
}
