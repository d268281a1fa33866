// internal/api/bookings/handlers.go
package bookings

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hostfolio/hostfolio/internal/api/apiutil"
	"github.com/hostfolio/hostfolio/internal/booking"
	"github.com/hostfolio/hostfolio/internal/models"
	"github.com/hostfolio/hostfolio/internal/source"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
	idParam     = "id"
)

var (
	store    *booking.Store
	mutator  source.Mutator
	lister   *booking.Lister
	initOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(s *booking.Store, m source.Mutator) {
	if s == nil {
		log.Warn().Msg("InitHandlers called with nil store; booking handlers will be unavailable")
		return
	}
	initOnce.Do(func() {
		store = s
		mutator = m
		lister = &booking.Lister{}
	})
}

// HandleList serves GET /api/v1/bookings: the filtered, sorted, paginated
// booking list over the months the request's criteria touch.
func HandleList(w http.ResponseWriter, r *http.Request) {
	if store == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	criteria, err := parseCriteria(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	spec := parseSort(r)
	pageNumber := parseIntParam(r, "page", 1)
	pageSize := parseIntParam(r, "page_size", booking.DefaultPageSize)

	windows, err := parseWindows(r, criteria)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := store.EnsureWindows(r.Context(), windows...); err != nil {
		apiutil.RespondError(w, r, err, "Failed to load bookings")
		return
	}

	snap := store.Snapshot()
	page := lister.Query(snap.Bookings, criteria, spec, pageNumber, pageSize)
	apiutil.RespondJSON(w, r, http.StatusOK, page)
}

// HandleCreate serves POST /api/v1/bookings. The mutation goes to the system
// of record first; only its canonical result is patched into the cache, so a
// rejected payload leaves the cache untouched.
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	if store == nil || mutator == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var payload models.Booking
	if err := apiutil.DecodeJSON(r, &payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := mutator.CreateBooking(r.Context(), payload)
	if err != nil {
		apiutil.RespondError(w, r, err, "Failed to create booking")
		return
	}

	store.ApplyCreate(created)
	apiutil.RespondJSON(w, r, http.StatusCreated, created)
}

// HandleUpdate serves PUT /api/v1/bookings/{id}.
func HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if store == nil || mutator == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(r.PathValue(idParam))
	if id == "" {
		http.Error(w, "Booking id is required", http.StatusBadRequest)
		return
	}

	var payload models.Booking
	if err := apiutil.DecodeJSON(r, &payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	payload.ID = id

	updated, err := mutator.UpdateBooking(r.Context(), payload)
	if err != nil {
		apiutil.RespondError(w, r, err, "Failed to update booking")
		return
	}

	store.ApplyUpdate(updated)
	apiutil.RespondJSON(w, r, http.StatusOK, updated)
}

// HandleDelete serves DELETE /api/v1/bookings/{id}.
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	if store == nil || mutator == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(r.PathValue(idParam))
	if id == "" {
		http.Error(w, "Booking id is required", http.StatusBadRequest)
		return
	}

	if err := mutator.DeleteBooking(r.Context(), id); err != nil {
		apiutil.RespondError(w, r, err, "Failed to delete booking")
		return
	}

	store.ApplyDelete(id)
	w.WriteHeader(http.StatusNoContent)
}

// parseCriteria reads filter params shared by the list and dashboard
// endpoints.
func parseCriteria(r *http.Request) (models.Criteria, error) {
	query := r.URL.Query()
	c := models.Criteria{
		Search:     strings.TrimSpace(query.Get("search")),
		PropertyID: strings.TrimSpace(query.Get("property_id")),
		Status:     strings.ToLower(strings.TrimSpace(query.Get("status"))),
		Type:       strings.TrimSpace(query.Get("type")),
	}

	if raw := strings.TrimSpace(query.Get("from")); raw != "" {
		from, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return models.Criteria{}, fmt.Errorf("from must be in YYYY-MM-DD format")
		}
		c.From = &from
	}
	if raw := strings.TrimSpace(query.Get("to")); raw != "" {
		to, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return models.Criteria{}, fmt.Errorf("to must be in YYYY-MM-DD format")
		}
		c.To = &to
	}
	if c.From != nil && c.To != nil && c.To.Before(*c.From) {
		return models.Criteria{}, fmt.Errorf("to must not be before from")
	}
	return c, nil
}

func parseSort(r *http.Request) models.Sort {
	query := r.URL.Query()
	field := strings.TrimSpace(query.Get("sort"))
	if field == "" {
		field = models.SortByCheckIn
	}
	return models.Sort{
		Field:      field,
		Descending: strings.EqualFold(strings.TrimSpace(query.Get("dir")), "desc"),
	}
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// parseWindows resolves which month windows the request needs: an explicit
// ?month=YYYY-MM, the criteria's date range, or the current month.
func parseWindows(r *http.Request, c models.Criteria) ([]source.Window, error) {
	if raw := strings.TrimSpace(r.URL.Query().Get("month")); raw != "" {
		month, err := time.ParseInLocation(monthLayout, raw, time.Local)
		if err != nil {
			return nil, fmt.Errorf("month must be in YYYY-MM format")
		}
		return []source.Window{source.WindowOf(month)}, nil
	}
	if c.From != nil || c.To != nil {
		from, to := c.From, c.To
		// An open-ended range clamps to the set bound's own month.
		if from == nil {
			from = to
		}
		if to == nil {
			to = from
		}
		return source.WindowsCovering(*from, *to), nil
	}
	return []source.Window{source.WindowOf(time.Now())}, nil
}
