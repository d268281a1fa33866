// internal/api/calendar/handlers.go
package calendar

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hostfolio/hostfolio/internal/api/apiutil"
	"github.com/hostfolio/hostfolio/internal/booking"
	"github.com/hostfolio/hostfolio/internal/source"
)

var (
	store    *booking.Store
	initOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(s *booking.Store) {
	if s == nil {
		log.Warn().Msg("InitHandlers called with nil store; calendar handlers will be unavailable")
		return
	}
	initOnce.Do(func() {
		store = s
	})
}

// HandleMonth serves GET /api/v1/calendar?year=&month=: the week-aligned
// month grid. The padded grid can spill into the neighbouring months, so
// every window the grid touches is loaded before projecting; overlap
// between those windows is dealt with by the merge step.
func HandleMonth(w http.ResponseWriter, r *http.Request) {
	if store == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	year := parseIntParam(r, "year", now.Year())
	monthNum := parseIntParam(r, "month", int(now.Month()))
	if monthNum < 1 || monthNum > 12 {
		http.Error(w, "month must be between 1 and 12", http.StatusBadRequest)
		return
	}
	month := time.Month(monthNum)

	gridStart, gridEnd := booking.GridRange(year, month, now.Location())
	windows := source.WindowsCovering(gridStart, gridEnd)
	if err := store.EnsureWindows(r.Context(), windows...); err != nil {
		apiutil.RespondError(w, r, err, "Failed to load calendar bookings")
		return
	}

	snap := store.Snapshot()
	grid := booking.Project(snap.Bookings, snap.DayTotals, year, month, now)

	apiutil.RespondJSON(w, r, http.StatusOK, struct {
		booking.Grid
		FailedSources int `json:"failedSources"`
		TotalSources  int `json:"totalSources"`
	}{Grid: grid, FailedSources: snap.FailedSources, TotalSources: snap.TotalSources})
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
