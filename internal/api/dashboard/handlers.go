// internal/api/dashboard/handlers.go
package dashboard

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hostfolio/hostfolio/internal/api/apiutil"
	"github.com/hostfolio/hostfolio/internal/booking"
	"github.com/hostfolio/hostfolio/internal/models"
	"github.com/hostfolio/hostfolio/internal/source"
)

const dateLayout = "2006-01-02"

var (
	store    *booking.Store
	initOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(s *booking.Store) {
	if s == nil {
		log.Warn().Msg("InitHandlers called with nil store; dashboard handlers will be unavailable")
		return
	}
	initOnce.Do(func() {
		store = s
	})
}

// HandleSummary serves GET /api/v1/dashboard/summary: rollup statistics over
// the filtered collection, plus the "N of M sources failed" indicator so
// partial data is labelled rather than hidden.
func HandleSummary(w http.ResponseWriter, r *http.Request) {
	if store == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	criteria, err := parseCriteria(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	windows := []source.Window{source.WindowOf(time.Now())}
	if criteria.From != nil || criteria.To != nil {
		from, to := criteria.From, criteria.To
		// An open-ended range clamps to the set bound's own month.
		if from == nil {
			from = to
		}
		if to == nil {
			to = from
		}
		windows = source.WindowsCovering(*from, *to)
	}
	if err := store.EnsureWindows(r.Context(), windows...); err != nil {
		apiutil.RespondError(w, r, err, "Failed to load booking summary")
		return
	}

	snap := store.Snapshot()
	filtered := booking.ApplyFilters(snap.Bookings, criteria)
	summary := booking.Summarize(filtered, time.Now())
	summary.FailedSources = snap.FailedSources
	summary.TotalSources = snap.TotalSources

	apiutil.RespondJSON(w, r, http.StatusOK, summary)
}

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
	return c, nil
}
