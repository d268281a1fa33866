// internal/booking/store.go
package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hostfolio/hostfolio/internal/models"
	"github.com/hostfolio/hostfolio/internal/registry"
	"github.com/hostfolio/hostfolio/internal/source"
)

// Snapshot is a copied, read-only view of the cache handed to the list,
// calendar, and summary consumers.
type Snapshot struct {
	Bookings      []models.Booking
	DayTotals     map[string]models.DayTotal
	FailedSources int
	TotalSources  int
}

// Store is the session-scoped booking cache. It is the only place merged
// fetch results and single-record patches are written; everything else reads
// through Snapshot. A monotonically increasing epoch tags each LoadWindows
// call so that results of a superseded load (the caller navigated to another
// month mid-flight) are discarded instead of clobbering newer data.
type Store struct {
	reg     *registry.Registry
	fetcher *Fetcher

	mu        sync.RWMutex
	epoch     uint64
	byID      map[string]models.Booking
	dayTotals map[string]models.DayTotal
	failed    int
	total     int
	loaded    map[source.Window]bool
}

// NewStore wires the cache to its registry and fetcher.
func NewStore(reg *registry.Registry, fetcher *Fetcher) *Store {
	return &Store{
		reg:       reg,
		fetcher:   fetcher,
		byID:      make(map[string]models.Booking),
		dayTotals: make(map[string]models.DayTotal),
		loaded:    make(map[source.Window]bool),
	}
}

// LoadWindows fetches the given windows for every registered property,
// merges the outcomes, and replaces the cache. If a newer LoadWindows
// started in the meantime the stale result is dropped instead. An
// empty property registry short-circuits to an empty cache without error.
// Per-window fetch failures degrade to partial data and a failure count;
// only registry errors (auth, transport) are returned.
func (s *Store) LoadWindows(ctx context.Context, windows ...source.Window) error {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	props, err := s.reg.Load(ctx)
	if err != nil {
		return err
	}

	var (
		bookings  []models.Booking
		dayTotals map[string]models.DayTotal
		failed    int
		total     int
	)
	if len(props) > 0 {
		results := s.fetcher.FetchAll(ctx, props, windows)
		bookings, dayTotals, failed = Merge(results)
		total = len(results)
	} else {
		dayTotals = make(map[string]models.DayTotal)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		log.Ctx(ctx).Debug().
			Uint64("epoch", epoch).
			Uint64("current", s.epoch).
			Msg("Discarding superseded window load")
		return nil
	}

	s.byID = make(map[string]models.Booking, len(bookings))
	for _, b := range bookings {
		s.byID[b.ID] = b
	}
	s.dayTotals = dayTotals
	s.failed = failed
	s.total = total
	s.loaded = make(map[source.Window]bool, len(windows))
	for _, w := range windows {
		s.loaded[w] = true
	}
	return nil
}

// EnsureWindows loads only when some requested window is not already in the
// cache, so month navigation back to a loaded month is free.
func (s *Store) EnsureWindows(ctx context.Context, windows ...source.Window) error {
	s.mu.RLock()
	missing := false
	for _, w := range windows {
		if !s.loaded[w] {
			missing = true
			break
		}
	}
	s.mu.RUnlock()
	if !missing {
		return nil
	}
	return s.LoadWindows(ctx, windows...)
}

// ApplyCreate patches a newly created booking into the cache. The check-in
// date's authoritative day total is dropped so calendar rollups recompute
// locally until the next window load.
func (s *Store) ApplyCreate(b models.Booking) {
	s.mu.Lock()
	s.byID[b.ID] = b
	s.invalidateDayTotal(b.CheckIn)
	s.mu.Unlock()
}

// ApplyUpdate replaces exactly the affected booking. A booking the cache has
// never seen is inserted; the session may legitimately learn about records
// through mutations before the next window load. Day totals for both the old
// and the new check-in date are dropped.
func (s *Store) ApplyUpdate(b models.Booking) {
	s.mu.Lock()
	if old, ok := s.byID[b.ID]; ok {
		s.invalidateDayTotal(old.CheckIn)
	}
	s.byID[b.ID] = b
	s.invalidateDayTotal(b.CheckIn)
	s.mu.Unlock()
}

// ApplyDelete removes one booking by ID and drops its check-in date's day
// total, so a deleted booking stops contributing to rollups immediately.
func (s *Store) ApplyDelete(id string) {
	s.mu.Lock()
	if old, ok := s.byID[id]; ok {
		s.invalidateDayTotal(old.CheckIn)
	}
	delete(s.byID, id)
	s.mu.Unlock()
}

// invalidateDayTotal drops the source-computed rollup for one check-in date.
// Callers must hold the write lock. Both the UTC and local renderings of the
// date are dropped, since feed day-total keys and grid cell keys may disagree
// on the timezone the date string was derived in.
func (s *Store) invalidateDayTotal(checkIn time.Time) {
	delete(s.dayTotals, checkIn.UTC().Format(dateLayout))
	delete(s.dayTotals, checkIn.Local().Format(dateLayout))
}

// Snapshot copies the current cache, ordered by (check-in, ID).
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]models.Booking, 0, len(s.byID))
	for _, b := range s.byID {
		bookings = append(bookings, b)
	}
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].CheckIn.Equal(bookings[j].CheckIn) {
			return bookings[i].CheckIn.Before(bookings[j].CheckIn)
		}
		return bookings[i].ID < bookings[j].ID
	})

	dayTotals := make(map[string]models.DayTotal, len(s.dayTotals))
	for k, v := range s.dayTotals {
		dayTotals[k] = v
	}

	return Snapshot{
		Bookings:      bookings,
		DayTotals:     dayTotals,
		FailedSources: s.failed,
		TotalSources:  s.total,
	}
}
