// internal/registry/registry.go

// Package registry caches the property list the current principal may
// aggregate over. Properties load once per session and on explicit refresh.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hostfolio/hostfolio/internal/models"
	"github.com/hostfolio/hostfolio/internal/source"
)

// Registry loads and caches properties from a source. Safe for concurrent
// use.
type Registry struct {
	src source.Source

	mu     sync.RWMutex
	props  []models.Property
	loaded bool
}

// New creates a registry over the given source.
func New(src source.Source) *Registry {
	return &Registry{src: src}
}

// Load returns the property list, fetching it on first use. An empty list is
// a valid result, not an error. Auth and transport failures propagate to the
// caller; both are fatal for aggregation.
func (r *Registry) Load(ctx context.Context) ([]models.Property, error) {
	r.mu.RLock()
	if r.loaded {
		props := r.props
		r.mu.RUnlock()
		return props, nil
	}
	r.mu.RUnlock()
	return r.Refresh(ctx)
}

// Refresh reloads the property list from the source, replacing the cache.
func (r *Registry) Refresh(ctx context.Context) ([]models.Property, error) {
	props, err := r.src.Properties(ctx)
	if err != nil {
		return nil, fmt.Errorf("load property registry: %w", err)
	}

	r.mu.Lock()
	r.props = props
	r.loaded = true
	r.mu.Unlock()

	log.Ctx(ctx).Info().Int("properties", len(props)).Msg("Property registry loaded")
	return props, nil
}

// Cached returns the current snapshot without touching the source. The
// second return is false before the first successful Load.
func (r *Registry) Cached() ([]models.Property, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.props, r.loaded
}
