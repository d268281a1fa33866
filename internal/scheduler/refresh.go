package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hostfolio/hostfolio/internal/registry"
)

const refreshTimeout = 30 * time.Second

// RegisterRegistryRefresh schedules a periodic reload of the property
// registry. A failed refresh keeps the previous snapshot; the next tick
// tries again.
func (s *Service) RegisterRegistryRefresh(cronExpr string, reg *registry.Registry) error {
	_, err := s.AddJob("property-registry-refresh", cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		if _, err := reg.Refresh(ctx); err != nil {
			log.Error().Err(err).Msg("Property registry refresh failed")
		}
	})
	return err
}
