// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hostfolio/hostfolio/internal/api"
	"github.com/hostfolio/hostfolio/internal/api/bookings"
	calendarapi "github.com/hostfolio/hostfolio/internal/api/calendar"
	"github.com/hostfolio/hostfolio/internal/api/dashboard"
	"github.com/hostfolio/hostfolio/internal/config"
)

func newServer(cfg *config.Config) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	registerRoutes(router)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Booking list and mutations
	mux.HandleFunc("GET /api/v1/bookings", bookings.HandleList)
	mux.HandleFunc("POST /api/v1/bookings", bookings.HandleCreate)
	mux.HandleFunc("PUT /api/v1/bookings/{id}", bookings.HandleUpdate)
	mux.HandleFunc("DELETE /api/v1/bookings/{id}", bookings.HandleDelete)

	// Month calendar
	mux.HandleFunc("GET /api/v1/calendar", calendarapi.HandleMonth)

	// Dashboard rollups
	mux.HandleFunc("GET /api/v1/dashboard/summary", dashboard.HandleSummary)
}
